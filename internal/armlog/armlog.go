// This file is part of the armcore emulator.
//
// armcore is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// armcore is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with armcore. If not, see <https://www.gnu.org/licenses/>.

// Package armlog is the structured logger shared by the register file,
// executor, memory system, System Control Space and driver, backed by zerolog so the
// embedding host gets leveled, structured output it can redirect or
// silence.
package armlog

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu     sync.Mutex
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}).With().Timestamp().Logger().Level(zerolog.WarnLevel)
)

// SetOutput redirects all future log output to w. Intended for hosts that
// want to capture or silence diagnostics (e.g. during tests).
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = zerolog.New(w).With().Timestamp().Logger().Level(logger.GetLevel())
}

// SetLevel adjusts the minimum level that will be emitted. Hosts that want
// decode/execute tracing should lower this to zerolog.DebugLevel.
func SetLevel(lvl zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()
	logger = logger.Level(lvl)
}

func with(component string) *zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	l := logger.With().Str("component", component).Logger()
	return &l
}

// Debugf logs a low-level tracing message tagged with component (decode,
// exec, memsys, scs, core...).
func Debugf(component, format string, args ...any) {
	with(component).Debug().Msgf(format, args...)
}

// Warnf logs a recoverable anomaly (unimplemented instruction, ignored
// reserved-bit write, etc).
func Warnf(component, format string, args ...any) {
	with(component).Warn().Msgf(format, args...)
}

// Errorf logs a fault that is about to be escalated or returned to the host.
func Errorf(component, format string, args ...any) {
	with(component).Error().Msgf(format, args...)
}
