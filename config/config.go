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

// Package config holds the small, host-supplied Profile value that
// selects an architecture variant and the handful of policy choices left
// to the embedder: whether a fault escalates to HardFault automatically,
// and how many external interrupt lines exist. There is no file or
// environment-variable loading here -- a host embeds this core as a
// library and constructs a Profile directly in Go.
package config

import "github.com/gothumb/armcore/scs"

// Architecture selects which Cortex-M architecture profile the decoder and
// exception model should behave as.
type Architecture int

const (
	ArchV6M Architecture = iota
	ArchV7M
	ArchV7EM
	ArchV8M
)

func (a Architecture) scsProfile() scs.Profile {
	switch a {
	case ArchV6M:
		return scs.ProfileV6M
	case ArchV7EM:
		return scs.ProfileV7EM
	case ArchV8M:
		return scs.ProfileV8M
	default:
		return scs.ProfileV7M
	}
}

// Profile bundles the choices a host makes when constructing a Processor.
type Profile struct {
	Architecture Architecture

	// NumExternalIRQs sizes the NVIC's pending/enable/active/priority
	// tables for external interrupt lines 0..NumExternalIRQs-1.
	NumExternalIRQs int

	// EscalateFaultsToHardFault controls what happens when an instruction
	// raises an architectural fault (bus error, usage fault, mem manage):
	// if true, the driver vectors to the HardFault handler instead of
	// surfacing the fault as a Go error from Step/Run. Hosts driving a
	// conformance-test harness may prefer false, to inspect the fault
	// directly without the handler detour.
	EscalateFaultsToHardFault bool

	// OnSysResetReq is invoked when guest code writes AIRCR.SYSRESETREQ.
	// May be nil.
	OnSysResetReq func()
}

// SCSProfile returns the scs.Profile equivalent of this Profile's
// Architecture selection, for constructing the Processor's System Control
// Space.
func (p Profile) SCSProfile() scs.Profile {
	return p.Architecture.scsProfile()
}

// DefaultProfile returns a reasonable ARMv7-M configuration: one external
// IRQ line and faults escalated to the HardFault handler, matching a
// typical Cortex-M3/M4 target.
func DefaultProfile() Profile {
	return Profile{
		Architecture:              ArchV7M,
		NumExternalIRQs:           1,
		EscalateFaultsToHardFault: true,
	}
}
