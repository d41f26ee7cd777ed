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

// Command armstep is a thin example host for the armcore library: load a
// raw Thumb binary, map it at a chosen address, and run it for a gas
// budget, printing the final register file. It lives outside the core
// packages -- the library itself has zero CLI coupling.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gothumb/armcore/config"
	"github.com/gothumb/armcore/core"
	"github.com/gothumb/armcore/internal/armlog"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		loadAddr uint32
		entry    uint32
		sp       uint32
		gas      int
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "armstep <binary>",
		Short: "Load and run a raw Thumb binary against armcore",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				armlog.SetLevel(zerolog.DebugLevel)
				armlog.SetOutput(os.Stderr)
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			p := core.New(config.DefaultProfile())
			if err := p.Bus.MapROM(loadAddr, data); err != nil {
				return fmt.Errorf("mapping image: %w", err)
			}
			// A generous scratch RAM region for stack and data, separate
			// from the image itself.
			if err := p.Bus.Map(0x20000000, make([]byte, 0x10000)); err != nil {
				return fmt.Errorf("mapping RAM: %w", err)
			}

			if sp != 0 {
				p.SetSP(sp)
			} else {
				p.SetSP(0x20010000)
			}
			p.SetPC(entry)

			res, runErr := p.Run(core.RunOptions{Gas: gas, StopOnBkpt: true})
			printRegisters(cmd, p)
			fmt.Fprintf(cmd.OutOrStdout(), "stopped: %s after %d step(s)\n", res.Reason, res.Steps)
			if res.Reason == core.StopBreakpoint {
				fmt.Fprintf(cmd.OutOrStdout(), "breakpoint imm=%d\n", res.BkptImm)
			}
			return runErr
		},
	}

	cmd.Flags().Uint32Var(&loadAddr, "load-addr", 0, "address to map the binary at")
	cmd.Flags().Uint32Var(&entry, "entry", 0, "initial PC")
	cmd.Flags().Uint32Var(&sp, "sp", 0, "initial stack pointer (default 0x20010000)")
	cmd.Flags().IntVar(&gas, "gas", 1000, "maximum instructions to execute (negative = unlimited)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level tracing")

	return cmd
}

func printRegisters(cmd *cobra.Command, p *core.Processor) {
	out := cmd.OutOrStdout()
	for i := 0; i <= 12; i++ {
		fmt.Fprintf(out, "r%-2d = 0x%08x\n", i, p.Register(i))
	}
	fmt.Fprintf(out, "sp  = 0x%08x\n", p.Register(13))
	fmt.Fprintf(out, "lr  = 0x%08x\n", p.Register(14))
	fmt.Fprintf(out, "pc  = 0x%08x\n", p.Reg.PC())
}
