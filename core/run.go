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

package core

// StopReason names why Run stopped.
type StopReason int

const (
	StopGasExhausted StopReason = iota
	StopBreakpoint
	StopHook
	StopWfi
	StopWfe
	StopFault
)

func (r StopReason) String() string {
	switch r {
	case StopBreakpoint:
		return "breakpoint"
	case StopHook:
		return "hook"
	case StopWfi:
		return "wfi"
	case StopWfe:
		return "wfe"
	case StopFault:
		return "fault"
	default:
		return "gas-exhausted"
	}
}

// RunOptions configures Run.
type RunOptions struct {
	// Gas is the maximum number of instructions to step. A gas budget of
	// zero returns immediately at the current instruction boundary; a
	// negative budget is unlimited (Run still stops on a breakpoint, hook,
	// WFI/WFE, or fault).
	Gas int

	// StopOnBkpt stops Run as soon as a BKPT instruction executes.
	StopOnBkpt bool
}

// RunResult summarises a completed Run call.
type RunResult struct {
	Steps      int
	Reason     StopReason
	BkptImm    uint32
	FaultError error
}

// Run steps the processor repeatedly until the gas budget is exhausted, a
// hook requests a stop, a breakpoint is hit (if StopOnBkpt), a WFI/WFE
// suspends with nothing pending, or a fault is escalated.
func (p *Processor) Run(opts RunOptions) (RunResult, error) {
	steps := 0
	for {
		if opts.Gas >= 0 && steps >= opts.Gas {
			return RunResult{Steps: steps, Reason: StopGasExhausted}, nil
		}

		res, err := p.Step()
		if err != nil {
			return RunResult{Steps: steps, Reason: StopFault}, err
		}
		if res.HookStopped {
			// The hooked instruction did not execute; don't count it.
			return RunResult{Steps: steps, Reason: StopHook}, nil
		}
		steps++

		if res.Faulted {
			return RunResult{Steps: steps, Reason: StopFault, FaultError: res.FaultError}, nil
		}
		if res.Breakpoint && opts.StopOnBkpt {
			return RunResult{Steps: steps, Reason: StopBreakpoint, BkptImm: res.BkptImm}, nil
		}
		// WFI/WFE suspend execution until any exception pends; if one is
		// already pending the next Step takes it, so keep going.
		if (res.Wfi || res.Wfe) && !p.SCS.AnyPending() {
			reason := StopWfi
			if res.Wfe {
				reason = StopWfe
			}
			return RunResult{Steps: steps, Reason: reason}, nil
		}
	}
}
