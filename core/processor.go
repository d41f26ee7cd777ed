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

// Package core is the execution driver and exception engine: the
// fetch/decode/execute/tick loop, hook dispatch before each instruction,
// and the Cortex-M exception entry/return protocol with its
// fault-escalation policy.
package core

import (
	"errors"
	"fmt"

	"github.com/gothumb/armcore/config"
	"github.com/gothumb/armcore/cpu"
	"github.com/gothumb/armcore/decode"
	"github.com/gothumb/armcore/exec"
	"github.com/gothumb/armcore/internal/armerr"
	"github.com/gothumb/armcore/internal/armlog"
	"github.com/gothumb/armcore/memsys"
	"github.com/gothumb/armcore/scs"
)

// HookFunc is called before the instruction at its registered address
// executes. Returning stop=true halts the run loop after the hook runs
// (the instruction at that address is not executed this call).
type HookFunc func(p *Processor) (stop bool)

type hookEntry struct {
	id int
	fn HookFunc
}

// Processor is the complete machine: registers, address space, System
// Control Space, and the host-visible hook table.
type Processor struct {
	Reg cpu.Registers
	Bus *memsys.Bus
	SCS *scs.SCS

	profile config.Profile

	// hooks is keyed by PC so the per-instruction check is a single map
	// probe rather than a list walk.
	hooks      map[uint32][]hookEntry
	hookAddrs  map[int]uint32
	nextHookID int
}

// New constructs a Processor for the given profile with a fresh, empty
// address space. The caller maps RAM/ROM/peripherals via Bus before
// running any code.
func New(profile config.Profile) *Processor {
	p := &Processor{
		Bus:       memsys.NewBus(),
		profile:   profile,
		hooks:     make(map[uint32][]hookEntry),
		hookAddrs: make(map[int]uint32),
	}
	p.SCS = scs.New(profile.SCSProfile(), profile.NumExternalIRQs, profile.OnSysResetReq)
	if err := p.Bus.MapPeripheral(scs.Base, 0xf00, p.SCS); err != nil {
		armlog.Errorf("core", "failed to map System Control Space: %v", err)
	}
	p.Reg.Reset()
	return p
}

// SetPC sets the address of the next instruction to fetch.
func (p *Processor) SetPC(v uint32) { p.Reg.SetPC(v) }

// SetSP sets the currently-active stack pointer (MSP or PSP, whichever
// CONTROL.SPSEL/mode currently selects).
func (p *Processor) SetSP(v uint32) { p.Reg.SetR(13, v) }

// Register reads general-purpose register n (0-15), following the same
// r15-reads-as-PC+4 convention instructions observe.
func (p *Processor) Register(n int) uint32 { return p.Reg.R(n) }

// SetRegister writes general-purpose register n (0-15) directly, bypassing
// any instruction-level interworking semantics -- intended for host setup
// and test fixtures, not for simulating instruction side effects.
func (p *Processor) SetRegister(n int, v uint32) { p.Reg.SetR(n, v) }

// SetPending marks exception number n pending -- the host-driven
// exception-injection entry point.
func (p *Processor) SetPending(n uint32) { p.SCS.SetPending(n) }

// AddHook registers fn to run immediately before the instruction at addr
// executes. Returns a handle for RemoveHook.
func (p *Processor) AddHook(addr uint32, fn HookFunc) int {
	p.nextHookID++
	id := p.nextHookID
	p.hooks[addr] = append(p.hooks[addr], hookEntry{id: id, fn: fn})
	p.hookAddrs[id] = addr
	return id
}

// RemoveHook unregisters a hook previously returned by AddHook.
func (p *Processor) RemoveHook(id int) {
	addr, ok := p.hookAddrs[id]
	if !ok {
		return
	}
	delete(p.hookAddrs, id)
	entries := p.hooks[addr]
	for i, h := range entries {
		if h.id == id {
			entries = append(entries[:i], entries[i+1:]...)
			break
		}
	}
	if len(entries) == 0 {
		delete(p.hooks, addr)
	} else {
		p.hooks[addr] = entries
	}
}

func (p *Processor) runHooks(pc uint32) bool {
	stop := false
	for _, h := range p.hooks[pc] {
		if h.fn(p) {
			stop = true
		}
	}
	return stop
}

// Reset performs the architectural reset sequence: registers cleared,
// Thread mode on MSP, then SP and PC loaded from the first two vector
// table entries at VTOR (entry 0 is the initial MSP, entry 1 the reset
// vector with its Thumb bit set).
func (p *Processor) Reset() error {
	p.Reg.Reset()
	initialSP, err := p.Bus.ReadBytes(p.SCS.VTOR()+0, 4)
	if err != nil {
		return err
	}
	resetVector, err := p.Bus.ReadBytes(p.SCS.VTOR()+4, 4)
	if err != nil {
		return err
	}
	p.Reg.SetMSP(initialSP)
	p.Reg.SetPC(resetVector &^ 1)
	return nil
}

// currentPriority computes the processor's current execution priority:
// the lowest (numerically) priority among currently-active exceptions, or
// 256 (below any configurable priority) at thread level, floored by
// BASEPRI when it is set to a non-zero value. Preemption itself (whether a
// running handler can be interrupted by a higher one) is not modelled;
// this only feeds the "should Step take something now" check evaluated
// between instructions.
func (p *Processor) currentPriority() int {
	base := 256
	if bp := p.Reg.BASEPRI(); bp != 0 {
		base = int(bp)
	}
	best := base
	for n := uint32(1); n <= 255; n++ {
		if p.SCS.IsActive(n) {
			if prio := p.SCS.Priority(n); prio < best {
				best = prio
			}
		}
	}
	return best
}

// fetchDescriptor fetches and decodes the instruction at pc, reading the
// second halfword only when the first halfword's leading bits mark a
// 32-bit Thumb-2 encoding.
func (p *Processor) fetchDescriptor(pc uint32) (decode.Descriptor, error) {
	hw1, err := p.Bus.ReadHalfwordForFetch(pc)
	if err != nil {
		return decode.Descriptor{}, err
	}
	var hw2 uint16
	if decode.Is32Bit(hw1) {
		hw2, err = p.Bus.ReadHalfwordForFetch(pc + 2)
		if err != nil {
			return decode.Descriptor{}, err
		}
	}
	return decode.Decode(hw1, hw2, pc), nil
}

func (p *Processor) execContext() *exec.Context {
	return &exec.Context{
		Reg:           &p.Reg,
		Bus:           p.Bus,
		PendException: p.SCS.SetPending,
	}
}

// escalate turns a Go error raised mid-instruction into either a returned
// error (host sees it directly) or a vectored fault, per the profile's
// EscalateFaultsToHardFault policy.
func (p *Processor) escalate(err error) (StepResult, error) {
	if !p.profile.EscalateFaultsToHardFault || !isArchitecturalOrMemoryFault(err) {
		return StepResult{}, err
	}
	armlog.Warnf("core", "escalating fault to HardFault: %v", err)
	if entryErr := p.enterException(scs.ExcHardFault); entryErr != nil {
		return StepResult{}, fmt.Errorf("escalating fault to HardFault: %w", entryErr)
	}
	return StepResult{Faulted: true, FaultError: err}, nil
}

func isArchitecturalOrMemoryFault(err error) bool {
	var memErr *armerr.MemoryError
	var archErr *armerr.ArchitecturalFault
	var undefErr *armerr.UndefinedInstruction
	var unimplErr *armerr.UnimplementedInstruction
	return errors.As(err, &memErr) || errors.As(err, &archErr) ||
		errors.As(err, &undefErr) || errors.As(err, &unimplErr)
}
