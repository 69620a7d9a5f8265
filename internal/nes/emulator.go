// Package nes wires the cartridge, CPU, PPU, APU and bus into a single
// cycle-accurate emulator and exposes the driver surface a host loop
// needs: stepping at several granularities, controller input,
// framebuffer and audio retrieval, and battery-RAM persistence.
package nes

import (
	"fmt"

	"github.com/nescore/nesbox/internal/apu"
	"github.com/nescore/nesbox/internal/bus"
	"github.com/nescore/nesbox/internal/cartridge"
	"github.com/nescore/nesbox/internal/cpu"
	"github.com/nescore/nesbox/internal/input"
	"github.com/nescore/nesbox/internal/nlog"
	"github.com/nescore/nesbox/internal/ppu"
)

// Button identifies one controller button; bit positions match the
// shift-register load order spec.md §6 defines.
type Button = input.Button

const (
	ButtonA      = input.ButtonA
	ButtonB      = input.ButtonB
	ButtonSelect = input.ButtonSelect
	ButtonStart  = input.ButtonStart
	ButtonUp     = input.ButtonUp
	ButtonDown   = input.ButtonDown
	ButtonLeft   = input.ButtonLeft
	ButtonRight  = input.ButtonRight
)

// Emulator owns every emulated component and drives them at the
// correct clock ratio: one CPU cycle per three PPU dots, with the APU
// clocked alongside the CPU. Once a Cycle* call returns a non-nil
// error the emulator is quiescent — every subsequent call returns the
// same error until Reset.
type Emulator struct {
	config Config
	log    *nlog.Logger

	cart        *cartridge.Cartridge
	cpu         *cpu.CPU
	ppu         *ppu.PPU
	apu         *apu.APU
	bus         *bus.Bus
	controller1 *input.Controller
	controller2 *input.Controller

	// dotPhase is the position (0, 1, 2) within the current group of
	// three PPU dots that make up one CPU cycle; a CPU/APU tick fires
	// when it wraps back to 0.
	dotPhase int
	// cpuCyclesRemaining counts whole CPU cycles left to account for
	// in the instruction currently "in flight": cpu.Step executes an
	// instruction atomically and reports its total cycle cost, and
	// this field lets Cycle() spend that cost one CPU-cycle-worth (3
	// PPU dots) at a time, so PPU/APU state is observable
	// mid-instruction instead of jumping straight to the end of it.
	cpuCyclesRemaining int
	// justCompletedInstruction is set by Cycle when the dot it just
	// advanced was the last of the instruction in flight, and read by
	// CycleUntilCPU to know when to stop.
	justCompletedInstruction bool

	lastErr error

	rgba [256 * 240 * 4]uint8
}

// New constructs an Emulator from an iNES ROM image. hostSampleRate is
// the sample rate DrainAudio's output is resampled to; there is no
// zero-argument constructor, since the resampler needs it up front to
// size its decimation accumulator.
func New(rom []byte, hostSampleRate uint32, opts ...Option) (*Emulator, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Region != RegionNTSC {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedRegion, cfg.Region)
	}

	cart, err := cartridge.Load(rom)
	if err != nil {
		return nil, wrapLoadError(err)
	}

	e := &Emulator{
		config: cfg,
		log:    nlog.Discard(),
		cart:   cart,
	}
	e.wire(hostSampleRate)
	return e, nil
}

// wire constructs PPU/APU/Bus/CPU and resolves their cyclic references
// via post-construction setters: the CPU needs a Bus at construction,
// the Bus needs the CPU's cycle counter for OAM-DMA timing, the PPU
// needs the CPU as its NMI target, and the APU needs both the Bus (DMC
// sample fetches) and the CPU (frame/DMC IRQ delivery).
func (e *Emulator) wire(hostSampleRate uint32) {
	e.ppu = ppu.New(e.cart, nil)
	e.apu = apu.New(nil, nil, hostSampleRate)
	e.controller1 = input.New()
	e.controller2 = input.New()
	e.bus = bus.New(e.cart, e.ppu, e.apu, e.controller1, e.controller2)
	e.cpu = cpu.New(e.bus)

	e.bus.SetCPU(e.cpu)
	e.ppu.SetNMITarget(e.cpu)
	e.apu.SetDMCBus(e.bus)
	e.apu.SetIRQTarget(e.cpu)
}

// Reset re-initializes CPU, PPU, APU and the pending-DMA/stall state
// without discarding RAM or cartridge battery RAM, then clears the
// quiescent error so Cycle* calls resume.
func (e *Emulator) Reset() {
	e.cpu.Reset()
	e.ppu.Reset()
	e.apu.Reset()
	e.controller1.Reset()
	e.controller2.Reset()
	e.dotPhase = 0
	e.cpuCyclesRemaining = 0
	e.justCompletedInstruction = false
	e.lastErr = nil
}

// Cycle advances the emulator by exactly one master tick: one PPU dot.
// Every third dot also advances the CPU and APU by one cycle, per
// spec.md §2's "one tick of the master advances one PPU dot; every
// third tick also advances the CPU by one cycle". A brand new
// instruction is fetched and executed atomically (cpu.Step has no
// sub-instruction suspension point), and its reported cycle cost is
// then spent one CPU-cycle-worth of dots at a time so PPU/APU state
// stays observable across the dots the real instruction would have
// taken. If the emulator is already quiescent from a prior error,
// Cycle returns that error immediately without doing any work.
func (e *Emulator) Cycle() error {
	e.justCompletedInstruction = false
	if e.lastErr != nil {
		return e.lastErr
	}

	e.ppu.Tick()
	e.dotPhase++
	if e.dotPhase < 3 {
		return nil
	}
	e.dotPhase = 0

	if e.cpuCyclesRemaining == 0 {
		cycles, err := e.cpu.Step()
		if err != nil {
			e.log.Warnf(nlog.CPU, "stopping: %v", err)
			e.lastErr = err
			return err
		}
		e.apu.Step()
		e.cpuCyclesRemaining = int(cycles) - 1
	} else {
		e.apu.Step()
		e.cpuCyclesRemaining--
	}
	e.justCompletedInstruction = e.cpuCyclesRemaining == 0
	return nil
}

// CycleUntilCPU advances until the CPU instruction in flight (fetching
// a new one first if none is) has fully run, including any folded-in
// OAM-DMA stall, leaving the next instruction's fetch for the
// following call.
func (e *Emulator) CycleUntilCPU() error {
	for {
		if err := e.Cycle(); err != nil {
			return err
		}
		if e.justCompletedInstruction {
			return nil
		}
	}
}

// CycleUntilPPU advances by exactly one PPU dot. PPU dots are already
// the finest granularity this emulator models, so this is equivalent
// to Cycle; it exists as its own method because spec.md's external
// interface names it separately from the master Cycle primitive.
func (e *Emulator) CycleUntilPPU() error {
	return e.Cycle()
}

// CycleUntilScanline advances until the PPU's scanline counter changes
// from its value at the time of the call.
func (e *Emulator) CycleUntilScanline() error {
	start := e.ppu.Snapshot().Scanline
	for e.ppu.Snapshot().Scanline == start {
		if err := e.Cycle(); err != nil {
			return err
		}
	}
	return nil
}

// CycleUntilFrame advances until the PPU completes the frame that was
// in progress at the time of the call.
func (e *Emulator) CycleUntilFrame() error {
	start := e.ppu.FrameCount()
	for e.ppu.FrameCount() == start {
		if err := e.Cycle(); err != nil {
			return err
		}
	}
	return nil
}

// UpdateController sets one button's state on one controller port.
// Out-of-range player indices are silently ignored, per spec.md §7.
func (e *Emulator) UpdateController(player int, button Button, pressed bool) {
	switch player {
	case 0:
		e.controller1.SetButton(button, pressed)
	case 1:
		e.controller2.SetButton(button, pressed)
	}
}

// Framebuffer returns the most recently rendered frame as top-left-
// origin RGBA bytes, converting the PPU's packed-uint32 internal
// representation on each call.
func (e *Emulator) Framebuffer() *[256 * 240 * 4]uint8 {
	packed := e.ppu.FrameBuffer()
	for i, px := range packed {
		o := i * 4
		e.rgba[o] = uint8(px >> 16)
		e.rgba[o+1] = uint8(px >> 8)
		e.rgba[o+2] = uint8(px)
		e.rgba[o+3] = 0xFF
	}
	return &e.rgba
}

// DrainAudio returns and clears the samples mixed since the last call.
func (e *Emulator) DrainAudio() []float32 {
	return e.apu.DrainAudio()
}

// CartridgeRAM returns a copy of the cartridge's battery-backed SRAM,
// for host-side persistence. It is always safe to call; cartridges
// without a battery simply persist nothing meaningful.
func (e *Emulator) CartridgeRAM() []byte {
	return e.cart.CartridgeRAM()
}

// SetCartridgeRAM restores a previously saved SRAM image.
func (e *Emulator) SetCartridgeRAM(data []byte) {
	e.cart.SetCartridgeRAM(data)
}

// BatteryBacked reports whether the loaded cartridge has battery RAM
// worth persisting.
func (e *Emulator) BatteryBacked() bool {
	return e.cart.BatteryBacked()
}

// SetLogger replaces the emulator's diagnostic logger, which receives
// a CPU warning when the emulator stops on a CPU error such as an
// illegal opcode. The default is a discarding logger.
func (e *Emulator) SetLogger(log *nlog.Logger) {
	if log == nil {
		log = nlog.Discard()
	}
	e.log = log
}

// CPUState, PPUState and APUState are value-type debug snapshots, per
// spec.md §6's "Debug accessors returning CPU/PPU/APU/bus state by
// value."
type CPUState = cpu.State
type PPUState = ppu.State
type APUState = apu.State

// CPUState returns the CPU's current architectural state.
func (e *Emulator) CPUState() CPUState { return e.cpu.Snapshot() }

// PPUState returns the PPU's current timing and register state.
func (e *Emulator) PPUState() PPUState { return e.ppu.Snapshot() }

// APUState returns the APU's current frame-sequencer state.
func (e *Emulator) APUState() APUState { return e.apu.Snapshot() }

// CPUCycles returns the total CPU cycle count since construction; Reset
// does not clear it.
func (e *Emulator) CPUCycles() uint64 { return e.cpu.Cycles() }

// Trace renders a nestest-style instruction trace line for the
// instruction about to execute, combining the CPU's disassembly with
// the PPU's current dot/scanline and the running CPU cycle count —
// the format spec.md §8 seed test 1's golden-log comparison diffs
// against.
func (e *Emulator) Trace() string {
	ppu := e.ppu.Snapshot()
	return fmt.Sprintf("%s PPU:%3d,%3d CYC:%d", e.cpu.TraceLine(), ppu.Scanline, ppu.Dot, e.cpu.Cycles())
}

// FrameCount returns the number of frames fully rendered so far.
func (e *Emulator) FrameCount() uint64 { return e.ppu.FrameCount() }
