// Package apu implements the 2A03's audio processing unit: two pulse
// channels, triangle, noise, and DMC, driven by a shared frame counter
// that clocks envelopes, sweeps and length counters, with the mixed
// output decimated to a host-chosen sample rate.
package apu

// DMCBus lets the DMC channel fetch sample bytes directly off the CPU
// address space, the same way real DMC DMA does.
type DMCBus interface {
	Read(addr uint16) uint8
}

// IRQTarget receives the APU's combined frame/DMC interrupt line.
type IRQTarget interface {
	SetIRQ()
	ClearIRQ()
}

const cpuFrequencyNTSC = 1789773.0

// APU holds all five channels, the frame counter, and the resampler
// that decimates the mixed output to the host's sample rate.
type APU struct {
	bus       DMCBus
	irqTarget IRQTarget

	pulse1   pulseChannel
	pulse2   pulseChannel
	triangle triangleChannel
	noise    noiseChannel
	dmc      dmcChannel

	frameCounter     uint16
	fiveStepMode     bool
	frameIRQInhibit  bool
	frameIRQFlag     bool

	channelEnable [5]bool

	sampleBuffer     []float32
	hostSampleRate   uint32
	cycleAccumulator float64

	cycles uint64
}

// New constructs an APU that resamples to hostSampleRate and raises IRQs
// on target. bus services DMC sample fetches; it may be nil until the
// bus wiring is complete, since DMC sample playback is exercised later
// than channel register writes in the bring-up sequence.
func New(bus DMCBus, target IRQTarget, hostSampleRate uint32) *APU {
	a := &APU{
		bus:             bus,
		irqTarget:       target,
		hostSampleRate:  hostSampleRate,
		frameIRQInhibit: false,
		sampleBuffer:    make([]float32, 0, 4096),
	}
	a.noise.shiftRegister = 1
	return a
}

// SetDMCBus supplies the bus DMC sample fetches read from, once the
// cyclic APU/Bus construction is resolved.
func (a *APU) SetDMCBus(bus DMCBus) {
	a.bus = bus
}

// SetIRQTarget supplies the interrupt line frame/DMC IRQs are raised
// on, once the cyclic APU/CPU construction is resolved.
func (a *APU) SetIRQTarget(target IRQTarget) {
	a.irqTarget = target
}

// Reset returns the APU to its post-power-on state.
func (a *APU) Reset() {
	a.pulse1 = pulseChannel{}
	a.pulse2 = pulseChannel{}
	a.triangle = triangleChannel{}
	a.noise = noiseChannel{shiftRegister: 1}
	a.dmc = dmcChannel{}
	a.frameCounter = 0
	a.fiveStepMode = false
	a.frameIRQInhibit = false
	a.frameIRQFlag = false
	for i := range a.channelEnable {
		a.channelEnable[i] = false
	}
	a.cycles = 0
	a.cycleAccumulator = 0
	a.sampleBuffer = a.sampleBuffer[:0]
	a.updateIRQLine()
}

// Step advances the APU by one CPU cycle.
func (a *APU) Step() {
	a.cycles++
	a.stepFrameCounter()
	if a.channelEnable[0] {
		a.pulse1.stepTimer()
	}
	if a.channelEnable[1] {
		a.pulse2.stepTimer()
	}
	if a.channelEnable[2] {
		a.triangle.stepTimer()
	}
	if a.channelEnable[3] {
		a.noise.stepTimer()
	}
	if a.channelEnable[4] {
		a.dmc.stepTimer(a.bus)
	}
	a.generateSample()
}

func (a *APU) updateIRQLine() {
	if a.irqTarget == nil {
		return
	}
	if (a.frameIRQFlag && !a.frameIRQInhibit) || a.dmc.irqFlag {
		a.irqTarget.SetIRQ()
	} else {
		a.irqTarget.ClearIRQ()
	}
}

// stepFrameCounter clocks envelope/linear units at quarter-frame points
// and length/sweep units at half-frame points, per the 4-step (240 Hz
// last-step IRQ) or 5-step (192 Hz, no IRQ) sequence selected by the
// last write to $4017.
func (a *APU) stepFrameCounter() {
	a.frameCounter++

	if a.fiveStepMode {
		switch a.frameCounter {
		case 7457:
			a.clockQuarterFrame()
		case 14913:
			a.clockQuarterFrame()
			a.clockHalfFrame()
		case 22371:
			a.clockQuarterFrame()
		case 37281:
			a.clockQuarterFrame()
			a.clockHalfFrame()
			a.frameCounter = 0
		}
		return
	}

	switch a.frameCounter {
	case 7457:
		a.clockQuarterFrame()
	case 14913:
		a.clockQuarterFrame()
		a.clockHalfFrame()
	case 22371:
		a.clockQuarterFrame()
	case 29829:
		a.clockQuarterFrame()
		a.clockHalfFrame()
	case 29830:
		if !a.frameIRQInhibit {
			a.frameIRQFlag = true
			a.updateIRQLine()
		}
		a.frameCounter = 0
	}
}

func (a *APU) clockQuarterFrame() {
	a.pulse1.clockEnvelope()
	a.pulse2.clockEnvelope()
	a.noise.clockEnvelope()
	a.triangle.clockLinear()
}

func (a *APU) clockHalfFrame() {
	a.pulse1.clockLength()
	a.pulse1.clockSweep(true)
	a.pulse2.clockLength()
	a.pulse2.clockSweep(false)
	a.triangle.clockLength()
	a.noise.clockLength()
}

// generateSample accumulates a fractional CPU-cycle counter and emits a
// mixed, sample-and-hold-decimated output whenever it crosses 1.0 -
// the simple resampling spec.md's non-goal on bit-exact mixing permits.
func (a *APU) generateSample() {
	a.cycleAccumulator += float64(a.hostSampleRate) / cpuFrequencyNTSC
	if a.cycleAccumulator < 1.0 {
		return
	}
	a.cycleAccumulator -= 1.0

	p1 := a.pulse1.output()
	p2 := a.pulse2.output()
	tr := a.triangle.output()
	no := a.noise.output()
	dm := a.dmc.output()

	a.sampleBuffer = append(a.sampleBuffer, mix(p1, p2, tr, no, dm))
}

// mix applies the NES's documented nonlinear DAC summing formula.
func mix(pulse1, pulse2, triangle, noise, dmc uint8) float32 {
	pulseSum := float64(pulse1) + float64(pulse2)
	var pulseOut float64
	if pulseSum != 0 {
		pulseOut = 95.88 / (8128.0/pulseSum + 100.0)
	}

	tndSum := float64(triangle)/8227.0 + float64(noise)/12241.0 + float64(dmc)/22638.0
	var tndOut float64
	if tndSum != 0 {
		tndOut = 159.79 / (1.0/tndSum + 100.0)
	}

	return float32((pulseOut + tndOut) * 2.0 - 1.0)
}

// DrainAudio returns and clears the accumulated sample buffer.
func (a *APU) DrainAudio() []float32 {
	out := make([]float32, len(a.sampleBuffer))
	copy(out, a.sampleBuffer)
	a.sampleBuffer = a.sampleBuffer[:0]
	return out
}

// State is a point-in-time snapshot for debug accessors.
type State struct {
	ChannelEnable [5]bool
	FiveStepMode  bool
	FrameIRQFlag  bool
	FrameCounter  uint16
}

// Snapshot returns the APU's current frame-sequencer and channel-enable
// state.
func (a *APU) Snapshot() State {
	return State{
		ChannelEnable: a.channelEnable,
		FiveStepMode:  a.fiveStepMode,
		FrameIRQFlag:  a.frameIRQFlag,
		FrameCounter:  a.frameCounter,
	}
}

// ReadStatus services a CPU read of $4015.
func (a *APU) ReadStatus() uint8 {
	var s uint8
	if a.pulse1.lengthCounter > 0 {
		s |= 0x01
	}
	if a.pulse2.lengthCounter > 0 {
		s |= 0x02
	}
	if a.triangle.lengthCounter > 0 {
		s |= 0x04
	}
	if a.noise.lengthCounter > 0 {
		s |= 0x08
	}
	if a.dmc.bytesRemaining > 0 {
		s |= 0x10
	}
	if a.frameIRQFlag {
		s |= 0x40
	}
	if a.dmc.irqFlag {
		s |= 0x80
	}
	a.frameIRQFlag = false
	a.updateIRQLine()
	return s
}

// WriteRegister services a CPU write to $4000-$4013, $4015 or $4017.
func (a *APU) WriteRegister(addr uint16, value uint8) {
	switch addr {
	case 0x4000:
		a.pulse1.writeControl(value)
	case 0x4001:
		a.pulse1.writeSweep(value)
	case 0x4002:
		a.pulse1.writeTimerLow(value)
	case 0x4003:
		a.pulse1.writeTimerHigh(value)
	case 0x4004:
		a.pulse2.writeControl(value)
	case 0x4005:
		a.pulse2.writeSweep(value)
	case 0x4006:
		a.pulse2.writeTimerLow(value)
	case 0x4007:
		a.pulse2.writeTimerHigh(value)
	case 0x4008:
		a.triangle.writeControl(value)
	case 0x400A:
		a.triangle.writeTimerLow(value)
	case 0x400B:
		a.triangle.writeTimerHigh(value)
	case 0x400C:
		a.noise.writeControl(value)
	case 0x400E:
		a.noise.writePeriod(value)
	case 0x400F:
		a.noise.writeLength(value)
	case 0x4010:
		a.dmc.writeControl(value)
		if !a.dmc.irqEnable {
			a.dmc.irqFlag = false
			a.updateIRQLine()
		}
	case 0x4011:
		a.dmc.writeDirectLoad(value)
	case 0x4012:
		a.dmc.writeSampleAddress(value)
	case 0x4013:
		a.dmc.writeSampleLength(value)
	case 0x4015:
		a.writeChannelEnable(value)
	case 0x4017:
		a.writeFrameCounter(value)
	}
}

func (a *APU) writeChannelEnable(value uint8) {
	a.channelEnable[0] = value&0x01 != 0
	a.channelEnable[1] = value&0x02 != 0
	a.channelEnable[2] = value&0x04 != 0
	a.channelEnable[3] = value&0x08 != 0
	a.channelEnable[4] = value&0x10 != 0

	if !a.channelEnable[0] {
		a.pulse1.lengthCounter = 0
	}
	if !a.channelEnable[1] {
		a.pulse2.lengthCounter = 0
	}
	if !a.channelEnable[2] {
		a.triangle.lengthCounter = 0
	}
	if !a.channelEnable[3] {
		a.noise.lengthCounter = 0
	}
	if !a.channelEnable[4] {
		a.dmc.bytesRemaining = 0
	} else if a.dmc.bytesRemaining == 0 {
		a.dmc.currentAddress = a.dmc.sampleAddress
		a.dmc.bytesRemaining = a.dmc.sampleLength
	}

	a.dmc.irqFlag = false
	a.updateIRQLine()
}

// writeFrameCounter services $4017: bit 7 selects 4-step vs 5-step mode,
// bit 6 inhibits the frame IRQ. Selecting 5-step mode clocks every unit
// immediately.
func (a *APU) writeFrameCounter(value uint8) {
	a.fiveStepMode = value&0x80 != 0
	a.frameIRQInhibit = value&0x40 != 0
	if a.frameIRQInhibit {
		a.frameIRQFlag = false
	}
	a.updateIRQLine()
	a.frameCounter = 0

	if a.fiveStepMode {
		a.clockQuarterFrame()
		a.clockHalfFrame()
	}
}
