package apu

import "testing"

type fakeDMCBus struct {
	data [0x10000]uint8
}

func (b *fakeDMCBus) Read(addr uint16) uint8 { return b.data[addr] }

type fakeIRQTarget struct {
	asserted bool
}

func (t *fakeIRQTarget) SetIRQ()   { t.asserted = true }
func (t *fakeIRQTarget) ClearIRQ() { t.asserted = false }

func TestPulseTimerOutputsSilentBelowEightPeriod(t *testing.T) {
	a := New(&fakeDMCBus{}, &fakeIRQTarget{}, 44100)
	a.WriteRegister(0x4000, 0x3F) // duty 0, constant volume 15
	a.WriteRegister(0x4002, 0x04) // timer low, total timer = 4 (< 8)
	a.WriteRegister(0x4003, 0x00)

	if got := a.pulse1.output(); got != 0 {
		t.Fatalf("pulse output with timer < 8 = %d, want 0 (silenced)", got)
	}
}

func TestPulseLengthCounterLoadsFromTable(t *testing.T) {
	a := New(&fakeDMCBus{}, &fakeIRQTarget{}, 44100)
	a.writeChannelEnable(0x01) // enable pulse 1
	a.WriteRegister(0x4000, 0x30)
	a.WriteRegister(0x4002, 0xFF)
	a.WriteRegister(0x4003, 0x00) // length index = 0 -> lengthTable[0] = 10

	if a.pulse1.lengthCounter != 10 {
		t.Fatalf("lengthCounter = %d, want 10", a.pulse1.lengthCounter)
	}
}

func TestFrameCounterFourStepGeneratesIRQ(t *testing.T) {
	a := New(&fakeDMCBus{}, &fakeIRQTarget{}, 44100)
	a.WriteRegister(0x4017, 0x00) // 4-step, IRQ enabled

	for i := 0; i < 29830; i++ {
		a.stepFrameCounter()
	}

	if !a.frameIRQFlag {
		t.Fatal("expected frame IRQ flag set after 29830 frame-counter steps in 4-step mode")
	}
}

func TestFrameCounterIRQInhibited(t *testing.T) {
	a := New(&fakeDMCBus{}, &fakeIRQTarget{}, 44100)
	a.WriteRegister(0x4017, 0x40) // 4-step, IRQ inhibited

	for i := 0; i < 29830; i++ {
		a.stepFrameCounter()
	}

	if a.frameIRQFlag {
		t.Fatal("frame IRQ flag should not set while inhibited")
	}
}

func TestFrameCounterFiveStepDoesNotGenerateIRQ(t *testing.T) {
	a := New(&fakeDMCBus{}, &fakeIRQTarget{}, 44100)
	a.WriteRegister(0x4017, 0x80) // 5-step mode

	for i := 0; i < 40000; i++ {
		a.stepFrameCounter()
	}

	if a.frameIRQFlag {
		t.Fatal("5-step mode never generates a frame IRQ")
	}
}

func TestReadStatusClearsFrameIRQFlag(t *testing.T) {
	a := New(&fakeDMCBus{}, &fakeIRQTarget{}, 44100)
	a.frameIRQFlag = true

	status := a.ReadStatus()
	if status&0x40 == 0 {
		t.Fatal("status byte should report the frame IRQ before the read clears it")
	}
	if a.frameIRQFlag {
		t.Fatal("reading $4015 should clear the frame IRQ flag")
	}
}

func TestChannelEnableClearsLengthCounters(t *testing.T) {
	a := New(&fakeDMCBus{}, &fakeIRQTarget{}, 44100)
	a.pulse1.lengthCounter = 20
	a.writeChannelEnable(0x00) // disable everything

	if a.pulse1.lengthCounter != 0 {
		t.Fatalf("disabling a channel should zero its length counter, got %d", a.pulse1.lengthCounter)
	}
}

func TestDMCFetchesSampleBytesFromBus(t *testing.T) {
	bus := &fakeDMCBus{}
	bus.data[0xC000] = 0xFF // every bit set -> output level only increases

	a := New(bus, &fakeIRQTarget{}, 44100)
	a.WriteRegister(0x4010, 0x00)
	a.WriteRegister(0x4012, 0x00) // sample address = 0xC000
	a.WriteRegister(0x4013, 0x00) // sample length = 1 byte
	a.writeChannelEnable(0x10)    // enable DMC, starts playback

	initial := a.dmc.outputLevel
	for i := 0; i < int(dmcRateTable[0])*3; i++ {
		a.dmc.stepTimer(bus)
	}
	if a.dmc.outputLevel <= initial {
		t.Fatalf("expected DMC output level to rise after fetching a sample byte with every bit set, got %d (started at %d)", a.dmc.outputLevel, initial)
	}
}

func TestMixerReturnsFloorForSilence(t *testing.T) {
	if got := mix(0, 0, 0, 0, 0); got != -1.0 {
		t.Fatalf("mix of all-silent channels = %f, want -1.0 (DC-centered floor)", got)
	}
}

func TestDrainAudioClearsBuffer(t *testing.T) {
	a := New(&fakeDMCBus{}, &fakeIRQTarget{}, 44100)
	a.sampleBuffer = append(a.sampleBuffer, 0.5, -0.5)

	got := a.DrainAudio()
	if len(got) != 2 {
		t.Fatalf("DrainAudio returned %d samples, want 2", len(got))
	}
	if len(a.sampleBuffer) != 0 {
		t.Fatal("DrainAudio should clear the internal buffer")
	}
}

func TestIRQLineReflectsFrameAndDMCFlags(t *testing.T) {
	target := &fakeIRQTarget{}
	a := New(&fakeDMCBus{}, target, 44100)

	a.frameIRQFlag = true
	a.updateIRQLine()
	if !target.asserted {
		t.Fatal("expected IRQ line asserted when frame IRQ flag set")
	}

	a.frameIRQFlag = false
	a.updateIRQLine()
	if target.asserted {
		t.Fatal("expected IRQ line released once both flags clear")
	}
}
