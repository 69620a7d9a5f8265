package main

import (
	"math"
	"sync"

	"github.com/nescore/nesbox/internal/nes"
)

// audioStream adapts Emulator.DrainAudio's mono float32 samples to the
// 16-bit little-endian stereo PCM stream ebiten's audio.Player reads.
// Emulation runs ahead of playback inside game.Update, so Read drains
// whatever is queued and pads with silence rather than blocking when
// the emulator hasn't produced enough samples yet for a full frame's
// buffer. mu is the same mutex game.Update holds while cycling the
// emulator, since ebiten's audio package reads from its own goroutine.
type audioStream struct {
	emu     *nes.Emulator
	mu      *sync.Mutex
	pending []byte
}

func (s *audioStream) Read(p []byte) (int, error) {
	s.mu.Lock()
	for len(s.pending) < len(p) {
		samples := s.emu.DrainAudio()
		if len(samples) == 0 {
			break
		}
		s.pending = append(s.pending, encodePCM(samples)...)
	}
	s.mu.Unlock()

	if len(s.pending) == 0 {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	if n < len(p) {
		for i := n; i < len(p); i++ {
			p[i] = 0
		}
		n = len(p)
	}
	return n, nil
}

// encodePCM converts mono float32 samples in [-1, 1] to 16-bit
// little-endian stereo frames, duplicating each sample to both
// channels.
func encodePCM(samples []float32) []byte {
	out := make([]byte, 0, len(samples)*4)
	for _, s := range samples {
		v := int16(clampFloat(s) * math.MaxInt16)
		lo, hi := byte(v), byte(v>>8)
		out = append(out, lo, hi, lo, hi)
	}
	return out
}

func clampFloat(v float32) float32 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	default:
		return v
	}
}
