package main

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/nescore/nesbox/internal/nes"
)

// keyMap is the keyboard layout for controller 1: arrow keys for the
// d-pad, J/K for A/B, Enter/Space for Start/Select.
var keyMap = map[ebiten.Key]nes.Button{
	ebiten.KeyArrowUp:    nes.ButtonUp,
	ebiten.KeyArrowDown:  nes.ButtonDown,
	ebiten.KeyArrowLeft:  nes.ButtonLeft,
	ebiten.KeyArrowRight: nes.ButtonRight,
	ebiten.KeyJ:          nes.ButtonA,
	ebiten.KeyK:          nes.ButtonB,
	ebiten.KeyEnter:      nes.ButtonStart,
	ebiten.KeySpace:      nes.ButtonSelect,
}

// game implements ebiten.Game, driving an *nes.Emulator one host frame
// at a time and blitting its framebuffer to the window. emuMu guards
// every call into emu: Update drives it from ebiten's game goroutine
// while audioStream drains it from the audio package's own playback
// goroutine.
type game struct {
	emu    *nes.Emulator
	emuMu  *sync.Mutex
	screen *ebiten.Image
	player *audio.Player
}

func newGame(emu *nes.Emulator) *game {
	var mu sync.Mutex
	g := &game{
		emu:    emu,
		emuMu:  &mu,
		screen: ebiten.NewImage(256, 240),
	}

	ctx := audio.NewContext(sampleRate)
	player, err := ctx.NewPlayer(&audioStream{emu: emu, mu: &mu})
	if err == nil {
		player.Play()
		g.player = player
	}
	return g
}

// Update runs one host frame's worth of emulation: CycleUntilFrame
// advances until exactly one NES frame has completed, which is the
// right granularity for a 60Hz ebiten Update callback on an NTSC ROM.
func (g *game) Update() error {
	g.emuMu.Lock()
	defer g.emuMu.Unlock()

	for key, button := range keyMap {
		if inpututil.IsKeyJustPressed(key) {
			g.emu.UpdateController(0, button, true)
		} else if inpututil.IsKeyJustReleased(key) {
			g.emu.UpdateController(0, button, false)
		}
	}

	return g.emu.CycleUntilFrame()
}

func (g *game) Draw(screen *ebiten.Image) {
	fb := g.emu.Framebuffer()
	g.screen.ReplacePixels(fb[:])
	op := &ebiten.DrawImageOptions{}
	screen.DrawImage(g.screen, op)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return 256, 240
}
