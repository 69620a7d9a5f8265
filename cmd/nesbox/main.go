// Command nesbox is a thin host around internal/nes: it loads an iNES
// ROM, opens an Ebitengine window, and drives the emulator from the
// window's update loop.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/nescore/nesbox/internal/nes"
	"github.com/nescore/nesbox/internal/nlog"
	"github.com/nescore/nesbox/internal/version"
)

const sampleRate = 44100

func main() {
	var (
		romPath  = flag.String("rom", "", "path to an iNES ROM file")
		scale    = flag.Int("scale", 3, "window scale factor (NES resolution is 256x240)")
		debug    = flag.Bool("debug", false, "log recoverable emulation anomalies to stderr")
		showVers = flag.Bool("version", false, "print version information and exit")
	)
	flag.Parse()

	if *showVers {
		fmt.Println(version.String())
		return
	}

	if *romPath == "" {
		fmt.Fprintln(os.Stderr, "usage: nesbox -rom <path.nes>")
		os.Exit(2)
	}

	rom, err := os.ReadFile(*romPath)
	if err != nil {
		log.Fatalf("reading rom: %v", err)
	}

	emu, err := nes.New(rom, sampleRate)
	if err != nil {
		log.Fatalf("loading rom: %v", err)
	}

	if *debug {
		emu.SetLogger(nlog.New(os.Stderr, nlog.LevelWarn))
	}

	savePath := *romPath + ".sav"
	if emu.BatteryBacked() {
		if saved, err := os.ReadFile(savePath); err == nil {
			emu.SetCartridgeRAM(saved)
		}
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		saveBatteryRAM(emu, savePath)
		os.Exit(0)
	}()

	g := newGame(emu)

	ebiten.SetWindowTitle(fmt.Sprintf("nesbox - %s", *romPath))
	ebiten.SetWindowSize(256*(*scale), 240*(*scale))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err = ebiten.RunGame(g)
	saveBatteryRAM(emu, savePath)
	if err != nil {
		log.Fatalf("run: %v", err)
	}
}

func saveBatteryRAM(emu *nes.Emulator, path string) {
	if !emu.BatteryBacked() {
		return
	}
	if err := os.WriteFile(path, emu.CartridgeRAM(), 0o644); err != nil {
		log.Printf("saving battery ram to %s: %v", path, err)
	}
}
