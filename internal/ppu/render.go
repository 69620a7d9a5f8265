package ppu

// renderPixel composites the background and sprite pipelines for
// screen column x of the current scanline and writes the result into
// the framebuffer, including sprite-zero-hit detection.
func (p *PPU) renderPixel(x int) {
	if x < 0 || x >= width || p.scanline < 0 || p.scanline >= height {
		return
	}

	bgColor, bgOpaque := p.backgroundPixel(x)
	spr := p.spritePixelAt(x)
	spriteOpaque := spr.colorIndex != 0 && p.mask&maskShowSprites != 0 && (x >= 8 || p.mask&maskShowSpritesLeft != 0)

	if x < 8 && p.mask&maskShowBGLeft == 0 {
		bgOpaque = false
	}

	var addr uint16
	switch {
	case !bgOpaque && !spriteOpaque:
		addr = 0x3F00
	case !bgOpaque && spriteOpaque:
		addr = 0x3F10 + uint16(spr.palette)*4 + uint16(spr.colorIndex)
	case bgOpaque && !spriteOpaque:
		addr = bgColor
	default:
		if spr.behindBG {
			addr = bgColor
		} else {
			addr = 0x3F10 + uint16(spr.palette)*4 + uint16(spr.colorIndex)
		}
		if spr.isSprite0 && x != 255 && p.mask&(maskShowBG|maskShowSprites) == maskShowBG|maskShowSprites {
			p.statusSprite0Hit = true
		}
	}

	p.framebuffer[p.scanline*width+x] = rgb(p.readPalette(addr))
}

// backgroundPixel reads the current fine-X-selected bit out of the
// background shift pipeline and returns the palette address it names,
// plus whether that pixel is opaque (non-zero color index).
func (p *PPU) backgroundPixel(x int) (addr uint16, opaque bool) {
	if p.mask&maskShowBG == 0 {
		return 0x3F00, false
	}
	shift := uint(15 - p.x)
	lo := (p.bgShiftLo >> shift) & 1
	hi := (p.bgShiftHi >> shift) & 1
	colorIndex := uint8(hi<<1 | lo)
	if colorIndex == 0 {
		return 0x3F00, false
	}
	attrLo := (p.bgAttrShiftLo >> shift) & 1
	attrHi := (p.bgAttrShiftHi >> shift) & 1
	palette := uint16(attrHi<<1 | attrLo)
	return 0x3F00 + palette*4 + uint16(colorIndex), true
}
