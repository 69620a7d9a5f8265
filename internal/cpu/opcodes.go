package cpu

// instruction describes one of the 256 opcode slots: its mnemonic (for
// debug accessors), operand size, base cycle cost, addressing mode, and
// whether a page crossing adds a cycle. exec performs the operation and
// returns any cycles beyond the base count (branches taken, etc).
type instruction struct {
	name             string
	bytes            uint8
	cycles           uint8
	mode             mode
	pageCrossPenalty bool
	exec             func(cpu *CPU) uint8
}

func (cpu *CPU) initInstructions() {
	set := func(opcode uint8, name string, bytes, cycles uint8, m mode, pagePenalty bool, exec func(cpu *CPU) uint8) {
		cpu.instructions[opcode] = &instruction{name, bytes, cycles, m, pagePenalty, exec}
	}

	// Load/Store
	set(0xA9, "LDA", 2, 2, modeImmediate, false, ldaOp)
	set(0xA5, "LDA", 2, 3, modeZeroPage, false, ldaOp)
	set(0xB5, "LDA", 2, 4, modeZeroPageX, false, ldaOp)
	set(0xAD, "LDA", 3, 4, modeAbsolute, false, ldaOp)
	set(0xBD, "LDA", 3, 4, modeAbsoluteX, true, ldaOp)
	set(0xB9, "LDA", 3, 4, modeAbsoluteY, true, ldaOp)
	set(0xA1, "LDA", 2, 6, modeIndexedIndirect, false, ldaOp)
	set(0xB1, "LDA", 2, 5, modeIndirectIndexed, true, ldaOp)

	set(0xA2, "LDX", 2, 2, modeImmediate, false, ldxOp)
	set(0xA6, "LDX", 2, 3, modeZeroPage, false, ldxOp)
	set(0xB6, "LDX", 2, 4, modeZeroPageY, false, ldxOp)
	set(0xAE, "LDX", 3, 4, modeAbsolute, false, ldxOp)
	set(0xBE, "LDX", 3, 4, modeAbsoluteY, true, ldxOp)

	set(0xA0, "LDY", 2, 2, modeImmediate, false, ldyOp)
	set(0xA4, "LDY", 2, 3, modeZeroPage, false, ldyOp)
	set(0xB4, "LDY", 2, 4, modeZeroPageX, false, ldyOp)
	set(0xAC, "LDY", 3, 4, modeAbsolute, false, ldyOp)
	set(0xBC, "LDY", 3, 4, modeAbsoluteX, true, ldyOp)

	set(0x85, "STA", 2, 3, modeZeroPage, false, staOp)
	set(0x95, "STA", 2, 4, modeZeroPageX, false, staOp)
	set(0x8D, "STA", 3, 4, modeAbsolute, false, staOp)
	set(0x9D, "STA", 3, 5, modeAbsoluteX, false, staOp)
	set(0x99, "STA", 3, 5, modeAbsoluteY, false, staOp)
	set(0x81, "STA", 2, 6, modeIndexedIndirect, false, staOp)
	set(0x91, "STA", 2, 6, modeIndirectIndexed, false, staOp)

	set(0x86, "STX", 2, 3, modeZeroPage, false, stxOp)
	set(0x96, "STX", 2, 4, modeZeroPageY, false, stxOp)
	set(0x8E, "STX", 3, 4, modeAbsolute, false, stxOp)

	set(0x84, "STY", 2, 3, modeZeroPage, false, styOp)
	set(0x94, "STY", 2, 4, modeZeroPageX, false, styOp)
	set(0x8C, "STY", 3, 4, modeAbsolute, false, styOp)

	// Arithmetic
	set(0x69, "ADC", 2, 2, modeImmediate, false, adcOp)
	set(0x65, "ADC", 2, 3, modeZeroPage, false, adcOp)
	set(0x75, "ADC", 2, 4, modeZeroPageX, false, adcOp)
	set(0x6D, "ADC", 3, 4, modeAbsolute, false, adcOp)
	set(0x7D, "ADC", 3, 4, modeAbsoluteX, true, adcOp)
	set(0x79, "ADC", 3, 4, modeAbsoluteY, true, adcOp)
	set(0x61, "ADC", 2, 6, modeIndexedIndirect, false, adcOp)
	set(0x71, "ADC", 2, 5, modeIndirectIndexed, true, adcOp)

	set(0xE9, "SBC", 2, 2, modeImmediate, false, sbcOp)
	set(0xE5, "SBC", 2, 3, modeZeroPage, false, sbcOp)
	set(0xF5, "SBC", 2, 4, modeZeroPageX, false, sbcOp)
	set(0xED, "SBC", 3, 4, modeAbsolute, false, sbcOp)
	set(0xFD, "SBC", 3, 4, modeAbsoluteX, true, sbcOp)
	set(0xF9, "SBC", 3, 4, modeAbsoluteY, true, sbcOp)
	set(0xE1, "SBC", 2, 6, modeIndexedIndirect, false, sbcOp)
	set(0xF1, "SBC", 2, 5, modeIndirectIndexed, true, sbcOp)
	set(0xEB, "SBC", 2, 2, modeImmediate, false, sbcOp) // unofficial duplicate

	// Logical
	set(0x29, "AND", 2, 2, modeImmediate, false, andOp)
	set(0x25, "AND", 2, 3, modeZeroPage, false, andOp)
	set(0x35, "AND", 2, 4, modeZeroPageX, false, andOp)
	set(0x2D, "AND", 3, 4, modeAbsolute, false, andOp)
	set(0x3D, "AND", 3, 4, modeAbsoluteX, true, andOp)
	set(0x39, "AND", 3, 4, modeAbsoluteY, true, andOp)
	set(0x21, "AND", 2, 6, modeIndexedIndirect, false, andOp)
	set(0x31, "AND", 2, 5, modeIndirectIndexed, true, andOp)

	set(0x09, "ORA", 2, 2, modeImmediate, false, oraOp)
	set(0x05, "ORA", 2, 3, modeZeroPage, false, oraOp)
	set(0x15, "ORA", 2, 4, modeZeroPageX, false, oraOp)
	set(0x0D, "ORA", 3, 4, modeAbsolute, false, oraOp)
	set(0x1D, "ORA", 3, 4, modeAbsoluteX, true, oraOp)
	set(0x19, "ORA", 3, 4, modeAbsoluteY, true, oraOp)
	set(0x01, "ORA", 2, 6, modeIndexedIndirect, false, oraOp)
	set(0x11, "ORA", 2, 5, modeIndirectIndexed, true, oraOp)

	set(0x49, "EOR", 2, 2, modeImmediate, false, eorOp)
	set(0x45, "EOR", 2, 3, modeZeroPage, false, eorOp)
	set(0x55, "EOR", 2, 4, modeZeroPageX, false, eorOp)
	set(0x4D, "EOR", 3, 4, modeAbsolute, false, eorOp)
	set(0x5D, "EOR", 3, 4, modeAbsoluteX, true, eorOp)
	set(0x59, "EOR", 3, 4, modeAbsoluteY, true, eorOp)
	set(0x41, "EOR", 2, 6, modeIndexedIndirect, false, eorOp)
	set(0x51, "EOR", 2, 5, modeIndirectIndexed, true, eorOp)

	// Shift/rotate
	set(0x0A, "ASL", 1, 2, modeAccumulator, false, aslOp)
	set(0x06, "ASL", 2, 5, modeZeroPage, false, aslOp)
	set(0x16, "ASL", 2, 6, modeZeroPageX, false, aslOp)
	set(0x0E, "ASL", 3, 6, modeAbsolute, false, aslOp)
	set(0x1E, "ASL", 3, 7, modeAbsoluteX, false, aslOp)

	set(0x4A, "LSR", 1, 2, modeAccumulator, false, lsrOp)
	set(0x46, "LSR", 2, 5, modeZeroPage, false, lsrOp)
	set(0x56, "LSR", 2, 6, modeZeroPageX, false, lsrOp)
	set(0x4E, "LSR", 3, 6, modeAbsolute, false, lsrOp)
	set(0x5E, "LSR", 3, 7, modeAbsoluteX, false, lsrOp)

	set(0x2A, "ROL", 1, 2, modeAccumulator, false, rolOp)
	set(0x26, "ROL", 2, 5, modeZeroPage, false, rolOp)
	set(0x36, "ROL", 2, 6, modeZeroPageX, false, rolOp)
	set(0x2E, "ROL", 3, 6, modeAbsolute, false, rolOp)
	set(0x3E, "ROL", 3, 7, modeAbsoluteX, false, rolOp)

	set(0x6A, "ROR", 1, 2, modeAccumulator, false, rorOp)
	set(0x66, "ROR", 2, 5, modeZeroPage, false, rorOp)
	set(0x76, "ROR", 2, 6, modeZeroPageX, false, rorOp)
	set(0x6E, "ROR", 3, 6, modeAbsolute, false, rorOp)
	set(0x7E, "ROR", 3, 7, modeAbsoluteX, false, rorOp)

	// Compare
	set(0xC9, "CMP", 2, 2, modeImmediate, false, cmpOp)
	set(0xC5, "CMP", 2, 3, modeZeroPage, false, cmpOp)
	set(0xD5, "CMP", 2, 4, modeZeroPageX, false, cmpOp)
	set(0xCD, "CMP", 3, 4, modeAbsolute, false, cmpOp)
	set(0xDD, "CMP", 3, 4, modeAbsoluteX, true, cmpOp)
	set(0xD9, "CMP", 3, 4, modeAbsoluteY, true, cmpOp)
	set(0xC1, "CMP", 2, 6, modeIndexedIndirect, false, cmpOp)
	set(0xD1, "CMP", 2, 5, modeIndirectIndexed, true, cmpOp)

	set(0xE0, "CPX", 2, 2, modeImmediate, false, cpxOp)
	set(0xE4, "CPX", 2, 3, modeZeroPage, false, cpxOp)
	set(0xEC, "CPX", 3, 4, modeAbsolute, false, cpxOp)

	set(0xC0, "CPY", 2, 2, modeImmediate, false, cpyOp)
	set(0xC4, "CPY", 2, 3, modeZeroPage, false, cpyOp)
	set(0xCC, "CPY", 3, 4, modeAbsolute, false, cpyOp)

	// Increment/decrement
	set(0xE6, "INC", 2, 5, modeZeroPage, false, incOp)
	set(0xF6, "INC", 2, 6, modeZeroPageX, false, incOp)
	set(0xEE, "INC", 3, 6, modeAbsolute, false, incOp)
	set(0xFE, "INC", 3, 7, modeAbsoluteX, false, incOp)

	set(0xC6, "DEC", 2, 5, modeZeroPage, false, decOp)
	set(0xD6, "DEC", 2, 6, modeZeroPageX, false, decOp)
	set(0xCE, "DEC", 3, 6, modeAbsolute, false, decOp)
	set(0xDE, "DEC", 3, 7, modeAbsoluteX, false, decOp)

	set(0xE8, "INX", 1, 2, modeImplied, false, inxOp)
	set(0xCA, "DEX", 1, 2, modeImplied, false, dexOp)
	set(0xC8, "INY", 1, 2, modeImplied, false, inyOp)
	set(0x88, "DEY", 1, 2, modeImplied, false, deyOp)

	// Transfers
	set(0xAA, "TAX", 1, 2, modeImplied, false, taxOp)
	set(0x8A, "TXA", 1, 2, modeImplied, false, txaOp)
	set(0xA8, "TAY", 1, 2, modeImplied, false, tayOp)
	set(0x98, "TYA", 1, 2, modeImplied, false, tyaOp)
	set(0xBA, "TSX", 1, 2, modeImplied, false, tsxOp)
	set(0x9A, "TXS", 1, 2, modeImplied, false, txsOp)

	// Stack
	set(0x48, "PHA", 1, 3, modeImplied, false, phaOp)
	set(0x68, "PLA", 1, 4, modeImplied, false, plaOp)
	set(0x08, "PHP", 1, 3, modeImplied, false, phpOp)
	set(0x28, "PLP", 1, 4, modeImplied, false, plpOp)

	// Flags
	set(0x18, "CLC", 1, 2, modeImplied, false, clcOp)
	set(0x38, "SEC", 1, 2, modeImplied, false, secOp)
	set(0x58, "CLI", 1, 2, modeImplied, false, cliOp)
	set(0x78, "SEI", 1, 2, modeImplied, false, seiOp)
	set(0xB8, "CLV", 1, 2, modeImplied, false, clvOp)
	set(0xD8, "CLD", 1, 2, modeImplied, false, cldOp)
	set(0xF8, "SED", 1, 2, modeImplied, false, sedOp)

	// Control flow
	set(0x4C, "JMP", 3, 3, modeAbsolute, false, jmpOp)
	set(0x6C, "JMP", 3, 5, modeIndirect, false, jmpOp)
	set(0x20, "JSR", 3, 6, modeAbsolute, false, jsrOp)
	set(0x60, "RTS", 1, 6, modeImplied, false, rtsOp)
	set(0x40, "RTI", 1, 6, modeImplied, false, rtiOp)

	// Branches
	set(0x90, "BCC", 2, 2, modeRelative, false, bccOp)
	set(0xB0, "BCS", 2, 2, modeRelative, false, bcsOp)
	set(0xD0, "BNE", 2, 2, modeRelative, false, bneOp)
	set(0xF0, "BEQ", 2, 2, modeRelative, false, beqOp)
	set(0x10, "BPL", 2, 2, modeRelative, false, bplOp)
	set(0x30, "BMI", 2, 2, modeRelative, false, bmiOp)
	set(0x50, "BVC", 2, 2, modeRelative, false, bvcOp)
	set(0x70, "BVS", 2, 2, modeRelative, false, bvsOp)

	// Misc
	set(0x24, "BIT", 2, 3, modeZeroPage, false, bitOp)
	set(0x2C, "BIT", 3, 4, modeAbsolute, false, bitOp)
	set(0xEA, "NOP", 1, 2, modeImplied, false, nopOp)
	set(0x00, "BRK", 1, 7, modeImplied, false, brkOp)

	// Unofficial NOPs: same timing families as their official counterparts,
	// several of which cost a cycle on a page cross.
	for _, op := range []uint8{0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA} {
		set(op, "NOP", 1, 2, modeImplied, false, nopOp)
	}
	for _, op := range []uint8{0x80, 0x82, 0x89, 0xC2, 0xE2} {
		set(op, "NOP", 2, 2, modeImmediate, false, nopOp)
	}
	for _, op := range []uint8{0x04, 0x44, 0x64} {
		set(op, "NOP", 2, 3, modeZeroPage, false, nopOp)
	}
	for _, op := range []uint8{0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4} {
		set(op, "NOP", 2, 4, modeZeroPageX, false, nopOp)
	}
	set(0x0C, "NOP", 3, 4, modeAbsolute, false, nopOp)
	for _, op := range []uint8{0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC} {
		set(op, "NOP", 3, 4, modeAbsoluteX, true, nopOp)
	}

	// Unofficial opcodes
	set(0xA7, "LAX", 2, 3, modeZeroPage, false, laxOp)
	set(0xB7, "LAX", 2, 4, modeZeroPageY, false, laxOp)
	set(0xAF, "LAX", 3, 4, modeAbsolute, false, laxOp)
	set(0xBF, "LAX", 3, 4, modeAbsoluteY, true, laxOp)
	set(0xA3, "LAX", 2, 6, modeIndexedIndirect, false, laxOp)
	set(0xB3, "LAX", 2, 5, modeIndirectIndexed, true, laxOp)

	set(0x87, "SAX", 2, 3, modeZeroPage, false, saxOp)
	set(0x97, "SAX", 2, 4, modeZeroPageY, false, saxOp)
	set(0x8F, "SAX", 3, 4, modeAbsolute, false, saxOp)
	set(0x83, "SAX", 2, 6, modeIndexedIndirect, false, saxOp)

	set(0xC7, "DCP", 2, 5, modeZeroPage, false, dcpOp)
	set(0xD7, "DCP", 2, 6, modeZeroPageX, false, dcpOp)
	set(0xCF, "DCP", 3, 6, modeAbsolute, false, dcpOp)
	set(0xDF, "DCP", 3, 7, modeAbsoluteX, false, dcpOp)
	set(0xDB, "DCP", 3, 7, modeAbsoluteY, false, dcpOp)
	set(0xC3, "DCP", 2, 8, modeIndexedIndirect, false, dcpOp)
	set(0xD3, "DCP", 2, 8, modeIndirectIndexed, false, dcpOp)

	set(0xE7, "ISB", 2, 5, modeZeroPage, false, isbOp)
	set(0xF7, "ISB", 2, 6, modeZeroPageX, false, isbOp)
	set(0xEF, "ISB", 3, 6, modeAbsolute, false, isbOp)
	set(0xFF, "ISB", 3, 7, modeAbsoluteX, false, isbOp)
	set(0xFB, "ISB", 3, 7, modeAbsoluteY, false, isbOp)
	set(0xE3, "ISB", 2, 8, modeIndexedIndirect, false, isbOp)
	set(0xF3, "ISB", 2, 8, modeIndirectIndexed, false, isbOp)

	set(0x07, "SLO", 2, 5, modeZeroPage, false, sloOp)
	set(0x17, "SLO", 2, 6, modeZeroPageX, false, sloOp)
	set(0x0F, "SLO", 3, 6, modeAbsolute, false, sloOp)
	set(0x1F, "SLO", 3, 7, modeAbsoluteX, false, sloOp)
	set(0x1B, "SLO", 3, 7, modeAbsoluteY, false, sloOp)
	set(0x03, "SLO", 2, 8, modeIndexedIndirect, false, sloOp)
	set(0x13, "SLO", 2, 8, modeIndirectIndexed, false, sloOp)

	set(0x27, "RLA", 2, 5, modeZeroPage, false, rlaOp)
	set(0x37, "RLA", 2, 6, modeZeroPageX, false, rlaOp)
	set(0x2F, "RLA", 3, 6, modeAbsolute, false, rlaOp)
	set(0x3F, "RLA", 3, 7, modeAbsoluteX, false, rlaOp)
	set(0x3B, "RLA", 3, 7, modeAbsoluteY, false, rlaOp)
	set(0x23, "RLA", 2, 8, modeIndexedIndirect, false, rlaOp)
	set(0x33, "RLA", 2, 8, modeIndirectIndexed, false, rlaOp)

	set(0x47, "SRE", 2, 5, modeZeroPage, false, sreOp)
	set(0x57, "SRE", 2, 6, modeZeroPageX, false, sreOp)
	set(0x4F, "SRE", 3, 6, modeAbsolute, false, sreOp)
	set(0x5F, "SRE", 3, 7, modeAbsoluteX, false, sreOp)
	set(0x5B, "SRE", 3, 7, modeAbsoluteY, false, sreOp)
	set(0x43, "SRE", 2, 8, modeIndexedIndirect, false, sreOp)
	set(0x53, "SRE", 2, 8, modeIndirectIndexed, false, sreOp)

	set(0x67, "RRA", 2, 5, modeZeroPage, false, rraOp)
	set(0x77, "RRA", 2, 6, modeZeroPageX, false, rraOp)
	set(0x6F, "RRA", 3, 6, modeAbsolute, false, rraOp)
	set(0x7F, "RRA", 3, 7, modeAbsoluteX, false, rraOp)
	set(0x7B, "RRA", 3, 7, modeAbsoluteY, false, rraOp)
	set(0x63, "RRA", 2, 8, modeIndexedIndirect, false, rraOp)
	set(0x73, "RRA", 2, 8, modeIndirectIndexed, false, rraOp)
}

func ldaOp(cpu *CPU) uint8 { cpu.A = cpu.operand(); cpu.setZN(cpu.A); return 0 }
func ldxOp(cpu *CPU) uint8 { cpu.X = cpu.operand(); cpu.setZN(cpu.X); return 0 }
func ldyOp(cpu *CPU) uint8 { cpu.Y = cpu.operand(); cpu.setZN(cpu.Y); return 0 }

func staOp(cpu *CPU) uint8 { cpu.storeResult(cpu.A); return 0 }
func stxOp(cpu *CPU) uint8 { cpu.storeResult(cpu.X); return 0 }
func styOp(cpu *CPU) uint8 { cpu.storeResult(cpu.Y); return 0 }

func adcOp(cpu *CPU) uint8 {
	value := cpu.operand()
	var carry uint16
	if cpu.C {
		carry = 1
	}
	result := uint16(cpu.A) + uint16(value) + carry
	cpu.V = (cpu.A^uint8(result))&0x80 != 0 && (cpu.A^value)&0x80 == 0
	cpu.C = result > 0xFF
	cpu.A = uint8(result)
	cpu.setZN(cpu.A)
	return 0
}

func sbcOp(cpu *CPU) uint8 {
	value := cpu.operand() ^ 0xFF
	var carry uint16
	if cpu.C {
		carry = 1
	}
	result := uint16(cpu.A) + uint16(value) + carry
	cpu.V = (cpu.A^uint8(result))&0x80 != 0 && (cpu.A^value)&0x80 == 0
	cpu.C = result > 0xFF
	cpu.A = uint8(result)
	cpu.setZN(cpu.A)
	return 0
}

func andOp(cpu *CPU) uint8 { cpu.A &= cpu.operand(); cpu.setZN(cpu.A); return 0 }
func oraOp(cpu *CPU) uint8 { cpu.A |= cpu.operand(); cpu.setZN(cpu.A); return 0 }
func eorOp(cpu *CPU) uint8 { cpu.A ^= cpu.operand(); cpu.setZN(cpu.A); return 0 }

func aslOp(cpu *CPU) uint8 {
	v := cpu.operand()
	cpu.C = v&0x80 != 0
	v <<= 1
	cpu.storeResult(v)
	cpu.setZN(v)
	return 0
}

func lsrOp(cpu *CPU) uint8 {
	v := cpu.operand()
	cpu.C = v&0x01 != 0
	v >>= 1
	cpu.storeResult(v)
	cpu.setZN(v)
	return 0
}

func rolOp(cpu *CPU) uint8 {
	v := cpu.operand()
	oldC := cpu.C
	cpu.C = v&0x80 != 0
	v <<= 1
	if oldC {
		v |= 0x01
	}
	cpu.storeResult(v)
	cpu.setZN(v)
	return 0
}

func rorOp(cpu *CPU) uint8 {
	v := cpu.operand()
	oldC := cpu.C
	cpu.C = v&0x01 != 0
	v >>= 1
	if oldC {
		v |= 0x80
	}
	cpu.storeResult(v)
	cpu.setZN(v)
	return 0
}

func cmpOp(cpu *CPU) uint8 { return compare(cpu, cpu.A) }
func cpxOp(cpu *CPU) uint8 { return compare(cpu, cpu.X) }
func cpyOp(cpu *CPU) uint8 { return compare(cpu, cpu.Y) }

func compare(cpu *CPU, reg uint8) uint8 {
	v := cpu.operand()
	cpu.C = reg >= v
	cpu.setZN(reg - v)
	return 0
}

func incOp(cpu *CPU) uint8 { v := cpu.operand() + 1; cpu.storeResult(v); cpu.setZN(v); return 0 }
func decOp(cpu *CPU) uint8 { v := cpu.operand() - 1; cpu.storeResult(v); cpu.setZN(v); return 0 }

func inxOp(cpu *CPU) uint8 { cpu.X++; cpu.setZN(cpu.X); return 0 }
func dexOp(cpu *CPU) uint8 { cpu.X--; cpu.setZN(cpu.X); return 0 }
func inyOp(cpu *CPU) uint8 { cpu.Y++; cpu.setZN(cpu.Y); return 0 }
func deyOp(cpu *CPU) uint8 { cpu.Y--; cpu.setZN(cpu.Y); return 0 }

func taxOp(cpu *CPU) uint8 { cpu.X = cpu.A; cpu.setZN(cpu.X); return 0 }
func txaOp(cpu *CPU) uint8 { cpu.A = cpu.X; cpu.setZN(cpu.A); return 0 }
func tayOp(cpu *CPU) uint8 { cpu.Y = cpu.A; cpu.setZN(cpu.Y); return 0 }
func tyaOp(cpu *CPU) uint8 { cpu.A = cpu.Y; cpu.setZN(cpu.A); return 0 }
func tsxOp(cpu *CPU) uint8 { cpu.X = cpu.SP; cpu.setZN(cpu.X); return 0 }
func txsOp(cpu *CPU) uint8 { cpu.SP = cpu.X; return 0 }

func phaOp(cpu *CPU) uint8 { cpu.pushByte(cpu.A); return 0 }
func plaOp(cpu *CPU) uint8 { cpu.A = cpu.popByte(); cpu.setZN(cpu.A); return 0 }
func phpOp(cpu *CPU) uint8 { cpu.pushByte(cpu.StatusByte(true)); return 0 }
func plpOp(cpu *CPU) uint8 { cpu.SetStatusByte(cpu.popByte()); return 0 }

func clcOp(cpu *CPU) uint8 { cpu.C = false; return 0 }
func secOp(cpu *CPU) uint8 { cpu.C = true; return 0 }
func cliOp(cpu *CPU) uint8 { cpu.I = false; return 0 }
func seiOp(cpu *CPU) uint8 { cpu.I = true; return 0 }
func clvOp(cpu *CPU) uint8 { cpu.V = false; return 0 }
func cldOp(cpu *CPU) uint8 { cpu.D = false; return 0 }
func sedOp(cpu *CPU) uint8 { cpu.D = true; return 0 }

func jmpOp(cpu *CPU) uint8 { cpu.PC = cpu.opAddr; return 0 }

func jsrOp(cpu *CPU) uint8 {
	cpu.pushWord(cpu.PC - 1)
	cpu.PC = cpu.opAddr
	return 0
}

func rtsOp(cpu *CPU) uint8 { cpu.PC = cpu.popWord() + 1; return 0 }

func rtiOp(cpu *CPU) uint8 {
	cpu.SetStatusByte(cpu.popByte())
	cpu.PC = cpu.popWord()
	return 0
}

func branch(cpu *CPU, taken bool) uint8 {
	if !taken {
		return 0
	}
	crossed := cpu.opPageCrossed
	cpu.PC = cpu.opAddr
	if crossed {
		return 2
	}
	return 1
}

func bccOp(cpu *CPU) uint8 { return branch(cpu, !cpu.C) }
func bcsOp(cpu *CPU) uint8 { return branch(cpu, cpu.C) }
func bneOp(cpu *CPU) uint8 { return branch(cpu, !cpu.Z) }
func beqOp(cpu *CPU) uint8 { return branch(cpu, cpu.Z) }
func bplOp(cpu *CPU) uint8 { return branch(cpu, !cpu.N) }
func bmiOp(cpu *CPU) uint8 { return branch(cpu, cpu.N) }
func bvcOp(cpu *CPU) uint8 { return branch(cpu, !cpu.V) }
func bvsOp(cpu *CPU) uint8 { return branch(cpu, cpu.V) }

func bitOp(cpu *CPU) uint8 {
	v := cpu.operand()
	cpu.N = v&flagN != 0
	cpu.V = v&flagV != 0
	cpu.Z = cpu.A&v == 0
	return 0
}

func nopOp(cpu *CPU) uint8 { return 0 }

func brkOp(cpu *CPU) uint8 {
	cpu.PC++ // BRK's padding byte
	cpu.pushWord(cpu.PC)
	cpu.pushByte(cpu.StatusByte(true))
	cpu.I = true
	lo := uint16(cpu.bus.Read(vectorIRQ))
	hi := uint16(cpu.bus.Read(vectorIRQ + 1))
	cpu.PC = hi<<8 | lo
	return 0
}

func laxOp(cpu *CPU) uint8 {
	cpu.A = cpu.operand()
	cpu.X = cpu.A
	cpu.setZN(cpu.A)
	return 0
}

func saxOp(cpu *CPU) uint8 { cpu.storeResult(cpu.A & cpu.X); return 0 }

func dcpOp(cpu *CPU) uint8 {
	v := cpu.operand() - 1
	cpu.storeResult(v)
	cpu.C = cpu.A >= v
	cpu.setZN(cpu.A - v)
	return 0
}

func isbOp(cpu *CPU) uint8 {
	v := cpu.operand() + 1
	cpu.storeResult(v)
	return sbcOp(cpu)
}

func sloOp(cpu *CPU) uint8 {
	v := cpu.operand()
	cpu.C = v&0x80 != 0
	v <<= 1
	cpu.storeResult(v)
	cpu.A |= v
	cpu.setZN(cpu.A)
	return 0
}

func rlaOp(cpu *CPU) uint8 {
	v := cpu.operand()
	oldC := cpu.C
	cpu.C = v&0x80 != 0
	v <<= 1
	if oldC {
		v |= 0x01
	}
	cpu.storeResult(v)
	cpu.A &= v
	cpu.setZN(cpu.A)
	return 0
}

func sreOp(cpu *CPU) uint8 {
	v := cpu.operand()
	cpu.C = v&0x01 != 0
	v >>= 1
	cpu.storeResult(v)
	cpu.A ^= v
	cpu.setZN(cpu.A)
	return 0
}

func rraOp(cpu *CPU) uint8 {
	v := cpu.operand()
	oldC := cpu.C
	cpu.C = v&0x01 != 0
	v >>= 1
	if oldC {
		v |= 0x80
	}
	cpu.storeResult(v)
	return adcAccumulate(cpu, v)
}

// adcAccumulate performs RRA's trailing ADC against an already-rotated
// value without re-reading the operand (the byte now lives in memory,
// not cpu.opAddr's pre-rotation contents).
func adcAccumulate(cpu *CPU, value uint8) uint8 {
	var carry uint16
	if cpu.C {
		carry = 1
	}
	result := uint16(cpu.A) + uint16(value) + carry
	cpu.V = (cpu.A^uint8(result))&0x80 != 0 && (cpu.A^value)&0x80 == 0
	cpu.C = result > 0xFF
	cpu.A = uint8(result)
	cpu.setZN(cpu.A)
	return 0
}
