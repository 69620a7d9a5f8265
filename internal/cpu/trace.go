package cpu

import "fmt"

// TraceLine renders one line of a nestest-style instruction trace for
// the instruction about to execute at the current PC: address, raw
// opcode bytes, mnemonic and operand, then register state. It is a
// read-only peek built for golden-log comparison tests — it reads
// through the bus but does not advance PC or otherwise touch execution
// state, so it must not be called from the hot Step path.
func (cpu *CPU) TraceLine() string {
	pc := cpu.PC
	opcode := cpu.bus.Read(pc)
	inst := cpu.instructions[opcode]
	if inst == nil {
		return fmt.Sprintf("%04X  %02X        ???                         A:%02X X:%02X Y:%02X P:%02X SP:%02X",
			pc, opcode, cpu.A, cpu.X, cpu.Y, cpu.StatusByte(false), cpu.SP)
	}

	raw := make([]uint8, inst.bytes)
	raw[0] = opcode
	for i := uint8(1); i < inst.bytes; i++ {
		raw[i] = cpu.bus.Read(pc + uint16(i))
	}

	var hexBytes string
	for _, b := range raw {
		hexBytes += fmt.Sprintf("%02X ", b)
	}

	return fmt.Sprintf("%04X  %-9s%-4s %-27s A:%02X X:%02X Y:%02X P:%02X SP:%02X",
		pc, hexBytes, inst.name, disassembleOperand(inst, pc, raw),
		cpu.A, cpu.X, cpu.Y, cpu.StatusByte(false), cpu.SP)
}

// disassembleOperand formats the operand text nestest's log shows after
// the mnemonic; it does not reproduce the log's "@ effective address = value"
// annotations for indexed/indirect modes, only the bare operand.
func disassembleOperand(inst *instruction, pc uint16, raw []uint8) string {
	switch inst.mode {
	case modeImplied:
		return ""
	case modeAccumulator:
		return "A"
	case modeImmediate:
		return fmt.Sprintf("#$%02X", raw[1])
	case modeZeroPage:
		return fmt.Sprintf("$%02X", raw[1])
	case modeZeroPageX:
		return fmt.Sprintf("$%02X,X", raw[1])
	case modeZeroPageY:
		return fmt.Sprintf("$%02X,Y", raw[1])
	case modeRelative:
		offset := int8(raw[1])
		target := uint16(int32(pc+2) + int32(offset))
		return fmt.Sprintf("$%04X", target)
	case modeAbsolute:
		return fmt.Sprintf("$%04X", uint16(raw[2])<<8|uint16(raw[1]))
	case modeAbsoluteX:
		return fmt.Sprintf("$%04X,X", uint16(raw[2])<<8|uint16(raw[1]))
	case modeAbsoluteY:
		return fmt.Sprintf("$%04X,Y", uint16(raw[2])<<8|uint16(raw[1]))
	case modeIndirect:
		return fmt.Sprintf("($%04X)", uint16(raw[2])<<8|uint16(raw[1]))
	case modeIndexedIndirect:
		return fmt.Sprintf("($%02X,X)", raw[1])
	case modeIndirectIndexed:
		return fmt.Sprintf("($%02X),Y", raw[1])
	default:
		return ""
	}
}
