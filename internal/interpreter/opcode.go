package interpreter

// opcode contains the nibble fields of a fetched 16 bit opcode.
type opcode struct {
	raw   uint16
	class uint8  // bits 12-15
	x     int    // bits 8-11
	y     int    // bits 4-7
	n     uint8  // bits 0-3
	nn    uint8  // bits 0-7
	nnn   uint16 // bits 0-11
}

func decode(raw uint16) opcode {
	return opcode{
		raw:   raw,
		class: uint8(raw >> 12),
		x:     int(raw>>8) & 0xf,
		y:     int(raw>>4) & 0xf,
		n:     uint8(raw) & 0xf,
		nn:    uint8(raw),
		nnn:   raw & 0xfff,
	}
}
