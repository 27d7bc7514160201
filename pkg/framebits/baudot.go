package framebits

// ITA-2 (Baudot) code points. The LETTERS table is the standard one;
// the FIGURES table mixes US TTY and CCITT No. 2 assignments (0x05 is
// BEL and 0x14 is '#' as in US TTY; 0x09 is ENQ, 0x11 is '+' and 0x1E
// is '=' as in CCITT No. 2). Codes shared between the LETTERS and
// FIGURES case (blank, space, CR, LF) never trigger a shift.
const (
	codeBlank = 0x00
	codeLF    = 0x02
	codeSpace = 0x04
	codeCR    = 0x08
	codeFigs  = 0x1B
	codeLtrs  = 0x1F
)

type shiftState int

const (
	shiftLetters shiftState = iota
	shiftFigures
)

var lettersTable = [32]byte{
	0x00: 0, 0x01: 'E', 0x02: '\n', 0x03: 'A',
	0x04: ' ', 0x05: 'S', 0x06: 'I', 0x07: 'U',
	0x08: '\r', 0x09: 'D', 0x0A: 'R', 0x0B: 'J',
	0x0C: 'N', 0x0D: 'F', 0x0E: 'C', 0x0F: 'K',
	0x10: 'T', 0x11: 'Z', 0x12: 'L', 0x13: 'W',
	0x14: 'H', 0x15: 'Y', 0x16: 'P', 0x17: 'Q',
	0x18: 'O', 0x19: 'B', 0x1A: 'G', 0x1B: 0,
	0x1C: 'M', 0x1D: 'X', 0x1E: 'V', 0x1F: 0,
}

var figuresTable = [32]byte{
	0x00: 0, 0x01: '3', 0x02: '\n', 0x03: '-',
	0x04: ' ', 0x05: '\a', 0x06: '8', 0x07: '7',
	0x08: '\r', 0x09: 0x05, 0x0A: '4', 0x0B: '\'',
	0x0C: ',', 0x0D: '!', 0x0E: ':', 0x0F: '(',
	0x10: '5', 0x11: '+', 0x12: ')', 0x13: '2',
	0x14: '#', 0x15: '6', 0x16: '0', 0x17: '1',
	0x18: '9', 0x19: '?', 0x1A: '&', 0x1B: 0,
	0x1C: '.', 0x1D: '/', 0x1E: '=', 0x1F: 0,
}

var (
	letterCode = invert(lettersTable)
	figureCode = invert(figuresTable)
)

func invert(table [32]byte) map[byte]uint32 {
	m := make(map[byte]uint32, 32)
	for code, ch := range table {
		if ch == 0 && code != int(codeBlank) {
			continue
		}
		if _, exists := m[ch]; !exists {
			m[ch] = uint32(code)
		}
	}
	return m
}

type baudotCodec struct {
	shift shiftState
}

func (*baudotCodec) DataBits() int { return 5 }

func (c *baudotCodec) Encode(b byte) []uint32 {
	if b >= 'a' && b <= 'z' {
		b -= 'a' - 'A'
	}

	if code, ok := letterCode[b]; ok && isShared(code) {
		return []uint32{code}
	}

	if code, ok := letterCode[b]; ok {
		out := c.shiftTo(shiftLetters)
		return append(out, code)
	}

	if code, ok := figureCode[b]; ok {
		out := c.shiftTo(shiftFigures)
		return append(out, code)
	}

	// Unencodable byte: fall back to a blank rather than dropping the
	// transmit stream out of sync.
	return []uint32{codeBlank}
}

func (c *baudotCodec) shiftTo(target shiftState) []uint32 {
	if c.shift == target {
		return nil
	}
	c.shift = target
	if target == shiftFigures {
		return []uint32{codeFigs}
	}
	return []uint32{codeLtrs}
}

func isShared(code uint32) bool {
	switch code {
	case codeBlank, codeCR, codeSpace, codeLF:
		return true
	default:
		return false
	}
}

func (c *baudotCodec) Decode(word uint32) (byte, bool) {
	switch word {
	case codeLtrs:
		c.shift = shiftLetters
		return 0, false
	case codeFigs:
		c.shift = shiftFigures
		return 0, false
	}

	if c.shift == shiftFigures {
		if ch := figuresTable[word&0x1F]; ch != 0 {
			return ch, true
		}
		return 0, false
	}
	if ch := lettersTable[word&0x1F]; ch != 0 {
		return ch, true
	}
	return 0, false
}

func (c *baudotCodec) Reset() {
	c.shift = shiftLetters
}
