// Package addr holds the CHIP-8 memory map.
package addr

const (
	// FontBase is where the built-in hexadecimal glyphs are installed.
	FontBase uint16 = 0x000
	// ProgramStart is the load address of programs and the initial PC.
	ProgramStart uint16 = 0x200
	// MemorySize is the size of the addressable space in bytes.
	MemorySize = 0x1000
	// MaxProgramSize is the space available from ProgramStart to the end of memory.
	MaxProgramSize = MemorySize - int(ProgramStart)
	// LastInstruction is the highest PC a 2-byte fetch can start from.
	LastInstruction uint16 = MemorySize - 2
	// Mask keeps an address inside the 12 bit space.
	Mask uint16 = 0x0FFF
)

const (
	// GlyphHeight is the number of bytes (rows) in a font glyph.
	GlyphHeight = 5
	// GlyphCount is the number of font glyphs, one per hex digit.
	GlyphCount = 16
)

// Glyph returns the address of the font glyph for the given hex digit.
func Glyph(digit uint8) uint16 {
	return FontBase + uint16(digit&0x0F)*GlyphHeight
}
