package printer

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// ESC/POS control bytes
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Alignment values for SetAlign
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Character sizes for SetFontSize
const (
	FontNormal = 0x00
	FontDouble = 0x11
)

// Common paper widths in characters.
const (
	Width58mm = 32
	Width80mm = 48
)

// Document builds an ESC/POS byte stream. Layout helpers count runes, not
// bytes, so non-ASCII customer names keep their columns.
type Document struct {
	buf   bytes.Buffer
	width int
}

// NewDocument starts a document for a printer that fits width characters per line.
func NewDocument(width int) *Document {
	if width <= 0 {
		width = Width58mm
	}
	d := &Document{width: width}
	d.buf.Write([]byte{ESC, '@'})
	return d
}

// Width is the number of characters per line.
func (d *Document) Width() int {
	return d.width
}

// FeedLines sends n line feeds.
func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

// SetAlign sets alignment for the following lines.
func (d *Document) SetAlign(align int) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(align)})
	return d
}

// SetBold toggles emphasis.
func (d *Document) SetBold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

// SetFontSize sets the character size.
func (d *Document) SetFontSize(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Text writes s, wrapped at the line width.
func (d *Document) Text(s string) *Document {
	for _, line := range wrap(s, d.width) {
		d.buf.WriteString(line)
		d.buf.WriteByte(LF)
	}
	return d
}

// Separator prints a full-width rule.
func (d *Document) Separator(char rune) *Document {
	d.buf.WriteString(strings.Repeat(string(char), d.width))
	d.buf.WriteByte(LF)
	return d
}

// Columns prints left and right on one line, shortening left when both do
// not fit.
func (d *Document) Columns(left, right string) *Document {
	room := d.width - utf8.RuneCountInString(right) - 1
	if room < 1 {
		room = 1
	}
	left = truncate(left, room)
	pad := d.width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if pad < 1 {
		pad = 1
	}
	d.buf.WriteString(left)
	d.buf.WriteString(strings.Repeat(" ", pad))
	d.buf.WriteString(right)
	d.buf.WriteByte(LF)
	return d
}

// PartialCut leaves a small tab so the ticket stays on the roll.
func (d *Document) PartialCut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

// Bytes returns the job.
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "."
}

func wrap(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	var line []rune
	for _, w := range words {
		word := []rune(w)
		for len(word) > width {
			if len(line) > 0 {
				lines = append(lines, string(line))
				line = nil
			}
			lines = append(lines, string(word[:width]))
			word = word[width:]
		}
		switch {
		case len(line) == 0:
			line = word
		case len(line)+1+len(word) <= width:
			line = append(append(line, ' '), word...)
		default:
			lines = append(lines, string(line))
			line = word
		}
	}
	if len(line) > 0 {
		lines = append(lines, string(line))
	}
	return lines
}
