package draw

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strconv"
	"unicode/utf8"

	"golang.org/x/term"
)

// Terminal control sequences.
const (
	seqClear      = "\033[H\033[2J"
	seqHideCursor = "\033[?25l"
	seqShowCursor = "\033[?25h"
	seqBell       = "\a"
)

// Frame collects one frame of terminal output: the rendered canvas and the
// text overlays drawn on top of it. Nothing reaches the terminal until
// Flush. Text positions are 1-based within the play area; the area offset
// is added on output.
type Frame struct {
	buf    bytes.Buffer
	out    *bufio.Writer
	numBuf [20]byte
	offCol int
	offRow int
}

// NewFrame creates a frame writing to w with the play area at the given
// terminal offset.
func NewFrame(w io.Writer, offsetCol, offsetRow int) *Frame {
	return &Frame{
		out:    bufio.NewWriterSize(w, 8192),
		offCol: offsetCol,
		offRow: offsetRow,
	}
}

// SetOffset moves the play area, e.g. after a terminal resize.
func (f *Frame) SetOffset(offsetCol, offsetRow int) {
	f.offCol = offsetCol
	f.offRow = offsetRow
}

// Write appends raw output. Canvas.Render writes through it.
func (f *Frame) Write(p []byte) (int, error) {
	return f.buf.Write(p)
}

var _ io.Writer = (*Frame)(nil)

func (f *Frame) moveTo(col, row int) {
	f.buf.WriteString("\033[")
	f.buf.Write(strconv.AppendInt(f.numBuf[:0], int64(row+f.offRow), 10))
	f.buf.WriteByte(';')
	f.buf.Write(strconv.AppendInt(f.numBuf[:0], int64(col+f.offCol), 10))
	f.buf.WriteByte('H')
}

// Text writes s starting at col, row.
func (f *Frame) Text(col, row int, s string) {
	f.moveTo(max(col, 1), row)
	f.buf.WriteString(s)
}

// Centered writes s centered on column center.
func (f *Frame) Centered(center, row int, s string) {
	f.Text(center-utf8.RuneCountInString(s)/2, row, s)
}

// RightAligned writes s so that its last rune sits on column right.
func (f *Frame) RightAligned(right, row int, s string) {
	f.Text(right-utf8.RuneCountInString(s)+1, row, s)
}

// Field writes s padded or cut to width runes, so a shorter value
// overwrites what a longer one left behind.
func (f *Frame) Field(col, row, width int, s string) {
	n := utf8.RuneCountInString(s)
	if n > width {
		runes := []rune(s)
		s = string(runes[:width])
		n = width
	}
	f.Text(col, row, s)
	for ; n < width; n++ {
		f.buf.WriteByte(' ')
	}
}

// Block writes lines centered on column center, one per row from row on,
// and returns the row after the last line.
func (f *Frame) Block(center, row int, lines []string) int {
	for _, line := range lines {
		f.Centered(center, row, line)
		row++
	}
	return row
}

// Clear wipes the whole terminal before the rest of the frame is drawn.
func (f *Frame) Clear() {
	f.buf.WriteString(seqClear)
}

// Bell rings the terminal bell.
func (f *Frame) Bell() {
	f.buf.WriteString(seqBell)
}

// Flush sends the frame and starts an empty one.
func (f *Frame) Flush() error {
	if err := writeChunked(f.out, f.buf.Bytes()); err != nil {
		return err
	}
	f.buf.Reset()
	return f.out.Flush()
}

// writeChunked writes data in pieces no larger than maxChunkSize.
func writeChunked(w io.Writer, data []byte) error {
	for len(data) > 0 {
		n := min(len(data), maxChunkSize)
		if _, err := w.Write(data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// TermSizeFunc reports the terminal size in columns and rows.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc reads the size of os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// FixedTermSize reports width x height forever.
func FixedTermSize(width, height int) TermSizeFunc {
	return func() (int, int, error) { return width, height, nil }
}

// ClearScreen clears the terminal and homes the cursor.
func ClearScreen(w io.Writer) {
	io.WriteString(w, seqClear)
}

// SetCursorVisible shows or hides the terminal cursor.
func SetCursorVisible(w io.Writer, visible bool) {
	if visible {
		io.WriteString(w, seqShowCursor)
		return
	}
	io.WriteString(w, seqHideCursor)
}
