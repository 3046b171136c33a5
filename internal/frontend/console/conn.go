// Package console provides the line-oriented terminal port the game talks to,
// plus ANSI styling helpers.
package console

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"
)

// Conn wraps a reader/writer pair with line-based reading and writing.
// Control characters other than tab are filtered from input.
type Conn struct {
	reader *bufio.Reader
	w      io.Writer
	mu     sync.Mutex
}

// NewConn wraps r and w.
//
// Precondition: r and w must be non-nil.
// Postcondition: Returns a Conn ready for reading and writing.
func NewConn(r io.Reader, w io.Writer) *Conn {
	return &Conn{
		reader: bufio.NewReaderSize(r, 4096),
		w:      w,
	}
}

// ReadLine reads a single line of input. The returned line does not include
// the trailing \r\n or \n. A final unterminated line is returned without error;
// the next call reports io.EOF.
//
// Postcondition: Returns the next line of text input, or an error (including io.EOF).
func (c *Conn) ReadLine() (string, error) {
	var line bytes.Buffer
	for {
		b, err := c.reader.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) && line.Len() > 0 {
				return line.String(), nil
			}
			return line.String(), err
		}

		if b == '\n' {
			break
		}
		if b == '\r' {
			next, err := c.reader.Peek(1)
			if err == nil && len(next) > 0 && next[0] == '\n' {
				_, _ = c.reader.ReadByte()
			}
			break
		}

		if b < 32 && b != '\t' {
			continue
		}

		line.WriteByte(b)
	}

	return line.String(), nil
}

// WriteLine writes text followed by a newline.
//
// Precondition: text should not contain trailing newline characters.
func (c *Conn) WriteLine(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.w, "%s\n", text)
	return err
}

// WritePrompt writes a prompt string without a trailing newline.
func (c *Conn) WritePrompt(prompt string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprint(c.w, prompt)
	return err
}
