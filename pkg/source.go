package minipas

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const EOF rune = 0

// Location is a 1-based line and column inside a source file.
type Location struct {
	Line int
	Col  int
}

func (l *Location) String() string {
	if l == nil {
		return "?:?"
	}

	return fmt.Sprintf("%d:%d", l.Line, l.Col)
}

// Source yields characters one at a time. Current returns the character under the
// cursor, Next advances and returns the new current character, and Peek looks one
// character ahead without leaving the current line. All three return EOF once the
// input is exhausted. Unread moves the cursor back n characters, never past the
// start of the current line.
type Source interface {
	Current() rune
	Next() rune
	Peek() rune
	Unread(n int)
	Position() *Location
	GetFilename() string
}

type lineSource struct {
	filename string
	reader   *bufio.Reader
	closer   io.Closer

	line    []rune
	lineNum int
	col     int
	done    bool
}

// OpenSource opens filename for reading. Failing to open the file is the only
// fatal error of a compilation session.
func OpenSource(filename string) (Source, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open source %s: %w", filename, err)
	}

	s := newLineSource(filename, f)
	s.closer = f

	return s, nil
}

func NewSource(filename string, reader io.Reader) Source {
	return newLineSource(filename, reader)
}

// NewStringSource is a shorthand used mostly by tests.
func NewStringSource(src string) Source {
	return newLineSource("", strings.NewReader(src))
}

func newLineSource(filename string, reader io.Reader) *lineSource {
	s := &lineSource{
		filename: filename,
		reader:   bufio.NewReader(reader),
	}
	s.readLine()

	return s
}

func (s *lineSource) GetFilename() string {
	return s.filename
}

func (s *lineSource) Current() rune {
	if s.done {
		return EOF
	}

	return s.line[s.col]
}

func (s *lineSource) Next() rune {
	if s.done {
		return EOF
	}

	if s.col+1 < len(s.line) {
		s.col++
		return s.line[s.col]
	}

	s.readLine()
	return s.Current()
}

func (s *lineSource) Peek() rune {
	if s.done || s.col+1 >= len(s.line) {
		return EOF
	}

	return s.line[s.col+1]
}

func (s *lineSource) Unread(n int) {
	if s.done {
		return
	}

	s.col -= n
	if s.col < 0 {
		s.col = 0
	}
}

func (s *lineSource) Position() *Location {
	return &Location{Line: s.lineNum, Col: s.col + 1}
}

// readLine loads the next line, normalising its terminator to a single '\n'.
// Empty lines still count toward line numbers.
func (s *lineSource) readLine() {
	text, err := s.reader.ReadString('\n')
	if text == "" && err != nil {
		// EOF is reported just past the last character of the last line
		s.done = true
		if len(s.line) > 0 {
			s.col = len(s.line) - 1
		}
		s.line = nil
		if s.lineNum == 0 {
			s.lineNum = 1
		}

		if s.closer != nil {
			_ = s.closer.Close()
			s.closer = nil
		}

		return
	}

	text = strings.TrimRight(text, "\r\n")
	s.line = append([]rune(text), '\n')
	s.lineNum++
	s.col = 0
}
