package linecount

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"lnwarn/internal/textutil"
)

// DecodeError means the stream is not text in the configured encoding.
type DecodeError struct {
	Line   int
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	return e.Reason
}

type Counter struct {
	filters  []Filter
	accept   Filter
	encoding string
}

type Option func(*Counter)

// WithEncoding sets the encoding used when the stream carries no byte order mark.
func WithEncoding(name string) Option {
	return func(c *Counter) {
		c.encoding = name
	}
}

func New(filters []Filter, opts ...Option) *Counter {
	c := &Counter{
		filters:  append([]Filter(nil), filters...),
		encoding: textutil.EncodingUTF8,
	}
	for _, o := range opts {
		o(c)
	}
	c.accept = All(c.filters...)
	return c
}

// Filters returns the number of filters in the chain.
func (c *Counter) Filters() int { return len(c.filters) }

func (c *Counter) Encoding() string { return c.encoding }

// MaxLineBytes bounds a single line; longer lines fail the count.
const MaxLineBytes = 16 << 20

// Count returns the number of lines in r accepted by the filter chain. A line
// ends at "\n", "\r" or "\r\n"; a final unterminated run is a line, a trailing
// terminator does not start one. r is not closed.
func (c *Counter) Count(r io.Reader) (uint, error) {
	dec, err := textutil.NewReader(r, c.encoding)
	if err != nil {
		return 0, err
	}
	br := bufio.NewReaderSize(dec, textutil.SniffLen)
	sample, err := br.Peek(textutil.SniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return 0, fmt.Errorf("read: %w", err)
	}
	if textutil.DetectBinary(sample) {
		return 0, &DecodeError{Reason: "binary content"}
	}

	sc := bufio.NewScanner(br)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)
	sc.Split(scanLines)

	var total uint
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if !utf8.ValidString(line) {
			return 0, &DecodeError{Line: lineNo, Reason: "invalid " + c.encoding + " text"}
		}
		if strings.IndexByte(line, 0) >= 0 {
			return 0, &DecodeError{Line: lineNo, Reason: "binary content"}
		}
		if c.accept(line) {
			total++
		}
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("read line %d: %w", lineNo+1, err)
	}
	return total, nil
}

// scanLines is bufio.ScanLines with "\r" alone also ending a line.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
