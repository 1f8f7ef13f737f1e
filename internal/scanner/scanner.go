// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package scanner provides a streaming lexer for infix arithmetic.
package scanner

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"

	"nickandperla.net/pcalc/internal/calcerr"
	"nickandperla.net/pcalc/internal/token"
)

// Scanner tokenizes an expression rune-by-rune.
type Scanner struct {
	reader *bufio.Reader
	buf    strings.Builder
	peeked *Item
	prev   token.Token // Last token returned, EOF before the first one
	pos    int         // Rune offset of the next unread rune
}

// Item represents a scanned token with its value.
type Item struct {
	Token token.Token
	Value string
	Pos   int // Rune offset where this token started
}

func (i Item) String() string {
	if i.Token == token.NUMBER {
		return i.Value
	}
	return i.Token.String()
}

// New creates a new Scanner from an io.Reader.
func New(r io.Reader) *Scanner {
	return &Scanner{
		reader: bufio.NewReader(r),
		prev:   token.EOF,
	}
}

// NewFromString creates a new Scanner from a string.
func NewFromString(s string) *Scanner {
	return New(strings.NewReader(s))
}

// Peek returns the next item without consuming it.
func (s *Scanner) Peek() (*Item, error) {
	if s.peeked != nil {
		return s.peeked, nil
	}
	item, err := s.Next()
	if err != nil {
		return nil, err
	}
	s.peeked = item
	return item, nil
}

// Next returns the next token from the input.
func (s *Scanner) Next() (*Item, error) {
	if s.peeked != nil {
		item := s.peeked
		s.peeked = nil
		return item, nil
	}

	item, err := s.scan()
	if err != nil {
		return nil, err
	}
	s.prev = item.Token
	return item, nil
}

// All drains the scanner and returns every item before EOF.
func (s *Scanner) All() ([]Item, error) {
	var items []Item
	for {
		item, err := s.Next()
		if err != nil {
			return nil, err
		}
		if item.Token == token.EOF {
			return items, nil
		}
		items = append(items, *item)
	}
}

// Tokenize scans a whole expression string.
func Tokenize(input string) ([]Item, error) {
	return NewFromString(input).All()
}

func (s *Scanner) scan() (*Item, error) {
	if err := s.skipWhitespace(); err != nil {
		return nil, err
	}

	start := s.pos
	r, err := s.read()
	if err == io.EOF {
		return &Item{Token: token.EOF, Pos: start}, nil
	}
	if err != nil {
		return nil, err
	}

	switch {
	case token.IsDigit(r) || r == token.RuneDot:
		return s.scanNumber(start, r)

	case token.IsSign(r) && s.operandExpected():
		// A sign only binds to a literal that follows it immediately.
		next, err := s.peekRune()
		if err != nil {
			return nil, err
		}
		if token.IsDigit(next) || next == token.RuneDot {
			return s.scanNumber(start, r)
		}
		return &Item{Token: token.TokenFromRune(r), Value: string(r), Pos: start}, nil

	case token.IsOperator(r):
		return &Item{Token: token.TokenFromRune(r), Value: string(r), Pos: start}, nil
	}

	return nil, fmt.Errorf("%w: unexpected character %q at %d", calcerr.ErrMalformedExpression, r, start)
}

// operandExpected reports whether the grammar wants a literal next, which is
// the only place a leading sign is part of the literal.
func (s *Scanner) operandExpected() bool {
	return s.prev == token.EOF || s.prev == token.LPAREN || s.prev.IsBinary()
}

// scanNumber reads an optionally signed decimal literal with at most one
// dot. first is the already consumed leading rune.
func (s *Scanner) scanNumber(start int, first rune) (*Item, error) {
	s.buf.Reset()
	s.buf.WriteRune(first)
	digits := 0
	dot := first == token.RuneDot
	if token.IsDigit(first) {
		digits++
	}

scan:
	for {
		r, err := s.read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch {
		case token.IsDigit(r):
			digits++
		case r == token.RuneDot && !dot:
			dot = true
		default:
			s.unread()
			break scan
		}
		s.buf.WriteRune(r)
	}

	if digits == 0 {
		return nil, fmt.Errorf("%w: literal %q at %d has no digits", calcerr.ErrMalformedExpression, s.buf.String(), start)
	}
	return &Item{Token: token.NUMBER, Value: s.buf.String(), Pos: start}, nil
}

func (s *Scanner) read() (rune, error) {
	r, _, err := s.reader.ReadRune()
	if err != nil {
		return 0, err
	}
	s.pos++
	return r, nil
}

func (s *Scanner) unread() {
	if s.reader.UnreadRune() == nil {
		s.pos--
	}
}

// peekRune returns the next rune without consuming it. Returns 0 on EOF.
func (s *Scanner) peekRune() (rune, error) {
	r, _, err := s.reader.ReadRune()
	if err == io.EOF {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	s.reader.UnreadRune()
	return r, nil
}

// skipWhitespace consumes and discards whitespace.
func (s *Scanner) skipWhitespace() error {
	for {
		r, err := s.read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if !unicode.IsSpace(r) {
			s.unread()
			return nil
		}
	}
}
