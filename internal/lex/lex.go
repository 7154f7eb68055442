// Package lex implements a small state driven lexer.
//
// Clients supply the lexing states as functions returning the next state and
// pull tokens one at a time with Lex. The design follows the lexer presented
// by Rob Pike in his "Lexical Scanning in Go" talk, with the goroutine
// replaced by an item queue.
//
package lex

import (
	"io"
	"strconv"
)

// EOF is the Type of the end-of-input Item as well as the rune returned by
// Next once the input is exhausted.
//
const EOF = -1

// Type identifies the type of an Item. Client packages define their own token
// types, starting at 0.
//
type Type int

// Pos is a rune offset into the input.
//
type Pos int

// An Item is a token emitted by a Lexer. Pos is the offset of the token's
// first rune. Value holds the token value in whatever form the emitting state
// function chose (string, int, rune).
//
type Item struct {
	Type  Type
	Pos   Pos
	Value interface{}
}

func (i Item) String() string {
	switch v := i.Value.(type) {
	case string:
		if i.Type == EOF {
			return v
		}
		return strconv.Quote(v)
	case rune:
		return strconv.QuoteRune(v)
	case int:
		return strconv.Itoa(v)
	}
	return "<nil>"
}

// A StateFn is a lexing state. It consumes runes, emits items and returns the
// next state. Returning nil hands control back to the initial state.
//
type StateFn func(l *Lexer) StateFn

// Interface wraps the Lex method.
//
type Interface interface {
	Lex() Item
}

// A Lexer runs a set of client supplied state functions over a rune stream.
//
type Lexer struct {
	r      io.RuneReader
	init   StateFn
	state  StateFn
	queue  []Item
	pos    Pos // position of the last rune read
	start  Pos // position of the first rune of the current token
	cur    rune
	backed bool
	eof    bool
}

// New returns a new Lexer reading runes from r, with init as its initial
// state.
//
func New(r io.RuneReader, init StateFn) *Lexer {
	return &Lexer{r: r, init: init, pos: -1, cur: EOF}
}

// Lex runs the state machine until an item is emitted, then returns it.
//
func (l *Lexer) Lex() Item {
	for len(l.queue) == 0 {
		if l.state == nil {
			l.state = l.init
			if l.backed {
				l.start = l.pos
			} else {
				l.start = l.pos + 1
			}
		}
		l.state = l.state(l)
	}
	i := l.queue[0]
	l.queue = l.queue[1:]
	return i
}

// Next consumes and returns the next rune, or EOF.
//
func (l *Lexer) Next() rune {
	if l.backed {
		l.backed = false
		return l.cur
	}
	if l.eof {
		return EOF
	}
	r, _, err := l.r.ReadRune()
	if err != nil {
		l.eof = true
		l.cur = EOF
		return EOF
	}
	l.pos++
	l.cur = r
	return r
}

// Current returns the last rune consumed without consuming any input.
//
func (l *Lexer) Current() rune {
	return l.cur
}

// Backup un-consumes the last rune. Only one level of backup is supported.
//
func (l *Lexer) Backup() {
	l.backed = true
}

// AcceptWhile consumes runes while p returns true, then backs up so that the
// first rejected rune is consumed again by the next call to Next.
//
func (l *Lexer) AcceptWhile(p func(r rune) bool) {
	for p(l.Next()) {
	}
	l.Backup()
}

// Emit appends an item of the given type and value to the token queue. The
// item position is that of the first rune consumed since the last token
// boundary.
//
func (l *Lexer) Emit(t Type, value interface{}) {
	l.queue = append(l.queue, Item{Type: t, Pos: l.start, Value: value})
}
