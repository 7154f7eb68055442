// Package pins implements the scanner and parser for pin description
// sub-strings as they appear in I/O specifications and connection
// configuration strings.
//
package pins

import (
	"strings"
	"unicode"

	"github.com/db47h/hwbench/internal/lex"
	"github.com/pkg/errors"
)

// token types
const (
	tokEOF lex.Type = lex.EOF
	tokRaw lex.Type = iota
	tokIdent
	tokBracketOpen
	tokBracketClose
	tokComma
	tokInt
	tokRange
	tokEqual
)

func newLexer(input string) lex.Interface {
	return lex.New(strings.NewReader(input), lexInit)
}

func lexInit(l *lex.Lexer) lex.StateFn {
	r := l.Next()
	switch {
	case r == lex.EOF:
		return lexEOF
	case unicode.IsSpace(r):
		l.AcceptWhile(unicode.IsSpace)
	case unicode.IsLetter(r) || r == '_':
		return lexIdent
	case '0' <= r && r <= '9':
		return lexNumber
	case r == '[':
		l.Emit(tokBracketOpen, "[")
	case r == ']':
		l.Emit(tokBracketClose, "]")
	case r == ',':
		l.Emit(tokComma, ",")
	case r == '=':
		l.Emit(tokEqual, "=")
	case r == '.':
		if l.Next() == '.' {
			l.Emit(tokRange, "..")
			break
		}
		l.Backup()
		fallthrough
	default:
		l.Emit(tokRaw, r)
		return lexEOF
	}
	return nil
}

func lexNumber(l *lex.Lexer) lex.StateFn {
	i := int(l.Current() - '0')
	r := l.Next()
	for '0' <= r && r <= '9' {
		i = i*10 + int(r-'0')
		r = l.Next()
	}
	l.Backup()
	l.Emit(tokInt, i)
	return nil
}

func lexIdent(l *lex.Lexer) lex.StateFn {
	var buf strings.Builder
	buf.Grow(8)
	buf.WriteRune(l.Current())
	r := l.Next()
	for unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
		buf.WriteRune(r)
		r = l.Next()
	}
	l.Backup()
	l.Emit(tokIdent, buf.String())
	return nil
}

// lexEOF places the lexer in End-Of-File state.
// Once in this state, the lexer will only emit EOF.
//
func lexEOF(l *lex.Lexer) lex.StateFn {
	l.Emit(lex.EOF, "end of input")
	return lexEOF
}

// Pin is a plain pin name.
//
type Pin struct {
	Name string
	Pos  lex.Pos
}

// PinIndex is an indexed pin p[index]. In I/O specifications the index
// denotes a bus size instead.
//
type PinIndex struct {
	Pin
	Index int
}

// PinRange is a pin range p[start..end].
//
type PinRange struct {
	Pin
	Start int
	End   int
}

// PinAssignment is a part pin to chip pin assignment pp=cp. Both sides are
// one of Pin, PinIndex or PinRange.
//
type PinAssignment struct {
	LHS interface{}
	RHS interface{}
}

const (
	stateInit = iota
	stateDone
)

// A Parser splits a comma separated list of pin descriptions into Pin,
// PinIndex, PinRange and PinAssignment values.
//
type Parser struct {
	Input string
	l     lex.Interface
	i     lex.Item
	state int
}

// Next returns the next pin description in the input stream, or nil once the
// input is exhausted. With conns set, pin assignments pp=cp are accepted,
// otherwise only bare pin descriptions are.
//
func (p *Parser) Next(conns bool) (interface{}, error) {
	if p.state == stateDone {
		return nil, nil
	}
	if p.l == nil {
		p.l = newLexer(p.Input)
	}

	p.i = p.l.Lex()
	if p.state == stateInit && p.i.Type == tokEOF {
		p.state = stateDone
		return nil, nil
	}

	lhs, err := p.pin()
	if err != nil {
		p.state = stateDone
		return nil, err
	}
	switch p.i.Type {
	case tokEOF:
		p.state = stateDone
		fallthrough
	case tokComma:
		return lhs, nil
	case tokEqual:
		if conns {
			break
		}
		fallthrough
	default:
		return nil, p.errorf("unexpected " + p.i.String())
	}

	p.i = p.l.Lex()
	rhs, err := p.pin()
	if err != nil {
		p.state = stateDone
		return nil, err
	}
	switch p.i.Type {
	case tokEOF:
		p.state = stateDone
		fallthrough
	case tokComma:
		return PinAssignment{LHS: lhs, RHS: rhs}, nil
	}

	return nil, p.errorf("unexpected " + p.i.String())
}

// pin parses a single pin description. On return, p.i holds the first item
// past the description.
//
func (p *Parser) pin() (interface{}, error) {
	if p.i.Type != tokIdent {
		return nil, p.errorf("expected pin name")
	}
	pin := Pin{Name: p.i.Value.(string), Pos: p.i.Pos}
	p.i = p.l.Lex()
	if p.i.Type != tokBracketOpen {
		return pin, nil
	}
	p.i = p.l.Lex()
	if p.i.Type != tokInt {
		return nil, p.errorf("integer value expected after '['")
	}
	start := p.i.Value.(int)
	end := -1
	p.i = p.l.Lex()
	if p.i.Type == tokRange {
		p.i = p.l.Lex()
		if p.i.Type != tokInt {
			return nil, p.errorf("integer value expected after '..'")
		}
		end = p.i.Value.(int)
		p.i = p.l.Lex()
	}
	if p.i.Type != tokBracketClose {
		return nil, p.errorf("closing ']' expected after index or range")
	}
	p.i = p.l.Lex()
	if end >= 0 {
		return PinRange{Pin: pin, Start: start, End: end}, nil
	}
	return PinIndex{Pin: pin, Index: start}, nil
}

func (p *Parser) errorf(msg string) error {
	return errors.Errorf("in %q at pos %d: %s", p.Input, p.i.Pos+1, msg)
}
