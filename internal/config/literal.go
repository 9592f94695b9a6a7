package config

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ParseLiteral interprets s as a value from a closed literal grammar:
// integers, floats, booleans (true/True/false/False), None/null, quoted
// strings, [..] lists, (..) tuples and {k: v} maps of literals. It is
// deliberately not a general expression evaluator; anything outside the
// grammar is an error, which callers treat as "keep the raw string".
func ParseLiteral(s string) (interface{}, error) {
	p := &literalParser{input: s}
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.skipSpaces()
	if p.pos != len(p.input) {
		return nil, fmt.Errorf("trailing input at offset %d", p.pos)
	}
	return v, nil
}

type literalParser struct {
	input string
	pos   int
}

func (p *literalParser) skipSpaces() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *literalParser) peek() (byte, bool) {
	if p.pos >= len(p.input) {
		return 0, false
	}
	return p.input[p.pos], true
}

func (p *literalParser) parseValue() (interface{}, error) {
	p.skipSpaces()
	c, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("unexpected end of input")
	}
	switch c {
	case '[':
		return p.parseSequence('[', ']')
	case '(':
		// Tuples collapse to the same slice representation as lists.
		return p.parseSequence('(', ')')
	case '{':
		return p.parseMapping()
	case '\'', '"':
		return p.parseQuoted(c)
	default:
		return p.parseAtom()
	}
}

func (p *literalParser) parseSequence(open, close byte) (interface{}, error) {
	p.pos++ // consume open
	items := []interface{}{}
	p.skipSpaces()
	if c, ok := p.peek(); ok && c == close {
		p.pos++
		return items, nil
	}
	for {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
		p.skipSpaces()
		c, ok := p.peek()
		if !ok {
			return nil, fmt.Errorf("unterminated sequence, expected %q", close)
		}
		p.pos++
		if c == close {
			return items, nil
		}
		if c != ',' {
			return nil, fmt.Errorf("expected ',' or %q at offset %d", close, p.pos-1)
		}
		// Allow a trailing comma before the closing bracket.
		p.skipSpaces()
		if c, ok := p.peek(); ok && c == close {
			p.pos++
			return items, nil
		}
	}
}

func (p *literalParser) parseMapping() (interface{}, error) {
	p.pos++ // consume '{'
	m := map[string]interface{}{}
	p.skipSpaces()
	if c, ok := p.peek(); ok && c == '}' {
		p.pos++
		return m, nil
	}
	for {
		k, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		key, ok := k.(string)
		if !ok {
			key = fmt.Sprintf("%v", k)
		}
		p.skipSpaces()
		if c, ok := p.peek(); !ok || c != ':' {
			return nil, fmt.Errorf("expected ':' in mapping at offset %d", p.pos)
		}
		p.pos++
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		m[key] = v
		p.skipSpaces()
		c, ok := p.peek()
		if !ok {
			return nil, fmt.Errorf("unterminated mapping, expected '}'")
		}
		p.pos++
		if c == '}' {
			return m, nil
		}
		if c != ',' {
			return nil, fmt.Errorf("expected ',' or '}' at offset %d", p.pos-1)
		}
		p.skipSpaces()
		if c, ok := p.peek(); ok && c == '}' {
			p.pos++
			return m, nil
		}
	}
}

func (p *literalParser) parseQuoted(quote byte) (interface{}, error) {
	p.pos++ // consume opening quote
	var sb strings.Builder
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		switch c {
		case quote:
			p.pos++
			return sb.String(), nil
		case '\\':
			if p.pos+1 >= len(p.input) {
				return nil, fmt.Errorf("dangling escape at offset %d", p.pos)
			}
			p.pos++
			esc := p.input[p.pos]
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '\\', '\'', '"':
				sb.WriteByte(esc)
			default:
				return nil, fmt.Errorf("unsupported escape %q", esc)
			}
			p.pos++
		default:
			r, size := utf8.DecodeRuneInString(p.input[p.pos:])
			sb.WriteRune(r)
			p.pos += size
		}
	}
	return nil, fmt.Errorf("unterminated string literal")
}

// parseAtom handles unquoted tokens: numbers, booleans and the null value.
// Bare words are not part of the grammar.
func (p *literalParser) parseAtom() (interface{}, error) {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c == ',' || c == ':' || c == ']' || c == ')' || c == '}' || c == ' ' || c == '\t' {
			break
		}
		p.pos++
	}
	tok := p.input[start:p.pos]
	if tok == "" {
		return nil, fmt.Errorf("empty token at offset %d", start)
	}
	switch tok {
	case "true", "True":
		return true, nil
	case "false", "False":
		return false, nil
	case "None", "null":
		return nil, nil
	}
	if i, err := strconv.Atoi(tok); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return f, nil
	}
	return nil, fmt.Errorf("not a literal: %q", tok)
}
