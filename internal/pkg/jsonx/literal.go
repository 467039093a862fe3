package jsonx

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var errUnexpectedValue = errors.New("jsonx: top-level value is not an object")

// parseLiteral reads a Python-literal-style value: dicts and lists with
// single- or double-quoted strings, numbers, True/False/None (and their
// JSON spellings). Structurally equivalent to JSON, just a looser surface.
func parseLiteral(text string) (interface{}, error) {
	p := &literalParser{input: text}
	p.skipSpace()
	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, p.errorf("trailing data")
	}
	return value, nil
}

type literalParser struct {
	input string
	pos   int
}

func (p *literalParser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("jsonx: %s at offset %d", fmt.Sprintf(format, args...), p.pos)
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.input) {
		r, size := utf8.DecodeRuneInString(p.input[p.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		p.pos += size
	}
}

func (p *literalParser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *literalParser) expect(ch byte) error {
	if p.peek() != ch {
		return p.errorf("expected %q", string(ch))
	}
	p.pos++
	return nil
}

func (p *literalParser) parseValue() (interface{}, error) {
	p.skipSpace()
	switch ch := p.peek(); {
	case ch == '{':
		return p.parseDict()
	case ch == '[':
		return p.parseList()
	case ch == '\'' || ch == '"':
		return p.parseString()
	case ch == '-' || ch == '+' || (ch >= '0' && ch <= '9'):
		return p.parseNumber()
	default:
		return p.parseWord()
	}
}

func (p *literalParser) parseDict() (map[string]interface{}, error) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	result := map[string]interface{}{}
	p.skipSpace()
	if p.peek() == '}' {
		p.pos++
		return result, nil
	}
	for {
		p.skipSpace()
		key, err := p.parseString()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		result[key] = value
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
			// tolerate a trailing comma before the closing brace
			p.skipSpace()
			if p.peek() == '}' {
				p.pos++
				return result, nil
			}
		case '}':
			p.pos++
			return result, nil
		default:
			return nil, p.errorf("expected ',' or '}'")
		}
	}
}

func (p *literalParser) parseList() ([]interface{}, error) {
	if err := p.expect('['); err != nil {
		return nil, err
	}
	result := []interface{}{}
	p.skipSpace()
	if p.peek() == ']' {
		p.pos++
		return result, nil
	}
	for {
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		result = append(result, value)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
			p.skipSpace()
			if p.peek() == ']' {
				p.pos++
				return result, nil
			}
		case ']':
			p.pos++
			return result, nil
		default:
			return nil, p.errorf("expected ',' or ']'")
		}
	}
}

func (p *literalParser) parseString() (string, error) {
	quote := p.peek()
	if quote != '\'' && quote != '"' {
		return "", p.errorf("expected string")
	}
	p.pos++
	var sb strings.Builder
	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		switch ch {
		case quote:
			p.pos++
			return sb.String(), nil
		case '\\':
			if p.pos+1 >= len(p.input) {
				return "", p.errorf("unterminated escape")
			}
			esc := p.input[p.pos+1]
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\', '\'', '"':
				sb.WriteByte(esc)
			case 'u':
				if p.pos+6 > len(p.input) {
					return "", p.errorf("unterminated unicode escape")
				}
				code, err := strconv.ParseUint(p.input[p.pos+2:p.pos+6], 16, 32)
				if err != nil {
					return "", p.errorf("invalid unicode escape")
				}
				sb.WriteRune(rune(code))
				p.pos += 4
			default:
				sb.WriteByte(esc)
			}
			p.pos += 2
			continue
		default:
			sb.WriteByte(ch)
			p.pos++
			continue
		}
	}
	return "", p.errorf("unterminated string")
}

func (p *literalParser) parseNumber() (float64, error) {
	start := p.pos
	if p.peek() == '-' || p.peek() == '+' {
		p.pos++
	}
	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		if (ch >= '0' && ch <= '9') || ch == '.' || ch == 'e' || ch == 'E' || ((ch == '-' || ch == '+') && (p.input[p.pos-1] == 'e' || p.input[p.pos-1] == 'E')) {
			p.pos++
			continue
		}
		break
	}
	value, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return 0, p.errorf("invalid number %q", p.input[start:p.pos])
	}
	return value, nil
}

func (p *literalParser) parseWord() (interface{}, error) {
	start := p.pos
	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') {
			p.pos++
			continue
		}
		break
	}
	switch p.input[start:p.pos] {
	case "True", "true":
		return true, nil
	case "False", "false":
		return false, nil
	case "None", "null":
		return nil, nil
	default:
		p.pos = start
		return nil, p.errorf("unexpected token")
	}
}
