// Package literal parses Python-style literals embedded in CSV cells.
//
// The raw battle exports serialize decks and stat bundles with Python's repr,
// so cells look like "['zap-ev1', 'rocket']" or "{'avg_elixir': 3.5,
// 'four_card_cycle': True}". This package understands exactly that grammar:
// quoted strings, ints, floats, True/False/None, lists, tuples, and dicts,
// arbitrarily nested. Anything else is a parse error; callers decide whether
// to skip the row or fall back to a cruder split.
package literal

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Value is a parsed literal: string, int64, float64, bool, nil,
// []Value (lists and tuples), or map[string]Value (dicts with string keys).
type Value interface{}

// Parse parses a single Python literal. Trailing content is an error.
func Parse(s string) (Value, error) {
	p := &parser{input: []rune(s)}
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, fmt.Errorf("unexpected trailing content at offset %d", p.pos)
	}
	return v, nil
}

// ParseList parses a list or tuple literal into its elements, each rendered
// as a trimmed string the way Python's str() would render it.
func ParseList(s string) ([]string, error) {
	v, err := Parse(s)
	if err != nil {
		return nil, err
	}
	seq, ok := v.([]Value)
	if !ok {
		return nil, fmt.Errorf("expected a list or tuple, got %T", v)
	}
	items := make([]string, 0, len(seq))
	for _, elem := range seq {
		items = append(items, strings.TrimSpace(Stringify(elem)))
	}
	return items, nil
}

// ParseDict parses a dict literal with string keys.
func ParseDict(s string) (map[string]Value, error) {
	v, err := Parse(s)
	if err != nil {
		return nil, err
	}
	dict, ok := v.(map[string]Value)
	if !ok {
		return nil, fmt.Errorf("expected a dict, got %T", v)
	}
	return dict, nil
}

// Stringify renders a scalar Value the way Python's str() would.
func Stringify(v Value) string {
	switch t := v.(type) {
	case nil:
		return "None"
	case string:
		return t
	case bool:
		if t {
			return "True"
		}
		return "False"
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// AsFloat coerces a numeric or boolean Value to float64.
func AsFloat(v Value) (float64, bool) {
	switch t := v.(type) {
	case int64:
		return float64(t), true
	case float64:
		return t, true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// AsBool coerces a boolean or numeric Value to bool.
func AsBool(v Value) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case int64:
		return t != 0, true
	case float64:
		return t != 0, true
	default:
		return false, false
	}
}

type parser struct {
	input []rune
	pos   int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && unicode.IsSpace(p.input[p.pos]) {
		p.pos++
	}
}

func (p *parser) peek() (rune, bool) {
	if p.pos >= len(p.input) {
		return 0, false
	}
	return p.input[p.pos], true
}

func (p *parser) parseValue() (Value, error) {
	p.skipSpace()
	c, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("unexpected end of input")
	}
	switch {
	case c == '\'' || c == '"':
		return p.parseString()
	case c == '[':
		return p.parseSequence('[', ']')
	case c == '(':
		return p.parseSequence('(', ')')
	case c == '{':
		return p.parseDict()
	case c == '-' || c == '+' || c == '.' || unicode.IsDigit(c):
		return p.parseNumber()
	case unicode.IsLetter(c):
		return p.parseKeyword()
	default:
		return nil, fmt.Errorf("unexpected character %q at offset %d", c, p.pos)
	}
}

func (p *parser) parseString() (Value, error) {
	quote := p.input[p.pos]
	p.pos++
	var sb strings.Builder
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		switch c {
		case quote:
			p.pos++
			return sb.String(), nil
		case '\\':
			p.pos++
			if p.pos >= len(p.input) {
				return nil, fmt.Errorf("unterminated escape at offset %d", p.pos)
			}
			esc := p.input[p.pos]
			switch esc {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case 'r':
				sb.WriteRune('\r')
			case '\\', '\'', '"':
				sb.WriteRune(esc)
			default:
				// Unknown escapes pass through verbatim, like Python's repr round-trip.
				sb.WriteRune('\\')
				sb.WriteRune(esc)
			}
			p.pos++
		default:
			sb.WriteRune(c)
			p.pos++
		}
	}
	return nil, fmt.Errorf("unterminated string literal")
}

func (p *parser) parseSequence(opener, closer rune) (Value, error) {
	p.pos++ // consume opener
	items := []Value{}
	for {
		p.skipSpace()
		c, ok := p.peek()
		if !ok {
			return nil, fmt.Errorf("unterminated sequence, expected %q", closer)
		}
		if c == closer {
			p.pos++
			return items, nil
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
		p.skipSpace()
		c, ok = p.peek()
		if !ok {
			return nil, fmt.Errorf("unterminated sequence, expected %q", closer)
		}
		switch c {
		case ',':
			p.pos++
		case closer:
			// next loop iteration consumes it
		default:
			return nil, fmt.Errorf("expected %q or %q at offset %d, got %q", ',', closer, p.pos, c)
		}
	}
}

func (p *parser) parseDict() (Value, error) {
	p.pos++ // consume '{'
	dict := map[string]Value{}
	for {
		p.skipSpace()
		c, ok := p.peek()
		if !ok {
			return nil, fmt.Errorf("unterminated dict")
		}
		if c == '}' {
			p.pos++
			return dict, nil
		}
		key, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		keyStr, ok := key.(string)
		if !ok {
			return nil, fmt.Errorf("dict keys must be strings, got %T", key)
		}
		p.skipSpace()
		c, ok = p.peek()
		if !ok || c != ':' {
			return nil, fmt.Errorf("expected ':' after dict key %q", keyStr)
		}
		p.pos++
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		dict[keyStr] = val
		p.skipSpace()
		c, ok = p.peek()
		if !ok {
			return nil, fmt.Errorf("unterminated dict")
		}
		switch c {
		case ',':
			p.pos++
		case '}':
			// next loop iteration consumes it
		default:
			return nil, fmt.Errorf("expected ',' or '}' at offset %d, got %q", p.pos, c)
		}
	}
}

func (p *parser) parseNumber() (Value, error) {
	start := p.pos
	if c, ok := p.peek(); ok && (c == '-' || c == '+') {
		p.pos++
	}
	isFloat := false
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if unicode.IsDigit(c) {
			p.pos++
			continue
		}
		if c == '.' || c == 'e' || c == 'E' {
			isFloat = true
			p.pos++
			continue
		}
		if (c == '-' || c == '+') && (p.input[p.pos-1] == 'e' || p.input[p.pos-1] == 'E') {
			p.pos++
			continue
		}
		break
	}
	text := string(p.input[start:p.pos])
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float literal %q", text)
		}
		return f, nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid int literal %q", text)
	}
	return n, nil
}

func (p *parser) parseKeyword() (Value, error) {
	start := p.pos
	for p.pos < len(p.input) && unicode.IsLetter(p.input[p.pos]) {
		p.pos++
	}
	switch word := string(p.input[start:p.pos]); word {
	case "True":
		return true, nil
	case "False":
		return false, nil
	case "None":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown keyword %q", word)
	}
}
