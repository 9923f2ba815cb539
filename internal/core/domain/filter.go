package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

type filterOp int

const (
	opAnd filterOp = iota
	opOr
	opNot
	opEqual
	opApprox
	opGreaterEq
	opLessEq
	opPresent
	opSubstring
)

// Filter is a parsed RFC 1960 LDAP filter as used by index requirements, e.g.
// "(&(package=org.example)(version>=1.2.0))".
type Filter struct {
	op       filterOp
	key      string
	value    string
	parts    []string
	children []*Filter
	text     string
}

// ParseFilter parses an LDAP filter expression.
func ParseFilter(s string) (*Filter, error) {
	p := &filterParser{src: strings.TrimSpace(s)}
	f, err := p.parseFilter()
	if err != nil {
		return nil, zerr.With(err, "filter", s)
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, zerr.With(zerr.With(ErrInvalidFilter, "filter", s), "offset", p.pos)
	}
	f.text = p.src
	return f, nil
}

// String returns the filter text it was parsed from.
func (f *Filter) String() string {
	return f.text
}

// Match evaluates the filter against a property dictionary. Keys compare case-insensitively.
func (f *Filter) Match(props map[string]string) bool {
	lowered := make(map[string]string, len(props))
	for k, v := range props {
		lowered[strings.ToLower(k)] = v
	}
	return f.match(lowered)
}

func (f *Filter) match(props map[string]string) bool {
	switch f.op {
	case opAnd:
		for _, c := range f.children {
			if !c.match(props) {
				return false
			}
		}
		return true
	case opOr:
		for _, c := range f.children {
			if c.match(props) {
				return true
			}
		}
		return false
	case opNot:
		return !f.children[0].match(props)
	}

	actual, ok := props[f.key]
	if !ok {
		return false
	}

	switch f.op {
	case opPresent:
		return true
	case opSubstring:
		return matchSubstring(actual, f.parts)
	case opApprox:
		return normalizeApprox(actual) == normalizeApprox(f.value)
	case opEqual:
		return compareValues(f.key, actual, f.value) == 0
	case opGreaterEq:
		return compareValues(f.key, actual, f.value) >= 0
	case opLessEq:
		return compareValues(f.key, actual, f.value) <= 0
	default:
		return false
	}
}

// compareValues orders two attribute values. Versions compare by version order.
func compareValues(key, actual, expected string) int {
	if key == PropertyVersion {
		av, aerr := ParseVersion(actual)
		ev, eerr := ParseVersion(expected)
		if aerr == nil && eerr == nil {
			return av.Compare(ev)
		}
	}
	return strings.Compare(actual, expected)
}

func normalizeApprox(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

func matchSubstring(s string, parts []string) bool {
	last := len(parts) - 1
	for i, part := range parts {
		switch {
		case i == 0:
			if !strings.HasPrefix(s, part) {
				return false
			}
			s = s[len(part):]
		case i == last:
			return strings.HasSuffix(s, part)
		default:
			idx := strings.Index(s, part)
			if idx < 0 {
				return false
			}
			s = s[idx+len(part):]
		}
	}
	return true
}

type filterParser struct {
	src string
	pos int
}

func (p *filterParser) fail() error {
	return zerr.With(ErrInvalidFilter, "offset", p.pos)
}

func (p *filterParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *filterParser) parseFilter() (*Filter, error) {
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != '(' {
		return nil, p.fail()
	}
	p.pos++

	var (
		f   *Filter
		err error
	)
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, p.fail()
	}
	switch p.src[p.pos] {
	case '&':
		p.pos++
		f, err = p.parseList(opAnd)
	case '|':
		p.pos++
		f, err = p.parseList(opOr)
	case '!':
		p.pos++
		var child *Filter
		child, err = p.parseFilter()
		f = &Filter{op: opNot, children: []*Filter{child}}
	default:
		f, err = p.parseItem()
	}
	if err != nil {
		return nil, err
	}

	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != ')' {
		return nil, p.fail()
	}
	p.pos++
	return f, nil
}

func (p *filterParser) parseList(op filterOp) (*Filter, error) {
	f := &Filter{op: op}
	for {
		p.skipSpace()
		if p.pos >= len(p.src) || p.src[p.pos] != '(' {
			break
		}
		child, err := p.parseFilter()
		if err != nil {
			return nil, err
		}
		f.children = append(f.children, child)
	}
	if len(f.children) == 0 {
		return nil, p.fail()
	}
	return f, nil
}

func (p *filterParser) parseItem() (*Filter, error) {
	start := p.pos
	for p.pos < len(p.src) && !strings.ContainsRune("=<>~()", rune(p.src[p.pos])) {
		p.pos++
	}
	key := strings.ToLower(strings.TrimSpace(p.src[start:p.pos]))
	if key == "" || p.pos >= len(p.src) {
		return nil, p.fail()
	}

	op := opEqual
	switch p.src[p.pos] {
	case '=':
		p.pos++
	case '~', '>', '<':
		if p.pos+1 >= len(p.src) || p.src[p.pos+1] != '=' {
			return nil, p.fail()
		}
		op = map[byte]filterOp{'~': opApprox, '>': opGreaterEq, '<': opLessEq}[p.src[p.pos]]
		p.pos += 2
	default:
		return nil, p.fail()
	}

	parts, err := p.parseValue()
	if err != nil {
		return nil, err
	}

	if op == opEqual && len(parts) > 1 {
		if len(parts) == 2 && parts[0] == "" && parts[1] == "" {
			return &Filter{op: opPresent, key: key}, nil
		}
		return &Filter{op: opSubstring, key: key, parts: parts}, nil
	}
	return &Filter{op: op, key: key, value: strings.Join(parts, "*")}, nil
}

// parseValue reads an attribute value up to the closing parenthesis and splits it on
// unescaped wildcards.
func (p *filterParser) parseValue() ([]string, error) {
	var (
		parts []string
		cur   strings.Builder
	)
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case ')':
			return append(parts, cur.String()), nil
		case '(':
			return nil, p.fail()
		case '\\':
			p.pos++
			if p.pos >= len(p.src) {
				return nil, p.fail()
			}
			cur.WriteByte(p.src[p.pos])
		case '*':
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
		p.pos++
	}
	return nil, p.fail()
}
