package domain

import (
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// Version is an OSGi style version: major.minor.micro.qualifier.
// Numeric segments compare numerically, the qualifier compares lexically.
type Version struct {
	Major     int
	Minor     int
	Micro     int
	Qualifier string
}

// ZeroVersion is the fallback used for missing or malformed version strings.
var ZeroVersion = Version{}

// ParseVersion parses a version string. Missing segments default to zero.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ZeroVersion, nil
	}

	parts := strings.SplitN(s, ".", 4)
	var v Version
	nums := []*int{&v.Major, &v.Minor, &v.Micro}
	for i, part := range parts {
		if i == 3 {
			if !validQualifier(part) {
				return ZeroVersion, zerr.With(ErrInvalidVersion, "version", s)
			}
			v.Qualifier = part
			break
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || part == "" || part[0] == '+' {
			return ZeroVersion, zerr.With(ErrInvalidVersion, "version", s)
		}
		*nums[i] = n
	}
	return v, nil
}

// ParseVersionOrZero parses s and returns ZeroVersion when it is malformed.
func ParseVersionOrZero(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		return ZeroVersion
	}
	return v
}

func validQualifier(q string) bool {
	if q == "" {
		return false
	}
	for _, r := range q {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

// Compare returns -1, 0 or +1 when v is lower than, equal to or higher than o.
func (v Version) Compare(o Version) int {
	if c := cmpInt(v.Major, o.Major); c != 0 {
		return c
	}
	if c := cmpInt(v.Minor, o.Minor); c != 0 {
		return c
	}
	if c := cmpInt(v.Micro, o.Micro); c != 0 {
		return c
	}
	return strings.Compare(v.Qualifier, o.Qualifier)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// String returns the canonical form, always carrying three numeric segments.
func (v Version) String() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(v.Major))
	b.WriteByte('.')
	b.WriteString(strconv.Itoa(v.Minor))
	b.WriteByte('.')
	b.WriteString(strconv.Itoa(v.Micro))
	if v.Qualifier != "" {
		b.WriteByte('.')
		b.WriteString(v.Qualifier)
	}
	return b.String()
}

// VersionRange is either an unbounded floor (">= Low") or a bounded interval.
type VersionRange struct {
	Low      Version
	High     Version
	LowOpen  bool
	HighOpen bool
	HasHigh  bool
}

// ParseVersionRange parses "1.0", "[1.0,2.0)", "(1.0,2.0]" and friends.
// A bare version means "at least that version".
func ParseVersionRange(s string) (VersionRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return VersionRange{}, zerr.With(ErrInvalidVersionRange, "range", s)
	}

	first := s[0]
	if first != '[' && first != '(' {
		low, err := ParseVersion(s)
		if err != nil {
			return VersionRange{}, zerr.With(ErrInvalidVersionRange, "range", s)
		}
		return VersionRange{Low: low}, nil
	}

	last := s[len(s)-1]
	if last != ']' && last != ')' {
		return VersionRange{}, zerr.With(ErrInvalidVersionRange, "range", s)
	}

	bounds := strings.Split(s[1:len(s)-1], ",")
	if len(bounds) != 2 {
		return VersionRange{}, zerr.With(ErrInvalidVersionRange, "range", s)
	}

	low, err := ParseVersion(bounds[0])
	if err != nil {
		return VersionRange{}, zerr.With(ErrInvalidVersionRange, "range", s)
	}
	high, err := ParseVersion(bounds[1])
	if err != nil {
		return VersionRange{}, zerr.With(ErrInvalidVersionRange, "range", s)
	}
	if strings.TrimSpace(bounds[1]) == "" || high.Compare(low) < 0 {
		return VersionRange{}, zerr.With(ErrInvalidVersionRange, "range", s)
	}

	return VersionRange{
		Low:      low,
		High:     high,
		LowOpen:  first == '(',
		HighOpen: last == ')',
		HasHigh:  true,
	}, nil
}

// IsRange reports whether the expression was written in interval syntax.
func (r VersionRange) IsRange() bool {
	return r.HasHigh
}

// Includes reports whether v lies inside the range.
func (r VersionRange) Includes(v Version) bool {
	c := v.Compare(r.Low)
	if c < 0 || (c == 0 && r.LowOpen) {
		return false
	}
	return !r.Above(v)
}

// Above reports whether v lies past the high bound. Unbounded ranges are never exceeded.
func (r VersionRange) Above(v Version) bool {
	if !r.HasHigh {
		return false
	}
	c := v.Compare(r.High)
	return c > 0 || (c == 0 && r.HighOpen)
}

// String returns the range in interval notation, or the floor for unbounded ranges.
func (r VersionRange) String() string {
	if !r.HasHigh {
		return r.Low.String()
	}
	var b strings.Builder
	if r.LowOpen {
		b.WriteByte('(')
	} else {
		b.WriteByte('[')
	}
	b.WriteString(r.Low.String())
	b.WriteByte(',')
	b.WriteString(r.High.String())
	if r.HighOpen {
		b.WriteByte(')')
	} else {
		b.WriteByte(']')
	}
	return b.String()
}
