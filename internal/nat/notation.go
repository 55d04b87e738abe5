package nat

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse converts a decimal string into a Nat.
// Leading/trailing space is ignored. Signs, fractions and negatives are rejected.
func Parse(s string) (Nat, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("nat: parse %q: empty input", s)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("nat: parse %q: invalid digit %q", s, r)
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("nat: parse %q: %w", s, err)
	}
	return FromInt(n)
}

// Notation renders n in Peano notation, e.g. "S(S(0))" for 2.
func Notation(n Nat) string {
	var b strings.Builder
	depth := 0
	for {
		p, ok := Pred(n)
		if !ok {
			break
		}
		b.WriteString("S(")
		depth++
		n = p
	}
	b.WriteByte('0')
	b.WriteString(strings.Repeat(")", depth))
	return b.String()
}

// ParseNotation parses Peano notation. Both "0" and "Z" denote Zero,
// and "S(x)" the successor of x. Whitespace is ignored.
func ParseNotation(s string) (Nat, error) {
	compact := strings.Join(strings.Fields(s), "")
	depth := 0
	rest := compact
	for strings.HasPrefix(rest, "S(") {
		depth++
		rest = rest[2:]
	}
	if !strings.HasPrefix(rest, "0") && !strings.HasPrefix(rest, "Z") {
		return nil, fmt.Errorf("nat: notation %q: expected 0 or Z at offset %d", s, len(compact)-len(rest))
	}
	rest = rest[1:]
	if rest != strings.Repeat(")", depth) {
		return nil, fmt.Errorf("nat: notation %q: unbalanced parentheses", s)
	}
	return FromInt(depth)
}

// MarshalText implements encoding.TextMarshaler for Zero.
func (z Zero) MarshalText() ([]byte, error) {
	return []byte(z.String()), nil
}

// MarshalText implements encoding.TextMarshaler for Succ.
func (s Succ) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Decode parses text produced by MarshalText. Peano notation is accepted
// as well, so both "3" and "S(S(S(0)))" decode to the same value.
func Decode(text []byte) (Nat, error) {
	s := strings.TrimSpace(string(text))
	if strings.HasPrefix(s, "S") || s == "Z" {
		return ParseNotation(s)
	}
	return Parse(s)
}
