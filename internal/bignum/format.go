package bignum

import (
	"errors"
	"fmt"
	"strings"
)

// ErrParse reports a malformed integer literal.
var ErrParse = errors.New("invalid numeric format")

// FormatUint renders u in base 10.
func FormatUint(u BigUint) string {
	if u.IsZero() {
		return "0"
	}
	const chunk = uint32(1_000_000_000)
	var parts []uint32
	for cur := u; !cur.IsZero(); {
		q, r, err := UintDivModSmall(cur, chunk)
		if err != nil {
			return "<format-error>"
		}
		parts = append(parts, r)
		cur = q
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d", parts[len(parts)-1])
	for i := len(parts) - 2; i >= 0; i-- {
		fmt.Fprintf(&sb, "%09d", parts[i])
	}
	return sb.String()
}

// FormatInt renders i in base 10 with a leading '-' when negative.
func FormatInt(i BigInt) string {
	s := FormatUint(i.Abs())
	if i.Neg && s != "0" {
		return "-" + s
	}
	return s
}

// ParseInt parses an optionally signed integer literal. Underscores are
// ignored and 0x/0b/0o prefixes select the base.
func ParseInt(s string) (BigInt, error) {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	u, err := ParseUint(s)
	if err != nil {
		return BigInt{}, err
	}
	return canonical(neg, u), nil
}

// ParseUint parses an unsigned integer literal.
func ParseUint(s string) (BigUint, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	base := uint32(10)
	if len(s) > 2 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X':
			base, s = 16, s[2:]
		case 'b', 'B':
			base, s = 2, s[2:]
		case 'o', 'O':
			base, s = 8, s[2:]
		}
	}
	if s == "" {
		return BigUint{}, ErrParse
	}
	var out BigUint
	for i := 0; i < len(s); i++ {
		d, ok := digitValue(s[i], base)
		if !ok {
			return BigUint{}, fmt.Errorf("%w: %q", ErrParse, s)
		}
		var err error
		if out, err = UintMul(out, UintFromUint64(uint64(base))); err != nil {
			return BigUint{}, err
		}
		if out, err = UintAdd(out, UintFromUint64(uint64(d))); err != nil {
			return BigUint{}, err
		}
	}
	return out, nil
}

func digitValue(ch byte, base uint32) (uint32, bool) {
	var d uint32
	switch {
	case ch >= '0' && ch <= '9':
		d = uint32(ch - '0')
	case ch >= 'a' && ch <= 'f':
		d = 10 + uint32(ch-'a')
	case ch >= 'A' && ch <= 'F':
		d = 10 + uint32(ch-'A')
	default:
		return 0, false
	}
	return d, d < base
}
