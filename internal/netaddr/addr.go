package netaddr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Addr is an IPv4 address in host-independent numeric form:
// (b0<<24) | (b1<<16) | (b2<<8) | b3 for the dotted quad b0.b1.b2.b3.
type Addr uint32

// ErrInvalidPrefixLen indicates a prefix length outside [0, 32].
var ErrInvalidPrefixLen = errors.New("prefix length must be in [0, 32]")

// ParseError represents a failure to parse dotted-decimal text
type ParseError struct {
	Input string
	Cause error
}

// Error implements the error interface for ParseError
func (pe *ParseError) Error() string {
	return fmt.Sprintf("malformed address %q: %v", pe.Input, pe.Cause)
}

// Unwrap returns the underlying cause
func (pe *ParseError) Unwrap() error {
	return pe.Cause
}

// ParseAddr parses dotted-decimal text into an Addr. The input must be
// exactly four period-separated decimal fields, each in 0-255, with no
// surrounding or embedded extra characters.
func ParseAddr(s string) (Addr, error) {
	fields := strings.Split(s, ".")
	if len(fields) != 4 {
		return 0, &ParseError{Input: s, Cause: fmt.Errorf("expected 4 fields, got %d", len(fields))}
	}

	var addr uint32
	for _, f := range fields {
		b, err := strconv.ParseUint(f, 10, 8)
		if err != nil {
			return 0, &ParseError{Input: s, Cause: fmt.Errorf("bad octet %q: %w", f, err)}
		}
		addr = addr<<8 | uint32(b)
	}
	return Addr(addr), nil
}

// String returns the dotted-decimal form, four decimal fields without
// zero padding. ParseAddr(a.String()) == a for every a.
func (a Addr) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", byte(a>>24), byte(a>>16), byte(a>>8), byte(a))
}

// Mask clears all bits of a beyond the first prefixLen bits. A prefix
// length of 0 collapses every address to 0; shifting a 32-bit value by
// 32 is not defined, so the zero case never reaches the shift.
func Mask(a Addr, prefixLen int) (Addr, error) {
	if prefixLen < 0 || prefixLen > 32 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidPrefixLen, prefixLen)
	}
	if prefixLen == 0 {
		return 0, nil
	}
	return a & Addr(^uint32(0)<<(32-prefixLen)), nil
}

// MustMask is Mask for prefix lengths already validated by the caller,
// such as table entries checked at load time.
func MustMask(a Addr, prefixLen int) Addr {
	masked, err := Mask(a, prefixLen)
	if err != nil {
		panic(err)
	}
	return masked
}
