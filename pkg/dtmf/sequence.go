package dtmf

import (
	"fmt"
	"strings"
)

// MarshalText renders the symbol as its keypad character.
func (s Symbol) MarshalText() ([]byte, error) {
	return []byte{byte(s)}, nil
}

var standardKeypad = NewKeypadTable()

// UnmarshalText accepts a single keypad character or "?".
func (s *Symbol) UnmarshalText(text []byte) error {
	if len(text) != 1 {
		return fmt.Errorf("%w: %q", ErrUnknownSymbol, text)
	}
	sym := Symbol(text[0])
	if _, ok := standardKeypad.pairs[sym]; !ok && sym != Unresolved {
		return fmt.Errorf("%w: %q", ErrUnknownSymbol, text)
	}
	*s = sym
	return nil
}

// DecodedSequence holds one Detection per complete frame, in frame order.
type DecodedSequence []Detection

// String renders the sequence with '?' for unresolved frames.
func (d DecodedSequence) String() string {
	var b strings.Builder
	b.Grow(len(d))
	for _, det := range d {
		if det.Resolved {
			b.WriteByte(byte(det.Symbol))
		} else {
			b.WriteByte(byte(Unresolved))
		}
	}
	return b.String()
}

// Resolved counts frames that produced a symbol.
func (d DecodedSequence) Resolved() int {
	n := 0
	for _, det := range d {
		if det.Resolved {
			n++
		}
	}
	return n
}

// Unresolved counts frames that did not produce a symbol.
func (d DecodedSequence) Unresolved() int {
	return len(d) - d.Resolved()
}
