package dtmf

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownSymbol        = errors.New("unknown keypad symbol")
	ErrUnknownFrequencyPair = errors.New("unknown frequency pair")
	ErrInvalidCadence       = errors.New("invalid cadence")
	ErrInvalidSampleRate    = errors.New("invalid sample rate")
)

// SymbolError reports a character outside the keypad alphabet and where it
// appeared in the input.
type SymbolError struct {
	Symbol   rune `json:"symbol"`
	Position int  `json:"position"`
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("%v: %q at position %d", ErrUnknownSymbol, e.Symbol, e.Position)
}

func (e *SymbolError) Unwrap() error {
	return ErrUnknownSymbol
}
