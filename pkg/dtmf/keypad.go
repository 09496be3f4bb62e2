package dtmf

import (
	"fmt"
	"unicode/utf8"
)

// Symbol is one key of the 16-key DTMF keypad.
type Symbol byte

// Unresolved marks a frame in which no valid row/column pair was found.
const Unresolved Symbol = '?'

func (s Symbol) String() string {
	return string(rune(s))
}

// FrequencyPair is the (row, column) tone pair of one keypad symbol.
type FrequencyPair struct {
	Low  float64 `json:"low" yaml:"low"`
	High float64 `json:"high" yaml:"high"`
}

func (p FrequencyPair) String() string {
	return fmt.Sprintf("%.0f/%.0f Hz", p.Low, p.High)
}

// KeypadTable is the immutable bijection between the 16 keypad symbols and
// their frequency pairs. Build it once with NewKeypadTable and share it.
type KeypadTable struct {
	rows    [4]float64
	columns [4]float64
	grid    [4][4]Symbol
	pairs   map[Symbol]FrequencyPair
	symbols map[FrequencyPair]Symbol
}

// NewKeypadTable builds the standard ITU-T Q.23 keypad.
func NewKeypadTable() *KeypadTable {
	t := &KeypadTable{
		rows:    [4]float64{697, 770, 852, 941},
		columns: [4]float64{1209, 1336, 1477, 1633},
		grid: [4][4]Symbol{
			{'1', '2', '3', 'A'},
			{'4', '5', '6', 'B'},
			{'7', '8', '9', 'C'},
			{'*', '0', '#', 'D'},
		},
		pairs:   make(map[Symbol]FrequencyPair, 16),
		symbols: make(map[FrequencyPair]Symbol, 16),
	}

	for r, low := range t.rows {
		for c, high := range t.columns {
			pair := FrequencyPair{Low: low, High: high}
			sym := t.grid[r][c]
			t.pairs[sym] = pair
			t.symbols[pair] = sym
		}
	}

	return t
}

// FrequenciesFor returns the tone pair for a symbol.
func (t *KeypadTable) FrequenciesFor(s Symbol) (FrequencyPair, error) {
	pair, ok := t.pairs[s]
	if !ok {
		return FrequencyPair{}, fmt.Errorf("%w: %q", ErrUnknownSymbol, rune(s))
	}
	return pair, nil
}

// SymbolFor returns the symbol for an exact row/column pair.
func (t *KeypadTable) SymbolFor(p FrequencyPair) (Symbol, error) {
	sym, ok := t.symbols[p]
	if !ok {
		return Unresolved, fmt.Errorf("%w: %s", ErrUnknownFrequencyPair, p)
	}
	return sym, nil
}

// Rows returns the four low-group frequencies in ascending order.
func (t *KeypadTable) Rows() [4]float64 {
	return t.rows
}

// Columns returns the four high-group frequencies in ascending order.
func (t *KeypadTable) Columns() [4]float64 {
	return t.columns
}

// Grid returns the keypad layout, rows top to bottom.
func (t *KeypadTable) Grid() [4][4]Symbol {
	return t.grid
}

// Symbols lists all 16 symbols in keypad reading order.
func (t *KeypadTable) Symbols() []Symbol {
	out := make([]Symbol, 0, 16)
	for _, row := range t.grid {
		out = append(out, row[:]...)
	}
	return out
}

// Lookup converts a rune to a keypad symbol.
func (t *KeypadTable) Lookup(r rune) (Symbol, bool) {
	if r >= utf8.RuneSelf {
		return 0, false
	}
	sym := Symbol(r)
	_, ok := t.pairs[sym]
	return sym, ok
}

// Validate returns a *SymbolError for the first character of symbols that is
// not on the keypad. Encoding skips such characters; callers that want to
// reject them instead validate first.
func (t *KeypadTable) Validate(symbols string) error {
	pos := 0
	for _, r := range symbols {
		if _, ok := t.Lookup(r); !ok {
			return &SymbolError{Symbol: r, Position: pos}
		}
		pos++
	}
	return nil
}
