package model

import "fmt"

// Position is an on-board square. File and rank both run 1..8 (a1 is 1,1).
// The only way to build one is through the constructors below, which refuse
// coordinates off the board.
type Position struct {
	file int8
	rank int8
}

func onBoard(file, rank int) bool {
	return file >= 1 && file <= 8 && rank >= 1 && rank <= 8
}

func NewPosition(file, rank int) (Position, bool) {
	if !onBoard(file, rank) {
		return Position{}, false
	}
	return Position{file: int8(file), rank: int8(rank)}, true
}

// pos is for coordinates already known to be on the board.
func pos(file, rank int) Position {
	return Position{file: int8(file), rank: int8(rank)}
}

// ParsePosition reads a square such as "e4".
func ParsePosition(s string) (Position, error) {
	if len(s) != 2 {
		return Position{}, fmt.Errorf("invalid square %q", s)
	}
	file := int(s[0]|0x20) - 'a' + 1
	rank := int(s[1]) - '0'
	p, ok := NewPosition(file, rank)
	if !ok {
		return Position{}, fmt.Errorf("invalid square %q", s)
	}
	return p, nil
}

func MustParsePosition(s string) Position {
	p, err := ParsePosition(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Position) File() int { return int(p.file) }
func (p Position) Rank() int { return int(p.rank) }

// Valid reports whether p came from a constructor; the zero Position is not a square.
func (p Position) Valid() bool {
	return onBoard(int(p.file), int(p.rank))
}

// Offset steps by (df, dr). ok is false when the result falls off the board.
func (p Position) Offset(df, dr int) (Position, bool) {
	return NewPosition(int(p.file)+df, int(p.rank)+dr)
}

func (p Position) String() string {
	if !p.Valid() {
		return "-"
	}
	return fmt.Sprintf("%c%d", rune('a'+int(p.file)-1), p.rank)
}

func (p Position) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid square")
	}
	return []byte(p.String()), nil
}

func (p *Position) UnmarshalText(text []byte) error {
	parsed, err := ParsePosition(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
