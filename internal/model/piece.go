package model

import "strings"

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) Valid() bool {
	return c == White || c == Black
}

// ParseColor accepts "white"/"black" in any case.
func ParseColor(s string) (Color, bool) {
	switch Color(strings.ToLower(s)) {
	case White:
		return White, true
	case Black:
		return Black, true
	}
	return "", false
}

// PieceType is empty ("") for "no piece", which is also how a Move says it carries no promotion.
type PieceType string

const (
	NoPiece PieceType = ""
	King    PieceType = "king"
	Queen   PieceType = "queen"
	Rook    PieceType = "rook"
	Bishop  PieceType = "bishop"
	Knight  PieceType = "knight"
	Pawn    PieceType = "pawn"
)

// PromotionTypes lists the pieces a pawn may become, in the order moves are emitted.
var PromotionTypes = []PieceType{Queen, Rook, Bishop, Knight}

func (p PieceType) letter() byte {
	switch p {
	case King:
		return 'k'
	case Queen:
		return 'q'
	case Rook:
		return 'r'
	case Bishop:
		return 'b'
	case Knight:
		return 'n'
	case Pawn:
		return 'p'
	}
	return ' '
}

func pieceTypeFromLetter(r byte) PieceType {
	switch r {
	case 'k', 'K':
		return King
	case 'q', 'Q':
		return Queen
	case 'r', 'R':
		return Rook
	case 'b', 'B':
		return Bishop
	case 'n', 'N':
		return Knight
	case 'p', 'P':
		return Pawn
	}
	return NoPiece
}

// ParsePieceType accepts full names ("queen") or single letters ("q").
func ParsePieceType(s string) (PieceType, bool) {
	s = strings.ToLower(s)
	if len(s) == 1 {
		t := pieceTypeFromLetter(s[0])
		return t, t != NoPiece
	}
	switch t := PieceType(s); t {
	case King, Queen, Rook, Bishop, Knight, Pawn:
		return t, true
	}
	return NoPiece, false
}

// Piece is a value; a square is empty when its Piece has no Type.
type Piece struct {
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
}

func (p Piece) IsZero() bool {
	return p.Type == NoPiece
}

// Letter returns the one-letter code, uppercase for White.
func (p Piece) Letter() byte {
	l := p.Type.letter()
	if p.Color == White && l != ' ' {
		return l - 'a' + 'A'
	}
	return l
}

func (p Piece) String() string {
	return string(p.Letter())
}

func pieceFromLetter(r byte) (Piece, bool) {
	t := pieceTypeFromLetter(r)
	if t == NoPiece {
		return Piece{}, false
	}
	c := Black
	if r >= 'A' && r <= 'Z' {
		c = White
	}
	return Piece{Type: t, Color: c}, true
}
