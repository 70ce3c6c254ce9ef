package model

import (
	"fmt"
	"strings"
)

// Board is an 8x8 grid of piece values. It is a plain value: copying the
// struct (or calling Clone) yields a board that shares nothing with the original.
type Board struct {
	squares [8][8]Piece // [rank-1][file-1]
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

func NewBoard() *Board {
	return &Board{}
}

// NewStartingBoard returns a board holding the standard opening setup.
func NewStartingBoard() *Board {
	b := &Board{}
	b.Reset()
	return b
}

func (b *Board) Get(p Position) (Piece, bool) {
	piece := b.squares[p.rank-1][p.file-1]
	return piece, !piece.IsZero()
}

// Set places piece on p. Setting the zero Piece clears the square.
func (b *Board) Set(p Position, piece Piece) {
	b.squares[p.rank-1][p.file-1] = piece
}

func (b *Board) Clear(p Position) {
	b.squares[p.rank-1][p.file-1] = Piece{}
}

func (b *Board) IsEmpty(p Position) bool {
	return b.squares[p.rank-1][p.file-1].IsZero()
}

func (b *Board) Reset() {
	b.squares = [8][8]Piece{}
	for file := 1; file <= 8; file++ {
		b.Set(pos(file, 1), Piece{Type: backRank[file-1], Color: White})
		b.Set(pos(file, 2), Piece{Type: Pawn, Color: White})
		b.Set(pos(file, 7), Piece{Type: Pawn, Color: Black})
		b.Set(pos(file, 8), Piece{Type: backRank[file-1], Color: Black})
	}
}

func (b *Board) FindKing(c Color) (Position, error) {
	for rank := 1; rank <= 8; rank++ {
		for file := 1; file <= 8; file++ {
			piece := b.squares[rank-1][file-1]
			if piece.Type == King && piece.Color == c {
				return pos(file, rank), nil
			}
		}
	}
	return Position{}, fmt.Errorf("%w: no %s king on the board", ErrKingMissing, c)
}

// Occupied returns the squares holding pieces of color c, a1 first.
func (b *Board) Occupied(c Color) []Position {
	var out []Position
	for rank := 1; rank <= 8; rank++ {
		for file := 1; file <= 8; file++ {
			if piece := b.squares[rank-1][file-1]; !piece.IsZero() && piece.Color == c {
				out = append(out, pos(file, rank))
			}
		}
	}
	return out
}

func (b *Board) Clone() *Board {
	clone := *b
	return &clone
}

func (b *Board) Equal(other *Board) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.squares == other.squares
}

// Ranks returns one 8-character row per rank, rank 8 first, using '.' for
// empty squares and uppercase letters for White.
func (b *Board) Ranks() []string {
	rows := make([]string, 0, 8)
	for rank := 8; rank >= 1; rank-- {
		var row strings.Builder
		for file := 1; file <= 8; file++ {
			if piece, ok := b.Get(pos(file, rank)); ok {
				row.WriteByte(piece.Letter())
			} else {
				row.WriteByte('.')
			}
		}
		rows = append(rows, row.String())
	}
	return rows
}

// String dumps the board rank 8 to rank 1:
//
//	8 |r|n|b|q|k|b|n|r|
//	...
//	1 |R|N|B|Q|K|B|N|R|
//	   a b c d e f g h
func (b *Board) String() string {
	var sb strings.Builder
	for rank := 8; rank >= 1; rank-- {
		fmt.Fprintf(&sb, "%d |", rank)
		for file := 1; file <= 8; file++ {
			if piece, ok := b.Get(pos(file, rank)); ok {
				sb.WriteByte(piece.Letter())
			} else {
				sb.WriteByte(' ')
			}
			sb.WriteByte('|')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("   a b c d e f g h")
	return sb.String()
}
