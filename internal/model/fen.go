package model

import (
	"fmt"
	"strings"
)

const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// NewGameFromBoard starts a game from an arbitrary position with no castling
// rights and no history.
func NewGameFromBoard(b *Board, turn Color) *Game {
	return &Game{
		board:    b.Clone(),
		turn:     turn,
		history:  make([]Move, 0),
		castling: NoCastling,
	}
}

// ParseFEN builds a game from the first four FEN fields (placement, side to
// move, castling rights, en passant square). Missing trailing fields default
// to White to move with no castling and no en passant. Move counters are
// ignored.
//
// An en passant square is turned into a one-move history holding the double
// pawn step that produced it, since that is what en passant is derived from.
func ParseFEN(fen string) (*Game, error) {
	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty FEN")
	}

	board, err := parsePlacement(fields[0])
	if err != nil {
		return nil, err
	}
	g := NewGameFromBoard(board, White)

	if len(fields) > 1 {
		switch fields[1] {
		case "w":
			g.turn = White
		case "b":
			g.turn = Black
		default:
			return nil, fmt.Errorf("invalid side to move %q", fields[1])
		}
	}

	if len(fields) > 2 && fields[2] != "-" {
		for _, r := range fields[2] {
			switch r {
			case 'K':
				g.castling |= WhiteKingside
			case 'Q':
				g.castling |= WhiteQueenside
			case 'k':
				g.castling |= BlackKingside
			case 'q':
				g.castling |= BlackQueenside
			default:
				return nil, fmt.Errorf("invalid castling rights %q", fields[2])
			}
		}
	}

	if len(fields) > 3 && fields[3] != "-" {
		target, err := ParsePosition(fields[3])
		if err != nil {
			return nil, fmt.Errorf("invalid en passant square: %w", err)
		}
		m, err := doubleStepThrough(target, g.turn)
		if err != nil {
			return nil, err
		}
		g.history = append(g.history, m)
	}

	return g, nil
}

func parsePlacement(placement string) (*Board, error) {
	rows := strings.Split(placement, "/")
	if len(rows) != 8 {
		return nil, fmt.Errorf("invalid piece placement %q: want 8 ranks", placement)
	}
	b := NewBoard()
	for i, row := range rows {
		rank := 8 - i
		file := 1
		for j := 0; j < len(row); j++ {
			ch := row[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			piece, ok := pieceFromLetter(ch)
			if !ok {
				return nil, fmt.Errorf("invalid piece %q in rank %d", ch, rank)
			}
			if file > 8 {
				return nil, fmt.Errorf("rank %d has more than 8 squares", rank)
			}
			b.Set(pos(file, rank), piece)
			file++
		}
		if file != 9 {
			return nil, fmt.Errorf("rank %d has %d squares", rank, file-1)
		}
	}
	return b, nil
}

// doubleStepThrough returns the pawn move that skipped over target, made by
// the opponent of toMove.
func doubleStepThrough(target Position, toMove Color) (Move, error) {
	switch {
	case toMove == Black && target.Rank() == 3:
		return Move{From: pos(target.File(), 2), To: pos(target.File(), 4)}, nil
	case toMove == White && target.Rank() == 6:
		return Move{From: pos(target.File(), 7), To: pos(target.File(), 5)}, nil
	}
	return Move{}, fmt.Errorf("en passant square %s does not fit %s to move", target, toMove)
}
