package model

// Move is a value; two moves are equal iff From, To and Promotion all match.
// Promotion is NoPiece unless a pawn reaches its last rank.
type Move struct {
	From      Position  `json:"from"`
	To        Position  `json:"to"`
	Promotion PieceType `json:"promotion,omitempty"`
}

// String gives the coordinate form used in logs and tests, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.Promotion != NoPiece {
		s += string(m.Promotion.letter())
	}
	return s
}

func (m Move) isDoublePawnStep(p Piece) bool {
	return p.Type == Pawn && m.From.File() == m.To.File() && abs(m.To.Rank()-m.From.Rank()) == 2
}

// CastleRookMove is the rook relocation that accompanies a castling king move.
type CastleRookMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// castleRookMove reports the rook relocation for a king move of two files.
func castleRookMove(m Move) (CastleRookMove, bool) {
	rank := m.From.Rank()
	switch m.To.File() - m.From.File() {
	case 2:
		return CastleRookMove{From: pos(8, rank), To: pos(6, rank)}, true
	case -2:
		return CastleRookMove{From: pos(1, rank), To: pos(4, rank)}, true
	}
	return CastleRookMove{}, false
}

type CastlingRights uint8

const (
	WhiteKingside CastlingRights = 1 << iota
	WhiteQueenside
	BlackKingside
	BlackQueenside

	NoCastling        CastlingRights = 0
	AllCastlingRights                = WhiteKingside | WhiteQueenside | BlackKingside | BlackQueenside
)

func (r CastlingRights) Has(flag CastlingRights) bool {
	return r&flag != 0
}

func castlingRight(c Color, kingside bool) CastlingRights {
	switch {
	case c == White && kingside:
		return WhiteKingside
	case c == White:
		return WhiteQueenside
	case kingside:
		return BlackKingside
	default:
		return BlackQueenside
	}
}

// afterMove drops every right whose king or rook square the move touches,
// either by leaving it or by capturing onto it.
func (r CastlingRights) afterMove(m Move) CastlingRights {
	for _, sq := range []Position{m.From, m.To} {
		switch sq {
		case pos(5, 1):
			r &^= WhiteKingside | WhiteQueenside
		case pos(8, 1):
			r &^= WhiteKingside
		case pos(1, 1):
			r &^= WhiteQueenside
		case pos(5, 8):
			r &^= BlackKingside | BlackQueenside
		case pos(8, 8):
			r &^= BlackKingside
		case pos(1, 8):
			r &^= BlackQueenside
		}
	}
	return r
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
