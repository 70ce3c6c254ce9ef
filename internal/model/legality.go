package model

// IsUnderAttack reports whether any piece of color by could move onto target
// by its movement geometry. Pawns threaten only their two forward diagonals
// (never the squares they push to) and castling never attacks anything.
func IsUnderAttack(b *Board, target Position, by Color) bool {
	for _, from := range b.Occupied(by) {
		for _, sq := range attackedFrom(b, from) {
			if sq == target {
				return true
			}
		}
	}
	return false
}

func attackedFrom(b *Board, from Position) []Position {
	piece, _ := b.Get(from)
	switch piece.Type {
	case Pawn:
		dir, _, _ := pawnGeometry(piece.Color)
		var targets []Position
		for _, df := range []int{-1, 1} {
			if to, ok := from.Offset(df, dir); ok {
				targets = append(targets, to)
			}
		}
		return targets
	case Knight:
		return b.reach(from, piece.Color, knightJumps, false)
	case Bishop:
		return b.reach(from, piece.Color, bishopDirs, true)
	case Rook:
		return b.reach(from, piece.Color, rookDirs, true)
	case Queen:
		return b.reach(from, piece.Color, queenDirs, true)
	case King:
		return b.reach(from, piece.Color, kingDirs, false)
	}
	return nil
}

// IsInCheck reports whether c's king is attacked. A board without that king
// fails with ErrKingMissing.
func IsInCheck(b *Board, c Color) (bool, error) {
	king, err := b.FindKing(c)
	if err != nil {
		return false, err
	}
	return IsUnderAttack(b, king, c.Opponent()), nil
}

// LegalMoves filters the pseudo-legal moves of the piece on from down to the
// ones that do not leave turn's king attacked. Empty squares and pieces not
// belonging to turn yield an empty result.
func LegalMoves(b *Board, turn Color, from Position, ctx MoveContext) ([]Move, error) {
	piece, ok := b.Get(from)
	if !ok || piece.Color != turn {
		return []Move{}, nil
	}

	candidates := PseudoLegalMoves(b, from, ctx)
	legal := make([]Move, 0, len(candidates))
	for _, m := range candidates {
		next := b.Clone()
		ApplyMove(next, m)
		inCheck, err := IsInCheck(next, turn)
		if err != nil {
			return nil, err
		}
		if !inCheck {
			legal = append(legal, m)
		}
	}
	return legal, nil
}

// ApplyMove moves a piece without any validation, carrying out the side
// effects of the move: the en passant victim is removed, the castling rook is
// relocated and a promoted pawn is replaced by its new piece.
func ApplyMove(b *Board, m Move) {
	piece, ok := b.Get(m.From)
	if !ok {
		return
	}
	switch piece.Type {
	case Pawn:
		// a pawn moving diagonally onto an empty square can only be capturing en passant
		if m.From.File() != m.To.File() && b.IsEmpty(m.To) {
			b.Clear(pos(m.To.File(), m.From.Rank()))
		}
	case King:
		if rook, castling := castleRookMove(m); castling {
			if r, ok := b.Get(rook.From); ok {
				b.Clear(rook.From)
				b.Set(rook.To, r)
			}
		}
	}
	b.Clear(m.From)
	if m.Promotion != NoPiece {
		piece = Piece{Type: m.Promotion, Color: piece.Color}
	}
	b.Set(m.To, piece)
}
