package model

type offset struct {
	df, dr int
}

var (
	rookDirs    = []offset{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs  = []offset{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenDirs   = []offset{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	kingDirs    = queenDirs
	knightJumps = []offset{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
)

// MoveContext is what move generation needs to know beyond piece placement.
type MoveContext struct {
	// LastMove is the previous move of the game, nil before the first move.
	LastMove *Move
	Castling CastlingRights
}

// PseudoLegalMoves lists the moves the piece on from may make by its movement
// rules alone, without asking whether they leave its own king attacked.
// An empty square yields no moves.
func PseudoLegalMoves(b *Board, from Position, ctx MoveContext) []Move {
	piece, ok := b.Get(from)
	if !ok {
		return nil
	}
	switch piece.Type {
	case Pawn:
		return pawnMoves(b, from, piece.Color, ctx.LastMove)
	case Knight:
		return movesTo(from, b.reach(from, piece.Color, knightJumps, false))
	case Bishop:
		return movesTo(from, b.reach(from, piece.Color, bishopDirs, true))
	case Rook:
		return movesTo(from, b.reach(from, piece.Color, rookDirs, true))
	case Queen:
		return movesTo(from, b.reach(from, piece.Color, queenDirs, true))
	case King:
		moves := movesTo(from, b.reach(from, piece.Color, kingDirs, false))
		return append(moves, castlingMoves(b, from, piece.Color, ctx.Castling)...)
	}
	return nil
}

// reach walks each direction from the given square. The walk stops at the
// board edge, before a piece of color c, or on an enemy piece (included).
// Without slide only the first square of each direction is considered.
func (b *Board) reach(from Position, c Color, dirs []offset, slide bool) []Position {
	var targets []Position
	for _, dir := range dirs {
		to, ok := from.Offset(dir.df, dir.dr)
		for ok {
			if occupant, occupied := b.Get(to); occupied {
				if occupant.Color != c {
					targets = append(targets, to)
				}
				break
			}
			targets = append(targets, to)
			if !slide {
				break
			}
			to, ok = to.Offset(dir.df, dir.dr)
		}
	}
	return targets
}

func movesTo(from Position, targets []Position) []Move {
	moves := make([]Move, 0, len(targets))
	for _, to := range targets {
		moves = append(moves, Move{From: from, To: to})
	}
	return moves
}

// pawnGeometry returns the forward rank step, the rank double steps start
// from and the rank pawns promote on.
func pawnGeometry(c Color) (dir, startRank, promoRank int) {
	if c == White {
		return 1, 2, 8
	}
	return -1, 7, 1
}

func pawnMoves(b *Board, from Position, c Color, last *Move) []Move {
	dir, startRank, promoRank := pawnGeometry(c)
	var moves []Move

	if one, ok := from.Offset(0, dir); ok && b.IsEmpty(one) {
		moves = appendPawnMove(moves, Move{From: from, To: one}, promoRank)
		if from.Rank() == startRank {
			if two, ok := from.Offset(0, 2*dir); ok && b.IsEmpty(two) {
				moves = append(moves, Move{From: from, To: two})
			}
		}
	}

	for _, df := range []int{-1, 1} {
		to, ok := from.Offset(df, dir)
		if !ok {
			continue
		}
		if target, occupied := b.Get(to); occupied {
			if target.Color != c {
				moves = appendPawnMove(moves, Move{From: from, To: to}, promoRank)
			}
			continue
		}
		if enPassantAllowed(b, from, to, c, last) {
			moves = append(moves, Move{From: from, To: to})
		}
	}
	return moves
}

// appendPawnMove expands a move onto the promotion rank into one move per
// promotion piece.
func appendPawnMove(moves []Move, m Move, promoRank int) []Move {
	if m.To.Rank() != promoRank {
		return append(moves, m)
	}
	for _, t := range PromotionTypes {
		m.Promotion = t
		moves = append(moves, m)
	}
	return moves
}

// enPassantAllowed reports whether the pawn of color c on from may capture
// diagonally onto the empty square to: the previous move must have been an
// enemy pawn's double step that ended beside it on to's file.
func enPassantAllowed(b *Board, from, to Position, c Color, last *Move) bool {
	if last == nil {
		return false
	}
	if last.To.Rank() != from.Rank() || last.To.File() != to.File() {
		return false
	}
	victim, ok := b.Get(last.To)
	if !ok || victim.Color == c {
		return false
	}
	return last.isDoublePawnStep(victim)
}

func castlingMoves(b *Board, from Position, c Color, rights CastlingRights) []Move {
	home := 1
	if c == Black {
		home = 8
	}
	if from != pos(5, home) || rights == NoCastling {
		return nil
	}

	var moves []Move
	for _, kingside := range []bool{true, false} {
		if !rights.Has(castlingRight(c, kingside)) {
			continue
		}
		kingTo := pos(3, home)
		if kingside {
			kingTo = pos(7, home)
		}
		m := Move{From: from, To: kingTo}
		rook, _ := castleRookMove(m)
		if p, ok := b.Get(rook.From); !ok || p.Type != Rook || p.Color != c {
			continue
		}
		if !castlingPathClear(b, from, rook.From, kingTo, c) {
			continue
		}
		moves = append(moves, m)
	}
	return moves
}

// castlingPathClear checks that every square strictly between king and rook
// is empty, and that the king neither starts on, crosses, nor lands on an
// attacked square.
func castlingPathClear(b *Board, king, rook, kingTo Position, c Color) bool {
	step := 1
	if rook.File() < king.File() {
		step = -1
	}
	for file := king.File() + step; file != rook.File(); file += step {
		if !b.IsEmpty(pos(file, king.Rank())) {
			return false
		}
	}
	for file := king.File(); ; file += step {
		if IsUnderAttack(b, pos(file, king.Rank()), c.Opponent()) {
			return false
		}
		if file == kingTo.File() {
			return true
		}
	}
}
