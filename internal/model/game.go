package model

import "fmt"

type Status string

const (
	StatusActive    Status = "active"
	StatusCheck     Status = "check"
	StatusCheckmate Status = "checkmate"
	StatusStalemate Status = "stalemate"
)

// Over reports whether no further moves can be made.
func (s Status) Over() bool {
	return s == StatusCheckmate || s == StatusStalemate
}

// Game tracks one game of chess: the board, whose turn it is and the moves
// played so far. A Game is not safe for concurrent use; callers serialize
// access to it.
type Game struct {
	board    *Board
	turn     Color
	history  []Move
	castling CastlingRights
}

// NewGame starts a game from the standard position with White to move.
func NewGame() *Game {
	return &Game{
		board:    NewStartingBoard(),
		turn:     White,
		history:  make([]Move, 0),
		castling: AllCastlingRights,
	}
}

// Board returns a copy of the current board.
func (g *Game) Board() *Board {
	return g.board.Clone()
}

func (g *Game) Turn() Color {
	return g.turn
}

// History returns the moves played so far, oldest first.
func (g *Game) History() []Move {
	history := make([]Move, len(g.history))
	copy(history, g.history)
	return history
}

func (g *Game) LastMove() (Move, bool) {
	if len(g.history) == 0 {
		return Move{}, false
	}
	return g.history[len(g.history)-1], true
}

func (g *Game) Castling() CastlingRights {
	return g.castling
}

func (g *Game) Clone() *Game {
	return &Game{
		board:    g.board.Clone(),
		turn:     g.turn,
		history:  g.History(),
		castling: g.castling,
	}
}

func (g *Game) context() MoveContext {
	ctx := MoveContext{Castling: g.castling}
	if last, ok := g.LastMove(); ok {
		ctx.LastMove = &last
	}
	return ctx
}

// ValidMoves lists the legal moves of the piece on p. It is empty when the
// square is empty or holds a piece of the side not to move.
func (g *Game) ValidMoves(p Position) ([]Move, error) {
	return LegalMoves(g.board, g.turn, p, g.context())
}

// MakeMove plays m for the side to move. A rejected move returns an error
// wrapping ErrInvalidMove and leaves the game untouched.
func (g *Game) MakeMove(m Move) error {
	piece, ok := g.board.Get(m.From)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoPieceAtSource, m.From)
	}
	if piece.Color != g.turn {
		return fmt.Errorf("%w: %s to move", ErrWrongTurn, g.turn)
	}

	legal, err := g.ValidMoves(m.From)
	if err != nil {
		return err
	}
	if !containsMove(legal, m) {
		return fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}

	ApplyMove(g.board, m)
	g.history = append(g.history, m)
	g.castling = g.castling.afterMove(m)
	g.turn = g.turn.Opponent()
	return nil
}

func containsMove(moves []Move, m Move) bool {
	for _, candidate := range moves {
		if candidate == m {
			return true
		}
	}
	return false
}

func (g *Game) IsInCheck(c Color) (bool, error) {
	return IsInCheck(g.board, c)
}

// allLegalMoves gathers the legal moves of every c piece, treating c as the
// side to move.
func (g *Game) allLegalMoves(c Color) ([]Move, error) {
	ctx := g.context()
	var moves []Move
	for _, from := range g.board.Occupied(c) {
		legal, err := LegalMoves(g.board, c, from, ctx)
		if err != nil {
			return nil, err
		}
		moves = append(moves, legal...)
	}
	return moves, nil
}

// AllValidMoves lists every legal move available to the side to move.
func (g *Game) AllValidMoves() ([]Move, error) {
	return g.allLegalMoves(g.turn)
}

func (g *Game) hasNoMoves(c Color) (bool, error) {
	moves, err := g.allLegalMoves(c)
	if err != nil {
		return false, err
	}
	return len(moves) == 0, nil
}

func (g *Game) IsInCheckmate(c Color) (bool, error) {
	inCheck, err := g.IsInCheck(c)
	if err != nil || !inCheck {
		return false, err
	}
	return g.hasNoMoves(c)
}

func (g *Game) IsInStalemate(c Color) (bool, error) {
	inCheck, err := g.IsInCheck(c)
	if err != nil || inCheck {
		return false, err
	}
	return g.hasNoMoves(c)
}

// Status describes the position from the point of view of the side to move.
func (g *Game) Status() (Status, error) {
	inCheck, err := g.IsInCheck(g.turn)
	if err != nil {
		return "", err
	}
	stuck, err := g.hasNoMoves(g.turn)
	if err != nil {
		return "", err
	}
	switch {
	case inCheck && stuck:
		return StatusCheckmate, nil
	case stuck:
		return StatusStalemate, nil
	case inCheck:
		return StatusCheck, nil
	}
	return StatusActive, nil
}
