package model

import (
	"errors"
	"fmt"
)

// Rejected moves. The game is left exactly as it was.
var (
	ErrInvalidMove     = errors.New("invalid move")
	ErrNoPieceAtSource = fmt.Errorf("%w: no piece at source square", ErrInvalidMove)
	ErrWrongTurn       = fmt.Errorf("%w: not your turn", ErrInvalidMove)
	ErrIllegalMove     = fmt.Errorf("%w: move is not legal", ErrInvalidMove)
)

// A malformed board cannot be played on; these abort whatever query hit them.
var (
	ErrMalformedBoard = errors.New("malformed board")
	ErrKingMissing    = fmt.Errorf("%w: king missing", ErrMalformedBoard)
)

var errRanks = errors.New("board must have 8 ranks of 8 squares")
