package service

import "errors"

var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrGameNotFound = errors.New("game not found")
	ErrGameOver     = errors.New("game is over")
)
