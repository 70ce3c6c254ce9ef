package controller

import (
	"errors"

	"github.com/benbeisheim/chess-server/internal/model"
	"github.com/benbeisheim/chess-server/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// statusFor maps service and engine errors to HTTP status codes.
func statusFor(err error) int {
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.Is(err, service.ErrBadRequest), errors.Is(err, model.ErrInvalidMove):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrGameOver):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler replies to every failed request with {"message": "Error: ..."}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	if code == fiber.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(fiber.Map{
		"message": "Error: " + err.Error(),
	})
}

// badRequest wraps a body or parameter parsing failure.
func badRequest(err error) error {
	return fiber.NewError(fiber.StatusBadRequest, err.Error())
}
