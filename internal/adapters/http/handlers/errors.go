package handlers

import (
	"errors"
	"log"
	"strconv"

	"bookstore-api/internal/core/domain"
	"bookstore-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// respondError maps service errors onto the response envelope.
// Anything unrecognised is a storage failure: logged and reported as 500.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidRole):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrUserNotFound):
		return response.NotFound(c, "User not found")
	case errors.Is(err, domain.ErrBookNotFound):
		return response.NotFound(c, "Book not found")
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return response.BadRequest(c, "Email already registered")
	case errors.Is(err, domain.ErrBookOnLoan):
		return response.Conflict(c, "Book is currently borrowed")
	case errors.Is(err, domain.ErrCannotDeleteSelf),
		errors.Is(err, domain.ErrCannotChangeOwnRole):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		return response.Unauthorized(c, "Incorrect username or password")
	case errors.Is(err, domain.ErrTokenExpired):
		return response.Unauthorized(c, "Refresh token expired")
	case errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenRevoked):
		return response.Unauthorized(c, "Invalid refresh token")
	}

	log.Printf("❌ %s: %v", fallback, err)
	return response.InternalServerError(c, fallback)
}

// paramID parses a positive integer path parameter
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	return parseID(c.Params(name))
}

func parseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
