package handlers

import (
	"errors"
	"net/http"

	"github.com/LavaJover/shvark-settlement-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-settlement-service/internal/delivery/http/middleware"
	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/gin-gonic/gin"
)

// StatusFor maps domain errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrQuantityExceeded):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrConcurrentModification),
		errors.Is(err, domain.ErrSettlementAlreadyFinalized):
		return http.StatusConflict
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	status := StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.JSON(status, response.ErrorResponse{Error: msg})
}

func writeBindError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
}

func actor(c *gin.Context) domain.Actor {
	a, _ := middleware.ActorFromContext(c)
	return a
}
