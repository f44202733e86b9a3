package handlers

import (
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"vnbank.backend/internal/domain/entities"
	domainerrors "vnbank.backend/internal/domain/errors"
	"vnbank.backend/internal/interfaces/http/middleware"
	"vnbank.backend/internal/interfaces/http/response"
)

// caller returns the authenticated user's ID and role, writing 401 when absent
func caller(c *gin.Context) (uuid.UUID, entities.UserRole, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return uuid.Nil, "", false
	}
	role, ok := middleware.GetUserRole(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return uuid.Nil, "", false
	}
	return userID, role, true
}

// pathUUID parses a UUID path parameter, writing 400 when malformed
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

// bindError maps a JSON binding failure to a domain error. A non-numeric or
// out-of-range amount is an invalid amount, anything else is bad input.
func bindError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field == "amount" {
		return domainerrors.ErrInvalidAmount
	}
	return domainerrors.BadRequest(err.Error())
}
