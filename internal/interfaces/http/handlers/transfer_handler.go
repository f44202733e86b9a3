package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"vnbank.backend/internal/domain/entities"
	domainerrors "vnbank.backend/internal/domain/errors"
	"vnbank.backend/internal/interfaces/http/middleware"
	"vnbank.backend/internal/interfaces/http/response"
	"vnbank.backend/internal/usecases"
)

// TransferHandler handles internal transfers
type TransferHandler struct {
	transferUsecase *usecases.TransferUsecase
	accountUsecase  *usecases.AccountUsecase
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(transferUsecase *usecases.TransferUsecase, accountUsecase *usecases.AccountUsecase) *TransferHandler {
	return &TransferHandler{
		transferUsecase: transferUsecase,
		accountUsecase:  accountUsecase,
	}
}

// Transfer moves money from one of the caller's accounts to any account number
// POST /api/v1/transfers
func (h *TransferHandler) Transfer(c *gin.Context) {
	userID, role, ok := caller(c)
	if !ok {
		return
	}

	var input entities.TransferInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, bindError(err))
		return
	}

	// an unknown source is left to the engine so the rejection is recorded
	_, err := h.accountUsecase.GetAccessible(c.Request.Context(), userID, role, input.FromAccountID)
	if err != nil && !errors.Is(err, domainerrors.ErrAccountNotFound) {
		response.Error(c, err)
		return
	}

	input.InitiatorID = userID
	input.IdempotencyKey = middleware.GetIdempotencyKey(c)

	tx, err := h.transferUsecase.Transfer(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, tx)
}
