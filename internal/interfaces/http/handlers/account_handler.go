package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"vnbank.backend/internal/domain/entities"
	domainerrors "vnbank.backend/internal/domain/errors"
	"vnbank.backend/internal/interfaces/http/response"
	"vnbank.backend/internal/usecases"
	"vnbank.backend/pkg/utils"
)

// AccountHandler handles account and cash endpoints
type AccountHandler struct {
	accountUsecase  *usecases.AccountUsecase
	transferUsecase *usecases.TransferUsecase
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountUsecase *usecases.AccountUsecase, transferUsecase *usecases.TransferUsecase) *AccountHandler {
	return &AccountHandler{
		accountUsecase:  accountUsecase,
		transferUsecase: transferUsecase,
	}
}

// ListMine lists the caller's accounts
// GET /api/v1/accounts
func (h *AccountHandler) ListMine(c *gin.Context) {
	userID, _, ok := caller(c)
	if !ok {
		return
	}

	accounts, err := h.accountUsecase.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"accounts": accounts})
}

// ListAll lists every account
// GET /api/v1/admin/accounts
func (h *AccountHandler) ListAll(c *gin.Context) {
	accounts, err := h.accountUsecase.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"accounts": accounts})
}

// Get returns one account
// GET /api/v1/accounts/:id
func (h *AccountHandler) Get(c *gin.Context) {
	account, ok := h.accessible(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, account)
}

// History returns the account's ledger legs, newest first
// GET /api/v1/accounts/:id/history?page=&limit=
func (h *AccountHandler) History(c *gin.Context) {
	account, ok := h.accessible(c)
	if !ok {
		return
	}

	var q utils.PaginationParams
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, bindError(err))
		return
	}
	p := utils.GetPaginationParams(q.Page, q.Limit)

	legs, err := h.transferUsecase.History(c.Request.Context(), account.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, http.StatusOK, utils.Paginate(legs, p), utils.CalculateMeta(int64(len(legs)), p.Page, p.Limit))
}

// Deposit credits an account. Staff record counter deposits; customers may
// only simulate ATM or QR deposits into their own accounts.
// POST /api/v1/accounts/:id/deposit
func (h *AccountHandler) Deposit(c *gin.Context) {
	userID, role, ok := caller(c)
	if !ok {
		return
	}
	account, ok := h.accessible(c)
	if !ok {
		return
	}

	var input entities.DepositInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, bindError(err))
		return
	}
	if !role.IsStaff() {
		switch input.Type {
		case "":
			input.Type = entities.TransactionTypeDepositATM
		case entities.TransactionTypeDepositATM, entities.TransactionTypeDepositQR:
		default:
			response.Error(c, domainerrors.Forbidden("Customers may only make ATM or QR deposits"))
			return
		}
	}
	input.InitiatorID = userID
	input.AccountID = account.ID

	tx, err := h.transferUsecase.Deposit(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, tx)
}

// Withdraw debits an account through the ATM or an external channel
// POST /api/v1/accounts/:id/withdraw
func (h *AccountHandler) Withdraw(c *gin.Context) {
	userID, _, ok := caller(c)
	if !ok {
		return
	}
	account, ok := h.accessible(c)
	if !ok {
		return
	}

	var input entities.WithdrawInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, bindError(err))
		return
	}
	input.InitiatorID = userID
	input.AccountID = account.ID

	var txType entities.TransactionType
	switch input.Channel {
	case "", entities.WithdrawChannelExternal:
		txType = entities.TransactionTypeWithdrawExternal
	case entities.WithdrawChannelATM:
		txType = entities.TransactionTypeWithdrawATM
	default:
		response.Error(c, domainerrors.BadRequest("channel must be EXTERNAL or ATM"))
		return
	}

	tx, err := h.transferUsecase.Withdraw(c.Request.Context(), &input, txType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, tx)
}

// SetStatus locks or unlocks an account
// PUT /api/v1/accounts/:id/status
func (h *AccountHandler) SetStatus(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input entities.SetAccountStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, bindError(err))
		return
	}

	account, err := h.accountUsecase.SetActive(c.Request.Context(), id, *input.Active)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, account)
}

// ListForUser lists another user's accounts
// GET /api/v1/users/:id/accounts
func (h *AccountHandler) ListForUser(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	accounts, err := h.accountUsecase.ListByUser(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"accounts": accounts})
}

// OpenForUser opens a new account for a user
// POST /api/v1/users/:id/accounts
func (h *AccountHandler) OpenForUser(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input entities.OpenAccountInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			response.Error(c, bindError(err))
			return
		}
	}

	account, err := h.accountUsecase.OpenAccount(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, account)
}

// accessible loads the :id account if the caller may act on it
func (h *AccountHandler) accessible(c *gin.Context) (*entities.Account, bool) {
	userID, role, ok := caller(c)
	if !ok {
		return nil, false
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return nil, false
	}

	account, err := h.accountUsecase.GetAccessible(c.Request.Context(), userID, role, id)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return account, true
}
