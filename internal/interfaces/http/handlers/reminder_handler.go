package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"vnbank.backend/internal/domain/entities"
	"vnbank.backend/internal/interfaces/http/response"
	"vnbank.backend/internal/usecases"
)

// ReminderHandler handles recurring payment endpoints
type ReminderHandler struct {
	reminderUsecase *usecases.ReminderUsecase
}

// NewReminderHandler creates a new reminder handler
func NewReminderHandler(reminderUsecase *usecases.ReminderUsecase) *ReminderHandler {
	return &ReminderHandler{reminderUsecase: reminderUsecase}
}

// List returns the caller's reminders
// GET /api/v1/reminders
func (h *ReminderHandler) List(c *gin.Context) {
	userID, _, ok := caller(c)
	if !ok {
		return
	}

	reminders, err := h.reminderUsecase.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reminders": reminders})
}

// ListAll returns every reminder
// GET /api/v1/reminders/all
func (h *ReminderHandler) ListAll(c *gin.Context) {
	reminders, err := h.reminderUsecase.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reminders": reminders})
}

// Create schedules a reminder for the caller
// POST /api/v1/reminders
func (h *ReminderHandler) Create(c *gin.Context) {
	userID, _, ok := caller(c)
	if !ok {
		return
	}

	var input entities.CreateReminderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, bindError(err))
		return
	}

	reminder, err := h.reminderUsecase.Create(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, reminder)
}

// Delete removes a reminder
// DELETE /api/v1/reminders/:id
func (h *ReminderHandler) Delete(c *gin.Context) {
	userID, role, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.reminderUsecase.Delete(c.Request.Context(), userID, role, id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
