package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"vnbank.backend/internal/domain/entities"
	domainerrors "vnbank.backend/internal/domain/errors"
)

type remindersBody struct {
	Reminders []*entities.Reminder `json:"reminders"`
}

func TestReminderHandler_CreateListDelete(t *testing.T) {
	f := newAPIFixture(t)
	token := f.login(t, customerPhone)
	due := time.Date(2030, time.January, 31, 9, 0, 0, 0, time.UTC)

	rec := f.do(t, http.MethodPost, "/api/v1/reminders", token, gin.H{
		"toAccountNumber": "88880001",
		"amount":          300_000,
		"frequency":       "MONTHLY",
		"nextDueAt":       due.Format(time.RFC3339),
		"description":     "Internet",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created entities.Reminder
	decode(t, rec, &created)
	assert.Equal(t, entities.FrequencyMonthly, created.Frequency)
	assert.True(t, due.Equal(created.NextDueAt))

	rec = f.do(t, http.MethodGet, "/api/v1/reminders", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list remindersBody
	decode(t, rec, &list)
	assert.Len(t, list.Reminders, 3)

	// another customer cannot delete it
	rec = f.do(t, http.MethodDelete, "/api/v1/reminders/"+created.ID.String(), f.login(t, companyPhone), nil)
	requireError(t, rec, http.StatusForbidden, domainerrors.CodeForbidden)

	rec = f.do(t, http.MethodDelete, "/api/v1/reminders/"+created.ID.String(), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/v1/reminders/"+created.ID.String(), token, nil)
	requireError(t, rec, http.StatusNotFound, domainerrors.CodeNotFound)
}

func TestReminderHandler_CreateRejections(t *testing.T) {
	f := newAPIFixture(t)
	token := f.login(t, customerPhone)
	due := time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)

	rec := f.do(t, http.MethodPost, "/api/v1/reminders", token, gin.H{
		"toAccountNumber": "88880001",
		"amount":          0,
		"frequency":       "DAILY",
		"nextDueAt":       due,
	})
	requireError(t, rec, http.StatusBadRequest, domainerrors.CodeInvalidAmount)

	rec = f.do(t, http.MethodPost, "/api/v1/reminders", token, gin.H{
		"toAccountNumber": "88880001",
		"amount":          1000,
		"frequency":       "YEARLY",
		"nextDueAt":       due,
	})
	requireError(t, rec, http.StatusBadRequest, domainerrors.CodeInvalidInput)

	rec = f.do(t, http.MethodPost, "/api/v1/reminders", token, gin.H{
		"amount":    1000,
		"frequency": "DAILY",
		"nextDueAt": due,
	})
	requireError(t, rec, http.StatusBadRequest, domainerrors.CodeInvalidInput)

	rec = f.do(t, http.MethodPost, "/api/v1/reminders", token, gin.H{
		"toAccountNumber": "88880001",
		"amount":          "ten thousand",
		"frequency":       "DAILY",
		"nextDueAt":       due,
	})
	requireError(t, rec, http.StatusBadRequest, domainerrors.CodeInvalidAmount)
}

func TestReminderHandler_ListAllAdminOnly(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/reminders/all", f.login(t, staffPhone), nil)
	requireError(t, rec, http.StatusForbidden, domainerrors.CodeForbidden)

	rec = f.do(t, http.MethodGet, "/api/v1/reminders/all", f.login(t, adminPhone), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list remindersBody
	decode(t, rec, &list)
	assert.Len(t, list.Reminders, 2)
}

func TestReminderHandler_DeleteBadID(t *testing.T) {
	f := newAPIFixture(t)
	token := f.login(t, customerPhone)

	rec := f.do(t, http.MethodDelete, "/api/v1/reminders/nope", token, nil)
	requireError(t, rec, http.StatusBadRequest, domainerrors.CodeInvalidInput)

	rec = f.do(t, http.MethodDelete, "/api/v1/reminders/"+uuid.NewString(), token, nil)
	requireError(t, rec, http.StatusNotFound, domainerrors.CodeNotFound)
}
