package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"vnbank.backend/internal/domain/entities"
	domainerrors "vnbank.backend/internal/domain/errors"
	"vnbank.backend/internal/domain/repositories"
	"vnbank.backend/pkg/logger"
)

// Transferer is the part of the transfer engine reminders need
type Transferer interface {
	Transfer(ctx context.Context, input *entities.TransferInput) (*entities.Transaction, error)
}

// Notifier delivers a notification to a user
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, title, message string, severity entities.NotificationSeverity) (*entities.Notification, error)
}

// ReminderUsecase manages recurring payments and fires the due ones
type ReminderUsecase struct {
	reminderRepo repositories.ReminderRepository
	accountRepo  repositories.AccountRepository
	transfers    Transferer
	notifier     Notifier
}

// NewReminderUsecase creates a new reminder usecase
func NewReminderUsecase(
	reminderRepo repositories.ReminderRepository,
	accountRepo repositories.AccountRepository,
	transfers Transferer,
	notifier Notifier,
) *ReminderUsecase {
	return &ReminderUsecase{
		reminderRepo: reminderRepo,
		accountRepo:  accountRepo,
		transfers:    transfers,
		notifier:     notifier,
	}
}

// Create schedules a new reminder for userID
func (u *ReminderUsecase) Create(ctx context.Context, userID uuid.UUID, input *entities.CreateReminderInput) (*entities.Reminder, error) {
	if input.Amount <= 0 {
		return nil, domainerrors.ErrInvalidAmount
	}
	if !input.Frequency.Valid() {
		return nil, domainerrors.NewError("frequency must be DAILY, WEEKLY or MONTHLY", domainerrors.ErrInvalidInput)
	}
	number := strings.TrimSpace(input.ToAccountNumber)
	if number == "" {
		return nil, domainerrors.NewError("destination account number is required", domainerrors.ErrInvalidInput)
	}
	if input.NextDueAt.IsZero() {
		return nil, domainerrors.NewError("next due date is required", domainerrors.ErrInvalidInput)
	}

	reminder := &entities.Reminder{
		UserID:          userID,
		ToAccountNumber: number,
		Amount:          input.Amount,
		Frequency:       input.Frequency,
		NextDueAt:       input.NextDueAt.UTC(),
		Description:     input.Description,
	}
	if err := u.reminderRepo.Create(ctx, reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

// Delete removes a reminder. Customers may only delete their own.
func (u *ReminderUsecase) Delete(ctx context.Context, userID uuid.UUID, role entities.UserRole, id uuid.UUID) error {
	reminder, err := u.reminderRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if reminder.UserID != userID && !role.IsStaff() {
		return domainerrors.ErrForbidden
	}
	return u.reminderRepo.Delete(ctx, id)
}

// ListByUser returns the user's reminders
func (u *ReminderUsecase) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Reminder, error) {
	return u.reminderRepo.ListByUserID(ctx, userID)
}

// List returns every reminder
func (u *ReminderUsecase) List(ctx context.Context) ([]*entities.Reminder, error) {
	return u.reminderRepo.List(ctx)
}

// ProcessDue fires every reminder due at now once. A fired reminder moves
// one period forward; a failed one keeps its due time and is retried on the
// next tick.
func (u *ReminderUsecase) ProcessDue(ctx context.Context, now time.Time) (entities.ReminderRunSummary, error) {
	var summary entities.ReminderRunSummary

	due, err := u.reminderRepo.ListDue(ctx, now)
	if err != nil {
		return summary, err
	}
	summary.Due = len(due)

	for _, reminder := range due {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		if err := u.fire(ctx, reminder); err != nil {
			summary.Failed++
			logger.Warn(ctx, "Reminder failed",
				zap.String("reminder_id", reminder.ID.String()),
				zap.Error(err),
			)
			continue
		}
		summary.Fired++
	}
	return summary, nil
}

func (u *ReminderUsecase) fire(ctx context.Context, reminder *entities.Reminder) error {
	source, err := u.defaultAccount(ctx, reminder.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrAccountNotFound) {
			u.notifyNoAccount(ctx, reminder)
		}
		return err
	}

	_, err = u.transfers.Transfer(ctx, &entities.TransferInput{
		InitiatorID:     reminder.UserID,
		FromAccountID:   source.ID,
		ToAccountNumber: reminder.ToAccountNumber,
		Amount:          reminder.Amount,
		Note:            reminder.Description,
		IdempotencyKey:  fmt.Sprintf("reminder:%s:%d", reminder.ID, reminder.NextDueAt.Unix()),
	})
	if err != nil {
		return err
	}

	next := reminder.Frequency.Next(reminder.NextDueAt)
	if err := u.reminderRepo.UpdateNextDue(ctx, reminder.ID, next); err != nil {
		return fmt.Errorf("advance reminder %s: %w", reminder.ID, err)
	}
	return nil
}

// defaultAccount picks the owner's oldest active PAYMENT account, falling
// back to the oldest active account of any type.
func (u *ReminderUsecase) defaultAccount(ctx context.Context, userID uuid.UUID) (*entities.Account, error) {
	accounts, err := u.accountRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	var fallback *entities.Account
	for _, acct := range accounts {
		if !acct.IsActive {
			continue
		}
		if acct.Type == entities.AccountTypePayment {
			return acct, nil
		}
		if fallback == nil {
			fallback = acct
		}
	}
	if fallback == nil {
		return nil, domainerrors.ErrAccountNotFound
	}
	return fallback, nil
}

func (u *ReminderUsecase) notifyNoAccount(ctx context.Context, reminder *entities.Reminder) {
	msg := fmt.Sprintf("No active account available to pay %s to %s", formatVND(reminder.Amount), reminder.ToAccountNumber)
	if _, err := u.notifier.Notify(ctx, reminder.UserID, "Scheduled payment failed", msg, entities.SeverityError); err != nil {
		logger.Error(ctx, "Failed to notify reminder owner",
			zap.String("reminder_id", reminder.ID.String()),
			zap.Error(err),
		)
	}
}
