package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"vnbank.backend/internal/domain/entities"
	domainerrors "vnbank.backend/internal/domain/errors"
	"vnbank.backend/internal/domain/repositories"
	"vnbank.backend/pkg/utils"
)

var amountPrinter = message.NewPrinter(language.English)

// formatVND renders an amount with thousands separators, e.g. "1,500,000 VND"
func formatVND(amount int64) string {
	return amountPrinter.Sprintf("%d VND", amount)
}

// NotificationUsecase delivers per-user notifications
type NotificationUsecase struct {
	repo repositories.NotificationRepository
	now  func() time.Time
}

// NewNotificationUsecase creates a new notification usecase
func NewNotificationUsecase(repo repositories.NotificationRepository) *NotificationUsecase {
	return &NotificationUsecase{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Notify prepends a notification to the user's list
func (u *NotificationUsecase) Notify(ctx context.Context, userID uuid.UUID, title, msg string, severity entities.NotificationSeverity) (*entities.Notification, error) {
	n := &entities.Notification{
		ID:        utils.GenerateUUIDv7(),
		UserID:    userID,
		Title:     title,
		Message:   msg,
		Severity:  severity,
		CreatedAt: u.now(),
	}
	if err := u.repo.Add(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// List returns the user's notifications, newest first
func (u *NotificationUsecase) List(ctx context.Context, userID uuid.UUID) ([]*entities.Notification, error) {
	return u.repo.ListByUserID(ctx, userID)
}

// UnreadCount returns how many of the user's notifications are unread
func (u *NotificationUsecase) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	list, err := u.repo.ListByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range list {
		if !n.IsRead {
			count++
		}
	}
	return count, nil
}

// MarkRead marks one notification read. Marking twice is not an error.
func (u *NotificationUsecase) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return u.repo.MarkRead(ctx, userID, id)
}

// MarkAllRead marks all of the user's notifications read
func (u *NotificationUsecase) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return u.repo.MarkAllRead(ctx, userID)
}

// HandleLedgerEvent turns a ledger outcome into notifications. A committed
// operation notifies every affected owner once; a rejection notifies only
// the initiator.
func (u *NotificationUsecase) HandleLedgerEvent(ctx context.Context, event *entities.LedgerEvent) error {
	if !event.Succeeded() {
		if event.InitiatorID == uuid.Nil {
			return nil
		}
		_, err := u.Notify(ctx, event.InitiatorID, failureTitle(event.Operation), domainerrors.Message(event.Err), entities.SeverityError)
		return err
	}

	amount := formatVND(event.Amount)
	for _, owner := range event.AffectedOwners() {
		title, msg := successMessage(event, owner, amount)
		if _, err := u.Notify(ctx, owner, title, msg, entities.SeveritySuccess); err != nil {
			return err
		}
	}
	return nil
}

func failureTitle(op entities.LedgerOperation) string {
	switch op {
	case entities.OperationDeposit:
		return "Deposit failed"
	case entities.OperationWithdraw:
		return "Withdrawal failed"
	default:
		return "Transfer failed"
	}
}

func successMessage(event *entities.LedgerEvent, owner uuid.UUID, amount string) (string, string) {
	switch event.Operation {
	case entities.OperationDeposit:
		return "Deposit successful", "Account " + event.AccountNumber + " was credited " + amount
	case entities.OperationWithdraw:
		return "Withdrawal successful", "Account " + event.AccountNumber + " was debited " + amount
	}

	if event.DebitedOwner != nil && *event.DebitedOwner == owner {
		return "Transfer successful", "Sent " + amount + " from " + event.AccountNumber + " to " + event.Counterparty
	}
	return "Incoming transfer", "Account " + event.Counterparty + " received " + amount + " from " + event.AccountNumber
}
