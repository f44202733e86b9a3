// Package events forwards ledger outcomes to the message broker.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"vnbank.backend/internal/domain/entities"
	domainerrors "vnbank.backend/internal/domain/errors"
	"vnbank.backend/pkg/rabbitmq"
)

// LedgerEventMessage is the wire form of a ledger event
type LedgerEventMessage struct {
	Operation     string     `json:"operation"`
	Outcome       string     `json:"outcome"`
	InitiatorID   uuid.UUID  `json:"initiatorId"`
	Amount        int64      `json:"amount"`
	AccountNumber string     `json:"accountNumber,omitempty"`
	Counterparty  string     `json:"counterparty,omitempty"`
	TransactionID *uuid.UUID `json:"transactionId,omitempty"`
	Seq           int64      `json:"seq,omitempty"`
	ErrorCode     string     `json:"errorCode,omitempty"`
	ErrorMessage  string     `json:"errorMessage,omitempty"`
	OccurredAt    time.Time  `json:"occurredAt"`
}

// LedgerEventPublisher publishes every ledger event to a topic exchange
type LedgerEventPublisher struct {
	publisher rabbitmq.Publisher
	exchange  string
}

// NewLedgerEventPublisher creates a publisher writing to exchange
func NewLedgerEventPublisher(publisher rabbitmq.Publisher, exchange string) *LedgerEventPublisher {
	return &LedgerEventPublisher{publisher: publisher, exchange: exchange}
}

// RoutingKey returns ledger.<operation>.<succeeded|rejected>
func RoutingKey(event *entities.LedgerEvent) string {
	return "ledger." + string(event.Operation) + "." + outcome(event)
}

func outcome(event *entities.LedgerEvent) string {
	if event.Succeeded() {
		return "succeeded"
	}
	return "rejected"
}

// HandleLedgerEvent publishes event
func (p *LedgerEventPublisher) HandleLedgerEvent(ctx context.Context, event *entities.LedgerEvent) error {
	return p.publisher.Publish(ctx, p.exchange, RoutingKey(event), toMessage(event))
}

func toMessage(event *entities.LedgerEvent) LedgerEventMessage {
	msg := LedgerEventMessage{
		Operation:     string(event.Operation),
		Outcome:       outcome(event),
		InitiatorID:   event.InitiatorID,
		Amount:        event.Amount,
		AccountNumber: event.AccountNumber,
		Counterparty:  event.Counterparty,
		OccurredAt:    event.OccurredAt,
	}
	if event.Transaction != nil {
		id := event.Transaction.ID
		msg.TransactionID = &id
		msg.Seq = event.Transaction.Seq
	}
	if event.Err != nil {
		appErr := domainerrors.FromError(event.Err)
		msg.ErrorCode = appErr.Code
		msg.ErrorMessage = appErr.Message
	}
	return msg
}
