package entities

import (
	"time"

	"github.com/google/uuid"
)

// ReminderFrequency is the recurrence period of a reminder
type ReminderFrequency string

const (
	FrequencyDaily   ReminderFrequency = "DAILY"
	FrequencyWeekly  ReminderFrequency = "WEEKLY"
	FrequencyMonthly ReminderFrequency = "MONTHLY"
)

// Valid reports whether f is a known frequency
func (f ReminderFrequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// Next returns the due time one period after from.
// MONTHLY keeps the day of month, clamped to the last day of the target month.
func (f ReminderFrequency) Next(from time.Time) time.Time {
	switch f {
	case FrequencyDaily:
		return from.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return from.AddDate(0, 0, 7)
	case FrequencyMonthly:
		y, m, d := from.Date()
		lastDay := time.Date(y, m+2, 0, 0, 0, 0, 0, from.Location()).Day()
		if d > lastDay {
			d = lastDay
		}
		return time.Date(y, m+1, d, from.Hour(), from.Minute(), from.Second(), from.Nanosecond(), from.Location())
	}
	return from
}

// Reminder is a recurring payment owned by one user
type Reminder struct {
	ID              uuid.UUID         `json:"id"`
	UserID          uuid.UUID         `json:"userId"`
	ToAccountNumber string            `json:"toAccountNumber"`
	Amount          int64             `json:"amount"`
	Frequency       ReminderFrequency `json:"frequency"`
	NextDueAt       time.Time         `json:"nextDueAt"`
	Description     string            `json:"description"`
	CreatedAt       time.Time         `json:"createdAt"`
}

// IsDue reports whether the reminder should fire at now
func (r *Reminder) IsDue(now time.Time) bool {
	return !r.NextDueAt.After(now)
}

// CreateReminderInput represents input for creating a reminder
type CreateReminderInput struct {
	ToAccountNumber string            `json:"toAccountNumber" binding:"required"`
	Amount          int64             `json:"amount"`
	Frequency       ReminderFrequency `json:"frequency" binding:"required"`
	NextDueAt       time.Time         `json:"nextDueAt" binding:"required"`
	Description     string            `json:"description"`
}

// ReminderRunSummary reports the outcome of one scheduler tick
type ReminderRunSummary struct {
	Due    int `json:"due"`
	Fired  int `json:"fired"`
	Failed int `json:"failed"`
}
