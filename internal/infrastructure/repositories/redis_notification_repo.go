package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"vnbank.backend/internal/domain/entities"
	domainerrors "vnbank.backend/internal/domain/errors"
	"vnbank.backend/pkg/utils"
)

const redisWatchRetries = 5

// RedisNotificationRepository keeps each user's notifications in a capped Redis list
type RedisNotificationRepository struct {
	client *goredis.Client
	limit  int
}

// NewRedisNotificationRepository creates a Redis backed notification repository
func NewRedisNotificationRepository(client *goredis.Client, limit int) *RedisNotificationRepository {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	return &RedisNotificationRepository{client: client, limit: limit}
}

func notificationKey(userID uuid.UUID) string {
	return "notifications:" + userID.String()
}

// Add prepends n and trims the list to the limit
func (r *RedisNotificationRepository) Add(ctx context.Context, n *entities.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = utils.GenerateUUIDv7()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}

	key := notificationKey(n.UserID)
	_, err = r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.LPush(ctx, key, payload)
		pipe.LTrim(ctx, key, 0, int64(r.limit-1))
		return nil
	})
	return err
}

// ListByUserID lists the user's notifications, newest first
func (r *RedisNotificationRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.Notification, error) {
	raw, err := r.client.LRange(ctx, notificationKey(userID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	return decodeNotifications(raw)
}

// MarkRead marks one notification as read
func (r *RedisNotificationRepository) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	found := false
	err := r.update(ctx, userID, func(list []*entities.Notification) []int {
		for i, n := range list {
			if n.ID == id {
				found = true
				if n.IsRead {
					return nil
				}
				n.IsRead = true
				return []int{i}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return domainerrors.ErrNotFound
	}
	return nil
}

// MarkAllRead marks every notification of the user as read
func (r *RedisNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return r.update(ctx, userID, func(list []*entities.Notification) []int {
		var changed []int
		for i, n := range list {
			if !n.IsRead {
				n.IsRead = true
				changed = append(changed, i)
			}
		}
		return changed
	})
}

// update runs mutate under WATCH and writes back the changed indexes.
// A concurrent Add moves indexes, so the transaction is retried.
func (r *RedisNotificationRepository) update(ctx context.Context, userID uuid.UUID, mutate func([]*entities.Notification) []int) error {
	key := notificationKey(userID)
	txf := func(tx *goredis.Tx) error {
		raw, err := tx.LRange(ctx, key, 0, -1).Result()
		if err != nil {
			return err
		}
		list, err := decodeNotifications(raw)
		if err != nil {
			return err
		}
		changed := mutate(list)
		if len(changed) == 0 {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			for _, i := range changed {
				payload, err := json.Marshal(list[i])
				if err != nil {
					return err
				}
				pipe.LSet(ctx, key, int64(i), payload)
			}
			return nil
		})
		return err
	}

	for attempt := 0; attempt < redisWatchRetries; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, goredis.TxFailedErr) {
			continue
		}
		return err
	}
	return domainerrors.ErrBusy
}

func decodeNotifications(raw []string) ([]*entities.Notification, error) {
	list := make([]*entities.Notification, 0, len(raw))
	for _, item := range raw {
		var n entities.Notification
		if err := json.Unmarshal([]byte(item), &n); err != nil {
			return nil, err
		}
		list = append(list, &n)
	}
	return list, nil
}
