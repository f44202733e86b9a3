package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"vnbank.backend/internal/config"
	"vnbank.backend/internal/domain/repositories"
	pgsource "vnbank.backend/internal/infrastructure/datasources/postgres"
	sqlitesource "vnbank.backend/internal/infrastructure/datasources/sqlite"
	"vnbank.backend/internal/infrastructure/memory"
	gormrepos "vnbank.backend/internal/infrastructure/repositories"
	"vnbank.backend/pkg/logger"
	"vnbank.backend/pkg/redis"
)

// storage bundles the repositories selected by configuration
type storage struct {
	uow           repositories.UnitOfWork
	users         repositories.UserRepository
	accounts      repositories.AccountRepository
	ledger        repositories.TransactionRepository
	reminders     repositories.ReminderRepository
	notifications repositories.NotificationRepository
	idempotency   repositories.IdempotencyStore
	close         func() error
}

var (
	openPostgres = func(cfg config.DatabaseConfig) (*gorm.DB, error) {
		sqlDB, err := pgsource.NewConnection(cfg)
		if err != nil {
			return nil, err
		}
		return gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{TranslateError: true})
	}
	openSQLite = sqlitesource.NewConnection
)

func newStorage(cfg *config.Config) (*storage, error) {
	var (
		s   *storage
		err error
	)
	switch cfg.Database.Driver {
	case config.DriverMemory:
		s = newMemoryStorage(cfg)
	case config.DriverSQLite:
		s, err = newGormStorage(cfg, func() (*gorm.DB, error) { return openSQLite(cfg.Database.SQLitePath, cfg.Ledger.LockTimeout) })
	case config.DriverPostgres:
		s, err = newGormStorage(cfg, func() (*gorm.DB, error) { return openPostgres(cfg.Database) })
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Database.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Redis.Enabled {
		if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
			_ = s.close()
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		s.notifications = gormrepos.NewRedisNotificationRepository(redis.GetClient(), cfg.Ledger.NotificationHistory)
		s.idempotency = redis.NewIdempotencyStore(cfg.Ledger.IdempotencyLockTTL, cfg.Ledger.IdempotencyTTL)
		logger.Info(context.Background(), "Redis initialized")
	}

	logger.Info(context.Background(), "Storage ready",
		zap.String("driver", cfg.Database.Driver),
		zap.Bool("redis", cfg.Redis.Enabled),
	)
	return s, nil
}

func newMemoryStorage(cfg *config.Config) *storage {
	store := memory.NewStore()
	return &storage{
		uow:           memory.NewUnitOfWork(store),
		users:         memory.NewUserRepository(),
		accounts:      memory.NewAccountRepository(store),
		ledger:        memory.NewTransactionRepository(store),
		reminders:     memory.NewReminderRepository(),
		notifications: memory.NewNotificationRepository(cfg.Ledger.NotificationHistory),
		idempotency:   memory.NewIdempotencyStore(cfg.Ledger.IdempotencyLockTTL, cfg.Ledger.IdempotencyTTL),
		close:         func() error { return nil },
	}
}

func newGormStorage(cfg *config.Config, open func() (*gorm.DB, error)) (*storage, error) {
	db, err := open()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get generic database object: %w", err)
	}
	if err := gormrepos.AutoMigrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &storage{
		uow:           gormrepos.NewUnitOfWork(db),
		users:         gormrepos.NewUserRepository(db),
		accounts:      gormrepos.NewAccountRepository(db),
		ledger:        gormrepos.NewTransactionRepository(db),
		reminders:     gormrepos.NewReminderRepository(db),
		notifications: gormrepos.NewNotificationRepository(db, cfg.Ledger.NotificationHistory),
		idempotency:   memory.NewIdempotencyStore(cfg.Ledger.IdempotencyLockTTL, cfg.Ledger.IdempotencyTTL),
		close:         sqlDB.Close,
	}, nil
}
