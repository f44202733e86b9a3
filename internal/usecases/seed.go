package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"vnbank.backend/internal/domain/entities"
	domainerrors "vnbank.backend/internal/domain/errors"
	"vnbank.backend/internal/domain/repositories"
	"vnbank.backend/pkg/crypto"
	"vnbank.backend/pkg/logger"
)

// DemoPassword is the password of every seeded user
const DemoPassword = "123456"

// LedgerWriter is the part of the transfer engine used to fund seeded accounts
type LedgerWriter interface {
	Deposit(ctx context.Context, input *entities.DepositInput) (*entities.Transaction, error)
	WithdrawATM(ctx context.Context, input *entities.WithdrawInput) (*entities.Transaction, error)
}

type seedUser struct {
	name       string
	phone      string
	nationalID string
	role       entities.UserRole
	department string
	position   string
}

type seedAccount struct {
	ownerPhone  string
	number      string
	accountType entities.AccountType
	deposits    []entities.DepositInput
	withdrawal  int64
}

var demoUsers = []seedUser{
	{name: "System Admin", phone: "0999999999", nationalID: "000000000001", role: entities.UserRoleAdmin, department: "IT", position: "Administrator"},
	{name: "Tran Thi Giao Dich", phone: "0900000001", nationalID: "000000000002", role: entities.UserRoleStaff, department: "Operations", position: "Teller"},
	{name: "Nguyen Van An", phone: "0900000002", nationalID: "079090000001", role: entities.UserRoleCustomer},
	{name: "Công ty TNHH Minh Phát", phone: "0900000003", nationalID: "0312345678", role: entities.UserRoleCustomer},
}

var demoAccounts = []seedAccount{
	{
		ownerPhone:  "0900000002",
		number:      "19001001",
		accountType: entities.AccountTypePayment,
		deposits: []entities.DepositInput{
			{Amount: 5_000_000, Type: entities.TransactionTypeDeposit, Description: "Opening deposit"},
			{Amount: 200_000, Type: entities.TransactionTypeDepositATM},
		},
		withdrawal: 500_000,
	},
	{
		ownerPhone:  "0900000002",
		number:      "19009999",
		accountType: entities.AccountTypeSavings,
		deposits: []entities.DepositInput{
			{Amount: 20_000_000, Type: entities.TransactionTypeDeposit, Description: "Savings deposit"},
		},
	},
	{
		ownerPhone:  "0900000003",
		number:      "88880001",
		accountType: entities.AccountTypeBusiness,
		deposits: []entities.DepositInput{
			{Amount: 150_000_000, Type: entities.TransactionTypeDeposit, Description: "Capital contribution"},
		},
	},
}

// DemoSeeder loads the demo users, accounts and reminders into empty storage
type DemoSeeder struct {
	userRepo     repositories.UserRepository
	accountRepo  repositories.AccountRepository
	reminderRepo repositories.ReminderRepository
	ledger       LedgerWriter
	now          func() time.Time
}

// NewDemoSeeder creates a new demo seeder
func NewDemoSeeder(
	userRepo repositories.UserRepository,
	accountRepo repositories.AccountRepository,
	reminderRepo repositories.ReminderRepository,
	ledger LedgerWriter,
) *DemoSeeder {
	return &DemoSeeder{
		userRepo:     userRepo,
		accountRepo:  accountRepo,
		reminderRepo: reminderRepo,
		ledger:       ledger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Seed populates storage unless the admin user already exists. Balances are
// funded through the ledger so history and balances agree.
func (s *DemoSeeder) Seed(ctx context.Context) (bool, error) {
	admin := demoUsers[0]
	_, err := s.userRepo.GetByPhone(ctx, admin.phone)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return false, err
	}

	passwordHash, err := crypto.HashPassword(DemoPassword)
	if err != nil {
		return false, err
	}

	users := make(map[string]*entities.User, len(demoUsers))
	for _, su := range demoUsers {
		user := &entities.User{
			Name:         su.name,
			Phone:        su.phone,
			PasswordHash: passwordHash,
			NationalID:   su.nationalID,
			Role:         su.role,
		}
		if su.department != "" {
			user.Department = null.StringFrom(su.department)
			user.Position = null.StringFrom(su.position)
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return false, err
		}
		users[su.phone] = user
	}
	adminID := users[admin.phone].ID

	for _, sa := range demoAccounts {
		acct := &entities.Account{
			UserID:        users[sa.ownerPhone].ID,
			AccountNumber: sa.number,
			IsActive:      true,
			Type:          sa.accountType,
		}
		if err := s.accountRepo.Create(ctx, acct); err != nil {
			return false, err
		}
		for _, dep := range sa.deposits {
			dep.InitiatorID = adminID
			dep.AccountID = acct.ID
			if _, err := s.ledger.Deposit(ctx, &dep); err != nil {
				return false, err
			}
		}
		if sa.withdrawal > 0 {
			_, err := s.ledger.WithdrawATM(ctx, &entities.WithdrawInput{
				InitiatorID: adminID,
				AccountID:   acct.ID,
				Amount:      sa.withdrawal,
			})
			if err != nil {
				return false, err
			}
		}
	}

	customer := users["0900000002"].ID
	reminders := []*entities.Reminder{
		{UserID: customer, ToAccountNumber: "88880001", Amount: 1_500_000, Frequency: entities.FrequencyMonthly, NextDueAt: s.now().AddDate(0, 0, 5), Description: "Electricity bill"},
		{UserID: customer, ToAccountNumber: "19009999", Amount: 500_000, Frequency: entities.FrequencyWeekly, NextDueAt: s.now().AddDate(0, 0, 2), Description: "Weekly savings"},
	}
	for _, r := range reminders {
		if err := s.reminderRepo.Create(ctx, r); err != nil {
			return false, err
		}
	}

	logger.Info(ctx, "Demo data seeded",
		zap.Int("users", len(demoUsers)),
		zap.Int("accounts", len(demoAccounts)),
		zap.Int("reminders", len(reminders)),
	)
	return true, nil
}
