package usecases_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"vnbank.backend/internal/usecases"
	"vnbank.backend/pkg/crypto"
)

func TestDemoSeeder_SeedsOnce(t *testing.T) {
	f := newLedgerFixture(t)
	seeder := usecases.NewDemoSeeder(f.users, f.accounts, f.reminders, f.engine)
	ctx := context.Background()

	seeded, err := seeder.Seed(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)

	payment, err := f.accounts.GetByNumber(ctx, "19001001")
	require.NoError(t, err)
	assert.Equal(t, int64(4_700_000), payment.Balance)

	business, err := f.accounts.GetByNumber(ctx, "88880001")
	require.NoError(t, err)
	assert.Equal(t, int64(150_000_000), business.Balance)

	assert.Equal(t, int64(5), f.ledgerSize(t))

	legs, err := f.engine.History(ctx, payment.ID)
	require.NoError(t, err)
	var sum int64
	for _, l := range legs {
		sum += l.SignedAmount()
	}
	assert.Equal(t, payment.Balance, sum)

	admin, err := f.users.GetByPhone(ctx, "0999999999")
	require.NoError(t, err)
	assert.True(t, crypto.CheckPassword(usecases.DemoPassword, admin.PasswordHash))

	reminders, err := f.reminders.List(ctx)
	require.NoError(t, err)
	assert.Len(t, reminders, 2)

	seeded, err = seeder.Seed(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)
	assert.Equal(t, int64(5), f.ledgerSize(t))
}
