package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"vnbank.backend/internal/domain/entities"
	"vnbank.backend/internal/infrastructure/locking"
	"vnbank.backend/internal/infrastructure/memory"
	"vnbank.backend/internal/interfaces/http/handlers"
	"vnbank.backend/internal/interfaces/http/middleware"
	"vnbank.backend/internal/usecases"
	"vnbank.backend/pkg/crypto"
	"vnbank.backend/pkg/jwt"
)

const (
	adminPhone    = "0999999999"
	staffPhone    = "0900000001"
	customerPhone = "0900000002"
	companyPhone  = "0900000003"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	crypto.SetCost(bcrypt.MinCost)
	os.Exit(m.Run())
}

// apiFixture serves the API over the in-memory backend loaded with demo data
type apiFixture struct {
	router        *gin.Engine
	users         *memory.UserRepository
	accounts      *memory.AccountRepository
	notifications *memory.NotificationRepository
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	store := memory.NewStore()
	uow := memory.NewUnitOfWork(store)
	users := memory.NewUserRepository()
	accounts := memory.NewAccountRepository(store)
	ledger := memory.NewTransactionRepository(store)
	reminders := memory.NewReminderRepository()
	notifications := memory.NewNotificationRepository(50)
	jwtService := jwt.NewJWTService("handler-test-secret", 15*time.Minute, time.Hour)

	notificationUC := usecases.NewNotificationUsecase(notifications)
	locker := locking.NewAccountLocker(time.Second)
	transferUC := usecases.NewTransferUsecase(
		uow,
		accounts,
		ledger,
		locker,
		memory.NewIdempotencyStore(time.Minute, time.Hour),
		notificationUC,
	)
	accountUC := usecases.NewAccountUsecase(accounts, users, locker)
	authUC := usecases.NewAuthUsecase(uow, users, accounts, jwtService)
	userUC := usecases.NewUserUsecase(users)
	reminderUC := usecases.NewReminderUsecase(reminders, accounts, transferUC, notificationUC)

	seeded, err := usecases.NewDemoSeeder(users, accounts, reminders, transferUC).Seed(context.Background())
	require.NoError(t, err)
	require.True(t, seeded)

	authH := handlers.NewAuthHandler(authUC, accountUC)
	accountH := handlers.NewAccountHandler(accountUC, transferUC)
	transferH := handlers.NewTransferHandler(transferUC, accountUC)
	reminderH := handlers.NewReminderHandler(reminderUC)
	notificationH := handlers.NewNotificationHandler(notificationUC)
	userH := handlers.NewUserHandler(userUC)

	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	v1 := r.Group("/api/v1")
	v1.POST("/auth/register", authH.Register)
	v1.POST("/auth/login", authH.Login)
	v1.POST("/auth/refresh", authH.RefreshToken)

	api := v1.Group("")
	api.Use(middleware.AuthMiddleware(jwtService))
	api.GET("/auth/me", authH.Me)
	api.GET("/accounts", accountH.ListMine)
	api.GET("/accounts/:id", accountH.Get)
	api.GET("/accounts/:id/history", accountH.History)
	api.POST("/accounts/:id/deposit", accountH.Deposit)
	api.POST("/accounts/:id/withdraw", accountH.Withdraw)
	api.POST("/transfers", middleware.IdempotencyKeyMiddleware(), transferH.Transfer)
	api.GET("/reminders", reminderH.List)
	api.POST("/reminders", reminderH.Create)
	api.DELETE("/reminders/:id", reminderH.Delete)
	api.GET("/reminders/all", middleware.RequireAdmin(), reminderH.ListAll)
	api.GET("/notifications", notificationH.List)
	api.POST("/notifications/:id/read", notificationH.MarkRead)
	api.POST("/notifications/read-all", notificationH.MarkAllRead)

	staff := api.Group("")
	staff.Use(middleware.RequireStaff())
	staff.GET("/users", userH.List)
	staff.POST("/users", userH.Create)
	staff.GET("/users/:id", userH.Get)
	staff.PUT("/users/:id", userH.Update)
	staff.DELETE("/users/:id", userH.Delete)
	staff.GET("/users/:id/accounts", accountH.ListForUser)
	staff.POST("/users/:id/accounts", accountH.OpenForUser)
	staff.PUT("/accounts/:id/status", accountH.SetStatus)

	return &apiFixture{
		router:        r,
		users:         users,
		accounts:      accounts,
		notifications: notifications,
	}
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *apiFixture) login(t *testing.T, phone string) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"phone": phone, "password": usecases.DemoPassword})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp entities.AuthResponse
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func (f *apiFixture) account(t *testing.T, number string) *entities.Account {
	t.Helper()
	acct, err := f.accounts.GetByNumber(context.Background(), number)
	require.NoError(t, err)
	return acct
}

func (f *apiFixture) user(t *testing.T, phone string) *entities.User {
	t.Helper()
	u, err := f.users.GetByPhone(context.Background(), phone)
	require.NoError(t, err)
	return u
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

type errorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

func requireError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	var body errorBody
	decode(t, rec, &body)
	require.Equal(t, code, body.Code)
	require.NotEmpty(t, body.Message)
}
