package account

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rcastillo/chartsight/internal/config"
	"github.com/rcastillo/chartsight/internal/storage"
)

func newTestService(t *testing.T) (*Service, *storage.Repository) {
	t.Helper()
	db, err := storage.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	repo := storage.NewRepository(db)
	return NewService(repo, zap.NewNop()), repo
}

func register(t *testing.T, s *Service, username, email string) *storage.Account {
	t.Helper()
	acc, err := s.Register(RegisterInput{
		Username: username,
		Email:    email,
		Password: "secret123",
	})
	require.NoError(t, err)
	return acc
}

func TestRegister(t *testing.T) {
	s, _ := newTestService(t)

	acc, err := s.Register(RegisterInput{
		Username: "trader1",
		Email:    "trader1@example.com",
		Phone:    "+51987654321",
		Password: "secret123",
		FullName: "Trader One",
	})
	require.NoError(t, err)

	assert.Equal(t, "free", acc.Plan)
	assert.True(t, acc.Active)
	assert.False(t, acc.Admin)
	assert.Len(t, acc.ReferralCode, 10)
	assert.NotEqual(t, "secret123", acc.PasswordHash)
	assert.Nil(t, acc.ReferredBy)
}

func TestRegisterValidation(t *testing.T) {
	s, _ := newTestService(t)
	register(t, s, "trader1", "trader1@example.com")

	testCases := []struct {
		name    string
		input   RegisterInput
		wantErr error
	}{
		{"duplicate username", RegisterInput{Username: "trader1", Email: "other@example.com", Password: "secret123"}, ErrUsernameTaken},
		{"duplicate email", RegisterInput{Username: "trader2", Email: "trader1@example.com", Password: "secret123"}, ErrEmailTaken},
		{"short username", RegisterInput{Username: "ab", Email: "ab@example.com", Password: "secret123"}, ErrUsernameTooShort},
		{"short password", RegisterInput{Username: "trader3", Email: "t3@example.com", Password: "12345"}, ErrPasswordTooShort},
		{"unknown referral code", RegisterInput{Username: "trader4", Email: "t4@example.com", Password: "secret123", ReferralCode: "NOSUCHCODE"}, ErrBadReferralCode},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Register(tc.input)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestRegisterWithReferral(t *testing.T) {
	s, _ := newTestService(t)
	referrer := register(t, s, "referrer", "referrer@example.com")

	acc, err := s.Register(RegisterInput{
		Username:     "referred",
		Email:        "referred@example.com",
		Password:     "secret123",
		ReferralCode: referrer.ReferralCode,
	})
	require.NoError(t, err)
	require.NotNil(t, acc.ReferredBy)
	assert.Equal(t, referrer.ID, *acc.ReferredBy)
}

func TestLogin(t *testing.T) {
	s, repo := newTestService(t)
	acc := register(t, s, "trader1", "trader1@example.com")

	got, err := s.Login("trader1", "secret123")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, got.ID)

	_, err = s.Login("trader1", "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Login("nobody", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, repo.SetActive(acc.ID, false))
	_, err = s.Login("trader1", "secret123")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestEnsureAdmin(t *testing.T) {
	s, repo := newTestService(t)
	register(t, s, "veteran", "veteran@example.com")

	err := s.EnsureAdmin(config.Admin{
		Username:  "admin",
		Email:     "admin@example.com",
		Password:  "adminsecret",
		Usernames: []string{"veteran", "ghost"},
	})
	require.NoError(t, err)

	admin, err := repo.FindAccountByUsername("admin")
	require.NoError(t, err)
	assert.True(t, admin.Admin)
	assert.Equal(t, "elite", admin.Plan)

	promoted, err := repo.FindAccountByUsername("veteran")
	require.NoError(t, err)
	assert.True(t, promoted.Admin)
	assert.Equal(t, "elite", promoted.Plan)

	// Second run must not create a duplicate admin.
	require.NoError(t, s.EnsureAdmin(config.Admin{Username: "admin", Email: "admin@example.com", Password: "adminsecret"}))
}

func TestChangePlan(t *testing.T) {
	s, repo := newTestService(t)
	acc := register(t, s, "trader1", "trader1@example.com")

	require.NoError(t, s.ChangePlan(acc.ID, "pro"))
	got, err := repo.FindAccountByID(acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "pro", got.Plan)

	assert.Error(t, s.ChangePlan(acc.ID, "platinum"))
}

func TestDeleteCascades(t *testing.T) {
	s, repo := newTestService(t)
	acc := register(t, s, "trader1", "trader1@example.com")

	require.NoError(t, repo.CreateAnalysis(&storage.AnalysisRecord{
		AccountID: acc.ID, Asset: "XAUUSD", Mode: "SCALPING", Timeframes: "M15/M1", Result: "text",
	}))

	require.NoError(t, s.Delete(acc.ID))

	_, err := repo.FindAccountByID(acc.ID)
	assert.Error(t, err)

	records, err := repo.RecentAnalyses(acc.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestGenerateReferralCode(t *testing.T) {
	a := GenerateReferralCode("trader1")
	b := GenerateReferralCode("trader1")

	assert.Len(t, a, 10)
	assert.Equal(t, a, string([]rune(a)), "code is plain ASCII")
	assert.NotEqual(t, a, b, "codes include a time component")
}
