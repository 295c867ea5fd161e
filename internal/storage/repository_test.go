package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return NewRepository(db)
}

func seedAccount(t *testing.T, repo *Repository, username string) *Account {
	t.Helper()
	acc := &Account{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Plan:         "free",
		Active:       true,
		ReferralCode: "REF" + username,
	}
	require.NoError(t, repo.CreateAccount(acc))
	return acc
}

func TestCountAnalysesBetween(t *testing.T) {
	repo := newTestRepo(t)
	acc := seedAccount(t, repo, "trader1")
	other := seedAccount(t, repo, "trader2")

	dayStart := time.Date(2026, 3, 9, 5, 0, 0, 0, time.UTC)
	inWindow := []time.Time{
		dayStart.Add(1 * time.Hour),
		dayStart.Add(12 * time.Hour),
		dayStart.Add(23*time.Hour + 59*time.Minute),
	}
	outOfWindow := []time.Time{
		dayStart.Add(-1 * time.Minute), // previous day
		dayStart.Add(24 * time.Hour),   // exactly the next day start
	}

	for _, ts := range append(inWindow, outOfWindow...) {
		require.NoError(t, repo.CreateAnalysis(&AnalysisRecord{
			AccountID: acc.ID, Asset: "XAUUSD", Mode: "SCALPING",
			Timeframes: "M15/M1", Result: "r", CreatedAt: ts,
		}))
	}
	// Another account's records never count.
	require.NoError(t, repo.CreateAnalysis(&AnalysisRecord{
		AccountID: other.ID, Asset: "XAUUSD", Mode: "SCALPING",
		Timeframes: "M15/M1", Result: "r", CreatedAt: dayStart.Add(time.Hour),
	}))

	count, err := repo.CountAnalysesBetween(acc.ID, dayStart, dayStart.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestRecentAnalysesOrderAndLimit(t *testing.T) {
	repo := newTestRepo(t)
	acc := seedAccount(t, repo, "trader1")

	base := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	assets := []string{"XAUUSD", "BTCUSD", "NAS100"}
	for i, asset := range assets {
		require.NoError(t, repo.CreateAnalysis(&AnalysisRecord{
			AccountID: acc.ID, Asset: asset, Mode: "INTRADAY",
			Timeframes: "H1/M15", Result: "r",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	records, err := repo.RecentAnalyses(acc.ID, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "NAS100", records[0].Asset, "newest first")
	assert.Equal(t, "BTCUSD", records[1].Asset)
}

func TestGetAccountStats(t *testing.T) {
	repo := newTestRepo(t)
	acc := seedAccount(t, repo, "trader1")

	for _, asset := range []string{"XAUUSD", "XAUUSD", "BTCUSD"} {
		require.NoError(t, repo.CreateAnalysis(&AnalysisRecord{
			AccountID: acc.ID, Asset: asset, Mode: "SCALPING",
			Timeframes: "M15/M1", Result: "r",
		}))
	}

	stats, err := repo.GetAccountStats(acc.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalAnalyses)
	assert.Equal(t, "XAUUSD", stats.FavoriteAsset)
}

func TestSetTelegramConfig(t *testing.T) {
	repo := newTestRepo(t)
	acc := seedAccount(t, repo, "trader1")

	require.NoError(t, repo.SetTelegramConfig(acc.ID, "123:token", "987654"))

	got, err := repo.FindAccountByID(acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "123:token", got.TelegramBotToken)
	assert.Equal(t, "987654", got.TelegramChatID)
}
