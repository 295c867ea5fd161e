package storage

import (
	"time"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Accounts

func (r *Repository) CreateAccount(acc *Account) error {
	return r.db.Create(acc).Error
}

func (r *Repository) FindAccountByUsername(username string) (*Account, error) {
	var acc Account
	err := r.db.Where("username = ?", username).First(&acc).Error
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (r *Repository) FindAccountByID(id uint) (*Account, error) {
	var acc Account
	err := r.db.First(&acc, id).Error
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (r *Repository) FindAccountByEmail(email string) (*Account, error) {
	var acc Account
	err := r.db.Where("email = ?", email).First(&acc).Error
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (r *Repository) FindAccountByReferralCode(code string) (*Account, error) {
	var acc Account
	err := r.db.Where("referral_code = ?", code).First(&acc).Error
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (r *Repository) UsernameExists(username string) (bool, error) {
	return r.exists("username = ?", username)
}

func (r *Repository) EmailExists(email string) (bool, error) {
	return r.exists("email = ?", email)
}

func (r *Repository) PhoneExists(phone string) (bool, error) {
	return r.exists("phone = ?", phone)
}

func (r *Repository) exists(query string, arg string) (bool, error) {
	var count int64
	err := r.db.Model(&Account{}).Where(query, arg).Count(&count).Error
	return count > 0, err
}

func (r *Repository) TouchLastSeen(accountID uint) error {
	now := time.Now()
	return r.db.Model(&Account{}).Where("id = ?", accountID).
		Update("last_seen_at", now).Error
}

func (r *Repository) UpdatePlan(accountID uint, plan string) error {
	return r.db.Model(&Account{}).Where("id = ?", accountID).
		Update("plan", plan).Error
}

func (r *Repository) SetActive(accountID uint, active bool) error {
	return r.db.Model(&Account{}).Where("id = ?", accountID).
		Update("active", active).Error
}

func (r *Repository) PromoteAdmin(accountID uint) error {
	return r.db.Model(&Account{}).Where("id = ?", accountID).
		Updates(map[string]any{"admin": true, "plan": "elite"}).Error
}

func (r *Repository) SetTelegramConfig(accountID uint, botToken, chatID string) error {
	return r.db.Model(&Account{}).Where("id = ?", accountID).
		Updates(map[string]any{
			"telegram_bot_token": botToken,
			"telegram_chat_id":   chatID,
		}).Error
}

// DeleteAccount removes the account and all its analysis records.
func (r *Repository) DeleteAccount(accountID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", accountID).Delete(&AnalysisRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Account{}, accountID).Error
	})
}

func (r *Repository) AdminExists() (bool, error) {
	var count int64
	err := r.db.Model(&Account{}).Where("admin = ?", true).Count(&count).Error
	return count > 0, err
}

// Analysis records

func (r *Repository) CreateAnalysis(rec *AnalysisRecord) error {
	return r.db.Create(rec).Error
}

// CountAnalysesBetween counts the account's records created in [from, to).
// Satisfies quota.AnalysisCounter.
func (r *Repository) CountAnalysesBetween(accountID uint, from, to time.Time) (int, error) {
	var count int64
	err := r.db.Model(&AnalysisRecord{}).
		Where("account_id = ? AND created_at >= ? AND created_at < ?", accountID, from, to).
		Count(&count).Error
	return int(count), err
}

func (r *Repository) RecentAnalyses(accountID uint, limit int) ([]AnalysisRecord, error) {
	var records []AnalysisRecord
	err := r.db.Where("account_id = ?", accountID).
		Order("created_at DESC").Limit(limit).Find(&records).Error
	return records, err
}

// AccountStats summarizes an account's analysis history.
type AccountStats struct {
	TotalAnalyses int64  `json:"total_analyses"`
	FavoriteAsset string `json:"favorite_asset"`
}

func (r *Repository) GetAccountStats(accountID uint) (AccountStats, error) {
	var stats AccountStats
	err := r.db.Model(&AnalysisRecord{}).
		Where("account_id = ?", accountID).Count(&stats.TotalAnalyses).Error
	if err != nil {
		return stats, err
	}

	var row struct{ Asset string }
	err = r.db.Model(&AnalysisRecord{}).
		Select("asset").Where("account_id = ?", accountID).
		Group("asset").Order("COUNT(*) DESC").Limit(1).Scan(&row).Error
	if err != nil {
		return stats, err
	}
	stats.FavoriteAsset = row.Asset
	return stats, nil
}
