package storage

import "time"

// Account is a registered user. Referral linkage is a weak self-reference:
// deleting the referrer leaves ReferredBy dangling on purpose.
type Account struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	// Phone is nullable so accounts without one don't collide on the
	// unique index.
	Phone        *string `gorm:"uniqueIndex" json:"phone,omitempty"`
	PasswordHash string  `gorm:"not null" json:"-"`
	FullName     string  `json:"full_name"`

	Plan   string `gorm:"not null;default:'free'" json:"plan"` // free, pro, elite
	Active bool   `gorm:"not null;default:true" json:"active"`
	Admin  bool   `gorm:"not null;default:false" json:"admin"`

	ReferralCode string `gorm:"uniqueIndex" json:"referral_code"`
	ReferredBy   *uint  `json:"referred_by,omitempty"`

	TelegramBotToken string `json:"-"`
	TelegramChatID   string `json:"-"`

	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
}

// AnalysisRecord is the immutable audit row written after every completed
// analysis. It is the sole aggregate behind daily quota counting and the
// history view.
type AnalysisRecord struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	AccountID  uint   `gorm:"index;not null" json:"account_id"`
	Asset      string `gorm:"not null" json:"asset"`
	Mode       string `gorm:"not null" json:"mode"`
	Timeframes string `json:"timeframes"`              // joined labels, e.g. "H1/M15"
	Result     string `gorm:"type:text" json:"result"` // truncated to 1000 chars
}
