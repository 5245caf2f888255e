package model

import "time"

// AccountModel mirrors the 'accounts' table. PostgreSQL assigns IDs from a BIGSERIAL sequence.
// It is an exported type so it can be used by the GORM Gen tool from other packages.
type AccountModel struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	FirstName    string `gorm:"type:varchar(100);not null"`
	LastName     string `gorm:"type:varchar(100);not null"`
	Email        string `gorm:"type:varchar(255);uniqueIndex:accounts_email_key;not null"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	LoggedIn     bool   `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "accounts"
}
