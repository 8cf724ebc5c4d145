package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a user record in the database.
type User struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username        string    `gorm:"uniqueIndex;not null;size:32"`
	Email           string    `gorm:"uniqueIndex;not null;size:128"`
	Password        string    `gorm:"not null"`
	DraftsAccountID uuid.UUID `gorm:"type:uuid"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Account represents an account record. Kind is "regular" or "drafts".
type Account struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID `gorm:"type:uuid;index;not null"`
	Name             string    `gorm:"size:32;not null"`
	Kind             string    `gorm:"size:16;not null"`
	TotalBalance     int64     `gorm:"not null"`
	AvailableBalance int64     `gorm:"not null"`
	StartOfMonth     int       `gorm:"not null"`
	Archived         bool      `gorm:"not null"`
	Version          int64     `gorm:"not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Goal represents a savings goal record attached to one account.
type Goal struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	AccountID     uuid.UUID `gorm:"type:uuid;index;not null"`
	Name          string    `gorm:"size:32;not null"`
	Description   string    `gorm:"size:1024"`
	GoalAmount    int64     `gorm:"not null"`
	CurrentAmount int64     `gorm:"not null"`
	Complete      bool      `gorm:"not null"`
	Version       int64     `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Entry stores both incomes and expenses, told apart by Kind.
type Entry struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Kind        string    `gorm:"size:16;not null;index:idx_entries_account,priority:2"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null"`
	AccountID   uuid.UUID `gorm:"type:uuid;not null;index:idx_entries_account,priority:1"`
	Category1   string    `gorm:"size:64;not null"`
	Category2   string    `gorm:"size:64"`
	Description string    `gorm:"size:32"`
	Date        time.Time `gorm:"not null;index:idx_entries_account,priority:3"`
	Amount      int64     `gorm:"not null"`
	Version     int64     `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// WhitelistToken is a session token that has been issued and not yet revoked.
type WhitelistToken struct {
	Token    string    `gorm:"primaryKey"`
	UserID   uuid.UUID `gorm:"type:uuid;index;not null"`
	IssuedAt time.Time `gorm:"index;not null"`
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Account{}, &Goal{}, &Entry{}, &WhitelistToken{})
}
