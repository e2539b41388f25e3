package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCash is the opening balance credited to every new account.
var DefaultCash = decimal.RequireFromString("10000.00")

// User matches the users table (id, username, hash, cash NUMERIC DEFAULT 10000.00).
// Cash is only ever mutated by the settlement engine; the hash only by the
// password-change flow.
type User struct {
	ID           uint            `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Username     string          `gorm:"column:username;not null;uniqueIndex" json:"username"`
	PasswordHash string          `gorm:"column:hash;not null" json:"-"`
	Cash         decimal.Decimal `gorm:"column:cash;type:numeric;not null" json:"cash"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
