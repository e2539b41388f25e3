package domain

// Holding is the materialized per-user per-symbol share count (the wallet
// table). It always equals sum(buy shares) - sum(sell shares) for its
// (user_id, symbol) pair. A holding that reaches zero shares is deleted in
// the same settlement transaction; shares never go negative.
type Holding struct {
	UserID uint   `gorm:"column:user_id;primaryKey;autoIncrement:false" json:"user_id"`
	Symbol string `gorm:"column:symbol;primaryKey" json:"symbol"`
	Name   string `gorm:"column:name;not null" json:"name"`
	Shares int64  `gorm:"column:shares;not null" json:"shares"`
}

func (Holding) TableName() string {
	return "wallet"
}
