package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeBuy  = "buy"
	TypeSell = "sell"
)

// Transaction is one buy/sell event. Rows are append-only: never updated,
// never deleted. The orderid sequence is the system-wide settlement order
// and the transaction log is the sole source for cost-basis computation.
type Transaction struct {
	OrderID uint            `gorm:"column:orderid;primaryKey;autoIncrement" json:"orderid"`
	UserID  uint            `gorm:"column:user_id;not null;index" json:"user_id"`
	Name    string          `gorm:"column:name;not null" json:"name"`
	Symbol  string          `gorm:"column:symbol;not null;index" json:"symbol"`
	Type    string          `gorm:"column:type;type:varchar(4);not null" json:"type"`
	Price   decimal.Decimal `gorm:"column:price;type:numeric;not null" json:"price"`
	Shares  int64           `gorm:"column:shares;not null" json:"shares"`
	Date    time.Time       `gorm:"column:date;not null" json:"date"`
}

func (Transaction) TableName() string {
	return "transactions"
}
