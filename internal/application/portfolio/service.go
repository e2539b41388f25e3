package portfolio

import (
	"context"
	"errors"

	"papertrade-backend/internal/application/quotes"
	"papertrade-backend/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("User not found")

	// ErrCorruptLedger signals a holding with no buy history behind it; the
	// cost basis would divide by zero. Must never occur in correct operation.
	ErrCorruptLedger = errors.New("Ledger state is corrupt")
)

// Service computes live portfolio valuations from the holdings table, the
// transaction log and the price oracle. Read-only.
type Service struct {
	DB     *gorm.DB
	Quotes quotes.Client
}

// Position is one valued holding.
type Position struct {
	Name          string          `json:"name"`
	Symbol        string          `json:"symbol"`
	Shares        int64           `json:"shares"`
	Price         decimal.Decimal `json:"price"`
	Value         decimal.Decimal `json:"value"`
	Invested      decimal.Decimal `json:"invested"`
	NetProfit     decimal.Decimal `json:"net_profit"`
	PercentProfit decimal.Decimal `json:"percent_profit"`
}

// Portfolio is the full valuation: positions plus totals.
type Portfolio struct {
	Positions       []Position      `json:"positions"`
	TotalStockValue decimal.Decimal `json:"total_stock_value"`
	Cash            decimal.Decimal `json:"cash"`
	Total           decimal.Decimal `json:"total"`
}

type buyAggregate struct {
	cost   decimal.Decimal
	shares int64
}

// Portfolio values every active holding at its current quoted price. The
// cost basis is cumulative over all historical buys for the symbol, never
// reduced by sells. If the oracle cannot resolve a held symbol the whole
// read fails; there is no per-symbol fallback.
func (s *Service) Portfolio(ctx context.Context, userID uint) (*Portfolio, error) {
	var user domain.User
	if err := s.DB.WithContext(ctx).First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var holdings []domain.Holding
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("symbol").
		Find(&holdings).Error; err != nil {
		return nil, err
	}

	// Aggregate buy cost and buy shares per symbol in Go so the arithmetic
	// stays decimal end to end (SQL SUM over numeric coerces to float on
	// some drivers).
	var buys []domain.Transaction
	if err := s.DB.WithContext(ctx).
		Where("user_id = ? AND type = ?", userID, domain.TypeBuy).
		Find(&buys).Error; err != nil {
		return nil, err
	}
	aggregates := make(map[string]buyAggregate, len(buys))
	for _, b := range buys {
		agg := aggregates[b.Symbol]
		agg.cost = agg.cost.Add(b.Price.Mul(decimal.NewFromInt(b.Shares)))
		agg.shares += b.Shares
		aggregates[b.Symbol] = agg
	}

	result := &Portfolio{
		Positions: make([]Position, 0, len(holdings)),
		Cash:      user.Cash,
	}

	for _, h := range holdings {
		quote, err := s.Quotes.Lookup(ctx, h.Symbol)
		if err != nil {
			return nil, err
		}

		shares := decimal.NewFromInt(h.Shares)
		value := quote.Price.Mul(shares)

		agg, ok := aggregates[h.Symbol]
		if !ok || agg.shares == 0 {
			return nil, ErrCorruptLedger
		}
		averageCost := agg.cost.Div(decimal.NewFromInt(agg.shares))
		invested := averageCost.Mul(shares)
		netProfit := value.Sub(invested)
		percentProfit := netProfit.Div(invested).Mul(decimal.NewFromInt(100))

		result.Positions = append(result.Positions, Position{
			Name:          h.Name,
			Symbol:        h.Symbol,
			Shares:        h.Shares,
			Price:         quote.Price,
			Value:         value,
			Invested:      invested,
			NetProfit:     netProfit,
			PercentProfit: percentProfit,
		})
		result.TotalStockValue = result.TotalStockValue.Add(value)
	}

	result.Total = result.TotalStockValue.Add(user.Cash)
	return result, nil
}

// History returns the user's full transaction log in settlement order.
func (s *Service) History(ctx context.Context, userID uint) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("orderid").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}
