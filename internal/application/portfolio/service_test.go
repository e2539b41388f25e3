package portfolio

import (
	"context"
	"testing"
	"time"

	"papertrade-backend/internal/application/quotes"
	"papertrade-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeOracle struct {
	prices map[string]quotes.Quote
}

func (f *fakeOracle) Lookup(ctx context.Context, symbol string) (*quotes.Quote, error) {
	q, ok := f.prices[symbol]
	if !ok {
		return nil, quotes.ErrUnavailable
	}
	return &q, nil
}

func (f *fakeOracle) Search(ctx context.Context, query string) ([]quotes.SearchResult, error) {
	return nil, quotes.ErrUnavailable
}

func setupPortfolio(t *testing.T) (*Service, *fakeOracle, *gorm.DB, *domain.User) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Transaction{}, &domain.Holding{}))

	u := &domain.User{Username: "alice", PasswordHash: "x", Cash: domain.DefaultCash}
	require.NoError(t, db.Create(u).Error)

	oracle := &fakeOracle{prices: map[string]quotes.Quote{}}
	return &Service{DB: db, Quotes: oracle}, oracle, db, u
}

func recordBuy(t *testing.T, db *gorm.DB, userID uint, symbol, name, price string, shares int64) {
	t.Helper()
	require.NoError(t, db.Create(&domain.Transaction{
		UserID: userID,
		Name:   name,
		Symbol: symbol,
		Type:   domain.TypeBuy,
		Price:  decimal.RequireFromString(price),
		Shares: shares,
		Date:   time.Now(),
	}).Error)
}

func TestPortfolio_Empty(t *testing.T) {
	svc, _, _, u := setupPortfolio(t)

	p, err := svc.Portfolio(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Empty(t, p.Positions)
	assert.True(t, p.TotalStockValue.IsZero())
	assert.True(t, p.Cash.Equal(domain.DefaultCash))
	assert.True(t, p.Total.Equal(domain.DefaultCash))
}

func TestPortfolio_AverageCostBasis(t *testing.T) {
	svc, oracle, db, u := setupPortfolio(t)

	// Two buys at different prices: 5 @ 100.00 then 5 @ 200.00.
	recordBuy(t, db, u.ID, "AAPL", "Apple Inc", "100.00", 5)
	recordBuy(t, db, u.ID, "AAPL", "Apple Inc", "200.00", 5)
	require.NoError(t, db.Create(&domain.Holding{UserID: u.ID, Symbol: "AAPL", Name: "Apple Inc", Shares: 10}).Error)

	oracle.prices["AAPL"] = quotes.Quote{Name: "Apple Inc", Symbol: "AAPL", Price: decimal.RequireFromString("180.00")}

	p, err := svc.Portfolio(context.Background(), u.ID)
	require.NoError(t, err)
	require.Len(t, p.Positions, 1)

	pos := p.Positions[0]
	assert.Equal(t, int64(10), pos.Shares)
	// Average cost 150.00, invested 1500.00 at 10 currently-held shares.
	assert.True(t, pos.Invested.Equal(decimal.RequireFromString("1500.00")), pos.Invested.String())
	assert.True(t, pos.Value.Equal(decimal.RequireFromString("1800.00")), pos.Value.String())
	assert.True(t, pos.NetProfit.Equal(decimal.RequireFromString("300.00")), pos.NetProfit.String())
	assert.True(t, pos.PercentProfit.Equal(decimal.RequireFromString("20")), pos.PercentProfit.String())
}

func TestPortfolio_CostBasisIgnoresSells(t *testing.T) {
	svc, oracle, db, u := setupPortfolio(t)

	recordBuy(t, db, u.ID, "AAPL", "Apple Inc", "100.00", 10)
	require.NoError(t, db.Create(&domain.Transaction{
		UserID: u.ID, Name: "Apple Inc", Symbol: "AAPL", Type: domain.TypeSell,
		Price: decimal.RequireFromString("120.00"), Shares: 5, Date: time.Now(),
	}).Error)
	require.NoError(t, db.Create(&domain.Holding{UserID: u.ID, Symbol: "AAPL", Name: "Apple Inc", Shares: 5}).Error)

	oracle.prices["AAPL"] = quotes.Quote{Name: "Apple Inc", Symbol: "AAPL", Price: decimal.RequireFromString("100.00")}

	p, err := svc.Portfolio(context.Background(), u.ID)
	require.NoError(t, err)
	require.Len(t, p.Positions, 1)

	// Average cost stays 100.00 (all-time buys only); invested = 100 * 5 held.
	assert.True(t, p.Positions[0].Invested.Equal(decimal.RequireFromString("500.00")), p.Positions[0].Invested.String())
}

func TestPortfolio_Totals(t *testing.T) {
	svc, oracle, db, u := setupPortfolio(t)

	recordBuy(t, db, u.ID, "AAPL", "Apple Inc", "150.00", 10)
	recordBuy(t, db, u.ID, "NFLX", "Netflix Inc", "400.00", 2)
	require.NoError(t, db.Create(&domain.Holding{UserID: u.ID, Symbol: "AAPL", Name: "Apple Inc", Shares: 10}).Error)
	require.NoError(t, db.Create(&domain.Holding{UserID: u.ID, Symbol: "NFLX", Name: "Netflix Inc", Shares: 2}).Error)

	oracle.prices["AAPL"] = quotes.Quote{Name: "Apple Inc", Symbol: "AAPL", Price: decimal.RequireFromString("150.00")}
	oracle.prices["NFLX"] = quotes.Quote{Name: "Netflix Inc", Symbol: "NFLX", Price: decimal.RequireFromString("500.00")}

	p, err := svc.Portfolio(context.Background(), u.ID)
	require.NoError(t, err)
	require.Len(t, p.Positions, 2)

	// 10*150 + 2*500 = 2500 stock value.
	assert.True(t, p.TotalStockValue.Equal(decimal.RequireFromString("2500.00")), p.TotalStockValue.String())
	assert.True(t, p.Total.Equal(decimal.RequireFromString("12500.00")), p.Total.String())
	// Positions ordered by symbol.
	assert.Equal(t, "AAPL", p.Positions[0].Symbol)
	assert.Equal(t, "NFLX", p.Positions[1].Symbol)
}

func TestPortfolio_OracleFailurePropagates(t *testing.T) {
	svc, oracle, db, u := setupPortfolio(t)

	recordBuy(t, db, u.ID, "AAPL", "Apple Inc", "150.00", 10)
	recordBuy(t, db, u.ID, "NFLX", "Netflix Inc", "400.00", 2)
	require.NoError(t, db.Create(&domain.Holding{UserID: u.ID, Symbol: "AAPL", Name: "Apple Inc", Shares: 10}).Error)
	require.NoError(t, db.Create(&domain.Holding{UserID: u.ID, Symbol: "NFLX", Name: "Netflix Inc", Shares: 2}).Error)

	// Only one of the two held symbols resolves: no per-symbol fallback.
	oracle.prices["AAPL"] = quotes.Quote{Name: "Apple Inc", Symbol: "AAPL", Price: decimal.RequireFromString("150.00")}

	_, err := svc.Portfolio(context.Background(), u.ID)
	assert.ErrorIs(t, err, quotes.ErrUnavailable)
}

func TestPortfolio_HoldingWithoutBuys(t *testing.T) {
	svc, oracle, db, u := setupPortfolio(t)

	// A holding with no buy history behind it cannot exist in a correct
	// ledger; valuation refuses rather than dividing by zero.
	require.NoError(t, db.Create(&domain.Holding{UserID: u.ID, Symbol: "AAPL", Name: "Apple Inc", Shares: 5}).Error)
	oracle.prices["AAPL"] = quotes.Quote{Name: "Apple Inc", Symbol: "AAPL", Price: decimal.RequireFromString("150.00")}

	_, err := svc.Portfolio(context.Background(), u.ID)
	assert.ErrorIs(t, err, ErrCorruptLedger)
}

func TestHistory_OrderedByOrderID(t *testing.T) {
	svc, _, db, u := setupPortfolio(t)

	recordBuy(t, db, u.ID, "AAPL", "Apple Inc", "150.00", 10)
	recordBuy(t, db, u.ID, "NFLX", "Netflix Inc", "400.00", 2)
	require.NoError(t, db.Create(&domain.Transaction{
		UserID: u.ID, Name: "Apple Inc", Symbol: "AAPL", Type: domain.TypeSell,
		Price: decimal.RequireFromString("160.00"), Shares: 5, Date: time.Now(),
	}).Error)

	txs, err := svc.History(context.Background(), u.ID)
	require.NoError(t, err)
	require.Len(t, txs, 3)
	for i := 1; i < len(txs); i++ {
		assert.Less(t, txs[i-1].OrderID, txs[i].OrderID)
	}
}

func TestPortfolio_UnknownUser(t *testing.T) {
	svc, _, _, _ := setupPortfolio(t)

	_, err := svc.Portfolio(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
