package settlement

import (
	"context"
	"strings"
	"time"

	"papertrade-backend/internal/application/quotes"
	"papertrade-backend/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service applies buy/sell/deposit requests to the ledger. Each mutation
// runs as a single DB transaction with the user row locked FOR UPDATE, so
// concurrent requests for the same user cannot interleave their
// read-validate-write sequences. Quote lookups happen before the
// transaction; holdings and cash are re-validated under the lock.
type Service struct {
	DB     *gorm.DB
	Quotes quotes.Client
}

// Receipt summarizes an applied settlement.
type Receipt struct {
	OrderID uint            `json:"orderid"`
	Symbol  string          `json:"symbol"`
	Name    string          `json:"name"`
	Type    string          `json:"type"`
	Shares  int64           `json:"shares"`
	Price   decimal.Decimal `json:"price"`
	Total   decimal.Decimal `json:"total"`
	Cash    decimal.Decimal `json:"cash"`
}

// Buy purchases shares at the current quoted price. On success the new
// transaction row, the cash debit and the holding upsert are all visible
// together or not at all.
func (s *Service) Buy(ctx context.Context, userID uint, symbol string, shares int64) (*Receipt, error) {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return nil, ErrSymbolRequired
	}
	if shares <= 0 {
		return nil, ErrInvalidShares
	}

	quote, err := s.Quotes.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}
	total := quote.Price.Mul(decimal.NewFromInt(shares))

	var receipt *Receipt
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user domain.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrUserNotFound
			}
			return err
		}

		if user.Cash.LessThan(total) {
			return ErrInsufficientCash
		}

		record := domain.Transaction{
			UserID: userID,
			Name:   quote.Name,
			Symbol: quote.Symbol,
			Type:   domain.TypeBuy,
			Price:  quote.Price,
			Shares: shares,
			Date:   time.Now(),
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		newCash := user.Cash.Sub(total)
		if err := tx.Model(&domain.User{}).Where("id = ?", userID).Update("cash", newCash).Error; err != nil {
			return err
		}

		var holding domain.Holding
		err := tx.Where("user_id = ? AND symbol = ?", userID, quote.Symbol).First(&holding).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			holding = domain.Holding{
				UserID: userID,
				Symbol: quote.Symbol,
				Name:   quote.Name,
				Shares: shares,
			}
			if err := tx.Create(&holding).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err := tx.Model(&domain.Holding{}).
				Where("user_id = ? AND symbol = ?", userID, quote.Symbol).
				Update("shares", holding.Shares+shares).Error; err != nil {
				return err
			}
		}

		receipt = &Receipt{
			OrderID: record.OrderID,
			Symbol:  record.Symbol,
			Name:    record.Name,
			Type:    record.Type,
			Shares:  shares,
			Price:   quote.Price,
			Total:   total,
			Cash:    newCash,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// Sell disposes of shares at the current quoted price. Ownership and
// quantity are checked before the quote lookup (a symbol that no longer
// resolves blocks selling even when shares are owned), then re-validated
// under the row lock before any write.
func (s *Service) Sell(ctx context.Context, userID uint, symbol string, shares int64) (*Receipt, error) {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return nil, ErrSymbolRequired
	}

	var owned domain.Holding
	if err := s.DB.WithContext(ctx).
		Where("user_id = ? AND symbol = ?", userID, symbol).
		First(&owned).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrStockNotOwned
		}
		return nil, err
	}

	if shares <= 0 {
		return nil, ErrInvalidShares
	}
	if shares > owned.Shares {
		return nil, ErrInsufficientShares
	}

	quote, err := s.Quotes.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}
	total := quote.Price.Mul(decimal.NewFromInt(shares))

	var receipt *Receipt
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user domain.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrUserNotFound
			}
			return err
		}

		// Re-validate under the lock: another request may have sold in the
		// window between the pre-check and here.
		var holding domain.Holding
		if err := tx.Where("user_id = ? AND symbol = ?", userID, symbol).First(&holding).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrStockNotOwned
			}
			return err
		}
		if shares > holding.Shares {
			return ErrInsufficientShares
		}

		record := domain.Transaction{
			UserID: userID,
			Name:   holding.Name,
			Symbol: holding.Symbol,
			Type:   domain.TypeSell,
			Price:  quote.Price,
			Shares: shares,
			Date:   time.Now(),
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		newCash := user.Cash.Add(total)
		if err := tx.Model(&domain.User{}).Where("id = ?", userID).Update("cash", newCash).Error; err != nil {
			return err
		}

		remaining := holding.Shares - shares
		switch {
		case remaining < 0:
			return ErrCorruptLedger
		case remaining == 0:
			if err := tx.Where("user_id = ? AND symbol = ?", userID, symbol).
				Delete(&domain.Holding{}).Error; err != nil {
				return err
			}
		default:
			if err := tx.Model(&domain.Holding{}).
				Where("user_id = ? AND symbol = ?", userID, symbol).
				Update("shares", remaining).Error; err != nil {
				return err
			}
		}

		receipt = &Receipt{
			OrderID: record.OrderID,
			Symbol:  record.Symbol,
			Name:    record.Name,
			Type:    record.Type,
			Shares:  shares,
			Price:   quote.Price,
			Total:   total,
			Cash:    newCash,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// Deposit credits the account with simulated cash (whole currency units).
func (s *Service) Deposit(ctx context.Context, userID uint, amount int64) (decimal.Decimal, error) {
	if amount <= 0 {
		return decimal.Zero, ErrInvalidDeposit
	}

	var newCash decimal.Decimal
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user domain.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrUserNotFound
			}
			return err
		}
		newCash = user.Cash.Add(decimal.NewFromInt(amount))
		return tx.Model(&domain.User{}).Where("id = ?", userID).Update("cash", newCash).Error
	})
	if err != nil {
		return decimal.Zero, err
	}
	return newCash, nil
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
