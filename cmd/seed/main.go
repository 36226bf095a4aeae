// Command seed resets the database to a known demo state: one demo user
// and a representative product catalog. All existing rows are wiped first;
// the whole run is one transaction, so a failure leaves the database
// untouched.
package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"gripinvest/internal/advisor"
	"gripinvest/internal/config"
	"gripinvest/internal/database"
	"gripinvest/internal/logger"
	"gripinvest/internal/models"
)

const (
	demoEmail    = "demo@grip.local"
	demoPassword = "Passw0rd!"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Seed error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	manager, err := database.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer manager.Close()

	if err := manager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := seed(manager.DB()); err != nil {
		return err
	}

	logger.Get().Infof("Seed completed. Demo user: %s", demoEmail)
	return nil
}

func seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		// Wipe in dependency order.
		for _, model := range []interface{}{
			&models.TransactionLog{},
			&models.Investment{},
			&models.InvestmentProduct{},
			&models.User{},
		} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return fmt.Errorf("failed to wipe table: %w", err)
			}
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash demo password: %w", err)
		}
		demoUser := models.User{
			Email:        demoEmail,
			PasswordHash: string(hash),
			FirstName:    "Demo",
			LastName:     "User",
			RiskAppetite: models.RiskModerate,
		}
		if err := tx.Create(&demoUser).Error; err != nil {
			return fmt.Errorf("failed to create demo user: %w", err)
		}

		for _, p := range catalog() {
			p := p
			if err := tx.Create(&p).Error; err != nil {
				return fmt.Errorf("failed to create product %q: %w", p.Name, err)
			}
		}
		return nil
	})
}

// catalog returns the demo product set: index ETFs, mutual funds, bonds,
// fixed deposits, individual stocks, and alternatives across all three risk
// levels.
func catalog() []models.InvestmentProduct {
	f := func(v float64) *float64 { return &v }
	product := func(name string, t models.InvestmentType, tenure int, yield float64, risk models.RiskAppetite, min float64, max float64) models.InvestmentProduct {
		return models.InvestmentProduct{
			Name:           name,
			InvestmentType: t,
			TenureMonths:   tenure,
			AnnualYield:    yield,
			RiskLevel:      risk,
			MinInvestment:  min,
			MaxInvestment:  f(max),
			Description:    advisor.ProductDescription(name, string(t), string(risk)),
		}
	}

	return []models.InvestmentProduct{
		// ETFs
		product("NIFTY 50 Index ETF", models.InvestmentTypeETF, 0, 12.5, models.RiskModerate, 1000, 1000000),
		product("S&P 500 Index ETF", models.InvestmentTypeETF, 0, 10.0, models.RiskModerate, 1000, 1000000),
		product("NASDAQ 100 ETF", models.InvestmentTypeETF, 0, 14.2, models.RiskHigh, 1000, 1000000),
		product("Gold ETF", models.InvestmentTypeETF, 0, 6.0, models.RiskLow, 1000, 1000000),

		// Mutual funds
		product("HDFC Corporate Bond Fund", models.InvestmentTypeMF, 36, 7.2, models.RiskLow, 1000, 500000),
		product("ICICI Prudential Bluechip Fund", models.InvestmentTypeMF, 24, 11.8, models.RiskModerate, 1000, 1000000),
		product("SBI Small Cap Fund", models.InvestmentTypeMF, 60, 16.5, models.RiskHigh, 1000, 500000),

		// Bonds
		product("Government Securities (G-Sec) 10Y", models.InvestmentTypeBond, 120, 7.0, models.RiskLow, 5000, 10000000),
		product("Corporate Bond AAA 5Y", models.InvestmentTypeBond, 60, 8.5, models.RiskLow, 10000, 5000000),

		// Fixed deposits
		product("HDFC Bank Fixed Deposit", models.InvestmentTypeFD, 12, 6.5, models.RiskLow, 1000, 2000000),
		product("SBI Fixed Deposit", models.InvestmentTypeFD, 24, 7.2, models.RiskLow, 1000, 2000000),

		// Individual stocks
		product("Apple Inc (AAPL)", models.InvestmentTypeOther, 0, 12.0, models.RiskModerate, 1000, 1000000),
		product("NVIDIA (NVDA)", models.InvestmentTypeOther, 0, 18.0, models.RiskHigh, 1000, 1000000),
		product("Tesla (TSLA)", models.InvestmentTypeOther, 0, 16.0, models.RiskHigh, 1000, 1000000),
		product("HDFC Bank", models.InvestmentTypeOther, 0, 10.0, models.RiskModerate, 1000, 1000000),
		product("Reliance Industries", models.InvestmentTypeOther, 0, 11.0, models.RiskModerate, 1000, 1000000),
		product("Infosys", models.InvestmentTypeOther, 0, 9.5, models.RiskModerate, 1000, 1000000),

		// Alternatives
		product("Tech Growth Basket", models.InvestmentTypeOther, 0, 15.0, models.RiskHigh, 1000, 1000000),
		product("Real Estate Investment Trust (REIT)", models.InvestmentTypeOther, 0, 8.5, models.RiskModerate, 5000, 2000000),
	}
}
