//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/bixmobil/vest/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB opens the Postgres test database named by
// TEST_POSTGRES_DSN and resets the vending tables.
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := []interface{}{
		&models.RechargeCard{},
		&models.PrintReceipt{},
		&models.CardBatch{},
		&models.PrintSession{},
		&models.WalletTransaction{},
		&models.WalletAccount{},
		&models.Agent{},
	}
	for _, model := range cleanupModels {
		if err := db.Migrator().DropTable(model); err != nil {
			t.Fatalf("drop table failed: %v", err)
		}
	}
	if err := db.AutoMigrate(
		&models.Agent{},
		&models.CardBatch{},
		&models.RechargeCard{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func TestPostgresCardRepositoryLifecycle(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewCardRepository(db)
	now := time.Now().UTC().Truncate(time.Second)

	agent := models.Agent{
		Name:      "Integration Agent",
		Email:     "integration@example.com",
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.Create(&agent).Error; err != nil {
		t.Fatalf("create agent failed: %v", err)
	}
	batch := models.CardBatch{
		BatchNo:    "BATCH-PG-INTEGRATION-1",
		AgentID:    agent.ID,
		Network:    "mtn",
		TotalCards: 1,
		TotalValue: models.NewMoneyFromDecimal(decimal.NewFromInt(500)),
		Commission: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		PrintedAt:  now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := db.Create(&batch).Error; err != nil {
		t.Fatalf("create batch failed: %v", err)
	}

	cards := []models.RechargeCard{{
		BatchID:      batch.ID,
		AgentID:      agent.ID,
		Network:      "mtn",
		Denomination: 500,
		PIN:          "912345678901",
		SerialNumber: "MTN1234561234",
		Status:       models.CardStatusPrinted,
		PrintedAt:    &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}}
	if err := repo.AppendBatch(cards); err != nil {
		t.Fatalf("append batch failed: %v", err)
	}

	// Keyword search goes through the ILIKE path on postgres.
	listed, total, err := repo.List(CardListFilter{
		AgentID:  agent.ID,
		Keyword:  "mtn123",
		Page:     1,
		PageSize: 10,
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(listed) != 1 {
		t.Fatalf("expected 1 card, got total=%d len=%d", total, len(listed))
	}

	rows, err := repo.UpdateStatus(listed[0].ID, models.CardStatusPrinted, models.CardStatusSold, now)
	if err != nil || rows != 1 {
		t.Fatalf("sell move failed: rows=%d err=%v", rows, err)
	}
	rows, err = repo.UpdateStatus(listed[0].ID, models.CardStatusPrinted, models.CardStatusSold, now)
	if err != nil || rows != 0 {
		t.Fatalf("repeat sell should not match: rows=%d err=%v", rows, err)
	}

	stats, err := repo.Stats(agent.ID)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.Total != 1 || stats.Sold != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
