package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bixmobil/vest/internal/constants"
	"github.com/bixmobil/vest/internal/models"
	"github.com/bixmobil/vest/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupReceiptServiceTest(t *testing.T) (*ReceiptService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:receipt_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Agent{},
		&models.CardBatch{},
		&models.RechargeCard{},
		&models.PrintReceipt{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	svc := NewReceiptService(
		repository.NewPrintReceiptRepository(db),
		repository.NewCardBatchRepository(db),
		repository.NewCardRepository(db),
		repository.NewAgentRepository(db),
	)
	return svc, db
}

func TestReceiptBuildForBatch(t *testing.T) {
	svc, db := setupReceiptServiceTest(t)
	createTestAgent(t, db, 401)
	batch, _ := seedPrintedBatch(t, db, 401, constants.NetworkMTN, []int64{500, 500, 1000})

	receipt, err := svc.BuildForBatch(batch.ID)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	content := receipt.Content
	if !strings.Contains(content, batch.BatchNo) {
		t.Fatalf("batch no missing from receipt: %q", content)
	}
	if !strings.Contains(content, "Network:  MTN") {
		t.Fatalf("network line missing: %q", content)
	}
	if !strings.Contains(content, "Agent 401") {
		t.Fatalf("agent name missing: %q", content)
	}
	if !strings.Contains(content, "NGN   500 x 2") || !strings.Contains(content, "NGN  1000 x 1") {
		t.Fatalf("denomination lines missing: %q", content)
	}
	if !strings.Contains(content, "Cards:      3") {
		t.Fatalf("card count missing: %q", content)
	}
	if !strings.Contains(content, "Commission: NGN") {
		t.Fatalf("commission line missing: %q", content)
	}
}

func TestReceiptBuildIsIdempotent(t *testing.T) {
	svc, db := setupReceiptServiceTest(t)
	createTestAgent(t, db, 402)
	batch, _ := seedPrintedBatch(t, db, 402, constants.NetworkGlo, []int64{200})

	first, err := svc.BuildForBatch(batch.ID)
	if err != nil {
		t.Fatalf("first build failed: %v", err)
	}
	second, err := svc.BuildForBatch(batch.ID)
	if err != nil {
		t.Fatalf("second build failed: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("second build created a new receipt: %d vs %d", second.ID, first.ID)
	}

	var count int64
	if err := db.Model(&models.PrintReceipt{}).Where("batch_id = ?", batch.ID).Count(&count).Error; err != nil {
		t.Fatalf("count receipts failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 receipt, got %d", count)
	}
}

func TestReceiptBuildUnknownBatch(t *testing.T) {
	svc, _ := setupReceiptServiceTest(t)

	if _, err := svc.BuildForBatch(9999); !errors.Is(err, ErrBatchNotFound) {
		t.Fatalf("expected batch not found, got: %v", err)
	}
}
