package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bixmobil/vest/internal/constants"
	"github.com/bixmobil/vest/internal/models"
	"github.com/bixmobil/vest/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupPrintSessionTest(t *testing.T) (*PrintSessionService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:print_session_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Agent{},
		&models.PrintSession{},
		&models.CardBatch{},
		&models.RechargeCard{},
		&models.WalletAccount{},
		&models.WalletTransaction{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	walletSvc := NewWalletService(repository.NewWalletRepository(db))
	svc := NewPrintSessionService(
		repository.NewPrintSessionRepository(db),
		repository.NewCardRepository(db),
		repository.NewCardBatchRepository(db),
		walletSvc,
		nil,
		500,
		30*time.Minute,
	)
	return svc, db
}

func buildReviewSession(t *testing.T, svc *PrintSessionService, agentID uint) *models.PrintSession {
	t.Helper()
	session, err := svc.CreateSession(CreateSessionInput{AgentID: agentID, Network: constants.NetworkMTN})
	if err != nil {
		t.Fatalf("create session failed: %v", err)
	}
	if _, err := svc.UpdateSelection(UpdateSelectionInput{
		AgentID: agentID, SessionID: session.ID, Denomination: 1000, Delta: 2,
	}); err != nil {
		t.Fatalf("update selection failed: %v", err)
	}
	if _, err := svc.UpdateSelection(UpdateSelectionInput{
		AgentID: agentID, SessionID: session.ID, Denomination: 500, Delta: 1,
	}); err != nil {
		t.Fatalf("update selection failed: %v", err)
	}
	session, previews, err := svc.GenerateBatch(agentID, session.ID)
	if err != nil {
		t.Fatalf("generate batch failed: %v", err)
	}
	if len(previews) != 3 {
		t.Fatalf("expected 3 previews, got %d", len(previews))
	}
	return session
}

func TestPrintSessionCreateRejectsUnknownNetwork(t *testing.T) {
	svc, db := setupPrintSessionTest(t)
	createTestAgent(t, db, 201)

	if _, err := svc.CreateSession(CreateSessionInput{AgentID: 201, Network: "vodafone"}); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("expected session invalid, got: %v", err)
	}
}

func TestPrintSessionOwnership(t *testing.T) {
	svc, db := setupPrintSessionTest(t)
	createTestAgent(t, db, 202)
	createTestAgent(t, db, 203)

	session, err := svc.CreateSession(CreateSessionInput{AgentID: 202, Network: constants.NetworkGlo})
	if err != nil {
		t.Fatalf("create session failed: %v", err)
	}
	if _, err := svc.GetSession(203, session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected not found for other agent, got: %v", err)
	}
}

func TestPrintSessionSelectionRejectsUnknownDenomination(t *testing.T) {
	svc, db := setupPrintSessionTest(t)
	createTestAgent(t, db, 204)

	session, err := svc.CreateSession(CreateSessionInput{AgentID: 204, Network: constants.NetworkMTN})
	if err != nil {
		t.Fatalf("create session failed: %v", err)
	}
	_, err = svc.UpdateSelection(UpdateSelectionInput{
		AgentID: 204, SessionID: session.ID, Denomination: 250, Delta: 1,
	})
	if !errors.Is(err, ErrSelectionInvalid) {
		t.Fatalf("expected selection invalid, got: %v", err)
	}
}

func TestPrintSessionBatchLimit(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:print_limit_test_%d?mode=memory&cache=shared", time.Now().UnixNano())), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Agent{}, &models.PrintSession{}, &models.CardBatch{}, &models.RechargeCard{}, &models.WalletAccount{}, &models.WalletTransaction{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	createTestAgent(t, db, 205)
	svc := NewPrintSessionService(
		repository.NewPrintSessionRepository(db),
		repository.NewCardRepository(db),
		repository.NewCardBatchRepository(db),
		NewWalletService(repository.NewWalletRepository(db)),
		nil,
		2,
		30*time.Minute,
	)

	session, err := svc.CreateSession(CreateSessionInput{AgentID: 205, Network: constants.NetworkMTN})
	if err != nil {
		t.Fatalf("create session failed: %v", err)
	}
	_, err = svc.UpdateSelection(UpdateSelectionInput{
		AgentID: 205, SessionID: session.ID, Denomination: 100, Delta: 3,
	})
	if !errors.Is(err, ErrBatchTooLarge) {
		t.Fatalf("expected batch too large, got: %v", err)
	}
}

func TestPrintSessionGenerateEmptySelection(t *testing.T) {
	svc, db := setupPrintSessionTest(t)
	createTestAgent(t, db, 206)

	session, err := svc.CreateSession(CreateSessionInput{AgentID: 206, Network: constants.NetworkMTN})
	if err != nil {
		t.Fatalf("create session failed: %v", err)
	}
	if _, _, err := svc.GenerateBatch(206, session.ID); !errors.Is(err, ErrSelectionEmpty) {
		t.Fatalf("expected selection empty, got: %v", err)
	}
}

func TestPrintSessionGenerateMovesToReview(t *testing.T) {
	svc, db := setupPrintSessionTest(t)
	createTestAgent(t, db, 207)

	session := buildReviewSession(t, svc, 207)
	if session.Stage != models.SessionStageReview {
		t.Fatalf("expected review stage, got %s", session.Stage)
	}
	if session.BatchNo == "" || session.GeneratedAt == nil {
		t.Fatalf("expected batch no and generated time, got %+v", session)
	}

	previews, err := decodePreviews(session.Cards)
	if err != nil {
		t.Fatalf("decode previews failed: %v", err)
	}
	seen := make(map[string]struct{}, len(previews))
	for _, preview := range previews {
		if preview.Status != models.CardStatusGenerated {
			t.Fatalf("expected generated status, got %s", preview.Status)
		}
		if len(preview.PIN) != 12 {
			t.Fatalf("unexpected PIN: %q", preview.PIN)
		}
		if _, ok := seen[preview.SerialNumber]; ok {
			t.Fatalf("duplicate serial in batch: %s", preview.SerialNumber)
		}
		seen[preview.SerialNumber] = struct{}{}
	}

	// Nothing reaches the ledger until commit.
	var count int64
	if err := db.Model(&models.RechargeCard{}).Count(&count).Error; err != nil {
		t.Fatalf("count cards failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no ledger rows before commit, got %d", count)
	}
}

func TestPrintSessionBackKeepsSelection(t *testing.T) {
	svc, db := setupPrintSessionTest(t)
	createTestAgent(t, db, 208)

	session := buildReviewSession(t, svc, 208)
	session, err := svc.Back(208, session.ID)
	if err != nil {
		t.Fatalf("back failed: %v", err)
	}
	if session.Stage != models.SessionStageSelecting {
		t.Fatalf("expected selecting stage, got %s", session.Stage)
	}
	if session.BatchNo != "" || session.GeneratedAt != nil || len(session.Cards) != 0 {
		t.Fatalf("expected previews dropped, got %+v", session)
	}

	selection, err := decodeSelection(session.Selection)
	if err != nil {
		t.Fatalf("decode selection failed: %v", err)
	}
	if selection.TotalCards() != 3 {
		t.Fatalf("expected selection kept, got %+v", selection)
	}
}

func TestPrintSessionDiscard(t *testing.T) {
	svc, db := setupPrintSessionTest(t)
	createTestAgent(t, db, 209)

	session := buildReviewSession(t, svc, 209)
	session, err := svc.Discard(209, session.ID)
	if err != nil {
		t.Fatalf("discard failed: %v", err)
	}
	if session.Stage != models.SessionStageDiscarded {
		t.Fatalf("expected discarded stage, got %s", session.Stage)
	}

	if _, err := svc.UpdateSelection(UpdateSelectionInput{
		AgentID: 209, SessionID: session.ID, Denomination: 100, Delta: 1,
	}); !errors.Is(err, ErrSessionStage) {
		t.Fatalf("expected stage error after discard, got: %v", err)
	}
}

func TestCommitPrint(t *testing.T) {
	svc, db := setupPrintSessionTest(t)
	createTestAgent(t, db, 210)

	session := buildReviewSession(t, svc, 210)
	result, err := svc.CommitPrint(CommitPrintInput{AgentID: 210, SessionID: session.ID, Token: "token-commit-1"})
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if result.Session.Stage != models.SessionStagePrinted {
		t.Fatalf("expected printed stage, got %s", result.Session.Stage)
	}
	if result.Batch.TotalCards != 3 {
		t.Fatalf("expected 3 cards, got %d", result.Batch.TotalCards)
	}
	if !result.Batch.TotalValue.Decimal.Equal(decimal.NewFromInt(2500)) {
		t.Fatalf("unexpected total value: %s", result.Batch.TotalValue.String())
	}
	if !result.Batch.Commission.Decimal.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("unexpected commission: %s", result.Batch.Commission.String())
	}
	for _, card := range result.Cards {
		if card.Status != models.CardStatusPrinted || card.PrintedAt == nil {
			t.Fatalf("unexpected card: %+v", card)
		}
	}
	if result.Account == nil || !result.Account.Balance.Decimal.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("unexpected wallet balance: %+v", result.Account)
	}
	if result.Txn == nil || result.Txn.Reference != "print:token-commit-1" {
		t.Fatalf("unexpected wallet transaction: %+v", result.Txn)
	}

	var count int64
	if err := db.Model(&models.RechargeCard{}).Where("batch_id = ?", result.Batch.ID).Count(&count).Error; err != nil {
		t.Fatalf("count cards failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 ledger rows, got %d", count)
	}
}

func TestCommitPrintIdempotentReplay(t *testing.T) {
	svc, db := setupPrintSessionTest(t)
	createTestAgent(t, db, 211)

	session := buildReviewSession(t, svc, 211)
	first, err := svc.CommitPrint(CommitPrintInput{AgentID: 211, SessionID: session.ID, Token: "token-replay"})
	if err != nil {
		t.Fatalf("first commit failed: %v", err)
	}
	second, err := svc.CommitPrint(CommitPrintInput{AgentID: 211, SessionID: session.ID, Token: "token-replay"})
	if err != nil {
		t.Fatalf("replayed commit failed: %v", err)
	}
	if second.Batch.ID != first.Batch.ID {
		t.Fatalf("replay produced a different batch: %d vs %d", second.Batch.ID, first.Batch.ID)
	}
	if len(second.Cards) != 3 {
		t.Fatalf("expected 3 cards on replay, got %d", len(second.Cards))
	}

	var txnCount int64
	if err := db.Model(&models.WalletTransaction{}).Where("agent_id = ?", 211).Count(&txnCount).Error; err != nil {
		t.Fatalf("count transactions failed: %v", err)
	}
	if txnCount != 1 {
		t.Fatalf("expected 1 commission entry, got %d", txnCount)
	}
}

func TestCommitPrintTokenConflict(t *testing.T) {
	svc, db := setupPrintSessionTest(t)
	createTestAgent(t, db, 212)

	session := buildReviewSession(t, svc, 212)
	if _, err := svc.CommitPrint(CommitPrintInput{AgentID: 212, SessionID: session.ID, Token: "token-a"}); err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if _, err := svc.CommitPrint(CommitPrintInput{AgentID: 212, SessionID: session.ID, Token: "token-b"}); !errors.Is(err, ErrCommitConflict) {
		t.Fatalf("expected commit conflict, got: %v", err)
	}
}

func TestCommitPrintRequiresReviewStage(t *testing.T) {
	svc, db := setupPrintSessionTest(t)
	createTestAgent(t, db, 213)

	session, err := svc.CreateSession(CreateSessionInput{AgentID: 213, Network: constants.NetworkMTN})
	if err != nil {
		t.Fatalf("create session failed: %v", err)
	}
	if _, err := svc.CommitPrint(CommitPrintInput{AgentID: 213, SessionID: session.ID, Token: "token-early"}); !errors.Is(err, ErrSessionStage) {
		t.Fatalf("expected stage error, got: %v", err)
	}
}

func TestCommitPrintRequiresToken(t *testing.T) {
	svc, db := setupPrintSessionTest(t)
	createTestAgent(t, db, 214)

	session := buildReviewSession(t, svc, 214)
	if _, err := svc.CommitPrint(CommitPrintInput{AgentID: 214, SessionID: session.ID}); !errors.Is(err, ErrCommitTokenRequired) {
		t.Fatalf("expected token required, got: %v", err)
	}
}

func TestSweepExpiredSessions(t *testing.T) {
	svc, db := setupPrintSessionTest(t)
	createTestAgent(t, db, 215)

	session, err := svc.CreateSession(CreateSessionInput{AgentID: 215, Network: constants.NetworkMTN})
	if err != nil {
		t.Fatalf("create session failed: %v", err)
	}
	expired := time.Now().Add(-time.Hour)
	if err := db.Model(&models.PrintSession{}).Where("id = ?", session.ID).Update("expires_at", expired).Error; err != nil {
		t.Fatalf("expire session failed: %v", err)
	}

	swept, err := svc.SweepExpiredSessions(time.Now(), 10)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if swept != 1 {
		t.Fatalf("expected 1 swept session, got %d", swept)
	}

	refreshed, err := svc.GetSession(215, session.ID)
	if err != nil {
		t.Fatalf("get session failed: %v", err)
	}
	if refreshed.Stage != models.SessionStageDiscarded {
		t.Fatalf("expected discarded after sweep, got %s", refreshed.Stage)
	}
}
