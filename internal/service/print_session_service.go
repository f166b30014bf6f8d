package service

import (
	"encoding/json"
	"time"

	"github.com/bixmobil/vest/internal/constants"
	"github.com/bixmobil/vest/internal/logger"
	"github.com/bixmobil/vest/internal/models"
	"github.com/bixmobil/vest/internal/queue"
	"github.com/bixmobil/vest/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CardPreview is one generated card held in the session until commit.
type CardPreview struct {
	Denomination int64  `json:"denomination"`
	PIN          string `json:"pin"`
	SerialNumber string `json:"serial_number"`
	Status       string `json:"status"`
}

// PrintSessionService drives the select, review and print workflow.
type PrintSessionService struct {
	sessionRepo repository.PrintSessionRepository
	cardRepo    repository.CardRepository
	batchRepo   repository.CardBatchRepository
	walletSvc   *WalletService
	queueClient *queue.Client
	maxCards    int
	sessionTTL  time.Duration
}

// CreateSessionInput starts a new print session.
type CreateSessionInput struct {
	AgentID uint
	Network string
}

// UpdateSelectionInput adjusts one denomination quantity.
type UpdateSelectionInput struct {
	AgentID      uint
	SessionID    uint
	Denomination int64
	Delta        int
}

// CommitPrintInput commits a reviewed batch to the inventory ledger.
type CommitPrintInput struct {
	AgentID   uint
	SessionID uint
	Token     string
}

// CommitPrintResult is the outcome of a print commit. Replays with the
// same token return the originally committed batch.
type CommitPrintResult struct {
	Session *models.PrintSession
	Batch   *models.CardBatch
	Cards   []models.RechargeCard
	Account *models.WalletAccount
	Txn     *models.WalletTransaction
}

// NewPrintSessionService builds a print session service.
func NewPrintSessionService(
	sessionRepo repository.PrintSessionRepository,
	cardRepo repository.CardRepository,
	batchRepo repository.CardBatchRepository,
	walletSvc *WalletService,
	queueClient *queue.Client,
	maxCards int,
	sessionTTL time.Duration,
) *PrintSessionService {
	if maxCards <= 0 {
		maxCards = 500
	}
	if sessionTTL <= 0 {
		sessionTTL = 30 * time.Minute
	}
	return &PrintSessionService{
		sessionRepo: sessionRepo,
		cardRepo:    cardRepo,
		batchRepo:   batchRepo,
		walletSvc:   walletSvc,
		queueClient: queueClient,
		maxCards:    maxCards,
		sessionTTL:  sessionTTL,
	}
}

// CreateSession opens a session in the selecting stage.
func (s *PrintSessionService) CreateSession(input CreateSessionInput) (*models.PrintSession, error) {
	if s == nil || s.sessionRepo == nil || input.AgentID == 0 {
		return nil, ErrSessionCreateFailed
	}
	if !constants.IsValidNetwork(input.Network) {
		return nil, ErrSessionInvalid
	}

	now := time.Now()
	selection, err := encodeSelection(DenominationSelection{})
	if err != nil {
		return nil, ErrSessionCreateFailed
	}
	session := &models.PrintSession{
		AgentID:   input.AgentID,
		Network:   input.Network,
		Stage:     models.SessionStageSelecting,
		Selection: selection,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, ErrSessionCreateFailed
	}
	return session, nil
}

// GetSession returns one session owned by the agent.
func (s *PrintSessionService) GetSession(agentID, sessionID uint) (*models.PrintSession, error) {
	if s == nil || s.sessionRepo == nil {
		return nil, ErrSessionFetchFailed
	}
	session, err := s.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, ErrSessionFetchFailed
	}
	if session == nil || session.AgentID != agentID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// UpdateSelection applies one quantity delta. Quantities clamp at zero
// and removing the last card of a denomination drops its entry.
func (s *PrintSessionService) UpdateSelection(input UpdateSelectionInput) (*models.PrintSession, error) {
	session, err := s.GetSession(input.AgentID, input.SessionID)
	if err != nil {
		return nil, err
	}
	if session.Stage != models.SessionStageSelecting {
		return nil, ErrSessionStage
	}
	if !constants.IsValidDenomination(input.Denomination) {
		return nil, ErrSelectionInvalid
	}

	selection, err := decodeSelection(session.Selection)
	if err != nil {
		return nil, ErrSessionFetchFailed
	}
	next := selection.UpdateQuantity(input.Denomination, input.Delta)
	if next.TotalCards() > s.maxCards {
		return nil, ErrBatchTooLarge
	}

	encoded, err := encodeSelection(next)
	if err != nil {
		return nil, ErrSessionUpdateFailed
	}
	session.Selection = encoded
	session.UpdatedAt = time.Now()
	if err := s.sessionRepo.Update(session); err != nil {
		return nil, ErrSessionUpdateFailed
	}
	return session, nil
}

// GenerateBatch turns the selection into card previews and moves the
// session to review. Nothing reaches the inventory ledger here; going
// back and regenerating produces entirely new PINs and serials.
func (s *PrintSessionService) GenerateBatch(agentID, sessionID uint) (*models.PrintSession, []CardPreview, error) {
	session, err := s.GetSession(agentID, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session.Stage != models.SessionStageSelecting {
		return nil, nil, ErrSessionStage
	}

	selection, err := decodeSelection(session.Selection)
	if err != nil {
		return nil, nil, ErrSessionFetchFailed
	}
	if err := selection.Validate(); err != nil {
		return nil, nil, err
	}
	if selection.IsEmpty() {
		return nil, nil, ErrSelectionEmpty
	}
	if selection.TotalCards() > s.maxCards {
		return nil, nil, ErrBatchTooLarge
	}

	now := time.Now()
	previews, err := s.generatePreviews(selection, session.Network, now)
	if err != nil {
		return nil, nil, err
	}

	encoded, err := json.Marshal(previews)
	if err != nil {
		return nil, nil, ErrSessionUpdateFailed
	}
	session.Stage = models.SessionStageReview
	session.Cards = datatypes.JSON(encoded)
	session.BatchNo = generateBatchNo(now)
	session.GeneratedAt = &now
	session.UpdatedAt = now
	if err := s.sessionRepo.Update(session); err != nil {
		return nil, nil, ErrSessionUpdateFailed
	}
	return session, previews, nil
}

// Back returns a reviewing session to the selecting stage. The
// generated previews are dropped; the selection is kept.
func (s *PrintSessionService) Back(agentID, sessionID uint) (*models.PrintSession, error) {
	session, err := s.GetSession(agentID, sessionID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransitionSessionStage(session.Stage, models.SessionStageSelecting) {
		return nil, ErrSessionStage
	}

	session.Stage = models.SessionStageSelecting
	session.Cards = nil
	session.BatchNo = ""
	session.GeneratedAt = nil
	session.UpdatedAt = time.Now()
	if err := s.sessionRepo.Update(session); err != nil {
		return nil, ErrSessionUpdateFailed
	}
	return session, nil
}

// Discard abandons a session. Nothing is persisted to the ledger and no
// commission is earned.
func (s *PrintSessionService) Discard(agentID, sessionID uint) (*models.PrintSession, error) {
	session, err := s.GetSession(agentID, sessionID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransitionSessionStage(session.Stage, models.SessionStageDiscarded) {
		return nil, ErrSessionStage
	}

	session.Stage = models.SessionStageDiscarded
	session.Cards = nil
	session.UpdatedAt = time.Now()
	if err := s.sessionRepo.Update(session); err != nil {
		return nil, ErrSessionUpdateFailed
	}
	return session, nil
}

// CommitPrint appends the reviewed batch to the inventory ledger,
// credits the commission and marks the session printed, all in one
// transaction. The cards are persisted before the session flips to
// printed, so a crash mid-commit never yields printed state without
// ledger rows. Retrying with the same token returns the original
// result; a different token on a committed session is rejected.
func (s *PrintSessionService) CommitPrint(input CommitPrintInput) (*CommitPrintResult, error) {
	if s == nil || s.sessionRepo == nil || s.cardRepo == nil || s.batchRepo == nil || s.walletSvc == nil {
		return nil, ErrPrintCommitFailed
	}
	token := input.Token
	if token == "" {
		return nil, ErrCommitTokenRequired
	}

	var result *CommitPrintResult
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		sessionRepo := s.sessionRepo.WithTx(tx)
		cardRepo := s.cardRepo.WithTx(tx)
		batchRepo := s.batchRepo.WithTx(tx)

		session, err := sessionRepo.GetByIDForUpdate(input.SessionID)
		if err != nil {
			return ErrSessionFetchFailed
		}
		if session == nil || session.AgentID != input.AgentID {
			return ErrSessionNotFound
		}

		if session.Stage == models.SessionStagePrinted {
			if session.CommitToken != token {
				return ErrCommitConflict
			}
			replay, replayErr := s.loadCommitted(batchRepo, cardRepo, session)
			if replayErr != nil {
				return replayErr
			}
			result = replay
			return nil
		}
		if session.Stage != models.SessionStageReview {
			return ErrSessionStage
		}

		previews, err := decodePreviews(session.Cards)
		if err != nil || len(previews) == 0 {
			return ErrSessionFetchFailed
		}

		now := time.Now()
		var totalValue int64
		for _, preview := range previews {
			totalValue += preview.Denomination
		}
		commission := CalculateCommissionNGN(totalValue, session.Network)

		batch := &models.CardBatch{
			BatchNo:    session.BatchNo,
			AgentID:    session.AgentID,
			Network:    session.Network,
			TotalCards: len(previews),
			TotalValue: models.NewMoneyFromDecimal(decimal.NewFromInt(totalValue)),
			Commission: models.NewMoneyFromDecimal(commission),
			PrintedAt:  now,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := batchRepo.Create(batch); err != nil {
			return ErrPrintCommitFailed
		}

		cards := make([]models.RechargeCard, 0, len(previews))
		for _, preview := range previews {
			cards = append(cards, models.RechargeCard{
				BatchID:      batch.ID,
				AgentID:      session.AgentID,
				Network:      session.Network,
				Denomination: preview.Denomination,
				PIN:          preview.PIN,
				SerialNumber: preview.SerialNumber,
				Status:       models.CardStatusPrinted,
				PrintedAt:    &now,
				CreatedAt:    now,
				UpdatedAt:    now,
			})
		}
		if err := cardRepo.AppendBatch(cards); err != nil {
			return ErrPrintCommitFailed
		}

		account, txn, creditErr := s.walletSvc.CreditInTx(tx, WalletCreditInput{
			AgentID:   session.AgentID,
			Amount:    models.NewMoneyFromDecimal(commission),
			TxnType:   constants.WalletTxnTypeCommission,
			Reference: "print:" + token,
			Remark:    "Card print commission " + batch.BatchNo,
		})
		if creditErr != nil {
			return creditErr
		}

		session.Stage = models.SessionStagePrinted
		session.CommitToken = token
		session.CommittedAt = &now
		session.Cards = nil
		session.UpdatedAt = now
		if err := sessionRepo.Update(session); err != nil {
			return ErrSessionUpdateFailed
		}

		result = &CommitPrintResult{
			Session: session,
			Batch:   batch,
			Cards:   cards,
			Account: account,
			Txn:     txn,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result != nil && result.Batch != nil && s.queueClient.Enabled() {
		if err := s.queueClient.EnqueueBatchReceipt(queue.BatchReceiptPayload{BatchID: result.Batch.ID}); err != nil {
			logger.Warnw("batch_receipt_enqueue_failed", "batch_id", result.Batch.ID, "error", err)
		}
	}
	return result, nil
}

// SweepExpiredSessions discards open sessions past their deadline.
func (s *PrintSessionService) SweepExpiredSessions(now time.Time, limit int) (int, error) {
	if s == nil || s.sessionRepo == nil {
		return 0, ErrSessionFetchFailed
	}
	sessions, err := s.sessionRepo.ListExpired(now, limit)
	if err != nil {
		return 0, ErrSessionFetchFailed
	}
	swept := 0
	for i := range sessions {
		session := &sessions[i]
		session.Stage = models.SessionStageDiscarded
		session.Cards = nil
		session.UpdatedAt = now
		if err := s.sessionRepo.Update(session); err != nil {
			logger.Warnw("session_sweep_update_failed", "session_id", session.ID, "error", err)
			continue
		}
		swept++
	}
	return swept, nil
}

// generatePreviews builds one preview per selected card. Serials are
// regenerated on collision, both within the batch and against the
// ledger.
func (s *PrintSessionService) generatePreviews(selection DenominationSelection, network string, now time.Time) ([]CardPreview, error) {
	const maxAttempts = 3

	for attempt := 0; attempt < maxAttempts; attempt++ {
		previews := make([]CardPreview, 0, selection.TotalCards())
		seen := make(map[string]struct{}, selection.TotalCards())
		serials := make([]string, 0, selection.TotalCards())

		for _, denomination := range constants.Denominations {
			quantity := selection.Quantity(denomination)
			for i := 0; i < quantity; i++ {
				serial := GenerateSerialNumber(network, now)
				for retries := 0; retries < 50; retries++ {
					if _, ok := seen[serial]; !ok {
						break
					}
					serial = GenerateSerialNumber(network, now)
				}
				if _, ok := seen[serial]; ok {
					return nil, ErrSessionUpdateFailed
				}
				seen[serial] = struct{}{}
				serials = append(serials, serial)
				previews = append(previews, CardPreview{
					Denomination: denomination,
					PIN:          GeneratePIN(),
					SerialNumber: serial,
					Status:       models.CardStatusGenerated,
				})
			}
		}

		count, err := s.cardRepo.CountBySerials(serials)
		if err != nil {
			return nil, ErrSessionUpdateFailed
		}
		if count == 0 {
			return previews, nil
		}
	}
	return nil, ErrSessionUpdateFailed
}

func (s *PrintSessionService) loadCommitted(batchRepo *repository.GormCardBatchRepository, cardRepo *repository.GormCardRepository, session *models.PrintSession) (*CommitPrintResult, error) {
	batch, err := batchRepo.GetByBatchNo(session.BatchNo)
	if err != nil {
		return nil, ErrBatchFetchFailed
	}
	if batch == nil {
		return nil, ErrBatchNotFound
	}
	cards, err := cardRepo.ListByBatch(batch.ID)
	if err != nil {
		return nil, ErrCardFetchFailed
	}
	return &CommitPrintResult{
		Session: session,
		Batch:   batch,
		Cards:   cards,
	}, nil
}

func encodeSelection(selection DenominationSelection) (datatypes.JSON, error) {
	encoded, err := json.Marshal(selection)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(encoded), nil
}

func decodeSelection(raw datatypes.JSON) (DenominationSelection, error) {
	if len(raw) == 0 {
		return DenominationSelection{}, nil
	}
	var selection DenominationSelection
	if err := json.Unmarshal(raw, &selection); err != nil {
		return nil, err
	}
	if selection == nil {
		selection = DenominationSelection{}
	}
	return selection, nil
}

func decodePreviews(raw datatypes.JSON) ([]CardPreview, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var previews []CardPreview
	if err := json.Unmarshal(raw, &previews); err != nil {
		return nil, err
	}
	return previews, nil
}
