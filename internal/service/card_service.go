package service

import (
	"encoding/csv"
	"strconv"
	"strings"
	"time"

	"github.com/bixmobil/vest/internal/constants"
	"github.com/bixmobil/vest/internal/models"
	"github.com/bixmobil/vest/internal/repository"
)

// CardService serves the inventory ledger: listing, point-of-sale
// status moves and exports.
type CardService struct {
	cardRepo    repository.CardRepository
	batchRepo   repository.CardBatchRepository
	receiptRepo repository.PrintReceiptRepository
}

// CardListInput filters inventory queries.
type CardListInput struct {
	AgentID  uint
	Network  string
	Status   string
	BatchID  uint
	Keyword  string
	Page     int
	PageSize int
}

// CardBatchListInput filters batch queries.
type CardBatchListInput struct {
	AgentID  uint
	Network  string
	Page     int
	PageSize int
}

// NewCardService builds a card service.
func NewCardService(cardRepo repository.CardRepository, batchRepo repository.CardBatchRepository, receiptRepo repository.PrintReceiptRepository) *CardService {
	return &CardService{
		cardRepo:    cardRepo,
		batchRepo:   batchRepo,
		receiptRepo: receiptRepo,
	}
}

// ListCards queries the inventory ledger.
func (s *CardService) ListCards(input CardListInput) ([]models.RechargeCard, int64, error) {
	if s == nil || s.cardRepo == nil || input.AgentID == 0 {
		return nil, 0, ErrCardFetchFailed
	}
	network := strings.TrimSpace(strings.ToLower(input.Network))
	if network != "" && !constants.IsValidNetwork(network) {
		return nil, 0, ErrCardInvalid
	}
	status := strings.TrimSpace(strings.ToLower(input.Status))
	switch status {
	case "", models.CardStatusPrinted, models.CardStatusSold, models.CardStatusUsed:
	default:
		return nil, 0, ErrCardInvalid
	}

	cards, total, err := s.cardRepo.List(repository.CardListFilter{
		AgentID:  input.AgentID,
		Network:  network,
		Status:   status,
		BatchID:  input.BatchID,
		Keyword:  input.Keyword,
		Page:     input.Page,
		PageSize: input.PageSize,
	})
	if err != nil {
		return nil, 0, ErrCardFetchFailed
	}
	return cards, total, nil
}

// Stats aggregates the agent's inventory by status.
func (s *CardService) Stats(agentID uint) (repository.CardStats, error) {
	if s == nil || s.cardRepo == nil || agentID == 0 {
		return repository.CardStats{}, ErrCardFetchFailed
	}
	stats, err := s.cardRepo.Stats(agentID)
	if err != nil {
		return repository.CardStats{}, ErrCardFetchFailed
	}
	return stats, nil
}

// SellCard moves a printed card to sold.
func (s *CardService) SellCard(agentID uint, serial string) (*models.RechargeCard, error) {
	return s.advanceStatus(agentID, serial, models.CardStatusSold)
}

// UseCard moves a sold card to used.
func (s *CardService) UseCard(agentID uint, serial string) (*models.RechargeCard, error) {
	return s.advanceStatus(agentID, serial, models.CardStatusUsed)
}

// advanceStatus applies one forward lifecycle move. The repository
// update re-checks the current status, so concurrent moves cannot skip
// or repeat a stage.
func (s *CardService) advanceStatus(agentID uint, serial, target string) (*models.RechargeCard, error) {
	if s == nil || s.cardRepo == nil || agentID == 0 {
		return nil, ErrCardFetchFailed
	}
	card, err := s.cardRepo.GetBySerial(agentID, serial)
	if err != nil {
		return nil, ErrCardFetchFailed
	}
	if card == nil {
		return nil, ErrCardNotFound
	}
	if !models.CanTransitionCardStatus(card.Status, target) {
		return nil, ErrCardStatusInvalid
	}

	now := time.Now()
	rows, err := s.cardRepo.UpdateStatus(card.ID, card.Status, target, now)
	if err != nil {
		return nil, ErrCardUpdateFailed
	}
	if rows == 0 {
		return nil, ErrCardStatusInvalid
	}

	updated, err := s.cardRepo.GetByID(card.ID)
	if err != nil || updated == nil {
		return nil, ErrCardFetchFailed
	}
	return updated, nil
}

// ListBatches queries the agent's print batches.
func (s *CardService) ListBatches(input CardBatchListInput) ([]models.CardBatch, int64, error) {
	if s == nil || s.batchRepo == nil || input.AgentID == 0 {
		return nil, 0, ErrBatchFetchFailed
	}
	network := strings.TrimSpace(strings.ToLower(input.Network))
	if network != "" && !constants.IsValidNetwork(network) {
		return nil, 0, ErrCardInvalid
	}
	batches, total, err := s.batchRepo.List(repository.CardBatchListFilter{
		AgentID:  input.AgentID,
		Network:  network,
		Page:     input.Page,
		PageSize: input.PageSize,
	})
	if err != nil {
		return nil, 0, ErrBatchFetchFailed
	}
	return batches, total, nil
}

// GetBatch returns one batch owned by the agent.
func (s *CardService) GetBatch(agentID, batchID uint) (*models.CardBatch, error) {
	if s == nil || s.batchRepo == nil {
		return nil, ErrBatchFetchFailed
	}
	batch, err := s.batchRepo.GetByID(batchID)
	if err != nil {
		return nil, ErrBatchFetchFailed
	}
	if batch == nil || batch.AgentID != agentID {
		return nil, ErrBatchNotFound
	}
	return batch, nil
}

// GetReceipt returns the rendered receipt of one batch.
func (s *CardService) GetReceipt(agentID, batchID uint) (*models.PrintReceipt, error) {
	if s == nil || s.receiptRepo == nil {
		return nil, ErrBatchFetchFailed
	}
	if _, err := s.GetBatch(agentID, batchID); err != nil {
		return nil, err
	}
	receipt, err := s.receiptRepo.GetByBatchID(batchID)
	if err != nil {
		return nil, ErrBatchFetchFailed
	}
	if receipt == nil {
		return nil, ErrReceiptNotFound
	}
	return receipt, nil
}

// ExportBatch renders a batch's cards as csv or txt for transfer to an
// external printer.
func (s *CardService) ExportBatch(agentID, batchID uint, format string) ([]byte, string, error) {
	if s == nil || s.cardRepo == nil {
		return nil, "", ErrCardFetchFailed
	}
	normalizedFormat := strings.TrimSpace(strings.ToLower(format))
	if normalizedFormat != constants.ExportFormatCSV && normalizedFormat != constants.ExportFormatTXT {
		return nil, "", ErrCardInvalid
	}
	if _, err := s.GetBatch(agentID, batchID); err != nil {
		return nil, "", err
	}
	cards, err := s.cardRepo.ListByBatch(batchID)
	if err != nil {
		return nil, "", ErrCardFetchFailed
	}
	if len(cards) == 0 {
		return nil, "", ErrCardNotFound
	}

	if normalizedFormat == constants.ExportFormatTXT {
		lines := make([]string, 0, len(cards))
		for _, card := range cards {
			lines = append(lines, card.SerialNumber+" "+card.PIN)
		}
		return []byte(strings.Join(lines, "\n")), "text/plain; charset=utf-8", nil
	}

	builder := &strings.Builder{}
	writer := csv.NewWriter(builder)
	if err := writer.Write([]string{
		"serial_number",
		"pin",
		"network",
		"denomination",
		"status",
		"printed_at",
	}); err != nil {
		return nil, "", ErrCardFetchFailed
	}
	for _, card := range cards {
		printedAt := ""
		if card.PrintedAt != nil {
			printedAt = card.PrintedAt.Format(time.RFC3339)
		}
		record := []string{
			card.SerialNumber,
			card.PIN,
			card.Network,
			strconv.FormatInt(card.Denomination, 10),
			card.Status,
			printedAt,
		}
		if err := writer.Write(record); err != nil {
			return nil, "", ErrCardFetchFailed
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", ErrCardFetchFailed
	}
	return []byte(builder.String()), "text/csv; charset=utf-8", nil
}
