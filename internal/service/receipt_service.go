package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bixmobil/vest/internal/models"
	"github.com/bixmobil/vest/internal/repository"
)

// ReceiptService renders printable text receipts for committed
// batches. It runs from the worker after a print commit.
type ReceiptService struct {
	receiptRepo repository.PrintReceiptRepository
	batchRepo   repository.CardBatchRepository
	cardRepo    repository.CardRepository
	agentRepo   repository.AgentRepository
}

// NewReceiptService builds a receipt service.
func NewReceiptService(
	receiptRepo repository.PrintReceiptRepository,
	batchRepo repository.CardBatchRepository,
	cardRepo repository.CardRepository,
	agentRepo repository.AgentRepository,
) *ReceiptService {
	return &ReceiptService{
		receiptRepo: receiptRepo,
		batchRepo:   batchRepo,
		cardRepo:    cardRepo,
		agentRepo:   agentRepo,
	}
}

// BuildForBatch renders and stores the receipt of one batch. A batch
// that already has a receipt returns the stored one.
func (s *ReceiptService) BuildForBatch(batchID uint) (*models.PrintReceipt, error) {
	if s == nil || s.receiptRepo == nil || s.batchRepo == nil || s.cardRepo == nil {
		return nil, ErrReceiptBuildFailed
	}

	existing, err := s.receiptRepo.GetByBatchID(batchID)
	if err != nil {
		return nil, ErrReceiptBuildFailed
	}
	if existing != nil {
		return existing, nil
	}

	batch, err := s.batchRepo.GetByID(batchID)
	if err != nil {
		return nil, ErrReceiptBuildFailed
	}
	if batch == nil {
		return nil, ErrBatchNotFound
	}
	cards, err := s.cardRepo.ListByBatch(batchID)
	if err != nil {
		return nil, ErrReceiptBuildFailed
	}

	agentName := ""
	if s.agentRepo != nil {
		agent, agentErr := s.agentRepo.GetByID(batch.AgentID)
		if agentErr == nil && agent != nil {
			agentName = agent.BusinessName
			if agentName == "" {
				agentName = agent.Name
			}
		}
	}

	receipt := &models.PrintReceipt{
		BatchID: batch.ID,
		Content: renderReceipt(batch, cards, agentName),
	}
	if err := s.receiptRepo.Create(receipt); err != nil {
		return nil, ErrReceiptBuildFailed
	}
	return receipt, nil
}

// renderReceipt produces the fixed-width body a thermal printer can
// print as-is.
func renderReceipt(batch *models.CardBatch, cards []models.RechargeCard, agentName string) string {
	counts := make(map[int64]int)
	for _, card := range cards {
		counts[card.Denomination]++
	}
	denominations := make([]int64, 0, len(counts))
	for d := range counts {
		denominations = append(denominations, d)
	}
	sort.Slice(denominations, func(i, j int) bool { return denominations[i] < denominations[j] })

	builder := &strings.Builder{}
	line := strings.Repeat("=", 32)
	fmt.Fprintln(builder, line)
	if agentName != "" {
		fmt.Fprintf(builder, "%s\n", agentName)
	}
	fmt.Fprintf(builder, "RECHARGE CARD PRINT RECEIPT\n")
	fmt.Fprintln(builder, line)
	fmt.Fprintf(builder, "Batch:    %s\n", batch.BatchNo)
	fmt.Fprintf(builder, "Network:  %s\n", strings.ToUpper(batch.Network))
	fmt.Fprintf(builder, "Printed:  %s\n", batch.PrintedAt.Format(time.RFC3339))
	fmt.Fprintln(builder, strings.Repeat("-", 32))
	for _, d := range denominations {
		fmt.Fprintf(builder, "NGN %5d x %-4d = NGN %d\n", d, counts[d], d*int64(counts[d]))
	}
	fmt.Fprintln(builder, strings.Repeat("-", 32))
	fmt.Fprintf(builder, "Cards:      %d\n", batch.TotalCards)
	fmt.Fprintf(builder, "Value:      NGN %s\n", batch.TotalValue.String())
	fmt.Fprintf(builder, "Commission: NGN %s\n", batch.Commission.String())
	fmt.Fprintln(builder, line)
	return builder.String()
}
