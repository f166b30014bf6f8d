package service

import (
	"strings"
	"time"

	"github.com/bixmobil/vest/internal/constants"
	"github.com/bixmobil/vest/internal/models"
	"github.com/bixmobil/vest/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WalletService maintains agent wallet balances and the wallet ledger.
type WalletService struct {
	walletRepo repository.WalletRepository
}

// WalletCreditInput describes one wallet credit.
type WalletCreditInput struct {
	AgentID   uint
	Amount    models.Money
	TxnType   string
	Reference string
	Remark    string
}

// WalletTransactionListInput filters wallet ledger queries.
type WalletTransactionListInput struct {
	AgentID     uint
	Type        string
	Direction   string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Page        int
	PageSize    int
}

// NewWalletService builds a wallet service.
func NewWalletService(walletRepo repository.WalletRepository) *WalletService {
	return &WalletService{walletRepo: walletRepo}
}

// GetAccount returns an agent's wallet account, creating an empty one
// on first access.
func (s *WalletService) GetAccount(agentID uint) (*models.WalletAccount, error) {
	if s == nil || s.walletRepo == nil || agentID == 0 {
		return nil, ErrWalletFetchFailed
	}
	account, err := s.walletRepo.GetAccountByAgentID(agentID)
	if err != nil {
		return nil, ErrWalletFetchFailed
	}
	if account == nil {
		account = &models.WalletAccount{AgentID: agentID}
		if err := s.walletRepo.CreateAccount(account); err != nil {
			return nil, ErrWalletAccountUpdateFailed
		}
	}
	return account, nil
}

// Credit adds funds to an agent wallet in its own transaction.
func (s *WalletService) Credit(input WalletCreditInput) (*models.WalletAccount, *models.WalletTransaction, error) {
	var (
		account *models.WalletAccount
		txn     *models.WalletTransaction
	)
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		var creditErr error
		account, txn, creditErr = s.CreditInTx(tx, input)
		return creditErr
	})
	if err != nil {
		return nil, nil, err
	}
	return account, txn, nil
}

// CreditInTx adds funds to an agent wallet inside the caller's
// transaction. A reference that already has a ledger entry returns the
// existing entry unchanged, which makes retried credits harmless.
func (s *WalletService) CreditInTx(tx *gorm.DB, input WalletCreditInput) (*models.WalletAccount, *models.WalletTransaction, error) {
	if tx == nil || s == nil || s.walletRepo == nil {
		return nil, nil, ErrWalletFetchFailed
	}
	if input.AgentID == 0 {
		return nil, nil, ErrWalletAccountNotFound
	}
	amount := input.Amount.Decimal.Round(2)
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, ErrWalletInvalidAmount
	}
	reference := strings.TrimSpace(input.Reference)
	if reference == "" {
		return nil, nil, ErrWalletTransactionCreateFailed
	}
	txnType := strings.TrimSpace(input.TxnType)
	if txnType == "" {
		txnType = constants.WalletTxnTypeCommission
	}
	now := time.Now()
	repo := s.walletRepo.WithTx(tx)

	exists, err := repo.GetTransactionByReference(reference)
	if err != nil {
		return nil, nil, err
	}
	if exists != nil {
		account, accountErr := repo.GetAccountByAgentID(input.AgentID)
		if accountErr != nil {
			return nil, nil, accountErr
		}
		if account == nil {
			account, accountErr = s.ensureAccountForUpdate(repo, input.AgentID, now)
			if accountErr != nil {
				return nil, nil, accountErr
			}
		}
		return account, exists, nil
	}

	account, err := s.ensureAccountForUpdate(repo, input.AgentID, now)
	if err != nil {
		return nil, nil, err
	}
	before := account.Balance.Decimal.Round(2)
	after := before.Add(amount).Round(2)
	account.Balance = models.NewMoneyFromDecimal(after)
	account.UpdatedAt = now
	if err := repo.UpdateAccount(account); err != nil {
		return nil, nil, ErrWalletAccountUpdateFailed
	}

	txn := &models.WalletTransaction{
		AgentID:      input.AgentID,
		Type:         txnType,
		Direction:    constants.WalletTxnDirectionIn,
		Amount:       models.NewMoneyFromDecimal(amount),
		BalanceAfter: models.NewMoneyFromDecimal(after),
		Reference:    reference,
		Remark:       strings.TrimSpace(input.Remark),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := repo.CreateTransaction(txn); err != nil {
		return nil, nil, ErrWalletTransactionCreateFailed
	}
	return account, txn, nil
}

// ListTransactions returns wallet ledger entries with pagination.
func (s *WalletService) ListTransactions(input WalletTransactionListInput) ([]models.WalletTransaction, int64, error) {
	if s == nil || s.walletRepo == nil || input.AgentID == 0 {
		return nil, 0, ErrWalletFetchFailed
	}
	filter := repository.WalletTransactionListFilter{
		AgentID:     input.AgentID,
		Type:        strings.TrimSpace(input.Type),
		Direction:   strings.TrimSpace(input.Direction),
		CreatedFrom: input.CreatedFrom,
		CreatedTo:   input.CreatedTo,
		Page:        input.Page,
		PageSize:    input.PageSize,
	}
	txns, total, err := s.walletRepo.ListTransactions(filter)
	if err != nil {
		return nil, 0, ErrWalletFetchFailed
	}
	return txns, total, nil
}

func (s *WalletService) ensureAccountForUpdate(repo *repository.GormWalletRepository, agentID uint, now time.Time) (*models.WalletAccount, error) {
	account, err := repo.GetAccountByAgentIDForUpdate(agentID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		account = &models.WalletAccount{
			AgentID:   agentID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repo.CreateAccount(account); err != nil {
			return nil, ErrWalletAccountUpdateFailed
		}
	}
	return account, nil
}
