package service

import "errors"

// Print session errors
var (
	ErrSessionNotFound     = errors.New("print session not found")
	ErrSessionInvalid      = errors.New("print session invalid")
	ErrSessionStage        = errors.New("operation not allowed in current stage")
	ErrSessionFetchFailed  = errors.New("print session fetch failed")
	ErrSessionCreateFailed = errors.New("print session create failed")
	ErrSessionUpdateFailed = errors.New("print session update failed")
)

// Selection errors
var (
	ErrSelectionEmpty   = errors.New("denomination selection empty")
	ErrSelectionInvalid = errors.New("denomination selection invalid")
	ErrBatchTooLarge    = errors.New("batch exceeds card limit")
)

// Print commit errors
var (
	ErrCommitTokenRequired = errors.New("commit token required")
	ErrCommitConflict      = errors.New("session already committed with another token")
	ErrPrintCommitFailed   = errors.New("print commit failed")
)

// Card inventory errors
var (
	ErrCardNotFound      = errors.New("recharge card not found")
	ErrCardInvalid       = errors.New("recharge card invalid")
	ErrCardStatusInvalid = errors.New("card status transition not allowed")
	ErrCardFetchFailed   = errors.New("recharge card fetch failed")
	ErrCardUpdateFailed  = errors.New("recharge card update failed")
)

// Batch and receipt errors
var (
	ErrBatchNotFound      = errors.New("card batch not found")
	ErrBatchFetchFailed   = errors.New("card batch fetch failed")
	ErrReceiptNotFound    = errors.New("print receipt not found")
	ErrReceiptBuildFailed = errors.New("print receipt build failed")
)

// Wallet errors
var (
	ErrWalletAccountNotFound         = errors.New("wallet account not found")
	ErrWalletAccountUpdateFailed     = errors.New("wallet account update failed")
	ErrWalletInvalidAmount           = errors.New("wallet amount invalid")
	ErrWalletFetchFailed             = errors.New("wallet fetch failed")
	ErrWalletTransactionCreateFailed = errors.New("wallet transaction create failed")
)

// Agent errors
var (
	ErrAgentNotFound    = errors.New("agent not found")
	ErrAgentFetchFailed = errors.New("agent fetch failed")
)
