package services

import "errors"

// Service errors
var (
	// Register data errors
	ErrRegistersNotLoaded = errors.New("registers not loaded")
	ErrNoPurchasesFound   = errors.New("no purchases found")
	ErrBatchNotFound      = errors.New("batch not found")

	// Expense ledger errors
	ErrExpensesNotLoaded = errors.New("expenses not loaded")

	// General errors
	ErrInvalidInput       = errors.New("invalid input")
	ErrOperationTimeout   = errors.New("operation timed out")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
)
