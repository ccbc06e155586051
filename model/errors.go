package model

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrAmountZero is returned when a deposit or withdrawal carries no value.
	ErrAmountZero = errors.New("amount must be greater than zero")

	// ErrDirectTransferDisabled is returned for any value sent to the vault
	// outside the deposit entry point.
	ErrDirectTransferDisabled = errors.New("direct transfers are disabled, value must enter through deposit")

	// ErrReentrantCall is returned when a mutating call arrives while another
	// mutating call on the same vault is still in flight.
	ErrReentrantCall = errors.New("vault call already in progress")
)

// CapExceededError reports a deposit that would push the aggregate balance
// above the vault's capacity limit.
type CapExceededError struct {
	Attempted *big.Int // the total the vault would have held
	Cap       *big.Int
}

func (e *CapExceededError) Error() string {
	return fmt.Sprintf("vault capacity exceeded: attempted total %s is above cap %s", e.Attempted, e.Cap)
}

// WithdrawLimitError reports a single withdrawal above the per-call ceiling.
type WithdrawLimitError struct {
	Amount *big.Int
	Limit  *big.Int
}

func (e *WithdrawLimitError) Error() string {
	return fmt.Sprintf("withdrawal limit exceeded: requested %s, per-call limit is %s", e.Amount, e.Limit)
}

// InsufficientBalanceError reports a withdrawal above the account's balance.
type InsufficientBalanceError struct {
	Amount  *big.Int
	Balance *big.Int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: requested %s, account holds %s", e.Amount, e.Balance)
}

// TransferFailedError reports a failed outbound payout. The withdrawal that
// triggered it has been rolled back in full.
type TransferFailedError struct {
	Err error
}

func (e *TransferFailedError) Error() string {
	return fmt.Sprintf("outbound transfer failed: %v", e.Err)
}

func (e *TransferFailedError) Unwrap() error {
	return e.Err
}
