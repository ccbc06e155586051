package model

import (
	"context"
	"math/big"
	"sync"
)

// Version identifies the vault core. Fixed at build time.
const Version = "1.0.0"

// Transferer performs the outbound value movement of a withdrawal. It is the
// only point where control leaves the vault before a call completes, so
// implementations are treated as untrusted: a callback into the vault from
// inside Transfer is rejected by the reentrancy guard.
type Transferer interface {
	Transfer(ctx context.Context, account string, amount *big.Int) error
}

// internalSettlement settles payouts inside the custodian. It never fails.
type internalSettlement struct{}

func (internalSettlement) Transfer(context.Context, string, *big.Int) error { return nil }

// Vault is a single-asset custodial ledger. It tracks one balance per
// account and the aggregate of all balances, bounded by a capacity limit
// fixed at construction. Withdrawals are additionally bounded by a per-call
// limit and follow checks-effects-interactions: the balance table is
// updated before the payout runs, and rolled back if the payout fails.
type Vault struct {
	capacityLimit   *big.Int
	withdrawalLimit *big.Int
	payout          Transferer

	mu                   sync.RWMutex
	inCall               bool
	totalBalance         *big.Int
	balances             map[string]*big.Int
	depositCount         uint64
	withdrawalCount      uint64
	userDepositCounts    map[string]uint64
	userWithdrawalCounts map[string]uint64
}

// Stats is a point-in-time copy of the vault's aggregate state.
type Stats struct {
	TotalBalance    *big.Int `json:"total_balance"`
	CapacityLimit   *big.Int `json:"capacity_limit"`
	WithdrawalLimit *big.Int `json:"withdrawal_limit"`
	DepositCount    uint64   `json:"deposit_count"`
	WithdrawalCount uint64   `json:"withdrawal_count"`
	Accounts        int      `json:"accounts"`
	Version         string   `json:"version"`
}

// NewVault creates a vault with the given capacity and per-withdrawal
// limits. Both limits must be positive. A nil payout settles internally.
func NewVault(capacityLimit, withdrawalLimit *big.Int, payout Transferer) (*Vault, error) {
	if capacityLimit == nil || capacityLimit.Sign() <= 0 {
		return nil, ErrAmountZero
	}
	if withdrawalLimit == nil || withdrawalLimit.Sign() <= 0 {
		return nil, ErrAmountZero
	}
	if payout == nil {
		payout = internalSettlement{}
	}
	return &Vault{
		capacityLimit:        new(big.Int).Set(capacityLimit),
		withdrawalLimit:      new(big.Int).Set(withdrawalLimit),
		payout:               payout,
		totalBalance:         big.NewInt(0),
		balances:             make(map[string]*big.Int),
		userDepositCounts:    make(map[string]uint64),
		userWithdrawalCounts: make(map[string]uint64),
	}, nil
}

// enterCall acquires the reentrancy guard. A call that observes the guard
// held is rejected outright rather than queued: the vault models a
// serialized execution environment, and a second mutating call while one is
// in flight is either a reentrant callback or a caller that lost the race.
func (v *Vault) enterCall() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.inCall {
		return ErrReentrantCall
	}
	v.inCall = true
	return nil
}

func (v *Vault) exitCall() {
	v.mu.Lock()
	v.inCall = false
	v.mu.Unlock()
}

// Deposit credits amount to account, bounded by the capacity limit. The
// attached value conceptually arrives with the call, so there is no
// interaction step and no rollback path. Returns the Deposited event record.
func (v *Vault) Deposit(account string, amount *big.Int) (*Event, error) {
	if err := v.enterCall(); err != nil {
		return nil, err
	}
	defer v.exitCall()

	v.mu.Lock()
	defer v.mu.Unlock()

	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrAmountZero
	}
	attempted := new(big.Int).Add(v.totalBalance, amount)
	if attempted.Cmp(v.capacityLimit) > 0 {
		return nil, &CapExceededError{Attempted: attempted, Cap: new(big.Int).Set(v.capacityLimit)}
	}

	balance, ok := v.balances[account]
	if !ok {
		balance = big.NewInt(0)
		v.balances[account] = balance
	}
	balance.Add(balance, amount)
	v.totalBalance.Set(attempted)
	v.depositCount++
	v.userDepositCounts[account]++

	return newEvent(EventDeposited, account, amount, balance, v.totalBalance), nil
}

// Withdraw debits amount from account and pays it out through the vault's
// Transferer. Checks run first, then the state mutation commits, then the
// payout runs; a reentrant callback from the payout therefore observes the
// already-reduced balance and is rejected by the guard. If the payout fails
// the mutation is rolled back and TransferFailedError is returned, so a
// failed call leaves the vault byte-for-byte as it found it.
func (v *Vault) Withdraw(ctx context.Context, account string, amount *big.Int) (*Event, error) {
	if err := v.enterCall(); err != nil {
		return nil, err
	}
	defer v.exitCall()

	v.mu.Lock()
	if amount == nil || amount.Sign() <= 0 {
		v.mu.Unlock()
		return nil, ErrAmountZero
	}
	if amount.Cmp(v.withdrawalLimit) > 0 {
		v.mu.Unlock()
		return nil, &WithdrawLimitError{Amount: new(big.Int).Set(amount), Limit: new(big.Int).Set(v.withdrawalLimit)}
	}
	balance, ok := v.balances[account]
	if !ok || amount.Cmp(balance) > 0 {
		held := big.NewInt(0)
		if ok {
			held.Set(balance)
		}
		v.mu.Unlock()
		return nil, &InsufficientBalanceError{Amount: new(big.Int).Set(amount), Balance: held}
	}

	// Effects before the interaction.
	balance.Sub(balance, amount)
	v.totalBalance.Sub(v.totalBalance, amount)
	v.withdrawalCount++
	v.userWithdrawalCounts[account]++
	v.mu.Unlock()

	// Interaction. The guard stays held across this window; the state lock
	// does not, so balance reads stay non-blocking during the payout.
	if err := v.payout.Transfer(ctx, account, amount); err != nil {
		v.mu.Lock()
		balance.Add(balance, amount)
		v.totalBalance.Add(v.totalBalance, amount)
		v.withdrawalCount--
		v.userWithdrawalCounts[account]--
		v.mu.Unlock()
		return nil, &TransferFailedError{Err: err}
	}

	v.mu.RLock()
	defer v.mu.RUnlock()
	return newEvent(EventWithdrawn, account, amount, balance, v.totalBalance), nil
}

// BalanceOf returns the balance held for account, zero for unknown
// accounts. Pure read, never blocks behind an in-flight payout.
func (v *Vault) BalanceOf(account string) *big.Int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if balance, ok := v.balances[account]; ok {
		return new(big.Int).Set(balance)
	}
	return big.NewInt(0)
}

// ReceiveDirect rejects value arriving outside the deposit entry point.
// All intake goes through Deposit so the balance table can never silently
// diverge from the value actually held.
func (v *Vault) ReceiveDirect(*big.Int) error {
	return ErrDirectTransferDisabled
}

func (v *Vault) CapacityLimit() *big.Int {
	return new(big.Int).Set(v.capacityLimit)
}

func (v *Vault) WithdrawalLimit() *big.Int {
	return new(big.Int).Set(v.withdrawalLimit)
}

func (v *Vault) TotalBalance() *big.Int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return new(big.Int).Set(v.totalBalance)
}

func (v *Vault) DepositCount() uint64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.depositCount
}

func (v *Vault) WithdrawalCount() uint64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.withdrawalCount
}

// UserDepositCount returns the number of successful deposits made by account.
func (v *Vault) UserDepositCount(account string) uint64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.userDepositCounts[account]
}

// UserWithdrawalCount returns the number of successful withdrawals made by account.
func (v *Vault) UserWithdrawalCount(account string) uint64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.userWithdrawalCounts[account]
}

// Stats returns a consistent copy of the vault's aggregate state.
func (v *Vault) Stats() Stats {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return Stats{
		TotalBalance:    new(big.Int).Set(v.totalBalance),
		CapacityLimit:   new(big.Int).Set(v.capacityLimit),
		WithdrawalLimit: new(big.Int).Set(v.withdrawalLimit),
		DepositCount:    v.depositCount,
		WithdrawalCount: v.withdrawalCount,
		Accounts:        len(v.balances),
		Version:         Version,
	}
}
