// Package ledger is an in-process coin ledger backing the liquidity engine.
// It plays the role a chain's bank module would: account balances, transfers,
// and supply issuance, behind the engine's BankKeeper interface.
package ledger

import (
	"context"
	"sync"

	"cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

var (
	ErrInvalidAddress    = errors.Register("ledger", 2, "invalid address")
	ErrInvalidCoins      = errors.Register("ledger", 3, "invalid coins")
	ErrInsufficientFunds = errors.Register("ledger", 4, "insufficient funds")
)

// Ledger is a thread-safe in-memory account ledger.
type Ledger struct {
	mu       sync.RWMutex
	balances map[string]sdk.Coins
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{balances: make(map[string]sdk.Coins)}
}

// MintCoins credits newly issued coins to an account.
func (l *Ledger) MintCoins(_ context.Context, to string, amt sdk.Coins) error {
	if to == "" {
		return ErrInvalidAddress.Wrap("mint recipient cannot be empty")
	}
	if !amt.IsValid() {
		return ErrInvalidCoins.Wrapf("invalid mint amount %s", amt)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[to] = l.balances[to].Add(amt...)
	return nil
}

// BurnCoins removes coins from an account and from supply.
func (l *Ledger) BurnCoins(_ context.Context, from string, amt sdk.Coins) error {
	if from == "" {
		return ErrInvalidAddress.Wrap("burn source cannot be empty")
	}
	if !amt.IsValid() {
		return ErrInvalidCoins.Wrapf("invalid burn amount %s", amt)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	remaining, neg := l.balances[from].SafeSub(amt...)
	if neg {
		return ErrInsufficientFunds.Wrapf("account %s has %s, needs %s", from, l.balances[from], amt)
	}
	l.setBalance(from, remaining)
	return nil
}

// SendCoins moves coins between two accounts.
func (l *Ledger) SendCoins(_ context.Context, from, to string, amt sdk.Coins) error {
	if from == "" || to == "" {
		return ErrInvalidAddress.Wrap("sender and recipient cannot be empty")
	}
	if !amt.IsValid() {
		return ErrInvalidCoins.Wrapf("invalid transfer amount %s", amt)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	remaining, neg := l.balances[from].SafeSub(amt...)
	if neg {
		return ErrInsufficientFunds.Wrapf("account %s has %s, needs %s", from, l.balances[from], amt)
	}
	l.setBalance(from, remaining)
	l.balances[to] = l.balances[to].Add(amt...)
	return nil
}

// GetBalance returns an account's balance in one denom.
func (l *Ledger) GetBalance(_ context.Context, addr, denom string) sdk.Coin {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return sdk.NewCoin(denom, l.balances[addr].AmountOf(denom))
}

// SpendableCoins returns an account's full balance.
func (l *Ledger) SpendableCoins(_ context.Context, addr string) sdk.Coins {
	l.mu.RLock()
	defer l.mu.RUnlock()

	coins := l.balances[addr]
	out := make(sdk.Coins, len(coins))
	copy(out, coins)
	return out
}

// TotalSupply sums every account's balance per denom.
func (l *Ledger) TotalSupply(_ context.Context) sdk.Coins {
	l.mu.RLock()
	defer l.mu.RUnlock()

	supply := sdk.NewCoins()
	for _, coins := range l.balances {
		supply = supply.Add(coins...)
	}
	return supply
}

// caller must hold l.mu
func (l *Ledger) setBalance(addr string, coins sdk.Coins) {
	if coins.IsZero() {
		delete(l.balances, addr)
		return
	}
	l.balances[addr] = coins
}
