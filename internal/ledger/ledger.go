// Package ledger provides the credit mutation primitives.
//
// All functions operate on account snapshots already read inside an
// optimistic transaction; the caller stages the mutated accounts in the
// same commit as the action the credits pay for. Balance mutation and
// the paid action sharing one atomic commit is the invariant that
// prevents double-spending, so there is deliberately no standalone
// "write the new balance" entry point here.
package ledger

import (
	"fmt"

	"github.com/chitragupt/chitragupt/internal/common"
	"github.com/chitragupt/chitragupt/internal/model"
)

// Debit reduces the account's balance by amount. It fails with
// ErrInsufficientBalance if the balance cannot cover the amount, and
// leaves the account unchanged on any failure.
func Debit(account *model.Account, amount int64) error {
	if account == nil {
		return fmt.Errorf("ledger: nil account")
	}
	if amount < 0 {
		return fmt.Errorf("ledger: negative debit amount %d", amount)
	}
	if account.CreditBalance < amount {
		return fmt.Errorf("%w: account %s has %d credits, needs %d",
			common.ErrInsufficientBalance, account.ID, account.CreditBalance, amount)
	}

	account.CreditBalance -= amount
	return nil
}

// Credit unconditionally increases the account's balance by amount.
func Credit(account *model.Account, amount int64) error {
	if account == nil {
		return fmt.Errorf("ledger: nil account")
	}
	if amount < 0 {
		return fmt.Errorf("ledger: negative credit amount %d", amount)
	}

	account.CreditBalance += amount
	return nil
}

// Transfer composes one debit with a credit per recipient as a single
// unit: either the debit succeeds and every recipient is credited, or
// nothing changes. An empty recipient list still debits the payer;
// the message-before-assignment case in chat billing relies on that.
func Transfer(from *model.Account, to []*model.Account, total, perRecipient int64) error {
	if perRecipient < 0 {
		return fmt.Errorf("ledger: negative per-recipient amount %d", perRecipient)
	}

	if err := Debit(from, total); err != nil {
		return err
	}

	for _, recipient := range to {
		if err := Credit(recipient, perRecipient); err != nil {
			// Roll the debit back so the snapshot stays consistent.
			from.CreditBalance += total
			return err
		}
	}

	return nil
}
