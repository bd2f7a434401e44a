// services/payout.go
package services

import (
	"fmt"

	"token-wager-system/models"
)

// FeeBpsDenominator: fee rates are expressed in basis points so the fee
// math stays in integers (a float rate would need explicit flooring).
const FeeBpsDenominator = 10000

// DefaultFeeBps is the 10% platform fee taken from the winner's pot.
const DefaultFeeBps = 1000

// PayoutInstruction is one transfer the engine asks the gateway to make.
type PayoutInstruction struct {
	Recipient string
	Amount    int64
	Kind      string
}

// ComputePayouts turns a resolved outcome into exact disbursements.
//
// Draw: each side gets its own stake back, no fee. Win: the whole pot minus
// the fee goes to the winner; the fee stays in the treasury implicitly (it is
// never a payout target here). Integer division floors the fee, so
// the sum disbursed never exceeds the pot.
func ComputePayouts(betAmount int64, winner, hostAddr, joinerAddr string, feeBps int64) ([]PayoutInstruction, error) {
	if betAmount <= 0 {
		return nil, ErrInvalidAmount
	}
	if feeBps < 0 || feeBps >= FeeBpsDenominator {
		return nil, fmt.Errorf("fee rate %d bps out of range [0, %d): %w", feeBps, FeeBpsDenominator, ErrInvalidAmount)
	}

	if winner == models.WinnerDraw {
		return []PayoutInstruction{
			{Recipient: hostAddr, Amount: betAmount, Kind: models.PayoutKindDrawRefund},
			{Recipient: joinerAddr, Amount: betAmount, Kind: models.PayoutKindDrawRefund},
		}, nil
	}

	pot := 2 * betAmount
	fee := pot * feeBps / FeeBpsDenominator
	return []PayoutInstruction{
		{Recipient: winner, Amount: pot - fee, Kind: models.PayoutKindPrize},
	}, nil
}
