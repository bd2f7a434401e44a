// services/errors.go
package services

import (
	"errors"
)

// Failure taxonomy for the settlement engine. Handlers map these onto
// HTTP status + a machine-readable code; none of them should ever crash
// the process.
var (
	// Input errors — rejected before any state is touched.
	ErrInvalidMove     = errors.New("move must be one of ROCK, PAPER, SCISSORS")
	ErrInvalidAmount   = errors.New("bet amount must be a positive integer")
	ErrInvalidUsername = errors.New("username must be 1-12 characters")

	// External-dependency failures — the operation aborts with no state change.
	ErrDepositUnverified  = errors.New("deposit could not be verified on-chain")
	ErrGatewayUnavailable = errors.New("chain gateway unavailable")

	// State conflict: room already joined, already cancelled, or never existed.
	// Reported uniformly so callers can't probe which it was.
	ErrRoomUnavailable = errors.New("game unavailable")

	// Abuse gate rejection on cancel.
	ErrCooldownActive = errors.New("cancel cooldown active")

	// A settlement transaction aborted mid-flight (usually a gateway failure
	// after the room was locked). The room is left WAITING and the caller may
	// safely retry the whole operation.
	ErrSettlementFailed = errors.New("settlement failed")
)

// ErrorCode returns the machine-readable kind for a settlement error,
// or "INTERNAL" for anything outside the taxonomy.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidMove):
		return "INVALID_MOVE"
	case errors.Is(err, ErrInvalidAmount):
		return "INVALID_AMOUNT"
	case errors.Is(err, ErrInvalidUsername):
		return "INVALID_USERNAME"
	case errors.Is(err, ErrDepositUnverified):
		return "DEPOSIT_UNVERIFIED"
	case errors.Is(err, ErrGatewayUnavailable):
		return "GATEWAY_UNAVAILABLE"
	case errors.Is(err, ErrRoomUnavailable):
		return "ROOM_UNAVAILABLE"
	case errors.Is(err, ErrCooldownActive):
		return "COOLDOWN_ACTIVE"
	case errors.Is(err, ErrSettlementFailed):
		return "SETTLEMENT_FAILED"
	default:
		return "INTERNAL"
	}
}
