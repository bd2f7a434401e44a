package services

import (
	"errors"
	"testing"

	"token-wager-system/models"
)

func TestComputePayouts_WinnerTakesPotMinusFee(t *testing.T) {
	t.Parallel()

	// bet 50 per side, 10% fee: pot 100, fee 10, prize 90.
	payouts, err := ComputePayouts(50, "host", "host", "joiner", 1000)
	if err != nil {
		t.Fatalf("ComputePayouts failed: %v", err)
	}
	if len(payouts) != 1 {
		t.Fatalf("expected single payout, got %+v", payouts)
	}
	if payouts[0].Recipient != "host" || payouts[0].Amount != 90 {
		t.Fatalf("expected 90 to host, got %+v", payouts[0])
	}
	if payouts[0].Kind != models.PayoutKindPrize {
		t.Fatalf("expected PRIZE kind, got %s", payouts[0].Kind)
	}
}

func TestComputePayouts_DrawRefundsBothNoFee(t *testing.T) {
	t.Parallel()

	payouts, err := ComputePayouts(50, models.WinnerDraw, "host", "joiner", 1000)
	if err != nil {
		t.Fatalf("ComputePayouts failed: %v", err)
	}
	if len(payouts) != 2 {
		t.Fatalf("expected two refunds, got %+v", payouts)
	}
	for i, recipient := range []string{"host", "joiner"} {
		if payouts[i].Recipient != recipient || payouts[i].Amount != 50 {
			t.Fatalf("expected 50 to %s, got %+v", recipient, payouts[i])
		}
		if payouts[i].Kind != models.PayoutKindDrawRefund {
			t.Fatalf("expected DRAW_REFUND kind, got %s", payouts[i].Kind)
		}
	}
}

func TestComputePayouts_FeeFloors(t *testing.T) {
	t.Parallel()

	// pot 66, 10% = 6.6 — must truncate to 6, prize 60.
	payouts, err := ComputePayouts(33, "joiner", "host", "joiner", 1000)
	if err != nil {
		t.Fatalf("ComputePayouts failed: %v", err)
	}
	if payouts[0].Amount != 60 {
		t.Fatalf("expected floored prize 60, got %d", payouts[0].Amount)
	}

	// pot 66, 1.5% = 0.99 — floors to zero fee.
	payouts, err = ComputePayouts(33, "joiner", "host", "joiner", 150)
	if err != nil {
		t.Fatalf("ComputePayouts failed: %v", err)
	}
	if payouts[0].Amount != 66 {
		t.Fatalf("expected full pot 66 with sub-unit fee, got %d", payouts[0].Amount)
	}
}

func TestComputePayouts_NeverExceedsPot(t *testing.T) {
	t.Parallel()

	bets := []int64{1, 2, 3, 7, 33, 50, 999, 1_000_000}
	rates := []int64{0, 1, 150, 1000, 3333, 9999}
	outcomes := []string{"host", "joiner", models.WinnerDraw}

	for _, bet := range bets {
		for _, rate := range rates {
			for _, outcome := range outcomes {
				payouts, err := ComputePayouts(bet, outcome, "host", "joiner", rate)
				if err != nil {
					t.Fatalf("bet=%d rate=%d outcome=%s: %v", bet, rate, outcome, err)
				}
				var sum int64
				for _, p := range payouts {
					if p.Amount < 0 {
						t.Fatalf("bet=%d rate=%d: negative payout %+v", bet, rate, p)
					}
					sum += p.Amount
				}
				if sum > 2*bet {
					t.Fatalf("bet=%d rate=%d outcome=%s: disbursed %d > pot %d", bet, rate, outcome, sum, 2*bet)
				}
			}
		}
	}
}

func TestComputePayouts_RejectsBadInput(t *testing.T) {
	t.Parallel()

	if _, err := ComputePayouts(0, "host", "host", "joiner", 1000); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("zero bet: got %v, want ErrInvalidAmount", err)
	}
	if _, err := ComputePayouts(-5, "host", "host", "joiner", 1000); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("negative bet: got %v, want ErrInvalidAmount", err)
	}
	if _, err := ComputePayouts(50, "host", "host", "joiner", 10000); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("100%% fee: got %v, want ErrInvalidAmount", err)
	}
	if _, err := ComputePayouts(50, "host", "host", "joiner", -1); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("negative fee: got %v, want ErrInvalidAmount", err)
	}
}
