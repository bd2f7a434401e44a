package services

import (
	"testing"

	"token-wager-system/models"
)

func TestParseMove(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"ROCK", "paper", " Scissors "} {
		if _, err := ParseMove(raw); err != nil {
			t.Fatalf("ParseMove(%q) failed: %v", raw, err)
		}
	}

	for _, raw := range []string{"", "LIZARD", "ROCK PAPER", "rockk"} {
		if _, err := ParseMove(raw); err != ErrInvalidMove {
			t.Fatalf("ParseMove(%q) = %v, want ErrInvalidMove", raw, err)
		}
	}
}

func TestResolveWinner_EqualMovesDraw(t *testing.T) {
	t.Parallel()

	for _, m := range []string{models.MoveRock, models.MovePaper, models.MoveScissors} {
		if got := ResolveWinner(m, m, "host", "joiner"); got != models.WinnerDraw {
			t.Fatalf("ResolveWinner(%s, %s) = %q, want DRAW", m, m, got)
		}
	}
}

func TestResolveWinner_CyclicDominance(t *testing.T) {
	t.Parallel()

	wins := []struct{ winner, loser string }{
		{models.MoveRock, models.MoveScissors},
		{models.MoveScissors, models.MovePaper},
		{models.MovePaper, models.MoveRock},
	}

	for _, w := range wins {
		if got := ResolveWinner(w.winner, w.loser, "host", "joiner"); got != "host" {
			t.Fatalf("host %s vs joiner %s: winner = %q, want host", w.winner, w.loser, got)
		}
		// Same pair with roles swapped attributes the win to the other id.
		if got := ResolveWinner(w.loser, w.winner, "host", "joiner"); got != "joiner" {
			t.Fatalf("host %s vs joiner %s: winner = %q, want joiner", w.loser, w.winner, got)
		}
	}
}
