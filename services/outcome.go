// services/outcome.go
package services

import (
	"strings"

	"token-wager-system/models"
)

// beats maps each move to the move it defeats (standard cyclic dominance).
var beats = map[string]string{
	models.MoveRock:     models.MoveScissors,
	models.MoveScissors: models.MovePaper,
	models.MovePaper:    models.MoveRock,
}

// ParseMove normalizes and validates a client-supplied move string.
func ParseMove(raw string) (string, error) {
	move := strings.ToUpper(strings.TrimSpace(raw))
	if _, ok := beats[move]; !ok {
		return "", ErrInvalidMove
	}
	return move, nil
}

// ResolveWinner decides a match between two already-validated moves and
// returns the winning player's address, or DRAW on equal moves.
// Pure and total: no side effects, no failure modes.
func ResolveWinner(hostMove, joinerMove, hostAddr, joinerAddr string) string {
	if hostMove == joinerMove {
		return models.WinnerDraw
	}
	if beats[hostMove] == joinerMove {
		return hostAddr
	}
	return joinerAddr
}
