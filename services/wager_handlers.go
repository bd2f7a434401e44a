// services/wager_handlers.go — fiber boundary for the settlement engine.
package services

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// httpStatusFor maps the settlement error taxonomy onto HTTP statuses.
// Everything here is a structured failure result, never a crash.
func httpStatusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidMove),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidUsername),
		errors.Is(err, ErrDepositUnverified):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrRoomUnavailable):
		return fiber.StatusConflict
	case errors.Is(err, ErrCooldownActive):
		return fiber.StatusTooManyRequests
	case errors.Is(err, ErrGatewayUnavailable),
		errors.Is(err, ErrSettlementFailed):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, err error) error {
	status := httpStatusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("❌ [WAGER] %s %s failed: %v", c.Method(), c.Path(), err)
		return c.Status(status).JSON(fiber.Map{"error": "internal error", "code": ErrorCode(err)})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error(), "code": ErrorCode(err)})
}

// CreateGame handles POST /create-game.
func (s *WagerService) CreateGame(c *fiber.Ctx) error {
	var req struct {
		HostAddress string `json:"hostAddress"`
		Move        string `json:"move"`
		Amount      int64  `json:"amount"`
		TxHash      string `json:"txHash"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.HostAddress == "" || req.TxHash == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "hostAddress and txHash are required"})
	}

	gameID, err := s.CreateRoom(c.Context(), req.HostAddress, req.Move, req.Amount, req.TxHash)
	if err != nil {
		return respondError(c, err)
	}

	log.Printf("🎲 Room %s opened by %s (bet %d)", gameID, req.HostAddress, req.Amount)
	return c.JSON(fiber.Map{"success": true, "gameId": gameID})
}

// JoinGame handles POST /join-game.
func (s *WagerService) JoinGame(c *fiber.Ctx) error {
	var req struct {
		GameID        string `json:"gameId"`
		JoinerAddress string `json:"joinerAddress"`
		JoinerMove    string `json:"joinerMove"`
		TxHash        string `json:"txHash"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.GameID == "" || req.JoinerAddress == "" || req.TxHash == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "gameId, joinerAddress and txHash are required"})
	}

	result, err := s.JoinRoom(c.Context(), req.GameID, req.JoinerAddress, req.JoinerMove, req.TxHash)
	if err != nil {
		return respondError(c, err)
	}

	log.Printf("🏁 Room %s settled: winner=%s", req.GameID, result.Winner)
	return c.JSON(fiber.Map{
		"success":  true,
		"winner":   result.Winner,
		"hostMove": result.HostMove,
		"myMove":   result.JoinerMove,
	})
}

// CancelGame handles POST /cancel-game.
func (s *WagerService) CancelGame(c *fiber.Ctx) error {
	var req struct {
		GameID           string `json:"gameId"`
		RequesterAddress string `json:"requesterAddress"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.GameID == "" || req.RequesterAddress == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "gameId and requesterAddress are required"})
	}

	if err := s.CancelRoom(c.Context(), req.GameID, req.RequesterAddress); err != nil {
		return respondError(c, err)
	}

	log.Printf("↩️  Room %s cancelled by %s", req.GameID, req.RequesterAddress)
	return c.JSON(fiber.Map{"success": true})
}

// UpdateUsername handles POST /update-username.
func (s *WagerService) UpdateUsername(c *fiber.Ctx) error {
	var req struct {
		WalletAddress string `json:"walletAddress"`
		NewUsername   string `json:"newUsername"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.WalletAddress == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "walletAddress is required"})
	}

	username, err := s.SetUsername(c.Context(), req.WalletAddress, req.NewUsername)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "username": username})
}

// GetOpenGames handles GET /games — the room-list query collaborator.
// Live delivery of updates is the client's subscription concern.
func (s *WagerService) GetOpenGames(c *fiber.Ctx) error {
	rooms, err := s.ListOpenRooms(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "games": rooms})
}
