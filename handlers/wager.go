// handlers/wager.go
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"token-wager-system/services"
)

func SetupWagerRoutes(app *fiber.App, wagerService *services.WagerService) {
	// Read-only room listing — still behind Gateway auth like everything else.
	app.Get("/games", wagerService.GetOpenGames)

	// Wager lifecycle. Request identity is the wallet address in the body;
	// signature verification happened client-side and on-chain before the
	// deposit the chain gateway checks.
	app.Post("/create-game", wagerService.CreateGame)
	app.Post("/join-game", wagerService.JoinGame)
	app.Post("/cancel-game", wagerService.CancelGame)
	app.Post("/update-username", wagerService.UpdateUsername)
}
