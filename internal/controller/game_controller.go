package controller

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mwhitlock/falconhunter-backend/internal/model"
	"github.com/mwhitlock/falconhunter-backend/internal/service"
)

type GameController struct {
	gameService *service.GameService
}

// movePayload is the wire shape for move submission; squares arrive in
// algebraic notation ("e2").
type movePayload struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion"`
}

type fairyEntryPayload struct {
	Piece  string `json:"piece"`
	Square string `json:"square"`
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	gameID, err := gc.gameService.CreateGame()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	color, err := gc.gameService.JoinGame(gameID, playerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	gameState, err := gc.gameService.GetGameState(gameID)
	if err != nil {
		if err.Error() == "game not found" {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch game state",
		})
	}

	return c.JSON(gameState)
}

// SubmitMove relays a move to the engine. Rule rejections come back as a
// structured result with a reason, not as an opaque error.
func (gc *GameController) SubmitMove(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	var payload movePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	req, err := parseMovePayload(payload)
	if err != nil {
		return respondResult(c, rejectedResult(err))
	}

	result, err := gc.gameService.SubmitMove(gameID, req)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return respondResult(c, result)
}

// SubmitFairyEntry relays a fairy-piece entry request.
func (gc *GameController) SubmitFairyEntry(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	var payload fairyEntryPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	square, err := model.ParseSquare(payload.Square)
	if err != nil {
		return respondResult(c, rejectedResult(err))
	}

	result, err := gc.gameService.SubmitFairyEntry(gameID, model.FairyEntryRequest{
		Piece:  model.PieceType(payload.Piece),
		Square: square,
	})
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return respondResult(c, result)
}

// DeclineFairyEntry passes the entry decision, moving the turn into the
// normal move phase.
func (gc *GameController) DeclineFairyEntry(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	if err := gc.gameService.DeclineFairyEntry(gameID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Fairy entry declined",
	})
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	if err := gc.gameService.JoinMatchmaking(playerID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to join matchmaking",
		})
	}

	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

// MatchmakingEvents long-polls for a match. Responds 204 if nothing pairs up
// within the window; clients simply poll again.
func (gc *GameController) MatchmakingEvents(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	ch := make(chan string, 1)
	if err := gc.gameService.RegisterMatchmakingChannel(playerID, ch); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to register for matchmaking events",
		})
	}

	select {
	case event, ok := <-ch:
		if !ok {
			return c.SendStatus(fiber.StatusNoContent)
		}
		c.Set("Content-Type", "application/json")
		return c.SendString(event)
	case <-time.After(30 * time.Second):
		gc.gameService.UnregisterMatchmakingChannel(playerID)
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func parseMovePayload(payload movePayload) (model.MoveRequest, error) {
	from, err := model.ParseSquare(payload.From)
	if err != nil {
		return model.MoveRequest{}, err
	}
	to, err := model.ParseSquare(payload.To)
	if err != nil {
		return model.MoveRequest{}, err
	}
	return model.MoveRequest{
		From:      from,
		To:        to,
		Promotion: model.PieceType(payload.Promotion),
	}, nil
}

func rejectedResult(err error) model.MoveResult {
	var rv *model.RuleViolation
	if errors.As(err, &rv) {
		return model.MoveResult{Outcome: model.OutcomeRejected, Reason: rv.Reason}
	}
	return model.MoveResult{Outcome: model.OutcomeRejected, Reason: model.ReasonMalformedSquare}
}

func respondResult(c *fiber.Ctx, result model.MoveResult) error {
	if !result.Accepted() {
		return c.Status(fiber.StatusBadRequest).JSON(result)
	}
	return c.JSON(result)
}
