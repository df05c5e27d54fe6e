package controller

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/websocket/v2"
	"github.com/mwhitlock/falconhunter-backend/internal/model"
	"github.com/mwhitlock/falconhunter-backend/internal/service"
	"github.com/mwhitlock/falconhunter-backend/internal/ws"
	"github.com/sirupsen/logrus"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	log := logrus.WithFields(logrus.Fields{
		"gameID":   gameID,
		"playerID": playerID,
	})

	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.WithError(err).Warn("failed to register connection")
		c.Close()
		return
	}

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.WithError(err).Debug("connection read ended")
			break
		}

		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.WithError(err).Warn("unparseable message")
			continue
		}

		if err := wsc.handleMessage(c, gameID, msg); err != nil {
			log.WithError(err).Warn("message handling failed")
			wsc.sendError(c, err.Error())
		}
	}

	wsc.gameService.UnregisterConnection(gameID, playerID)
}

func (wsc *WebSocketController) handleMessage(c *websocket.Conn, gameID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var payload movePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return err
		}
		req, err := parseMovePayload(payload)
		if err != nil {
			return wsc.sendResult(c, rejectedResult(err))
		}
		result, err := wsc.gameService.SubmitMove(gameID, req)
		if err != nil {
			return err
		}
		return wsc.sendResult(c, result)

	case ws.MessageTypeFairyEntry:
		var payload fairyEntryPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return err
		}
		square, err := model.ParseSquare(payload.Square)
		if err != nil {
			return wsc.sendResult(c, rejectedResult(err))
		}
		result, err := wsc.gameService.SubmitFairyEntry(gameID, model.FairyEntryRequest{
			Piece:  model.PieceType(payload.Piece),
			Square: square,
		})
		if err != nil {
			return err
		}
		return wsc.sendResult(c, result)

	case ws.MessageTypeFairyDecline:
		return wsc.gameService.DeclineFairyEntry(gameID)

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) sendResult(c *websocket.Conn, result model.MoveResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.WriteJSON(ws.Message{
		Type:    ws.MessageTypeMoveResult,
		Payload: json.RawMessage(payload),
	})
}

func (wsc *WebSocketController) sendError(c *websocket.Conn, errorMsg string) {
	payload, _ := json.Marshal(fiberErrorPayload{Error: errorMsg})
	c.WriteJSON(ws.Message{
		Type:    ws.MessageTypeError,
		Payload: json.RawMessage(payload),
	})
}

type fiberErrorPayload struct {
	Error string `json:"error"`
}
