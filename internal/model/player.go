package model

import (
	"github.com/gofiber/websocket/v2"
)

type Player struct {
	ID       string
	Color    string
	Conn     *websocket.Conn
	TimeLeft int
}

type ClientPlayer struct {
	ID       string `json:"name"`
	Color    string `json:"color"`
	TimeLeft int    `json:"timeLeft"`
}

// MatchFoundEvent is pushed to a queued player when matchmaking pairs them.
type MatchFoundEvent struct {
	GameID string `json:"gameId"`
	Color  string `json:"color"`
}

type PlayerColor string

const (
	PlayerColorWhite PlayerColor = "white"
	PlayerColorBlack PlayerColor = "black"
)
