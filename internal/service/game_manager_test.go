package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/mwhitlock/falconhunter-backend/internal/model"
)

func TestCreateGameRejectsDuplicates(t *testing.T) {
	gm := NewGameManager()

	if err := gm.CreateGame("g1"); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if err := gm.CreateGame("g1"); err == nil {
		t.Fatal("duplicate game ID accepted")
	}
}

func TestGetGameStateUnknownGame(t *testing.T) {
	gm := NewGameManager()

	if _, err := gm.GetGameState("missing"); err == nil {
		t.Fatal("expected error for unknown game")
	}
}

func TestAddPlayerToGameAssignsColors(t *testing.T) {
	gm := NewGameManager()
	if err := gm.CreateGame("g1"); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	color, err := gm.AddPlayerToGame("g1", "alice")
	if err != nil || color != "white" {
		t.Fatalf("first join = (%s, %v), want white", color, err)
	}
	color, err = gm.AddPlayerToGame("g1", "bob")
	if err != nil || color != "black" {
		t.Fatalf("second join = (%s, %v), want black", color, err)
	}
	if _, err := gm.AddPlayerToGame("g1", "carol"); err == nil {
		t.Fatal("third player accepted into a full game")
	}
}

func TestSubmitMoveThroughManager(t *testing.T) {
	gm := NewGameManager()
	if err := gm.CreateGame("g1"); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	from, err := model.ParseSquare("e2")
	if err != nil {
		t.Fatal(err)
	}
	to, err := model.ParseSquare("e4")
	if err != nil {
		t.Fatal(err)
	}

	result, err := gm.SubmitMove("g1", model.MoveRequest{From: from, To: to})
	if err != nil {
		t.Fatalf("SubmitMove: %v", err)
	}
	if !result.Accepted() {
		t.Fatalf("opening move rejected: %s", result.Reason)
	}

	state, err := gm.GetGameState("g1")
	if err != nil {
		t.Fatalf("GetGameState: %v", err)
	}
	if state.ToMove != "black" {
		t.Fatalf("toMove = %s, want black", state.ToMove)
	}

	if _, err := gm.SubmitMove("missing", model.MoveRequest{From: from, To: to}); err == nil {
		t.Fatal("expected error for unknown game")
	}
}

func TestMatchmakingPairsPlayers(t *testing.T) {
	gm := NewGameManager()

	ch1 := make(chan string, 1)
	ch2 := make(chan string, 1)
	if err := gm.RegisterMatchmakingChannel("alice", ch1); err != nil {
		t.Fatalf("RegisterMatchmakingChannel: %v", err)
	}
	if err := gm.RegisterMatchmakingChannel("bob", ch2); err != nil {
		t.Fatalf("RegisterMatchmakingChannel: %v", err)
	}
	if err := gm.JoinMatchmaking("alice"); err != nil {
		t.Fatalf("JoinMatchmaking: %v", err)
	}
	if err := gm.JoinMatchmaking("bob"); err != nil {
		t.Fatalf("JoinMatchmaking: %v", err)
	}

	// The matchmaking loop ticks once per second.
	waitEvent := func(ch chan string) model.MatchFoundEvent {
		t.Helper()
		select {
		case payload := <-ch:
			var event model.MatchFoundEvent
			if err := json.Unmarshal([]byte(payload), &event); err != nil {
				t.Fatalf("unmarshal match event: %v", err)
			}
			return event
		case <-time.After(3 * time.Second):
			t.Fatal("no match event delivered")
			return model.MatchFoundEvent{}
		}
	}

	event1 := waitEvent(ch1)
	event2 := waitEvent(ch2)

	if event1.GameID == "" || event1.GameID != event2.GameID {
		t.Fatalf("players matched into different games: %q vs %q", event1.GameID, event2.GameID)
	}
	if event1.Color == event2.Color {
		t.Fatalf("both players assigned %s", event1.Color)
	}

	state, err := gm.GetGameState(event1.GameID)
	if err != nil {
		t.Fatalf("matched game not registered: %v", err)
	}
	if state.Players.White.ID == "" || state.Players.Black.ID == "" {
		t.Fatal("matched game is missing a player")
	}
}
