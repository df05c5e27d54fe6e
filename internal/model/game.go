package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/mwhitlock/falconhunter-backend/internal/ws"
	"github.com/sirupsen/logrus"
)

// GamePhase is the state machine governing a turn. A side holding its fairy
// privilege first decides whether to enter a piece; rejected commands leave
// the phase untouched so the caller can simply resubmit.
type GamePhase string

const (
	PhaseAwaitingFairyDecision GamePhase = "awaitingFairyDecision"
	PhaseAwaitingMove          GamePhase = "awaitingMove"
	PhaseFinished              GamePhase = "finished"
)

// The connections for a specific game
type GameConnections struct {
	connections map[string]*websocket.Conn // playerID -> connection
	mu          sync.RWMutex
}

// Game owns a single falcon-hunter match: the live board, turn sequencing,
// fairy reserves, clocks, and the observers watching it.
type Game struct {
	ID          string
	mu          sync.Mutex
	state       GameState
	rules       EntryRules
	connections *GameConnections
	whiteClock  *Clock
	blackClock  *Clock
}

type GameState struct {
	Board           *BoardState    `json:"boardState"`
	ToMove          string         `json:"toMove"`
	Phase           GamePhase      `json:"phase"`
	MoveHistory     []Move         `json:"moveHistory"`
	CapturedPieces  CapturedPieces `json:"capturedPieces"`
	FairyReserves   FairyReserves  `json:"fairyReserves"`
	IsCheck         bool           `json:"isCheck"`
	EnPassantTarget *Position      `json:"enPassantTarget"`
	Resolve         *string        `json:"resolve"`
	Players         struct {
		White ClientPlayer `json:"white"`
		Black ClientPlayer `json:"black"`
	} `json:"players"`
	LastMove *SimpleMove `json:"lastMove"`
}

// CapturedPieces lists what each side has taken from the other.
type CapturedPieces struct {
	White []Piece `json:"white"`
	Black []Piece `json:"black"`
}

func NewGame(id string) *Game {
	return &Game{
		ID:          id,
		state:       newGameState(),
		rules:       defaultEntryRules(),
		connections: NewGameConnections(),
		whiteClock:  NewClock(time.Duration(600) * time.Second),
		blackClock:  NewClock(time.Duration(600) * time.Second),
	}
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*websocket.Conn),
	}
}

func newGameState() GameState {
	state := GameState{
		Board:          newBoard(),
		ToMove:         "white",
		Phase:          PhaseAwaitingFairyDecision,
		MoveHistory:    make([]Move, 0),
		CapturedPieces: newCapturedPieces(),
	}
	state.Players.White = ClientPlayer{TimeLeft: 6000}
	state.Players.Black = ClientPlayer{TimeLeft: 6000}
	return state
}

func newCapturedPieces() CapturedPieces {
	return CapturedPieces{
		White: make([]Piece, 0),
		Black: make([]Piece, 0),
	}
}

func (g *Game) AddPlayer(playerID string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Players.White.ID == "" {
		g.state.Players.White = ClientPlayer{
			ID:       playerID,
			Color:    "white",
			TimeLeft: 6000,
		}
		return "white", nil
	}
	if g.state.Players.Black.ID == "" {
		g.state.Players.Black = ClientPlayer{
			ID:       playerID,
			Color:    "black",
			TimeLeft: 6000,
		}
		return "black", nil
	}
	return "", errors.New("game is full")
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.isPlayerInGame(playerID)
}

func (g *Game) isPlayerInGame(playerID string) bool {
	if g.state.Players.White.ID != "" && g.state.Players.White.ID == playerID {
		return true
	}
	if g.state.Players.Black.ID != "" && g.state.Players.Black.ID == playerID {
		return true
	}
	return false
}

func (g *Game) CanSpectate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.canSpectate()
}

func (g *Game) canSpectate() bool {
	return g.state.Players.White.ID == "" || g.state.Players.Black.ID == ""
}

// SubmitMove attempts a (from, to) relocation for the side to move. A
// submission while the fairy decision is still open counts as declining the
// entry for this turn; the privilege itself is kept.
func (g *Game) SubmitMove(req MoveRequest) MoveResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Phase == PhaseFinished {
		return rejected(ReasonGameOver)
	}
	if err := validateMove(g.state.Board, g.state.EnPassantTarget, g.state.ToMove, req); err != nil {
		return rejected(err.Reason)
	}
	g.state.Phase = PhaseAwaitingMove

	g.stopClock(g.state.ToMove)
	result := g.executeMove(req)
	if g.state.Phase != PhaseFinished {
		g.startClock(g.state.ToMove)
	}
	g.syncClientClocks()

	go g.broadcastState()
	return result
}

// SubmitFairyEntry places a reserve piece on the board, consuming the side's
// one-time privilege and its whole turn.
func (g *Game) SubmitFairyEntry(req FairyEntryRequest) MoveResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Phase == PhaseFinished {
		return rejected(ReasonGameOver)
	}
	if err := g.validateFairyEntry(req); err != nil {
		return rejected(err.Reason)
	}

	g.stopClock(g.state.ToMove)
	result := g.executeFairyEntry(req)
	if g.state.Phase != PhaseFinished {
		g.startClock(g.state.ToMove)
	}
	g.syncClientClocks()

	go g.broadcastState()
	return result
}

// DeclineFairyEntry keeps the privilege and moves the turn on to the normal
// move phase. It is a no-op outside the decision phase.
func (g *Game) DeclineFairyEntry() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Phase == PhaseAwaitingFairyDecision {
		g.state.Phase = PhaseAwaitingMove
	}
}

func (g *Game) validateFairyEntry(req FairyEntryRequest) *RuleViolation {
	if !req.Piece.IsFairy() {
		return violation(ReasonNotAFairyPiece)
	}
	if !req.Square.inBounds() {
		return violation(ReasonMalformedSquare)
	}
	reserve := g.state.FairyReserves.forColor(g.state.ToMove)
	if reserve.Spent {
		return violation(ReasonPrivilegeSpent)
	}
	if !g.eligibleForEntry(g.state.ToMove) {
		return violation(ReasonNotEligible)
	}
	if g.state.Board.PieceAt(req.Square) != nil {
		return violation(ReasonEntrySquareOccupied)
	}
	if !g.rules.isHomeRank(g.state.ToMove, req.Square) {
		return violation(ReasonOutsideHomeRanks)
	}
	// Entering a piece must still leave the own king safe; when in check the
	// entry has to block it.
	scratch := g.state.Board.Clone()
	scratch.Place(&Piece{Type: req.Piece, Color: g.state.ToMove, HasMoved: true}, req.Square)
	if isKingInCheck(scratch, g.state.ToMove) {
		return violation(ReasonExposesKing)
	}
	return nil
}

// eligibleForEntry applies the optional captured-major gate: a side may only
// bring in a fairy piece after losing a queen, rook, bishop, or knight.
func (g *Game) eligibleForEntry(color string) bool {
	if !g.rules.RequireCapturedMajor {
		return true
	}
	lost := g.capturedFrom(color)
	majors := 0
	for _, piece := range lost {
		if isMajor(piece.Type) {
			majors++
		}
	}
	return majors > 0
}

// capturedFrom lists the pieces the given side has lost.
func (g *Game) capturedFrom(color string) []Piece {
	if color == "white" {
		return g.state.CapturedPieces.Black
	}
	return g.state.CapturedPieces.White
}

func (g *Game) executeFairyEntry(req FairyEntryRequest) MoveResult {
	mover := g.state.ToMove
	piece := &Piece{Type: req.Piece, Color: mover, HasMoved: true}
	g.state.Board.Place(piece, req.Square)

	reserve := g.state.FairyReserves.forColor(mover)
	reserve.Spent = true
	reserve.Entered = append(reserve.Entered, req.Piece)

	ply := Ply{
		Piece:    piece,
		To:       req.Square,
		Notation: fmt.Sprintf("%s@%s", req.Piece.getPieceNotation(), req.Square.getSquareNotation()),
	}
	g.recordPly(ply)

	// A dropped piece never leaves a pawn double-step window open.
	g.state.EnPassantTarget = nil
	g.state.LastMove = &SimpleMove{From: req.Square, To: req.Square}

	return g.endTurn(nil)
}

func (g *Game) executeMove(req MoveRequest) MoveResult {
	mover := g.state.ToMove
	piece := g.state.Board.PieceAt(req.From)
	ply := g.makePly(req)

	var captured *Piece
	if target := g.state.Board.PieceAt(req.To); target != nil {
		taken := *target
		captured = &taken
	}

	// En passant capture removes a pawn that is not on the target square.
	if piece.Type == Pawn && g.state.EnPassantTarget != nil && req.To == *g.state.EnPassantTarget && captured == nil {
		victimPos := Position{X: req.To.X, Y: req.To.Y - forwardY(mover)}
		taken := *g.state.Board.PieceAt(victimPos)
		captured = &taken
		g.state.Board.Remove(victimPos)
		ply.Notation = req.From.getFileNotation() + "x" + req.To.getSquareNotation()
	}

	g.state.Board.Move(req.From, req.To)

	// Promotion: queen unless the mover picked another back-rank piece.
	if piece.Type == Pawn && req.To.Y == promotionRank(mover) {
		promoted := req.Promotion
		if promoted == "" {
			promoted = Queen
		}
		g.state.Board.PieceAt(req.To).Type = promoted
		ply.Promotion = promoted
		ply.Notation += "=" + promoted.getPieceNotation()
	}

	if captured != nil {
		g.addCapture(mover, *captured)
		ply.CapturedPiece = captured
	}

	// The en passant window lasts exactly one ply.
	g.state.EnPassantTarget = nil
	if piece.Type == Pawn && abs(req.To.Y-req.From.Y) == 2 {
		g.state.EnPassantTarget = &Position{X: req.To.X, Y: (req.To.Y + req.From.Y) / 2}
	}

	g.recordPly(ply)
	g.state.LastMove = &SimpleMove{From: req.From, To: req.To}

	return g.endTurn(captured)
}

// endTurn hands the move to the other side and settles the game-level
// verdicts: check, checkmate, stalemate, and the next phase.
func (g *Game) endTurn(captured *Piece) MoveResult {
	g.switchTurn()
	g.state.IsCheck = isKingInCheck(g.state.Board, g.state.ToMove)

	result := MoveResult{
		Outcome:  OutcomeAccepted,
		Captured: captured,
		IsCheck:  g.state.IsCheck,
	}

	if !g.hasAnyLegalAction(g.state.ToMove) {
		g.state.Phase = PhaseFinished
		if g.state.IsCheck {
			resolve := "checkmate"
			g.state.Resolve = &resolve
			result.Outcome = OutcomeAcceptedCheckmate
			result.IsCheckmate = true
		} else {
			resolve := "stalemate"
			g.state.Resolve = &resolve
		}
		return result
	}

	if g.state.IsCheck {
		result.Outcome = OutcomeAcceptedCheck
	}
	if !g.state.FairyReserves.forColor(g.state.ToMove).Spent {
		g.state.Phase = PhaseAwaitingFairyDecision
	} else {
		g.state.Phase = PhaseAwaitingMove
	}
	return result
}

// hasAnyLegalAction is the checkmate/stalemate search: every (piece,
// destination) pair, plus every possible fairy entry while the privilege is
// live.
func (g *Game) hasAnyLegalAction(color string) bool {
	if len(legalMovesForColor(g.state.Board, g.state.EnPassantTarget, color)) > 0 {
		return true
	}
	reserve := g.state.FairyReserves.forColor(color)
	if reserve.Spent || !g.eligibleForEntry(color) {
		return false
	}
	for _, square := range g.rules.homeSquares(color) {
		if g.state.Board.PieceAt(square) != nil {
			continue
		}
		scratch := g.state.Board.Clone()
		scratch.Place(&Piece{Type: Falcon, Color: color, HasMoved: true}, square)
		if !isKingInCheck(scratch, color) {
			return true
		}
	}
	return false
}

func (g *Game) addCapture(byColor string, piece Piece) {
	switch byColor {
	case "white":
		g.state.CapturedPieces.White = append(g.state.CapturedPieces.White, piece)
	case "black":
		g.state.CapturedPieces.Black = append(g.state.CapturedPieces.Black, piece)
	}
}

func (g *Game) recordPly(ply Ply) {
	if g.state.ToMove == "white" {
		g.state.MoveHistory = append(g.state.MoveHistory, Move{WhitePly: ply})
	} else {
		if len(g.state.MoveHistory) == 0 {
			g.state.MoveHistory = append(g.state.MoveHistory, Move{})
		}
		lastIdx := len(g.state.MoveHistory) - 1
		g.state.MoveHistory[lastIdx].BlackPly = ply
	}
}

func (g *Game) makePly(req MoveRequest) Ply {
	from := req.From
	piece := g.state.Board.PieceAt(req.From)
	return Ply{
		Piece:    piece,
		From:     &from,
		To:       req.To,
		Notation: g.getNotation(req),
	}
}

func (g *Game) getNotation(req MoveRequest) string {
	piece := g.state.Board.PieceAt(req.From)
	capture := ""
	if g.state.Board.PieceAt(req.To) != nil {
		capture = "x"
	}
	prefix := piece.Type.getPieceNotation()
	if piece.Type == Pawn && req.From.X != req.To.X {
		prefix = req.From.getFileNotation()
	}
	return fmt.Sprintf("%s%s%s", prefix, capture, req.To.getSquareNotation())
}

func (g *Game) switchTurn() {
	if g.state.ToMove == "white" {
		g.state.ToMove = "black"
	} else {
		g.state.ToMove = "white"
	}
}

func (g *Game) stopClock(color string) {
	if color == "white" {
		g.whiteClock.Stop()
	} else {
		g.blackClock.Stop()
	}
}

func (g *Game) startClock(color string) {
	if color == "white" {
		g.whiteClock.Start()
	} else {
		g.blackClock.Start()
	}
}

func (g *Game) syncClientClocks() {
	g.state.Players.White.TimeLeft = int(g.whiteClock.GetTimeLeft().Milliseconds() / 100)
	g.state.Players.Black.TimeLeft = int(g.blackClock.GetTimeLeft().Milliseconds() / 100)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func (g *Game) RegisterConnection(playerID string, conn *websocket.Conn) error {
	g.mu.Lock()
	isAuthorized := g.isPlayerInGame(playerID) || g.canSpectate()
	g.mu.Unlock()

	if !isAuthorized {
		return errors.New("not authorized to join this game")
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// Keep the healthy connection and reject the duplicate.
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		conn.Close()
		return nil
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()

	go g.broadcastState()
	return nil
}

func (g *Game) UnregisterConnection(playerID string) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	delete(g.connections.connections, playerID)
}

func (g *Game) broadcastState() {
	g.mu.Lock()
	jsonGameState, err := json.Marshal(g.state)
	g.mu.Unlock()
	if err != nil {
		logrus.WithError(err).WithField("gameID", g.ID).Error("failed to marshal game state")
		return
	}

	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	for playerID, conn := range g.connections.connections {
		if err := conn.WriteJSON(ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(jsonGameState),
		}); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"gameID":   g.ID,
				"playerID": playerID,
			}).Warn("dropping unreachable connection")
			delete(g.connections.connections, playerID)
		}
	}
}
