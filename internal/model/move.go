package model

// MoveRequest is a transient per-turn value: a relocation of the piece on
// From to To, with an optional promotion choice for pawns reaching the far
// rank.
type MoveRequest struct {
	From      Position  `json:"from"`
	To        Position  `json:"to"`
	Promotion PieceType `json:"promotion"`
}

// FairyEntryRequest asks to place a reserve piece on an empty home-rank
// square. Entering a piece consumes the side's whole turn.
type FairyEntryRequest struct {
	Piece  PieceType `json:"piece"`
	Square Position  `json:"square"`
}

// Outcome classifies the result of a submitted command.
type Outcome string

const (
	OutcomeAccepted          Outcome = "accepted"
	OutcomeAcceptedCheck     Outcome = "acceptedCheck"
	OutcomeAcceptedCheckmate Outcome = "acceptedCheckmate"
	OutcomeRejected          Outcome = "rejected"
)

// MoveResult is the structured feedback for every submitted move or fairy
// entry. Rejections carry a Reason and leave game state untouched.
type MoveResult struct {
	Outcome     Outcome `json:"outcome"`
	Reason      Reason  `json:"reason,omitempty"`
	Captured    *Piece  `json:"captured,omitempty"`
	IsCheck     bool    `json:"isCheck"`
	IsCheckmate bool    `json:"isCheckmate"`
}

func rejected(reason Reason) MoveResult {
	return MoveResult{Outcome: OutcomeRejected, Reason: reason}
}

// Accepted reports whether the command mutated the game.
func (r MoveResult) Accepted() bool {
	return r.Outcome != OutcomeRejected
}

type Ply struct {
	Piece         *Piece    `json:"piece"`
	From          *Position `json:"from"`
	To            Position  `json:"to"`
	CapturedPiece *Piece    `json:"capturedPiece"`
	Promotion     PieceType `json:"promotion,omitempty"`
	Notation      string    `json:"notation"`
}

type Move struct {
	WhitePly Ply `json:"whitePly"`
	BlackPly Ply `json:"blackPly"`
}

type SimpleMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}
