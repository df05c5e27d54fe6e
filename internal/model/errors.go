package model

import "fmt"

// Reason identifies why the engine refused a move or a fairy entry. Reasons
// are stable strings so clients can branch on them.
type Reason string

const (
	ReasonMalformedSquare     Reason = "malformedSquare"
	ReasonGameOver            Reason = "gameOver"
	ReasonWrongTurn           Reason = "wrongTurn"
	ReasonEmptySquare         Reason = "emptySquare"
	ReasonOwnPieceAtTarget    Reason = "ownPieceAtTarget"
	ReasonNotACandidate       Reason = "notACandidate"
	ReasonExposesKing         Reason = "exposesKing"
	ReasonInvalidPromotion    Reason = "invalidPromotion"
	ReasonPrivilegeSpent      Reason = "privilegeSpent"
	ReasonNotEligible         Reason = "notEligible"
	ReasonEntrySquareOccupied Reason = "entrySquareOccupied"
	ReasonOutsideHomeRanks    Reason = "outsideHomeRanks"
	ReasonNotAFairyPiece      Reason = "notAFairyPiece"
)

// RuleViolation is returned for every rejected command. It is never fatal;
// callers are expected to re-prompt and submit again.
type RuleViolation struct {
	Reason Reason
}

func (e *RuleViolation) Error() string {
	return fmt.Sprintf("rule violation: %s", e.Reason)
}

func violation(reason Reason) *RuleViolation {
	return &RuleViolation{Reason: reason}
}
