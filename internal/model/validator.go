package model

// Move legality. Every submitted move passes through validateMove, which
// layers the universal constraints on top of the candidate-move generators:
// turn ownership, target occupancy, and own-king safety after simulating the
// move on a scratch board.

func promotionRank(color string) int {
	if color == "white" {
		return 0
	}
	return 7
}

// simulateMove applies the move to a clone of the board, including the
// removal of a pawn captured en passant, and returns the clone.
func simulateMove(bs *BoardState, enPassant *Position, from, to Position) *BoardState {
	scratch := bs.Clone()
	piece := scratch.PieceAt(from)
	if piece.Type == Pawn && enPassant != nil && to == *enPassant && scratch.PieceAt(to) == nil {
		scratch.Remove(Position{X: to.X, Y: to.Y - forwardY(piece.Color)})
	}
	scratch.Move(from, to)
	return scratch
}

func moveExposesKing(bs *BoardState, enPassant *Position, from, to Position) bool {
	mover := bs.PieceAt(from)
	scratch := simulateMove(bs, enPassant, from, to)
	return isKingInCheck(scratch, mover.Color)
}

// validateMove checks a proposed move against the full rule set without
// mutating anything. A nil return means the move is legal.
func validateMove(bs *BoardState, enPassant *Position, toMove string, req MoveRequest) *RuleViolation {
	if !req.From.inBounds() || !req.To.inBounds() {
		return violation(ReasonMalformedSquare)
	}
	piece := bs.PieceAt(req.From)
	if piece == nil {
		return violation(ReasonEmptySquare)
	}
	if piece.Color != toMove {
		return violation(ReasonWrongTurn)
	}
	if target := bs.PieceAt(req.To); target != nil && target.Color == toMove {
		return violation(ReasonOwnPieceAtTarget)
	}
	if !isCandidate(bs, piece, enPassant, req.To) {
		return violation(ReasonNotACandidate)
	}
	if piece.Type == Pawn && req.To.Y == promotionRank(piece.Color) {
		switch req.Promotion {
		case "", Queen, Rook, Bishop, Knight:
		default:
			return violation(ReasonInvalidPromotion)
		}
	}
	if moveExposesKing(bs, enPassant, req.From, req.To) {
		return violation(ReasonExposesKing)
	}
	return nil
}

func isCandidate(bs *BoardState, piece *Piece, enPassant *Position, to Position) bool {
	for _, move := range pseudoMovesForPiece(bs, piece, enPassant) {
		if move.To == to {
			return true
		}
	}
	return false
}

func legalMovesForPiece(bs *BoardState, enPassant *Position, piece *Piece) []SimpleMove {
	legalMoves := []SimpleMove{}
	for _, move := range pseudoMovesForPiece(bs, piece, enPassant) {
		if !moveExposesKing(bs, enPassant, move.From, move.To) {
			legalMoves = append(legalMoves, move)
		}
	}
	return legalMoves
}

func legalMovesForColor(bs *BoardState, enPassant *Position, color string) []SimpleMove {
	legalMoves := []SimpleMove{}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if piece := bs.Board[y][x]; piece != nil && piece.Color == color {
				legalMoves = append(legalMoves, legalMovesForPiece(bs, enPassant, piece)...)
			}
		}
	}
	return legalMoves
}
