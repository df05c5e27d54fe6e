package model

// Candidate-move generation. Generators are pure functions of the board
// state: they respect blocking pieces and never emit a destination occupied
// by the mover's own side, but they know nothing about check. King safety is
// filtered one layer up.

var (
	rookDirs   = []Position{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}}
	bishopDirs = []Position{{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
	knightDirs = []Position{{X: 2, Y: 1}, {X: 2, Y: -1}, {X: -2, Y: 1}, {X: -2, Y: -1}, {X: 1, Y: 2}, {X: 1, Y: -2}, {X: -1, Y: 2}, {X: -1, Y: -2}}
	kingDirs   = []Position{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}, {X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
)

// forwardY is the grid-row delta that moves the given side toward the
// opponent. White sits on rows 6-7 and advances up the grid.
func forwardY(color string) int {
	if color == "white" {
		return -1
	}
	return 1
}

// falconDirs: diagonal sliding toward the opponent, straight sliding back.
func falconDirs(color string) []Position {
	fwd := forwardY(color)
	return []Position{{X: 1, Y: fwd}, {X: -1, Y: fwd}, {X: 0, Y: -fwd}}
}

// hunterDirs: straight sliding toward the opponent, diagonal sliding back.
func hunterDirs(color string) []Position {
	fwd := forwardY(color)
	return []Position{{X: 0, Y: fwd}, {X: 1, Y: -fwd}, {X: -1, Y: -fwd}}
}

func pseudoMovesForPiece(bs *BoardState, piece *Piece, enPassant *Position) []SimpleMove {
	switch piece.Type {
	case Pawn:
		return pseudoPawnMoves(bs, piece, enPassant)
	case Knight:
		return stepMoves(bs, piece, knightDirs)
	case Bishop:
		return slideMoves(bs, piece, bishopDirs)
	case Rook:
		return slideMoves(bs, piece, rookDirs)
	case Queen:
		return append(slideMoves(bs, piece, bishopDirs), slideMoves(bs, piece, rookDirs)...)
	case King:
		return stepMoves(bs, piece, kingDirs)
	case Falcon:
		return slideMoves(bs, piece, falconDirs(piece.Color))
	case Hunter:
		return slideMoves(bs, piece, hunterDirs(piece.Color))
	default:
		return []SimpleMove{}
	}
}

func slideMoves(bs *BoardState, piece *Piece, dirs []Position) []SimpleMove {
	moves := []SimpleMove{}
	for _, dir := range dirs {
		targetPos := Position{X: piece.Position.X + dir.X, Y: piece.Position.Y + dir.Y}
		for targetPos.inBounds() {
			occupant := bs.PieceAt(targetPos)
			if occupant == nil {
				moves = append(moves, SimpleMove{From: piece.Position, To: targetPos})
			} else if occupant.Color != piece.Color {
				moves = append(moves, SimpleMove{From: piece.Position, To: targetPos})
				break
			} else {
				break
			}
			targetPos = Position{X: targetPos.X + dir.X, Y: targetPos.Y + dir.Y}
		}
	}
	return moves
}

func stepMoves(bs *BoardState, piece *Piece, dirs []Position) []SimpleMove {
	moves := []SimpleMove{}
	for _, dir := range dirs {
		targetPos := Position{X: piece.Position.X + dir.X, Y: piece.Position.Y + dir.Y}
		if targetPos.inBounds() && (bs.PieceAt(targetPos) == nil || bs.PieceAt(targetPos).Color != piece.Color) {
			moves = append(moves, SimpleMove{From: piece.Position, To: targetPos})
		}
	}
	return moves
}

func pseudoPawnMoves(bs *BoardState, piece *Piece, enPassant *Position) []SimpleMove {
	pawnMoves := []SimpleMove{}
	fwd := forwardY(piece.Color)
	// Forward one, then two from the starting rank. Straight moves never
	// capture.
	oneAhead := Position{X: piece.Position.X, Y: piece.Position.Y + fwd}
	if oneAhead.inBounds() && bs.PieceAt(oneAhead) == nil {
		pawnMoves = append(pawnMoves, SimpleMove{From: piece.Position, To: oneAhead})
		twoAhead := Position{X: piece.Position.X, Y: piece.Position.Y + fwd*2}
		if !piece.HasMoved && twoAhead.inBounds() && bs.PieceAt(twoAhead) == nil {
			pawnMoves = append(pawnMoves, SimpleMove{From: piece.Position, To: twoAhead})
		}
	}
	// Diagonal captures, including onto the en passant target square.
	for _, dx := range []int{-1, 1} {
		target := Position{X: piece.Position.X + dx, Y: piece.Position.Y + fwd}
		if !target.inBounds() {
			continue
		}
		occupant := bs.PieceAt(target)
		if occupant != nil && occupant.Color != piece.Color {
			pawnMoves = append(pawnMoves, SimpleMove{From: piece.Position, To: target})
		} else if occupant == nil && enPassant != nil && *enPassant == target {
			pawnMoves = append(pawnMoves, SimpleMove{From: piece.Position, To: target})
		}
	}
	return pawnMoves
}

// pseudoAttacks lists the squares a piece currently threatens. It differs
// from pseudoMovesForPiece only for pawns, whose straight advances do not
// attack anything.
func pseudoAttacks(bs *BoardState, piece *Piece) []Position {
	if piece.Type == Pawn {
		attacks := []Position{}
		fwd := forwardY(piece.Color)
		for _, dx := range []int{-1, 1} {
			target := Position{X: piece.Position.X + dx, Y: piece.Position.Y + fwd}
			if target.inBounds() {
				attacks = append(attacks, target)
			}
		}
		return attacks
	}
	moves := pseudoMovesForPiece(bs, piece, nil)
	attacks := make([]Position, 0, len(moves))
	for _, m := range moves {
		attacks = append(attacks, m.To)
	}
	return attacks
}

// isSquareAttacked reports whether any piece of attackingColor threatens the
// square. Fairy pieces are covered by the same generators as everything
// else, so the scan stays uniform.
func isSquareAttacked(bs *BoardState, attackingColor string, pos Position) bool {
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			piece := bs.Board[y][x]
			if piece == nil || piece.Color != attackingColor {
				continue
			}
			for _, attacked := range pseudoAttacks(bs, piece) {
				if attacked == pos {
					return true
				}
			}
		}
	}
	return false
}

func isKingInCheck(bs *BoardState, color string) bool {
	return isSquareAttacked(bs, opponent(color), bs.kingPosition(color))
}

func opponent(color string) string {
	if color == "white" {
		return "black"
	}
	return "white"
}
