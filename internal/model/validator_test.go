package model

import (
	"testing"
)

func TestValidateMoveReasons(t *testing.T) {
	board := newBoard()

	tests := []struct {
		name   string
		toMove string
		from   string
		to     string
		want   Reason
	}{
		{"empty source square", "white", "c3", "c4", ReasonEmptySquare},
		{"opponent piece", "white", "f7", "f5", ReasonWrongTurn},
		{"own piece at target", "white", "h1", "g1", ReasonOwnPieceAtTarget},
		{"not a candidate destination", "white", "b1", "b3", ReasonNotACandidate},
		{"blocked sliding path", "white", "a1", "a3", ReasonNotACandidate},
		{"source equals target", "white", "e2", "e2", ReasonOwnPieceAtTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := MoveRequest{From: mustParse(t, tt.from), To: mustParse(t, tt.to)}
			err := validateMove(board, nil, tt.toMove, req)
			if err == nil {
				t.Fatalf("move %s-%s accepted, want %s", tt.from, tt.to, tt.want)
			}
			if err.Reason != tt.want {
				t.Fatalf("move %s-%s rejected with %s, want %s", tt.from, tt.to, err.Reason, tt.want)
			}
		})
	}

	if err := validateMove(board, nil, "white", MoveRequest{From: mustParse(t, "e2"), To: mustParse(t, "e4")}); err != nil {
		t.Fatalf("e2-e4 rejected: %v", err)
	}
}

func TestValidateMoveRejectsPinnedPiece(t *testing.T) {
	board := newBareBoard(
		&Piece{Type: King, Color: "white", Position: mustParse(t, "e1")},
		&Piece{Type: Rook, Color: "white", Position: mustParse(t, "e2"), HasMoved: true},
		&Piece{Type: King, Color: "black", Position: mustParse(t, "a8")},
		&Piece{Type: Rook, Color: "black", Position: mustParse(t, "e8"), HasMoved: true},
	)

	err := validateMove(board, nil, "white", MoveRequest{From: mustParse(t, "e2"), To: mustParse(t, "a2")})
	if err == nil || err.Reason != ReasonExposesKing {
		t.Fatalf("pinned rook move = %v, want exposesKing", err)
	}

	// Sliding along the pin stays legal.
	if err := validateMove(board, nil, "white", MoveRequest{From: mustParse(t, "e2"), To: mustParse(t, "e5")}); err != nil {
		t.Fatalf("move along the pin rejected: %v", err)
	}
}

func TestValidateMoveRejectsKingIntoAttack(t *testing.T) {
	board := newBareBoard(
		&Piece{Type: King, Color: "white", Position: mustParse(t, "e1")},
		&Piece{Type: King, Color: "black", Position: mustParse(t, "a8")},
		&Piece{Type: Rook, Color: "black", Position: mustParse(t, "d8"), HasMoved: true},
	)

	err := validateMove(board, nil, "white", MoveRequest{From: mustParse(t, "e1"), To: mustParse(t, "d1")})
	if err == nil || err.Reason != ReasonExposesKing {
		t.Fatalf("king stepping into rook file = %v, want exposesKing", err)
	}
	if err := validateMove(board, nil, "white", MoveRequest{From: mustParse(t, "e1"), To: mustParse(t, "f1")}); err != nil {
		t.Fatalf("safe king move rejected: %v", err)
	}
}

func TestValidateMovePromotionChoices(t *testing.T) {
	board := newBareBoard(
		&Piece{Type: King, Color: "white", Position: mustParse(t, "e1")},
		&Piece{Type: King, Color: "black", Position: mustParse(t, "h5")},
		&Piece{Type: Pawn, Color: "white", Position: mustParse(t, "a7"), HasMoved: true},
	)

	for _, promotion := range []PieceType{"", Queen, Rook, Bishop, Knight} {
		req := MoveRequest{From: mustParse(t, "a7"), To: mustParse(t, "a8"), Promotion: promotion}
		if err := validateMove(board, nil, "white", req); err != nil {
			t.Fatalf("promotion to %q rejected: %v", promotion, err)
		}
	}
	for _, promotion := range []PieceType{King, Pawn, Falcon, Hunter} {
		req := MoveRequest{From: mustParse(t, "a7"), To: mustParse(t, "a8"), Promotion: promotion}
		err := validateMove(board, nil, "white", req)
		if err == nil || err.Reason != ReasonInvalidPromotion {
			t.Fatalf("promotion to %q = %v, want invalidPromotion", promotion, err)
		}
	}
}

func TestLegalMovesForColorUnderCheck(t *testing.T) {
	// White king on e1 checked by a rook on e8: only moves off the e-file
	// or a block on the file are legal.
	board := newBareBoard(
		&Piece{Type: King, Color: "white", Position: mustParse(t, "e1")},
		&Piece{Type: Rook, Color: "white", Position: mustParse(t, "a2"), HasMoved: true},
		&Piece{Type: King, Color: "black", Position: mustParse(t, "a8")},
		&Piece{Type: Rook, Color: "black", Position: mustParse(t, "e8"), HasMoved: true},
	)

	for _, move := range legalMovesForColor(board, nil, "white") {
		scratch := simulateMove(board, nil, move.From, move.To)
		if isKingInCheck(scratch, "white") {
			t.Errorf("legal move %s-%s leaves own king in check",
				move.From.getSquareNotation(), move.To.getSquareNotation())
		}
	}

	set := destinations(legalMovesForColor(board, nil, "white"))
	if !set[mustParse(t, "e2")] {
		t.Error("blocking rook interposition a2-e2 should be legal")
	}
	if !set[mustParse(t, "d1")] {
		t.Error("king step off the file should be legal")
	}
}
