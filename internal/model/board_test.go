package model

import (
	"errors"
	"testing"
)

func mustParse(t *testing.T, square string) Position {
	t.Helper()
	pos, err := ParseSquare(square)
	if err != nil {
		t.Fatalf("parse %q: %v", square, err)
	}
	return pos
}

// newBareBoard builds an empty grid and places the given pieces.
func newBareBoard(pieces ...*Piece) *BoardState {
	board := &BoardState{}
	for i := 0; i < 8; i++ {
		board.Board = append(board.Board, make([]*Piece, 8))
	}
	for _, piece := range pieces {
		board.Place(piece, piece.Position)
	}
	return board
}

func TestParseSquare(t *testing.T) {
	tests := []struct {
		square string
		want   Position
	}{
		{"a1", Position{X: 0, Y: 7}},
		{"a8", Position{X: 0, Y: 0}},
		{"h1", Position{X: 7, Y: 7}},
		{"h8", Position{X: 7, Y: 0}},
		{"e2", Position{X: 4, Y: 6}},
		{"d5", Position{X: 3, Y: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.square, func(t *testing.T) {
			got := mustParse(t, tt.square)
			if got != tt.want {
				t.Fatalf("ParseSquare(%q) = %+v, want %+v", tt.square, got, tt.want)
			}
			if notation := got.getSquareNotation(); notation != tt.square {
				t.Fatalf("round trip of %q produced %q", tt.square, notation)
			}
		})
	}
}

func TestParseSquareRejectsMalformedInput(t *testing.T) {
	for _, square := range []string{"", "e", "e9", "e0", "i2", "Z1", "e22", "22"} {
		t.Run(square, func(t *testing.T) {
			_, err := ParseSquare(square)
			if err == nil {
				t.Fatalf("ParseSquare(%q) succeeded, want error", square)
			}
			var rv *RuleViolation
			if !errors.As(err, &rv) || rv.Reason != ReasonMalformedSquare {
				t.Fatalf("ParseSquare(%q) error = %v, want malformedSquare violation", square, err)
			}
		})
	}
}

func TestStartingPosition(t *testing.T) {
	board := newBoard()

	pieceCount := 0
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if board.Board[y][x] != nil {
				pieceCount++
			}
		}
	}
	if pieceCount != 32 {
		t.Fatalf("starting position has %d pieces, want 32", pieceCount)
	}

	if got := board.PieceAt(mustParse(t, "e1")); got == nil || got.Type != King || got.Color != "white" {
		t.Fatalf("e1 = %+v, want white king", got)
	}
	if got := board.PieceAt(mustParse(t, "e8")); got == nil || got.Type != King || got.Color != "black" {
		t.Fatalf("e8 = %+v, want black king", got)
	}
	if board.WhiteKingPosition != mustParse(t, "e1") {
		t.Fatalf("white king tracked at %+v", board.WhiteKingPosition)
	}
	if board.BlackKingPosition != mustParse(t, "e8") {
		t.Fatalf("black king tracked at %+v", board.BlackKingPosition)
	}
	if got := board.PieceAt(mustParse(t, "d1")); got == nil || got.Type != Queen {
		t.Fatalf("d1 = %+v, want white queen", got)
	}
}

func TestBoardMoveReturnsCaptured(t *testing.T) {
	board := newBareBoard(
		&Piece{Type: Rook, Color: "white", Position: mustParse(t, "a1")},
		&Piece{Type: Pawn, Color: "black", Position: mustParse(t, "a7")},
	)

	captured := board.Move(mustParse(t, "a1"), mustParse(t, "a7"))
	if captured == nil || captured.Type != Pawn || captured.Color != "black" {
		t.Fatalf("captured = %+v, want black pawn", captured)
	}
	if board.PieceAt(mustParse(t, "a1")) != nil {
		t.Fatal("source square still occupied after move")
	}
	rook := board.PieceAt(mustParse(t, "a7"))
	if rook == nil || rook.Type != Rook {
		t.Fatalf("destination = %+v, want white rook", rook)
	}
	if !rook.HasMoved {
		t.Fatal("moved piece not flagged as moved")
	}
}

func TestBoardCloneIsIndependent(t *testing.T) {
	board := newBoard()
	clone := board.Clone()

	clone.Move(mustParse(t, "e2"), mustParse(t, "e4"))

	if board.PieceAt(mustParse(t, "e2")) == nil {
		t.Fatal("mutating the clone moved a piece on the original")
	}
	if clone.PieceAt(mustParse(t, "e4")) == nil {
		t.Fatal("clone did not apply the move")
	}
	original := board.PieceAt(mustParse(t, "e2"))
	if original.HasMoved {
		t.Fatal("clone mutation leaked into the original piece")
	}
}

func TestKingPositionTracksMoves(t *testing.T) {
	board := newBareBoard(
		&Piece{Type: King, Color: "white", Position: mustParse(t, "e1")},
		&Piece{Type: King, Color: "black", Position: mustParse(t, "e8")},
	)

	board.Move(mustParse(t, "e1"), mustParse(t, "e2"))
	if board.WhiteKingPosition != mustParse(t, "e2") {
		t.Fatalf("white king tracked at %+v after move", board.WhiteKingPosition)
	}
	if board.BlackKingPosition != mustParse(t, "e8") {
		t.Fatalf("black king position changed to %+v", board.BlackKingPosition)
	}
}
