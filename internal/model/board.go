package model

import "fmt"

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
	Falcon PieceType = "falcon"
	Hunter PieceType = "hunter"
)

func (p PieceType) getPieceNotation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Falcon:
		return "F"
	case Hunter:
		return "H"
	case Pawn:
		return ""
	}
	return ""
}

// IsFairy reports whether the piece type is one of the two reserve pieces.
func (p PieceType) IsFairy() bool {
	return p == Falcon || p == Hunter
}

type Piece struct {
	Type     PieceType `json:"type"`
	Color    string    `json:"color"`
	Position Position  `json:"position"`
	HasMoved bool      `json:"hasMoved"`
}

// Position addresses a board square. X is the file (0 = file a), Y is the
// grid row (0 = rank 8, 7 = rank 1), matching how the grid is stored.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) getSquareNotation() string {
	return fmt.Sprintf("%c%d", p.X+97, 8-p.Y)
}

func (p Position) getFileNotation() string {
	return fmt.Sprintf("%c", p.X+97)
}

func (p Position) inBounds() bool {
	return p.X >= 0 && p.X < 8 && p.Y >= 0 && p.Y < 8
}

// ParseSquare converts algebraic notation ("e2") into a Position. Files run
// a-h and ranks 1-8.
func ParseSquare(s string) (Position, error) {
	if len(s) != 2 {
		return Position{}, violation(ReasonMalformedSquare)
	}
	file := int(s[0] - 'a')
	rank := int(s[1] - '1')
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return Position{}, violation(ReasonMalformedSquare)
	}
	return Position{X: file, Y: 7 - rank}, nil
}

// BoardState is the mechanical 8x8 grid. It enforces no move legality of its
// own; callers must validate before mutating. King positions are tracked so
// check detection does not have to scan the grid.
type BoardState struct {
	Board             [][]*Piece `json:"board"`
	BlackKingPosition Position   `json:"blackKingPosition"`
	WhiteKingPosition Position   `json:"whiteKingPosition"`
}

// PieceAt returns the occupant of the square, or nil.
func (bs *BoardState) PieceAt(pos Position) *Piece {
	return bs.Board[pos.Y][pos.X]
}

// Place puts a piece on the square, overwriting whatever was there.
func (bs *BoardState) Place(piece *Piece, pos Position) {
	piece.Position = pos
	bs.Board[pos.Y][pos.X] = piece
	if piece.Type == King {
		bs.setKingPosition(piece.Color, pos)
	}
}

// Move relocates the occupant of from to to and returns the piece that
// previously occupied to, if any. The caller must ensure from is occupied.
func (bs *BoardState) Move(from, to Position) *Piece {
	piece := bs.Board[from.Y][from.X]
	captured := bs.Board[to.Y][to.X]
	bs.Board[from.Y][from.X] = nil
	bs.Board[to.Y][to.X] = piece
	piece.Position = to
	piece.HasMoved = true
	if piece.Type == King {
		bs.setKingPosition(piece.Color, to)
	}
	return captured
}

// Remove clears the square.
func (bs *BoardState) Remove(pos Position) {
	bs.Board[pos.Y][pos.X] = nil
}

func (bs *BoardState) setKingPosition(color string, pos Position) {
	switch color {
	case "white":
		bs.WhiteKingPosition = pos
	case "black":
		bs.BlackKingPosition = pos
	}
}

func (bs *BoardState) kingPosition(color string) Position {
	if color == "white" {
		return bs.WhiteKingPosition
	}
	return bs.BlackKingPosition
}

// Clone returns a deep copy used as the scratch board for move simulation,
// so validation never touches live game state.
func (bs *BoardState) Clone() *BoardState {
	clone := &BoardState{
		BlackKingPosition: bs.BlackKingPosition,
		WhiteKingPosition: bs.WhiteKingPosition,
	}
	for y := 0; y < 8; y++ {
		row := make([]*Piece, 8)
		for x := 0; x < 8; x++ {
			if bs.Board[y][x] != nil {
				copied := *bs.Board[y][x]
				row[x] = &copied
			}
		}
		clone.Board = append(clone.Board, row)
	}
	return clone
}

func newBoard() *BoardState {
	board := &BoardState{}
	for i := 0; i < 8; i++ {
		board.Board = append(board.Board, make([]*Piece, 8))
	}
	backRank := []PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for x, pt := range backRank {
		board.Board[0][x] = &Piece{Type: pt, Color: "black", Position: Position{X: x, Y: 0}}
		board.Board[7][x] = &Piece{Type: pt, Color: "white", Position: Position{X: x, Y: 7}}
	}
	for x := 0; x < 8; x++ {
		board.Board[1][x] = &Piece{Type: Pawn, Color: "black", Position: Position{X: x, Y: 1}}
		board.Board[6][x] = &Piece{Type: Pawn, Color: "white", Position: Position{X: x, Y: 6}}
	}
	board.BlackKingPosition = Position{X: 4, Y: 0}
	board.WhiteKingPosition = Position{X: 4, Y: 7}
	return board
}
