package model

// EntryRules configures fairy-piece entry. The rank span and the
// captured-major gate differ between rule write-ups, so both are settable;
// the defaults follow the house rules this server plays.
type EntryRules struct {
	// HomeRankSpan is how many of the side's home ranks accept an entering
	// fairy piece, counted from the back rank.
	HomeRankSpan int `json:"homeRankSpan"`
	// RequireCapturedMajor gates entry on having already lost a queen, rook,
	// bishop, or knight.
	RequireCapturedMajor bool `json:"requireCapturedMajor"`
}

func defaultEntryRules() EntryRules {
	return EntryRules{HomeRankSpan: 2}
}

// isHomeRank reports whether the square lies within the side's entry span.
func (r EntryRules) isHomeRank(color string, pos Position) bool {
	if color == "white" {
		return pos.Y >= 8-r.HomeRankSpan
	}
	return pos.Y < r.HomeRankSpan
}

// homeSquares lists every square in the side's entry span.
func (r EntryRules) homeSquares(color string) []Position {
	squares := []Position{}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			pos := Position{X: x, Y: y}
			if r.isHomeRank(color, pos) {
				squares = append(squares, pos)
			}
		}
	}
	return squares
}

func isMajor(pt PieceType) bool {
	switch pt {
	case Queen, Rook, Bishop, Knight:
		return true
	}
	return false
}

// FairyReserve tracks one side's entry privilege. Spent flips on a
// successful entry and never resets, even if the entered piece is later
// captured.
type FairyReserve struct {
	Spent   bool        `json:"spent"`
	Entered []PieceType `json:"entered"`
}

type FairyReserves struct {
	White FairyReserve `json:"white"`
	Black FairyReserve `json:"black"`
}

func (f *FairyReserves) forColor(color string) *FairyReserve {
	if color == "white" {
		return &f.White
	}
	return &f.Black
}
