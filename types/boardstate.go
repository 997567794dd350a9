package types

// Cell values used in BoardState.Board.
const (
	CellBlank   = 0
	CellPlayer1 = 1
	CellPlayer2 = 2
	CellBlocked = 3
)

// BoardState is a display snapshot of an Isolation board.
// Board is indexed as Board[row][col] with the Cell* values above.
type BoardState struct {
	MoveNumber   int      `json:"move_number"`
	PlayerToMove Player   `json:"player_to_move"`
	Phase        string   `json:"phase"` // "playing", "finished"
	Board        [][]int  `json:"board"`
	Outcome      string   `json:"outcome"`
	LastMove     Position `json:"last_move"`
	// LegalMoves are the moves of PlayerToMove.
	LegalMoves []Position `json:"legal_moves"`
}

// Finished returns true if the game is over.
func (b *BoardState) Finished() bool {
	return b.Phase == "finished"
}

// Height returns the board height.
func (b *BoardState) Height() int {
	return len(b.Board)
}

// Width returns the board width.
func (b *BoardState) Width() int {
	if b.Height() == 0 {
		return 0
	}
	return len(b.Board[0])
}

// IsLegal reports whether pos is one of LegalMoves.
func (b *BoardState) IsLegal(pos Position) bool {
	for _, m := range b.LegalMoves {
		if m == pos {
			return true
		}
	}
	return false
}

// NewBoardState creates a new empty board of the given size.
func NewBoardState(width, height int) *BoardState {
	board := make([][]int, height)
	for i := range board {
		board[i] = make([]int, width)
	}
	return &BoardState{
		MoveNumber:   0,
		PlayerToMove: Player1,
		Phase:        "playing",
		Board:        board,
		LastMove:     NoMove,
	}
}
