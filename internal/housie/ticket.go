// Package housie contains the rules of a Tambola (Housie) game: ticket
// generation and claim validation. Everything in here is pure computation
// over value types; persistence and transport live elsewhere.
package housie

import (
	"encoding/json"
	"math/rand/v2"
	"sort"
)

const (
	// TicketRows and TicketCols describe the classic 3x9 Tambola grid.
	TicketRows = 3
	TicketCols = 9

	// CellsPerTicket and CellsPerRow are the fill invariants every
	// generated ticket satisfies.
	CellsPerTicket = 15
	CellsPerRow    = 5

	// MaxNumber is the highest callable number.
	MaxNumber = 90
)

// Ticket is a 3x9 grid of numbers in 1..90. A zero cell is empty. Column c
// holds numbers from [10c+1, 10c+10], capped at 90, strictly increasing
// top to bottom. Tickets are immutable once generated.
type Ticket [TicketRows][TicketCols]int

// ColumnRange returns the inclusive numeric range covered by a column.
func ColumnRange(col int) (int, int) {
	lo := 10*col + 1
	hi := 10*col + 10
	if hi > MaxNumber {
		hi = MaxNumber
	}
	return lo, hi
}

// Generate produces one valid ticket. Each column first receives three
// distinct numbers from its range, sorted ascending, then each row is
// trimmed down to five filled cells by clearing random columns.
func Generate() Ticket {
	var t Ticket

	for col := 0; col < TicketCols; col++ {
		lo, hi := ColumnRange(col)
		span := hi - lo + 1

		picks := rand.Perm(span)[:TicketRows]
		sort.Ints(picks)
		for row, p := range picks {
			t[row][col] = lo + p
		}
	}

	for row := 0; row < TicketRows; row++ {
		filled := make([]int, 0, TicketCols)
		for col := 0; col < TicketCols; col++ {
			filled = append(filled, col)
		}
		for len(filled) > CellsPerRow {
			i := rand.IntN(len(filled))
			t[row][filled[i]] = 0
			filled = append(filled[:i], filled[i+1:]...)
		}
	}

	return t
}

// Row returns the filled values of one row, left to right.
func (t Ticket) Row(row int) []int {
	values := make([]int, 0, CellsPerRow)
	for col := 0; col < TicketCols; col++ {
		if t[row][col] != 0 {
			values = append(values, t[row][col])
		}
	}
	return values
}

// Numbers returns every filled value on the ticket.
func (t Ticket) Numbers() []int {
	values := make([]int, 0, CellsPerTicket)
	for row := 0; row < TicketRows; row++ {
		values = append(values, t.Row(row)...)
	}
	return values
}

// MarshalJSON serializes the grid as a 3x9 array with null for empty cells,
// the shape the frontend and the database column share.
func (t Ticket) MarshalJSON() ([]byte, error) {
	grid := make([][]*int, TicketRows)
	for row := 0; row < TicketRows; row++ {
		grid[row] = make([]*int, TicketCols)
		for col := 0; col < TicketCols; col++ {
			if t[row][col] != 0 {
				v := t[row][col]
				grid[row][col] = &v
			}
		}
	}
	return json.Marshal(grid)
}

// UnmarshalJSON is the inverse of MarshalJSON. Cells outside the 3x9 grid
// are ignored, missing cells stay empty.
func (t *Ticket) UnmarshalJSON(data []byte) error {
	var grid [][]*int
	if err := json.Unmarshal(data, &grid); err != nil {
		return err
	}
	var parsed Ticket
	for row := 0; row < TicketRows && row < len(grid); row++ {
		for col := 0; col < TicketCols && col < len(grid[row]); col++ {
			if grid[row][col] != nil {
				parsed[row][col] = *grid[row][col]
			}
		}
	}
	*t = parsed
	return nil
}
