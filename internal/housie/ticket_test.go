package housie

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestColumnRange(t *testing.T) {
	cases := []struct {
		col int
		lo  int
		hi  int
	}{
		{col: 0, lo: 1, hi: 10},
		{col: 4, lo: 41, hi: 50},
		{col: 8, lo: 81, hi: 90},
	}

	for _, tc := range cases {
		lo, hi := ColumnRange(tc.col)
		require.Equal(t, tc.lo, lo)
		require.Equal(t, tc.hi, hi)
	}
}

func TestGenerateInvariants(t *testing.T) {
	for i := 0; i < 250; i++ {
		ticket := Generate()

		filled := 0
		for row := 0; row < TicketRows; row++ {
			rowFilled := 0
			for col := 0; col < TicketCols; col++ {
				v := ticket[row][col]
				if v == 0 {
					continue
				}
				rowFilled++
				filled++

				lo, hi := ColumnRange(col)
				require.GreaterOrEqual(t, v, lo, "cell (%d,%d) below column range", row, col)
				require.LessOrEqual(t, v, hi, "cell (%d,%d) above column range", row, col)
			}
			require.Equal(t, CellsPerRow, rowFilled, "row %d fill count", row)
		}
		require.Equal(t, CellsPerTicket, filled)

		for col := 0; col < TicketCols; col++ {
			prev := 0
			for row := 0; row < TicketRows; row++ {
				v := ticket[row][col]
				if v == 0 {
					continue
				}
				require.Greater(t, v, prev, "column %d must increase top to bottom", col)
				prev = v
			}
		}
	}
}

func TestRowAndNumbers(t *testing.T) {
	ticket := Ticket{
		{5, 0, 0, 23, 0, 0, 44, 0, 67},
		{0, 12, 0, 0, 47, 0, 0, 72, 0},
		{9, 0, 31, 0, 0, 55, 0, 0, 90},
	}

	require.Equal(t, []int{5, 23, 44, 67}, ticket.Row(0))
	require.Equal(t, []int{12, 47, 72}, ticket.Row(1))
	require.Equal(t, []int{9, 31, 55, 90}, ticket.Row(2))
	require.Equal(t, []int{5, 23, 44, 67, 12, 47, 72, 9, 31, 55, 90}, ticket.Numbers())
}

func TestTicketJSONNullCells(t *testing.T) {
	ticket := Generate()

	data, err := json.Marshal(ticket)
	require.NoError(t, err)

	var grid [][]*int
	require.NoError(t, json.Unmarshal(data, &grid))
	require.Len(t, grid, TicketRows)
	for row := range grid {
		require.Len(t, grid[row], TicketCols)
		for col, cell := range grid[row] {
			if ticket[row][col] == 0 {
				require.Nil(t, cell, "empty cell (%d,%d) must serialize as null", row, col)
			} else {
				require.NotNil(t, cell)
				require.Equal(t, ticket[row][col], *cell)
			}
		}
	}

	var parsed Ticket
	require.NoError(t, json.Unmarshal(data, &parsed))
	require.Equal(t, ticket, parsed)
}
