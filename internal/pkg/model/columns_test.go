package model

import (
	"testing"

	"github.com/festive-labs/santagames-backend/internal/housie"
	"github.com/stretchr/testify/require"
)

func TestNumberListColumn(t *testing.T) {
	value, err := NumberList{5, 23, 44}.Value()
	require.NoError(t, err)
	require.JSONEq(t, `[5,23,44]`, value.(string))

	var scanned NumberList
	require.NoError(t, scanned.Scan(value))
	require.Equal(t, NumberList{5, 23, 44}, scanned)

	var empty NumberList
	require.NoError(t, empty.Scan(nil))
	require.Nil(t, empty)
}

func TestTicketGridColumn(t *testing.T) {
	grid := TicketGrid(housie.Generate())

	value, err := grid.Value()
	require.NoError(t, err)

	var scanned TicketGrid
	require.NoError(t, scanned.Scan(value))
	require.Equal(t, grid, scanned)
}
