package housie

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// The grid from the acceptance scenarios: row 0 holds 5, 23, 44, 67.
func scenarioTicket() Ticket {
	return Ticket{
		{5, 0, 0, 23, 0, 0, 44, 0, 67},
		{0, 12, 0, 0, 47, 0, 0, 72, 0},
		{9, 0, 31, 0, 0, 55, 0, 0, 90},
	}
}

func TestValidate(t *testing.T) {
	ticket := scenarioTicket()

	cases := []struct {
		name      string
		claim     ClaimType
		marked    []int
		withdrawn []int
		want      bool
	}{
		{
			name:      "top line with every row cell marked and withdrawn",
			claim:     TopLine,
			marked:    []int{5, 23, 44, 67},
			withdrawn: []int{5, 23, 44, 67},
			want:      true,
		},
		{
			name:      "top line missing one withdrawn number",
			claim:     TopLine,
			marked:    []int{5, 23, 44},
			withdrawn: []int{5, 23, 44},
			want:      false,
		},
		{
			name:      "top line marked but not withdrawn",
			claim:     TopLine,
			marked:    []int{5, 23, 44, 67},
			withdrawn: []int{5, 23, 44},
			want:      false,
		},
		{
			name:      "top line withdrawn but not marked",
			claim:     TopLine,
			marked:    []int{5, 23, 44},
			withdrawn: []int{5, 23, 44, 67},
			want:      false,
		},
		{
			name:      "middle line",
			claim:     MiddleLine,
			marked:    []int{12, 47, 72},
			withdrawn: []int{12, 47, 72, 1, 2},
			want:      true,
		},
		{
			name:      "bottom line incomplete",
			claim:     BottomLine,
			marked:    []int{9, 31, 55},
			withdrawn: []int{9, 31, 55},
			want:      false,
		},
		{
			name:      "early five counts marked intersect withdrawn",
			claim:     EarlyFive,
			marked:    []int{5, 23, 44, 67, 12},
			withdrawn: []int{5, 23, 44, 67, 12},
			want:      true,
		},
		{
			name:      "early five with only four counted",
			claim:     EarlyFive,
			marked:    []int{5, 23, 44, 67, 12},
			withdrawn: []int{5, 23, 44, 67},
			want:      false,
		},
		{
			name:      "full house with everything counted",
			claim:     FullHouse,
			marked:    []int{5, 23, 44, 67, 12, 47, 72, 9, 31, 55, 90},
			withdrawn: []int{5, 23, 44, 67, 12, 47, 72, 9, 31, 55, 90},
			want:      true,
		},
		{
			name:      "full house missing a cell",
			claim:     FullHouse,
			marked:    []int{5, 23, 44, 67, 12, 47, 72, 9, 31, 55},
			withdrawn: []int{5, 23, 44, 67, 12, 47, 72, 9, 31, 55},
			want:      false,
		},
		{
			name:      "unknown claim type is invalid",
			claim:     ClaimType("Corners"),
			marked:    []int{5, 23, 44, 67},
			withdrawn: []int{5, 23, 44, 67},
			want:      false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Validate(tc.claim, ticket, tc.marked, tc.withdrawn)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestValidateIsPureAndDeterministic(t *testing.T) {
	ticket := scenarioTicket()
	marked := []int{5, 23, 44, 67}
	withdrawn := []int{5, 23, 44, 67}

	first := Validate(TopLine, ticket, marked, withdrawn)
	second := Validate(TopLine, ticket, marked, withdrawn)
	require.Equal(t, first, second)

	require.Equal(t, scenarioTicket(), ticket)
	require.Equal(t, []int{5, 23, 44, 67}, marked)
	require.Equal(t, []int{5, 23, 44, 67}, withdrawn)
}

func TestEarlyFiveIgnoresTicket(t *testing.T) {
	// Counted numbers do not need to sit on the ticket at all.
	require.True(t, Validate(EarlyFive, Ticket{}, []int{1, 2, 3, 4, 5}, []int{1, 2, 3, 4, 5}))
}

func TestParseClaimType(t *testing.T) {
	for _, claim := range AllClaimTypes() {
		parsed, ok := ParseClaimType(string(claim))
		require.True(t, ok)
		require.Equal(t, claim, parsed)
	}

	_, ok := ParseClaimType("Four Corners")
	require.False(t, ok)
}

func TestScoreDelta(t *testing.T) {
	require.Equal(t, 50, ScoreDelta(FullHouse, true))
	require.Equal(t, 30, ScoreDelta(TopLine, true))
	require.Equal(t, 30, ScoreDelta(EarlyFive, true))
	require.Equal(t, -5, ScoreDelta(FullHouse, false))
	require.Equal(t, -5, ScoreDelta(MiddleLine, false))
}
