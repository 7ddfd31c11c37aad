package housie

// ClaimType identifies one of the five winning patterns. The set is closed;
// anything outside it validates to false.
type ClaimType string

const (
	TopLine    ClaimType = "Top Line"
	MiddleLine ClaimType = "Middle Line"
	BottomLine ClaimType = "Bottom Line"
	EarlyFive  ClaimType = "Early Five"
	FullHouse  ClaimType = "Full House"
)

// AllClaimTypes lists every claimable pattern. A game is complete once each
// has a recorded claimant.
func AllClaimTypes() []ClaimType {
	return []ClaimType{TopLine, MiddleLine, BottomLine, EarlyFive, FullHouse}
}

// ParseClaimType maps a wire string onto the closed claim set.
func ParseClaimType(raw string) (ClaimType, bool) {
	switch ClaimType(raw) {
	case TopLine, MiddleLine, BottomLine, EarlyFive, FullHouse:
		return ClaimType(raw), true
	default:
		return "", false
	}
}

// ScoreDelta returns the score adjustment for a claim outcome: +50 for a
// valid full house, +30 for any other valid claim, -5 for a rejected one.
func ScoreDelta(claim ClaimType, valid bool) int {
	if !valid {
		return -5
	}
	if claim == FullHouse {
		return 50
	}
	return 30
}

// Validate reports whether a claimed pattern is currently satisfied. A number
// only counts when the player has marked it AND the host has withdrawn it.
// The function never mutates its arguments and is deterministic for
// identical inputs.
func Validate(claim ClaimType, ticket Ticket, marked, withdrawn []int) bool {
	counted := intersect(marked, withdrawn)

	switch claim {
	case TopLine:
		return covers(counted, ticket.Row(0))
	case MiddleLine:
		return covers(counted, ticket.Row(1))
	case BottomLine:
		return covers(counted, ticket.Row(2))
	case EarlyFive:
		return len(counted) >= 5
	case FullHouse:
		return covers(counted, ticket.Numbers())
	default:
		return false
	}
}

func intersect(marked, withdrawn []int) map[int]struct{} {
	drawn := make(map[int]struct{}, len(withdrawn))
	for _, n := range withdrawn {
		drawn[n] = struct{}{}
	}
	both := make(map[int]struct{}, len(marked))
	for _, n := range marked {
		if _, ok := drawn[n]; ok {
			both[n] = struct{}{}
		}
	}
	return both
}

func covers(set map[int]struct{}, required []int) bool {
	for _, n := range required {
		if _, ok := set[n]; !ok {
			return false
		}
	}
	return true
}
