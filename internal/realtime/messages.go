package realtime

import (
	"fmt"

	"github.com/festive-labs/santagames-backend/internal/housie"
	"github.com/festive-labs/santagames-backend/internal/pkg/utils"
)

// Wire message type tags. Field casing (withDrawnNumbers) is part of the
// wire contract with the frontend and stays as-is.
const (
	msgStartGame        = "startTambolaGame"
	msgWithdrawnNumbers = "withDrawnNumbers"
	msgMarkedNumbers    = "markedNumbers"
	msgClaim            = "claim"
)

// GameEvent is the closed set of inbound websocket events. Adding a new
// event means adding a variant here and a case to the coordinator's
// dispatch switch.
type GameEvent interface {
	isGameEvent()
	GameId() uint64
}

type StartGameEvent struct {
	TambolaGameId uint64
}

type DrawNumberEvent struct {
	TambolaGameId uint64
	CurrentNumber int
}

type MarkNumbersEvent struct {
	TambolaGameId uint64
	MarkedNumbers []int
}

type ClaimEvent struct {
	TambolaGameId uint64
	ClaimType     housie.ClaimType
}

func (StartGameEvent) isGameEvent()   {}
func (DrawNumberEvent) isGameEvent()  {}
func (MarkNumbersEvent) isGameEvent() {}
func (ClaimEvent) isGameEvent()       {}

func (e StartGameEvent) GameId() uint64   { return e.TambolaGameId }
func (e DrawNumberEvent) GameId() uint64  { return e.TambolaGameId }
func (e MarkNumbersEvent) GameId() uint64 { return e.TambolaGameId }
func (e ClaimEvent) GameId() uint64       { return e.TambolaGameId }

type inboundEnvelope struct {
	Type             string `json:"type"`
	TambolaGameId    uint64 `json:"tambolaGameId"`
	CurrentNumber    int    `json:"currentNumber"`
	WithDrawnNumbers []int  `json:"withDrawnNumbers"`
	MarkedNumbers    []int  `json:"markedNumbers"`
	ClaimType        string `json:"claimType"`
	ClaimedBy        uint64 `json:"claimedBy"`
}

// DecodeGameEvent parses one inbound frame into its typed event.
func DecodeGameEvent(data []byte) (GameEvent, error) {
	envelope, err := utils.JsonDecodeByteStream[inboundEnvelope](data)
	if err != nil {
		return nil, fmt.Errorf("malformed game event: %w", err)
	}
	if envelope.TambolaGameId == 0 {
		return nil, fmt.Errorf("game event %q is missing tambolaGameId", envelope.Type)
	}

	switch envelope.Type {
	case msgStartGame:
		return StartGameEvent{TambolaGameId: envelope.TambolaGameId}, nil
	case msgWithdrawnNumbers:
		if envelope.CurrentNumber < 1 || envelope.CurrentNumber > housie.MaxNumber {
			return nil, fmt.Errorf("drawn number %d is out of range", envelope.CurrentNumber)
		}
		return DrawNumberEvent{
			TambolaGameId: envelope.TambolaGameId,
			CurrentNumber: envelope.CurrentNumber,
		}, nil
	case msgMarkedNumbers:
		return MarkNumbersEvent{
			TambolaGameId: envelope.TambolaGameId,
			MarkedNumbers: envelope.MarkedNumbers,
		}, nil
	case msgClaim:
		claim, ok := housie.ParseClaimType(envelope.ClaimType)
		if !ok {
			return nil, fmt.Errorf("unknown claim type %q", envelope.ClaimType)
		}
		return ClaimEvent{TambolaGameId: envelope.TambolaGameId, ClaimType: claim}, nil
	default:
		return nil, fmt.Errorf("unknown game event type %q", envelope.Type)
	}
}

// Outbound shapes.

type startedMessage struct {
	Type string `json:"type"`
}

type withdrawnMessage struct {
	Type             string `json:"type"`
	WithDrawnNumbers []int  `json:"withDrawnNumbers"`
	Message          int    `json:"message"`
}

type claimMessage struct {
	Type         string   `json:"type"`
	ClaimType    string   `json:"claimType"`
	Message      string   `json:"message"`
	MarkedClaims []string `json:"markedClaims"`
	IsComplete   bool     `json:"isComplete"`
	IsValidClaim bool     `json:"isValidClaim"`
}
