package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/festive-labs/santagames-backend/internal/housie"
)

// NumberList is an ordered set of numbers stored as a JSON array column.
type NumberList []int

func (l NumberList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]int(l))
	return string(data), err
}

func (l *NumberList) Scan(src any) error {
	data, err := jsonColumnBytes(src)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, (*[]int)(l))
}

// TicketGrid stores a housie ticket as its JSON grid form (3x9, null for
// empty cells).
type TicketGrid housie.Ticket

func (g TicketGrid) Value() (driver.Value, error) {
	data, err := json.Marshal(housie.Ticket(g))
	return string(data), err
}

func (g *TicketGrid) Scan(src any) error {
	data, err := jsonColumnBytes(src)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		*g = TicketGrid{}
		return nil
	}
	return json.Unmarshal(data, (*housie.Ticket)(g))
}

func (g TicketGrid) MarshalJSON() ([]byte, error) {
	return json.Marshal(housie.Ticket(g))
}

func (g *TicketGrid) UnmarshalJSON(data []byte) error {
	return (*housie.Ticket)(g).UnmarshalJSON(data)
}

func jsonColumnBytes(src any) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, errors.New("model: unsupported json column source type")
	}
}
