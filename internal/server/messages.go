package server

import (
	"github.com/Yizune/Inventory-Manager/internal/inventory"
)

// Message types exchanged over /ws.
const (
	TypeDragStart = "dragStart"
	TypeDragEnd   = "dragEnd"
	TypeFilter    = "filter"
	TypeReset     = "reset"

	TypeState   = "state"
	TypeOutcome = "outcome"
	TypeError   = "error"
)

// State is what every front end renders: the backpack, the chest seen through
// the filter, the filter and the item being dragged, if any.
type State struct {
	Backpack []inventory.ViewSlot `json:"backpack"`
	Chest    []inventory.ViewSlot `json:"chest"`
	Filter   inventory.Filter     `json:"filter"`
	Dragging *inventory.Item      `json:"dragging"`
}

// Outcome reports a drop.
type Outcome struct {
	Kind      string `json:"kind"`
	Reason    string `json:"reason,omitempty"`
	Item      string `json:"item,omitempty"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Displaced string `json:"displaced,omitempty"`
	Text      string `json:"text"`
}

func outcomeOf(o inventory.Outcome) Outcome {
	out := Outcome{Kind: o.Kind.String(), Reason: o.Reason.String(), Text: o.String()}

	if o.Item != nil {
		out.Item = o.Item.ID
		out.From = o.From.String()
		out.To = o.To.String()
	}

	if o.Displaced != nil {
		out.Displaced = o.Displaced.ID
	}

	return out
}

// clientMessage is any message a client sends over /ws. Type selects which
// fields are read.
type clientMessage struct {
	Type     string  `json:"type"`
	Active   string  `json:"active,omitempty"`
	Over     string  `json:"over,omitempty"`
	Category *string `json:"category,omitempty"`
	Rarity   *string `json:"rarity,omitempty"`
}

// serverMessage is any message the server pushes over /ws.
type serverMessage struct {
	Type    string   `json:"type"`
	State   *State   `json:"state,omitempty"`
	Outcome *Outcome `json:"outcome,omitempty"`
	Error   string   `json:"error,omitempty"`
}

type dragStartRequest struct {
	Active string `json:"active"`
}

type dragEndRequest struct {
	Active string `json:"active"`
	Over   string `json:"over,omitempty"`
}

type filterRequest struct {
	Category *string `json:"category,omitempty"`
	Rarity   *string `json:"rarity,omitempty"`
}

type dragEndResponse struct {
	Outcome Outcome `json:"outcome"`
	State   State   `json:"state"`
}
