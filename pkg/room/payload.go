package room

import (
	"podrida-server/pkg/deck"
)

// PayloadIn is the format we expect from the JS client
type PayloadIn struct {
	Action   string     `json:"action"`
	Nickname string     `json:"nickname"`
	Bid      *int       `json:"bid,omitempty"`
	Card     *deck.Card `json:"card,omitempty"`
	Message  string     `json:"message,omitempty"`
	Token    string     `json:"token,omitempty"`
	// Context will be passed back on any outgoing message
	Context string `json:"context"`
}
