package podrida

import (
	"podrida-server/pkg/deck"
)

// Player is a seated participant. The nickname is the durable identity; the
// connection handle is transient and rebound on reconnect.
type Player struct {
	Nickname   string    `json:"nickname"`
	ConnHandle string    `json:"connHandle"`
	SeatIndex  int       `json:"seatIndex"`
	Hand       deck.Hand `json:"hand"`
}

// NewPlayer returns a new player for the seat
func NewPlayer(nickname, connHandle string, seatIndex int) *Player {
	return &Player{
		Nickname:   nickname,
		ConnHandle: connHandle,
		SeatIndex:  seatIndex,
		Hand:       make(deck.Hand, 0),
	}
}

// IsConnected returns true if the player has a bound connection handle
func (p *Player) IsConnected() bool {
	return p.ConnHandle != ""
}

// Rebind binds a new connection handle, keeping seat and hand
func (p *Player) Rebind(connHandle string) {
	p.ConnHandle = connHandle
}

// Clone returns a deep copy of the player
func (p *Player) Clone() *Player {
	cp := *p
	cp.Hand = make(deck.Hand, len(p.Hand))
	for i, card := range p.Hand {
		cp.Hand[i] = card.Clone()
	}

	return &cp
}
