package podrida

import (
	"testing"
	"time"

	"podrida-server/pkg/deck"
)

var testNicknames = []string{"ana", "beto", "carla", "dario", "elena"}

// newTestState builds a mid-hand state with crafted hands. The hands are in
// seat order; bids may be nil for a hand still in the bidding phase.
func newTestState(handIndex int, hands []string, trump string, bids map[string]int) *State {
	players := make([]*Player, len(hands))
	scores := make(map[string]*Score, len(hands))
	tricksWon := make(map[string]int, len(hands))
	for i, cards := range hands {
		players[i] = &Player{
			Nickname:   testNicknames[i],
			ConnHandle: "conn-" + testNicknames[i],
			SeatIndex:  i,
			Hand:       deck.Hand(deck.CardsFromString(cards)),
		}
		scores[testNicknames[i]] = &Score{}
		tricksWon[testNicknames[i]] = 0
	}

	if bids == nil {
		bids = make(map[string]int)
	}

	return &State{
		SeatedPlayers:    players,
		CurrentHandIndex: handIndex,
		IsHandInProgress: true,
		Bids:             bids,
		TricksWon:        tricksWon,
		CardsOnTable:     []*PlayedCard{},
		TrumpCard:        deck.CardFromString(trump),
		TurnIndex:        (dealerSeat(handIndex) + 1) % numSeats,
		Scores:           scores,
		History:          []*HandRecord{},
	}
}

// newTestGame restores a game from a crafted state with a short clear delay
func newTestGame(t *testing.T, state *State) *Game {
	t.Helper()

	game, err := Restore(nil, Options{ClearFeltDelay: time.Millisecond}, state)
	if err != nil {
		t.Fatal(err)
	}

	return game
}

// allBids returns a full set of bids keyed by nickname, in seat order
func allBids(bids ...int) map[string]int {
	m := make(map[string]int, len(bids))
	for i, bid := range bids {
		m[testNicknames[i]] = bid
	}

	return m
}

// waitForClear ticks the game until the felt clears
func waitForClear(t *testing.T, game *Game) {
	t.Helper()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		changed, err := game.Tick()
		if err != nil {
			t.Fatal(err)
		}

		if changed {
			return
		}

		time.Sleep(time.Millisecond)
	}

	t.Fatal("the felt never cleared")
}
