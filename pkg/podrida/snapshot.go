package podrida

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"podrida-server/pkg/deck"
)

// State is the full structural serialization of a game. Restore(Snapshot())
// reproduces an observably identical game.
type State struct {
	SeatedPlayers    []*Player         `json:"seatedPlayers"`
	CurrentHandIndex int               `json:"currentHandIndex"`
	IsHandInProgress bool              `json:"isHandInProgress"`
	Bids             map[string]int    `json:"bids"`
	TricksWon        map[string]int    `json:"tricksWon"`
	CardsOnTable     []*PlayedCard     `json:"cardsOnTable"`
	LastTrick        []*PlayedCard     `json:"lastTrick,omitempty"`
	TrumpCard        *deck.Card        `json:"trumpCard,omitempty"`
	TurnIndex        int               `json:"turnIndex"`
	Scores           map[string]*Score `json:"scores"`
	History          []*HandRecord     `json:"history"`
	PendingClearAt   *time.Time        `json:"pendingClearAt,omitempty"`
}

// Snapshot returns a deep copy of the full game state
func (g *Game) Snapshot() *State {
	players := make([]*Player, len(g.seatedPlayers))
	for i, player := range g.seatedPlayers {
		players[i] = player.Clone()
	}

	bids := make(map[string]int, len(g.bids))
	for nickname, bid := range g.bids {
		bids[nickname] = bid
	}

	tricksWon := make(map[string]int, len(g.tricksWon))
	for nickname, won := range g.tricksWon {
		tricksWon[nickname] = won
	}

	scores := make(map[string]*Score, len(g.scores))
	for nickname, score := range g.scores {
		cp := *score
		scores[nickname] = &cp
	}

	var pendingClearAt *time.Time
	if g.pendingClearAt != nil {
		at := *g.pendingClearAt
		pendingClearAt = &at
	}

	return &State{
		SeatedPlayers:    players,
		CurrentHandIndex: g.currentHandIndex,
		IsHandInProgress: g.isHandInProgress,
		Bids:             bids,
		TricksWon:        tricksWon,
		CardsOnTable:     clonePlayedCards(g.cardsOnTable),
		LastTrick:        clonePlayedCards(g.lastTrick),
		TrumpCard:        g.trumpCard.Clone(),
		TurnIndex:        g.turnIndex,
		Scores:           scores,
		History:          append([]*HandRecord{}, g.history...),
		PendingClearAt:   pendingClearAt,
	}
}

// Restore builds a game from a previously snapshotted state. The state is
// validated first; an invalid state is refused rather than repaired.
func Restore(logger logrus.FieldLogger, options Options, state *State) (*Game, error) {
	if err := state.Validate(); err != nil {
		return nil, err
	}

	g := NewGame(logger, options)
	g.seatedPlayers = make([]*Player, len(state.SeatedPlayers))
	for i, player := range state.SeatedPlayers {
		g.seatedPlayers[i] = player.Clone()
	}

	g.currentHandIndex = state.CurrentHandIndex
	g.isHandInProgress = state.IsHandInProgress
	g.turnIndex = state.TurnIndex
	g.trumpCard = state.TrumpCard.Clone()
	g.cardsOnTable = clonePlayedCards(state.CardsOnTable)
	g.lastTrick = clonePlayedCards(state.LastTrick)

	g.bids = make(map[string]int, len(state.Bids))
	for nickname, bid := range state.Bids {
		g.bids[nickname] = bid
	}

	g.tricksWon = make(map[string]int, len(state.TricksWon))
	for nickname, won := range state.TricksWon {
		g.tricksWon[nickname] = won
	}

	g.scores = make(map[string]*Score, len(state.Scores))
	for nickname, score := range state.Scores {
		cp := *score
		g.scores[nickname] = &cp
	}

	g.history = append([]*HandRecord{}, state.History...)

	// a full felt restored without a clear deadline is re-armed so the
	// trick still clears after the grace period
	if state.PendingClearAt != nil {
		at := *state.PendingClearAt
		g.pendingClearAt = &at
	} else if len(g.cardsOnTable) == numSeats {
		at := time.Now().Add(g.options.ClearFeltDelay)
		g.pendingClearAt = &at
	}

	return g, nil
}

// Validate checks the structural invariants of the state
func (s *State) Validate() error {
	if s == nil {
		return InvariantViolationError{Reason: "state is nil"}
	}

	if len(s.SeatedPlayers) > numSeats {
		return InvariantViolationError{Reason: fmt.Sprintf("%d seated players exceeds the %d-seat table", len(s.SeatedPlayers), numSeats)}
	}

	if s.CurrentHandIndex < 0 || s.CurrentHandIndex > totalHands {
		return InvariantViolationError{Reason: fmt.Sprintf("hand index %d out of range", s.CurrentHandIndex)}
	}

	if s.TurnIndex < 0 || s.TurnIndex >= numSeats {
		return InvariantViolationError{Reason: fmt.Sprintf("turn index %d out of range", s.TurnIndex)}
	}

	nicknames := make(map[string]bool, len(s.SeatedPlayers))
	for i, player := range s.SeatedPlayers {
		if player == nil {
			return InvariantViolationError{Reason: fmt.Sprintf("seat %d is nil", i)}
		}

		if player.Nickname == "" {
			return InvariantViolationError{Reason: fmt.Sprintf("seat %d has an empty nickname", i)}
		}

		if player.SeatIndex != i {
			return InvariantViolationError{Reason: fmt.Sprintf("player %s has seat index %d, expected %d", player.Nickname, player.SeatIndex, i)}
		}

		if nicknames[player.Nickname] {
			return InvariantViolationError{Reason: fmt.Sprintf("duplicate nickname: %s", player.Nickname)}
		}

		nicknames[player.Nickname] = true

		if _, ok := s.Scores[player.Nickname]; !ok {
			return InvariantViolationError{Reason: fmt.Sprintf("no score entry for %s", player.Nickname)}
		}
	}

	for nickname := range s.Bids {
		if !nicknames[nickname] {
			return InvariantViolationError{Reason: fmt.Sprintf("bid recorded for unseated player %s", nickname)}
		}
	}

	for nickname := range s.TricksWon {
		if !nicknames[nickname] {
			return InvariantViolationError{Reason: fmt.Sprintf("tricks recorded for unseated player %s", nickname)}
		}
	}

	if len(s.CardsOnTable) > numSeats {
		return InvariantViolationError{Reason: fmt.Sprintf("%d cards on the table exceeds %d", len(s.CardsOnTable), numSeats)}
	}

	if err := s.validateHandInProgress(nicknames); err != nil {
		return err
	}

	return s.validateNoDuplicateCards()
}

func (s *State) validateHandInProgress(nicknames map[string]bool) error {
	if !s.IsHandInProgress {
		return nil
	}

	if len(s.SeatedPlayers) != numSeats {
		return InvariantViolationError{Reason: "a hand is in progress without five seated players"}
	}

	if s.CurrentHandIndex >= totalHands {
		return InvariantViolationError{Reason: "a hand is in progress past the final hand"}
	}

	cardCount := cardCountForHand(s.CurrentHandIndex)
	if len(s.Bids) > numSeats {
		return InvariantViolationError{Reason: "more than five bids recorded"}
	}

	sumTricks := 0
	for _, won := range s.TricksWon {
		if won < 0 {
			return InvariantViolationError{Reason: "negative trick count"}
		}

		sumTricks += won
	}

	if sumTricks > cardCount {
		return InvariantViolationError{Reason: fmt.Sprintf("%d tricks won exceeds the %d scheduled", sumTricks, cardCount)}
	}

	if isNoTrumpHand(s.CurrentHandIndex) && s.TrumpCard != nil {
		return InvariantViolationError{Reason: "trump card present during the no-trump phase"}
	}

	if !isNoTrumpHand(s.CurrentHandIndex) && s.TrumpCard == nil {
		return InvariantViolationError{Reason: "no trump card outside the no-trump phase"}
	}

	for _, pc := range s.CardsOnTable {
		if pc == nil || pc.Card == nil {
			return InvariantViolationError{Reason: "nil card on the table"}
		}

		if !nicknames[pc.Nickname] {
			return InvariantViolationError{Reason: fmt.Sprintf("card on the table from unseated player %s", pc.Nickname)}
		}
	}

	return nil
}

// validateNoDuplicateCards ensures no card appears twice across the hands,
// the felt, and the trump indicator
func (s *State) validateNoDuplicateCards() error {
	seen := make(map[deck.Card]bool)
	track := func(card *deck.Card) error {
		if card == nil {
			return InvariantViolationError{Reason: "nil card in state"}
		}

		if seen[*card] {
			return InvariantViolationError{Reason: fmt.Sprintf("card %s appears twice", card)}
		}

		seen[*card] = true
		return nil
	}

	for _, player := range s.SeatedPlayers {
		for _, card := range player.Hand {
			if err := track(card); err != nil {
				return err
			}
		}
	}

	for _, pc := range s.CardsOnTable {
		if pc == nil {
			return InvariantViolationError{Reason: "nil play on the table"}
		}

		if err := track(pc.Card); err != nil {
			return err
		}
	}

	if s.TrumpCard != nil {
		if err := track(s.TrumpCard); err != nil {
			return err
		}
	}

	return nil
}

func clonePlayedCards(cards []*PlayedCard) []*PlayedCard {
	if cards == nil {
		return nil
	}

	cloned := make([]*PlayedCard, len(cards))
	for i, pc := range cards {
		cp := *pc
		cp.Card = pc.Card.Clone()
		cloned[i] = &cp
	}

	return cloned
}
