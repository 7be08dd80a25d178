package podrida

import (
	"errors"
	"fmt"
)

// ErrIsNotPlayersTurn is returned when it's not the player's turn to bid or play
var ErrIsNotPlayersTurn = errors.New("not player's turn")

// ErrCardNotInPlayersHand happens when the player tries to play a card they don't have
var ErrCardNotInPlayersHand = errors.New("card is not in player's hand")

// ErrMustFollowSuit happens when a player holds a card of the lead suit and plays another suit
var ErrMustFollowSuit = errors.New("player must follow the lead suit")

// ErrForbiddenBid is returned when the last bidder names the bid that would make the bids add up
var ErrForbiddenBid = errors.New("the last bid cannot make the bids sum to the hand size")

// ErrBidOutOfRange is returned for a bid below zero or above the hand size
var ErrBidOutOfRange = errors.New("bid is out of range")

// ErrBiddingNotComplete happens if a card is played before all five bids are in
var ErrBiddingNotComplete = errors.New("bidding is not complete")

// ErrBiddingComplete happens if a bid is submitted after all five bids are in
var ErrBiddingComplete = errors.New("bidding is complete")

// ErrHandInProgress happens when a hand is started while one is being played
var ErrHandInProgress = errors.New("a hand is already in progress")

// ErrHandNotInProgress happens when a bid or play arrives between hands
var ErrHandNotInProgress = errors.New("no hand is in progress")

// ErrNotEnoughPlayers happens when a hand is started with fewer than five seated players
var ErrNotEnoughPlayers = errors.New("five seated players are required")

// ErrTournamentOver happens when a hand is started after the final hand
var ErrTournamentOver = errors.New("the tournament is over")

// ErrTrickNotCleared happens when a card is played while the completed trick is still showing
var ErrTrickNotCleared = errors.New("the trick has not been cleared yet")

// ErrUnknownPlayer is returned when the nickname is not seated at the table
var ErrUnknownPlayer = errors.New("player is not seated at the table")

// InvariantViolationError is a fatal error adopting or validating a game state.
// The engine refuses to repair an invalid state.
type InvariantViolationError struct {
	Reason string
}

func (e InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation: %s", e.Reason)
}
