package podrida

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetGameState(t *testing.T) {
	a := assert.New(t)
	game := newTestGame(t, newTestState(0, []string{"9s", "5s", "6s", "7s", "14s"}, "2d", nil))

	state := game.GetGameState()
	a.Equal(1, state.HandNum)
	a.Equal(21, state.TotalHands)
	a.Equal(1, state.CardCount)
	a.Equal("subiendo", state.HandLabel)
	a.Equal("ana", state.Dealer)
	a.Equal("beto", state.NextPlayer)
	a.False(state.IsNoTrump)
	a.False(state.BiddingComplete)
	a.Nil(state.ForbiddenBid)
	a.False(state.IsTournamentOver)

	// hands are never exposed in the broadcast view
	for _, player := range state.Players {
		a.Equal(1, player.CardsInHand)
		a.False(player.HasBid)
	}

	a.NoError(game.SubmitBid("beto", 0))
	a.NoError(game.SubmitBid("carla", 0))
	a.NoError(game.SubmitBid("dario", 0))
	a.NoError(game.SubmitBid("elena", 1))

	state = game.GetGameState()
	a.NotNil(state.ForbiddenBid)
	a.Equal(0, *state.ForbiddenBid)
	a.Equal("ana", state.NextPlayer)
}

func TestGetPlayerState(t *testing.T) {
	a := assert.New(t)
	game := newTestGame(t, newTestState(0, []string{"9s", "5s", "6s", "7s", "14s"}, "2d", nil))

	state := game.GetPlayerState("beto")
	a.Equal(1, state.SeatIndex)
	a.Equal("5s", state.Hand.String())
	a.True(state.IsMyTurn)

	a.False(game.GetPlayerState("ana").IsMyTurn)

	// unknown players get the broadcast view only
	state = game.GetPlayerState("franco")
	a.Equal(-1, state.SeatIndex)
	a.Nil(state.Hand)
	a.False(state.IsMyTurn)
}
