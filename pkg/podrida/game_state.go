package podrida

import (
	"podrida-server/pkg/deck"
)

// GameState is the broadcast view of the table.
// This is safe for all players to see
type GameState struct {
	Players          []*GameStatePlayer `json:"players"`
	CurrentHandIndex int                `json:"currentHandIndex"`
	HandNum          int                `json:"handNum"`
	TotalHands       int                `json:"totalHands"`
	CardCount        int                `json:"cardCount"`
	HandLabel        string             `json:"handLabel"`
	Dealer           string             `json:"dealer"`
	IsHandInProgress bool               `json:"isHandInProgress"`
	IsNoTrump        bool               `json:"isNoTrump"`
	TrumpCard        *deck.Card         `json:"trumpCard"`
	Bids             map[string]int     `json:"bids"`
	BiddingComplete  bool               `json:"biddingComplete"`
	ForbiddenBid     *int               `json:"forbiddenBid"`
	TricksWon        map[string]int     `json:"tricksWon"`
	CardsOnTable     []*PlayedCard      `json:"cardsOnTable"`
	LastTrick        []*PlayedCard      `json:"lastTrick"`
	NextPlayer       string             `json:"nextPlayer"`
	Scores           map[string]*Score  `json:"scores"`
	History          []*HandRecord      `json:"history"`
	IsTournamentOver bool               `json:"isTournamentOver"`
}

// GameStatePlayer is the broadcast view of an individual player.
// This is safe for all players to see
type GameStatePlayer struct {
	Nickname    string `json:"nickname"`
	SeatIndex   int    `json:"seatIndex"`
	IsConnected bool   `json:"isConnected"`
	CardsInHand int    `json:"cardsInHand"`
	HasBid      bool   `json:"hasBid"`
	Bid         int    `json:"bid"`
	TricksWon   int    `json:"tricksWon"`
}

// PlayerState is the state for a single player.
// The hand must only be shown to the intended player
type PlayerState struct {
	GameState *GameState `json:"gameState"`
	Nickname  string     `json:"nickname"`
	SeatIndex int        `json:"seatIndex"`
	Hand      deck.Hand  `json:"hand"`
	IsMyTurn  bool       `json:"isMyTurn"`
}

// GetGameState returns the broadcast view of the table
func (g *Game) GetGameState() *GameState {
	players := make([]*GameStatePlayer, len(g.seatedPlayers))
	for i, player := range g.seatedPlayers {
		bid, hasBid := g.bids[player.Nickname]
		players[i] = &GameStatePlayer{
			Nickname:    player.Nickname,
			SeatIndex:   player.SeatIndex,
			IsConnected: player.IsConnected(),
			CardsInHand: len(player.Hand),
			HasBid:      hasBid,
			Bid:         bid,
			TricksWon:   g.tricksWon[player.Nickname],
		}
	}

	var forbiddenBid *int
	if forbidden, ok := g.ForbiddenBid(); ok {
		forbiddenBid = &forbidden
	}

	var dealer, nextPlayer string
	var cardCount int
	var label string
	if !g.IsTournamentOver() {
		cardCount = cardCountForHand(g.currentHandIndex)
		label = handLabel(g.currentHandIndex)

		if len(g.seatedPlayers) == numSeats {
			dealer = g.seatedPlayers[dealerSeat(g.currentHandIndex)].Nickname
			if g.isHandInProgress {
				nextPlayer = g.seatedPlayers[g.turnIndex].Nickname
			}
		}
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

	return &GameState{
		Players:          players,
		CurrentHandIndex: g.currentHandIndex,
		HandNum:          g.currentHandIndex + 1,
		TotalHands:       totalHands,
		CardCount:        cardCount,
		HandLabel:        label,
		Dealer:           dealer,
		IsHandInProgress: g.isHandInProgress,
		IsNoTrump:        isNoTrumpHand(g.currentHandIndex),
		TrumpCard:        g.trumpCard.Clone(),
		Bids:             bids,
		BiddingComplete:  len(g.bids) == numSeats,
		ForbiddenBid:     forbiddenBid,
		TricksWon:        tricksWon,
		CardsOnTable:     append([]*PlayedCard{}, g.cardsOnTable...),
		LastTrick:        append([]*PlayedCard{}, g.lastTrick...),
		NextPlayer:       nextPlayer,
		Scores:           scores,
		History:          append([]*HandRecord{}, g.history...),
		IsTournamentOver: g.IsTournamentOver(),
	}
}

// GetPlayerState returns the state for the given player
func (g *Game) GetPlayerState(nickname string) *PlayerState {
	state := &PlayerState{
		GameState: g.GetGameState(),
		Nickname:  nickname,
		SeatIndex: -1,
	}

	player := g.playerByNickname(nickname)
	if player == nil {
		return state
	}

	state.SeatIndex = player.SeatIndex
	state.Hand = player.Hand.Clone()
	state.IsMyTurn = g.isHandInProgress && g.turnIndex == player.SeatIndex && g.pendingClearAt == nil

	return state
}
