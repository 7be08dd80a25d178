package podrida

import (
	"time"

	"github.com/sirupsen/logrus"

	"podrida-server/pkg/deck"
)

// DefaultClearFeltDelay is how long a completed trick stays on the felt
// before it is cleared. Purely cosmetic; the winner is already decided.
const DefaultClearFeltDelay = time.Millisecond * 2500

// Options configures a game
type Options struct {
	// ClearFeltDelay is the grace period before a completed trick is cleared
	ClearFeltDelay time.Duration
}

// DefaultOptions returns the standard game options
func DefaultOptions() Options {
	return Options{
		ClearFeltDelay: DefaultClearFeltDelay,
	}
}

// PlayedCard is a card on the felt with who played it
type PlayedCard struct {
	Nickname  string     `json:"nickname"`
	Card      *deck.Card `json:"card"`
	SeatIndex int        `json:"seatIndex"`
}

// Score is a player's running tournament score
type Score struct {
	Points int `json:"points"`
	Fallas int `json:"fallas"`
}

// HandRecord is the immutable record of a completed hand
type HandRecord struct {
	HandNum   int                    `json:"handNum"`
	CardCount int                    `json:"cardCount"`
	Results   map[string]*HandResult `json:"results"`
}

// HandResult is one player's line in a HandRecord
type HandResult struct {
	Points int  `json:"pts"`
	Total  int  `json:"total"`
	Bid    int  `json:"bid"`
	Won    int  `json:"won"`
	Falla  bool `json:"falla"`
}

// Game is a 5-player podrida tournament. It is a single-writer state
// machine: callers must serialize all mutating calls (the room dealer
// funnels them through one run loop).
type Game struct {
	options Options

	seatedPlayers    []*Player
	currentHandIndex int
	isHandInProgress bool
	bids             map[string]int
	tricksWon        map[string]int
	cardsOnTable     []*PlayedCard
	lastTrick        []*PlayedCard
	trumpCard        *deck.Card
	turnIndex        int
	scores           map[string]*Score
	history          []*HandRecord

	// pendingClearAt is when the completed trick on the felt should be
	// cleared. Non-nil only while a trick is showing.
	pendingClearAt *time.Time

	// deckSeed is only set by tests for deterministic deals
	deckSeed int64

	logger  logrus.FieldLogger
	logChan chan []*LogMessage
}

// NewGame returns a new game with an empty table
func NewGame(logger logrus.FieldLogger, options Options) *Game {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	if options.ClearFeltDelay <= 0 {
		options.ClearFeltDelay = DefaultClearFeltDelay
	}

	return &Game{
		options:       options,
		seatedPlayers: make([]*Player, 0, numSeats),
		bids:          make(map[string]int),
		tricksWon:     make(map[string]int),
		cardsOnTable:  make([]*PlayedCard, 0, numSeats),
		scores:        make(map[string]*Score),
		history:       make([]*HandRecord, 0),
		logger:        logger,
		logChan:       make(chan []*LogMessage, 256),
	}
}

// Name returns "podrida"
func (g *Game) Name() string {
	return "podrida"
}

// LogChan returns a channel the game sends log messages on
func (g *Game) LogChan() <-chan []*LogMessage {
	return g.logChan
}

// Interval determines how often Tick() should be called
func (g *Game) Interval() time.Duration {
	return time.Millisecond * 250
}

// SetDeckSeed forces a deterministic shuffle. Tests only.
func (g *Game) SetDeckSeed(seed int64) {
	g.deckSeed = seed
}

// Join seats a new player or rebinds the connection handle of a seated one.
// Rebinding by nickname always succeeds, even mid-hand. Seating a new player
// is silently ignored when the table is full or a hand is in progress; the
// returned bool reports whether the state changed.
func (g *Game) Join(nickname, connHandle string) bool {
	if nickname == "" {
		return false
	}

	if player := g.playerByNickname(nickname); player != nil {
		player.Rebind(connHandle)
		g.logger.WithFields(logrus.Fields{
			"nickname":   nickname,
			"connHandle": connHandle,
		}).Info("player reconnected")

		return true
	}

	if len(g.seatedPlayers) >= numSeats || g.isHandInProgress {
		return false
	}

	player := NewPlayer(nickname, connHandle, len(g.seatedPlayers))
	g.seatedPlayers = append(g.seatedPlayers, player)
	if _, ok := g.scores[nickname]; !ok {
		g.scores[nickname] = &Score{}
	}

	g.logger.WithFields(logrus.Fields{
		"nickname": nickname,
		"seat":     player.SeatIndex,
	}).Info("player seated")
	g.sendLogMessages(newLogMessage(nickname, nil, "{} sat down at seat %d", player.SeatIndex+1))

	return true
}

// Leave unbinds the connection handle of the player. Once the tournament has
// started the seat, hand, and scores are retained for a later reconnect;
// before the first deal the seat is freed entirely.
func (g *Game) Leave(connHandle string) bool {
	player := g.playerByConnHandle(connHandle)
	if player == nil {
		return false
	}

	if !g.tournamentStarted() {
		g.seatedPlayers = append(g.seatedPlayers[0:player.SeatIndex], g.seatedPlayers[player.SeatIndex+1:]...)
		for i, p := range g.seatedPlayers {
			p.SeatIndex = i
		}

		delete(g.scores, player.Nickname)
		g.logger.WithField("nickname", player.Nickname).Info("player left the lobby")
		g.sendLogMessages(newLogMessage(player.Nickname, nil, "{} left the table"))
		return true
	}

	player.ConnHandle = ""
	g.logger.WithField("nickname", player.Nickname).Info("player disconnected")
	g.sendLogMessages(newLogMessage(player.Nickname, nil, "{} disconnected"))
	return true
}

// tournamentStarted returns true once the first hand has been dealt
func (g *Game) tournamentStarted() bool {
	return g.isHandInProgress || g.currentHandIndex > 0 || len(g.history) > 0
}

// IsSeated returns true if the nickname belongs to a seated player
func (g *Game) IsSeated(nickname string) bool {
	return g.playerByNickname(nickname) != nil
}

// IsTournamentOver returns true after the final hand has been scored
func (g *Game) IsTournamentOver() bool {
	return g.currentHandIndex >= totalHands
}

// StartHand deals the next hand of the tournament
func (g *Game) StartHand() error {
	if g.IsTournamentOver() {
		return ErrTournamentOver
	}

	if g.isHandInProgress {
		return ErrHandInProgress
	}

	if len(g.seatedPlayers) != numSeats {
		return ErrNotEnoughPlayers
	}

	cardCount := cardCountForHand(g.currentHandIndex)

	d := deck.New()
	if g.deckSeed != 0 {
		d.SetSeed(g.deckSeed)
	}
	d.Shuffle()

	g.bids = make(map[string]int)
	g.tricksWon = make(map[string]int)
	g.cardsOnTable = make([]*PlayedCard, 0, numSeats)
	g.lastTrick = nil
	g.pendingClearAt = nil

	for _, player := range g.seatedPlayers {
		cards, err := d.DrawCount(cardCount)
		if err != nil {
			return err
		}

		player.Hand = deck.Hand(cards)
		player.Hand.Sort()
		g.tricksWon[player.Nickname] = 0
	}

	if isNoTrumpHand(g.currentHandIndex) {
		g.trumpCard = nil
	} else {
		trumpCard, err := d.Draw()
		if err != nil {
			return err
		}

		g.trumpCard = trumpCard
	}

	g.turnIndex = (dealerSeat(g.currentHandIndex) + 1) % numSeats
	g.isHandInProgress = true

	g.logger.WithFields(logrus.Fields{
		"handIndex": g.currentHandIndex,
		"cardCount": cardCount,
		"trumpCard": g.trumpCard,
		"label":     handLabel(g.currentHandIndex),
	}).Info("hand started")

	messages := []*LogMessage{
		newLogMessage("", nil, "Hand %d of %d (%s): %d card(s)", g.currentHandIndex+1, totalHands, handLabel(g.currentHandIndex), cardCount),
	}
	if g.trumpCard != nil {
		messages = append(messages, newLogMessage("", g.trumpCard, "The trump card has been turned up"))
	}
	g.sendLogMessages(messages...)

	return nil
}

// ForbiddenBid returns the bid value the last bidder may not name, and
// whether the restriction currently applies (exactly four bids recorded).
func (g *Game) ForbiddenBid() (int, bool) {
	if !g.isHandInProgress || len(g.bids) != numSeats-1 {
		return 0, false
	}

	sum := 0
	for _, bid := range g.bids {
		sum += bid
	}

	return cardCountForHand(g.currentHandIndex) - sum, true
}

// SubmitBid records a bid for the player at turn
func (g *Game) SubmitBid(nickname string, bid int) error {
	if !g.isHandInProgress {
		return ErrHandNotInProgress
	}

	if len(g.bids) >= numSeats {
		return ErrBiddingComplete
	}

	player := g.playerByNickname(nickname)
	if player == nil {
		return ErrUnknownPlayer
	}

	if player.SeatIndex != g.turnIndex {
		return ErrIsNotPlayersTurn
	}

	cardCount := cardCountForHand(g.currentHandIndex)
	if bid < 0 || bid > cardCount {
		return ErrBidOutOfRange
	}

	if forbidden, ok := g.ForbiddenBid(); ok && bid == forbidden {
		return ErrForbiddenBid
	}

	g.bids[nickname] = bid
	g.turnIndex = (g.turnIndex + 1) % numSeats

	g.sendLogMessages(newLogMessage(nickname, nil, "{} bid %d", bid))

	// bidding closed; the seat after the dealer opens trick play
	if len(g.bids) == numSeats {
		g.turnIndex = (dealerSeat(g.currentHandIndex) + 1) % numSeats
		g.sendLogMessages(newLogMessage("", nil, "All bids are in"))
	}

	return nil
}

// PlayCard plays a card for the player at turn, enforcing the follow-suit rule
func (g *Game) PlayCard(nickname string, card *deck.Card) error {
	if !g.isHandInProgress {
		return ErrHandNotInProgress
	}

	if len(g.bids) < numSeats {
		return ErrBiddingNotComplete
	}

	if g.pendingClearAt != nil {
		return ErrTrickNotCleared
	}

	player := g.playerByNickname(nickname)
	if player == nil {
		return ErrUnknownPlayer
	}

	if player.SeatIndex != g.turnIndex {
		return ErrIsNotPlayersTurn
	}

	if !player.Hand.HasCard(card) {
		return ErrCardNotInPlayersHand
	}

	if len(g.cardsOnTable) > 0 {
		leadSuit := g.cardsOnTable[0].Card.Suit
		if card.Suit != leadSuit && player.Hand.HasSuit(leadSuit) {
			return ErrMustFollowSuit
		}
	}

	player.Hand.Discard(card)
	g.cardsOnTable = append(g.cardsOnTable, &PlayedCard{
		Nickname:  nickname,
		Card:      card.Clone(),
		SeatIndex: player.SeatIndex,
	})
	g.turnIndex = (g.turnIndex + 1) % numSeats

	g.sendLogMessages(newLogMessage(nickname, card, "{} played a card"))

	if len(g.cardsOnTable) == numSeats {
		g.resolveTrick()
	}

	return nil
}

// resolveTrick is called once five cards are on the felt
func (g *Game) resolveTrick() {
	winner := g.winningCardPlayed()

	g.tricksWon[winner.Nickname]++
	g.lastTrick = append([]*PlayedCard{}, g.cardsOnTable...)
	g.turnIndex = winner.SeatIndex

	clearAt := time.Now().Add(g.options.ClearFeltDelay)
	g.pendingClearAt = &clearAt

	g.logger.WithFields(logrus.Fields{
		"winner": winner.Nickname,
		"card":   winner.Card,
	}).Debug("trick resolved")
	g.sendLogMessages(newLogMessage(winner.Nickname, winner.Card, "{} won the trick"))
}

// winningCardPlayed reduces the five plays left to right. A trump card beats
// any non-trump; between trumps the higher rank wins; between non-trumps only
// a lead-suit card can win, higher rank first.
func (g *Game) winningCardPlayed() *PlayedCard {
	leadSuit := g.cardsOnTable[0].Card.Suit
	noTrump := isNoTrumpHand(g.currentHandIndex) || g.trumpCard == nil

	winning := g.cardsOnTable[0]
	for _, pc := range g.cardsOnTable[1:] {
		challengerIsTrump := !noTrump && pc.Card.Suit == g.trumpCard.Suit
		winningIsTrump := !noTrump && winning.Card.Suit == g.trumpCard.Suit

		switch {
		case challengerIsTrump && !winningIsTrump:
			winning = pc
		case challengerIsTrump && winningIsTrump:
			if pc.Card.Rank > winning.Card.Rank {
				winning = pc
			}
		case !challengerIsTrump && !winningIsTrump && pc.Card.Suit == leadSuit:
			if pc.Card.Rank > winning.Card.Rank {
				winning = pc
			}
		}
	}

	return winning
}

// Tick checks whether the completed trick is due to be cleared, and if so
// clears it and, at the end of the hand, scores it. Returns true if the
// state changed.
func (g *Game) Tick() (bool, error) {
	if g.pendingClearAt == nil {
		return false, nil
	}

	if time.Now().Before(*g.pendingClearAt) {
		return false, nil
	}

	g.pendingClearAt = nil
	g.cardsOnTable = make([]*PlayedCard, 0, numSeats)

	if g.sumTricksWon() == cardCountForHand(g.currentHandIndex) {
		g.finishHand()
	}

	return true, nil
}

// finishHand scores the hand, appends the hand record, and advances the
// tournament
func (g *Game) finishHand() {
	cardCount := cardCountForHand(g.currentHandIndex)
	record := &HandRecord{
		HandNum:   g.currentHandIndex + 1,
		CardCount: cardCount,
		Results:   make(map[string]*HandResult, numSeats),
	}

	messages := make([]*LogMessage, 0, numSeats+1)
	for _, player := range g.seatedPlayers {
		bid := g.bids[player.Nickname]
		won := g.tricksWon[player.Nickname]
		score := g.scores[player.Nickname]

		falla := bid != won
		points := won
		if falla {
			score.Fallas++
			messages = append(messages, newLogMessage(player.Nickname, nil, "{} missed the bid (%d for %d): %d point(s)", won, bid, points))
		} else {
			points = 10 + won*5
			messages = append(messages, newLogMessage(player.Nickname, nil, "{} made the bid of %d: %d points", bid, points))
		}

		score.Points += points
		record.Results[player.Nickname] = &HandResult{
			Points: points,
			Total:  score.Points,
			Bid:    bid,
			Won:    won,
			Falla:  falla,
		}
	}

	g.history = append(g.history, record)
	g.currentHandIndex++
	g.isHandInProgress = false

	g.logger.WithField("handNum", record.HandNum).Info("hand finished")

	if g.IsTournamentOver() {
		messages = append(messages, newLogMessage("", nil, "The tournament is over"))
	}
	g.sendLogMessages(messages...)
}

func (g *Game) sumTricksWon() int {
	sum := 0
	for _, won := range g.tricksWon {
		sum += won
	}

	return sum
}

func (g *Game) playerByNickname(nickname string) *Player {
	for _, player := range g.seatedPlayers {
		if player.Nickname == nickname {
			return player
		}
	}

	return nil
}

func (g *Game) playerByConnHandle(connHandle string) *Player {
	if connHandle == "" {
		return nil
	}

	for _, player := range g.seatedPlayers {
		if player.ConnHandle == connHandle {
			return player
		}
	}

	return nil
}

func (g *Game) sendLogMessages(msg ...*LogMessage) {
	if g.logChan == nil {
		return
	}

	select {
	case g.logChan <- msg:
	default:
	}
}
