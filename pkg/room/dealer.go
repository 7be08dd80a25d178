package room

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"podrida-server/internal/jwt"
	"podrida-server/pkg/podrida"
	"podrida-server/pkg/statestore"
)

var errNicknameTaken = errors.New("that nickname is seated; provide your rejoin token")
var errNotJoined = errors.New("join the table first")

type clientMessage struct {
	client  *Client
	payload *PayloadIn
}

// Dealer owns the game and funnels every mutating call through a single run
// loop, so the engine never sees concurrent writers. It persists a snapshot
// after every accepted transition.
type Dealer struct {
	game  *podrida.Game
	store statestore.Store

	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	messages   chan *clientMessage
	close      chan bool

	logger logrus.FieldLogger
}

// NewDealer creates a new dealer for the table
// The store may be nil, in which case snapshots are not persisted
func NewDealer(logger logrus.FieldLogger, game *podrida.Game, store statestore.Store) *Dealer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Dealer{
		game:       game,
		store:      store,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		messages:   make(chan *clientMessage, 256),
		close:      make(chan bool),
		logger:     logger.WithField("game", game.Name()),
	}
}

// StartShift starts the run loop
func (d *Dealer) StartShift() {
	go d.runLoop()
}

// EndShift terminates the run loop
func (d *Dealer) EndShift() {
	close(d.close)
}

// ClientConnected is called when a client connects to the server
func (d *Dealer) ClientConnected(client *Client) {
	client.dealer = d
	d.register <- client
}

// ClientDisconnected is called when a client disconnects from the server
func (d *Dealer) ClientDisconnected(client *Client) {
	d.unregister <- client
}

// ReceivedMessage is called when a client sends a message to the server
func (d *Dealer) ReceivedMessage(client *Client, payload *PayloadIn) {
	d.messages <- &clientMessage{client: client, payload: payload}
}

func (d *Dealer) runLoop() {
	d.logger.Debug("creating dealer run loop")

	ticker := time.NewTicker(d.game.Interval())
	defer ticker.Stop()

	for {
		select {
		case client := <-d.register:
			d.clients[client] = true
			d.logger.WithField("client", client.String()).Debug("client connected")

			// init-lobby: the connecting client immediately gets the full state
			client.Send(&Response{
				Key:  "game",
				Data: d.game.GetPlayerState(client.nickname),
			})
		case client := <-d.unregister:
			delete(d.clients, client)
			d.logger.WithField("client", client.String()).Debug("client disconnected")

			if d.game.Leave(client.ConnID) {
				d.broadcastState()
				d.persist()
			}
		case msg := <-d.messages:
			d.handleMessage(msg.client, msg.payload)
		case <-ticker.C:
			changed, err := d.game.Tick()
			if err != nil {
				d.logger.WithError(err).Error("tick failed")
			}

			if changed {
				d.broadcastState()
				d.persist()
			}
		case messages := <-d.game.LogChan():
			d.broadcast(&Response{
				Key:  "logs",
				Data: messages,
			})
		case <-d.close:
			d.logger.Debug("terminating dealer run loop")
			for client := range d.clients {
				select {
				case client.Close <- "the table is closing":
				default:
				}
			}

			return
		}
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) handleMessage(c *Client, msg *PayloadIn) {
	switch msg.Action {
	case "join":
		d.handleJoin(c, msg)
	case "start":
		d.handleMutation(c, msg, func() error {
			return d.game.StartHand()
		})
	case "bid":
		if msg.Bid == nil {
			c.Send(newErrorResponse(msg.Context, errors.New("bid is required")))
			return
		}

		d.handleMutation(c, msg, func() error {
			if c.nickname == "" {
				return errNotJoined
			}

			return d.game.SubmitBid(c.nickname, *msg.Bid)
		})
	case "play":
		if msg.Card == nil {
			c.Send(newErrorResponse(msg.Context, errors.New("card is required")))
			return
		}

		d.handleMutation(c, msg, func() error {
			if c.nickname == "" {
				return errNotJoined
			}

			return d.game.PlayCard(c.nickname, msg.Card)
		})
	case "chat":
		if c.nickname == "" {
			c.Send(newErrorResponse(msg.Context, errNotJoined))
			return
		}

		d.broadcast(&Response{
			Key:   "chat",
			Value: c.nickname,
			Data:  msg.Message,
		})
	default:
		d.logger.WithField("action", msg.Action).Warn("unknown message")
		c.Send(newErrorResponse(msg.Context, errors.New("unknown action: "+msg.Action)))
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) handleJoin(c *Client, msg *PayloadIn) {
	if msg.Nickname == "" {
		c.Send(newErrorResponse(msg.Context, errors.New("nickname is required")))
		return
	}

	// rejoining a seated nickname requires proof of ownership
	if d.game.IsSeated(msg.Nickname) {
		nickname, err := jwt.ValidNickname(msg.Token)
		if err != nil || nickname != msg.Nickname {
			c.Send(newErrorResponse(msg.Context, errNicknameTaken))
			return
		}
	}

	if !d.game.Join(msg.Nickname, c.ConnID) {
		c.Send(newErrorResponse(msg.Context, errors.New("the table is full or a hand is in progress")))
		return
	}

	c.nickname = msg.Nickname

	token, err := jwt.Sign(msg.Nickname)
	if err != nil {
		d.logger.WithError(err).Error("could not sign rejoin token")
	}

	c.Send(&Response{
		Key:     "joined",
		Value:   msg.Nickname,
		Data:    token,
		Context: msg.Context,
	})

	d.broadcastState()
	d.persist()
}

// NOTE: must only be called from the run loop
func (d *Dealer) handleMutation(c *Client, msg *PayloadIn, fn func() error) {
	if err := fn(); err != nil {
		// rejections go to the originating client only; state is unchanged
		c.Send(newErrorResponse(msg.Context, err))
		return
	}

	c.Send(OK(msg.Context))
	d.broadcastState()
	d.persist()
}

// NOTE: must only be called from the run loop
func (d *Dealer) broadcastState() {
	for client := range d.clients {
		if !client.Send(&Response{
			Key:  "game",
			Data: d.game.GetPlayerState(client.nickname),
		}) {
			d.logger.WithField("client", client.String()).Warn("send buffer full, dropping state update")
		}
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) broadcast(msg *Response) {
	for client := range d.clients {
		client.Send(msg)
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) persist() {
	if d.store == nil {
		return
	}

	data, err := json.Marshal(d.game.Snapshot())
	if err != nil {
		d.logger.WithError(err).Error("could not marshal snapshot")
		return
	}

	if err := d.store.Save(data); err != nil {
		d.logger.WithError(err).Error("could not persist snapshot")
	}
}
