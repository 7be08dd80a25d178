package room

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Client is a client connected to the server via websockets.
// The ConnID is the opaque connection handle; the nickname is bound once the
// client joins the table.
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// ConnID uniquely identifies this connection
	ConnID string

	// send is a channel for sending messages to the client
	send chan interface{}

	// Close receives the reason when the dealer closes the client
	Close chan string

	nickname string
	dealer   *Dealer
}

// NewClient returns a new client object
func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		Conn:   conn,
		ConnID: uuid.New().String(),
		send:   make(chan interface{}, 256),
		Close:  make(chan string, 1),
	}
}

// Send sends a message to the web client
// Returns false if the send buffer is full
func (c *Client) Send(msg interface{}) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// SendChan returns a read-only channel of outgoing messages
func (c *Client) SendChan() <-chan interface{} {
	return c.send
}

// String returns a traceable identifier for the client
func (c *Client) String() string {
	if c.nickname != "" {
		return fmt.Sprintf("%s:%s", c.nickname, c.ConnID)
	}

	return c.ConnID
}

// ReceivedMessage is called when the server receives a message from a connected client
func (c *Client) ReceivedMessage(msg *PayloadIn) {
	if c.dealer == nil {
		logrus.WithField("msg", msg).Warn("received message, but dealer not found")
		return
	}

	c.dealer.ReceivedMessage(c, msg)
}
