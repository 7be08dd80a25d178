package podrida

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"podrida-server/pkg/deck"
)

// LogMessage is a table-log entry emitted by the game.
// If Nicknames is empty, it's a general statement, otherwise the message is
// rendered like "{player} did X, Y, Z"
type LogMessage struct {
	UUID      string       `json:"uuid"`
	Nicknames []string     `json:"nicknames"`
	Cards     []*deck.Card `json:"cards"`
	Message   string       `json:"message"`
	Time      time.Time    `json:"time"`
}

func newLogMessage(nickname string, card *deck.Card, format string, a ...interface{}) *LogMessage {
	var nicknames []string
	if nickname != "" {
		nicknames = []string{nickname}
	}

	var cards []*deck.Card
	if card != nil {
		cards = append(cards, card)
	}

	return &LogMessage{
		UUID:      uuid.New().String(),
		Nicknames: nicknames,
		Cards:     cards,
		Message:   fmt.Sprintf(format, a...),
		Time:      time.Now(),
	}
}
