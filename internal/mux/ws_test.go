package mux

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"

	"podrida-server/internal/jwt"
	"podrida-server/pkg/podrida"
	"podrida-server/pkg/room"
)

func TestWebSocketJoin(t *testing.T) {
	jwt.SetSecret("test-secret")

	a := assert.New(t)

	dealer := room.NewDealer(nil, podrida.NewGame(nil, podrida.DefaultOptions()), nil)
	dealer.StartShift()
	defer dealer.EndShift()

	ts := httptest.NewServer(NewMux("v0.0.0", dealer))
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	a.NoError(err)
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(time.Second * 5))

	// on connect the client gets the full state
	var init room.Response
	a.NoError(conn.ReadJSON(&init))
	a.Equal("game", init.Key)

	a.NoError(conn.WriteJSON(&room.PayloadIn{Action: "join", Nickname: "ana", Context: "ctx-1"}))

	joined := readUntilKey(t, conn, "joined")
	a.Equal("ana", joined.Value)
	a.Equal("ctx-1", joined.Context)
	a.NotEmpty(joined.Data)
}

// readUntilKey skips broadcasts (state updates, logs) until the key arrives
func readUntilKey(t *testing.T, conn *websocket.Conn, key string) *room.Response {
	t.Helper()

	for i := 0; i < 10; i++ {
		var resp room.Response
		if err := conn.ReadJSON(&resp); err != nil {
			t.Fatal(err)
		}

		if resp.Key == key {
			return &resp
		}
	}

	t.Fatalf("never received message with key %q", key)
	return nil
}
