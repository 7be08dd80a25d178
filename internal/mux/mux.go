package mux

import (
	"net/http"

	gmux "github.com/gorilla/mux"

	"podrida-server/internal/config"
	"podrida-server/pkg/room"
)

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version string
	dealer  *room.Dealer
}

// NewMux returns a new HTTP mux
func NewMux(version string, dealer *room.Dealer) *Mux {
	this := &Mux{
		Router:  gmux.NewRouter(),
		version: version,
		dealer:  dealer,
	}

	this.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusNotFound, nil)
	})

	this.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
	this.Methods(http.MethodGet).Path("/ws").Handler(this.getWS())

	// the web client is served as static files
	if dir := config.Instance().PublicDir; dir != "" {
		this.PathPrefix("/").Handler(http.FileServer(http.Dir(dir)))
	}

	return this
}
