package main

import (
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"podrida-server/internal/config"
	"podrida-server/internal/jwt"
	"podrida-server/internal/mux"
	"podrida-server/pkg/podrida"
	"podrida-server/pkg/room"
	"podrida-server/pkg/statestore"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10

// Version is the server version
var Version = "v0.0.0-dev"

var addr = flag.String("addr", ":5000", "the listen address")

func main() {
	flag.Parse()
	setupLogger()

	// fail fast
	if err := jwt.LoadSecret(); err != nil {
		logrus.WithError(err).Fatal("could not load jwt secret")
	}

	store := newStateStore()
	game := loadOrCreateGame(store)

	dealer := room.NewDealer(logrus.WithField("component", "dealer"), game, store)
	dealer.StartShift()

	c := cors.New(cors.Options{
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With", "Authorization"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})

	srv := &http.Server{
		Addr:         *addr,
		Handler:      loggingHandler(c.Handler(mux.NewMux(Version, dealer))),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	logrus.WithField("addr", srv.Addr).Info("listening")
	logrus.Fatal(srv.ListenAndServe())
}

func newStateStore() statestore.Store {
	cfg := config.Instance()
	if cfg.PGDSN != "" {
		store, err := statestore.NewPostgres(cfg.PGDSN, cfg.MigrationsPath)
		if err != nil {
			logrus.WithError(err).Fatal("could not connect to postgres")
		}

		return store
	}

	return statestore.NewFile(cfg.StateFile)
}

func loadOrCreateGame(store statestore.Store) *podrida.Game {
	options := podrida.DefaultOptions()
	if ms := config.Instance().ClearFeltDelayMS; ms > 0 {
		options.ClearFeltDelay = time.Duration(ms) * time.Millisecond
	}

	data, err := store.Load()
	if err != nil {
		if err == statestore.ErrNoSnapshot {
			return podrida.NewGame(nil, options)
		}

		logrus.WithError(err).Fatal("could not load snapshot")
	}

	var state podrida.State
	if err := json.Unmarshal(data, &state); err != nil {
		logrus.WithError(err).Fatal("could not decode snapshot")
	}

	game, err := podrida.Restore(nil, options, &state)
	if err != nil {
		// refuse to adopt an invalid state
		logrus.WithError(err).Fatal("snapshot failed validation")
	}

	logrus.Info("game restored from snapshot")
	return game
}

func loggingHandler(next http.Handler) http.Handler {
	if config.Instance().Log.DisableAccessLogs {
		return next
	}

	return handlers.CombinedLoggingHandler(os.Stdout, next)
}

func setupLogger() {
	if lvl := config.Instance().Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
