package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/luke-woojudaddy/Mind-Sync/internal/channel"
	"github.com/luke-woojudaddy/Mind-Sync/internal/identity"
	"github.com/luke-woojudaddy/Mind-Sync/internal/rooms"
	"github.com/luke-woojudaddy/Mind-Sync/internal/session"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("could not load .env file")
	}

	// Setup logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if getEnv("MINDSYNC_DEBUG", "") != "" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	configPath := getEnv("MINDSYNC_CONFIG", "config.yaml")
	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("failed to load config")
	}

	store, err := identity.OpenStore(cfg.Storage.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Storage.Path).Msg("failed to open state store")
	}
	defer store.Close()

	ch := channel.New(channel.DefaultConfig(cfg.Server.WSURL), nil)

	sess, err := session.New(session.Config{
		Rooms:               rooms.NewClient(cfg.Server.HTTPURL),
		Identity:            identity.New(store),
		RoomHandle:          identity.NewRoomHandle(store),
		ResultGateSeconds:   cfg.Session.ResultGateSeconds,
		NotificationSeconds: cfg.Session.NotificationSeconds,
		SwipeThreshold:      cfg.Session.SwipeThreshold,
	}, ch)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create session")
	}
	session.Bind(sess, ch)

	log.Info().
		Str("http_url", cfg.Server.HTTPURL).
		Str("ws_url", cfg.Server.WSURL).
		Str("user_id", sess.UserID()).
		Msg("starting mindsync client")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sess.Start(ctx)

	// Join or create a room from the environment. Without either the
	// session sits in the lobby until the embedding UI drives it.
	if roomID := getEnv("MINDSYNC_ROOM_ID", ""); roomID != "" {
		if err := sess.JoinRoom(roomID); err != nil {
			log.Fatal().Err(err).Str("room_id", roomID).Msg("failed to join room")
		}
	} else if name := getEnv("MINDSYNC_CREATE_ROOM", ""); name != "" {
		if err := sess.CreateRoom(name); err != nil {
			log.Fatal().Err(err).Str("name", name).Msg("failed to create room")
		}
	}

	// Periodically log the session view so a headless run is observable.
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				v, err := sess.View(ctx)
				if err != nil {
					return
				}
				ev := log.Info().
					Str("screen", string(v.Screen)).
					Bool("connected", v.Connected)
				if v.Room != nil {
					ev = ev.Str("room_id", v.Room.ID).
						Str("phase", string(v.Room.Phase)).
						Int("round", v.Room.CurrentRound)
				}
				ev.Msg("session state")
			}
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	ch.Disconnect()
	cancel()
	time.Sleep(500 * time.Millisecond)

	log.Info().Msg("mindsync client shutdown complete")
}
