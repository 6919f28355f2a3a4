package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"invitapp/internal/adapters/httpapi"
	"invitapp/internal/application"
	"invitapp/internal/config"
	"invitapp/internal/infrastructure/calendar"
	"invitapp/internal/infrastructure/database"
	"invitapp/internal/infrastructure/export"
	fsstore "invitapp/internal/infrastructure/firestore"
	"invitapp/internal/infrastructure/memory"
	"invitapp/internal/infrastructure/qr"
	"invitapp/internal/ports/output"
)

// stores are the repositories selected by STORE plus their lifecycle.
type stores struct {
	events output.EventRepository
	guests output.GuestRepository
	// run drives background work such as the change listener. It blocks
	// until ctx is done.
	run   func(ctx context.Context) error
	close func()
}

func openStores(ctx context.Context, cfg *config.Config, loc *time.Location, log zerolog.Logger) (*stores, error) {
	idle := func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	}

	switch cfg.Store {
	case config.StorePostgres:
		pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return nil, err
		}
		hub := database.NewChangeHub(pool, log)
		return &stores{
			events: database.NewEventRepository(pool),
			guests: database.NewGuestRepository(pool, hub),
			run:    hub.Run,
			close:  pool.Close,
		}, nil

	case config.StoreFirestore:
		client, err := fsstore.NewClient(ctx, cfg.FirebaseProjectID, cfg.CredentialsFile, log)
		if err != nil {
			return nil, err
		}
		return &stores{
			events: fsstore.NewEventRepository(client, loc),
			guests: fsstore.NewGuestRepository(client, log),
			run:    idle,
			close:  func() { _ = client.Close() },
		}, nil

	case config.StoreMemory:
		store := memory.NewStore()
		return &stores{
			events: store,
			guests: store.Guests(),
			run:    idle,
			close:  func() {},
		}, nil
	}
	return nil, fmt.Errorf("unknown store %q", cfg.Store)
}

// services wires the use cases over st.
func services(st *stores, t output.T, loc *time.Location) httpapi.Services {
	return httpapi.Services{
		Events:  application.NewEventService(st.events),
		Guests:  application.NewGuestService(st.guests, st.events),
		RSVP:    application.NewRSVPService(st.guests),
		Passes:  application.NewPassService(st.guests, qr.Renderer{}),
		CheckIn: application.NewCheckInService(st.guests),
		Stats:   application.NewStatsService(st.guests, st.events),
		Export: application.NewExportService(st.events, st.guests,
			calendar.NewEncoder(), export.NewSheetWriter(t, loc)),
	}
}
