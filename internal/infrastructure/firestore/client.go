// Package firestore stores events and guests in Cloud Firestore under
// events/{eventId}/guests/{guestId}, the layout the legacy web app used.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

const (
	eventsCollection = "events"
	guestsCollection = "guests"
)

// NewClient initializes the Firebase Admin SDK and returns its Firestore
// client. credentialsFile may be empty to use application default
// credentials or the emulator.
func NewClient(ctx context.Context, projectID, credentialsFile string, log zerolog.Logger) (*firestore.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app init: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	log.Info().Str("project", projectID).Msg("firestore connected")
	return client, nil
}
