// utils/firebase.go
package utils

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"carelink/config"
)

var (
	FirebaseApp *firebase.App
	FCMClient   *messaging.Client
	// FirebaseDB is the Realtime Database client backing the firebase store driver.
	FirebaseDB *db.Client
)

// FirebaseInit initializes the Firebase App from the service account file.
func FirebaseInit(ctx context.Context) error {
	opt := option.WithCredentialsFile(config.AppConfig.FirebaseCredentialsFile)
	conf := &firebase.Config{DatabaseURL: config.AppConfig.FirebaseDatabaseURL}

	app, err := firebase.NewApp(ctx, conf, opt)
	if err != nil {
		return fmt.Errorf("firebase: error initializing app: %w", err)
	}
	FirebaseApp = app
	return nil
}

// InitFCM creates the Messaging client used for booking confirmations.
func InitFCM(ctx context.Context) error {
	if FirebaseApp == nil {
		return fmt.Errorf("firebase: app not initialized")
	}
	client, err := FirebaseApp.Messaging(ctx)
	if err != nil {
		return fmt.Errorf("firebase: error getting Messaging client: %w", err)
	}
	FCMClient = client
	return nil
}

// InitFirebaseDB creates the Realtime Database client.
func InitFirebaseDB(ctx context.Context) error {
	if FirebaseApp == nil {
		return fmt.Errorf("firebase: app not initialized")
	}
	if config.AppConfig.FirebaseDatabaseURL == "" {
		return fmt.Errorf("firebase: FIREBASE_DATABASE_URL is required for the firebase store driver")
	}
	client, err := FirebaseApp.Database(ctx)
	if err != nil {
		return fmt.Errorf("firebase: error getting Database client: %w", err)
	}
	FirebaseDB = client
	return nil
}
