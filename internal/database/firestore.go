package database

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
)

// Connect opens the Firestore client holding the users_info collection.
// The service account from GOOGLE_APPLICATION_CREDENTIALS is picked up
// automatically by the client's default credential chain.
func Connect(ctx context.Context) *firestore.Client {
	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		projectID = "jobledgerserverdeployment"
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		log.Fatal("Failed to connect to Firestore:", err)
	}

	log.Println("Firestore connection established")
	return client
}
