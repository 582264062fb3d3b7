package auth

import (
	"context"
	"log"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/sheets/v4"
)

// Scopes the service identity needs: spreadsheet read/write plus the Drive
// scopes used to share the created files.
var Scopes = []string{
	sheets.SpreadsheetsScope,
	drive.DriveScope,
	drive.DriveFileScope,
	drive.DriveMetadataScope,
}

// GetServiceCredentials loads the service-account key file pointed at by
// GOOGLE_APPLICATION_CREDENTIALS. Nothing can be served without it, so any
// failure here is fatal.
func GetServiceCredentials(ctx context.Context) *google.Credentials {
	keyPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	if keyPath == "" {
		log.Fatal("GOOGLE_APPLICATION_CREDENTIALS is not set. Did you load the .env file?")
	}

	b, err := os.ReadFile(keyPath)
	if err != nil {
		log.Fatalf("Unable to read service account key file: %v", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, b, Scopes...)
	if err != nil {
		log.Fatalf("Unable to parse service account key file: %v", err)
	}
	return creds
}
