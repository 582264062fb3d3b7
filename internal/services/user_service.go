package services

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jobledger/JobLedger-server/internal/models"
)

const usersCollection = "users_info"

type UserService struct {
	DB *firestore.Client
}

func NewUserService(db *firestore.Client) *UserService {
	return &UserService{
		DB: db,
	}
}

// GetUser looks up one user document by email. A missing document is a
// normal outcome (new user) and comes back as (nil, nil), not an error.
func (s *UserService) GetUser(ctx context.Context, userEmail string) (*models.UserRecord, error) {
	doc, err := s.DB.Collection(usersCollection).Doc(userEmail).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}

	var user models.UserRecord
	if err := doc.DataTo(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// PutUser overwrites the full document, stamping a fresh subscription date.
func (s *UserService) PutUser(ctx context.Context, userEmail, sheetLink string) error {
	user := models.UserRecord{
		UserEmail:        userEmail,
		SheetLink:        sheetLink,
		SubscriptionDate: time.Now(),
	}

	_, err := s.DB.Collection(usersCollection).Doc(userEmail).Set(ctx, user)
	if err != nil {
		return err
	}

	log.Printf("User %s has been added to Firestore", userEmail)
	return nil
}

// UpdateUser merges partial fields into an existing document. Administrative,
// not reachable from any public endpoint.
func (s *UserService) UpdateUser(ctx context.Context, userEmail string, fields map[string]interface{}) error {
	_, err := s.DB.Collection(usersCollection).Doc(userEmail).Set(ctx, fields, firestore.MergeAll)
	return err
}

// DeleteUser removes a user document. Administrative, not reachable from any
// public endpoint.
func (s *UserService) DeleteUser(ctx context.Context, userEmail string) error {
	_, err := s.DB.Collection(usersCollection).Doc(userEmail).Delete(ctx)
	return err
}
