package services

import (
	"context"
	"errors"
	"fmt"

	"event-hub/internal/status"
	"event-hub/models"
	"event-hub/monitoring"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const UsersCollection = "users"

type UserService struct {
	Users   *mongo.Collection
	Hasher  *PasswordHasher
	Monitor *monitoring.Monitor
}

func NewUserService(db *mongo.Database, hasher *PasswordHasher, monitor *monitoring.Monitor) *UserService {
	if hasher == nil {
		hasher = NewPasswordHasher()
	}
	return &UserService{
		Users:   db.Collection(UsersCollection),
		Hasher:  hasher,
		Monitor: monitor,
	}
}

// EnsureIndexes creates the unique email index that backs registration.
func (s *UserService) EnsureIndexes(ctx context.Context) error {
	_, err := s.Users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}
	return nil
}

func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (*models.Profile, error) {
	_, err := s.findByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, status.ErrUserExists
	case !errors.Is(err, mongo.ErrNoDocuments):
		return nil, err
	}

	hash, err := s.Hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hash,
		Photo:    req.Photo,
	}

	_, err = s.Users.InsertOne(ctx, user)
	s.Monitor.TrackStoreOperation(UsersCollection, "insert", err)
	if mongo.IsDuplicateKeyError(err) {
		return nil, status.ErrUserExists
	}
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	profile := user.Profile()
	return &profile, nil
}

func (s *UserService) Login(ctx context.Context, req models.LoginRequest) (*models.Profile, error) {
	user, err := s.findByEmail(ctx, req.Email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, status.ErrEmailNotFound
	}
	if err != nil {
		return nil, err
	}

	if !s.Hasher.Verify(req.Password, user.Password) {
		return nil, status.ErrIncorrectPassword
	}

	profile := user.Profile()
	return &profile, nil
}

// List returns every user document as stored, password hashes included.
func (s *UserService) List(ctx context.Context) ([]bson.M, error) {
	cursor, err := s.Users.Find(ctx, bson.M{})
	s.Monitor.TrackStoreOperation(UsersCollection, "find", err)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}

	users := []bson.M{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (s *UserService) findByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.Users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		s.Monitor.TrackStoreOperation(UsersCollection, "find_one", nil)
		return nil, err
	}
	s.Monitor.TrackStoreOperation(UsersCollection, "find_one", err)
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}
