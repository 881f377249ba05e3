package services

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
	"go.uber.org/zap"

	"github.com/banglish/backend/internal/models"
)

type MongoAccountService struct {
	usersCol *mongo.Collection
	logger   *zap.Logger
}

func NewMongoAccountService(ctx context.Context, db *mongo.Database, logger *zap.Logger) (*MongoAccountService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	col := db.Collection("users")

	// Uniqueness of email and username is enforced by the indexes, so they
	// are not best-effort here.
	_, err := col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("email_unique")},
		{
			Keys: bson.D{{Key: "username", Value: 1}},
			// Strength 2 ignores case, matching the file store.
			Options: options.Index().
				SetUnique(true).
				SetName("username_ci_unique").
				SetCollation(&options.Collation{Locale: "en", Strength: 2}),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create user indexes: %v", ErrStorage, err)
	}

	return &MongoAccountService{usersCol: col, logger: logger}, nil
}

func (s *MongoAccountService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	return s.create(ctx, req, models.RoleUser)
}

func (s *MongoAccountService) CreateAdmin(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	return s.create(ctx, req, models.RoleAdmin)
}

func (s *MongoAccountService) create(ctx context.Context, req *models.RegisterRequest, role models.Role) (*models.User, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, NewValidationError(errs)
	}

	user, err := newUser(req, role)
	if err != nil {
		return nil, err
	}

	if _, err := s.usersCol.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if strings.Contains(err.Error(), "username") {
				return nil, ErrUsernameExists
			}
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("%w: insert user: %v", ErrStorage, err)
	}

	s.logger.Info("account created", zap.String("user_id", user.ID), zap.String("role", string(role)))
	return user, nil
}

func (s *MongoAccountService) Authenticate(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	var user models.User
	if err := s.usersCol.FindOne(ctx, bson.M{"email": normalizeEmail(req.Email)}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidPassword
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	return &user, nil
}

func (s *MongoAccountService) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.usersCol.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	return &user, nil
}
