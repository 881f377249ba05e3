package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/banglish/backend/internal/models"
)

// ConnectMongo opens and pings a client. TLS and auth come from the URI.
func ConnectMongo(ctx context.Context, mongoURI string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return client, nil
}

type MongoContributionStore struct {
	col    *mongo.Collection
	logger *zap.Logger
	now    func() time.Time
}

func NewMongoContributionStore(ctx context.Context, db *mongo.Database, logger *zap.Logger) (*MongoContributionStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	col := db.Collection("contributions")

	// Best-effort indexes.
	if _, err := col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "submitted_at", Value: -1}}},
		{Keys: bson.D{{Key: "submitted_at", Value: -1}}},
	}); err != nil {
		logger.Warn("failed to create contribution indexes", zap.Error(err))
	}

	return &MongoContributionStore{col: col, logger: logger, now: time.Now}, nil
}

func (s *MongoContributionStore) Submit(ctx context.Context, req *models.SubmitContributionRequest) (*models.Contribution, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, NewValidationError(errs)
	}

	c := newContribution(req, s.now())
	c.ID = contributionID(c.SubmittedAt)

	if _, err := s.col.InsertOne(ctx, c); err != nil {
		return nil, fmt.Errorf("%w: insert contribution: %v", ErrStorage, err)
	}
	s.logger.Info("contribution submitted", zap.String("id", c.ID))
	return c, nil
}

func (s *MongoContributionStore) ListRecent(ctx context.Context, limit int) ([]models.Contribution, error) {
	return s.find(ctx, bson.M{}, limit)
}

func (s *MongoContributionStore) ListByStatus(ctx context.Context, status models.ContributionStatus, limit int) ([]models.Contribution, error) {
	return s.find(ctx, bson.M{"status": status}, limit)
}

func (s *MongoContributionStore) find(ctx context.Context, filter bson.M, limit int) ([]models.Contribution, error) {
	out := make([]models.Contribution, 0)
	if limit <= 0 {
		return out, nil
	}

	cur, err := s.col.Find(ctx, filter,
		options.Find().
			SetSort(bson.D{{Key: "submitted_at", Value: -1}, {Key: "_id", Value: -1}}).
			SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: find contributions: %v", ErrStorage, err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var c models.Contribution
		if err := cur.Decode(&c); err != nil {
			return nil, fmt.Errorf("%w: decode contribution: %v", ErrStorage, err)
		}
		normalizeContribution(&c)
		out = append(out, c)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return out, nil
}

func (s *MongoContributionStore) Get(ctx context.Context, id string) (*models.Contribution, error) {
	var c models.Contribution
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("contribution %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	normalizeContribution(&c)
	return &c, nil
}

func (s *MongoContributionStore) Moderate(ctx context.Context, id string, req *models.ModerationRequest) (*models.Contribution, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, NewValidationError(errs)
	}

	now := s.now().UTC()
	update := bson.M{
		"$set": bson.M{
			"status":           req.Decision,
			"reviewer_id":      req.ReviewerID,
			"reviewed_at":      now,
			"reviewer_comment": strings.TrimSpace(req.Comment),
		},
	}

	// The status filter makes the pending check and the write one atomic step.
	res := s.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "status": models.StatusPending},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.Contribution
	if err := res.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			// Distinguish not found vs already moderated.
			existing, err2 := s.Get(ctx, id)
			if err2 != nil {
				return nil, err2
			}
			return nil, fmt.Errorf("contribution %q is already %s: %w", id, existing.Status, ErrInvalidTransition)
		}
		return nil, fmt.Errorf("%w: moderate contribution: %v", ErrStorage, err)
	}

	s.logger.Info("contribution moderated",
		zap.String("id", id),
		zap.String("status", string(updated.Status)),
		zap.String("reviewer", updated.ReviewerID),
	)
	return &updated, nil
}
