package models

import (
	"strings"
	"time"
)

type ContributionStatus string

const (
	StatusPending  ContributionStatus = "pending"
	StatusApproved ContributionStatus = "approved"
	StatusRejected ContributionStatus = "rejected"
)

// Valid reports whether s is one of the known moderation states.
func (s ContributionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Contribution is a user-submitted Banglish/Bengali pair with optional feedback.
// The JSON shape matches the on-disk record written by the file store.
type Contribution struct {
	ID              string             `json:"id" bson:"_id"`
	Banglish        string             `json:"banglish" bson:"banglish"`
	Bengali         string             `json:"bengali" bson:"bengali"`
	Feedback        string             `json:"feedback,omitempty" bson:"feedback,omitempty"`
	UserID          string             `json:"user_id,omitempty" bson:"user_id,omitempty"`
	SubmittedAt     time.Time          `json:"timestamp" bson:"submitted_at"`
	Status          ContributionStatus `json:"status" bson:"status"`
	ReviewerID      string             `json:"reviewer_id,omitempty" bson:"reviewer_id,omitempty"`
	ReviewedAt      *time.Time         `json:"reviewed_at,omitempty" bson:"reviewed_at,omitempty"`
	ReviewerComment string             `json:"reviewer_comment,omitempty" bson:"reviewer_comment,omitempty"`
}

type SubmitContributionRequest struct {
	Banglish string `json:"banglish"`
	Bengali  string `json:"bengali"`
	Feedback string `json:"feedback"`
	UserID   string `json:"-"`
}

func (r *SubmitContributionRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.Banglish) == "" {
		errors["banglish"] = "Banglish text is required"
	}
	if strings.TrimSpace(r.Bengali) == "" {
		errors["bengali"] = "Bengali text is required"
	}

	return errors
}

// ModerationRequest is the body of the approve/reject endpoints. Decision and
// ReviewerID are filled in by the handler.
type ModerationRequest struct {
	Decision   ContributionStatus `json:"-"`
	ReviewerID string             `json:"-"`
	Comment    string             `json:"comment"`
}

func (r *ModerationRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Decision != StatusApproved && r.Decision != StatusRejected {
		errors["decision"] = "Decision must be approved or rejected"
	}
	if strings.TrimSpace(r.ReviewerID) == "" {
		errors["reviewer"] = "Reviewer is required"
	}

	return errors
}
