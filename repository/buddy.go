package repository

import (
	"context"

	"github.com/taskbuddy/backend/domain"
)

// BuddyRepository stores each user's relation list and request list
// under one key apiece.
type BuddyRepository interface {
	Relations(ctx context.Context, ownerID string) ([]domain.BuddyRelation, error)
	ReplaceRelations(ctx context.Context, ownerID string, relations []domain.BuddyRelation) error
	// RelationOwners discovers every user id holding a relation
	// partition. Used by the matching engine's availability scan.
	RelationOwners(ctx context.Context) ([]string, error)

	Requests(ctx context.Context, ownerID string) ([]domain.BuddyRequest, error)
	ReplaceRequests(ctx context.Context, ownerID string, requests []domain.BuddyRequest) error
}
