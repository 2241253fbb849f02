package record

import (
	"context"

	"github.com/taskbuddy/backend/domain"
	"github.com/taskbuddy/backend/internal/infrastructure/recordstore"
	"github.com/taskbuddy/backend/repository"
)

type buddyRepository struct {
	store recordstore.Store
}

func NewBuddyRepository(store recordstore.Store) repository.BuddyRepository {
	return &buddyRepository{store: store}
}

func (r *buddyRepository) Relations(ctx context.Context, ownerID string) ([]domain.BuddyRelation, error) {
	var relations []domain.BuddyRelation
	if _, err := readJSON(ctx, r.store, recordstore.BuddiesKey(ownerID), &relations); err != nil {
		return nil, err
	}
	return relations, nil
}

func (r *buddyRepository) ReplaceRelations(ctx context.Context, ownerID string, relations []domain.BuddyRelation) error {
	if relations == nil {
		relations = []domain.BuddyRelation{}
	}
	return writeJSON(ctx, r.store, recordstore.BuddiesKey(ownerID), relations)
}

func (r *buddyRepository) RelationOwners(ctx context.Context) ([]string, error) {
	return listOwners(ctx, r.store, recordstore.BuddiesPrefix)
}

func (r *buddyRepository) Requests(ctx context.Context, ownerID string) ([]domain.BuddyRequest, error) {
	var requests []domain.BuddyRequest
	if _, err := readJSON(ctx, r.store, recordstore.RequestsKey(ownerID), &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *buddyRepository) ReplaceRequests(ctx context.Context, ownerID string, requests []domain.BuddyRequest) error {
	if requests == nil {
		requests = []domain.BuddyRequest{}
	}
	return writeJSON(ctx, r.store, recordstore.RequestsKey(ownerID), requests)
}
