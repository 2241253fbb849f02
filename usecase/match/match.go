// Package match pairs users into mutual buddy relationships, either
// automatically (random assignment among unpaired users) or through
// explicit requests.
package match

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskbuddy/backend/domain"
	"github.com/taskbuddy/backend/repository"
	"github.com/taskbuddy/backend/usecase/share"
)

type UseCase struct {
	buddies repository.BuddyRepository
	users   repository.UserRepository
	sharing *share.UseCase
	logger  *zap.Logger

	// pairMu serializes in-process pairings so two racing EnsurePaired
	// calls cannot both pick the same candidate. Cross-process races
	// remain an accepted exposure of the storage model.
	pairMu sync.Mutex
}

func New(buddies repository.BuddyRepository, users repository.UserRepository, sharing *share.UseCase, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		buddies: buddies,
		users:   users,
		sharing: sharing,
		logger:  logger,
	}
}

// EnsurePaired assigns a mutual buddy to an unpaired user. An already
// paired user gets their current active relation back. When no
// candidate is available it returns domain.ErrNoCandidate, which is
// informational: callers retry on a later poll, never in a tight loop.
func (uc *UseCase) EnsurePaired(ctx context.Context, user *domain.User) (*domain.BuddyRelation, error) {
	if user == nil || user.ID == "" {
		return nil, domain.ErrInvalidPayload
	}

	uc.pairMu.Lock()
	defer uc.pairMu.Unlock()

	existing, err := uc.buddies.Relations(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		if active := domain.ActiveBuddy(existing); active != nil {
			return active, nil
		}
		// Only inactive relations remain; matching never runs on top of
		// them, the user has to clear them out first.
		return nil, domain.ErrAlreadyPaired
	}

	candidate, err := uc.pickCandidate(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, domain.ErrNoCandidate
	}

	now := time.Now()
	selfRelation := domain.BuddyRelation{
		UserID:   candidate.ID,
		Name:     candidate.Name,
		Email:    candidate.Email,
		Status:   domain.BuddyStatusAccepted,
		Since:    now,
		IsActive: true,
	}
	reciprocal := domain.BuddyRelation{
		UserID:   user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Status:   domain.BuddyStatusAccepted,
		Since:    now,
		IsActive: true,
	}

	if err := uc.buddies.ReplaceRelations(ctx, user.ID, []domain.BuddyRelation{selfRelation}); err != nil {
		return nil, err
	}
	if err := uc.buddies.ReplaceRelations(ctx, candidate.ID, []domain.BuddyRelation{reciprocal}); err != nil {
		// Partial pairing: self believes paired, candidate does not.
		// Surfaced, not masked; a retry of the same call converges.
		uc.logger.Error("reciprocal relation write failed",
			zap.String("user_id", user.ID),
			zap.String("candidate_id", candidate.ID),
			zap.Error(err))
		return nil, err
	}

	if err := uc.sharing.Propagate(ctx, user.ID, candidate.ID); err != nil {
		return nil, err
	}

	uc.logger.Info("buddy assigned",
		zap.String("user_id", user.ID),
		zap.String("buddy_id", candidate.ID))
	return &selfRelation, nil
}

// pickCandidate selects uniformly at random among users that are not
// the caller and appear on neither side of any existing relation list.
func (uc *UseCase) pickCandidate(ctx context.Context, selfID string) (*domain.User, error) {
	owners, err := uc.buddies.RelationOwners(ctx)
	if err != nil {
		return nil, err
	}

	unavailable := make(map[string]struct{})
	for _, owner := range owners {
		relations, err := uc.buddies.Relations(ctx, owner)
		if err != nil {
			return nil, err
		}
		if len(relations) == 0 {
			continue
		}
		unavailable[owner] = struct{}{}
		for _, relation := range relations {
			unavailable[relation.UserID] = struct{}{}
		}
	}

	all, err := uc.users.List(ctx)
	if err != nil {
		return nil, err
	}
	var pool []domain.User
	for _, candidate := range all {
		if candidate.ID == selfID {
			continue
		}
		if _, taken := unavailable[candidate.ID]; taken {
			continue
		}
		pool = append(pool, candidate)
	}
	if len(pool) == 0 {
		return nil, nil
	}
	picked := pool[rand.Intn(len(pool))]
	return &picked, nil
}

// SendRequest creates a pending buddy request, visible in both the
// sender's and the receiver's request lists.
func (uc *UseCase) SendRequest(ctx context.Context, sender *domain.User, receiverEmail string) (*domain.BuddyRequest, error) {
	if sender == nil || sender.ID == "" || receiverEmail == "" {
		return nil, domain.ErrInvalidPayload
	}
	receiver, err := uc.users.GetByEmail(ctx, receiverEmail)
	if err != nil {
		return nil, err
	}
	if receiver.ID == sender.ID {
		return nil, domain.ErrSelfBuddy
	}

	relations, err := uc.buddies.Relations(ctx, sender.ID)
	if err != nil {
		return nil, err
	}
	for _, relation := range relations {
		if relation.UserID == receiver.ID {
			return nil, domain.NewError(domain.ErrCodeConflict, "this user is already your buddy")
		}
	}

	request := domain.BuddyRequest{
		ID:          uuid.NewString(),
		SenderID:    sender.ID,
		SenderName:  sender.Name,
		SenderEmail: sender.Email,
		ReceiverID:  receiver.ID,
		Status:      domain.BuddyStatusPending,
		CreatedAt:   time.Now(),
	}

	if err := uc.appendRequest(ctx, sender.ID, request); err != nil {
		return nil, err
	}
	if err := uc.appendRequest(ctx, receiver.ID, request); err != nil {
		return nil, err
	}
	return &request, nil
}

// Respond answers a pending request addressed to the user. Accepting
// creates the symmetric accepted relation pair and propagates sharing;
// either answer removes the request from both lists.
func (uc *UseCase) Respond(ctx context.Context, userID, requestID string, accept bool) (*domain.BuddyRelation, error) {
	requests, err := uc.buddies.Requests(ctx, userID)
	if err != nil {
		return nil, err
	}
	var request *domain.BuddyRequest
	remaining := make([]domain.BuddyRequest, 0, len(requests))
	for i := range requests {
		if requests[i].ID == requestID && requests[i].ReceiverID == userID {
			request = &requests[i]
			continue
		}
		remaining = append(remaining, requests[i])
	}
	if request == nil {
		return nil, domain.ErrRequestNotFound
	}

	var relation *domain.BuddyRelation
	if accept {
		responder, err := uc.users.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		relation, err = uc.acceptRequest(ctx, responder, request)
		if err != nil {
			return nil, err
		}
	}

	if err := uc.buddies.ReplaceRequests(ctx, userID, remaining); err != nil {
		return nil, err
	}
	if err := uc.removeRequest(ctx, request.SenderID, requestID); err != nil {
		return nil, err
	}
	return relation, nil
}

func (uc *UseCase) acceptRequest(ctx context.Context, responder *domain.User, request *domain.BuddyRequest) (*domain.BuddyRelation, error) {
	now := time.Now()

	responderRelations, err := uc.buddies.Relations(ctx, responder.ID)
	if err != nil {
		return nil, err
	}
	relation := domain.BuddyRelation{
		UserID:   request.SenderID,
		Name:     request.SenderName,
		Email:    request.SenderEmail,
		Status:   domain.BuddyStatusAccepted,
		Since:    now,
		IsActive: domain.ActiveBuddy(responderRelations) == nil,
	}
	if err := uc.buddies.ReplaceRelations(ctx, responder.ID, append(responderRelations, relation)); err != nil {
		return nil, err
	}

	senderRelations, err := uc.buddies.Relations(ctx, request.SenderID)
	if err != nil {
		return nil, err
	}
	reciprocal := domain.BuddyRelation{
		UserID:   responder.ID,
		Name:     responder.Name,
		Email:    responder.Email,
		Status:   domain.BuddyStatusAccepted,
		Since:    now,
		IsActive: domain.ActiveBuddy(senderRelations) == nil,
	}
	if err := uc.buddies.ReplaceRelations(ctx, request.SenderID, append(senderRelations, reciprocal)); err != nil {
		return nil, err
	}

	if relation.IsActive && reciprocal.IsActive {
		if err := uc.sharing.Propagate(ctx, responder.ID, request.SenderID); err != nil {
			return nil, err
		}
	}
	return &relation, nil
}

// RemoveBuddy deletes the relation from both partitions. This is the
// simple unpairing path; it never runs the matching algorithm.
func (uc *UseCase) RemoveBuddy(ctx context.Context, userID, buddyID string) error {
	if err := uc.dropRelation(ctx, userID, buddyID); err != nil {
		return err
	}
	return uc.dropRelation(ctx, buddyID, userID)
}

// Relations returns the user's buddy relation list.
func (uc *UseCase) Relations(ctx context.Context, userID string) ([]domain.BuddyRelation, error) {
	return uc.buddies.Relations(ctx, userID)
}

// Requests returns the user's pending request list.
func (uc *UseCase) Requests(ctx context.Context, userID string) ([]domain.BuddyRequest, error) {
	return uc.buddies.Requests(ctx, userID)
}

func (uc *UseCase) appendRequest(ctx context.Context, ownerID string, request domain.BuddyRequest) error {
	requests, err := uc.buddies.Requests(ctx, ownerID)
	if err != nil {
		return err
	}
	return uc.buddies.ReplaceRequests(ctx, ownerID, append(requests, request))
}

func (uc *UseCase) removeRequest(ctx context.Context, ownerID, requestID string) error {
	requests, err := uc.buddies.Requests(ctx, ownerID)
	if err != nil {
		return err
	}
	remaining := make([]domain.BuddyRequest, 0, len(requests))
	for _, request := range requests {
		if request.ID != requestID {
			remaining = append(remaining, request)
		}
	}
	return uc.buddies.ReplaceRequests(ctx, ownerID, remaining)
}

func (uc *UseCase) dropRelation(ctx context.Context, ownerID, buddyID string) error {
	relations, err := uc.buddies.Relations(ctx, ownerID)
	if err != nil {
		return err
	}
	remaining := make([]domain.BuddyRelation, 0, len(relations))
	for _, relation := range relations {
		if relation.UserID != buddyID {
			remaining = append(remaining, relation)
		}
	}
	return uc.buddies.ReplaceRelations(ctx, ownerID, remaining)
}
