package service

import (
	"context"
	"errors"

	"deckboard/internal/apperr"
	"deckboard/internal/model"
	"deckboard/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	opMemberAdd    = "member.add"
	opMemberRemove = "member.remove"
	opMemberList   = "member.list"

	msgWorkspaceNotFound = "Workspace not found or you are not its owner"
)

type WorkspaceOwners interface {
	GetOwned(ctx context.Context, id, userID uuid.UUID) (*model.Workspace, error)
}

type MemberStore interface {
	AddMember(ctx context.Context, workspaceID, userID, addedBy uuid.UUID) error
	RemoveMember(ctx context.Context, workspaceID, userID uuid.UUID) error
	ListMembers(ctx context.Context, workspaceID uuid.UUID) ([]model.WorkspaceMember, error)
}

// AccessCache is the workspace cache as seen by membership changes.
type AccessCache interface {
	WorkspaceAccess
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// MemberService shares a workspace with other users. Only the owner can
// change membership; any member can list it.
type MemberService struct {
	owners  WorkspaceOwners
	members MemberStore
	cache   AccessCache
	logger  *zap.Logger
}

func NewMemberService(owners WorkspaceOwners, members MemberStore, cache AccessCache, logger *zap.Logger) *MemberService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemberService{owners: owners, members: members, cache: cache, logger: logger}
}

func (s *MemberService) Add(ctx context.Context, ownerID, workspaceID, userID uuid.UUID) error {
	if err := s.requireOwner(ctx, opMemberAdd, ownerID, workspaceID); err != nil {
		return err
	}
	if userID == uuid.Nil || userID == ownerID {
		return apperr.Validation(opMemberAdd, "user_id must name someone other than the owner")
	}
	if err := s.members.AddMember(ctx, workspaceID, userID, ownerID); err != nil {
		return apperr.Store(opMemberAdd, err)
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *MemberService) Remove(ctx context.Context, ownerID, workspaceID, userID uuid.UUID) error {
	if err := s.requireOwner(ctx, opMemberRemove, ownerID, workspaceID); err != nil {
		return err
	}
	if err := s.members.RemoveMember(ctx, workspaceID, userID); err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return apperr.NotFound(opMemberRemove, "Member not found")
		}
		return apperr.Store(opMemberRemove, err)
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *MemberService) List(ctx context.Context, userID, workspaceID uuid.UUID) ([]model.WorkspaceMember, error) {
	if userID == uuid.Nil {
		return nil, apperr.Auth(opMemberList, errors.New("no authenticated user"))
	}
	ok, err := s.cache.Contains(ctx, userID, workspaceID)
	if err != nil {
		return nil, apperr.Store(opMemberList, err)
	}
	if !ok {
		return nil, apperr.NotFound(opMemberList, msgWorkspaceNotFound)
	}
	members, err := s.members.ListMembers(ctx, workspaceID)
	if err != nil {
		return nil, apperr.Store(opMemberList, err)
	}
	return members, nil
}

func (s *MemberService) requireOwner(ctx context.Context, op string, ownerID, workspaceID uuid.UUID) error {
	if ownerID == uuid.Nil {
		return apperr.Auth(op, errors.New("no authenticated user"))
	}
	if _, err := s.owners.GetOwned(ctx, workspaceID, ownerID); err != nil {
		if errors.Is(err, repository.ErrWorkspaceNotFound) {
			return apperr.NotFound(op, msgWorkspaceNotFound)
		}
		return apperr.Store(op, err)
	}
	return nil
}

// invalidate drops the member's cached workspace list. A failure only delays
// the change until the entry expires.
func (s *MemberService) invalidate(ctx context.Context, userID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("workspace cache invalidation failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}
}
