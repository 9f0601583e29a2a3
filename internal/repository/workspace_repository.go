package repository

import (
	"context"
	"errors"

	"deckboard/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WorkspaceRepository struct {
	db *gorm.DB
}

func NewWorkspaceRepository(db *gorm.DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

func (r *WorkspaceRepository) Create(ctx context.Context, workspace *model.Workspace) error {
	return r.db.WithContext(ctx).Create(workspace).Error
}

func (r *WorkspaceRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Workspace, error) {
	var workspaces []model.Workspace
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").Find(&workspaces).Error
	return workspaces, err
}

// ListIDsByUser returns the workspaces the user owns or is a member of. It
// backs the workspace cache loader.
func (r *WorkspaceRepository) ListIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Raw(
		"SELECT id FROM workspaces WHERE user_id = ? UNION SELECT workspace_id FROM workspace_members WHERE user_id = ?",
		userID, userID,
	).Scan(&ids).Error
	return ids, err
}

// GetOwned returns ErrWorkspaceNotFound unless userID owns the workspace.
func (r *WorkspaceRepository) GetOwned(ctx context.Context, id, userID uuid.UUID) (*model.Workspace, error) {
	var workspace model.Workspace
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&workspace).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, err
	}
	return &workspace, nil
}
