package repository

import (
	"context"

	"deckboard/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// AddMember is idempotent; adding an existing member keeps the original row.
func (r *MemberRepository) AddMember(ctx context.Context, workspaceID, userID, addedBy uuid.UUID) error {
	member := model.WorkspaceMember{
		WorkspaceID: workspaceID,
		UserID:      userID,
		AddedBy:     addedBy,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "workspace_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&member).Error
}

func (r *MemberRepository) RemoveMember(ctx context.Context, workspaceID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Delete(&model.WorkspaceMember{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

func (r *MemberRepository) ListMembers(ctx context.Context, workspaceID uuid.UUID) ([]model.WorkspaceMember, error) {
	var members []model.WorkspaceMember
	err := r.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("created_at").
		Find(&members).Error
	return members, err
}
