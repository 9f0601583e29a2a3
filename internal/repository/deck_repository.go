package repository

import (
	"context"
	"errors"
	"time"

	"deckboard/internal/model"
	"deckboard/internal/ordering"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var orderColumn = clause.OrderByColumn{Column: clause.Column{Name: "order"}}

// DeckRepository is the ordered collection store for decks.
type DeckRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDeckRepository(db *gorm.DB) *DeckRepository {
	return &DeckRepository{db: db, now: time.Now}
}

// SelectByBoard returns the board's decks in ascending order. Ties, which only
// exist while a board violates the dense ordering, fall back to creation time.
func (r *DeckRepository) SelectByBoard(ctx context.Context, boardID, workspaceID uuid.UUID) ([]model.Deck, error) {
	var decks []model.Deck
	err := r.db.WithContext(ctx).
		Where("board_id = ? AND workspace_id = ?", boardID, workspaceID).
		Order(orderColumn).
		Order("created_at").
		Find(&decks).Error
	return decks, err
}

func (r *DeckRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Deck, error) {
	var deck model.Deck
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&deck).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeckNotFound
		}
		return nil, err
	}
	return &deck, nil
}

// UpsertAll writes every deck in one statement keyed by id. Existing rows only
// take the new order and updated_at, so names and board membership never
// change through an upsert. A sequence naming a deck that is no longer stored
// is rejected with ErrStaleOrder instead of bringing the deck back.
func (r *DeckRepository) UpsertAll(ctx context.Context, decks []model.Deck) error {
	if len(decks) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(decks))
	for i, d := range decks {
		ids[i] = d.ID
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stored int64
		if err := tx.Model(&model.Deck{}).Where("id IN ?", ids).Count(&stored).Error; err != nil {
			return err
		}
		if stored != int64(len(ids)) {
			return ErrStaleOrder
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"order", "updated_at"}),
		}).Create(&decks).Error
	})
}

// InsertAppend creates a deck at the end of the board (max order + 1).
func (r *DeckRepository) InsertAppend(ctx context.Context, boardID, workspaceID, userID uuid.UUID, name string) (*model.Deck, error) {
	deck := &model.Deck{
		BoardID:     boardID,
		WorkspaceID: workspaceID,
		UserID:      userID,
		Name:        name,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := maxOrder(tx, boardID)
		if err != nil {
			return err
		}
		deck.Order = ordering.NextOrder(current)
		return tx.Create(deck).Error
	})
	if err != nil {
		return nil, err
	}
	return deck, nil
}

func maxOrder(db *gorm.DB, boardID uuid.UUID) (int, error) {
	var result struct {
		Max int
	}
	err := db.Model(&model.Deck{}).
		Select(`COALESCE(MAX("order"), 0) as max`).
		Where("board_id = ?", boardID).
		Scan(&result).Error

	return result.Max, err
}

// RenameByID changes the name only and refreshes updated_at.
func (r *DeckRepository) RenameByID(ctx context.Context, id uuid.UUID, name string) error {
	res := r.db.WithContext(ctx).Model(&model.Deck{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"name": name, "updated_at": r.now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDeckNotFound
	}
	return nil
}

// DeleteByID removes a deck owned by userID and closes the gap it leaves by
// renumbering the surviving decks of the board in the same transaction.
func (r *DeckRepository) DeleteByID(ctx context.Context, id, userID uuid.UUID) (*model.Deck, error) {
	var deleted model.Deck
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&deleted).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDeckNotFound
			}
			return err
		}
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Deck{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrDeckNotFound
		}
		_, err := renumber(tx, deleted.BoardID, r.now().UTC())
		return err
	})
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}

// ListBoardsWithBrokenOrder returns boards whose order values are not exactly
// 1..N.
func (r *DeckRepository) ListBoardsWithBrokenOrder(ctx context.Context) ([]uuid.UUID, error) {
	var boardIDs []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.Deck{}).
		Group("board_id").
		Having(`MIN("order") <> 1 OR MAX("order") <> COUNT(*) OR COUNT(DISTINCT "order") <> COUNT(*)`).
		Pluck("board_id", &boardIDs).Error
	return boardIDs, err
}

// RenumberBoard rewrites the board's orders to 1..N keeping the stored
// sequence. It returns the number of decks whose order changed.
func (r *DeckRepository) RenumberBoard(ctx context.Context, boardID uuid.UUID) (int, error) {
	var changed int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		changed, err = renumber(tx, boardID, r.now().UTC())
		return err
	})
	return changed, err
}

func renumber(tx *gorm.DB, boardID uuid.UUID, stamp time.Time) (int, error) {
	var decks []model.Deck
	if err := tx.Where("board_id = ?", boardID).
		Order(orderColumn).
		Order("created_at").
		Find(&decks).Error; err != nil {
		return 0, err
	}
	previous := make([]int, len(decks))
	for i, deck := range decks {
		previous[i] = deck.Order
	}
	ordering.Renumber(decks, stamp)

	changed := 0
	for i, deck := range decks {
		if deck.Order == previous[i] {
			continue
		}
		if err := tx.Model(&model.Deck{}).Where("id = ?", deck.ID).
			Updates(map[string]interface{}{"order": deck.Order, "updated_at": stamp}).Error; err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}
