package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinDeckNameLength = 1
	MaxDeckNameLength = 26
)

var ErrInvalidDeckName = errors.New("deck name must be between 1 and 26 characters")

// Deck is one orderable column of a board. Order is unique and dense (1..N)
// among decks sharing the same BoardID once a reorder settles.
type Deck struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BoardID     uuid.UUID `gorm:"type:uuid;not null;index:idx_decks_board_order,priority:1" json:"board_id"`
	WorkspaceID uuid.UUID `gorm:"type:uuid;not null;index" json:"workspace_id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	Name        string    `gorm:"not null" json:"name"`
	Order       int       `gorm:"column:order;not null;index:idx_decks_board_order,priority:2" json:"order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Deck) TableName() string {
	return "decks"
}

func (d *Deck) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// NormalizeDeckName trims the name and checks its length in runes.
func NormalizeDeckName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	n := utf8.RuneCountInString(trimmed)
	if n < MinDeckNameLength || n > MaxDeckNameLength {
		return "", ErrInvalidDeckName
	}
	return trimmed, nil
}
