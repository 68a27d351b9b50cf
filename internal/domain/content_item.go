package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ContentKind classifies what a content item teaches.
type ContentKind string

// Possible content kinds.
const (
	ContentKindVocab   ContentKind = "vocab"
	ContentKindPhrase  ContentKind = "phrase"
	ContentKindGrammar ContentKind = "grammar"
)

// Content item validation errors
var (
	ErrEmptyContentItemID = errors.New("content item ID cannot be empty")
	ErrEmptyTerm          = errors.New("content item term cannot be empty")
	ErrEmptyDefinition    = errors.New("content item definition cannot be empty")
)

// ContentItem is one unit of learnable material: a Hindi term or phrase with
// its English definition and optional supporting detail. Cards reference a
// content item; exercises are authored against it.
type ContentItem struct {
	ID           uuid.UUID   `json:"id"`
	Term         string      `json:"term"`         // Hindi text (Devanagari)
	Definition   string      `json:"definition"`   // English translation
	Romanization string      `json:"romanization,omitempty"`
	Context      string      `json:"context,omitempty"` // Example sentence or usage note
	Kind         ContentKind `json:"kind"`
	CEFRLevel    string      `json:"cefr_level,omitempty"` // A1-C2
	Topics       []string    `json:"topics,omitempty"`     // Topic tags, used for focus suggestions
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// NewContentItem creates a content item of the given kind.
func NewContentItem(term, definition string, kind ContentKind) (*ContentItem, error) {
	now := UTCNow()
	item := &ContentItem{
		ID:         uuid.New(),
		Term:       term,
		Definition: definition,
		Kind:       kind,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks if the ContentItem has valid data.
func (c *ContentItem) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyContentItemID
	}

	if c.Term == "" {
		return ErrEmptyTerm
	}

	if c.Definition == "" {
		return ErrEmptyDefinition
	}

	return nil
}
