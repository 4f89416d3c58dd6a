package models

import (
	"fmt"
	"time"
)

// VocabularyEntry is one autocomplete term. The name is the key, so
// inserting an existing name is a no-op.
type VocabularyEntry struct {
	Name      string    `gorm:"type:text;primaryKey" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime"       json:"createdAt"`
}

type VocabularyKind string

const (
	VocabularyProducts VocabularyKind = "products"
	VocabularyEvents   VocabularyKind = "events"
)

func (k VocabularyKind) TableName() string {
	return string(k)
}

func ParseVocabularyKind(value string) (VocabularyKind, error) {
	switch VocabularyKind(value) {
	case VocabularyProducts, VocabularyEvents:
		return VocabularyKind(value), nil
	}
	return "", fmt.Errorf("unknown vocabulary %q", value)
}
