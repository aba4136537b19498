package store

import (
	"errors"

	"gorm.io/gorm"
)

const metaKeySessionToken = "session_token"

type metaRow struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

func (metaRow) TableName() string { return "meta" }

func (s *Store) getMeta(key string) (string, error) {
	var row metaRow
	err := s.db.First(&row, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return row.Value, nil
}

func (s *Store) setMeta(key, value string) error {
	return s.db.Save(&metaRow{Key: key, Value: value}).Error
}

func (s *Store) deleteMeta(key string) error {
	return s.db.Delete(&metaRow{}, "key = ?", key).Error
}

// LoadToken returns the persisted session token, or "" when none is held.
func (s *Store) LoadToken() (string, error) {
	return s.getMeta(metaKeySessionToken)
}

func (s *Store) SaveToken(token string) error {
	return s.setMeta(metaKeySessionToken, token)
}

func (s *Store) ClearToken() error {
	return s.deleteMeta(metaKeySessionToken)
}
