package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Preference is one persisted launcher setting. Only values that differ from
// their registered default are stored.
type Preference struct {
	Name  string `gorm:"primaryKey" json:"name"`
	Value string `json:"value"`
}

// PreferenceRepository defines decoupled operations for preference persistence.
type PreferenceRepository interface {
	Get(ctx context.Context, name string) (*Preference, error)
	Put(ctx context.Context, p Preference) error
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]Preference, error)
}

// gormPreferenceRepo is a GORM-backed implementation of PreferenceRepository.
// Use constructor NewPreferenceRepository to obtain an instance.
type gormPreferenceRepo struct{ db *gorm.DB }

// NewPreferenceRepository creates a PreferenceRepository. Accepts *gorm.DB to avoid global access.
func NewPreferenceRepository(db *gorm.DB) PreferenceRepository { return &gormPreferenceRepo{db: db} }

func (r *gormPreferenceRepo) Get(ctx context.Context, name string) (*Preference, error) {
	if r.db == nil {
		return nil, fmt.Errorf("repository not initialized")
	}
	var p Preference
	err := r.db.WithContext(ctx).First(&p, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *gormPreferenceRepo) Put(ctx context.Context, p Preference) error {
	if r.db == nil {
		return fmt.Errorf("repository not initialized")
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&p).Error
}

func (r *gormPreferenceRepo) Delete(ctx context.Context, name string) error {
	if r.db == nil {
		return fmt.Errorf("repository not initialized")
	}
	return r.db.WithContext(ctx).Where("name = ?", name).Delete(&Preference{}).Error
}

func (r *gormPreferenceRepo) List(ctx context.Context) ([]Preference, error) {
	if r.db == nil {
		return nil, fmt.Errorf("repository not initialized")
	}
	var prefs []Preference
	if err := r.db.WithContext(ctx).Order("name").Find(&prefs).Error; err != nil {
		return nil, err
	}
	return prefs, nil
}
