package database

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rpupo63/blog-platform/models"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

// Upsert inserts a user, or on a subject id conflict updates only the name fields.
// created_at keeps its original value.
func (r *UserRepo) Upsert(ctx context.Context, user *models.User) (*models.User, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "subject_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"first_name", "last_name"}),
		}).
		Create(user).Error
	if err != nil {
		return nil, err
	}

	return r.FindBySubjectID(ctx, user.SubjectID)
}

// FindBySubjectID returns a user by its identity provider subject id
func (r *UserRepo) FindBySubjectID(ctx context.Context, subjectID string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("subject_id = ?", subjectID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
