package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/rpupo63/blog-platform/models"
)

type CommentRepo struct {
	db *gorm.DB
}

func NewCommentRepo(db *gorm.DB) *CommentRepo {
	return &CommentRepo{db}
}

// FindByBlogID returns a blog's comments in the order they were written
func (r *CommentRepo) FindByBlogID(ctx context.Context, blogID int64) ([]models.CommentView, error) {
	comments := []models.CommentView{}
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Select("comments.id, comments.content, comments.user_id, comments.blog_id, comments.created_at, " +
			"COALESCE(users.first_name, '') AS first_name, COALESCE(users.last_name, '') AS last_name").
		Joins("LEFT JOIN users ON users.subject_id = comments.user_id").
		Where("comments.blog_id = ?", blogID).
		Order("comments.created_at ASC, comments.id ASC").
		Scan(&comments).Error
	return comments, err
}

// Add inserts a new comment into the database
func (r *CommentRepo) Add(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}
