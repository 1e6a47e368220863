package database

import (
	"context"

	"github.com/rpupo63/blog-platform/models"
)

// UserRepository persists User profiles.
type UserRepository interface {
	// Upsert inserts the user or updates its name fields, returning the stored row.
	Upsert(ctx context.Context, user *models.User) (*models.User, error)
	// FindBySubjectID returns nil, nil when no user has that subject id.
	FindBySubjectID(ctx context.Context, subjectID string) (*models.User, error)
}

// BlogRepository persists Blogs.
type BlogRepository interface {
	Add(ctx context.Context, blog *models.Blog) error
	// FindAll returns every blog, newest first, with the author's name.
	FindAll(ctx context.Context) ([]models.BlogView, error)
	// FindByID returns nil, nil when the blog does not exist.
	FindByID(ctx context.Context, id int64) (*models.BlogView, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// CommentRepository persists Comments.
type CommentRepository interface {
	Add(ctx context.Context, comment *models.Comment) error
	// FindByBlogID returns the blog's comments, oldest first, with the commenter's name.
	FindByBlogID(ctx context.Context, blogID int64) ([]models.CommentView, error)
}

var (
	_ UserRepository    = (*UserRepo)(nil)
	_ BlogRepository    = (*BlogRepo)(nil)
	_ CommentRepository = (*CommentRepo)(nil)
)
