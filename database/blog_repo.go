package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/rpupo63/blog-platform/models"
)

const blogViewColumns = "blogs.id, blogs.title, blogs.content, blogs.author_id, blogs.created_at, " +
	"COALESCE(users.first_name, '') AS first_name, COALESCE(users.last_name, '') AS last_name"

type BlogRepo struct {
	db *gorm.DB
}

func NewBlogRepo(db *gorm.DB) *BlogRepo {
	return &BlogRepo{db}
}

func (r *BlogRepo) withAuthor(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Blog{}).
		Select(blogViewColumns).
		Joins("LEFT JOIN users ON users.subject_id = blogs.author_id")
}

// FindAll returns all blogs from the database
func (r *BlogRepo) FindAll(ctx context.Context) ([]models.BlogView, error) {
	blogs := []models.BlogView{}
	err := r.withAuthor(ctx).
		Order("blogs.created_at DESC, blogs.id DESC").
		Scan(&blogs).Error
	return blogs, err
}

// FindByID returns a blog by its ID
func (r *BlogRepo) FindByID(ctx context.Context, id int64) (*models.BlogView, error) {
	var blogs []models.BlogView
	err := r.withAuthor(ctx).
		Where("blogs.id = ?", id).
		Limit(1).
		Scan(&blogs).Error
	if err != nil {
		return nil, err
	}
	if len(blogs) == 0 {
		return nil, nil
	}
	return &blogs[0], nil
}

func (r *BlogRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Blog{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Add inserts a new blog into the database
func (r *BlogRepo) Add(ctx context.Context, blog *models.Blog) error {
	return r.db.WithContext(ctx).Create(blog).Error
}
