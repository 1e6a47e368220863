package models

import "time"

// Blog is a post written by a User. Blogs are never updated or deleted.
type Blog struct {
	ID        int64     `json:"id" db:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Title     string    `json:"title" db:"title" gorm:"column:title;type:text;not null"`
	Content   string    `json:"content" db:"content" gorm:"column:content;type:text;not null"`
	AuthorID  string    `json:"authorId" db:"author_id" gorm:"column:author_id;type:text;not null;index"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"column:created_at;type:timestamptz;not null;autoCreateTime"`
}

func (Blog) TableName() string {
	return "blogs"
}

// BlogView is a Blog joined with its author's display name.
type BlogView struct {
	Blog
	FirstName string `json:"firstName" db:"first_name" gorm:"column:first_name;->"`
	LastName  string `json:"lastName" db:"last_name" gorm:"column:last_name;->"`
}
