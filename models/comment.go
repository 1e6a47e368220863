package models

import "time"

// Comment belongs to a Blog and is written by a User.
type Comment struct {
	ID        int64     `json:"id" db:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Content   string    `json:"content" db:"content" gorm:"column:content;type:text;not null"`
	UserID    string    `json:"userId" db:"user_id" gorm:"column:user_id;type:text;not null"`
	BlogID    int64     `json:"blogId" db:"blog_id" gorm:"column:blog_id;not null;index"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"column:created_at;type:timestamptz;not null;autoCreateTime"`
}

func (Comment) TableName() string {
	return "comments"
}

// CommentView is a Comment joined with the commenter's display name.
type CommentView struct {
	Comment
	FirstName string `json:"firstName" db:"first_name" gorm:"column:first_name;->"`
	LastName  string `json:"lastName" db:"last_name" gorm:"column:last_name;->"`
}
