package models

import "time"

// User is a profile keyed by the identity provider's subject id.
// Only the name fields change after creation.
type User struct {
	SubjectID string    `json:"subjectId" db:"subject_id" gorm:"column:subject_id;type:text;primaryKey;not null"`
	FirstName string    `json:"firstName" db:"first_name" gorm:"column:first_name;type:text;not null"`
	LastName  string    `json:"lastName" db:"last_name" gorm:"column:last_name;type:text;not null"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"column:created_at;type:timestamptz;not null;autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}
