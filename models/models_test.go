package models

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestModelColumns(t *testing.T) {
	tcs := []struct {
		model    any
		table    string
		expected []string
	}{
		{&User{}, "users", []string{"subject_id", "first_name", "last_name", "created_at"}},
		{&Blog{}, "blogs", []string{"id", "title", "content", "author_id", "created_at"}},
		{&Comment{}, "comments", []string{"id", "content", "user_id", "blog_id", "created_at"}},
	}

	for _, tc := range tcs {
		t.Run(tc.table, func(t *testing.T) {
			s, err := schema.Parse(tc.model, &sync.Map{}, schema.NamingStrategy{})
			require.NoError(t, err)
			require.Equal(t, tc.table, s.Table)
			require.ElementsMatch(t, tc.expected, modelColumns(s))
		})
	}
}

func TestFindColumnMismatches(t *testing.T) {
	missing := findColumnMismatches(
		[]string{"id", "title", "content", "author_id"},
		[]string{"id", "content"},
	)
	require.Equal(t, []string{"author_id", "title"}, missing)
	require.Empty(t, findColumnMismatches([]string{"id"}, []string{"id", "extra"}))
}

func TestBlogViewFlattensJSON(t *testing.T) {
	created := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
	view := BlogView{
		Blog:      Blog{ID: 7, Title: "Notes", Content: "On the engine", AuthorID: "u_1", CreatedAt: created},
		FirstName: "Ada",
		LastName:  "Lovelace",
	}

	b, err := json.Marshal(view)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"id": 7,
		"title": "Notes",
		"content": "On the engine",
		"authorId": "u_1",
		"createdAt": "2026-10-17T09:30:00Z",
		"firstName": "Ada",
		"lastName": "Lovelace"
	}`, string(b))
}
