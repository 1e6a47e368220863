package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rpupo63/blog-platform/identity"
	"github.com/rpupo63/blog-platform/models"
)

func createBlog(t *testing.T, env *testEnv, author string) models.Blog {
	t.Helper()
	rec := env.do(http.MethodPost, "/api/blogs", `{"title":"t","content":"c"}`, withBearer(env.token(author)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var blog models.Blog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &blog))
	return blog
}

func TestCreateCommentWithoutValidCredential(t *testing.T) {
	env := newTestEnv(t, BlogService)
	blog := createBlog(t, env, "u_1")

	expired, err := env.verifier.Sign("u_2", -time.Hour)
	require.NoError(t, err)
	foreign, err := identity.NewJWTVerifier("another-secret").Sign("u_2", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name      string
		opts      []requestOption
		wantError string
	}{
		{name: "no header", wantError: "missing access token"},
		{name: "garbage token", opts: []requestOption{withBearer("garbage")}, wantError: "invalid access token"},
		{name: "expired token", opts: []requestOption{withBearer(expired)}, wantError: "invalid access token"},
		{name: "foreign signature", opts: []requestOption{withBearer(foreign)}, wantError: "invalid access token"},
		{name: "basic scheme", opts: []requestOption{withHeader("Authorization", "Basic dTpw")}, wantError: "invalid access token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			existsBefore := env.blogs.existsCalls

			rec := env.do(http.MethodPost, fmt.Sprintf("/api/comments/%d", blog.ID), `{"content":"hi"}`, tt.opts...)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.Equal(t, tt.wantError, decodeError(t, rec).Error)
			require.Zero(t, env.comments.addCalls)
			require.Equal(t, existsBefore, env.blogs.existsCalls)
		})
	}
}

func TestCommentsForBlogWithoutComments(t *testing.T) {
	env := newTestEnv(t, BlogService)
	blog := createBlog(t, env, "u_1")

	for _, path := range []string{fmt.Sprintf("/api/comments/%d", blog.ID), "/api/comments/424242"} {
		rec := env.do(http.MethodGet, path, "")

		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `[]`, rec.Body.String())
	}
}

func TestCreateAndListComments(t *testing.T) {
	// Arrange
	env := newTestEnv(t, BlogService)
	env.seedUser("u_1", "Ada", "Lovelace")
	env.seedUser("u_2", "Charles", "Babbage")
	blog := createBlog(t, env, "u_1")
	path := fmt.Sprintf("/api/comments/%d", blog.ID)

	// Act
	first := env.do(http.MethodPost, path, `{"content":"Lovely notes"}`, withBearer(env.token("u_2")))
	second := env.do(http.MethodPost, path, `{"content":"Thank you"}`, withBearer(env.token("u_1")))
	listed := env.do(http.MethodGet, path, "")

	// Assert
	require.Equal(t, http.StatusCreated, first.Code)
	require.Equal(t, http.StatusCreated, second.Code)

	var comment models.Comment
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &comment))
	require.NotZero(t, comment.ID)
	require.Equal(t, "u_2", comment.UserID)
	require.Equal(t, blog.ID, comment.BlogID)

	require.Equal(t, http.StatusOK, listed.Code)
	var comments []models.CommentView
	require.NoError(t, json.Unmarshal(listed.Body.Bytes(), &comments))
	require.Len(t, comments, 2)
	require.Equal(t, "Lovely notes", comments[0].Content)
	require.Equal(t, "Charles", comments[0].FirstName)
	require.Equal(t, "Thank you", comments[1].Content)
	require.Equal(t, "Lovelace", comments[1].LastName)
}

func TestCommentTextIsStoredAsSent(t *testing.T) {
	env := newTestEnv(t, BlogService)
	blog := createBlog(t, env, "u_1")
	path := fmt.Sprintf("/api/comments/%d", blog.ID)
	contents := []string{
		`Tom & Jerry's "show" 1 < 2`,
		"&lt;script&gt;alert(1)&lt;/script&gt;",
		"use <div> tags",
	}

	for _, content := range contents {
		rec := env.do(http.MethodPost, path, jsonBody(t, map[string]string{"content": content}), withBearer(env.token("u_2")))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	listed := env.do(http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, listed.Code)
	var comments []models.CommentView
	require.NoError(t, json.Unmarshal(listed.Body.Bytes(), &comments))
	require.Len(t, comments, len(contents))
	for i, content := range contents {
		require.Equal(t, content, comments[i].Content)
	}
}

func TestCreateCommentForMissingBlog(t *testing.T) {
	env := newTestEnv(t, BlogService)

	rec := env.do(http.MethodPost, "/api/comments/77", `{"content":"hi"}`, withBearer(env.token("u_1")))

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "blog not found", decodeError(t, rec).Error)
	require.Zero(t, env.comments.addCalls)
}

func TestCreateCommentRequiresContent(t *testing.T) {
	env := newTestEnv(t, BlogService)
	blog := createBlog(t, env, "u_1")

	rec := env.do(http.MethodPost, fmt.Sprintf("/api/comments/%d", blog.ID), `{"content":"  \t "}`, withBearer(env.token("u_1")))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "missing required field: content", decodeError(t, rec).Error)
	require.Zero(t, env.comments.addCalls)
}

func TestCommentsBadBlogID(t *testing.T) {
	env := newTestEnv(t, BlogService)

	rec := env.do(http.MethodGet, "/api/comments/-3", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid field: blogId must be a positive integer", decodeError(t, rec).Error)
}
