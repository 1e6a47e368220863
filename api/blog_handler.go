package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/rpupo63/blog-platform/database"
	"github.com/rpupo63/blog-platform/errs"
	"github.com/rpupo63/blog-platform/models"
)

type blogHandler struct {
	responder Responder
	logger    zerolog.Logger
	blogRepo  database.BlogRepository
	validator validator
}

func newBlogHandler(responder Responder, logger zerolog.Logger, blogRepo database.BlogRepository) blogHandler {
	return blogHandler{
		responder: responder,
		logger:    logger.With().Str("handlerName", "blogHandler").Logger(),
		blogRepo:  blogRepo,
		validator: newValidator(),
	}
}

// parseID reads a positive numeric path parameter
func parseID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return 0, errs.NewMissingRequiredFieldError(name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.NewInvalidFieldError(name, "must be a positive integer")
	}
	return id, nil
}

// getAllBlogs lists every blog, newest first, with the author's name.
// @Router /api/blogs [get]
func (h blogHandler) getAllBlogs() apiHandler {
	return func(w http.ResponseWriter, r *http.Request) error {
		blogs, err := h.blogRepo.FindAll(dataContext(r.Context()))
		if err != nil {
			return errs.NewDatabaseError("find", "blogs", err)
		}

		h.responder.WriteJSON(w, http.StatusOK, blogs)
		return nil
	}
}

// getBlogById
// @Router /api/blogs/{id} [get]
func (h blogHandler) getBlogById() apiHandler {
	return func(w http.ResponseWriter, r *http.Request) error {
		id, err := parseID(r, "id")
		if err != nil {
			return err
		}

		blog, err := h.blogRepo.FindByID(dataContext(r.Context()), id)
		if err != nil {
			return errs.NewDatabaseError("find", "blog", err)
		}
		if blog == nil {
			return errs.NewNotFoundError("blog not found")
		}

		h.responder.WriteJSON(w, http.StatusOK, blog)
		return nil
	}
}

// createBlog publishes a blog authored by the caller.
// @Router /api/blogs [post]
func (h blogHandler) createBlog() apiHandler {
	return func(w http.ResponseWriter, r *http.Request) error {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			return errs.NewMissingTokenError()
		}

		var req createBlogRequest
		if err := decodeBody(r, &req); err != nil {
			return err
		}
		if err := h.validator.validate(&req); err != nil {
			return err
		}

		blog := &models.Blog{
			Title:    req.Title,
			Content:  req.Content,
			AuthorID: principal.SubjectID,
		}
		if err := h.blogRepo.Add(dataContext(r.Context()), blog); err != nil {
			return errs.NewDatabaseError("create", "blog", err)
		}

		h.logger.Info().Int64("blogId", blog.ID).Str("authorId", blog.AuthorID).Msg("blog created")
		h.responder.WriteJSON(w, http.StatusCreated, blog)
		return nil
	}
}
