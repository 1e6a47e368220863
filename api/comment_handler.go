package api

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/rpupo63/blog-platform/database"
	"github.com/rpupo63/blog-platform/errs"
	"github.com/rpupo63/blog-platform/models"
)

type commentHandler struct {
	responder   Responder
	logger      zerolog.Logger
	commentRepo database.CommentRepository
	blogRepo    database.BlogRepository
	validator   validator
}

func newCommentHandler(responder Responder, logger zerolog.Logger, commentRepo database.CommentRepository, blogRepo database.BlogRepository) commentHandler {
	return commentHandler{
		responder:   responder,
		logger:      logger.With().Str("handlerName", "commentHandler").Logger(),
		commentRepo: commentRepo,
		blogRepo:    blogRepo,
		validator:   newValidator(),
	}
}

// getCommentsForBlog lists a blog's comments, oldest first. An unknown blog
// has no comments.
// @Router /api/comments/{blogId} [get]
func (h commentHandler) getCommentsForBlog() apiHandler {
	return func(w http.ResponseWriter, r *http.Request) error {
		blogID, err := parseID(r, "blogId")
		if err != nil {
			return err
		}

		comments, err := h.commentRepo.FindByBlogID(dataContext(r.Context()), blogID)
		if err != nil {
			return errs.NewDatabaseError("find", "comments", err)
		}
		if comments == nil {
			comments = []models.CommentView{}
		}

		h.responder.WriteJSON(w, http.StatusOK, comments)
		return nil
	}
}

// createComment
// @Router /api/comments/{blogId} [post]
func (h commentHandler) createComment() apiHandler {
	return func(w http.ResponseWriter, r *http.Request) error {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			return errs.NewMissingTokenError()
		}

		blogID, err := parseID(r, "blogId")
		if err != nil {
			return err
		}

		var req createCommentRequest
		if err := decodeBody(r, &req); err != nil {
			return err
		}
		if err := h.validator.validate(&req); err != nil {
			return err
		}

		ctx := dataContext(r.Context())
		exists, err := h.blogRepo.Exists(ctx, blogID)
		if err != nil {
			return errs.NewDatabaseError("find", "blog", err)
		}
		if !exists {
			return errs.NewNotFoundError("blog not found")
		}

		comment := &models.Comment{
			Content: req.Content,
			UserID:  principal.SubjectID,
			BlogID:  blogID,
		}
		if err := h.commentRepo.Add(ctx, comment); err != nil {
			return errs.NewDatabaseError("create", "comment", err)
		}

		h.logger.Info().Int64("commentId", comment.ID).Int64("blogId", blogID).Msg("comment created")
		h.responder.WriteJSON(w, http.StatusCreated, comment)
		return nil
	}
}
