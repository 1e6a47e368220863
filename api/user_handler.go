package api

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/rpupo63/blog-platform/database"
	"github.com/rpupo63/blog-platform/errs"
	"github.com/rpupo63/blog-platform/models"
)

type userHandler struct {
	responder Responder
	logger    zerolog.Logger
	userRepo  database.UserRepository
	validator validator
}

func newUserHandler(responder Responder, logger zerolog.Logger, userRepo database.UserRepository) userHandler {
	return userHandler{
		responder: responder,
		logger:    logger.With().Str("handlerName", "userHandler").Logger(),
		userRepo:  userRepo,
		validator: newValidator(),
	}
}

// createUser stores the caller's profile, keyed by the subject of the verified
// credential. Calling it again updates the name fields.
// @Router /api/users [post]
func (h userHandler) createUser() apiHandler {
	return func(w http.ResponseWriter, r *http.Request) error {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			return errs.NewBadRequestError("subjectId is required: sign in before creating a profile")
		}

		var req createUserRequest
		if err := decodeBody(r, &req); err != nil {
			return err
		}
		if err := h.validator.validate(&req); err != nil {
			return err
		}

		user, err := h.userRepo.Upsert(dataContext(r.Context()), &models.User{
			SubjectID: principal.SubjectID,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		})
		if err != nil {
			return errs.NewDatabaseError("save", "user", err)
		}

		h.logger.Debug().Str("subjectId", user.SubjectID).Msg("user profile saved")
		h.responder.WriteJSON(w, http.StatusCreated, user)
		return nil
	}
}

// getUser returns the profile of the caller.
// @Router /api/users [get]
func (h userHandler) getUser() apiHandler {
	return func(w http.ResponseWriter, r *http.Request) error {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			return errs.NewMissingTokenError()
		}

		user, err := h.userRepo.FindBySubjectID(dataContext(r.Context()), principal.SubjectID)
		if err != nil {
			return errs.NewDatabaseError("find", "user", err)
		}
		if user == nil {
			return errs.NewNotFoundError("user not found")
		}

		h.responder.WriteJSON(w, http.StatusOK, user)
		return nil
	}
}
