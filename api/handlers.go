package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/rpupo63/blog-platform/database"
	"github.com/rpupo63/blog-platform/errs"
)

// Pinger reports whether the data store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Repositories are the data access dependencies of the controllers.
type Repositories struct {
	Users    database.UserRepository
	Blogs    database.BlogRepository
	Comments database.CommentRepository
	Pinger   Pinger
}

// RepositoriesFrom exposes a Database through the controller interfaces.
func RepositoriesFrom(db database.Database) Repositories {
	return Repositories{
		Users:    db.UserRepo(),
		Blogs:    db.BlogRepo(),
		Comments: db.CommentRepo(),
		Pinger:   db,
	}
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(repos Repositories, responder Responder, logger zerolog.Logger, service Service, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		userHandler:    newUserHandler(responder, logger, repos.Users),
		blogHandler:    newBlogHandler(responder, logger, repos.Blogs),
		commentHandler: newCommentHandler(responder, logger, repos.Comments, repos.Blogs),
		healthHandler: healthHandler{
			responder:   responder,
			pinger:      repos.Pinger,
			service:     service,
			startupTime: startupTime,
		},
	}
}

// handle adapts a controller to net/http, forwarding its error to the terminal error handler.
func (rt *router) handle(fn apiHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			rt.responder.WriteError(w, r, err)
		}
	}
}

type healthHandler struct {
	responder   Responder
	pinger      Pinger
	service     Service
	startupTime time.Time
}

// health pings the database.
// @Router /healthz [get]
func (h healthHandler) health() apiHandler {
	return func(w http.ResponseWriter, r *http.Request) error {
		if h.pinger != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := h.pinger.Ping(ctx); err != nil {
				return errs.NewUnavailableError("database unreachable", err)
			}
		}

		h.responder.WriteJSON(w, http.StatusOK, healthResponse{
			Status:  "ok",
			Service: string(h.service),
			Uptime:  time.Since(h.startupTime).Round(time.Second).String(),
		})
		return nil
	}
}
