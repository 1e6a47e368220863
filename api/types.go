package api

import "net/http"

// Service selects which route tables a server mounts.
type Service string

const (
	UserService Service = "usersvc"
	BlogService Service = "blogsvc"
)

func (s Service) valid() bool {
	return s == UserService || s == BlogService
}

// Access is the capability a route requires before its controller runs.
type Access int

const (
	// Public routes run with or without a principal.
	Public Access = iota
	// RequiresPrincipal routes are rejected with 401 unless a valid credential was presented.
	RequiresPrincipal
)

// apiHandler is a controller. A returned error is passed to the terminal error handler.
type apiHandler func(w http.ResponseWriter, r *http.Request) error

// route is a single entry of a route table
type route struct {
	method  string
	pattern string
	access  Access
	// limited routes are subject to the write rate limiter
	limited bool
	handler apiHandler
}

// routeHandlers contains all the controllers a server can mount
type routeHandlers struct {
	userHandler    userHandler
	blogHandler    blogHandler
	commentHandler commentHandler
	healthHandler  healthHandler
}

// ErrorResponse is the body of every error response.
// Stack is null in production.
type ErrorResponse struct {
	Error string  `json:"error"`
	Stack *string `json:"stack"`
}

type createUserRequest struct {
	FirstName string `json:"firstName" validate:"required,notblank,max=100,nomarkup"`
	LastName  string `json:"lastName" validate:"required,notblank,max=100,nomarkup"`
}

type createBlogRequest struct {
	Title   string `json:"title" validate:"required,notblank,max=200"`
	Content string `json:"content" validate:"required,notblank,max=100000"`
}

type createCommentRequest struct {
	Content string `json:"content" validate:"required,notblank,max=5000"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Uptime  string `json:"uptime"`
}
