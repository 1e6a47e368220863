package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *routeHandlers) userRoutes() []route {
	return []route{
		{method: http.MethodPost, pattern: "/api/users", access: Public, limited: true, handler: h.userHandler.createUser()},
		{method: http.MethodGet, pattern: "/api/users", access: RequiresPrincipal, handler: h.userHandler.getUser()},
	}
}

func (h *routeHandlers) blogRoutes() []route {
	return []route{
		{method: http.MethodGet, pattern: "/api/blogs", access: Public, handler: h.blogHandler.getAllBlogs()},
		{method: http.MethodPost, pattern: "/api/blogs", access: RequiresPrincipal, limited: true, handler: h.blogHandler.createBlog()},
		{method: http.MethodGet, pattern: "/api/blogs/{id}", access: Public, handler: h.blogHandler.getBlogById()},
	}
}

func (h *routeHandlers) commentRoutes() []route {
	return []route{
		{method: http.MethodGet, pattern: "/api/comments/{blogId}", access: Public, handler: h.commentHandler.getCommentsForBlog()},
		{method: http.MethodPost, pattern: "/api/comments/{blogId}", access: RequiresPrincipal, limited: true, handler: h.commentHandler.createComment()},
	}
}

// routesFor returns the route tables a service mounts
func (h *routeHandlers) routesFor(service Service) []route {
	switch service {
	case UserService:
		return h.userRoutes()
	case BlogService:
		return append(h.blogRoutes(), h.commentRoutes()...)
	default:
		return nil
	}
}

// mount registers routes on r. The capability check wraps everything else so
// a missing principal is rejected before rate limiting or the controller.
func (rt *router) mount(r chi.Router, routes []route) {
	for _, rte := range routes {
		var handler http.Handler = rt.handle(rte.handler)
		if rte.limited && rt.visitors != nil {
			handler = rt.rateLimit(handler)
		}
		if rte.access == RequiresPrincipal {
			handler = rt.requirePrincipal(handler)
		}
		r.Method(rte.method, rte.pattern, handler)
	}
}
