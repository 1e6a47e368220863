package api

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/rpupo63/blog-platform/errs"
)

const visitorTTL = time.Hour

// A visitor tracks a rate limiter and last seen time.
type visitor struct {
	lastSeen time.Time
	limiter  *rate.Limiter
}

// visitors maps a caller key to its limiter. Callers with a principal are
// keyed by subject id, anonymous callers by IP address.
type visitors struct {
	mu          sync.Mutex
	val         map[string]*visitor
	limit       rate.Limit
	burst       int
	lastCleanup time.Time
	now         func() time.Time
}

func newVisitors(perMinute int) *visitors {
	return &visitors{
		val:   make(map[string]*visitor),
		limit: rate.Every(time.Minute / time.Duration(perMinute)),
		burst: perMinute,
		now:   time.Now,
	}
}

// allow reports whether key may make another request now.
func (vs *visitors) allow(key string) bool {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	now := vs.now()
	if now.Sub(vs.lastCleanup) > time.Minute {
		vs.cleanup(now)
	}

	v, ok := vs.val[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(vs.limit, vs.burst)}
		vs.val[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// cleanup deletes visitors not seen in over an hour. Caller holds mu.
func (vs *visitors) cleanup(now time.Time) {
	for key, v := range vs.val {
		if now.Sub(v.lastSeen) > visitorTTL {
			delete(vs.val, key)
		}
	}
	vs.lastCleanup = now
}

// rateLimit rejects callers that exceed their budget with a 429 fault.
func (rt *router) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rt.visitors.allow(visitorKey(r, rt.config.TrustProxyHeaders)) {
			rt.responder.WriteError(w, r, errs.NewTooManyRequestsError())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func visitorKey(r *http.Request, trustProxy bool) string {
	if principal, ok := PrincipalFromContext(r.Context()); ok {
		return "sub:" + principal.SubjectID
	}
	return "ip:" + clientIP(r, trustProxy)
}

// clientIP is the peer address. With trustProxy the first X-Forwarded-For hop
// set by the load balancer wins.
func clientIP(r *http.Request, trustProxy bool) string {
	if fwd := r.Header.Get("X-Forwarded-For"); trustProxy && fwd != "" {
		if hop := strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0]); hop != "" {
			return hop
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
