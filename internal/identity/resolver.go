package identity

import (
	"net"
	"net/http"
	"strings"

	"github.com/tessera-labs/admission/pkg/limiter"
)

// Namespaces for the three ways a caller can be identified. Keeping them
// distinct means a spoofed X-Client-ID can never collide with a token
// subject or an IP bucket.
const (
	NamespaceToken  limiter.Namespace = "token"
	NamespaceClient limiter.Namespace = "client"
	NamespaceIP     limiter.Namespace = "ip"
)

// Resolver picks the identity a request is billed as. Precedence: the
// subject of a valid bearer token, then the X-Client-ID header, then the
// client IP.
type Resolver struct {
	auth *Authenticator
}

// NewResolver returns a resolver. auth may be nil, in which case bearer
// tokens are ignored and resolution starts at X-Client-ID.
func NewResolver(auth *Authenticator) *Resolver {
	return &Resolver{auth: auth}
}

// Resolve never fails: a request with no credentials still has an address.
// Invalid or expired tokens fall through to the next source rather than
// rejecting the request; admission control is not an authentication layer.
func (rs *Resolver) Resolve(r *http.Request) limiter.Identity {
	if id, ok := rs.fromToken(r); ok {
		return id
	}
	if clientID := strings.TrimSpace(r.Header.Get("X-Client-ID")); clientID != "" {
		return limiter.Identity{Namespace: NamespaceClient, Key: clientID}
	}
	return limiter.Identity{Namespace: NamespaceIP, Key: clientIP(r)}
}

func (rs *Resolver) fromToken(r *http.Request) (limiter.Identity, bool) {
	if rs.auth == nil {
		return limiter.Identity{}, false
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return limiter.Identity{}, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return limiter.Identity{}, false
	}

	token, err := rs.auth.ValidateToken(parts[1])
	if err != nil || !token.Valid {
		return limiter.Identity{}, false
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return limiter.Identity{}, false
	}
	return limiter.Identity{Namespace: NamespaceToken, Key: subject}, true
}

// clientIP extracts the caller's address, trusting forwarding headers set
// by proxies before falling back to the socket address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.Index(xff, ","); i >= 0 {
			xff = xff[:i]
		}
		if ip := strings.TrimSpace(xff); ip != "" {
			return ip
		}
	}
	if rip := strings.TrimSpace(r.Header.Get("X-Real-IP")); rip != "" {
		return rip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
