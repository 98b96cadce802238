package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tessera-labs/admission/pkg/limiter"
)

func bearerToken(t *testing.T, auth *Authenticator, subject string) string {
	t.Helper()
	tokenString, err := auth.GenerateToken(testClaims(subject))
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	return "Bearer " + tokenString
}

func TestResolver_Precedence(t *testing.T) {
	auth := testAuthenticator()
	rs := NewResolver(auth)

	cases := []struct {
		name    string
		headers map[string]string
		remote  string
		want    limiter.Identity
	}{
		{
			name: "token wins over client id and ip",
			headers: map[string]string{
				"Authorization": bearerToken(t, auth, "user_42"),
				"X-Client-ID":   "mobile-app-7",
			},
			remote: "203.0.113.9:51234",
			want:   limiter.Identity{Namespace: NamespaceToken, Key: "user_42"},
		},
		{
			name:    "client id when no token",
			headers: map[string]string{"X-Client-ID": "mobile-app-7"},
			remote:  "203.0.113.9:51234",
			want:    limiter.Identity{Namespace: NamespaceClient, Key: "mobile-app-7"},
		},
		{
			name: "garbage token falls through to client id",
			headers: map[string]string{
				"Authorization": "Bearer not-a-token",
				"X-Client-ID":   "mobile-app-7",
			},
			remote: "203.0.113.9:51234",
			want:   limiter.Identity{Namespace: NamespaceClient, Key: "mobile-app-7"},
		},
		{
			name:    "malformed authorization header is ignored",
			headers: map[string]string{"Authorization": "Token abc"},
			remote:  "203.0.113.9:51234",
			want:    limiter.Identity{Namespace: NamespaceIP, Key: "203.0.113.9"},
		},
		{
			name:    "blank client id falls through to ip",
			headers: map[string]string{"X-Client-ID": "   "},
			remote:  "203.0.113.9:51234",
			want:    limiter.Identity{Namespace: NamespaceIP, Key: "203.0.113.9"},
		},
		{
			name:    "x-forwarded-for keeps the first hop",
			headers: map[string]string{"X-Forwarded-For": "198.51.100.3, 10.0.0.1"},
			remote:  "203.0.113.9:51234",
			want:    limiter.Identity{Namespace: NamespaceIP, Key: "198.51.100.3"},
		},
		{
			name:    "x-real-ip when no forwarded-for",
			headers: map[string]string{"X-Real-IP": "198.51.100.7"},
			remote:  "203.0.113.9:51234",
			want:    limiter.Identity{Namespace: NamespaceIP, Key: "198.51.100.7"},
		},
		{
			name:   "remote addr without port is kept as-is",
			remote: "203.0.113.9",
			want:   limiter.Identity{Namespace: NamespaceIP, Key: "203.0.113.9"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
			r.RemoteAddr = tc.remote
			for k, v := range tc.headers {
				r.Header.Set(k, v)
			}

			if got := rs.Resolve(r); got != tc.want {
				t.Errorf("Resolve() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestResolver_NilAuthenticator(t *testing.T) {
	rs := NewResolver(nil)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	r.Header.Set("Authorization", bearerToken(t, testAuthenticator(), "user_42"))
	r.RemoteAddr = "203.0.113.9:51234"

	want := limiter.Identity{Namespace: NamespaceIP, Key: "203.0.113.9"}
	if got := rs.Resolve(r); got != want {
		t.Errorf("Resolver without authenticator should skip tokens: got %+v, want %+v", got, want)
	}
}
