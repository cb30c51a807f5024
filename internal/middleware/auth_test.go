package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return s
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func serveWithToken(handler http.Handler, header string) int {
	req := httptest.NewRequest("GET", "/api/reports/sales", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w.Code
}

func TestProperty_ProtectedEndpointsRejectMissingTokens(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("requests without authorization header are rejected", prop.ForAll(
		func(pathSuffix string, method string) bool {
			handler := AuthMiddleware(testSecret, "", zap.NewNop())(okHandler())

			req := httptest.NewRequest(method, "/api/catalog/"+pathSuffix, nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			return w.Code == http.StatusUnauthorized
		},
		gen.AlphaString(),
		gen.OneConstOf("GET", "POST", "PUT", "DELETE"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_ExpiredTokensAreRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("expired tokens are rejected with 401", prop.ForAll(
		func(subject string, role string) bool {
			handler := AuthMiddleware(testSecret, "", zap.NewNop())(okHandler())
			token := signToken(t, jwt.MapClaims{
				"sub":  subject,
				"role": role,
				"exp":  time.Now().Add(-time.Hour).Unix(),
			})

			return serveWithToken(handler, "Bearer "+token) == http.StatusUnauthorized
		},
		gen.Identifier(),
		gen.OneConstOf(RoleCashier, RoleManager, RoleAdmin),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_ValidTokensAllowProcessing(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("valid tokens put subject and role into the context", prop.ForAll(
		func(subject string, role string, legacy bool) bool {
			claims := jwt.MapClaims{
				"role": role,
				"exp":  time.Now().Add(time.Hour).Unix(),
			}
			if legacy {
				claims["user_id"] = subject
			} else {
				claims["sub"] = subject
			}
			token := signToken(t, claims)

			handlerCalled := false
			handler := AuthMiddleware(testSecret, "", zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				ctxUserID, ok1 := GetUserID(r.Context())
				ctxRole, ok2 := GetUserRole(r.Context())
				if !ok1 || !ok2 || ctxUserID != subject || ctxRole != role {
					w.WriteHeader(http.StatusInternalServerError)
					return
				}
				w.WriteHeader(http.StatusOK)
			}))

			return serveWithToken(handler, "Bearer "+token) == http.StatusOK && handlerCalled
		},
		gen.Identifier(),
		gen.OneConstOf(RoleCashier, RoleManager, RoleAdmin),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_InvalidTokenFormatRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("garbage tokens and missing Bearer prefix are rejected", prop.ForAll(
		func(garbage string, prefixed bool) bool {
			handler := AuthMiddleware(testSecret, "", zap.NewNop())(okHandler())
			header := garbage
			if prefixed {
				header = "Bearer " + garbage
			}
			if header == "" {
				header = "Bearer"
			}
			return serveWithToken(handler, header) == http.StatusUnauthorized
		},
		gen.AnyString(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestAuthMiddleware_RejectsWrongIssuerAndMissingRole(t *testing.T) {
	handler := AuthMiddleware(testSecret, "https://id.example.com", zap.NewNop())(okHandler())
	exp := time.Now().Add(time.Hour).Unix()

	good := signToken(t, jwt.MapClaims{"sub": "u1", "role": RoleManager, "iss": "https://id.example.com", "exp": exp})
	assert.Equal(t, http.StatusOK, serveWithToken(handler, "Bearer "+good))

	wrongIssuer := signToken(t, jwt.MapClaims{"sub": "u1", "role": RoleManager, "iss": "https://evil.example.com", "exp": exp})
	assert.Equal(t, http.StatusUnauthorized, serveWithToken(handler, "Bearer "+wrongIssuer))

	noRole := signToken(t, jwt.MapClaims{"sub": "u1", "iss": "https://id.example.com", "exp": exp})
	assert.Equal(t, http.StatusUnauthorized, serveWithToken(handler, "Bearer "+noRole))
}

func TestAuthMiddleware_RejectsNoneAlgorithm(t *testing.T) {
	handler := AuthMiddleware(testSecret, "", zap.NewNop())(okHandler())

	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "u1", "role": RoleAdmin})
	s, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, serveWithToken(handler, "Bearer "+s))
}
