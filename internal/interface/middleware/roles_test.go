package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/intesigroup/user-registry/internal/domain/entity"
	"github.com/intesigroup/user-registry/pkg/helpers"
)

func rolesRouter(verifier *helpers.TokenVerifier, enabled bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/guarded",
		Authenticate(verifier, enabled),
		RequireAnyRole(enabled, entity.RoleOwner, entity.RoleMaintainer),
		func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestAuthenticateWithSignedTokens(t *testing.T) {
	verifier := helpers.NewTokenVerifier("test-secret")
	r := rolesRouter(verifier, true)

	get := func(token string) int {
		req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	owner, err := verifier.Sign([]string{"OWNER"}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, get(owner))

	reporter, err := verifier.Sign([]string{"REPORTER"}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, get(reporter))

	require.Equal(t, http.StatusUnauthorized, get(""))
	require.Equal(t, http.StatusUnauthorized, get("not-a-token"))

	expired, err := verifier.Sign([]string{"OWNER"}, -time.Minute)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, get(expired))

	other := helpers.NewTokenVerifier("other-secret")
	foreign, err := other.Sign([]string{"OWNER"}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, get(foreign))
}

func TestAuthenticateDisabledLeavesRolesEmpty(t *testing.T) {
	verifier := helpers.NewTokenVerifier("test-secret")

	gin.SetMode(gin.TestMode)
	r := gin.New()
	var seen []string
	r.GET("/open",
		Authenticate(verifier, false),
		RequireAnyRole(false, entity.RoleOwner),
		func(c *gin.Context) {
			seen = RolesFromContext(c)
			c.Status(http.StatusOK)
		})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/open", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, seen)
}
