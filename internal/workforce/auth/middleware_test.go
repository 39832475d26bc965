package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gartstein/workforce/internal/workforce/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(t *testing.T, svc *TokenService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/company-only", Authenticate(svc), RequireType(models.PrincipalCompany), func(c *gin.Context) {
		principal, ok := PrincipalFromContext(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": principal.ID.String()})
	})
	r.GET("/employee-only", Authenticate(svc), RequireType(models.PrincipalEmployee), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestAuthenticateMiddleware(t *testing.T) {
	svc := newTestTokenService(t, "test-secret")
	companyID := uuid.New()

	companyToken, err := svc.Issue(models.Principal{
		ID:        companyID,
		Type:      models.PrincipalCompany,
		CompanyID: companyID,
	})
	require.NoError(t, err)

	tests := []struct {
		name       string
		path       string
		authHeader string
		wantStatus int
	}{
		{
			name:       "valid token matching role",
			path:       "/company-only",
			authHeader: "Bearer " + companyToken,
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing header",
			path:       "/company-only",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing bearer prefix",
			path:       "/company-only",
			authHeader: companyToken,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			path:       "/company-only",
			authHeader: "Bearer not.a.token",
			wantStatus: http.StatusUnauthorized,
		},
		{
			// Valid, unexpired token of the wrong kind: authorization,
			// not authentication, rejects it.
			name:       "company token on employee route",
			path:       "/employee-only",
			authHeader: "Bearer " + companyToken,
			wantStatus: http.StatusForbidden,
		},
	}

	router := setupTestRouter(t, svc)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
