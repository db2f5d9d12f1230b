package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"meteo-server/internal/model"
	"meteo-server/internal/pkg/jwtutil"
)

func authTestRouter(secret string) (*gin.Engine, *model.UserRef) {
	gin.SetMode(gin.TestMode)
	var seen model.UserRef
	router := gin.New()
	router.GET("/protected", AuthJWT(secret), func(c *gin.Context) {
		ref, _ := UserRefFromContext(c)
		seen = ref
		c.Status(http.StatusOK)
	})
	return router, &seen
}

func TestAuthJWTAcceptsValidToken(t *testing.T) {
	router, seen := authTestRouter("secret")

	token, err := jwtutil.GenerateToken("secret", time.Hour, "MENTOR", 7)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if *seen != (model.UserRef{Role: model.RoleMentor, ID: 7}) {
		t.Errorf("unexpected user ref: %+v", *seen)
	}
}

func TestAuthJWTRejectsMissingHeader(t *testing.T) {
	router, _ := authTestRouter("secret")

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
}

func TestAuthJWTRejectsWrongSecret(t *testing.T) {
	router, _ := authTestRouter("secret")

	token, err := jwtutil.GenerateToken("other", time.Hour, "MENTOR", 7)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
}

func TestAuthJWTRejectsBadRole(t *testing.T) {
	router, _ := authTestRouter("secret")

	token, err := jwtutil.GenerateToken("secret", time.Hour, "ADMIN", 7)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
}
