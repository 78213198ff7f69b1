package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/librarypal/user-service/pkg/helpers"
)

func newGatedRouter(jwt *helpers.JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/gated", BearerAuth(jwt), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": c.GetString(CtxUsernameKey)})
	})
	return r
}

func get(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/gated", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBearerAuth_ValidToken(t *testing.T) {
	t.Parallel()

	jwt := helpers.NewJWTManager("s3cret", time.Hour)
	r := newGatedRouter(jwt)

	tok, _, err := jwt.Generate("alice")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	w := get(r, "Bearer "+tok)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}
}

func TestBearerAuth_Rejections(t *testing.T) {
	t.Parallel()

	jwt := helpers.NewJWTManager("s3cret", time.Hour)
	r := newGatedRouter(jwt)

	expired, _, err := helpers.NewJWTManager("s3cret", -time.Second).Generate("alice")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	foreign, _, err := helpers.NewJWTManager("other", time.Hour).Generate("alice")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic abc",
		"bare token":     "garbage",
		"expired":        "Bearer " + expired,
		"wrong secret":   "Bearer " + foreign,
		"malformed":      "Bearer not.a.jwt",
	}
	for name, header := range cases {
		if w := get(r, header); w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, w.Code)
		}
	}
}

func TestBearerToken_Parsing(t *testing.T) {
	t.Parallel()

	cases := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"Bearer  abc", "abc"},
		{"Bearerabc", ""},
		{"abc", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := bearerToken(tc.header); got != tc.want {
			t.Fatalf("header %q: got %q want %q", tc.header, got, tc.want)
		}
	}
}
