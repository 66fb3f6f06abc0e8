package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"garden_panel/internal/service"

	"github.com/gin-gonic/gin"
)

// router with only the middleware in front of an echo endpoint
func newMiddlewareOnlyRouter(auth *mockAuth) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(&service.Service{Authorization: auth}, nil, nil)
	r.GET("/secure", h.operatorIdMiddleware, func(c *gin.Context) {
		id, _ := c.Get(operatorCtxKey)
		c.JSON(http.StatusOK, gin.H{"operatorId": id})
	})
	return r
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		in     string
		token  string
		wantOK bool
	}{
		{in: "Bearer abc", token: "abc", wantOK: true},
		{in: "bearer abc", token: "abc", wantOK: true},
		{in: "  Bearer   abc  ", token: "abc", wantOK: true},
		{in: "Bearer", wantOK: false},
		{in: "Bearer    ", wantOK: false},
		{in: "Token abc", wantOK: false},
		{in: "", wantOK: false},
	}
	for _, c := range cases {
		got, ok := bearerToken(c.in)
		if ok != c.wantOK || got != c.token {
			t.Fatalf("bearerToken(%q) = (%q, %v); want (%q, %v)", c.in, got, ok, c.token, c.wantOK)
		}
	}
}

func TestOperatorIDMiddleware(t *testing.T) {
	cases := []struct {
		name     string
		header   string
		parseErr error
		wantCode int
		wantErr  string
	}{
		{name: "missing header", wantCode: http.StatusUnauthorized, wantErr: errMissingAuthHeader},
		{name: "wrong scheme", header: "Token abc", wantCode: http.StatusUnauthorized, wantErr: errBadAuthHeader},
		{name: "bearer without token", header: "Bearer", wantCode: http.StatusUnauthorized, wantErr: errBadAuthHeader},
		{name: "rejected token", header: "Bearer expired", parseErr: errors.New("token is expired"), wantCode: http.StatusUnauthorized, wantErr: errBadToken},
		{name: "valid token", header: "Bearer good-token", wantCode: http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := &mockAuth{parseID: 123, parseErr: tc.parseErr}
			r := newMiddlewareOnlyRouter(auth)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/secure", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)

			if w.Code != tc.wantCode {
				t.Fatalf("status: got %d, want %d (body=%s)", w.Code, tc.wantCode, w.Body.String())
			}

			var out struct {
				Error      string `json:"error"`
				OperatorID int    `json:"operatorId"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if out.Error != tc.wantErr {
				t.Fatalf("error: got %q, want %q", out.Error, tc.wantErr)
			}
			if tc.wantCode == http.StatusOK {
				if out.OperatorID != 123 || auth.lastParseToken != "good-token" {
					t.Fatalf("operator=%d token=%q", out.OperatorID, auth.lastParseToken)
				}
			}
		})
	}
}
