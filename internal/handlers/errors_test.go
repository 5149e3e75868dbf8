package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/skillsync/skillsync-api/pkg/apperr"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func unmarshalBody(w *httptest.ResponseRecorder, v any) error {
	return json.Unmarshal(w.Body.Bytes(), v)
}

func serveServiceError(err error) *httptest.ResponseRecorder {
	router := gin.New()
	router.GET("/x", func(c *gin.Context) {
		respondServiceError(c, err)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/x", http.NoBody)
	router.ServeHTTP(w, req)
	return w
}

func TestRespondServiceError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "invalid input",
			err:        apperr.InvalidInput("password", "must be at least 8 characters"),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"password: must be at least 8 characters"}`,
		},
		{
			name:       "unauthorized",
			err:        apperr.ErrUnauthorized,
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"Invalid credentials"}`,
		},
		{
			name:       "forbidden",
			err:        apperr.Forbidden("account is suspended"),
			wantStatus: http.StatusForbidden,
			wantBody:   `{"error":"account is suspended"}`,
		},
		{
			name:       "not found",
			err:        apperr.NotFound("mentor"),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"mentor not found"}`,
		},
		{
			name:       "conflict",
			err:        apperr.Conflict("application already approved"),
			wantStatus: http.StatusConflict,
			wantBody:   `{"error":"application already approved"}`,
		},
		{
			name:       "internal",
			err:        apperr.Internal("db down", errors.New("broken pipe")),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Internal server error"}`,
		},
		{
			name:       "unknown error",
			err:        errors.New("something else"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveServiceError(tt.err)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}
