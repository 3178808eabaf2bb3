package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name       string
		data       any
		statusCode int
		wantBody   string
	}{
		{name: "map", data: map[string]string{"status": "ok"}, statusCode: http.StatusOK, wantBody: `{"status":"ok"}`},
		{name: "struct", data: struct {
			Workers int `json:"workers"`
		}{Workers: 2}, statusCode: http.StatusOK, wantBody: `{"workers":2}`},
		{name: "nil", data: nil, statusCode: http.StatusServiceUnavailable, wantBody: `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			n, err := WriteJSON(w, tt.data, tt.statusCode)

			require.NoError(t, err)
			assert.Equal(t, len(tt.wantBody), n)
			assert.Equal(t, tt.statusCode, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestWriteJSON_MarshalError(t *testing.T) {
	w := httptest.NewRecorder()

	_, err := WriteJSON(w, make(chan int), http.StatusOK)

	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
