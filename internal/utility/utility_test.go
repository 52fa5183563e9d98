package utility

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToFloat(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"json number", 70.5, 70.5},
		{"json.Number", json.Number("82"), 82},
		{"numeric string", "175", 175},
		{"padded string", " 64.2 ", 64.2},
		{"int", 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToFloat(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}

	for _, bad := range []any{nil, "seventy", "", true, []any{1}, map[string]any{}, "NaN", "Inf"} {
		_, err := ToFloat(bad)
		assert.ErrorIs(t, err, ErrNotNumeric, "%v", bad)
	}
}

func TestToInt(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{"json number", 30.0, 30},
		{"fraction truncates", 30.9, 30},
		{"negative fraction truncates toward zero", -2.7, -2},
		{"numeric string", "42", 42},
		{"padded string", " 7 ", 7},
		{"int", 5, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToInt(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []any{nil, "30.5", "thirty", false, 1e12} {
		_, err := ToInt(bad)
		assert.ErrorIs(t, err, ErrNotNumeric, "%v", bad)
	}
}

func TestGetRealIP(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", GetRealIP(e.NewContext(req, httptest.NewRecorder())))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "198.51.100.2")
	assert.Equal(t, "198.51.100.2", GetRealIP(e.NewContext(req, httptest.NewRecorder())))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", GetRealIP(e.NewContext(req, httptest.NewRecorder())))
}

func TestGetRealIPHonorsExtractor(t *testing.T) {
	e := echo.New()
	e.IPExtractor = echo.ExtractIPFromXFFHeader()

	// Untrusted peer: a forged header is ignored.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.50:4000"
	req.Header.Set("X-Forwarded-For", "198.51.100.99")
	assert.Equal(t, "203.0.113.50", GetRealIP(e.NewContext(req, httptest.NewRecorder())))

	// Trusted private proxy: the client address is taken from the header.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:4000"
	req.Header.Set("X-Forwarded-For", "198.51.100.99")
	assert.Equal(t, "198.51.100.99", GetRealIP(e.NewContext(req, httptest.NewRecorder())))
}

func TestGetLogger(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.Same(t, &log.Logger, GetLogger(c))

	logger := zerolog.Nop()
	c.Set("logger", &logger)
	assert.Same(t, &logger, GetLogger(c))
}
