package utility

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrNotNumeric is wrapped by every coercion failure.
var ErrNotNumeric = errors.New("value is not numeric")

// GetRealIP is a helper function to get the user's real IP address.
// Proxy headers are honored only as far as the server's IPExtractor trusts
// them, so a client cannot pick its own address by sending X-Forwarded-For.
func GetRealIP(c echo.Context) string {
	return c.RealIP()
}

// GetLogger returns the request-scoped logger set by the logger middleware,
// or the global logger outside a request.
func GetLogger(c echo.Context) *zerolog.Logger {
	if logger, ok := c.Get("logger").(*zerolog.Logger); ok && logger != nil {
		return logger
	}
	return &log.Logger
}

// ToFloat coerces a decoded JSON value (number or numeric string) to float64.
func ToFloat(v any) (float64, error) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNotNumeric, x.String())
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNotNumeric, x)
		}
		f = parsed
	case int:
		f = float64(x)
	default:
		return 0, fmt.Errorf("%w: %v", ErrNotNumeric, v)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %v", ErrNotNumeric, v)
	}
	return f, nil
}

// ToInt coerces a decoded JSON value to int. Numbers are truncated toward
// zero; strings must hold a whole number.
func ToInt(v any) (int, error) {
	switch x := v.(type) {
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNotNumeric, x)
		}
		return n, nil
	case int:
		return x, nil
	}

	f, err := ToFloat(v)
	if err != nil {
		return 0, err
	}
	if math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %v is out of range", ErrNotNumeric, v)
	}
	return int(f), nil
}
