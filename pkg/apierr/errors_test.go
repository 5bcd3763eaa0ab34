package apierr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		code int
		want bool
	}{
		{"transport failure", 0, true},
		{"bad request", 400, false},
		{"unauthorized", 401, false},
		{"not found", 404, false},
		{"server error", 500, true},
		{"bad gateway", 502, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &APIError{Code: tt.code, Message: "x"}
			assert.Equal(t, tt.want, e.Retryable())
		})
	}
}

func TestHelpersMatchThroughWrapping(t *testing.T) {
	cfg := fmt.Errorf("while loading: %w", &ConfigurationError{Field: "baseUrl", Reason: "required"})
	assert.True(t, IsConfiguration(cfg))
	assert.False(t, IsConnection(cfg))
	assert.False(t, IsValidation(cfg))

	conn := fmt.Errorf("connect: %w", &ConnectionError{Stage: StageVersion, Err: errors.New("refused")})
	assert.True(t, IsConnection(conn))

	val := fmt.Errorf("start: %w", NewValidation("unknown project %d", 7))
	assert.True(t, IsValidation(val))
	assert.Contains(t, val.Error(), "unknown project 7")

	api := fmt.Errorf("call: %w", &APIError{Code: 404, Message: "gone"})
	got := AsAPI(api)
	assert.NotNil(t, got)
	assert.Equal(t, 404, got.Code)

	assert.Nil(t, AsAPI(errors.New("plain")))
}

func TestConnectionErrorUnwrap(t *testing.T) {
	inner := &APIError{Code: 503, Message: "unavailable"}
	err := &ConnectionError{Stage: StageConfig, Err: inner}

	got := AsAPI(err)
	assert.NotNil(t, got)
	assert.Equal(t, 503, got.Code)
	assert.Contains(t, err.Error(), "config")
}

func TestAPIErrorMessage(t *testing.T) {
	withDetails := &APIError{Code: 400, Message: "bad input", Details: "missing begin"}
	assert.Equal(t, "api error 400: bad input (missing begin)", withDetails.Error())

	plain := &APIError{Code: 500, Message: "oops"}
	assert.Equal(t, "api error 500: oops", plain.Error())
}
