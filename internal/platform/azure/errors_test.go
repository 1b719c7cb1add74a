package azure

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/stretchr/testify/assert"
)

func TestIsNotFound(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"not found helper", NotFoundError(), true},
		{"status 404", &azcore.ResponseError{StatusCode: http.StatusNotFound}, true},
		{"resource group code", &azcore.ResponseError{ErrorCode: "ResourceGroupNotFound", StatusCode: http.StatusConflict}, true},
		{"wrapped", fmt.Errorf("get vm: %w", NotFoundError()), true},
		{"forbidden", &azcore.ResponseError{ErrorCode: "AuthorizationFailed", StatusCode: http.StatusForbidden}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, IsNotFound(tc.err))
		})
	}
}

func TestIsTransient(t *testing.T) {
	t.Parallel()
	assert.True(t, IsTransient(&azcore.ResponseError{StatusCode: http.StatusTooManyRequests}))
	assert.True(t, IsTransient(&azcore.ResponseError{StatusCode: http.StatusServiceUnavailable}))
	assert.False(t, IsTransient(&azcore.ResponseError{StatusCode: http.StatusBadRequest}))
	assert.False(t, IsTransient(errors.New("dial tcp: timeout")))
}
