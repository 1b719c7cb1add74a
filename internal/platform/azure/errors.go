package azure

import (
	"errors"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
)

// Error codes the core branches on. The management API reports structured
// errors with a machine-readable code; only a handful matter here.
const (
	codeResourceNotFound      = "ResourceNotFound"
	codeResourceGroupNotFound = "ResourceGroupNotFound"
	codeNotFound              = "NotFound"
)

// IsNotFound reports whether the error indicates the addressed resource does
// not exist. Delete paths treat this as success; existence checks as false.
func IsNotFound(err error) bool {
	var respErr *azcore.ResponseError
	if !errors.As(err, &respErr) {
		return false
	}
	if respErr.StatusCode == http.StatusNotFound {
		return true
	}
	switch respErr.ErrorCode {
	case codeResourceNotFound, codeResourceGroupNotFound, codeNotFound:
		return true
	}
	return false
}

// IsTransient reports whether the error is worth retrying: throttling or a
// server-side fault, as opposed to a rejected request.
func IsTransient(err error) bool {
	var respErr *azcore.ResponseError
	if !errors.As(err, &respErr) {
		return false
	}
	return respErr.StatusCode == http.StatusTooManyRequests || respErr.StatusCode >= 500
}

// NotFoundError builds a provider-shaped not-found error. Mocks use it so
// that consumer code exercises the same classification path as production.
func NotFoundError() error {
	return &azcore.ResponseError{
		ErrorCode:  codeResourceNotFound,
		StatusCode: http.StatusNotFound,
	}
}
