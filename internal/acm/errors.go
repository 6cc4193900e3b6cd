package acm

import (
	"errors"

	acmtypes "github.com/aws/aws-sdk-go-v2/service/acm/types"
	"github.com/aws/smithy-go"
)

// ErrNotFound indicates the service has no certificate for the ARN.
var ErrNotFound = errors.New("certificate not found")

// IsThrottling reports whether an error is a throttling-class failure
// that a bounded backoff loop may retry.
func IsThrottling(err error) bool {
	var lee *acmtypes.LimitExceededException
	if errors.As(err, &lee) {
		return true
	}
	return hasErrorCode(err,
		"ThrottlingException",
		"Throttling",
		"RequestLimitExceeded",
		"TooManyRequestsException",
	)
}

// IsNotFound reports whether an error means the certificate does not
// exist upstream.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var rnf *acmtypes.ResourceNotFoundException
	if errors.As(err, &rnf) {
		return true
	}
	return hasErrorCode(err, "ResourceNotFoundException")
}

// IsAccessDenied reports whether an error is an authorization failure.
// On delete this is surfaced as a warning plus failure rather than a
// plain failure, so operators know manual cleanup is needed.
func IsAccessDenied(err error) bool {
	var ade *acmtypes.AccessDeniedException
	if errors.As(err, &ade) {
		return true
	}
	return hasErrorCode(err,
		"AccessDenied",
		"AccessDeniedException",
		"UnauthorizedOperation",
	)
}

func hasErrorCode(err error, codes ...string) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, code := range codes {
		if apiErr.ErrorCode() == code {
			return true
		}
	}
	return false
}
