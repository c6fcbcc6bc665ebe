package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/lib/pq"
	"go.mongodb.org/mongo-driver/mongo"
)

type UploadErrorKind string

const (
	UploadAuth    UploadErrorKind = "auth"
	UploadQuota   UploadErrorKind = "quota"
	UploadNetwork UploadErrorKind = "network"
	UploadUnknown UploadErrorKind = "unknown"
)

var (
	ErrUnauthorized  = errors.New("storage: unauthorized")
	ErrQuotaExceeded = errors.New("storage: quota exceeded")
)

// UploadError is a failed upload with its cause classified.
type UploadError struct {
	Kind UploadErrorKind
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed (%s): %v", e.Kind, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

var (
	authCodes = map[string]bool{
		"AccessDenied":          true,
		"InvalidAccessKeyId":    true,
		"SignatureDoesNotMatch": true,
		"ExpiredToken":          true,
		"Unauthorized":          true,
	}
	quotaCodes = map[string]bool{
		"QuotaExceeded":   true,
		"EntityTooLarge":  true,
		"SlowDown":        true,
		"TooManyRequests": true,
	}
)

// ClassifyUpload wraps err in an UploadError. Errors already classified are
// returned as they are; nil stays nil.
func ClassifyUpload(err error) error {
	if err == nil {
		return nil
	}
	var ue *UploadError
	if errors.As(err, &ue) {
		return err
	}
	return &UploadError{Kind: classify(err), Err: err}
}

func classify(err error) UploadErrorKind {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return UploadAuth
	case errors.Is(err, ErrQuotaExceeded):
		return UploadQuota
	}

	var re *smithyhttp.ResponseError
	if errors.As(err, &re) {
		switch re.HTTPStatusCode() {
		case 401, 403:
			return UploadAuth
		case 413, 429, 507:
			return UploadQuota
		}
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch {
		case authCodes[apiErr.ErrorCode()]:
			return UploadAuth
		case quotaCodes[apiErr.ErrorCode()]:
			return UploadQuota
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code.Class() == "28":
			return UploadAuth
		case pqErr.Code == "53100" || pqErr.Code == "53200" || pqErr.Code == "54000":
			return UploadQuota
		case pqErr.Code.Class() == "08":
			return UploadNetwork
		}
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		switch {
		case cmdErr.Code == 13 || cmdErr.Code == 18:
			return UploadAuth
		case strings.Contains(strings.ToLower(cmdErr.Message), "quota"):
			return UploadQuota
		}
	}

	var netErr net.Error
	switch {
	case errors.As(err, &netErr),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, io.ErrUnexpectedEOF),
		mongo.IsNetworkError(err),
		mongo.IsTimeout(err):
		return UploadNetwork
	}
	return UploadUnknown
}
