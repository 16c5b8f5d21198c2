package common

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorKind is the stable failure code surfaced to callers.
type ErrorKind string

const (
	KindDimensionMismatch    ErrorKind = "DIMENSION_MISMATCH"
	KindUnsupportedMediaType ErrorKind = "UNSUPPORTED_MEDIA_TYPE"
	KindRenderFailure        ErrorKind = "RENDER_FAILURE"
	KindInvalidArtifact      ErrorKind = "INVALID_ARTIFACT"
	KindCanceled             ErrorKind = "CANCELED"
	KindConfig               ErrorKind = "CONFIG_ERROR"
)

// AppError represents application-specific errors
type AppError struct {
	Kind    ErrorKind
	Message string
	Cause   error
	// Detail carries kind-specific data, e.g. the dimension verdict.
	Detail any
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// GRPCStatus lets status.FromError map an AppError for any transport.
func (e *AppError) GRPCStatus() *status.Status {
	return status.New(e.Kind.Code(), e.Message)
}

// Code maps a kind to its gRPC code.
func (k ErrorKind) Code() codes.Code {
	switch k {
	case KindDimensionMismatch, KindUnsupportedMediaType, KindInvalidArtifact, KindConfig:
		return codes.InvalidArgument
	case KindRenderFailure:
		return codes.Internal
	case KindCanceled:
		return codes.Canceled
	default:
		return codes.Unknown
	}
}

// Boundary errors
var (
	ErrEmptyArtifact     = errors.New("artifact is empty")
	ErrFileTooLarge      = errors.New("file exceeds maximum allowed size")
	ErrMultipleArtifacts = errors.New("exactly one artifact per intake is accepted")
	ErrInvalidInput      = errors.New("invalid input")
)

// Error constructors
func NewAppError(kind ErrorKind, message string, cause error) *AppError {
	return &AppError{
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

func RenderFailure(message string, cause error) *AppError {
	return NewAppError(KindRenderFailure, message, cause)
}

func UnsupportedMediaType(message string) *AppError {
	return NewAppError(KindUnsupportedMediaType, message, nil)
}

func InvalidArtifact(cause error) *AppError {
	return NewAppError(KindInvalidArtifact, cause.Error(), cause)
}

// KindOf returns the kind of the first AppError in err's chain, or "" if none.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
