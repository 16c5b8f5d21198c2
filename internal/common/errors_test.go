package common

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestErrorKind_Code(t *testing.T) {
	assert.Equal(t, codes.InvalidArgument, KindDimensionMismatch.Code())
	assert.Equal(t, codes.InvalidArgument, KindUnsupportedMediaType.Code())
	assert.Equal(t, codes.InvalidArgument, KindInvalidArtifact.Code())
	assert.Equal(t, codes.Internal, KindRenderFailure.Code())
	assert.Equal(t, codes.Canceled, KindCanceled.Code())
	assert.Equal(t, codes.Unknown, ErrorKind("SOMETHING").Code())
}

func TestAppError_StatusAndUnwrap(t *testing.T) {
	cause := errors.New("exit status 1")
	err := RenderFailure("render page 2", cause)

	assert.Equal(t, "RENDER_FAILURE: render page 2: exit status 1", err.Error())
	assert.ErrorIs(t, err, cause)

	st, ok := status.FromError(err)
	assert.True(t, ok)
	assert.Equal(t, codes.Internal, st.Code())
	assert.Equal(t, "render page 2", st.Message())
}

func TestKindOf_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("intake: %w", UnsupportedMediaType("gif"))
	assert.Equal(t, KindUnsupportedMediaType, KindOf(err))
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
	assert.Equal(t, ErrorKind(""), KindOf(nil))
}

func TestInvalidArtifact_KeepsSentinel(t *testing.T) {
	err := InvalidArtifact(fmt.Errorf("%w: 30MB", ErrFileTooLarge))
	assert.Equal(t, KindInvalidArtifact, err.Kind)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, WrapError(nil, "ignored"))
	err := WrapError(ErrEmptyArtifact, "read upload")
	assert.EqualError(t, err, "read upload: artifact is empty")
	assert.ErrorIs(t, err, ErrEmptyArtifact)
}

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, IntakeIDFromContext(ctx))
	assert.Zero(t, GenerationFromContext(ctx))

	ctx = WithIntakeID(ctx, "abc")
	ctx = WithGeneration(ctx, 7)
	ctx = WithContentHash(ctx, "deadbeef")
	assert.Equal(t, "abc", IntakeIDFromContext(ctx))
	assert.Equal(t, uint64(7), GenerationFromContext(ctx))
	assert.Equal(t, "deadbeef", ContentHashFromContext(ctx))
}

func TestWithTimeout_NonPositiveOnlyCancels(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), 0)
	_, hasDeadline := ctx.Deadline()
	assert.False(t, hasDeadline)
	cancel()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
