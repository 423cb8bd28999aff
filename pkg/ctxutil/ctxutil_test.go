package ctxutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestIDRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := WithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", RequestIDFromCtx(ctx))
}

func TestRequestIDAbsent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", RequestIDFromCtx(context.Background()))
}
