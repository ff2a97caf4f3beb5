package limit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestVerify_AcceptsConfiguredTokenOnce(t *testing.T) {
	v := NewTokenVerifier([]string{"tok-1"}, zap.NewNop())

	msg, err := v.Verify(context.Background(), 7, "tok-1")
	require.NoError(t, err)
	assert.Contains(t, msg, "VIP is now active")

	// Single use: the same token is rejected the second time.
	msg, err = v.Verify(context.Background(), 7, "tok-1")
	require.NoError(t, err)
	assert.Contains(t, msg, "not recognized")
}

func TestVerify_RejectsUnknownToken(t *testing.T) {
	v := NewTokenVerifier([]string{"tok-1"}, zap.NewNop())

	msg, err := v.Verify(context.Background(), 7, "nope")
	require.NoError(t, err)
	assert.Contains(t, msg, "not recognized")
}

func TestVerify_PromptsOnEmptyToken(t *testing.T) {
	v := NewTokenVerifier(nil, zap.NewNop())

	msg, err := v.Verify(context.Background(), 7, "   ")
	require.NoError(t, err)
	assert.Contains(t, msg, "attach your payment token")
}
