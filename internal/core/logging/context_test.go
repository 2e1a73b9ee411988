package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithViewID(t *testing.T) {
	ctx := WithViewID(context.Background(), "view-123")
	assert.Equal(t, "view-123", GetViewID(ctx))
}

func TestWithUserID(t *testing.T) {
	ctx := WithUserID(context.Background(), "alice")
	assert.Equal(t, "alice", GetUserID(ctx))
}

func TestContextIDs_NotPresent(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetViewID(ctx))
	assert.Empty(t, GetUserID(ctx))
}

func TestContextIDs_Independent(t *testing.T) {
	ctx := WithViewID(context.Background(), "view-1")
	ctx = WithUserID(ctx, "bob")

	assert.Equal(t, "view-1", GetViewID(ctx))
	assert.Equal(t, "bob", GetUserID(ctx))
}
