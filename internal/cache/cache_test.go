package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCarKey(t *testing.T) {
	assert.Equal(t, "autolease:car:42", carKey(42))
}

func TestNoop(t *testing.T) {
	var c Noop
	ctx := context.Background()

	_, err := c.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrMiss)
	assert.NoError(t, c.Set(ctx, nil))
	assert.NoError(t, c.Delete(ctx, 1))
}
