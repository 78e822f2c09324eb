package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("debug mode returns development logger", func(t *testing.T) {
		logger, err := New(true)
		require.NoError(t, err)
		require.NotNil(t, logger)
		_ = logger.Sync()
	})

	t.Run("production mode returns production logger", func(t *testing.T) {
		logger, err := New(false)
		require.NoError(t, err)
		require.NotNil(t, logger)
		_ = logger.Sync()
	})
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
}
