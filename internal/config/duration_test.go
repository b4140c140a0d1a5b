package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationOrDefault(t *testing.T) {
	d, err := DurationOrDefault("", DefaultSyncPollInterval)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, d)

	d, err = DurationOrDefault(" 250ms ", DefaultSyncPollInterval)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, d)

	_, err = DurationOrDefault("soon", DefaultSyncPollInterval)
	assert.Error(t, err)

	_, err = DurationOrDefault("", "")
	assert.Error(t, err)
}

func TestDurationOrDefault_RejectsNonPositive(t *testing.T) {
	for _, v := range []string{"-1s", "0s", "0"} {
		_, err := DurationOrDefault(v, DefaultSyncPollInterval)
		assert.ErrorContains(t, err, "must be positive", v)
	}
}
