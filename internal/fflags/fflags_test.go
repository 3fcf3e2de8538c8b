package fflags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestListFlags(t *testing.T) {
	fflags := NewFFlags(zaptest.NewLogger(t).Sugar())
	flags := fflags.ListFlags()
	assert.Contains(t, flags, "auto-hostname")
	assert.Contains(t, flags, "force-unlink")
}

func TestGetFlag(t *testing.T) {
	fflags := NewFFlags(zaptest.NewLogger(t).Sugar())

	enabled, err := fflags.GetFlag("auto-hostname")
	assert.NoError(t, err)
	assert.True(t, enabled)

	t.Setenv("ASSETD_FFLAG_AUTO_HOSTNAME", "false")
	enabled, err = fflags.GetFlag("auto-hostname")
	assert.NoError(t, err)
	assert.False(t, enabled)

	_, err = fflags.GetFlag("no-such-flag")
	assert.Error(t, err)
}
