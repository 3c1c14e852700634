package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMediaKey(t *testing.T) {
	key := NewMediaKey("65f0c0ffee", "video/mp4")
	assert.True(t, strings.HasPrefix(key, "media/65f0c0ffee/"))
	assert.True(t, strings.HasSuffix(key, ".mp4"))
	assert.NotEqual(t, key, NewMediaKey("65f0c0ffee", "video/mp4"))

	assert.True(t, strings.HasSuffix(NewMediaKey("x", "image/jpeg; charset=binary"), ".jpeg"))
}

func TestMediaPrefix(t *testing.T) {
	assert.Equal(t, "media/abc/", MediaPrefix("abc"))
}
