package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, Commit, info.Commit)
	assert.Equal(t, runtime.Version(), info.GoVersion)
}

func TestString(t *testing.T) {
	s := Get().String()
	assert.Contains(t, s, "binder")
	assert.Contains(t, s, Version)
}

func TestShort(t *testing.T) {
	assert.Equal(t, Version, Short())
}
