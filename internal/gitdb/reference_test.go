package gitdb

import (
	"testing"

	"github.com/go-git/go-git/v5/config"
	"github.com/stretchr/testify/assert"
)

func TestReference_ZeroValueIsDefault(t *testing.T) {
	var ref Reference
	assert.True(t, ref.IsDefault())
	assert.Equal(t, RefDefault, ref.Kind())
	assert.Equal(t, DefaultReference(), ref)
}

func TestReference_String(t *testing.T) {
	tests := []struct {
		name string
		ref  Reference
		want string
	}{
		{"default", DefaultReference(), "HEAD"},
		{"branch", BranchReference("develop"), "refs/heads/develop"},
		{"tag", TagReference("v1.0.0"), "refs/tags/v1.0.0"},
		{"rev", RevReference("abc123"), "abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ref.String())
		})
	}
}

func TestReference_RefSpecs(t *testing.T) {
	tests := []struct {
		name string
		ref  Reference
		want []config.RefSpec
	}{
		{
			name: "branch fetches only that branch",
			ref:  BranchReference("develop"),
			want: []config.RefSpec{"+refs/heads/develop:refs/heads/develop"},
		},
		{
			name: "tag fetches only that tag",
			ref:  TagReference("v1.0.0"),
			want: []config.RefSpec{"+refs/tags/v1.0.0:refs/tags/v1.0.0"},
		},
		{
			name: "rev needs heads and tags",
			ref:  RevReference("abc123"),
			want: []config.RefSpec{"+refs/heads/*:refs/heads/*", "+refs/tags/*:refs/tags/*"},
		},
		{
			name: "default fetches all heads",
			ref:  DefaultReference(),
			want: []config.RefSpec{"+refs/heads/*:refs/heads/*"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ref.RefSpecs())
		})
	}
}
