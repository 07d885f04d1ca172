package domain

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompilerConfig_Dirs(t *testing.T) {
	abs := t.TempDir()

	tests := []struct {
		name    string
		cfg     CompilerConfig
		wantSrc string
		wantOut string
	}{
		{
			name:    "relative dirs under root",
			cfg:     CompilerConfig{Root: filepath.Join("work", "proj"), Src: "src", Out: "out"},
			wantSrc: filepath.Join("work", "proj", "src"),
			wantOut: filepath.Join("work", "proj", "out"),
		},
		{
			name:    "empty root leaves dirs untouched",
			cfg:     CompilerConfig{Src: "src", Out: "out"},
			wantSrc: "src",
			wantOut: "out",
		},
		{
			name:    "absolute dirs ignore root",
			cfg:     CompilerConfig{Root: "proj", Src: abs, Out: abs},
			wantSrc: abs,
			wantOut: abs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantSrc, tt.cfg.SrcDir())
			assert.Equal(t, tt.wantOut, tt.cfg.OutDir())
		})
	}
}
