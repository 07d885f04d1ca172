package binder

import (
	"github.com/dorucioclea/foundry/internal/bindgen"
	"github.com/dorucioclea/foundry/internal/compiler"
	"github.com/dorucioclea/foundry/internal/domain"
	"github.com/dorucioclea/foundry/internal/utils"
)

func newDefaultCompiler(logger *utils.Logger) domain.Compiler {
	return compiler.New(compiler.Options{Logger: logger})
}

func newDefaultGenerator(logger *utils.Logger) domain.Generator {
	return bindgen.New(bindgen.Options{Logger: logger})
}
