// Package frontend defines the external collaborators this pipeline depends on but
// does not implement: the GLSL→SPIR-V compiler and the SPIR-V reflector. Only their
// interfaces matter here — a real implementation wraps a pre-existing
// compiler/reflector library (e.g. shaderc) behind these two interfaces and is wired in
// by the caller of driver.New, the same way oxy-go's Loader takes a renderer.Renderer
// it never constructs itself (engine/loader/loader_builder.go's WithRenderer option).
package frontend

import (
	"context"
	"sync"

	"github.com/vultra/vshaderc/shaderdef"
)

// InitGate guards a Compiler implementation's one-time, idempotent startup: each
// InitGate value is its own latch, so initialization runs once per gate, not once per
// process (driver.New gives every Driver a fresh gate), mirroring oxy-go's sync.Once usage for idempotent shutdown (engine/engine.go's
// quitOnce).
type InitGate struct {
	once sync.Once
	err  error
}

// Do runs init exactly once across the lifetime of the gate; subsequent calls return
// the first call's result without re-running init.
func (g *InitGate) Do(init func() error) error {
	g.once.Do(func() {
		g.err = init()
	})
	return g.err
}

// IncludeResolver resolves a `#include` directive encountered by the compiler to
// source text, given the including file's virtual path.
type IncludeResolver interface {
	Resolve(ctx context.Context, fromVirtualPath, includePath string) (resolvedPath string, sourceText string, err error)
}

// Compiler is the GLSL→SPIR-V frontend collaborator. A concrete implementation
// performs one-time initialization lazily and idempotently, guarded by an InitGate.
type Compiler interface {
	Compile(ctx context.Context, virtualPath, preprocessedSource string, opts shaderdef.CompileOptions, includes IncludeResolver) (spirv []uint32, err error)
}

// Reflector is the SPIR-V reflection collaborator, producing the descriptor/block
// tables a compiled module declares.
type Reflector interface {
	Reflect(ctx context.Context, spirv []uint32, stage shaderdef.Stage) (shaderdef.Reflection, error)
}
