package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vultra/vshaderc/frontend"
	"github.com/vultra/vshaderc/shaderdef"
)

// fakeFrontend stands in for nagafrontend.Adapter in verb-level tests: flag parsing,
// verb dispatch, and exit codes are independent of which frontend is plugged in
// (mirroring driver_test.go's fakeCompiler/fakeReflector).
type fakeFrontend struct {
	failCompile bool
}

func (f *fakeFrontend) Compile(ctx context.Context, virtualPath, source string, opts shaderdef.CompileOptions, includes frontend.IncludeResolver) ([]uint32, error) {
	if f.failCompile {
		return nil, assert.AnError
	}
	return []uint32{0x07230203, uint32(len(source))}, nil
}

func (f *fakeFrontend) Reflect(ctx context.Context, spirv []uint32, stage shaderdef.Stage) (shaderdef.Reflection, error) {
	return shaderdef.Reflection{}, nil
}

func withFakeFrontend(t *testing.T, f *fakeFrontend) {
	t.Helper()
	original := newFrontend
	newFrontend = func() compilerReflector { return f }
	t.Cleanup(func() { newFrontend = original })
}

func TestRunCompileMissingRequiredFlagsReturnsExitFlag(t *testing.T) {
	withFakeFrontend(t, &fakeFrontend{})
	assert.Equal(t, exitFlag, runCompile(nil))
}

func TestRunCompileSucceedsAndWritesOutput(t *testing.T) {
	withFakeFrontend(t, &fakeFrontend{})
	dir := t.TempDir()
	input := filepath.Join(dir, "x.vshader")
	require.NoError(t, os.WriteFile(input, []byte("#pragma vultra material\n"), 0o644))
	output := filepath.Join(dir, "out", "x.vshbin")

	code := runCompile([]string{"-i", input, "-o", output, "-S", "frag"})
	assert.Equal(t, exitSuccess, code)

	_, err := os.Stat(output)
	assert.NoError(t, err)
}

func TestRunCompileBadStageReturnsExitParse(t *testing.T) {
	withFakeFrontend(t, &fakeFrontend{})
	dir := t.TempDir()
	input := filepath.Join(dir, "x.vshader")
	require.NoError(t, os.WriteFile(input, []byte("x"), 0o644))

	code := runCompile([]string{"-i", input, "-o", filepath.Join(dir, "out.vshbin"), "-S", "nope"})
	assert.Equal(t, exitParse, code)
}

func TestRunCompileMissingInputReturnsExitInput(t *testing.T) {
	withFakeFrontend(t, &fakeFrontend{})
	dir := t.TempDir()
	code := runCompile([]string{"-i", filepath.Join(dir, "missing.vshader"), "-o", filepath.Join(dir, "out.vshbin"), "-S", "frag"})
	assert.Equal(t, exitInput, code)
}

func TestRunCompileCompilerFailureReturnsExitBuild(t *testing.T) {
	withFakeFrontend(t, &fakeFrontend{failCompile: true})
	dir := t.TempDir()
	input := filepath.Join(dir, "x.vshader")
	require.NoError(t, os.WriteFile(input, []byte("x"), 0o644))

	code := runCompile([]string{"-i", input, "-o", filepath.Join(dir, "out.vshbin"), "-S", "frag"})
	assert.Equal(t, exitBuild, code)
}

func TestRunBuildMissingRequiredFlagsReturnsExitFlag(t *testing.T) {
	withFakeFrontend(t, &fakeFrontend{})
	assert.Equal(t, exitFlag, runBuild(nil))
}

func TestRunBuildScansRootAndProducesLibrary(t *testing.T) {
	withFakeFrontend(t, &fakeFrontend{})
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lit.frag.vshader"), []byte("#pragma vultra material\n"), 0o644))
	output := filepath.Join(dir, "out", "lib.vshlib")

	code := runBuild([]string{"--shader_root", dir, "-o", output})
	assert.Equal(t, exitSuccess, code)

	_, err := os.Stat(output)
	assert.NoError(t, err)
}

func TestRunBuildNoShaderSourcesReturnsExitInput(t *testing.T) {
	withFakeFrontend(t, &fakeFrontend{})
	dir := t.TempDir()
	code := runBuild([]string{"--shader_root", dir, "-o", filepath.Join(dir, "out.vshlib")})
	assert.Equal(t, exitInput, code)
}

func TestRunBuildUnrecognizedStageSuffixIsSkippedDuringScan(t *testing.T) {
	withFakeFrontend(t, &fakeFrontend{})
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "odd.nostage.vshader"), []byte("x"), 0o644))
	code := runBuild([]string{"--shader_root", dir, "-o", filepath.Join(dir, "out.vshlib")})
	assert.Equal(t, exitInput, code, "non-matching suffix is simply not scanned, yielding no sources found")
}

func TestRunPacklibMissingOutputReturnsExitFlag(t *testing.T) {
	assert.Equal(t, exitFlag, runPacklib(nil))
}

func TestRunPacklibMissingInputsReturnsExitInput(t *testing.T) {
	dir := t.TempDir()
	code := runPacklib([]string{"-o", filepath.Join(dir, "out.vshlib")})
	assert.Equal(t, exitInput, code)
}

func TestRunPacklibUnreadableInputReturnsExitInput(t *testing.T) {
	dir := t.TempDir()
	code := runPacklib([]string{"-o", filepath.Join(dir, "out.vshlib"), filepath.Join(dir, "missing.vshbin")})
	assert.Equal(t, exitInput, code)
}

func TestRunMergekwWrongArgCountReturnsExitFlag(t *testing.T) {
	dir := t.TempDir()
	code := runMergekw([]string{"-o", filepath.Join(dir, "out.vkw"), "only-one.vkw"})
	assert.Equal(t, exitFlag, code)
}

func TestRunMergekwMergesAndWritesFormattedOutput(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.vkw")
	override := filepath.Join(dir, "override.vkw")
	require.NoError(t, os.WriteFile(base, []byte("keyword permute ALPHA_CLIP=0\nset ALPHA_CLIP=0\n"), 0o644))
	require.NoError(t, os.WriteFile(override, []byte("set ALPHA_CLIP=1\n"), 0o644))
	output := filepath.Join(dir, "merged.vkw")

	code := runMergekw([]string{"-o", output, base, override})
	assert.Equal(t, exitSuccess, code)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "set ALPHA_CLIP=1")
}

func TestRunMergekwBadBaseReturnsExitParse(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.vkw")
	override := filepath.Join(dir, "override.vkw")
	require.NoError(t, os.WriteFile(base, []byte("not a valid directive\n"), 0o644))
	require.NoError(t, os.WriteFile(override, []byte(""), 0o644))

	code := runMergekw([]string{"-o", filepath.Join(dir, "merged.vkw"), base, override})
	assert.Equal(t, exitParse, code)
}
