package keyword

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func surfaceCtx() Context {
	return Context{
		Values: map[string]uint32{"SURFACE": 1, "ALPHA_CLIP": 0},
		Decls: map[string]Decl{
			"SURFACE": {Name: "SURFACE", Kind: KindEnum, Enumerants: []string{"OPAQUE", "CUTOUT"}},
		},
	}
}

func TestEvalOnlyIfEmptyAndAbsent(t *testing.T) {
	ok, err := EvalOnlyIf("", Context{})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEvalOnlyIfEnumerantLookup(t *testing.T) {
	ctx := surfaceCtx()
	ok, err := EvalOnlyIf("SURFACE==CUTOUT", ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = EvalOnlyIf("SURFACE==OPAQUE", ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEvalOnlyIfPrecedenceAndBinding(t *testing.T) {
	ctx := surfaceCtx()
	// && binds tighter than ||
	ok, err := EvalOnlyIf("SURFACE==CUTOUT || ALPHA_CLIP==0 && false", ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEvalOnlyIfNoLazyShortCircuit(t *testing.T) {
	// the grammar evaluates both operands eagerly (no lazy identifier resolution),
	// so an unresolved identifier on the right of || still fails even though the
	// left side alone would make the overall result true.
	_, err := EvalOnlyIf("true || UNRESOLVED_NAME==1", Context{})
	require.Error(t, err)
}

func TestEvalOnlyIfBareTruthy(t *testing.T) {
	ctx := Context{Values: map[string]uint32{"USE_SHADOW": 1}}
	ok, err := EvalOnlyIf("USE_SHADOW", ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ctx.Values["USE_SHADOW"] = 0
	ok, err = EvalOnlyIf("USE_SHADOW", ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEvalOnlyIfTrailingTokenFails(t *testing.T) {
	_, err := EvalOnlyIf("true true", Context{})
	require.Error(t, err)
}

func TestEvalOnlyIfUnresolvedIdentifierFails(t *testing.T) {
	_, err := EvalOnlyIf("NOPE==1", Context{})
	require.Error(t, err)
}

func TestEvalOnlyIfNotEqual(t *testing.T) {
	ctx := surfaceCtx()
	ok, err := EvalOnlyIf("SURFACE!=OPAQUE", ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEvalOnlyIfParens(t *testing.T) {
	ctx := surfaceCtx()
	ok, err := EvalOnlyIf("(SURFACE==CUTOUT || ALPHA_CLIP==1) && true", ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}
