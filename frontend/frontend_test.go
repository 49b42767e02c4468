package frontend

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitGateRunsOnce(t *testing.T) {
	var gate InitGate
	var calls int32

	for i := 0; i < 5; i++ {
		err := gate.Do(func() error {
			atomic.AddInt32(&calls, 1)
			return nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), calls)
}

func TestInitGateStickyError(t *testing.T) {
	var gate InitGate
	sentinel := assert.AnError

	err1 := gate.Do(func() error { return sentinel })
	err2 := gate.Do(func() error { return nil })
	assert.Equal(t, sentinel, err1)
	assert.Equal(t, sentinel, err2)
}
