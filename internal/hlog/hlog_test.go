package hlog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/losfair/hexagone/api"
	"github.com/stretchr/testify/assert"
)

func TestNopTracerHooksAreSafeToCall(t *testing.T) {
	tr := NewNop()
	assert.Equal(t, uuid.Nil, tr.RunID())

	assert.NoError(t, tr.TraceOpcode(api.OpNop, 0))
	tr.TraceCall(10, 2)
	tr.TraceLoad(4, 32)
	tr.TraceMemInit(0, 8)
}

func TestNewTaggedWithDistinctRunIDs(t *testing.T) {
	a := New(false)
	b := New(false)
	assert.NotEqual(t, a.RunID(), b.RunID())
}
