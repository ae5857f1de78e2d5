package fsuipc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeLibraryCountsAndFailures(t *testing.T) {
	f := NewFakeLibrary()
	require.NoError(t, f.Open(0))
	require.NoError(t, f.Write(0x3000, []byte{1}))

	f.Fail("process", ResultTimeout)
	assert.Equal(t, ResultTimeout, f.Process())
	assert.Equal(t, []byte{1}, f.Peek(0x3000, 1), "the batch still ran")

	f.Fail("open", ResultNoFS)
	assert.Equal(t, ResultNoFS, f.Open(0))
	f.ClearFailures()

	counts := f.CallCounts()
	assert.Equal(t, 2, counts["open"])
	assert.Equal(t, 1, counts["write"])
	assert.Equal(t, 1, counts["process"])

	stats := f.Stats()
	assert.Equal(t, "memory", stats["type"])
	assert.Equal(t, 1, stats["write_calls"])

	f.Reset()
	assert.Equal(t, 0, f.CallCounts()["open"])
	require.NoError(t, f.Close())
}
