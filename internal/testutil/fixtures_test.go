package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedInstant(t *testing.T) {
	assert.Equal(t, time.UTC, FixedInstant.Location())
	assert.Equal(t, "2024-01-01T00:00:00Z", FixedInstant.Format(time.RFC3339))
}

func TestAt(t *testing.T) {
	assert.Equal(t, FixedInstant, At(0))
	assert.Equal(t, FixedInstant.Add(90*time.Second), At(90))
}

func TestIDGenerator(t *testing.T) {
	g := NewIDGenerator("MSG")
	assert.Equal(t, "MSG0001", g.Next())
	assert.Equal(t, "MSG0002", g.Next())

	g.Reset()
	assert.Equal(t, "MSG0001", g.Next())
}
