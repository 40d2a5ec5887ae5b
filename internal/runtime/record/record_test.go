package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewStampsCreation(t *testing.T) {
	before := Epoch(time.Now())
	r := New("app", 20, "hello %s", "world")
	after := Epoch(time.Now())

	assert.Equal(t, "app", r.Name)
	assert.Equal(t, 20, r.Level)
	assert.GreaterOrEqual(t, r.Created, before)
	assert.LessOrEqual(t, r.Created, after)
}

func TestRender(t *testing.T) {
	assert.Equal(t, "hello world", New("app", 0, "hello %s", "world").Render())
	assert.Equal(t, "100% done", New("app", 0, "100% done").Render())
	assert.Equal(t, "3 of 4", (&Record{Template: "%d of %d", Args: []any{3, 4}}).Render())
}

func TestOrigin(t *testing.T) {
	r := &Record{Name: "billing", Func: "charge", Line: 42}
	assert.Equal(t, "billing:charge[42]", r.Origin())
}

func TestEpoch(t *testing.T) {
	assert.InDelta(t, 1_700_000_000.5, Epoch(time.Unix(1_700_000_000, 500_000_000)), 1e-6)
}

func TestLookup(t *testing.T) {
	r := &Record{Extra: map[string]any{KeyObjectName: "disk0"}}
	v, ok := r.Lookup(KeyObjectName)
	assert.True(t, ok)
	assert.Equal(t, "disk0", v)

	_, ok = r.Lookup(KeyObjectID)
	assert.False(t, ok)

	_, ok = (&Record{}).Lookup(KeyType)
	assert.False(t, ok)
}
