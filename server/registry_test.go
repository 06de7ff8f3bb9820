package server

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_Defaults(t *testing.T) {
	st := newTestState(t)
	p := st.Players.Connect(st.World)

	assert.Equal(t, 100, p.Coins)
	assert.Equal(t, "penguin", p.Skin)
	assert.Equal(t, "default", p.Theme)
	assert.Equal(t, DirDown, p.Direction)
	assert.Equal(t, []string{"penguin"}, p.Snapshot().OwnedSkins)
	assert.Equal(t, []string{"default"}, p.Snapshot().OwnedThemes)
	assert.Regexp(t, `^#[0-9a-f]{6}$`, p.Color)
	assert.Contains(t, shapes, p.Shape)
	assert.True(t, strings.HasPrefix(p.Username, "Player-"))

	got, ok := st.Players.Get(p.ID)
	require.True(t, ok)
	assert.Same(t, p, got)
}

func TestConnect_SpawnInsideSafeRect(t *testing.T) {
	st := newTestState(t)
	require.NoError(t, st.World.Update(1200, 700))
	for i := 0; i < 200; i++ {
		p := st.Players.Connect(st.World)
		assert.GreaterOrEqual(t, p.X, 100.0)
		assert.LessOrEqual(t, p.X, 1100.0)
		assert.GreaterOrEqual(t, p.Y, 100.0)
		assert.LessOrEqual(t, p.Y, 600.0)
	}
}

func TestConnect_UniqueIDs(t *testing.T) {
	catalog, err := DefaultCatalog()
	require.NoError(t, err)
	reg := NewRegistry(catalog, 100, rand.New(rand.NewSource(7)))
	w := NewWorld(2000, 2000, 100)

	seen := map[PlayerID]bool{}
	for i := 0; i < 50; i++ {
		p := reg.Connect(w)
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
		assert.Len(t, p.Username, len("Player-")+6)
	}
	assert.Equal(t, 50, reg.Len())
}

func TestDisconnect_AbsentIsNoop(t *testing.T) {
	st := newTestState(t)
	p := st.Players.Connect(st.World)

	_, ok := st.Players.Disconnect("nobody")
	assert.False(t, ok)
	assert.Equal(t, 1, st.Players.Len())

	removed, ok := st.Players.Disconnect(p.ID)
	assert.True(t, ok)
	assert.Same(t, p, removed)
	_, ok = st.Players.Get(p.ID)
	assert.False(t, ok)

	_, ok = st.Players.Disconnect(p.ID)
	assert.False(t, ok)
}

func TestSnapshotAndIDs(t *testing.T) {
	st := newTestState(t)
	a := st.Players.Connect(st.World)
	b := st.Players.Connect(st.World)

	snap := st.Players.Snapshot(a.ID)
	assert.Len(t, snap, 2)
	assert.Equal(t, a.Username, snap[a.ID].Username)
	assert.Equal(t, b.Shape, snap[b.ID].Shape)
	assert.Nil(t, snap[b.ID].Private)
	assert.Equal(t, []PlayerID{a.ID, b.ID}, st.Players.IDs())

	// 快照是副本
	a.Coins = 1
	assert.Equal(t, 100, snap[a.ID].Coins)
}

func TestConnect_ShapesAreDrawnFromSet(t *testing.T) {
	st := newTestState(t)
	seen := map[string]bool{}
	for i := 0; i < 60; i++ {
		seen[st.Players.Connect(st.World).Shape] = true
	}
	assert.Len(t, seen, len(shapes))
}

func TestPlaceholderName(t *testing.T) {
	assert.Equal(t, "Player-1b4e28", placeholderName("1b4e28ba-2fa1-11d2-883f-0016d3cca427"))
	assert.Equal(t, "Player-p1", placeholderName("p1"))
}
