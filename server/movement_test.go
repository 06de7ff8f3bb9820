package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestApplyMove_ClampsToWorld(t *testing.T) {
	p := &Player{X: 1000, Y: 1000, Direction: DirDown}
	res := ApplyMove(p, WorldSize{Width: 2000, Height: 2000}, 5000, 5000, "")

	assert.Equal(t, 2000.0, res.X)
	assert.Equal(t, 2000.0, res.Y)
	assert.Equal(t, 5000.0, res.RequestedX)
	assert.True(t, res.Clamped)
	assert.Equal(t, 2000.0, p.X)
	assert.Equal(t, 2000.0, p.Y)
}

func TestApplyMove_NegativeClampsToZero(t *testing.T) {
	p := &Player{X: 10, Y: 10}
	res := ApplyMove(p, WorldSize{Width: 100, Height: 100}, -5, 50, "")
	assert.Equal(t, 0.0, res.X)
	assert.Equal(t, 50.0, res.Y)
	assert.True(t, res.Clamped)
}

func TestApplyMove_InBoundsNotClamped(t *testing.T) {
	p := &Player{X: 10, Y: 10}
	res := ApplyMove(p, WorldSize{Width: 100, Height: 100}, 20, 10, "")
	assert.False(t, res.Clamped)
	assert.Equal(t, DirRight, res.Direction)
}

func TestApplyMove_UsesWorldAtCallTime(t *testing.T) {
	w := NewWorld(2000, 2000, 100)
	p := &Player{X: 500, Y: 500}
	require.NoError(t, w.Update(800, 600))

	res := ApplyMove(p, w.Size(), 1500, 1500, "")
	assert.Equal(t, 800.0, res.X)
	assert.Equal(t, 600.0, res.Y)
}

func TestDeriveDirection(t *testing.T) {
	cases := []struct {
		name   string
		dx, dy float64
		prev   Direction
		hint   Direction
		want   Direction
	}{
		{"right", 5, 1, DirDown, "", DirRight},
		{"left", -5, 1, DirDown, "", DirLeft},
		{"down", 1, 5, DirUp, "", DirDown},
		{"up", 1, -5, DirDown, "", DirUp},
		{"tie goes vertical down", 3, 3, DirLeft, "", DirDown},
		{"tie goes vertical up", -3, -3, DirLeft, "", DirUp},
		{"zero delta keeps previous", 0, 0, DirLeft, "", DirLeft},
		{"zero delta adopts hint", 0, 0, DirLeft, DirUp, DirUp},
		{"zero delta ignores bad hint", 0, 0, DirLeft, "north", DirLeft},
		{"hint ignored when moving", 4, 0, DirDown, DirUp, DirRight},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, deriveDirection(tc.dx, tc.dy, tc.prev, tc.hint))
		})
	}
}

func TestWorldUpdate_RejectsNonPositive(t *testing.T) {
	w := NewWorld(2000, 2000, 100)
	assert.ErrorIs(t, w.Update(0, 100), ErrInvalidDimensions)
	assert.ErrorIs(t, w.Update(100, -1), ErrInvalidDimensions)
	assert.Equal(t, WorldSize{Width: 2000, Height: 2000}, w.Size())
}

func TestWorldUpdate_LastWriteWins(t *testing.T) {
	w := NewWorld(2000, 2000, 100)
	require.NoError(t, w.Update(1000, 800))
	require.NoError(t, w.Update(3000, 2500))
	assert.Equal(t, WorldSize{Width: 3000, Height: 2500}, w.Size())
}

func TestSpawnRect(t *testing.T) {
	minX, maxX, minY, maxY := NewWorld(2000, 1000, 100).SpawnRect()
	assert.Equal(t, []float64{100, 1900, 100, 900}, []float64{minX, maxX, minY, maxY})

	// 窄于两倍边距的轴退化为中点
	minX, maxX, minY, maxY = NewWorld(150, 1000, 100).SpawnRect()
	assert.Equal(t, 75.0, minX)
	assert.Equal(t, 75.0, maxX)
	assert.Equal(t, 100.0, minY)
	assert.Equal(t, 900.0, maxY)
}

func TestPropertyMoveAlwaysInBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		size := WorldSize{
			Width:  rapid.Float64Range(1, 10000).Draw(t, "width"),
			Height: rapid.Float64Range(1, 10000).Draw(t, "height"),
		}
		p := &Player{Direction: DirDown}
		steps := rapid.IntRange(1, 20).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			x := rapid.Float64Range(-1e6, 1e6).Draw(t, "x")
			y := rapid.Float64Range(-1e6, 1e6).Draw(t, "y")
			res := ApplyMove(p, size, x, y, "")
			if res.X < 0 || res.X > size.Width || res.Y < 0 || res.Y > size.Height {
				t.Fatalf("applied (%v,%v) outside %vx%v", res.X, res.Y, size.Width, size.Height)
			}
			if !res.Direction.Valid() {
				t.Fatalf("invalid direction %q", res.Direction)
			}
		}
	})
}
