package server

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

// newTestState 固定随机源、时钟与 ID 序列，2000×2000 世界
func newTestState(t testing.TB) *State {
	t.Helper()
	catalog, err := DefaultCatalog()
	require.NoError(t, err)

	players := NewRegistry(catalog, 100, rand.New(rand.NewSource(1)))
	n := 0
	players.newID = func() PlayerID {
		n++
		return PlayerID(fmt.Sprintf("p%d", n))
	}
	st := NewState(players, NewWorld(2000, 2000, 100), catalog, Limits{MaxUsernameLength: 24, MaxChatLength: 500})
	st.Now = func() time.Time { return fixedNow }
	return st
}

func connect(t testing.TB, st *State) *Player {
	t.Helper()
	p, _ := HandleConnect(st)
	return p
}
