package server

import (
	"testing"
	"time"

	"github.com/decred/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardroom/pkg/wire"
)

func TestManagerAssignsSequentialIDs(t *testing.T) {
	mgr := NewManager(slog.Disabled)

	first := newTestClient(t)
	second := newTestClient(t)
	require.Equal(t, 0, mgr.Create(&scriptedModule{}, first.conn))
	require.Equal(t, 1, mgr.Create(&scriptedModule{}, second.conn))
	assert.Equal(t, 2, mgr.GameCount())

	first.send(wire.Intro{PlayerName: "alice"})
	assert.Equal(t, wire.ServerIntro{GameID: 0, PlayerID: 0}, first.recv())
	second.send(wire.Intro{PlayerName: "bob"})
	assert.Equal(t, wire.ServerIntro{GameID: 1, PlayerID: 0}, second.recv())
}

func TestManagerJoinUnknownGame(t *testing.T) {
	mgr := NewManager(slog.Disabled)

	c := newTestClient(t)
	mgr.Join(42, c.conn)
	assert.Equal(t, wire.ErrorFrame{Reason: "game does not exist"}, c.recv())
	c.expectClosed()
	assert.Equal(t, 0, mgr.GameCount())
}

func TestManagerForgetsFinishedGames(t *testing.T) {
	mgr, host := newGame(t, &scriptedModule{})
	joiner := joinGame(t, mgr, "bob", 1)
	require.Equal(t, 1, mgr.GameCount())

	host.conn.Close()
	assert.Equal(t, wire.EndGame{Reason: "player left"}, joiner.recv())

	require.Eventually(t, func() bool { return mgr.GameCount() == 0 },
		5*time.Second, 10*time.Millisecond)

	// Ids are not reused.
	fresh := newTestClient(t)
	require.Equal(t, 1, mgr.Create(&scriptedModule{}, fresh.conn))
}

func TestManagerEnqueueAfterGameOver(t *testing.T) {
	mgr, host := newGame(t, &scriptedModule{})
	joiner := joinGame(t, mgr, "bob", 1)

	host.conn.Close()
	assert.Equal(t, wire.EndGame{Reason: "player left"}, joiner.recv())
	joiner.expectClosed()

	// A connection enqueued directly on a finished engine is dropped, not
	// deadlocked.
	require.Eventually(t, func() bool { return mgr.GameCount() == 0 },
		5*time.Second, 10*time.Millisecond)
	late := newTestClient(t)
	mgr.Join(0, late.conn)
	assert.Equal(t, wire.ErrorFrame{Reason: "game does not exist"}, late.recv())
	late.expectClosed()
}
