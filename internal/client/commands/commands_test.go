package commands

import (
	"bytes"
	"net"
	"path/filepath"
	"testing"
	"time"

	"dragchess/internal/client/session"
	server "dragchess/internal/server/http"
	"dragchess/internal/server/processor"
	"dragchess/internal/server/service"
	"dragchess/internal/server/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startServer runs the full API stack on a loopback port
func startServer(t *testing.T) string {
	t.Helper()

	store, err := storage.NewStore(filepath.Join(t.TempDir(), "users.db"), false)
	require.NoError(t, err)
	require.NoError(t, store.InitDB())

	svc := service.New(store, []byte("client-test-secret-32-characters!!!"), 10)
	proc := processor.New(svc)
	app := server.NewFiberApp(proc, svc, true)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go app.Listener(ln)

	t.Cleanup(func() {
		_ = app.Shutdown()
		proc.Close()
		svc.Shutdown(time.Second)
	})
	return "http://" + ln.Addr().String()
}

func newTestRegistry(t *testing.T) (*Registry, *session.Session, *bytes.Buffer) {
	t.Helper()
	s := session.New(startServer(t))
	out := &bytes.Buffer{}
	s.SetOutput(out)
	s.ReadPassword = func(string) (string, error) { return "hunter2hunter2", nil }
	return NewRegistry(s), s, out
}

func run(t *testing.T, r *Registry, out *bytes.Buffer, line string) string {
	t.Helper()
	out.Reset()
	require.NoError(t, r.Execute(line))
	return out.String()
}

func TestGameCommands(t *testing.T) {
	r, s, out := newTestRegistry(t)

	got := run(t, r, out, "new")
	assert.Contains(t, got, "Game created")
	require.NotEmpty(t, s.CurrentGame)
	require.NotNil(t, s.Game)
	assert.Equal(t, "b", s.Game.Turn)

	got = run(t, r, out, "targets 1")
	assert.Contains(t, got, "From 1: 16 18")

	got = run(t, r, out, "move 0 8")
	assert.Contains(t, got, "you cannot go here!")
	assert.Equal(t, 0, s.Game.Plies)

	got = run(t, r, out, "move 8 24")
	assert.Contains(t, got, "Moved 8 -> 24")
	assert.Equal(t, 1, s.Game.Plies)
	assert.Equal(t, "w", s.Game.Turn)

	got = run(t, r, out, "m 8 16")
	assert.Contains(t, got, "Nothing happened")

	got = run(t, r, out, "show")
	assert.Contains(t, got, "Last: pawn 8 -> 24")

	// Already behind by one ply, so the wait returns at once
	s.Game.Plies = 0
	got = run(t, r, out, "watch")
	assert.NotContains(t, got, "No move yet")
	assert.Equal(t, 1, s.Game.Plies)

	id := s.CurrentGame
	got = run(t, r, out, "delete")
	assert.Contains(t, got, "Game deleted: "+id)
	assert.Empty(t, s.CurrentGame)

	got = run(t, r, out, "join "+id)
	assert.Contains(t, got, "Error:")
}

func TestArgumentErrors(t *testing.T) {
	r, _, out := newTestRegistry(t)

	tests := []struct {
		line string
		want string
	}{
		{"move 1 2", "no current game"},
		{"show", "no current game"},
		{"move 1", "usage: move"},
		{"targets", "usage: targets"},
		{"bogus", "Unknown command: bogus"},
		{"help nothing", "unknown command: nothing"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Contains(t, run(t, r, out, tt.line), tt.want)
		})
	}

	run(t, r, out, "new")
	assert.Contains(t, run(t, r, out, "move 8 64"), "invalid square")
	assert.Contains(t, run(t, r, out, "targets x"), "invalid square")
}

func TestAuthCommands(t *testing.T) {
	r, s, out := newTestRegistry(t)

	assert.Contains(t, run(t, r, out, "whoami"), "Not authenticated")

	got := run(t, r, out, "register alice alice@example.com")
	assert.Contains(t, got, "Registered as alice")
	assert.NotEmpty(t, s.AuthToken)

	got = run(t, r, out, "whoami")
	assert.Contains(t, got, "alice@example.com")

	got = run(t, r, out, "new b")
	assert.Contains(t, got, "Game created")
	assert.Equal(t, "b", s.PlayerColor())

	got = run(t, r, out, "claim w")
	assert.Contains(t, got, "You play w")
	assert.Equal(t, s.UserID, s.Game.Players.White.UserID)

	got = run(t, r, out, "logout")
	assert.Contains(t, got, "Logged out")
	assert.Empty(t, s.AuthToken)
	assert.Empty(t, s.PlayerColor())

	got = run(t, r, out, "logout")
	assert.Contains(t, got, "not logged in")

	got = run(t, r, out, "login alice")
	assert.Contains(t, got, "Logged in as alice")
	assert.Equal(t, s.Game.Players.Black.UserID, s.UserID)
}

func TestUtilCommands(t *testing.T) {
	r, s, out := newTestRegistry(t)

	got := run(t, r, out, "health")
	assert.Contains(t, got, "Status:  healthy")
	assert.Contains(t, got, "Storage: ok")

	got = run(t, r, out, "raw GET /health")
	assert.Contains(t, got, "[200 OK]")

	got = run(t, r, out, "help")
	assert.Contains(t, got, "Game Commands:")
	assert.Contains(t, got, "Auth Commands:")

	got = run(t, r, out, "help m")
	assert.Contains(t, got, "Usage: move <from> <to>")

	base := s.APIBaseURL
	got = run(t, r, out, "url")
	assert.Contains(t, got, base)

	run(t, r, out, "url localhost:1")
	assert.Equal(t, "http://localhost:1", s.APIBaseURL)

	out.Reset()
	assert.ErrorIs(t, r.Execute("exit"), ErrExit)
	assert.ErrorIs(t, r.Execute("x"), ErrExit)
	assert.NoError(t, r.Execute("   "))
}
