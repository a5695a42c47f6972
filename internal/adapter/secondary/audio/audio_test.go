package audio

import (
	"bufio"
	"errors"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clock-radio/internal/domain"
)

// fakeMPD speaks just enough of the MPD protocol: a greeting, then OK for every command.
type fakeMPD struct {
	ln net.Listener

	mu    sync.Mutex
	lines []string
}

func startFakeMPD(t *testing.T) *fakeMPD {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	f := &fakeMPD{ln: ln}
	go f.serve()
	t.Cleanup(func() { _ = ln.Close() })
	return f
}

func (f *fakeMPD) serve() {
	for {
		conn, err := f.ln.Accept()
		if err != nil {
			return
		}
		go f.handle(conn)
	}
}

func (f *fakeMPD) handle(conn net.Conn) {
	defer conn.Close()
	if _, err := conn.Write([]byte("OK MPD 0.23.5\n")); err != nil {
		return
	}
	r := bufio.NewReader(conn)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line == "close" {
			return
		}
		f.mu.Lock()
		f.lines = append(f.lines, line)
		f.mu.Unlock()
		if _, err := conn.Write([]byte("OK\n")); err != nil {
			return
		}
	}
}

func (f *fakeMPD) commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.lines...)
}

func TestMPDSinkCommands(t *testing.T) {
	srv := startFakeMPD(t)
	sink := NewMPDSink("tcp", srv.ln.Addr().String(), "")

	require.NoError(t, sink.Ping())
	require.NoError(t, sink.SetVolume(42))
	require.NoError(t, sink.SetPlaylist([]string{"a.mp3", "b.mp3"}))
	require.NoError(t, sink.Play())
	require.NoError(t, sink.Stop())

	assert.Equal(t, []string{
		"ping",
		"setvol 42",
		"clear",
		`add "a.mp3"`,
		`add "b.mp3"`,
		"play",
		"stop",
	}, srv.commands())
}

func TestMPDSinkRejectsBadVolume(t *testing.T) {
	sink := NewMPDSink("tcp", "127.0.0.1:1", "")
	assert.Error(t, sink.SetVolume(101))
	assert.Error(t, sink.SetVolume(-1))
}

func TestMPDSinkUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	err = NewMPDSink("tcp", addr, "").Play()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mpd dial")
}

// silentServer accepts connections and never writes, like an MPD stuck before its greeting.
func silentServer(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var (
		mu    sync.Mutex
		conns []net.Conn
	)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, conn)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			_ = c.Close()
		}
	})
	return ln.Addr().String()
}

func TestMPDSinkGivesUpOnSilentServer(t *testing.T) {
	sink := NewMPDSink("tcp", silentServer(t), "")
	sink.Timeout = 100 * time.Millisecond

	start := time.Now()
	err := sink.Play()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no reply")
	assert.Less(t, time.Since(start), time.Second)

	// The abandoned call is still stuck, so the next one fails without dialing.
	start = time.Now()
	err = sink.Stop()
	assert.ErrorIs(t, err, errMPDBusy)
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestRecorder(t *testing.T) {
	var rec Recorder
	require.NoError(t, domain.SetVolume(10).Dispatch(&rec))
	require.NoError(t, domain.Play().Dispatch(&rec))

	got := rec.Commands()
	assert.Equal(t, []domain.Command{domain.SetVolume(10), domain.Play()}, got)

	got[0] = domain.Stop()
	assert.Equal(t, domain.SetVolume(10), rec.Commands()[0], "Commands returns a copy")

	boom := errors.New("boom")
	rec.Fail = boom
	assert.ErrorIs(t, rec.Stop(), boom)
	assert.Len(t, rec.Commands(), 3)

	rec.Reset()
	assert.Empty(t, rec.Commands())
}

func TestLogSink(t *testing.T) {
	var sink LogSink
	assert.NoError(t, sink.SetVolume(100))
	assert.Error(t, sink.SetVolume(150))
	assert.NoError(t, sink.SetPlaylist(nil))
	assert.NoError(t, sink.Play())
	assert.NoError(t, sink.Stop())
}
