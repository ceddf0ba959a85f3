package network

import (
	"bufio"
	"bytes"
	"log/slog"
	"net"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/leengari/lsdb/internal/executor"
	"github.com/leengari/lsdb/internal/storage"
	"github.com/leengari/lsdb/internal/storage/manager"
	"github.com/leengari/lsdb/internal/storage/medium"
)

type client struct {
	t    *testing.T
	conn net.Conn
	in   *bufio.Reader
}

func startServer(t *testing.T, m storage.Medium) string {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	srv := NewServer(manager.NewRegistry(m, logger), logger, "app")

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { listener.Close() })
	go srv.Serve(listener)
	return listener.Addr().String()
}

func dial(t *testing.T, addr string) *client {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetDeadline(time.Now().Add(5 * time.Second))
	return &client{t: t, conn: conn, in: bufio.NewReader(conn)}
}

// send writes one request line and decodes the response line
func (c *client) send(request string) executor.Result {
	c.t.Helper()
	if _, err := c.conn.Write([]byte(request + "\n")); err != nil {
		c.t.Fatalf("write: %v", err)
	}
	line, err := c.in.ReadBytes('\n')
	if err != nil {
		c.t.Fatalf("read response to %s: %v", request, err)
	}
	var res executor.Result
	if err := json.Unmarshal(line, &res); err != nil {
		c.t.Fatalf("decode response %s: %v", line, err)
	}
	return res
}

func TestServerJSON(t *testing.T) {
	m := medium.NewMemory()
	addr := startServer(t, m)
	c := dial(t, addr)

	steps := []struct {
		request string
		check   func(executor.Result) bool
	}{
		{`{"op":"create","table":"people","columns":["name","age"]}`,
			func(r executor.Result) bool { return r.Error == "" }},
		{`{"op":"insert","table":"people","data":{"name":"Ann","age":30}}`,
			func(r executor.Result) bool { return len(r.IDs) == 1 && r.IDs[0] == 1 }},
		{`{"op":"INSERT","table":"people","data":{"name":"Bo","age":25}}`,
			func(r executor.Result) bool { return len(r.IDs) == 1 && r.IDs[0] == 2 }},
		{`{"op":"query","table":"people","query":{"age":25}}`,
			func(r executor.Result) bool { return len(r.Rows) == 1 && r.Rows[0].ID == 2 }},
		{`{"op":"query","table":"missing"}`,
			func(r executor.Result) bool { return r.Error != "" }},
		{`{"table":"people"}`,
			func(r executor.Result) bool { return r.Error != "" }},
		{`{"op":"commit"}`,
			func(r executor.Result) bool { return r.Error == "" }},
	}
	for _, step := range steps {
		if res := c.send(step.request); !step.check(res) {
			t.Errorf("%s: unexpected response %+v", step.request, res)
		}
	}

	if _, found, _ := m.Get(storage.Key("app")); !found {
		t.Error("commit did not write the blob")
	}

	// a second connection sees the same loaded database
	other := dial(t, addr)
	if res := other.send(`{"op":"count","table":"people"}`); res.Count != 2 {
		t.Errorf("second connection count = %d, want 2", res.Count)
	}
}

func TestServerInvalidRequest(t *testing.T) {
	c := dial(t, startServer(t, medium.NewMemory()))

	res := c.send(`not json`)
	if res.Error == "" {
		t.Fatal("invalid request produced no error")
	}
	if _, err := c.in.ReadByte(); err == nil {
		t.Error("connection stayed open after an invalid request")
	}
}
