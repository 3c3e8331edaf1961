package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// dialTestSocket returns the server side of a live websocket pair. The client
// side drains frames in the background so writes never block.
func dialTestSocket(t *testing.T) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{}
	serverConn := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		serverConn <- conn
	}))
	t.Cleanup(srv.Close)

	clientConn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { clientConn.Close() })
	go func() {
		for {
			if _, _, err := clientConn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	return <-serverConn
}

func TestBroadcastProgressSerializesWriters(t *testing.T) {
	hub := NewRealtimeHub()
	cl := &WSClient{UserID: 7, Conn: dialTestSocket(t)}
	hub.Register(cl)

	progress := DailyProgress{Date: "2026-09-01"}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				hub.BroadcastProgress(7, progress)
			}
		}()
	}
	// the keepalive ping shares the connection with broadcasts
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_ = cl.Ping()
		}
	}()
	wg.Wait()

	hub.Unregister(cl)
}
