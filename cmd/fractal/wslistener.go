package main

import (
	"context"
	"log"
	"net"
	"net/http"

	"github.com/coder/websocket"
)

// websocketListener is a net.Listener whose connections arrive through its
// http handler, so irpc can serve workers on the same port as the streams.
type websocketListener struct {
	ch     chan *websocket.Conn
	ctx    context.Context
	cancel context.CancelFunc
	addr   wsAddr
}

func newWebsocketListener(ctx context.Context, path string) *websocketListener {
	ctx, cancel := context.WithCancel(ctx)
	return &websocketListener{
		ch:     make(chan *websocket.Conn),
		ctx:    ctx,
		cancel: cancel,
		addr:   wsAddr(path),
	}
}

// handle upgrades the request and queues the connection for Accept.
func (l *websocketListener) handle(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Printf("worker %s: %v", r.RemoteAddr, err)
		return
	}
	select {
	case l.ch <- c:
	case <-l.ctx.Done():
		c.Close(websocket.StatusGoingAway, "server shutting down")
	}
}

func (l *websocketListener) Accept() (net.Conn, error) {
	select {
	case c := <-l.ch:
		return websocket.NetConn(l.ctx, c, websocket.MessageBinary), nil
	case <-l.ctx.Done():
		return nil, net.ErrClosed
	}
}

func (l *websocketListener) Addr() net.Addr { return l.addr }

func (l *websocketListener) Close() error {
	l.cancel()
	return nil
}

type wsAddr string

func (a wsAddr) Network() string { return "ws" }
func (a wsAddr) String() string  { return string(a) }
