// Package ws serves the Timeline stream over WebSocket. Frames are JSON
// objects {"username", "text", "time"}; the first one a client sends names
// the session owner, exactly as on the gRPC stream.
package ws

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/tsn/internal/common"
	"github.com/dmitrijs2005/tsn/internal/logging"
	"github.com/dmitrijs2005/tsn/internal/server/session"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a frame to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the peer.
	pongWait = 60 * time.Second

	// Ping period, must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	maxFrameSize = common.MaxFrameSize

	TimelinePath = "/timeline"
)

type Sessions interface {
	Serve(stream session.Stream) error
}

type Gateway struct {
	address  string
	sessions Sessions
	logger   logging.Logger
	upgrader websocket.Upgrader
}

func NewGateway(a string, s Sessions, l logging.Logger) *Gateway {
	return &Gateway{
		address:  a,
		sessions: s,
		logger:   l.With("module", "ws_gateway"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (g *Gateway) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(TimelinePath, g.serveTimeline)
	return mux
}

// Run listens until ctx is done. Request contexts derive from ctx, so open
// streams end with it.
func (g *Gateway) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              g.address,
		Handler:           g.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		g.logger.Info(ctx, "Stopping WebSocket gateway...")
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeWait)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			g.logger.Warn(ctx, "gateway shutdown", "error", err)
		}
	}()

	g.logger.Info(ctx, "Starting WebSocket gateway", "address", g.address)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (g *Gateway) serveTimeline(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn(r.Context(), "upgrade failed", "error", err)
		return
	}

	id := uuid.NewString()
	ctx, cancel := context.WithCancel(session.ContextWithID(r.Context(), id))
	defer cancel()

	stream := newConnStream(ctx, conn)
	go stream.keepAlive()

	err = g.sessions.Serve(stream)
	stream.close(err)
	g.logger.Info(ctx, "websocket session finished", "session_id", id, "remote", r.RemoteAddr, "error", err)
}
