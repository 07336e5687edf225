package ws

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/dmitrijs2005/tsn/internal/common"
	"github.com/dmitrijs2005/tsn/internal/server/models"
	"github.com/gorilla/websocket"
)

type frame struct {
	Username string     `json:"username,omitempty"`
	Text     string     `json:"text,omitempty"`
	Time     *time.Time `json:"time,omitempty"`
}

// connStream adapts a WebSocket connection to session.Stream.
type connStream struct {
	ctx  context.Context
	conn *websocket.Conn
	done chan struct{}
}

func newConnStream(ctx context.Context, conn *websocket.Conn) *connStream {
	s := &connStream{ctx: ctx, conn: conn, done: make(chan struct{})}

	conn.SetReadLimit(maxFrameSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// a pending read only returns once the connection closes
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-s.done:
		}
	}()
	return s
}

func (s *connStream) Context() context.Context { return s.ctx }

func (s *connStream) Recv() (models.Post, error) {
	var f frame
	if err := s.conn.ReadJSON(&f); err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return models.Post{}, io.EOF
		}
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
			return models.Post{}, common.ErrMalformedFrame
		}
		return models.Post{}, err
	}

	p := models.Post{Sender: f.Username, Text: f.Text}
	if f.Time != nil {
		p.Timestamp = *f.Time
	}
	return p, nil
}

func (s *connStream) Send(p models.Post) error {
	f := frame{Username: p.Sender, Text: p.Text}
	if !p.Timestamp.IsZero() {
		t := p.Timestamp
		f.Time = &t
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(f)
}

// keepAlive pings the peer until the stream closes.
func (s *connStream) keepAlive() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

// close reports the session result in a close frame and drops the connection.
func (s *connStream) close(err error) {
	code, reason := websocket.CloseNormalClosure, ""
	if err != nil {
		code, reason = websocket.ClosePolicyViolation, err.Error()
	}
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason), time.Now().Add(writeWait))
	close(s.done)
	_ = s.conn.Close()
}
