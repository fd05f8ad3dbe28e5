package backends

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const framesPath = "/frames"

// WebSocketBackend carries frames as binary websocket messages.
type WebSocketBackend struct {
	timeout  time.Duration
	upgrader websocket.Upgrader
}

func NewWebSocketBackend(cfg *BackendConfig) *WebSocketBackend {
	return &WebSocketBackend{
		timeout: cfg.NativeTimeout,
		upgrader: websocket.Upgrader{
			Subprotocols: cfg.Protocols,
		},
	}
}

func (wb *WebSocketBackend) Dial(ctx context.Context, addr string) (io.WriteCloser, error) {
	u := url.URL{Scheme: "ws", Host: addr, Path: framesPath}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, err
	}
	logger.WithField("url", u.String()).Debug("websocket open")
	return &wsSender{conn: conn, timeout: wb.timeout}, nil
}

func (wb *WebSocketBackend) Listen(addr string) (Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	l := &wsListener{
		ln:    ln,
		conns: make(chan *websocket.Conn),
		done:  make(chan struct{}),
	}
	mux := http.NewServeMux()
	mux.HandleFunc(framesPath, func(w http.ResponseWriter, r *http.Request) {
		conn, err := wb.upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.WithError(err).Warn("websocket upgrade failed")
			return
		}
		select {
		case l.conns <- conn:
		case <-l.done:
			conn.Close()
		}
	})
	l.srv = &http.Server{Handler: mux}
	go func() {
		if err := l.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("websocket server stopped")
		}
	}()
	return l, nil
}

type wsListener struct {
	ln    net.Listener
	srv   *http.Server
	conns chan *websocket.Conn
	done  chan struct{}
	once  sync.Once
}

func (l *wsListener) Accept(ctx context.Context) (io.ReadCloser, error) {
	select {
	case conn := <-l.conns:
		return &wsReceiver{conn: conn}, nil
	case <-l.done:
		return nil, net.ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *wsListener) Addr() net.Addr {
	return l.ln.Addr()
}

// Close stops the server and hangs up on connections nobody accepted.
func (l *wsListener) Close() error {
	l.once.Do(func() {
		close(l.done)
	})
	return l.srv.Close()
}

type wsSender struct {
	conn    *websocket.Conn
	timeout time.Duration
}

// Write sends p as one binary message.
func (s *wsSender) Write(p []byte) (int, error) {
	s.conn.SetWriteDeadline(time.Now().Add(s.timeout))
	if err := s.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close performs the closing handshake and waits for the receiver's reply.
func (s *wsSender) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done")
	err := s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(s.timeout))
	s.conn.SetReadDeadline(time.Now().Add(s.timeout))
	for err == nil {
		if _, _, rerr := s.conn.ReadMessage(); rerr != nil {
			break
		}
	}
	if cerr := s.conn.Close(); err == nil {
		err = cerr
	}
	return err
}

type wsReceiver struct {
	conn *websocket.Conn
	cur  io.Reader
}

// Read concatenates the payloads of incoming messages.
func (r *wsReceiver) Read(p []byte) (int, error) {
	for {
		if r.cur == nil {
			_, reader, err := r.conn.NextReader()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					return 0, io.EOF
				}
				return 0, err
			}
			r.cur = reader
		}
		n, err := r.cur.Read(p)
		if err == io.EOF {
			r.cur = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (r *wsReceiver) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "received")
	r.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return r.conn.Close()
}
