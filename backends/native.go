package backends

import (
	"context"
	"io"
	"net"
	"time"

	"github.com/quic-go/quic-go"
)

// NativeBackend carries frames over a single QUIC stream.
type NativeBackend struct {
	protocols []string
	timeout   time.Duration
	config    *quic.Config
}

func NewNativeBackend(cfg *BackendConfig) *NativeBackend {
	logger.WithField("config", cfg).Info("creating new QUIC backend")
	return &NativeBackend{
		protocols: cfg.Protocols,
		timeout:   cfg.NativeTimeout,
		config: &quic.Config{
			HandshakeIdleTimeout: cfg.NativeTimeout,
			KeepAlivePeriod:      cfg.NativeTimeout / 2,
			MaxIdleTimeout:       time.Second * 60,
		},
	}
}

// Dial opens a connection and a stream to addr.
func (nb *NativeBackend) Dial(ctx context.Context, addr string) (io.WriteCloser, error) {
	conn, err := quic.DialAddr(ctx, addr, clientConfig(nb.protocols), nb.config)
	if err != nil {
		return nil, err
	}
	stream, err := conn.OpenStreamSync(ctx)
	if err != nil {
		conn.CloseWithError(1, err.Error())
		return nil, err
	}
	logger.WithField("addr", addr).Debug("QUIC stream open")
	return &quicSender{conn: conn, stream: stream, linger: nb.timeout}, nil
}

// Listen starts accepting QUIC connections on addr.
func (nb *NativeBackend) Listen(addr string) (Listener, error) {
	tlsConf, err := selfSignedConfig(nb.protocols)
	if err != nil {
		return nil, err
	}
	ln, err := quic.ListenAddr(addr, tlsConf, nb.config)
	if err != nil {
		return nil, err
	}
	return &quicListener{ln: ln}, nil
}

type quicSender struct {
	conn   quic.Connection
	stream quic.Stream
	linger time.Duration
}

func (s *quicSender) Write(p []byte) (int, error) {
	return s.stream.Write(p)
}

// Close ends the stream and gives the receiver time to drain it before the
// connection goes away.
func (s *quicSender) Close() error {
	err := s.stream.Close()
	select {
	case <-s.conn.Context().Done():
	case <-time.After(s.linger):
		logger.Debug("receiver did not hang up, closing")
	}
	s.conn.CloseWithError(0, "done")
	return err
}

type quicListener struct {
	ln *quic.Listener
}

func (l *quicListener) Accept(ctx context.Context) (io.ReadCloser, error) {
	conn, err := l.ln.Accept(ctx)
	if err != nil {
		return nil, err
	}
	stream, err := conn.AcceptStream(ctx)
	if err != nil {
		conn.CloseWithError(1, err.Error())
		return nil, err
	}
	logger.WithField("remote", conn.RemoteAddr()).Debug("QUIC stream accepted")
	return &quicReceiver{conn: conn, stream: stream}, nil
}

func (l *quicListener) Addr() net.Addr {
	return l.ln.Addr()
}

func (l *quicListener) Close() error {
	return l.ln.Close()
}

type quicReceiver struct {
	conn   quic.Connection
	stream quic.Stream
}

func (r *quicReceiver) Read(p []byte) (int, error) {
	return r.stream.Read(p)
}

func (r *quicReceiver) Close() error {
	r.stream.CancelRead(0)
	return r.conn.CloseWithError(0, "received")
}
