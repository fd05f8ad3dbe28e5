package backends

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	log "github.com/harlequix/secded/log"
	"github.com/spf13/viper"
)

var logger *log.Logger

func init() {
	logger = log.NewLogger("Backend")
}

func init() {
	viper.SetDefault("NativeTimeout", 2*time.Second)
	viper.SetDefault("Protocols", []string{"secded"})
}

// Backend carries one frame stream from a sender to a receiver.
type Backend interface {
	Dial(ctx context.Context, addr string) (io.WriteCloser, error)
	Listen(addr string) (Listener, error)
}

// Listener accepts incoming frame streams.
type Listener interface {
	Accept(ctx context.Context) (io.ReadCloser, error)
	Addr() net.Addr
	Close() error
}

const (
	Native    = "native"
	WebSocket = "websocket"
)

// BackendConfig holds the transport settings read from viper.
type BackendConfig struct {
	Protocols     []string
	NativeTimeout time.Duration
}

func getConfig() *BackendConfig {
	var config BackendConfig
	if err := viper.Unmarshal(&config); err != nil {
		logger.WithError(err).Warn("falling back to default backend config")
	}
	if len(config.Protocols) == 0 {
		config.Protocols = []string{"secded"}
	}
	if config.NativeTimeout <= 0 {
		config.NativeTimeout = 2 * time.Second
	}
	return &config
}

// New returns the backend registered under name.
func New(name string) (Backend, error) {
	switch name {
	case Native, "quic", "":
		return NewNativeBackend(getConfig()), nil
	case WebSocket, "ws":
		return NewWebSocketBackend(getConfig()), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}
