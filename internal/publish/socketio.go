package publish

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/specialistvlad/pulsegrid/internal/ctxlog"
	"github.com/specialistvlad/pulsegrid/internal/document"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultEvent is the event name used when none is configured.
const DefaultEvent = "config"

// ErrNotConnected is returned by Publish once the bridge has dropped the
// connection.
var ErrNotConnected = errors.New("not connected to the driver bridge")

// Options configures a socket.io publisher.
type Options struct {
	URL                string
	Namespace          string
	Event              string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// SocketIO emits every published document as a single event.
type SocketIO struct {
	io        *socket.Socket
	event     string
	connected atomic.Bool
}

// Dial connects to the bridge and waits until the namespace handshake is done
// or the timeout expires.
func Dial(ctx context.Context, o Options) (*SocketIO, error) {
	logger := ctxlog.FromContext(ctx).With("url", o.URL, "namespace", o.Namespace)

	parsed, err := url.Parse(o.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse publish URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("publish URL %q needs a scheme and a host", o.URL)
	}
	if o.Event == "" {
		o.Event = DefaultEvent
	}
	if o.Namespace == "" {
		o.Namespace = "/"
	}
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}

	opts := socket.DefaultOptions()
	if parsed.Path != "" {
		opts.SetPath(parsed.Path)
	}
	if o.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host), opts)
	p := &SocketIO{io: manager.Socket(o.Namespace, opts), event: o.Event}

	done := make(chan error, 1)
	p.io.On(types.EventName("connect"), func(...any) {
		p.connected.Store(true)
		logger.Info("📡 Connected to driver bridge", "sid", p.io.Id())
		select {
		case done <- nil:
		default:
		}
	})
	p.io.On(types.EventName("disconnect"), func(reason ...any) {
		p.connected.Store(false)
		logger.Warn("Driver bridge disconnected.", "reason", reason)
	})
	p.io.On(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connection refused")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		select {
		case done <- err:
		default:
		}
	})

	p.io.Connect()

	dialCtx, cancel := context.WithTimeout(ctx, o.Timeout)
	defer cancel()
	select {
	case <-dialCtx.Done():
		p.io.Disconnect()
		return nil, fmt.Errorf("timed out while connecting to %s", o.URL)
	case err := <-done:
		if err != nil {
			p.io.Disconnect()
			return nil, fmt.Errorf("failed to connect to %s: %w", o.URL, err)
		}
	}
	return p, nil
}

// Publish emits the document as a JSON object.
func (p *SocketIO) Publish(ctx context.Context, doc *document.Document) error {
	if !p.connected.Load() {
		return ErrNotConnected
	}
	if err := p.io.Emit(p.event, doc.Map()); err != nil {
		return fmt.Errorf("failed to emit %q: %w", p.event, err)
	}
	ctxlog.FromContext(ctx).Debug("Document published.", "event", p.event)
	return nil
}

// Close disconnects from the bridge.
func (p *SocketIO) Close() error {
	p.io.Disconnect()
	return nil
}
