package ingestor

import (
	"errors"
	"fmt"
	"net"
	"time"

	lj "github.com/elastic/go-lumber/lj"
	srv2 "github.com/elastic/go-lumber/server/v2"
)

// ErrNoNumbers is returned when a message holds no parseable number.
var ErrNoNumbers = errors.New("no numbers in message")

// Job is one list of numbers shipped as a single lumberjack event.
type Job struct {
	Received time.Time
	Values   []float64
	Rejected []string // tokens that were not numbers
}

// --- TCP Ingestor using go-lumber v2 ---

type TCPIngestor struct {
	listener    net.Listener
	readTimeout time.Duration // for server
	events      chan *lj.Batch
	server      *srv2.Server
}

func NewTCPIngestor(addr string, readTimeout time.Duration) (*TCPIngestor, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return &TCPIngestor{
		listener:    ln,
		readTimeout: readTimeout,
		events:      make(chan *lj.Batch, 1000),
	}, nil
}

// Addr is the address the ingestor listens on.
func (ing *TCPIngestor) Addr() net.Addr {
	return ing.listener.Addr()
}

// Accept starts the lumberjack v2 Server.
func (ing *TCPIngestor) Accept() error {
	srv, err := srv2.NewWithListener(
		ing.listener,
		srv2.Timeout(ing.readTimeout),
	)
	if err != nil {
		return fmt.Errorf("failed to create lumberjack server: %w", err)
	}
	ing.server = srv

	// Pull batches off ReceiveChan and ack them.
	go func() {
		for batch := range ing.server.ReceiveChan() {
			ing.events <- batch
			batch.ACK()
		}
		close(ing.events)
	}()

	return nil
}

func parseEvent(evt map[string]interface{}, out *Job) error {
	msg, ok := evt["message"].(string)
	if !ok {
		return errors.New("missing message field")
	}
	out.Values, out.Rejected = ParseNumbers(msg)
	if len(out.Values) == 0 {
		return ErrNoNumbers
	}
	return nil
}

// ReadBatch drains every batch received so far without blocking. Events
// without a message or without numbers are skipped.
func (ing *TCPIngestor) ReadBatch() ([]Job, error) {
	var out []Job

	for {
		select {
		case batch, ok := <-ing.events:
			if !ok {
				return out, nil
			}
			now := time.Now()
			for _, evt := range batch.Events {
				if m, ok := evt.(map[string]interface{}); ok {
					entry := Job{Received: now}
					if err := parseEvent(m, &entry); err == nil {
						out = append(out, entry)
					}
				}
			}
		default:
			return out, nil
		}
	}
}

func (ing *TCPIngestor) IsClosed() bool {
	if ing.server == nil {
		return true
	}
	select {
	case batch, ok := <-ing.events:
		if !ok {
			return true
		}
		// put it back
		ing.events <- batch
		return false
	default:
		return false
	}
}

// Close shuts down the server and listener.
func (ing *TCPIngestor) Close() error {
	if ing.server != nil {
		ing.server.Close()
	}
	return ing.listener.Close()
}
