package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/oshokin/door-alarm/internal/clock"
	"github.com/oshokin/door-alarm/internal/logger"
)

// DefaultBufferSize is the receive buffer capacity.
const DefaultBufferSize = 512

// Port is a serial line. A Read returning (0, nil) means the line stayed
// idle for the port's read timeout.
type Port interface {
	io.ReadWriteCloser
}

// drainer is implemented by ports that can wait for their output buffer to
// be transmitted, such as go.bug.st/serial.
type drainer interface {
	Drain() error
}

// ErrShortWrite is returned when the port accepted fewer bytes than given.
var ErrShortWrite = errors.New("short write to serial port")

// Serial is the transport over a Port.
type Serial struct {
	// port is the underlying serial line.
	port Port
	// src paces ReceiveWithTimeout.
	src clock.Source
	// buf holds the armed receive. The reader goroutine owns it between
	// an arm and the matching publication, the foreground owns it after.
	buf []byte
	// n is the number of valid bytes in buf, written before publication.
	n int
	// gen is the generation of the last arm. Foreground only.
	gen uint32
	// armed is the generation requested by the foreground.
	armed atomic.Uint32
	// ready is the generation last published by the reader.
	ready atomic.Uint32
	// done stops the reader goroutine.
	done chan struct{}
	// wg tracks the reader goroutine.
	wg sync.WaitGroup
	// closeOnce guards Close.
	closeOnce sync.Once
}

// Option configures a Serial transport.
type Option func(*Serial)

// WithBufferSize sets the receive buffer capacity.
func WithBufferSize(size int) Option {
	return func(s *Serial) {
		if size > 0 {
			s.buf = make([]byte, size)
		}
	}
}

// New wraps port and starts the reader goroutine. The context only scopes
// the reader's logging.
func New(ctx context.Context, port Port, src clock.Source, opts ...Option) *Serial {
	s := &Serial{
		port: port,
		src:  src,
		done: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.buf == nil {
		s.buf = make([]byte, DefaultBufferSize)
	}

	s.wg.Add(1)

	go s.read(logger.WithName(ctx, "transport"))

	return s
}

// Write sends p and, when the port supports it, waits until it has left the
// output buffer.
func (s *Serial) Write(p []byte) error {
	n, err := s.port.Write(p)
	if err != nil {
		return fmt.Errorf("write serial port: %w", err)
	}

	if n != len(p) {
		return fmt.Errorf("%w: %d of %d bytes", ErrShortWrite, n, len(p))
	}

	if d, ok := s.port.(drainer); ok {
		if err = d.Drain(); err != nil {
			return fmt.Errorf("drain serial port: %w", err)
		}
	}

	return nil
}

// BeginReceive arms a new receive, abandoning any previous one. Bytes that
// arrived after the previous receive completed are kept and open the new one.
func (s *Serial) BeginReceive() {
	s.gen++
	// Zero means "never armed".
	if s.gen == 0 {
		s.gen++
	}

	s.armed.Store(s.gen)
}

// PollReceive returns a copy of the received bytes once the armed receive
// has completed.
func (s *Serial) PollReceive() ([]byte, bool) {
	if s.gen == 0 || s.ready.Load() != s.gen {
		return nil, false
	}

	out := make([]byte, s.n)
	copy(out, s.buf[:s.n])

	return out, true
}

// ReceiveWithTimeout polls until the armed receive completes or d elapses.
func (s *Serial) ReceiveWithTimeout(d clock.Duration) ([]byte, bool) {
	timer := clock.NewTimer(s.src)

	for {
		if data, ok := s.PollReceive(); ok {
			return data, true
		}

		if timer.Expired(d) {
			return nil, false
		}

		s.src.Idle()
	}
}

// Close stops the reader goroutine and closes the port.
func (s *Serial) Close() error {
	var err error

	s.closeOnce.Do(func() {
		close(s.done)
		err = s.port.Close()
		s.wg.Wait()
	})

	if err != nil {
		return fmt.Errorf("close serial port: %w", err)
	}

	return nil
}

func (s *Serial) read(ctx context.Context) {
	defer s.wg.Done()

	var (
		chunk     = make([]byte, len(s.buf))
		carry     = make([]byte, 0, len(s.buf))
		current   uint32
		published uint32
		n         int
	)

	for {
		k, err := s.port.Read(chunk)

		select {
		case <-s.done:
			return
		default:
		}

		if g := s.armed.Load(); g != current {
			current = g
			// Bytes that trailed the last publication open the new receive.
			n = copy(s.buf, carry)
			carry = carry[:0]
		}

		if current == published {
			if err != nil {
				logger.ErrorKV(ctx, "serial read failed", "error", err)
				return
			}

			// Never armed: the data has nobody to go to.
			if current != 0 {
				room := cap(carry) - len(carry)
				carry = append(carry, chunk[:min(k, room)]...)
			}

			continue
		}

		n += copy(s.buf[n:], chunk[:k])

		full := n == len(s.buf)
		idle := k == 0 && n > 0

		if full || idle || (err != nil && n > 0) {
			s.n = n
			s.ready.Store(current)
			published = current
		}

		if err != nil {
			logger.ErrorKV(ctx, "serial read failed", "error", err)
			return
		}
	}
}
