package transport

import (
	"bytes"
	"context"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/door-alarm/internal/clock"
)

// fakePort delivers queued chunks and reports idle after a short gap.
type fakePort struct {
	incoming  chan []byte
	closed    chan struct{}
	closeOnce sync.Once
	idle      time.Duration

	mu      sync.Mutex
	written bytes.Buffer
	drains  atomic.Int32
}

func newFakePort() *fakePort {
	return &fakePort{
		incoming: make(chan []byte),
		closed:   make(chan struct{}),
		idle:     20 * time.Millisecond,
	}
}

func (p *fakePort) Read(b []byte) (int, error) {
	select {
	case chunk := <-p.incoming:
		return copy(b, chunk), nil
	case <-time.After(p.idle):
		return 0, nil
	case <-p.closed:
		return 0, io.EOF
	}
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.written.Write(b)
}

func (p *fakePort) Drain() error {
	p.drains.Add(1)

	return nil
}

func (p *fakePort) Close() error {
	p.closeOnce.Do(func() { close(p.closed) })

	return nil
}

func newSerial(t *testing.T, opts ...Option) (*Serial, *fakePort) {
	t.Helper()

	tick := clock.StartSysTick()
	port := newFakePort()
	s := New(context.Background(), port, tick, opts...)

	t.Cleanup(func() {
		require.NoError(t, s.Close())
		tick.Stop()
	})

	return s, port
}

// TestSerial_ReceivesUntilIdle checks that chunks are gathered until the line goes quiet.
func TestSerial_ReceivesUntilIdle(t *testing.T) {
	t.Parallel()

	s, port := newSerial(t)

	s.BeginReceive()
	port.incoming <- []byte("AT\r\r\n")
	port.incoming <- []byte("OK\r\n")

	data, ok := s.ReceiveWithTimeout(clock.Milliseconds(1_000))
	require.True(t, ok)
	require.Equal(t, "AT\r\r\nOK\r\n", string(data))
}

// TestSerial_DropsUnarmedBytes verifies bytes arriving before an arm never reach the receiver.
func TestSerial_DropsUnarmedBytes(t *testing.T) {
	t.Parallel()

	s, port := newSerial(t)

	port.incoming <- []byte("RING\r\n")

	_, ok := s.PollReceive()
	require.False(t, ok)

	s.BeginReceive()
	port.incoming <- []byte("OK\r\n")

	data, ok := s.ReceiveWithTimeout(clock.Milliseconds(1_000))
	require.True(t, ok)
	require.Equal(t, "OK\r\n", string(data))
}

// TestSerial_TimesOutWithoutData ensures a silent line yields no data.
func TestSerial_TimesOutWithoutData(t *testing.T) {
	t.Parallel()

	s, _ := newSerial(t)

	s.BeginReceive()

	data, ok := s.ReceiveWithTimeout(clock.Milliseconds(60))
	require.False(t, ok)
	require.Nil(t, data)
}

// TestSerial_CompletesWhenBufferFull checks that a full buffer publishes without waiting for idle.
func TestSerial_CompletesWhenBufferFull(t *testing.T) {
	t.Parallel()

	s, port := newSerial(t, WithBufferSize(4))

	s.BeginReceive()
	port.incoming <- []byte("ABCDEFGH")

	data, ok := s.ReceiveWithTimeout(clock.Milliseconds(1_000))
	require.True(t, ok)
	require.Equal(t, "ABCD", string(data))
}

// TestSerial_RearmDiscardsPreviousReceive verifies a new arm starts from an empty buffer.
func TestSerial_RearmDiscardsPreviousReceive(t *testing.T) {
	t.Parallel()

	s, port := newSerial(t)

	s.BeginReceive()
	port.incoming <- []byte("first\r\n")

	data, ok := s.ReceiveWithTimeout(clock.Milliseconds(1_000))
	require.True(t, ok)
	require.Equal(t, "first\r\n", string(data))

	s.BeginReceive()

	_, ok = s.PollReceive()
	require.False(t, ok)

	port.incoming <- []byte("second\r\n")

	data, ok = s.ReceiveWithTimeout(clock.Milliseconds(1_000))
	require.True(t, ok)
	require.Equal(t, "second\r\n", string(data))
}

// TestSerial_KeepsBytesTrailingAPublishedReceive verifies bytes arriving between a completed receive and the next arm are delivered by that arm.
func TestSerial_KeepsBytesTrailingAPublishedReceive(t *testing.T) {
	t.Parallel()

	s, port := newSerial(t)

	s.BeginReceive()
	port.incoming <- []byte("AT+CMGS=\"+15550100\"\r")

	data, ok := s.ReceiveWithTimeout(clock.Milliseconds(1_000))
	require.True(t, ok)
	require.Equal(t, "AT+CMGS=\"+15550100\"\r", string(data))

	port.incoming <- []byte("\r\n> ")

	s.BeginReceive()

	data, ok = s.ReceiveWithTimeout(clock.Milliseconds(1_000))
	require.True(t, ok)
	require.Equal(t, "\r\n> ", string(data))
}

// TestSerial_WriteDrains checks that writes reach the port and are drained.
func TestSerial_WriteDrains(t *testing.T) {
	t.Parallel()

	s, port := newSerial(t)

	require.NoError(t, s.Write([]byte("AT\r\n")))

	port.mu.Lock()
	written := port.written.String()
	port.mu.Unlock()

	require.Equal(t, "AT\r\n", written)
	require.Equal(t, int32(1), port.drains.Load())
}
