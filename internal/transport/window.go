// Package transport implements the Modbus TCP register window consumed
// by the sensor readers. It does one round trip per poll and reflects
// network failure through availability, never through errors.
package transport

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	mb "github.com/goburrow/modbus"
)

const defaultTimeout = 5 * time.Second

// Options configures a window for one physical device.
type Options struct {
	Host    string
	Port    int
	SlaveID uint8
	Timeout time.Duration
	// Count is the number of registers read per poll, normally
	// profile.RegisterCount for the device model.
	Count uint16
}

// Window is a Modbus TCP-backed register window. One Window maps to one
// physical device; many readers may share it.
type Window struct {
	handler *mb.TCPClientHandler
	client  mb.Client
	count   uint16

	mu        sync.RWMutex
	regs      []uint16
	available bool
}

// NewWindow builds a window for the device at host:port. The connection
// is established lazily on the first poll.
func NewWindow(opts Options) (*Window, error) {
	if opts.Count == 0 {
		return nil, fmt.Errorf("window: register count must be positive")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	h := mb.NewTCPClientHandler(fmt.Sprintf("%s:%d", opts.Host, opts.Port))
	h.Timeout = timeout
	h.SlaveId = opts.SlaveID
	return &Window{
		handler: h,
		client:  mb.NewClient(h),
		count:   opts.Count,
	}, nil
}

// Poll performs one register read. On success it publishes a fresh
// snapshot; on failure it flips availability off and leaves the previous
// snapshot untouched (readers gate on availability, so it is never
// decoded again). The round trip is bounded by the handler timeout; the
// returned error is only ever a context error.
func (w *Window) Poll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		w.setUnavailable()
		return err
	}

	data, err := w.client.ReadHoldingRegisters(0, w.count)
	if err != nil || len(data) < int(w.count)*2 {
		w.setUnavailable()
		// force a reconnect on the next poll
		w.handler.Close()
		return nil
	}

	regs := registersFromBytes(data, w.count)
	w.mu.Lock()
	w.regs = regs
	w.available = true
	w.mu.Unlock()
	return nil
}

// Registers returns the snapshot from the last successful poll. The
// returned slice is replaced, never mutated, so concurrent readers may
// use it without synchronization.
func (w *Window) Registers() []uint16 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.regs
}

// Available reports whether the last poll succeeded.
func (w *Window) Available() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.available
}

// Close shuts the underlying connection.
func (w *Window) Close() error {
	return w.handler.Close()
}

func (w *Window) setUnavailable() {
	w.mu.Lock()
	w.available = false
	w.mu.Unlock()
}

// registersFromBytes decodes a big-endian Modbus payload into a fresh
// register slice.
func registersFromBytes(data []byte, count uint16) []uint16 {
	regs := make([]uint16, count)
	for i := range regs {
		regs[i] = binary.BigEndian.Uint16(data[i*2 : i*2+2])
	}
	return regs
}
