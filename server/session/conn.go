// Package session drives one client connection through the Handshake,
// Status/Login and Play states: packet framing and queuing, the
// Mojang-authenticated login handshake, and the keep-alive liveness check
// that runs for the lifetime of a Play session.
package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"

	"golang.org/x/sync/errgroup"

	"github.com/tesseract-mc/tesseract/server/protocol"
	"github.com/tesseract-mc/tesseract/server/protocol/packet"
)

// outboundQueueCapacity bounds each connection's outbound packet queue. The
// reference server leaves this unbounded; queuing past this many
// not-yet-written packets means the client can't keep up, so the connection
// is dropped rather than let a single slow reader exhaust server memory.
const outboundQueueCapacity = 1024

// inboundQueueCapacity bounds the queue of decoded packets awaiting
// processing by the tick thread. A slow tick loop backs up reads rather
// than buffering an unbounded number of client packets in memory.
const inboundQueueCapacity = 256

// ErrQueueOverflow is returned (and causes the connection to close) when a
// send or receive queue is full, the backpressure policy's drop condition.
var ErrQueueOverflow = errors.New("session: queue overflow")

// Conn owns the framing/compression/encryption layer for one client
// connection plus the bounded queues that hand decoded packets to the tick
// thread and take packets the tick thread wants written back out,
// decoupling a slow network peer from tick latency.
type Conn struct {
	raw   net.Conn
	wire  *protocol.Conn
	state packet.State

	inbound  chan packet.Packet
	outbound chan packet.Packet
	closed   chan struct{}
	closeErr error
}

// NewConn wraps raw, starting in the Handshake state with no compression or
// encryption.
func NewConn(raw net.Conn) *Conn {
	return &Conn{
		raw:      raw,
		wire:     protocol.NewConn(raw),
		state:    packet.StateHandshake,
		inbound:  make(chan packet.Packet, inboundQueueCapacity),
		outbound: make(chan packet.Packet, outboundQueueCapacity),
		closed:   make(chan struct{}),
	}
}

// SetState switches which packet union ReadLoop decodes incoming frames
// against, called as login negotiation advances the connection forward.
func (c *Conn) SetState(state packet.State) { c.state = state }

// RemoteAddr returns the underlying connection's remote address.
func (c *Conn) RemoteAddr() net.Addr { return c.raw.RemoteAddr() }

// Inbound returns the channel ReadLoop delivers decoded serverbound packets
// on.
func (c *Conn) Inbound() <-chan packet.Packet { return c.inbound }

// Closed returns a channel closed once the connection has shut down, along
// with the reason via Err.
func (c *Conn) Closed() <-chan struct{} { return c.closed }

// Err returns the error that caused the connection to close, if any.
func (c *Conn) Err() error { return c.closeErr }

// Send queues p for writing by WriteLoop. If the outbound queue is full the
// connection is closed instead of blocking the caller, per the
// drop-on-overflow backpressure policy.
func (c *Conn) Send(p packet.Packet) {
	select {
	case c.outbound <- p:
	default:
		c.Close(ErrQueueOverflow)
	}
}

// WriteDirect encodes and writes p synchronously, bypassing the outbound
// queue. Used during login negotiation, where packets must be written in
// exact lockstep with reads rather than queued for a separate writer.
func (c *Conn) WriteDirect(p packet.Packet) error {
	body, err := EncodePacket(p)
	if err != nil {
		return err
	}
	return c.wire.WritePacket(body)
}

// ReadDirect blocks for the next frame, decodes it against the connection's
// current state as a serverbound packet, and returns it synchronously.
// Used during login negotiation for the same lockstep reason as
// WriteDirect.
func (c *Conn) ReadDirect() (packet.Packet, error) {
	frame, err := c.wire.ReadPacket()
	if err != nil {
		return nil, err
	}
	return DecodePacket(c.state, packet.Serverbound, frame)
}

// EnableEncryption switches the connection to AES-128/CFB8 using key as
// both cipher key and initial feedback register.
func (c *Conn) EnableEncryption(key []byte) error { return c.wire.EnableEncryption(key) }

// EnableCompression turns on zlib compression above threshold bytes.
func (c *Conn) EnableCompression(threshold int32, level int) error {
	return c.wire.EnableCompression(threshold, level)
}

// readLoop decodes frames against the connection's current state and
// delivers them on Inbound until a read error occurs or the connection is
// closed.
func (c *Conn) readLoop() error {
	for {
		frame, err := c.wire.ReadPacket()
		if err != nil {
			return err
		}
		p, err := DecodePacket(c.state, packet.Serverbound, frame)
		if err != nil {
			return err
		}
		select {
		case c.inbound <- p:
		default:
			return ErrQueueOverflow
		}
	}
}

// writeLoop drains Send's queue and writes each packet to the wire in
// order, until the connection closes.
func (c *Conn) writeLoop() error {
	for {
		select {
		case p := <-c.outbound:
			if err := c.WriteDirect(p); err != nil {
				return err
			}
		case <-c.closed:
			return nil
		}
	}
}

// Run drives the connection's read and write loops as a pair under a single
// errgroup, the per-connection reader/writer task-pair lifecycle: whichever
// loop fails first closes the connection, which unblocks and ends the
// other, and cancelling ctx closes the connection from the outside (e.g. on
// server shutdown). Run blocks until both loops have exited and returns the
// first non-nil error either one reported, or nil on a clean ctx-driven
// shutdown.
func (c *Conn) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := c.readLoop()
		c.Close(err)
		return err
	})
	g.Go(func() error {
		err := c.writeLoop()
		c.Close(err)
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		c.Close(ctx.Err())
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	return c.closeErr
}

// Close shuts the connection down, recording err as the reason (idempotent:
// only the first call's err is kept).
func (c *Conn) Close(err error) {
	select {
	case <-c.closed:
		return
	default:
	}
	c.closeErr = err
	close(c.closed)
	c.raw.Close()
}

// EncodePacket renders p as a packet body: its VarInt32 id followed by its
// encoded fields, the shape Conn.WritePacket expects.
func EncodePacket(p packet.Packet) ([]byte, error) {
	var buf bytes.Buffer
	w := protocol.NewWriter(&buf)
	w.VarInt32(p.ID())
	p.Encode(w)
	if err := w.Err(); err != nil {
		return nil, fmt.Errorf("session: encode packet %T: %w", p, err)
	}
	return buf.Bytes(), nil
}

// DecodePacket allocates the packet registered for frame's leading id under
// (state, direction) and decodes its remaining fields from it.
func DecodePacket(state packet.State, direction packet.Direction, frame []byte) (packet.Packet, error) {
	r := protocol.NewReader(bytes.NewReader(frame))
	id := r.VarInt32()
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("session: read packet id: %w", err)
	}
	p, err := packet.New(state, direction, id)
	if err != nil {
		return nil, fmt.Errorf("session: packet id 0x%02X in state %d: %w", id, state, err)
	}
	p.Decode(r)
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("session: decode packet %T: %w", p, err)
	}
	return p, nil
}
