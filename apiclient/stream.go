package apiclient

import (
	"bufio"
	"context"
	"encoding"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// ErrStreamClosed is returned by writes on a closed DeviceStream.
var ErrStreamClosed = errors.New("stream closed")

// DeviceStream is a bidirectional connection to one device: the client writes
// input frames, the device answers with feedback such as rumble.
type DeviceStream struct {
	conn   net.Conn
	BusID  uint32
	DevID  string
	closed atomic.Bool

	readMu     sync.Mutex
	readCancel context.CancelFunc
}

// OpenStream connects to the stream channel of an existing device.
func (c *Client) OpenStream(ctx context.Context, busID uint32, devID string) (*DeviceStream, error) {
	if c.transport.mock != nil {
		return nil, fmt.Errorf("stream connections not supported with mock transport")
	}
	conn, err := c.transport.dial(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := fmt.Fprintf(conn, "bus/%d/%s\x00", busID, devID); err != nil {
		conn.Close()
		return nil, fmt.Errorf("write stream path: %w", err)
	}
	return &DeviceStream{conn: conn, BusID: busID, DevID: devID}, nil
}

// AddDeviceAndConnect creates a device and immediately opens its stream.
func (c *Client) AddDeviceAndConnect(ctx context.Context, busID uint32, devType string, o *DeviceOptions) (*DeviceStream, *Device, error) {
	dev, err := c.DeviceAdd(ctx, busID, devType, o)
	if err != nil {
		return nil, nil, err
	}
	stream, err := c.OpenStream(ctx, busID, dev.DevId)
	if err != nil {
		return nil, dev, err
	}
	return stream, dev, nil
}

// WriteBinary marshals v and sends it as one frame.
func (s *DeviceStream) WriteBinary(v encoding.BinaryMarshaler) error {
	if s.closed.Load() {
		return ErrStreamClosed
	}
	data, err := v.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	_, err = s.conn.Write(data)
	return err
}

// StartReading decodes device feedback in a background goroutine until ctx
// is done, the stream is closed or decode fails. decode must consume exactly
// one message from r. It may be called once per stream.
func (s *DeviceStream) StartReading(ctx context.Context, chSize int, decode func(r *bufio.Reader) (encoding.BinaryUnmarshaler, error)) (<-chan encoding.BinaryUnmarshaler, <-chan error) {
	s.readMu.Lock()
	defer s.readMu.Unlock()
	if s.readCancel != nil {
		panic("StartReading called twice on the same stream")
	}

	msgCh := make(chan encoding.BinaryUnmarshaler, chSize)
	errCh := make(chan error, 1)
	readCtx, cancel := context.WithCancel(ctx)
	s.readCancel = cancel

	go func() {
		defer close(msgCh)
		defer close(errCh)
		defer cancel()

		r := bufio.NewReader(s.conn)
		for {
			msg, err := decode(r)
			if err != nil {
				if readCtx.Err() != nil || s.closed.Load() {
					err = readCtx.Err()
				}
				errCh <- err
				return
			}
			select {
			case msgCh <- msg:
			case <-readCtx.Done():
				errCh <- readCtx.Err()
				return
			}
		}
	}()

	return msgCh, errCh
}

// SetWriteDeadline sets the write deadline for the underlying connection.
func (s *DeviceStream) SetWriteDeadline(t time.Time) error {
	return s.conn.SetWriteDeadline(t)
}

// Close closes the connection and stops background reading.
func (s *DeviceStream) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	s.readMu.Lock()
	if s.readCancel != nil {
		s.readCancel()
	}
	s.readMu.Unlock()
	return s.conn.Close()
}
