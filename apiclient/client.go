// Package apiclient is a client for the VIIPER management API and device
// streams. The VIIPER device sink uses it to attach a virtual Xbox 360
// controller and stream input frames to it.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Client provides a high-level interface to the VIIPER API.
type Client struct{ transport *Transport }

// New constructs a client for the API server at addr (host:port).
func New(addr string) *Client { return &Client{transport: NewTransport(addr)} }

// NewWithConfig constructs a client with custom timeouts and password.
func NewWithConfig(addr string, cfg *Config) *Client {
	return &Client{transport: NewTransportWithConfig(addr, cfg)}
}

// WithTransport constructs a Client using a custom Transport, e.g. a mock.
func WithTransport(t *Transport) *Client { return &Client{transport: t} }

// BusList returns the numbers of all virtual buses.
func (c *Client) BusList(ctx context.Context) (*BusListResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "bus/list", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[BusListResponse](raw)
}

// BusCreate creates a virtual bus with the given number.
func (c *Client) BusCreate(ctx context.Context, busID uint32) (*BusResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "bus/create", fmt.Sprintf("%d", busID), nil)
	if err != nil {
		return nil, err
	}
	return parse[BusResponse](raw)
}

// BusRemove removes a bus and every device on it.
func (c *Client) BusRemove(ctx context.Context, busID uint32) (*BusResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "bus/remove", fmt.Sprintf("%d", busID), nil)
	if err != nil {
		return nil, err
	}
	return parse[BusResponse](raw)
}

// DeviceAdd adds a device of devType (e.g. "xbox360") to a bus.
func (c *Client) DeviceAdd(ctx context.Context, busID uint32, devType string, o *DeviceOptions) (*Device, error) {
	req := deviceCreateRequest{Type: devType}
	if o != nil {
		req.IdVendor, req.IdProduct = o.IdVendor, o.IdProduct
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal device create request: %w", err)
	}
	raw, err := c.transport.DoCtx(ctx, "bus/{id}/add", string(payload), busParam(busID))
	if err != nil {
		return nil, err
	}
	return parse[Device](raw)
}

// DeviceRemove removes a device from a bus. Open streams to it are closed by the server.
func (c *Client) DeviceRemove(ctx context.Context, busID uint32, devID string) (*DeviceRemoveResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "bus/{id}/remove", devID, busParam(busID))
	if err != nil {
		return nil, err
	}
	return parse[DeviceRemoveResponse](raw)
}

// DevicesList lists the devices attached to a bus.
func (c *Client) DevicesList(ctx context.Context, busID uint32) (*DevicesListResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "bus/{id}/list", nil, busParam(busID))
	if err != nil {
		return nil, err
	}
	return parse[DevicesListResponse](raw)
}

// EnsureBus returns preferred if it exists, otherwise the lowest existing bus,
// otherwise the first bus number in 1..100 it manages to create.
// created reports whether the bus was created by this call.
func (c *Client) EnsureBus(ctx context.Context, preferred uint32) (busID uint32, created bool, err error) {
	list, err := c.BusList(ctx)
	if err != nil {
		return 0, false, err
	}
	for _, b := range list.Buses {
		if preferred != 0 && b == preferred {
			return b, false, nil
		}
		if preferred == 0 && (busID == 0 || b < busID) {
			busID = b
		}
	}
	if busID != 0 {
		return busID, false, nil
	}

	candidates := []uint32{preferred}
	if preferred == 0 {
		candidates = candidates[:0]
		for try := uint32(1); try <= 100; try++ {
			candidates = append(candidates, try)
		}
	}
	var createErr error
	for _, try := range candidates {
		r, err := c.BusCreate(ctx, try)
		if err == nil {
			return r.BusID, true, nil
		}
		createErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return 0, false, fmt.Errorf("create bus: %w", createErr)
}

func busParam(busID uint32) map[string]string {
	return map[string]string{"id": fmt.Sprintf("%d", busID)}
}

func parse[T any](data string) (*T, error) {
	if data == "" {
		return nil, errors.New("empty response")
	}
	var problem ApiError
	if err := json.Unmarshal([]byte(data), &problem); err == nil && problem.IsProblem() {
		return nil, problem
	}
	var out T
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &out, nil
}
