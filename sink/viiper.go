package sink

import (
	"bufio"
	"context"
	"encoding"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/Relics97/ControllerEmulator/apiclient"
	"github.com/Relics97/ControllerEmulator/device/xbox360"
	"github.com/Relics97/ControllerEmulator/internal/log"
)

// VIIPERConfig describes how to reach the VIIPER API server.
type VIIPERConfig struct {
	Addr         string
	Password     string
	Bus          uint32 // 0 picks the lowest existing bus or creates one
	DialTimeout  time.Duration
	WriteTimeout time.Duration
}

// VIIPER streams committed frames to a virtual Xbox 360 controller attached
// to a VIIPER USB-IP bus.
type VIIPER struct {
	mu    sync.Mutex
	frame frame

	client       *apiclient.Client
	stream       *apiclient.DeviceStream
	device       *apiclient.Device
	createdBus   bool
	writeTimeout time.Duration
	stopRead     context.CancelFunc
	readDone     chan struct{}

	raw    log.RawLogger
	logger *slog.Logger
}

// OpenVIIPER attaches a new xbox360 device and connects to its stream.
// The device stays attached until Close.
func OpenVIIPER(ctx context.Context, cfg VIIPERConfig, logger *slog.Logger, raw log.RawLogger) (*VIIPER, error) {
	if raw == nil {
		raw = log.NewRaw(nil)
	}
	client := apiclient.NewWithConfig(cfg.Addr, &apiclient.Config{
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.DialTimeout,
		WriteTimeout: cfg.WriteTimeout,
		Password:     cfg.Password,
	})

	busID, created, err := client.EnsureBus(ctx, cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	stream, dev, err := client.AddDeviceAndConnect(ctx, busID, xbox360.DeviceType, nil)
	if err != nil {
		if dev != nil {
			_, _ = client.DeviceRemove(ctx, busID, dev.DevId)
		}
		if created {
			_, _ = client.BusRemove(ctx, busID)
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	logger.Info("Attached virtual controller", "bus", dev.BusID, "device", dev.DevId, "vid", dev.Vid, "pid", dev.Pid)

	v := &VIIPER{
		client:       client,
		stream:       stream,
		device:       dev,
		createdBus:   created,
		writeTimeout: cfg.WriteTimeout,
		raw:          raw,
		logger:       logger,
		readDone:     make(chan struct{}),
	}
	readCtx, cancel := context.WithCancel(context.Background())
	v.stopRead = cancel
	go v.readRumble(readCtx)
	return v, nil
}

func (v *VIIPER) readRumble(ctx context.Context) {
	defer close(v.readDone)
	msgs, errs := v.stream.StartReading(ctx, 4, func(r *bufio.Reader) (encoding.BinaryUnmarshaler, error) {
		var b [2]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return nil, err
		}
		msg := new(xbox360.XRumbleState)
		return msg, msg.UnmarshalBinary(b[:])
	})
	for msg := range msgs {
		rumble := msg.(*xbox360.XRumbleState)
		v.raw.Log(false, []byte{rumble.LeftMotor, rumble.RightMotor})
		v.logger.Debug("Rumble", "left", rumble.LeftMotor, "right", rumble.RightMotor)
	}
	if err := <-errs; err != nil && ctx.Err() == nil {
		v.logger.Debug("Device feedback stream ended", "error", err)
	}
}

// Device returns the attached device.
func (v *VIIPER) Device() apiclient.Device { return *v.device }

func (v *VIIPER) SetAxis(axis Axis, value float64) {
	v.mu.Lock()
	v.frame.setAxis(axis, value)
	v.mu.Unlock()
}

func (v *VIIPER) SetButton(id uint32, pressed bool) {
	v.mu.Lock()
	v.frame.setButton(id, pressed)
	v.mu.Unlock()
}

// Commit writes the staged state as one stream frame.
func (v *VIIPER) Commit() error {
	v.mu.Lock()
	st := v.frame.state
	v.mu.Unlock()

	if v.writeTimeout > 0 {
		_ = v.stream.SetWriteDeadline(time.Now().Add(v.writeTimeout))
	}
	if err := v.stream.WriteBinary(&st); err != nil {
		return fmt.Errorf("%w: write frame: %w", ErrUnavailable, err)
	}
	if data, err := st.MarshalBinary(); err == nil {
		v.raw.Log(true, data)
	}
	return nil
}

// Close disconnects the stream and removes the device (and the bus if it
// was created by OpenVIIPER).
func (v *VIIPER) Close() error {
	v.stopRead()
	err := v.stream.Close()
	<-v.readDone

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, rerr := v.client.DeviceRemove(ctx, v.device.BusID, v.device.DevId); rerr != nil {
		v.logger.Warn("Failed to remove virtual controller", "bus", v.device.BusID, "device", v.device.DevId, "error", rerr)
	} else {
		v.logger.Info("Removed virtual controller", "bus", v.device.BusID, "device", v.device.DevId)
	}
	if v.createdBus {
		if _, rerr := v.client.BusRemove(ctx, v.device.BusID); rerr != nil {
			v.logger.Warn("Failed to remove bus", "bus", v.device.BusID, "error", rerr)
		}
	}
	return err
}
