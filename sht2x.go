// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sht2x

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// DefaultAddress is the fixed I2C address of the sensor family. The
// datasheet writes it as 0x80 in 8-bit notation.
const DefaultAddress uint16 = 0x40

const (
	// Command bytes for the device.
	cmdTriggerTempHold   byte = 0xe3
	cmdTriggerRHHold     byte = 0xe5
	cmdTriggerTempNoHold byte = 0xf3
	cmdTriggerRHNoHold   byte = 0xf5
	cmdWriteUserRegister byte = 0xe6
	cmdReadUserRegister  byte = 0xe7
	cmdSoftReset         byte = 0xfe

	// User register bit 6 is the end-of-battery alarm, set while VDD is
	// below 2.25V.
	bitEndOfBattery byte = 1 << 6

	countDivisor        = 65536.0
	statusMask   uint16 = 0xfffc

	// Power-up time after a soft reset.
	resetSettle = 15 * time.Millisecond
)

// quantity selects one of the two measured values.
type quantity int

const (
	quantityTemperature quantity = iota
	quantityHumidity
)

// Opts holds the configuration options for the device.
type Opts struct {
	// Resolution is the humidity/temperature bit-depth pairing programmed
	// into the user register at construction.
	Resolution Resolution
	// UseHoldMaster selects the hold-master readback discipline: the
	// sensor stretches the bus clock until the conversion completes and a
	// single read is issued after the worst-case conversion time. The
	// default no-hold discipline polls with reads instead.
	UseHoldMaster bool
	// SelfHeatCooldown is the minimum quiet interval between fresh
	// measurements of the same quantity. Within the window the getters
	// return the cached sample without touching the bus. Leave 0 to use
	// the 2s default.
	SelfHeatCooldown time.Duration
	// PollInterval is the spacing between read attempts in no-hold mode.
	// Leave 0 to use the 5ms default.
	PollInterval time.Duration
	// ValidateData enables CRC8 verification of measurement responses.
	// Default is off, matching the sensor's optional checksum use.
	ValidateData bool
}

// DefaultOpts holds the default configuration options for the device:
// no-hold readback at the power-on resolution with a 2s self-heating
// cooldown.
var DefaultOpts = Opts{
	Resolution:       RH12T14,
	SelfHeatCooldown: 2 * time.Second,
	PollInterval:     5 * time.Millisecond,
}

// Dev represents an SHT2x temperature/humidity sensor.
type Dev struct {
	d    *i2c.Dev
	opts Opts

	mu       sync.Mutex
	shutdown chan struct{}
	lastTemp physic.Temperature
	lastRH   physic.RelativeHumidity
	cdTemp   cooldown
	cdRH     cooldown
}

// New returns a handle to an SHT2x sensor on the given bus. The device is
// soft-reset and the requested resolution is programmed into the user
// register. The Opts can be nil.
func New(bus i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	if !o.Resolution.valid() {
		return nil, &InvalidResolutionError{Value: byte(o.Resolution)}
	}
	if o.SelfHeatCooldown <= 0 {
		o.SelfHeatCooldown = DefaultOpts.SelfHeatCooldown
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultOpts.PollInterval
	}
	d := &Dev{d: &i2c.Dev{Bus: bus, Addr: addr}, opts: o}
	if err := d.Reset(); err != nil {
		return nil, err
	}
	if err := d.SetResolution(o.Resolution); err != nil {
		return nil, err
	}
	return d, nil
}

// countToTemperature converts a raw conversion result to a temperature
// using the sensor's fixed calibration curve. The low 2 status bits are
// masked off first. No clamping is performed: a corrupt reading decodes
// to an out-of-range value the caller can detect.
func countToTemperature(count uint16) physic.Temperature {
	// T = -46.85 + 175.72*(count/2^16)
	f := -46.85 + 175.72*(float64(count&statusMask)/countDivisor)
	return physic.ZeroCelsius + physic.Temperature(f*float64(physic.Celsius))
}

// countToHumidity converts a raw conversion result to a relative
// humidity. Same masking and no-clamping rules as countToTemperature.
func countToHumidity(count uint16) physic.RelativeHumidity {
	// RH = -6 + 125*(count/2^16)
	f := -6.0 + 125.0*(float64(count&statusMask)/countDivisor)
	return physic.RelativeHumidity(f * float64(physic.PercentRH))
}

// triggerCommand returns the trigger byte for a fresh conversion of q.
func triggerCommand(q quantity, hold bool) byte {
	if q == quantityTemperature {
		if hold {
			return cmdTriggerTempHold
		}
		return cmdTriggerTempNoHold
	}
	if hold {
		return cmdTriggerRHHold
	}
	return cmdTriggerRHNoHold
}

// measure performs a fresh conversion of q, caches the decoded value and
// re-arms the quantity's cooldown. A failed measurement leaves both the
// cache and the cooldown untouched so the next call retries immediately.
// The caller must hold d.mu.
func (d *Dev) measure(q quantity) error {
	budget := d.opts.Resolution.conversionTime(q)
	if err := d.d.Tx([]byte{triggerCommand(q, d.opts.UseHoldMaster)}, nil); err != nil {
		return fmt.Errorf("sht2x: error triggering measurement: %w", err)
	}
	r := make([]byte, 3)
	if d.opts.UseHoldMaster {
		// The sensor stretches the clock until the conversion completes,
		// so a single read after the worst-case conversion time suffices.
		time.Sleep(budget)
		if err := d.d.Tx(nil, r); err != nil {
			return fmt.Errorf("sht2x: error reading measurement: %w", err)
		}
	} else {
		// In no-hold mode the sensor does not acknowledge reads until the
		// conversion completes. The retry budget covers the worst-case
		// conversion time so unresponsive hardware reports a timeout
		// instead of hanging.
		attempts := int(budget/d.opts.PollInterval) + 1
		var err error
		for i := 0; ; i++ {
			if err = d.d.Tx(nil, r); err == nil {
				break
			}
			if i >= attempts {
				return &ReadTimeoutError{}
			}
			time.Sleep(d.opts.PollInterval)
		}
	}
	if d.opts.ValidateData && crc8(r[:2]) != r[2] {
		return &DataCorruptionError{}
	}
	count := uint16(r[0])<<8 | uint16(r[1])
	if q == quantityTemperature {
		d.lastTemp = countToTemperature(count)
		d.cdTemp.arm(d.opts.SelfHeatCooldown)
	} else {
		d.lastRH = countToHumidity(count)
		d.cdRH.arm(d.opts.SelfHeatCooldown)
	}
	return nil
}

// Temperature returns the current temperature. Within the self-heating
// cooldown window the last measured value is returned without any bus
// traffic; otherwise a fresh measurement is performed. On measurement
// failure the last known value is returned together with the error.
func (d *Dev) Temperature() (physic.Temperature, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cdTemp.safe() {
		if err := d.measure(quantityTemperature); err != nil {
			return d.lastTemp, err
		}
	}
	return d.lastTemp, nil
}

// Humidity returns the current relative humidity. Cooldown and failure
// semantics match Temperature.
func (d *Dev) Humidity() (physic.RelativeHumidity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cdRH.safe() {
		if err := d.measure(quantityHumidity); err != nil {
			return d.lastRH, err
		}
	}
	return d.lastRH, nil
}

// Sense reads temperature and humidity from the device. The pressure is
// always 0. A fresh pair is measured, temperature first, only when both
// quantities are outside their cooldown window; otherwise the cached pair
// is returned unchanged with no bus traffic, so the two values always
// come from the same refresh. Implements physic.SenseEnv.
func (d *Dev) Sense(e *physic.Env) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	var err error
	if d.cdTemp.safe() && d.cdRH.safe() {
		if err = d.measure(quantityTemperature); err == nil {
			err = d.measure(quantityHumidity)
		}
	}
	e.Temperature = d.lastTemp
	e.Humidity = d.lastRH
	e.Pressure = 0
	return err
}

// SenseContinuous continuously reads from the device and sends the
// readings to the returned channel. The interval must not be shorter than
// the self-heating cooldown, otherwise the channel would carry stale
// pairs. To terminate the read, call Halt. Implements physic.SenseEnv.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.shutdown != nil {
		return nil, errors.New("sht2x: SenseContinuous already running")
	}
	if interval < d.opts.SelfHeatCooldown {
		return nil, errors.New("sht2x: sample interval is shorter than the self-heating cooldown")
	}
	d.shutdown = make(chan struct{})
	ch := make(chan physic.Env, 16)
	go func(ch chan<- physic.Env, stop <-chan struct{}) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		defer close(ch)
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				env := physic.Env{}
				if err := d.Sense(&env); err == nil {
					ch <- env
				}
			}
		}
	}(ch, d.shutdown)
	return ch, nil
}

// Precision returns the smallest change in readings the device can
// produce at the configured resolution. Implements physic.SenseEnv.
func (d *Dev) Precision(e *physic.Env) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e.Temperature = d.opts.Resolution.temperatureStep()
	e.Humidity = d.opts.Resolution.humidityStep()
	e.Pressure = 0
}

// Halt terminates a running SenseContinuous. Calling it again, or with no
// read running, is a no-op. Implements conn.Resource.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.shutdown != nil {
		close(d.shutdown)
		d.shutdown = nil
	}
	return nil
}

// SetResolution programs the user register with one of the four defined
// resolution codes. Any other value is rejected before touching the bus.
// Cached samples and running cooldowns are kept.
func (d *Dev) SetResolution(r Resolution) error {
	if !r.valid() {
		return &InvalidResolutionError{Value: byte(r)}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.d.Tx([]byte{cmdWriteUserRegister, byte(r)}, nil); err != nil {
		return fmt.Errorf("sht2x: error writing user register: %w", err)
	}
	d.opts.Resolution = r
	return nil
}

// Resolution returns the currently programmed resolution.
func (d *Dev) Resolution() Resolution {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opts.Resolution
}

// UserRegister returns the raw content of the user register.
func (d *Dev) UserRegister() (byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r := make([]byte, 1)
	if err := d.d.Tx([]byte{cmdReadUserRegister}, r); err != nil {
		return 0, fmt.Errorf("sht2x: error reading user register: %w", err)
	}
	return r[0], nil
}

// LowBattery reports the sensor's end-of-battery alarm, set while the
// supply voltage is below 2.25V.
func (d *Dev) LowBattery() (bool, error) {
	reg, err := d.UserRegister()
	if err != nil {
		return false, err
	}
	return reg&bitEndOfBattery != 0, nil
}

// Reset issues a soft reset and waits out the device's power-up time
// before returning. The user register reverts to the power-on resolution;
// call SetResolution afterwards to restore a non-default setting.
func (d *Dev) Reset() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.d.Tx([]byte{cmdSoftReset}, nil); err != nil {
		return fmt.Errorf("sht2x: error resetting: %w", err)
	}
	time.Sleep(resetSettle)
	return nil
}

// WaitUntilSafe blocks until the self-heating cooldown of both quantities
// has elapsed, so that a following Sense performs a fresh measurement.
// The wait has no timeout of its own; bound it through ctx.
func (d *Dev) WaitUntilSafe(ctx context.Context) error {
	for {
		d.mu.Lock()
		wait := d.cdTemp.remaining()
		if w := d.cdRH.remaining(); w > wait {
			wait = w
		}
		d.mu.Unlock()
		if wait <= 0 {
			return nil
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("sht2x: %s", d.d)
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
