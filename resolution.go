// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sht2x

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/physic"
)

// Resolution selects the humidity/temperature bit-depth pairing of the
// sensor. The values are the user register codes from the datasheet; only
// these four pairings exist.
type Resolution byte

const (
	// RH12T14 is 12-bit humidity / 14-bit temperature, the power-on
	// default.
	RH12T14 Resolution = 0x00
	// RH8T12 is 8-bit humidity / 12-bit temperature.
	RH8T12 Resolution = 0x01
	// RH10T13 is 10-bit humidity / 13-bit temperature.
	RH10T13 Resolution = 0x80
	// RH11T11 is 11-bit humidity / 11-bit temperature.
	RH11T11 Resolution = 0x81
)

func (r Resolution) valid() bool {
	switch r {
	case RH12T14, RH8T12, RH10T13, RH11T11:
		return true
	}
	return false
}

// bits returns the conversion bit depths for humidity and temperature.
func (r Resolution) bits() (rh, temp uint) {
	switch r {
	case RH8T12:
		return 8, 12
	case RH10T13:
		return 10, 13
	case RH11T11:
		return 11, 11
	default:
		return 12, 14
	}
}

// conversionTime returns the worst-case conversion time of q at this
// resolution, from the datasheet timing table.
func (r Resolution) conversionTime(q quantity) time.Duration {
	rh, temp := r.bits()
	if q == quantityTemperature {
		switch temp {
		case 11:
			return 11 * time.Millisecond
		case 12:
			return 22 * time.Millisecond
		case 13:
			return 43 * time.Millisecond
		default:
			return 85 * time.Millisecond
		}
	}
	switch rh {
	case 8:
		return 4 * time.Millisecond
	case 10:
		return 9 * time.Millisecond
	case 11:
		return 15 * time.Millisecond
	default:
		return 29 * time.Millisecond
	}
}

// temperatureStep is the smallest temperature change representable at
// this resolution.
func (r Resolution) temperatureStep() physic.Temperature {
	_, temp := r.bits()
	return physic.Temperature(175.72 / float64(uint32(1)<<temp) * float64(physic.Celsius))
}

// humidityStep is the smallest humidity change representable at this
// resolution.
func (r Resolution) humidityStep() physic.RelativeHumidity {
	rh, _ := r.bits()
	return physic.RelativeHumidity(125.0 / float64(uint32(1)<<rh) * float64(physic.PercentRH))
}

// String implements fmt.Stringer.
func (r Resolution) String() string {
	switch r {
	case RH12T14:
		return "RH12T14"
	case RH8T12:
		return "RH8T12"
	case RH10T13:
		return "RH10T13"
	case RH11T11:
		return "RH11T11"
	default:
		return fmt.Sprintf("Resolution(0x%02x)", byte(r))
	}
}
