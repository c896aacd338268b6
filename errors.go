// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sht2x

import "fmt"

// ReadTimeoutError is returned when a no-hold measurement is still not
// acknowledged after the poll retry budget covering the worst-case
// conversion time has been exhausted.
type ReadTimeoutError struct{}

func (e *ReadTimeoutError) Error() string {
	return "sht2x: measurement not ready before the poll retry budget was exhausted"
}

// InvalidResolutionError is returned when a value outside the four
// defined resolution codes would have been written to the user register.
type InvalidResolutionError struct {
	Value byte
}

func (e *InvalidResolutionError) Error() string {
	return fmt.Sprintf("sht2x: invalid resolution code 0x%02x", e.Value)
}

// DataCorruptionError is returned when Opts.ValidateData is set and the
// checksum of a measurement response does not match.
type DataCorruptionError struct{}

func (e *DataCorruptionError) Error() string {
	return "sht2x: response crc mismatch"
}
