// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sht2x

// crc8 calculates the checksum the sensor appends to measurement and
// register responses. The polynomial is x^8 + x^5 + x^4 + 1, shared with
// the rest of the Sensirion line, but the SHT2x initializes the register
// to 0x00 rather than 0xff.
func crc8(bytes []byte) byte {
	var crc byte
	for _, val := range bytes {
		crc ^= val
		for i := 0; i < 8; i++ {
			if crc&0x80 == 0 {
				crc <<= 1
			} else {
				crc = (crc << 1) ^ 0x31
			}
		}
	}
	return crc
}
