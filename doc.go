// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sht2x interfaces with the Sensirion SHT20, SHT21 and SHT25
// humidity/temperature sensors, and with protocol-compatible parts such as
// the Measurement Specialties HTU21D and the Silicon Labs Si7021.
//
// The driver throttles fresh conversions. The sensor dissipates the heat
// of a conversion slowly, and back-to-back measurements bias the
// temperature reading upward. Within the configurable self-heating
// cooldown window the getters return the last measured value without
// touching the bus; the two quantities cool down independently.
//
// Both readback disciplines of the sensor family are supported: hold
// master, where the sensor stretches the bus clock until the conversion
// completes, and the default no-hold mode, where the driver polls with
// reads until the sensor acknowledges.
//
// # Datasheet
//
// https://sensirion.com/media/documents/120BBE4C/63500094/Sensirion_Datasheet_Humidity_Sensor_SHT21.pdf
package sht2x
