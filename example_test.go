// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sht2x_test

import (
	"context"
	"log"

	"github.com/GermanBionicSystems/sht2x"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// Example shows creating an SHT2x sensor and reading from it while
// respecting the self-heating cooldown.
func Example() {
	if _, err := host.Init(); err != nil {
		log.Fatal("Error calling host.Init()")
	}
	bus, err := i2creg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer bus.Close()

	dev, err := sht2x.New(bus, sht2x.DefaultAddress, nil)
	if err != nil {
		log.Fatal(err)
	}

	env := &physic.Env{}
	for i := 0; i < 10; i++ {
		// Block until a Sense will measure instead of returning the
		// cached pair.
		if err := dev.WaitUntilSafe(context.Background()); err != nil {
			log.Fatal(err)
		}
		if err := dev.Sense(env); err != nil {
			log.Println(err)
			continue
		}
		log.Printf("Temperature: %s   Humidity: %s\n", env.Temperature, env.Humidity)
	}
}
