// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sht2x

import "time"

// cooldown tracks the self-heating quiet window of one measured quantity.
// The zero value is already elapsed, so the first measurement after
// construction always hits the bus. The state is a single monotonic
// deadline evaluated lazily on read; there is no timer callback that
// could race a re-arm. All accesses happen under the device mutex.
type cooldown struct {
	readyAt time.Time
}

// safe reports whether the quiet window has elapsed.
func (c *cooldown) safe() bool {
	return !time.Now().Before(c.readyAt)
}

// arm starts a new quiet window of duration d.
func (c *cooldown) arm(d time.Duration) {
	c.readyAt = time.Now().Add(d)
}

// remaining returns the time left until the window elapses. The result is
// <= 0 once the window is safe.
func (c *cooldown) remaining() time.Duration {
	return time.Until(c.readyAt)
}
