// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package bench

import (
	"time"

	"github.com/pkg/errors"
)

// ErrTimeout is the cause of the errors returned by expired waits. Test for
// it with errors.Cause:
//
//	if _, err := b.WaitRise(p, time.Millisecond); errors.Cause(err) == bench.ErrTimeout {
//		// the wire never rose
//	}
//
var ErrTimeout = errors.New("timeout")

// WaitLevel advances the simulation one clock cycle at a time until the
// probed wire samples at the wanted level, and returns the simulated time of
// the matching sample. A probe already at the wanted level returns
// immediately with the current time. A zero timeout samples exactly once.
//
func (b *Bench) WaitLevel(p *Probe, level bool, timeout time.Duration) (time.Duration, error) {
	deadline := b.Now() + timeout
	for {
		if p.Level() == level {
			return b.Now(), nil
		}
		if b.Now() >= deadline {
			return 0, errors.Wrapf(ErrTimeout, "pin %s did not go %s within %v", p.name, levelString(level), timeout)
		}
		b.Cycles(1)
	}
}

// WaitRise waits for a low to high transition on p at clock cycle
// granularity: a low sample followed by a later high sample. It returns the
// simulated time of the high sample. The timeout covers both phases.
//
func (b *Bench) WaitRise(p *Probe, timeout time.Duration) (time.Duration, error) {
	deadline := b.Now() + timeout
	if _, err := b.WaitLevel(p, false, timeout); err != nil {
		return 0, err
	}
	rem := deadline - b.Now()
	if rem < 0 {
		rem = 0
	}
	return b.WaitLevel(p, true, rem)
}

// WaitFall waits for a high to low transition on p at clock cycle
// granularity and returns the simulated time of the low sample. The timeout
// covers both phases.
//
func (b *Bench) WaitFall(p *Probe, timeout time.Duration) (time.Duration, error) {
	deadline := b.Now() + timeout
	if _, err := b.WaitLevel(p, true, timeout); err != nil {
		return 0, err
	}
	rem := deadline - b.Now()
	if rem < 0 {
		rem = 0
	}
	return b.WaitLevel(p, false, rem)
}

func levelString(level bool) string {
	if level {
		return "high"
	}
	return "low"
}
