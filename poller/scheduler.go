// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package poller

import "time"

// scheduler owns the refetch timer for one feed subscription. Each cycle it
// re-asks next() for the wait, so gate and interval changes take effect at
// the following scheduling decision. cancel tears the timer down
// unconditionally and returns once the loop has exited.
type scheduler struct {
	stopC chan struct{}
	done  chan struct{}
}

func newScheduler(next func() time.Duration, fire func()) *scheduler {
	s := &scheduler{
		stopC: make(chan struct{}),
		done:  make(chan struct{}),
	}

	go func() {
		defer close(s.done)
		for {
			t := time.NewTimer(next())
			select {
			case <-s.stopC:
				t.Stop()
				return
			case <-t.C:
				fire()
			}
		}
	}()

	return s
}

func (s *scheduler) cancel() {
	close(s.stopC)
	<-s.done
}
