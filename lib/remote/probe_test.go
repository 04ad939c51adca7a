/*
Copyright 2019 Oraspace, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package remote

import (
	"context"
	"testing"
	"time"

	"github.com/oraspace/lander/lib/defaults"

	"github.com/gravitational/trace"
	"github.com/jonboulle/clockwork"
	"gopkg.in/check.v1"
)

func TestRemote(t *testing.T) { check.TestingT(t) }

type ProbeSuite struct{}

var _ = check.Suite(&ProbeSuite{})

func (s *ProbeSuite) TestSucceedsOnFirstSuccessfulProbe(c *check.C) {
	clock := clockwork.NewFakeClock()
	start := clock.Now()
	attempts := 0
	// the first four probes run into their connection timeout
	probe := func(ctx context.Context, timeout time.Duration) error {
		attempts += 1
		if attempts < 5 {
			clock.Sleep(timeout)
			return trace.ConnectionProblem(nil, "connection timed out")
		}
		return nil
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- WaitReady(context.TODO(), clock, "host.example.com", probe)
	}()
	// boot warm-up
	clock.BlockUntil(1)
	clock.Advance(defaults.InstanceBootWait)
	// four probe timeouts
	for i := 0; i < 4; i++ {
		clock.BlockUntil(1)
		clock.Advance(defaults.ProbeTimeout)
	}

	select {
	case err := <-errCh:
		c.Assert(err, check.IsNil)
	case <-time.After(10 * time.Second):
		c.Fatal("timeout waiting for WaitReady")
	}
	// probes 6..20 are never issued
	c.Assert(attempts, check.Equals, 5)
	elapsed := clock.Now().Sub(start)
	c.Assert(elapsed, check.Equals, defaults.InstanceBootWait+4*defaults.ProbeTimeout)
}

func (s *ProbeSuite) TestFailsAfterExhaustingBudget(c *check.C) {
	clock := clockwork.NewFakeClock()
	start := clock.Now()
	attempts := 0
	// instant refusals, the loop has to supply the pacing itself
	probe := func(ctx context.Context, timeout time.Duration) error {
		attempts += 1
		return trace.ConnectionProblem(nil, "connection refused")
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- WaitReady(context.TODO(), clock, "host.example.com", probe)
	}()
	clock.BlockUntil(1)
	clock.Advance(defaults.InstanceBootWait)
	// each refused probe sleeps off the remainder of its window
	for i := 0; i < defaults.ProbeAttempts; i++ {
		clock.BlockUntil(1)
		clock.Advance(defaults.ProbeTimeout)
	}

	select {
	case err := <-errCh:
		c.Assert(err, check.NotNil)
		c.Assert(IsUnreachableError(err), check.Equals, true,
			check.Commentf("expected UnreachableError, got %v", err))
		unreachable := trace.Unwrap(err).(*UnreachableError)
		c.Assert(unreachable.Attempts, check.Equals, defaults.ProbeAttempts)
	case <-time.After(10 * time.Second):
		c.Fatal("timeout waiting for WaitReady")
	}
	c.Assert(attempts, check.Equals, defaults.ProbeAttempts)
	// instant failures must not burn through the budget ahead of schedule
	elapsed := clock.Now().Sub(start)
	c.Assert(elapsed, check.Equals,
		defaults.InstanceBootWait+time.Duration(defaults.ProbeAttempts)*defaults.ProbeTimeout)
}

func (s *ProbeSuite) TestAbortsOnCanceledContext(c *check.C) {
	clock := clockwork.NewFakeClock()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	probe := func(ctx context.Context, timeout time.Duration) error {
		c.Fatal("probe issued after cancellation")
		return nil
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- WaitReady(ctx, clock, "host.example.com", probe)
	}()
	clock.BlockUntil(1)
	clock.Advance(defaults.InstanceBootWait)

	select {
	case err := <-errCh:
		c.Assert(err, check.NotNil)
	case <-time.After(10 * time.Second):
		c.Fatal("timeout waiting for WaitReady")
	}
}
