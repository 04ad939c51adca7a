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
	"fmt"
	"time"

	"github.com/oraspace/lander/lib/defaults"

	"github.com/gravitational/trace"
	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
)

// UnreachableError is returned when the host fails to answer any
// connectivity probe within the attempt budget
type UnreachableError struct {
	// Addr is the probed host address
	Addr string
	// Attempts is the exhausted probe budget
	Attempts int
}

// Error returns the error string representation
func (e *UnreachableError) Error() string {
	return fmt.Sprintf("host %v is not reachable over SSH after %v attempts",
		e.Addr, e.Attempts)
}

// IsUnreachableError returns true if the specified error is of type UnreachableError
func IsUnreachableError(err error) bool {
	_, ok := trace.Unwrap(err).(*UnreachableError)
	return ok
}

// ProbeFunc issues a single connectivity probe with the given connection
// timeout, returning nil once the host answers
type ProbeFunc func(ctx context.Context, timeout time.Duration) error

// WaitReady waits for the freshly launched host at addr to start serving SSH.
//
// It first sleeps through the fixed boot warm-up, the image init process is
// known to be slow, then issues bounded fixed-timeout probes. The first
// successful probe wins, exhausting the budget fails with UnreachableError.
// A probe that fails before its timeout elapses, a connection refused for
// example, sleeps off the remainder so every attempt consumes a full probe
// window and the budget spans the intended wait.
func WaitReady(ctx context.Context, clock clockwork.Clock, addr string, probe ProbeFunc) error {
	log.Infof("Waiting %v for %v to boot.", defaults.InstanceBootWait, addr)
	clock.Sleep(defaults.InstanceBootWait)

	for attempt := 1; attempt <= defaults.ProbeAttempts; attempt += 1 {
		if err := ctx.Err(); err != nil {
			return trace.Wrap(err)
		}
		started := clock.Now()
		err := probe(ctx, defaults.ProbeTimeout)
		if err == nil {
			log.Infof("Host %v answered probe %v.", addr, attempt)
			return nil
		}
		log.Debugf("Probe %v/%v failed: %v.",
			attempt, defaults.ProbeAttempts, trace.UserMessage(err))
		if elapsed := clock.Now().Sub(started); elapsed < defaults.ProbeTimeout {
			clock.Sleep(defaults.ProbeTimeout - elapsed)
		}
	}
	return trace.Wrap(&UnreachableError{
		Addr:     addr,
		Attempts: defaults.ProbeAttempts,
	})
}

// Probe issues a single SSH connectivity probe against the runner's host
// with the specified connection timeout. Implements ProbeFunc.
func (r *Runner) Probe(ctx context.Context, timeout time.Duration) error {
	client, err := r.dial(timeout)
	if err != nil {
		return trace.Wrap(err)
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return trace.Wrap(err)
	}
	defer session.Close()
	return trace.Wrap(session.Run(defaults.ProbeCommand))
}
