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

package deploy

import (
	"context"
	"testing"
	"time"

	"github.com/oraspace/lander/lib/cloudprovider/aws"
	"github.com/oraspace/lander/lib/defaults"
	"github.com/oraspace/lander/lib/deploy/phases"
	"github.com/oraspace/lander/lib/remote"
	"github.com/oraspace/lander/lib/state"

	"github.com/gravitational/trace"
	"github.com/jonboulle/clockwork"
	"gopkg.in/check.v1"
)

func TestDeploy(t *testing.T) { check.TestingT(t) }

type DeploySuite struct{}

var _ = check.Suite(&DeploySuite{})

func (s *DeploySuite) session(c *check.C, clock clockwork.Clock, provisioner Provisioner, executor *fakeExecutor, flags Flags) *Session {
	session, err := NewSession(Config{
		StateDir:    c.MkDir(),
		Provisioner: provisioner,
		NewExecutor: func(state.HostRecord) (Executor, error) {
			return executor, nil
		},
		FlushHostKey: func(context.Context, string) error { return nil },
		Clock:        clock,
	}, flags)
	c.Assert(err, check.IsNil)
	return session
}

// stub replaces the step table with steps that record their execution
func (s *DeploySuite) stub(session *Session, steps ...Step) *[]string {
	executed := &[]string{}
	stubbed := make([]Step, 0, len(steps))
	for _, step := range steps {
		step := step
		fn := step.fn
		step.fn = func(ctx context.Context, config *phases.Config) error {
			*executed = append(*executed, step.Name)
			if fn != nil {
				return fn(ctx, config)
			}
			return nil
		}
		stubbed = append(stubbed, step)
	}
	session.steps = stubbed
	return executed
}

func (s *DeploySuite) TestRunsStagesInOrder(c *check.C) {
	clock := clockwork.NewFakeClock()
	provisioner := &fakeProvisioner{instance: &aws.Instance{
		ID:         "i-0a1b2c3d",
		State:      "running",
		PublicAddr: "ec2-1-2-3-4.compute-1.amazonaws.com",
	}}
	executor := newFakeExecutor()
	session := s.session(c, clock, provisioner, executor, Flags{})
	executed := s.stub(session,
		Step{Name: "first"},
		Step{Name: "second"},
		Step{Name: "third"},
	)

	errC := make(chan error, 1)
	go func() {
		errC <- session.Deploy(context.TODO())
	}()
	clock.BlockUntil(1)
	clock.Advance(defaults.InstanceBootWait)
	c.Assert(<-errC, check.IsNil)

	c.Assert(*executed, check.DeepEquals, []string{"first", "second", "third"})
	c.Assert(executor.probes, check.Equals, 1)

	// the launched instance became the recorded host
	record, err := state.GetHostRecord(session.StateDir)
	c.Assert(err, check.IsNil)
	c.Assert(*record, check.DeepEquals, state.HostRecord{
		User:       defaults.AdminUser,
		Addr:       "ec2-1-2-3-4.compute-1.amazonaws.com",
		InstanceID: "i-0a1b2c3d",
	})
}

func (s *DeploySuite) TestProvisionFailureStopsWorkflow(c *check.C) {
	provisioner := &fakeProvisioner{err: trace.Wrap(&aws.ProvisionError{
		InstanceID: "i-0a1b2c3d",
		State:      "terminated",
	})}
	executor := newFakeExecutor()
	session := s.session(c, clockwork.NewFakeClock(), provisioner, executor, Flags{})
	executed := s.stub(session, Step{Name: "first"})

	err := session.Deploy(context.TODO())
	c.Assert(err, check.NotNil)
	c.Assert(aws.IsProvisionError(err), check.Equals, true,
		check.Commentf("expected ProvisionError, got %v", err))
	c.Assert(*executed, check.HasLen, 0)
	c.Assert(executor.probes, check.Equals, 0)

	// no host record for a failed launch
	_, err = state.GetHostRecord(session.StateDir)
	c.Assert(trace.IsNotFound(err), check.Equals, true)
}

func (s *DeploySuite) TestUnreachableHostStopsWorkflow(c *check.C) {
	clock := clockwork.NewFakeClock()
	provisioner := &fakeProvisioner{instance: &aws.Instance{
		ID:         "i-0a1b2c3d",
		State:      "running",
		PublicAddr: "ec2-1-2-3-4.compute-1.amazonaws.com",
	}}
	executor := newFakeExecutor()
	executor.probeErr = trace.ConnectionProblem(nil, "connection refused")
	session := s.session(c, clock, provisioner, executor, Flags{})
	executed := s.stub(session, Step{Name: "first"})

	errC := make(chan error, 1)
	go func() {
		errC <- session.Deploy(context.TODO())
	}()
	clock.BlockUntil(1)
	clock.Advance(defaults.InstanceBootWait)
	// refused probes sleep off the rest of their window
	for i := 0; i < defaults.ProbeAttempts; i++ {
		clock.BlockUntil(1)
		clock.Advance(defaults.ProbeTimeout)
	}
	err := <-errC

	c.Assert(err, check.NotNil)
	c.Assert(remote.IsUnreachableError(err), check.Equals, true,
		check.Commentf("expected UnreachableError, got %v", err))
	c.Assert(executor.probes, check.Equals, defaults.ProbeAttempts)
	c.Assert(*executed, check.HasLen, 0)
}

func (s *DeploySuite) TestStrictStepFailureAborts(c *check.C) {
	executor := newFakeExecutor()
	session := s.session(c, clockwork.NewFakeClock(), &fakeProvisioner{}, executor, Flags{})
	executed := s.stub(session,
		Step{Name: "first"},
		Step{Name: "second", fn: func(context.Context, *phases.Config) error {
			return trace.BadParameter("boom")
		}},
		Step{Name: "third"},
	)

	err := session.RunSteps(context.TODO(), executor)
	c.Assert(err, check.NotNil)
	c.Assert(*executed, check.DeepEquals, []string{"first", "second"})
}

func (s *DeploySuite) TestBestEffortStepFailureContinues(c *check.C) {
	executor := newFakeExecutor()
	session := s.session(c, clockwork.NewFakeClock(), &fakeProvisioner{}, executor, Flags{})
	executed := s.stub(session,
		Step{Name: "first", BestEffort: true, fn: func(context.Context, *phases.Config) error {
			return trace.BadParameter("boom")
		}},
		Step{Name: "second"},
	)

	c.Assert(session.RunSteps(context.TODO(), executor), check.IsNil)
	c.Assert(*executed, check.DeepEquals, []string{"first", "second"})
}

func (s *DeploySuite) TestHonorsSkipFlags(c *check.C) {
	executor := newFakeExecutor()
	session := s.session(c, clockwork.NewFakeClock(), &fakeProvisioner{}, executor,
		Flags{SkipUpgrade: true, SkipResize: true})
	executed := s.stub(session,
		Step{Name: "resize-root", skip: func(flags Flags) bool { return flags.SkipResize }},
		Step{Name: "upgrade", skip: func(flags Flags) bool { return flags.SkipUpgrade }},
		Step{Name: "repo"},
	)

	c.Assert(session.RunSteps(context.TODO(), executor), check.IsNil)
	c.Assert(*executed, check.DeepEquals, []string{"repo"})
}

func (s *DeploySuite) TestRunsSingleStepByName(c *check.C) {
	executor := newFakeExecutor()
	session := s.session(c, clockwork.NewFakeClock(), &fakeProvisioner{}, executor, Flags{})
	executed := s.stub(session,
		Step{Name: "first"},
		Step{Name: "second"},
	)
	c.Assert(state.SetHostRecord(session.StateDir, state.HostRecord{
		User: "root", Addr: "host.example.com", InstanceID: "i-0",
	}), check.IsNil)

	c.Assert(session.RunStep(context.TODO(), "second"), check.IsNil)
	c.Assert(*executed, check.DeepEquals, []string{"second"})

	err := session.RunStep(context.TODO(), "no-such-step")
	c.Assert(trace.IsNotFound(err), check.Equals, true,
		check.Commentf("expected NotFound, got %v", err))
}

func (s *DeploySuite) TestPackageOverrides(c *check.C) {
	executor := newFakeExecutor()

	session := s.session(c, clockwork.NewFakeClock(), &fakeProvisioner{}, executor, Flags{})
	session.Config.Packages = []string{"sysstat"}
	c.Assert(session.packages(), check.DeepEquals, []string{"sysstat"})

	session = s.session(c, clockwork.NewFakeClock(), &fakeProvisioner{}, executor,
		Flags{Packages: []string{"strace", "lsof"}})
	session.Config.Packages = []string{"sysstat"}
	c.Assert(session.packages(), check.DeepEquals, []string{"strace", "lsof"})
}

func (s *DeploySuite) TestPlanCoversTheWorkflow(c *check.C) {
	var names []string
	for _, step := range Plan() {
		names = append(names, step.Name)
	}
	c.Assert(names, check.DeepEquals, []string{
		"resize-root", "firewall", "upgrade", "repo", "packages",
		"user-setup", "installer", "post-scripts", "listener", "database",
	})
}

func (s *DeploySuite) TestPlanMarksForgivingStepsBestEffort(c *check.C) {
	var bestEffort []string
	for _, step := range Plan() {
		if step.BestEffort {
			bestEffort = append(bestEffort, step.Name)
		}
	}
	// these steps swallow command failures internally, the plan
	// has to advertise them as best-effort
	c.Assert(bestEffort, check.DeepEquals, []string{
		"resize-root", "firewall", "user-setup",
	})
}

type fakeProvisioner struct {
	instance *aws.Instance
	err      error
}

func (r *fakeProvisioner) Provision(ctx context.Context) (*aws.Instance, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.instance, nil
}

// fakeExecutor answers every command with success and counts probes
type fakeExecutor struct {
	probes   int
	probeErr error
	commands []string
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{}
}

func (r *fakeExecutor) Run(ctx context.Context, account, command string) (*remote.Result, error) {
	r.commands = append(r.commands, command)
	return &remote.Result{Command: command}, nil
}

func (r *fakeExecutor) RunWithInput(ctx context.Context, account, command string, input []byte) (*remote.Result, error) {
	return r.Run(ctx, account, command)
}

func (r *fakeExecutor) Upload(ctx context.Context, account, path string, data []byte) error {
	return nil
}

func (r *fakeExecutor) Download(ctx context.Context, account, path string) ([]byte, error) {
	return nil, trace.NotFound("no file %v", path)
}

func (r *fakeExecutor) Exists(ctx context.Context, account, path string) (bool, error) {
	return false, nil
}

func (r *fakeExecutor) Hostname(ctx context.Context) (string, error) {
	return "db.example.com", nil
}

func (r *fakeExecutor) Probe(ctx context.Context, timeout time.Duration) error {
	r.probes += 1
	return r.probeErr
}
