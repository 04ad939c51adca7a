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

// Package deploy orchestrates the full deployment: provisioning the
// instance, waiting for it to serve SSH and driving the post-launch
// workflow against it
package deploy

import (
	"context"
	"time"

	"github.com/oraspace/lander/lib/cloudprovider/aws"
	"github.com/oraspace/lander/lib/constants"
	"github.com/oraspace/lander/lib/defaults"
	"github.com/oraspace/lander/lib/deploy/phases"
	"github.com/oraspace/lander/lib/remote"
	"github.com/oraspace/lander/lib/state"
	"github.com/oraspace/lander/lib/utils"

	"github.com/gravitational/trace"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

// Provisioner launches the database host instance
type Provisioner interface {
	// Provision launches one instance and waits for it to run
	Provision(ctx context.Context) (*aws.Instance, error)
}

// Executor executes commands on the target host and probes its
// connectivity
type Executor interface {
	phases.Remote
	// Probe issues a single SSH connectivity probe
	Probe(ctx context.Context, timeout time.Duration) error
}

// Flags control the optional parts of the workflow
type Flags struct {
	// SkipUpgrade skips the OS upgrade and reboot
	SkipUpgrade bool
	// SkipResize skips growing the root filesystem
	SkipResize bool
	// Packages overrides the package list read from local configuration
	Packages []string
	// Values are response file template overrides
	Values map[string]string
}

// Config is the deployment session configuration
type Config struct {
	// StateDir is the local state directory holding the host record
	StateDir string
	// KeyFile is the path to the SSH private key
	KeyFile string
	// Packages is the package list read from local configuration,
	// overridden by Flags.Packages
	Packages []string
	// Phases carries the parameters shared by the workflow steps
	Phases phases.Config
	// Provisioner launches the instance
	Provisioner Provisioner
	// NewExecutor connects an executor to the recorded host,
	// overridden in tests
	NewExecutor func(record state.HostRecord) (Executor, error)
	// FlushHostKey drops the local host key recorded for an address,
	// overridden in tests
	FlushHostKey func(ctx context.Context, addr string) error
	// Clock paces the waiting, a fake clock in tests
	Clock clockwork.Clock
	// Progress receives user-facing feedback
	Progress utils.Progress
	// FieldLogger is the logger the session logs with
	logrus.FieldLogger
}

// CheckAndSetDefaults validates the configuration and fills in the defaults
func (c *Config) CheckAndSetDefaults() error {
	if c.StateDir == "" {
		return trace.BadParameter("state directory is required")
	}
	if c.Provisioner == nil {
		return trace.BadParameter("provisioner is required")
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	if c.Progress == nil {
		c.Progress = utils.DiscardProgress
	}
	if c.FieldLogger == nil {
		c.FieldLogger = logrus.WithField(trace.Component, constants.ComponentDeploy)
	}
	if c.FlushHostKey == nil {
		c.FlushHostKey = func(ctx context.Context, addr string) error {
			return remote.FlushHostKey(ctx, addr, c.FieldLogger)
		}
	}
	if c.NewExecutor == nil {
		if c.KeyFile == "" {
			return trace.BadParameter("key file is required")
		}
		c.NewExecutor = func(record state.HostRecord) (Executor, error) {
			return NewHostExecutor(record, c.KeyFile)
		}
	}
	return nil
}

// Session is one deployment run against a single host.
//
// The target host is an explicit value carried by the session, never
// ambient process state.
type Session struct {
	// Config is the session configuration
	Config
	flags Flags
	steps []Step
}

// NewSession returns a deployment session with the provided flags
func NewSession(config Config, flags Flags) (*Session, error) {
	if err := config.CheckAndSetDefaults(); err != nil {
		return nil, trace.Wrap(err)
	}
	session := &Session{
		Config: config,
		flags:  flags,
		steps:  Plan(),
	}
	return session, nil
}

// Deploy runs the complete workflow: provision, wait for SSH, then the
// post-launch steps in strict order. Each stage gates the next.
func (s *Session) Deploy(ctx context.Context) error {
	record, err := s.Provision(ctx)
	if err != nil {
		return trace.Wrap(err)
	}
	executor, err := s.WaitReady(ctx, *record)
	if err != nil {
		return trace.Wrap(err)
	}
	return trace.Wrap(s.RunSteps(ctx, executor))
}

// Provision launches the instance and records it as the active host
func (s *Session) Provision(ctx context.Context) (*state.HostRecord, error) {
	s.Progress.NextStep("provisioning instance")
	instance, err := s.Provisioner.Provision(ctx)
	if err != nil {
		return nil, trace.Wrap(err)
	}

	// a reused elastic IP leaves a stale host key behind
	if err := s.FlushHostKey(ctx, instance.PublicAddr); err != nil {
		s.WithError(err).Warn("Failed to flush local host key.")
	}

	record := state.HostRecord{
		User:       defaults.AdminUser,
		Addr:       instance.PublicAddr,
		InstanceID: instance.ID,
	}
	if err := state.SetHostRecord(s.StateDir, record); err != nil {
		return nil, trace.Wrap(err)
	}
	s.Progress.PrintSubStep("instance %v running at %v", instance.ID, instance.PublicAddr)
	return &record, nil
}

// WaitReady waits for the recorded host to serve SSH and returns an
// executor connected to it
func (s *Session) WaitReady(ctx context.Context, record state.HostRecord) (Executor, error) {
	executor, err := s.NewExecutor(record)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	s.Progress.NextStep("waiting for %v to serve SSH", record.Addr)
	if err := remote.WaitReady(ctx, s.Clock, record.Addr, executor.Probe); err != nil {
		return nil, trace.Wrap(err)
	}
	return executor, nil
}

// RunSteps executes the post-launch steps in order against the executor.
// A failed strict step aborts the workflow, best-effort steps log the
// failure and continue.
func (s *Session) RunSteps(ctx context.Context, executor Executor) error {
	config, err := s.phasesConfig(executor)
	if err != nil {
		return trace.Wrap(err)
	}
	for _, step := range s.steps {
		if step.skip != nil && step.skip(s.flags) {
			s.Progress.NextStep("%v (skipped)", step.Description)
			continue
		}
		s.Progress.NextStep("%v", step.Description)
		err := step.fn(ctx, config)
		if err == nil {
			continue
		}
		if !step.BestEffort {
			return trace.Wrap(err, "step %q failed", step.Name)
		}
		s.WithError(err).Warnf("Best-effort step %q failed.", step.Name)
		s.Progress.PrintWarn(err, "step %v failed", step.Name)
	}
	s.Progress.Stop()
	return nil
}

// RunStep executes the single named step against the recorded host
func (s *Session) RunStep(ctx context.Context, name string) error {
	record, err := state.GetHostRecord(s.StateDir)
	if err != nil {
		return trace.Wrap(err)
	}
	executor, err := s.NewExecutor(*record)
	if err != nil {
		return trace.Wrap(err)
	}
	config, err := s.phasesConfig(executor)
	if err != nil {
		return trace.Wrap(err)
	}
	for _, step := range s.steps {
		if step.Name != name {
			continue
		}
		s.Progress.NextStep("%v", step.Description)
		return trace.Wrap(step.fn(ctx, config))
	}
	return trace.NotFound("no step named %q, see `lander plan`", name)
}

func (s *Session) phasesConfig(executor Executor) (*phases.Config, error) {
	config := s.Phases
	config.Remote = executor
	config.Clock = s.Clock
	config.Progress = s.Progress
	config.FieldLogger = s.FieldLogger
	config.Values = s.flags.Values
	config.Packages = s.packages()
	if err := config.CheckAndSetDefaults(); err != nil {
		return nil, trace.Wrap(err)
	}
	return &config, nil
}

// packages returns the effective package list for the install step
func (s *Session) packages() []string {
	if len(s.flags.Packages) != 0 {
		return s.flags.Packages
	}
	return s.Packages
}

// NewHostExecutor returns an executor running commands on the recorded
// host over SSH, as the administrative or the service account
func NewHostExecutor(record state.HostRecord, keyFile string) (Executor, error) {
	admin, err := remote.NewRunner(remote.Config{
		User:    record.User,
		Addr:    record.Addr,
		KeyFile: keyFile,
	})
	if err != nil {
		return nil, trace.Wrap(err)
	}
	service, err := remote.NewRunner(remote.Config{
		User:    defaults.ServiceUser,
		Addr:    record.Addr,
		KeyFile: keyFile,
	})
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return &hostExecutor{
		runners: map[string]*remote.Runner{
			record.User:          admin,
			defaults.ServiceUser: service,
		},
		admin: admin,
	}, nil
}

// hostExecutor dispatches commands to the per-account SSH runners
type hostExecutor struct {
	runners map[string]*remote.Runner
	admin   *remote.Runner
}

func (e *hostExecutor) runner(account string) (*remote.Runner, error) {
	runner, ok := e.runners[account]
	if !ok {
		return nil, trace.NotFound("no runner for account %q", account)
	}
	return runner, nil
}

func (e *hostExecutor) Run(ctx context.Context, account, command string) (*remote.Result, error) {
	runner, err := e.runner(account)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return runner.Run(ctx, command)
}

func (e *hostExecutor) RunWithInput(ctx context.Context, account, command string, input []byte) (*remote.Result, error) {
	runner, err := e.runner(account)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return runner.RunWithInput(ctx, command, input)
}

func (e *hostExecutor) Upload(ctx context.Context, account, path string, data []byte) error {
	runner, err := e.runner(account)
	if err != nil {
		return trace.Wrap(err)
	}
	return runner.Upload(ctx, path, data)
}

func (e *hostExecutor) Download(ctx context.Context, account, path string) ([]byte, error) {
	runner, err := e.runner(account)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return runner.Download(ctx, path)
}

func (e *hostExecutor) Exists(ctx context.Context, account, path string) (bool, error) {
	runner, err := e.runner(account)
	if err != nil {
		return false, trace.Wrap(err)
	}
	return runner.Exists(ctx, path)
}

func (e *hostExecutor) Hostname(ctx context.Context) (string, error) {
	return e.admin.Hostname(ctx)
}

func (e *hostExecutor) Probe(ctx context.Context, timeout time.Duration) error {
	return e.admin.Probe(ctx, timeout)
}
