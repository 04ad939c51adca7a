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

// Package remote executes commands on the target host over SSH.
//
// Every command returns a Result carrying the exit status and captured
// output. The package never decides whether a non-zero exit is fatal,
// each call site either propagates the failure or swallows it.
package remote

import (
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	"net"
	"strings"
	"time"

	"github.com/oraspace/lander/lib/constants"
	"github.com/oraspace/lander/lib/defaults"
	"github.com/oraspace/lander/lib/utils"

	"github.com/cenkalti/backoff"
	"github.com/gravitational/trace"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"
)

// Result is the outcome of a single remote command
type Result struct {
	// Command is the executed command line
	Command string
	// ExitStatus is the remote exit status, 0 on success
	ExitStatus int
	// Output is the combined stdout/stderr of the command
	Output string
}

// Success returns true if the command exited with status 0
func (r *Result) Success() bool {
	return r.ExitStatus == 0
}

// Error converts a failed result to an error, nil for a successful one
func (r *Result) Error() error {
	if r.Success() {
		return nil
	}
	return trace.BadParameter("%q returned %v: %v",
		r.Command, r.ExitStatus, strings.TrimSpace(r.Output))
}

// Config is the remote runner configuration
type Config struct {
	// User is the remote account to execute as
	User string
	// Addr is the host address, the SSH port is assumed when unspecified
	Addr string
	// KeyFile is the path to the SSH private key
	KeyFile string
	// FieldLogger is the logger commands are logged with
	logrus.FieldLogger
}

// CheckAndSetDefaults validates the configuration and fills in the defaults
func (c *Config) CheckAndSetDefaults() error {
	if c.User == "" || c.Addr == "" || c.KeyFile == "" {
		return trace.BadParameter("user, address and key file are all required")
	}
	if !strings.Contains(c.Addr, ":") {
		c.Addr = fmt.Sprintf("%v:%v", c.Addr, defaults.SSHPort)
	}
	if c.FieldLogger == nil {
		c.FieldLogger = logrus.WithFields(logrus.Fields{
			trace.Component:        constants.ComponentRemote,
			constants.FieldHost:    c.Addr,
			constants.FieldAccount: c.User,
		})
	}
	return nil
}

// Runner executes commands on a single remote host as a fixed account
type Runner struct {
	// Config is the runner configuration
	Config
	auth ssh.AuthMethod
}

// NewRunner returns a runner for the host and account specified in config
func NewRunner(config Config) (*Runner, error) {
	if err := config.CheckAndSetDefaults(); err != nil {
		return nil, trace.Wrap(err)
	}
	keyBytes, err := ioutil.ReadFile(config.KeyFile)
	if err != nil {
		return nil, trace.ConvertSystemError(err)
	}
	signer, err := ssh.ParsePrivateKey(keyBytes)
	if err != nil {
		return nil, trace.Wrap(err, "failed to parse private key %v", config.KeyFile)
	}
	return &Runner{
		Config: config,
		auth:   ssh.PublicKeys(signer),
	}, nil
}

// Run executes the command on the remote host and returns its result.
// An error is returned only for transport failures, a non-zero exit
// status is reported through the result.
func (r *Runner) Run(ctx context.Context, command string) (*Result, error) {
	return r.run(ctx, command, nil)
}

// RunWithInput executes the command feeding input to its stdin
func (r *Runner) RunWithInput(ctx context.Context, command string, input []byte) (*Result, error) {
	return r.run(ctx, command, input)
}

// Upload writes data to the specified path on the remote host
func (r *Runner) Upload(ctx context.Context, path string, data []byte) error {
	result, err := r.RunWithInput(ctx, fmt.Sprintf("cat > %v", path), data)
	if err != nil {
		return trace.Wrap(err)
	}
	return trace.Wrap(result.Error())
}

// Download fetches the contents of the specified remote path
func (r *Runner) Download(ctx context.Context, path string) ([]byte, error) {
	result, err := r.Run(ctx, fmt.Sprintf("cat %v", path))
	if err != nil {
		return nil, trace.Wrap(err)
	}
	if !result.Success() {
		return nil, trace.NotFound("failed to fetch %v: %v", path, result.Output)
	}
	return []byte(result.Output), nil
}

// Exists reports whether the specified remote path exists
func (r *Runner) Exists(ctx context.Context, path string) (bool, error) {
	result, err := r.Run(ctx, fmt.Sprintf("test -e %v", path))
	if err != nil {
		return false, trace.Wrap(err)
	}
	return result.Success(), nil
}

// Hostname returns the hostname of the remote host
func (r *Runner) Hostname(ctx context.Context) (string, error) {
	result, err := r.Run(ctx, "hostname")
	if err != nil {
		return "", trace.Wrap(err)
	}
	if !result.Success() {
		return "", trace.Wrap(result.Error())
	}
	return strings.TrimSpace(result.Output), nil
}

func (r *Runner) run(ctx context.Context, command string, input []byte) (*Result, error) {
	client, err := r.dialWithRetry(ctx)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return nil, trace.Wrap(err)
	}
	defer session.Close()

	var out bytes.Buffer
	session.Stdout = &out
	session.Stderr = &out
	if input != nil {
		session.Stdin = bytes.NewReader(input)
	}

	r.WithField(constants.FieldCommand, command).Debug("Run remote command.")
	errCh := make(chan error, 1)
	go func() {
		errCh <- session.Run(command)
	}()
	select {
	case err = <-errCh:
	case <-ctx.Done():
		session.Close()
		return nil, trace.Wrap(ctx.Err())
	}

	result := &Result{
		Command: command,
		Output:  out.String(),
	}
	if err != nil {
		exitErr, ok := err.(*ssh.ExitError)
		if !ok {
			return nil, trace.ConnectionProblem(err, "failed to run %q on %v",
				command, r.Addr)
		}
		result.ExitStatus = exitErr.ExitStatus()
	}
	return result, nil
}

// dialWithRetry redials through transient network failures with exponential
// backoff. Only the connection is retried, never the command itself: most
// workflow commands are not idempotent.
func (r *Runner) dialWithRetry(ctx context.Context) (client *ssh.Client, err error) {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = defaults.DialRetryTimeout
	err = utils.RetryWithInterval(ctx, b, func() error {
		client, err = r.dial(defaults.ProbeTimeout)
		if err == nil {
			return nil
		}
		if trace.IsConnectionProblem(err) {
			return trace.Wrap(err)
		}
		return &backoff.PermanentError{Err: err}
	})
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return client, nil
}

func (r *Runner) dial(timeout time.Duration) (*ssh.Client, error) {
	config := &ssh.ClientConfig{
		User:            r.User,
		Auth:            []ssh.AuthMethod{r.auth},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         timeout,
	}
	client, err := ssh.Dial("tcp", r.Addr, config)
	if err != nil {
		if _, ok := err.(net.Error); ok {
			return nil, trace.ConnectionProblem(err, "failed to dial %v", r.Addr)
		}
		return nil, trace.Wrap(err)
	}
	return client, nil
}

// FlushHostKey removes any stale known_hosts entry for the address on the
// local machine. The entry is left over when an elastic IP is reused.
func FlushHostKey(ctx context.Context, addr string, logger logrus.FieldLogger) error {
	host := addr
	if i := strings.Index(host, ":"); i != -1 {
		host = host[:i]
	}
	_, err := utils.RunCommand(ctx, logger, "ssh-keygen", "-R", host)
	return trace.Wrap(err)
}
