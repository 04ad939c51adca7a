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

// Package phases implements the individual steps of the post-launch
// workflow: OS preparation, package installation and the unattended
// database installation
package phases

import (
	"context"

	"github.com/oraspace/lander/lib/constants"
	"github.com/oraspace/lander/lib/defaults"
	"github.com/oraspace/lander/lib/remote"
	"github.com/oraspace/lander/lib/utils"

	"github.com/gravitational/trace"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

// Remote executes commands on the target host on behalf of a workflow
// step. The account every command runs as is an explicit parameter,
// never inferred from the step.
type Remote interface {
	// Run executes the command as the specified account
	Run(ctx context.Context, account, command string) (*remote.Result, error)
	// RunWithInput executes the command feeding input to its stdin
	RunWithInput(ctx context.Context, account, command string, input []byte) (*remote.Result, error)
	// Upload writes data to the specified path on the host
	Upload(ctx context.Context, account, path string, data []byte) error
	// Download fetches the contents of the specified path from the host
	Download(ctx context.Context, account, path string) ([]byte, error)
	// Exists reports whether the specified path exists on the host
	Exists(ctx context.Context, account, path string) (bool, error)
	// Hostname returns the hostname of the host
	Hostname(ctx context.Context) (string, error)
}

// Config carries the dependencies and parameters shared by all steps
type Config struct {
	// Remote executes commands on the target host
	Remote Remote
	// Clock paces the polling loops, a fake clock in tests
	Clock clockwork.Clock
	// Progress receives user-facing step feedback
	Progress utils.Progress
	// FieldLogger is the logger the steps log with
	logrus.FieldLogger
	// OracleBase is the Oracle base directory
	OracleBase string
	// OracleHome is the Oracle home directory
	OracleHome string
	// OracleSID is the database instance identifier to create
	OracleSID string
	// InventoryDir is the Oracle inventory directory
	InventoryDir string
	// ArchiveURL is the location of the installer archive
	ArchiveURL string
	// SysPassword is the SYS/SYSTEM password for the new database,
	// generated when empty
	SysPassword string
	// Packages is the OS package list for the install step
	Packages []string
	// Values are additional response file template overrides
	Values map[string]string
}

// CheckAndSetDefaults validates the configuration and fills in the defaults
func (c *Config) CheckAndSetDefaults() error {
	if c.Remote == nil {
		return trace.BadParameter("remote executor is required")
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
	if c.OracleBase == "" {
		c.OracleBase = defaults.OracleBase
	}
	if c.OracleHome == "" {
		c.OracleHome = defaults.OracleHome
	}
	if c.OracleSID == "" {
		c.OracleSID = defaults.OracleSID
	}
	if c.InventoryDir == "" {
		c.InventoryDir = defaults.InventoryDir
	}
	if c.ArchiveURL == "" {
		c.ArchiveURL = defaults.ArchiveURL
	}
	return nil
}

// strict executes the command as the specified account and fails unless
// it exits successfully
func (c *Config) strict(ctx context.Context, account, command string) (*remote.Result, error) {
	result, err := c.Remote.Run(ctx, account, command)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	if !result.Success() {
		return result, trace.Wrap(result.Error())
	}
	return result, nil
}

// bestEffort executes the command as the specified account and swallows
// any failure with a warning, the remote state may already satisfy the
// goal of the command
func (c *Config) bestEffort(ctx context.Context, account, command string) {
	result, err := c.Remote.Run(ctx, account, command)
	if err == nil {
		err = result.Error()
	}
	if err != nil {
		c.WithError(err).Warnf("Command %q failed.", command)
		c.Progress.PrintWarn(err, "%v failed", command)
	}
}
