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

package phases

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/oraspace/lander/lib/defaults"
	"github.com/oraspace/lander/lib/rsp"
	"github.com/oraspace/lander/lib/utils"

	"github.com/gravitational/trace"
)

// installerOutputPath captures the detached installer output, the log
// path is discovered from it
const installerOutputPath = "/home/oracle/runInstaller.out"

// installerLogRE matches the installer log path in the installer output
var installerLogRE = regexp.MustCompile(
	`(/u01/app/oraInventory/logs/installActions[^\s]*\.log)`)

// RunInstaller drives the unattended database software installation.
//
// The response file is rendered with the hostname discovered on the host
// and uploaded, then the installer is launched detached from the session.
// Its log path is discovered from the captured output with a bounded
// poll, and the log is then tailed until the completion marker appears
// or the deadline passes.
func RunInstaller(ctx context.Context, config *Config) error {
	hostname, err := config.Remote.Hostname(ctx)
	if err != nil {
		return trace.Wrap(err)
	}

	response, err := rsp.Render(rsp.InstallTemplate, rsp.Context{
		"ORACLE_HOSTNAME":    hostname,
		"UNIX_GROUP_NAME":    defaults.ServiceGroup,
		"INVENTORY_LOCATION": config.InventoryDir,
		"ORACLE_HOME":        config.OracleHome,
		"ORACLE_BASE":        config.OracleBase,
	}.With(config.Values))
	if err != nil {
		return trace.Wrap(err)
	}
	err = config.Remote.Upload(ctx, defaults.ServiceUser,
		defaults.InstallResponsePath, response)
	if err != nil {
		return trace.Wrap(err)
	}

	// detached launch, the installation takes much longer than any
	// reasonable session timeout; progress comes from the log
	_, err = config.strict(ctx, defaults.ServiceUser, fmt.Sprintf(
		"nohup %v/database/runInstaller -silent -ignoreSysPrereqs "+
			"-responseFile %v > %v 2>&1 &",
		defaults.StagingDir, defaults.InstallResponsePath, installerOutputPath))
	if err != nil {
		return trace.Wrap(err)
	}

	logPath, err := discoverInstallerLog(ctx, config)
	if err != nil {
		return trace.Wrap(err)
	}
	config.Progress.PrintSubStep("installer log: %v", logPath)
	return trace.Wrap(tailInstallerLog(ctx, config, logPath))
}

// discoverInstallerLog polls the captured installer output for the log
// path with a bounded fixed-interval retry
func discoverInstallerLog(ctx context.Context, config *Config) (logPath string, err error) {
	err = utils.Retry(config.Clock, defaults.InstallerLogPollInterval,
		defaults.InstallerLogPollAttempts, func() error {
			out, err := config.Remote.Download(ctx, defaults.ServiceUser, installerOutputPath)
			if err != nil {
				return trace.Wrap(err)
			}
			match := installerLogRE.FindStringSubmatch(string(out))
			if len(match) != 2 {
				return trace.NotFound("no log path in installer output yet")
			}
			logPath = match[1]
			return nil
		})
	if err != nil {
		return "", trace.Wrap(&InstallerLogNotFoundError{
			Attempts: defaults.InstallerLogPollAttempts,
		})
	}
	return logPath, nil
}

// tailInstallerLog fetches the installer log at a fixed interval until
// the completion marker appears, printing the tail as progress feedback.
// The loop is bounded by an explicit deadline, an installer that hangs
// or dies without the marker must not stall the workflow forever.
func tailInstallerLog(ctx context.Context, config *Config, logPath string) error {
	deadline := config.Clock.Now().Add(defaults.InstallerTimeout)
	for {
		if err := ctx.Err(); err != nil {
			return trace.Wrap(err)
		}
		out, err := config.Remote.Download(ctx, defaults.ServiceUser, logPath)
		if err != nil {
			// the log may briefly disappear during installer phases,
			// keep polling until the deadline
			config.WithError(err).Debug("Failed to fetch installer log.")
		} else {
			config.Progress.PrintSubStep("%v", tailLines(string(out), defaults.InstallerLogTailLines))
			if strings.Contains(string(out), defaults.InstallerCompletionMarker) {
				return nil
			}
		}
		if config.Clock.Now().After(deadline) {
			return trace.LimitExceeded(
				"installer did not complete within %v, see %v on the host",
				defaults.InstallerTimeout, logPath)
		}
		config.Clock.Sleep(defaults.InstallerTailInterval)
	}
}

// PostInstallScripts runs the root configuration scripts the installer
// requires after the software installation
func PostInstallScripts(ctx context.Context, config *Config) error {
	_, err := config.strict(ctx, defaults.AdminUser,
		fmt.Sprintf("%v/orainstRoot.sh", config.InventoryDir))
	if err != nil {
		return trace.Wrap(err)
	}
	_, err = config.strict(ctx, defaults.AdminUser,
		fmt.Sprintf("%v/root.sh", config.OracleHome))
	return trace.Wrap(err)
}

// tailLines returns the last n non-empty lines of text
func tailLines(text string, n int) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
