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

	"github.com/oraspace/lander/lib/defaults"

	"github.com/gravitational/trace"
)

// ResizeRoot grows the root filesystem to use the enlarged root volume.
// The whole step is best-effort, the filesystem may already span the volume.
func ResizeRoot(ctx context.Context, config *Config) error {
	config.bestEffort(ctx, defaults.AdminUser,
		fmt.Sprintf("resize2fs %v", defaults.RootDevice))
	return nil
}

// DisableFirewall turns off the local software firewall. The cloud
// security group supersedes it, and the stock rules block the database
// listener and console ports.
func DisableFirewall(ctx context.Context, config *Config) error {
	config.bestEffort(ctx, defaults.AdminUser, "service iptables stop")
	config.bestEffort(ctx, defaults.AdminUser, "chkconfig iptables off")
	return nil
}

// UpgradeAndReboot refreshes the package cache, resolves any pending
// package transactions, upgrades all packages and reboots the host,
// waiting a fixed duration for it to come back.
//
// Cache refresh and upgrade failures abort the workflow, a host with a
// half-upgraded package set is not a valid installation target.
func UpgradeAndReboot(ctx context.Context, config *Config) error {
	result, err := config.Remote.Run(ctx, defaults.AdminUser, "yum -y makecache")
	if err != nil {
		return trace.Wrap(err)
	}
	if !result.Success() {
		return trace.Wrap(&UpgradeError{Reason: "unable to refresh repository cache"})
	}

	// leftover transactions from image preparation are common on this
	// image, ignore when the tool itself is missing
	config.bestEffort(ctx, defaults.AdminUser, "yum-complete-transaction -y")

	result, err = config.Remote.Run(ctx, defaults.AdminUser, "yum -y upgrade")
	if err != nil {
		return trace.Wrap(err)
	}
	if !result.Success() {
		return trace.Wrap(&UpgradeError{Reason: "unable to upgrade packages"})
	}

	// the reboot severs the session, a transport error is the expected
	// outcome here
	config.Progress.PrintSubStep("rebooting, waiting %v", defaults.RebootWait)
	config.Remote.Run(ctx, defaults.AdminUser, "reboot")
	config.Clock.Sleep(defaults.RebootWait)

	// one strict probe confirms the host is back
	_, err = config.strict(ctx, defaults.AdminUser, defaults.ProbeCommand)
	return trace.Wrap(err)
}
