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

	"github.com/oraspace/lander/lib/defaults"
	"github.com/oraspace/lander/lib/deploy/phases"
)

// Step is one named post-launch workflow step
type Step struct {
	// Name identifies the step on the command line
	Name string
	// Description is the human-readable step summary
	Description string
	// Account is the remote account the step runs as
	Account string
	// BestEffort indicates a step whose failure does not abort the
	// workflow
	BestEffort bool

	fn   func(ctx context.Context, config *phases.Config) error
	skip func(flags Flags) bool
}

// Plan returns the post-launch workflow steps in execution order
func Plan() []Step {
	return []Step{
		{
			Name:        "resize-root",
			Description: "grow the root filesystem to the block device size",
			Account:     defaults.AdminUser,
			BestEffort:  true,
			fn:          phases.ResizeRoot,
			skip:        func(flags Flags) bool { return flags.SkipResize },
		},
		{
			Name:        "firewall",
			Description: "disable the host firewall",
			Account:     defaults.AdminUser,
			BestEffort:  true,
			fn:          phases.DisableFirewall,
		},
		{
			Name:        "upgrade",
			Description: "upgrade the OS and reboot",
			Account:     defaults.AdminUser,
			fn:          phases.UpgradeAndReboot,
			skip:        func(flags Flags) bool { return flags.SkipUpgrade },
		},
		{
			Name:        "repo",
			Description: "enroll the public package repository",
			Account:     defaults.AdminUser,
			fn:          phases.EnrollRepository,
		},
		{
			Name:        "packages",
			Description: "install the database prerequisite packages",
			Account:     defaults.AdminUser,
			fn: func(ctx context.Context, config *phases.Config) error {
				return phases.InstallPackages(ctx, config, config.Packages)
			},
		},
		{
			Name:        "user-setup",
			Description: "prepare the service account and fetch the installer archive",
			Account:     defaults.AdminUser,
			BestEffort:  true,
			fn:          phases.SetupUser,
		},
		{
			Name:        "installer",
			Description: "run the silent database software installation",
			Account:     defaults.ServiceUser,
			fn:          phases.RunInstaller,
		},
		{
			Name:        "post-scripts",
			Description: "run the installer root scripts",
			Account:     defaults.AdminUser,
			fn:          phases.PostInstallScripts,
		},
		{
			Name:        "listener",
			Description: "configure the network listener",
			Account:     defaults.ServiceUser,
			fn:          phases.CreateListener,
		},
		{
			Name:        "database",
			Description: "create the database instance",
			Account:     defaults.ServiceUser,
			fn:          phases.CreateDatabase,
		},
	}
}
