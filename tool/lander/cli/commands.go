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

package cli

import (
	"github.com/oraspace/lander/lib/constants"

	"github.com/gravitational/configure"
	"gopkg.in/alecthomas/kingpin.v2"
)

// Application represents the command-line "lander" application and contains
// definitions of all its flags, arguments and subcommands
type Application struct {
	*kingpin.Application
	// Debug allows to run the command in debug mode
	Debug *bool
	// Silent suppresses console output
	Silent *bool
	// StateDir is the local state directory
	StateDir *string
	// ConfigFile is the path to the deployment configuration file
	ConfigFile *string
	// VersionCmd outputs the binary version
	VersionCmd VersionCmd
	// LaunchCmd runs the complete deployment
	LaunchCmd LaunchCmd
	// ProvisionCmd launches the instance without deploying
	ProvisionCmd ProvisionCmd
	// WaitCmd waits for the recorded host to serve SSH
	WaitCmd WaitCmd
	// SGCmd combines security group operations
	SGCmd SGCmd
	// SGCreateCmd creates the deployment security group
	SGCreateCmd SGCreateCmd
	// RunCmd executes a single workflow step
	RunCmd RunCmd
	// PlanCmd prints the workflow steps
	PlanCmd PlanCmd
	// StatusCmd shows the recorded host and its instance state
	StatusCmd StatusCmd
}

// VersionCmd outputs the binary version
type VersionCmd struct {
	*kingpin.CmdClause
	// Output is output format
	Output *constants.Format
}

// LaunchCmd runs the complete deployment: provision, wait for SSH and
// all workflow steps
type LaunchCmd struct {
	*kingpin.CmdClause
	// SkipUpgrade skips the OS upgrade and reboot
	SkipUpgrade *bool
	// SkipResize skips growing the root filesystem
	SkipResize *bool
	// Packages overrides the package list
	Packages *[]string
	// Set is a list of response file values set on the CLI
	Set *configure.KeyVal
}

// ProvisionCmd launches the instance and records it as the active host
type ProvisionCmd struct {
	*kingpin.CmdClause
}

// WaitCmd waits for the recorded host to serve SSH
type WaitCmd struct {
	*kingpin.CmdClause
}

// SGCmd combines security group operations
type SGCmd struct {
	*kingpin.CmdClause
}

// SGCreateCmd creates the deployment security group with its ingress rules
type SGCreateCmd struct {
	*kingpin.CmdClause
}

// RunCmd executes a single workflow step against the recorded host
type RunCmd struct {
	*kingpin.CmdClause
	// Step is the name of the step to execute
	Step *string
	// Packages overrides the package list for the packages step
	Packages *[]string
	// Set is a list of response file values set on the CLI
	Set *configure.KeyVal
}

// PlanCmd prints the workflow steps in execution order
type PlanCmd struct {
	*kingpin.CmdClause
}

// StatusCmd shows the recorded host and its instance state
type StatusCmd struct {
	*kingpin.CmdClause
	// Output is output format
	Output *constants.Format
}
