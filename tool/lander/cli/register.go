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
	"fmt"

	"github.com/oraspace/lander/lib/constants"
	"github.com/oraspace/lander/lib/defaults"
	"github.com/oraspace/lander/tool/common"

	"gopkg.in/alecthomas/kingpin.v2"
)

// RegisterCommands registers all lander tool flags, arguments and subcommands
func RegisterCommands(app *kingpin.Application) Application {
	lander := Application{
		Application: app,
	}

	lander.Debug = app.Flag("debug", "Enable debug mode.").Bool()
	lander.Silent = app.Flag("silent", "Suppress any output to stdout.").Short('q').Bool()
	lander.StateDir = app.Flag("state-dir", fmt.Sprintf("The local state directory. Defaults to ~/%v.", defaults.LanderDir)).String()
	lander.ConfigFile = app.Flag("config", fmt.Sprintf("Path to the deployment configuration file. Defaults to %v in the state directory.", defaults.ConfigFilename)).Short('c').String()

	lander.VersionCmd.CmdClause = app.Command("version", "Print version information and exit.")
	lander.VersionCmd.Output = common.Format(lander.VersionCmd.Flag("output", "Output format: text or json.").Short('o').Default(string(constants.EncodingText)))

	lander.LaunchCmd.CmdClause = app.Command("launch", "Provision an instance and deploy the database on it.")
	lander.LaunchCmd.SkipUpgrade = lander.LaunchCmd.Flag("skip-upgrade", "Skip the OS upgrade and reboot.").Bool()
	lander.LaunchCmd.SkipResize = lander.LaunchCmd.Flag("skip-resize", "Skip growing the root filesystem.").Bool()
	lander.LaunchCmd.Packages = lander.LaunchCmd.Flag("package", "Package to install instead of the configured list. Can be specified multiple times.").Strings()
	lander.LaunchCmd.Set = common.KeyVal(lander.LaunchCmd.Flag("set", "Set response file values on the command line, e.g. LISTENER_PORT:1522. Can be specified multiple times and/or as comma-separated values."))

	lander.ProvisionCmd.CmdClause = app.Command("provision", "Provision an instance and record it as the active host without deploying.")

	lander.WaitCmd.CmdClause = app.Command("wait", "Wait for the active host to start serving SSH.")

	lander.SGCmd.CmdClause = app.Command("sg", "Security group operations.")
	lander.SGCreateCmd.CmdClause = lander.SGCmd.Command("create", fmt.Sprintf("Create the %q security group with the SSH and management ingress rules.", defaults.SecurityGroup))

	lander.RunCmd.CmdClause = app.Command("run", "Execute a single deployment step against the active host.")
	lander.RunCmd.Step = lander.RunCmd.Arg("step", "Name of the step to execute, see `lander plan`.").Required().String()
	lander.RunCmd.Packages = lander.RunCmd.Flag("package", "Package to install instead of the configured list. Can be specified multiple times.").Strings()
	lander.RunCmd.Set = common.KeyVal(lander.RunCmd.Flag("set", "Set response file values on the command line, e.g. LISTENER_PORT:1522. Can be specified multiple times and/or as comma-separated values."))

	lander.PlanCmd.CmdClause = app.Command("plan", "Print the deployment steps in execution order.")

	lander.StatusCmd.CmdClause = app.Command("status", "Show the active host and the state of its instance.")
	lander.StatusCmd.Output = common.Format(lander.StatusCmd.Flag("output", fmt.Sprintf("Output format: %v.", constants.OutputFormats)).Default(string(constants.EncodingText)))

	return lander
}
