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
	"context"
	"os"

	"github.com/oraspace/lander/lib/constants"
	"github.com/oraspace/lander/lib/deploy"

	"github.com/gravitational/trace"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField(trace.Component, constants.ComponentCLI)

// Run parses CLI arguments and executes an appropriate lander command
func Run(lander Application) error {
	log.Debugf("Executing: %v.", os.Args)
	cmd, err := lander.Parse(os.Args[1:])
	if err != nil {
		return trace.Wrap(err)
	}

	trace.SetDebug(*lander.Debug)
	initLogger(*lander.Debug)

	switch cmd {
	case lander.VersionCmd.FullCommand():
		return printVersion(*lander.VersionCmd.Output)
	}

	env, err := newEnvironment(lander)
	if err != nil {
		return trace.Wrap(err)
	}

	switch cmd {
	case lander.LaunchCmd.FullCommand():
		return launch(context.Background(), env, deploy.Flags{
			SkipUpgrade: *lander.LaunchCmd.SkipUpgrade,
			SkipResize:  *lander.LaunchCmd.SkipResize,
			Packages:    *lander.LaunchCmd.Packages,
			Values:      map[string]string(*lander.LaunchCmd.Set),
		})
	case lander.ProvisionCmd.FullCommand():
		return provision(context.Background(), env)
	case lander.WaitCmd.FullCommand():
		return wait(context.Background(), env)
	case lander.SGCreateCmd.FullCommand():
		return createSecurityGroup(context.Background(), env)
	case lander.RunCmd.FullCommand():
		return runStep(context.Background(), env, *lander.RunCmd.Step, deploy.Flags{
			Packages: *lander.RunCmd.Packages,
			Values:   map[string]string(*lander.RunCmd.Set),
		})
	case lander.PlanCmd.FullCommand():
		return printPlan(env)
	case lander.StatusCmd.FullCommand():
		return status(context.Background(), env, *lander.StatusCmd.Output)
	}

	return trace.NotFound("unknown command %v", cmd)
}

// initLogger configures console logging for the selected verbosity
func initLogger(debug bool) {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	if debug {
		logrus.SetLevel(logrus.DebugLevel)
		return
	}
	logrus.SetLevel(logrus.WarnLevel)
}

func launch(ctx context.Context, env *environment, flags deploy.Flags) error {
	session, err := env.session(flags, numLaunchSteps)
	if err != nil {
		return trace.Wrap(err)
	}
	return trace.Wrap(session.Deploy(ctx))
}

func provision(ctx context.Context, env *environment) error {
	session, err := env.session(deploy.Flags{}, numSingleStep)
	if err != nil {
		return trace.Wrap(err)
	}
	_, err = session.Provision(ctx)
	return trace.Wrap(err)
}

func wait(ctx context.Context, env *environment) error {
	session, err := env.session(deploy.Flags{}, numSingleStep)
	if err != nil {
		return trace.Wrap(err)
	}
	record, err := env.hostRecord()
	if err != nil {
		return trace.Wrap(err)
	}
	_, err = session.WaitReady(ctx, *record)
	return trace.Wrap(err)
}

func createSecurityGroup(ctx context.Context, env *environment) error {
	provisioner, err := env.provisioner()
	if err != nil {
		return trace.Wrap(err)
	}
	return trace.Wrap(provisioner.CreateSecurityGroup(ctx))
}

func runStep(ctx context.Context, env *environment, step string, flags deploy.Flags) error {
	session, err := env.session(flags, numSingleStep)
	if err != nil {
		return trace.Wrap(err)
	}
	return trace.Wrap(session.RunStep(ctx, step))
}
