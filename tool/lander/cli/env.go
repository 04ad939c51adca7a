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
	"path/filepath"

	"github.com/oraspace/lander/lib/cloudprovider/aws"
	"github.com/oraspace/lander/lib/config"
	"github.com/oraspace/lander/lib/defaults"
	"github.com/oraspace/lander/lib/deploy"
	"github.com/oraspace/lander/lib/deploy/phases"
	"github.com/oraspace/lander/lib/state"
	"github.com/oraspace/lander/lib/utils"

	"github.com/gravitational/trace"
)

const (
	// numLaunchSteps is the progress step count of the full deployment:
	// provision, SSH wait and the ten workflow steps
	numLaunchSteps = 12
	// numSingleStep is the progress step count of one-shot commands
	numSingleStep = 1
)

// environment ties together the local state directory and the
// deployment configuration for a single command invocation
type environment struct {
	stateDir string
	silent   bool
	config   config.Config
}

// newEnvironment resolves the state directory and reads the optional
// deployment configuration file
func newEnvironment(lander Application) (*environment, error) {
	stateDir, err := state.Dir(*lander.StateDir)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	configPath := *lander.ConfigFile
	if configPath == "" {
		configPath = filepath.Join(stateDir, defaults.ConfigFilename)
	}
	conf, err := config.ReadConfig(configPath)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	if err := conf.CheckAndSetDefaults(); err != nil {
		return nil, trace.Wrap(err)
	}
	return &environment{
		stateDir: stateDir,
		silent:   *lander.Silent,
		config:   *conf,
	}, nil
}

// credentials reads the AWS API credentials from the state directory
func (e *environment) credentials() (*config.Credentials, error) {
	creds, err := config.ReadCredentials(
		filepath.Join(e.stateDir, defaults.CredentialsFilename))
	if err != nil {
		return nil, trace.Wrap(err, "failed to read AWS credentials, "+
			"place the CSV key file at %v",
			filepath.Join(e.stateDir, defaults.CredentialsFilename))
	}
	return creds, nil
}

// packages reads the OS package list from the state directory, a missing
// file yields an empty list
func (e *environment) packages() ([]string, error) {
	packages, err := config.ReadPackages(
		filepath.Join(e.stateDir, defaults.PackagesFilename))
	if err != nil {
		if trace.IsNotFound(err) {
			return nil, nil
		}
		return nil, trace.Wrap(err)
	}
	return packages, nil
}

// hostRecord returns the recorded active host
func (e *environment) hostRecord() (*state.HostRecord, error) {
	record, err := state.GetHostRecord(e.stateDir)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return record, nil
}

// provisioner builds the EC2 provisioner from the configuration and the
// credentials file
func (e *environment) provisioner() (*aws.Provisioner, error) {
	creds, err := e.credentials()
	if err != nil {
		return nil, trace.Wrap(err)
	}
	provisioner, err := aws.New(aws.Config{
		Region:            e.config.Region,
		AMI:               e.config.AMI,
		InstanceType:      e.config.InstanceType,
		InstanceName:      e.config.InstanceName,
		KeyName:           e.config.KeyName,
		SecurityGroup:     e.config.SecurityGroup,
		RootVolumeSizeGiB: e.config.RootVolumeSizeGiB,
	}, creds.AccessKey, creds.SecretKey)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return provisioner, nil
}

// session builds a deployment session over this environment
func (e *environment) session(flags deploy.Flags, steps int) (*deploy.Session, error) {
	provisioner, err := e.provisioner()
	if err != nil {
		return nil, trace.Wrap(err)
	}
	packages, err := e.packages()
	if err != nil {
		return nil, trace.Wrap(err)
	}
	session, err := deploy.NewSession(deploy.Config{
		StateDir:    e.stateDir,
		KeyFile:     e.config.KeyFile,
		Packages:    packages,
		Provisioner: provisioner,
		Progress:    utils.NewProgress("deploy", steps, e.silent),
		Phases: phases.Config{
			OracleSID:   e.config.OracleSID,
			ArchiveURL:  e.config.ArchiveURL,
			SysPassword: e.config.SysPassword,
		},
	}, flags)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return session, nil
}
