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

// Package config reads the local deployment configuration: the optional
// lander.yaml file, the AWS credentials file and the package list
package config

import (
	"io/ioutil"
	"os"
	"os/user"
	"path/filepath"

	"github.com/oraspace/lander/lib/defaults"

	"github.com/ghodss/yaml"
	"github.com/gravitational/trace"
)

// Config is the deployment configuration.
//
// Every field is optional, unset fields assume the defaults the tool is
// built around: a single Oracle Linux image prepared for the 11gR2
// database.
type Config struct {
	// Region is the AWS region to provision in
	Region string `json:"region,omitempty"`
	// AMI is the machine image to launch
	AMI string `json:"ami,omitempty"`
	// InstanceType is the EC2 instance type for the database host
	InstanceType string `json:"instanceType,omitempty"`
	// InstanceName is the value of the Name tag attached to the instance
	InstanceName string `json:"instanceName,omitempty"`
	// KeyName is the EC2 key pair name, defaults to the key file name
	// without the .pem suffix
	KeyName string `json:"keyName,omitempty"`
	// KeyFile is the path to the SSH private key for the key pair
	KeyFile string `json:"keyFile,omitempty"`
	// SecurityGroup is the security group name to attach
	SecurityGroup string `json:"securityGroup,omitempty"`
	// RootVolumeSizeGiB overrides the enlarged root volume size
	RootVolumeSizeGiB int64 `json:"rootVolumeSize,omitempty"`
	// ArchiveURL is the location of the database installer archive
	ArchiveURL string `json:"archiveURL,omitempty"`
	// OracleSID is the database instance identifier to create
	OracleSID string `json:"oracleSID,omitempty"`
	// SysPassword is the SYS/SYSTEM account password for the new
	// database, generated when empty
	SysPassword string `json:"sysPassword,omitempty"`
}

// CheckAndSetDefaults validates the configuration and fills in the defaults
func (c *Config) CheckAndSetDefaults() error {
	if c.Region == "" {
		c.Region = defaults.Region
	}
	if c.AMI == "" {
		c.AMI = defaults.AMI
	}
	if c.InstanceType == "" {
		c.InstanceType = defaults.InstanceType
	}
	if c.InstanceName == "" {
		c.InstanceName = defaults.InstanceName
	}
	if c.SecurityGroup == "" {
		c.SecurityGroup = defaults.SecurityGroup
	}
	if c.RootVolumeSizeGiB == 0 {
		c.RootVolumeSizeGiB = defaults.RootVolumeSizeGiB
	}
	if c.ArchiveURL == "" {
		c.ArchiveURL = defaults.ArchiveURL
	}
	if c.OracleSID == "" {
		c.OracleSID = defaults.OracleSID
	}
	if c.KeyFile == "" {
		usr, err := user.Current()
		if err != nil {
			return trace.ConvertSystemError(err)
		}
		c.KeyFile = filepath.Join(usr.HomeDir, ".ssh", defaults.KeyFilename)
	}
	if c.KeyName == "" {
		name := filepath.Base(c.KeyFile)
		c.KeyName = name[:len(name)-len(filepath.Ext(name))]
	}
	return nil
}

// ReadConfig reads the deployment configuration from the specified path.
// A missing file is not an error, the configuration is fully optional.
func ReadConfig(path string) (*Config, error) {
	var config Config
	bytes, err := ioutil.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, trace.ConvertSystemError(err)
		}
	} else if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, trace.Wrap(err, "failed to parse %v", path)
	}
	if err := config.CheckAndSetDefaults(); err != nil {
		return nil, trace.Wrap(err)
	}
	return &config, nil
}
