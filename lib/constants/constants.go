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

// Package constants defines constants shared between the lander packages
package constants

import (
	"fmt"
)

const (
	// ComponentCLI is the logging component id for the command line tool
	ComponentCLI = "cli"

	// ComponentAWS is the logging component id for the AWS provisioner
	ComponentAWS = "aws"

	// ComponentRemote is the logging component id for the SSH executor
	ComponentRemote = "remote"

	// ComponentDeploy is the logging component id for the deployment workflow
	ComponentDeploy = "deploy"

	// FieldHost is the log field with the remote host address
	FieldHost = "host"

	// FieldAccount is the log field with the remote account name
	FieldAccount = "account"

	// FieldCommand is the log field with the remote command
	FieldCommand = "cmd"

	// FieldInstanceID is the log field with the EC2 instance id
	FieldInstanceID = "instance"

	// InstanceStatePending is the EC2 instance state during boot
	InstanceStatePending = "pending"

	// InstanceStateRunning is the EC2 instance state when it is up
	InstanceStateRunning = "running"

	// HumanDateFormatSeconds is a human readable date formatting with seconds
	HumanDateFormatSeconds = "Mon Jan _2 15:04:05 UTC"
)

var (
	// EncodingJSON is for the JSON encoding format
	EncodingJSON Format = "json"
	// EncodingText is for the plain-text encoding format
	EncodingText Format = "text"
	// OutputFormats is a list of recognized output formats for lander CLI commands
	OutputFormats = []Format{
		EncodingText,
		EncodingJSON,
	}
)

// Format is the type for supported output formats
type Format string

// Set sets the format value
func (f *Format) Set(v string) error {
	*f = Format(v)
	return nil
}

// String returns the format string representation
func (f *Format) String() string {
	return fmt.Sprintf("%v", string(*f))
}
