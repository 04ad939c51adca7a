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

// Package defaults defines default configuration values for the lander tool
package defaults

import (
	"time"
)

const (
	// AMI is the default Oracle Linux machine image to launch
	AMI = "ami-3109d958"

	// InstanceType is the default EC2 instance type for the database host
	InstanceType = "m2.2xlarge"

	// InstanceName is the value of the Name tag attached to the instance
	InstanceName = "oracle-database"

	// SecurityGroup is the name of the security group attached to the instance
	SecurityGroup = "oracle-database"

	// SecurityGroupDescription describes the purpose of the security group
	SecurityGroupDescription = "Security group for oracle-database"

	// Region is the default AWS region to provision in
	Region = "us-east-1"

	// RootDevice is the root volume device name of the machine image
	RootDevice = "/dev/sda1"

	// RootVolumeSizeGiB is the enlarged root volume size, the stock image
	// volume is too small for an Oracle installation
	RootVolumeSizeGiB = 60

	// RootVolumeType is the EBS volume type for the root volume
	RootVolumeType = "gp2"

	// SSHPort is the SSH ingress port opened on the security group
	SSHPort = 22

	// ManagementPort is the Enterprise Manager console ingress port
	ManagementPort = 1158

	// AllNetworksCIDR opens an ingress rule to all sources
	AllNetworksCIDR = "0.0.0.0/0"

	// InstancePollInterval is how often to query the instance state
	// while waiting for it to leave the pending state
	InstancePollInterval = 10 * time.Second

	// InstanceBootWait is how long to wait after the instance reaches the
	// running state before probing SSH, the image init process is slow to
	// bring the daemon up
	InstanceBootWait = 300 * time.Second

	// ProbeAttempts is the number of SSH connectivity probes to issue
	// before declaring the instance unreachable
	ProbeAttempts = 20

	// ProbeTimeout is the connection timeout of a single SSH probe
	ProbeTimeout = 30 * time.Second

	// DialRetryTimeout caps redialing through transient connection
	// failures when running a command
	DialRetryTimeout = time.Minute

	// ProbeCommand is the command issued by a connectivity probe
	ProbeCommand = "uname -a"

	// RebootWait is how long to wait for the host to come back after reboot
	RebootWait = 180 * time.Second

	// AdminUser is the privileged account on the remote host
	AdminUser = "root"

	// ServiceUser is the dedicated account owning the database installation
	ServiceUser = "oracle"

	// ServiceGroup is the primary group of the service user
	ServiceGroup = "oinstall"

	// OracleBase is the Oracle base directory on the remote host
	OracleBase = "/u01/app/oracle"

	// OracleHome is the Oracle home directory on the remote host
	OracleHome = "/u01/app/oracle/product/11.2.0/dbhome_1"

	// OracleSID is the default database instance identifier
	OracleSID = "orcl"

	// InventoryDir is the Oracle inventory directory on the remote host
	InventoryDir = "/u01/app/oraInventory"

	// StagingDir is the directory on the remote host the installer
	// archive is downloaded and unpacked into
	StagingDir = "/home/oracle/install"

	// ArchiveURL is the default location of the database installer archive
	ArchiveURL = "http://storage.oraspace.io/oracle/linux.x64_11gR2_database.zip"

	// RepoPath is the yum repository configuration path on the remote host
	RepoPath = "/etc/yum.repos.d/public-yum-ol6.repo"

	// InstallResponsePath is the remote path of the installer response file
	InstallResponsePath = "/home/oracle/db_install.rsp"

	// ListenerResponsePath is the remote path of the netca response file
	ListenerResponsePath = "/home/oracle/netca.rsp"

	// DatabaseResponsePath is the remote path of the dbca response file
	DatabaseResponsePath = "/home/oracle/dbca.rsp"

	// InstallerLogPollInterval is how often to look for the installer
	// log path in the captured installer output
	InstallerLogPollInterval = 5 * time.Second

	// InstallerLogPollAttempts is how many times to look for the installer
	// log path before giving up
	InstallerLogPollAttempts = 6

	// InstallerTailInterval is how often to fetch the installer log while
	// waiting for the completion marker
	InstallerTailInterval = 10 * time.Second

	// InstallerTimeout is the maximum time to wait for the installer to
	// write the completion marker to its log
	InstallerTimeout = 90 * time.Minute

	// InstallerCompletionMarker is the log line that indicates the
	// installer has finished successfully
	InstallerCompletionMarker = "Successfully Setup Software."

	// InstallerLogTailLines is how many log lines to print as progress
	// feedback while tailing the installer log
	InstallerLogTailLines = 10

	// LanderDir is the name of the local state directory under $HOME
	LanderDir = ".lander"

	// HostRecordFilename is the name of the host record file in the state directory
	HostRecordFilename = "host.txt"

	// CredentialsFilename is the name of the AWS credentials file
	CredentialsFilename = "aws-credentials.txt"

	// PackagesFilename is the name of the package list file
	PackagesFilename = "yum-requirements.txt"

	// ConfigFilename is the name of the optional deployment configuration file
	ConfigFilename = "lander.yaml"

	// KeyFilename is the default private key file in ~/.ssh
	KeyFilename = "oracle-database.pem"

	// SharedReadMask is the file mask for world readable files
	SharedReadMask = 0644

	// SharedDirMask is the mask for shared directories
	SharedDirMask = 0755
)
