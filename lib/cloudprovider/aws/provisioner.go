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

// Package aws provisions the database host on EC2
package aws

import (
	"context"

	"github.com/oraspace/lander/lib/constants"
	"github.com/oraspace/lander/lib/defaults"

	awsapi "github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ec2"
	"github.com/aws/aws-sdk-go/service/ec2/ec2iface"
	"github.com/gravitational/trace"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

// Config is the provisioner configuration
type Config struct {
	// Region is the AWS region to provision in
	Region string
	// AMI is the machine image to launch
	AMI string
	// InstanceType is the EC2 instance type
	InstanceType string
	// InstanceName is the value of the Name tag attached to the instance
	InstanceName string
	// KeyName is the EC2 key pair name
	KeyName string
	// SecurityGroup is the security group name to attach
	SecurityGroup string
	// RootVolumeSizeGiB is the enlarged root volume size
	RootVolumeSizeGiB int64
	// Client is the EC2 API client, set in tests to inject a fake
	Client ec2iface.EC2API
	// Clock is used for status poll pacing, set in tests to a fake clock
	Clock clockwork.Clock
	// FieldLogger is the logger the provisioner logs with
	logrus.FieldLogger
}

// CheckAndSetDefaults validates the configuration and fills in the defaults
func (c *Config) CheckAndSetDefaults() error {
	if c.AMI == "" || c.InstanceType == "" || c.KeyName == "" || c.SecurityGroup == "" {
		return trace.BadParameter("AMI, instance type, key name and security "+
			"group are all required: %+v", c)
	}
	if c.Region == "" {
		c.Region = defaults.Region
	}
	if c.InstanceName == "" {
		c.InstanceName = defaults.InstanceName
	}
	if c.RootVolumeSizeGiB == 0 {
		c.RootVolumeSizeGiB = defaults.RootVolumeSizeGiB
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	if c.FieldLogger == nil {
		c.FieldLogger = logrus.WithField(trace.Component, constants.ComponentAWS)
	}
	return nil
}

// Instance describes the provisioned EC2 instance
type Instance struct {
	// ID is the EC2 instance id
	ID string
	// State is the last observed lifecycle state
	State string
	// PublicAddr is the public DNS name of the instance
	PublicAddr string
}

// Provisioner launches and inspects database host instances
type Provisioner struct {
	// Config is the provisioner configuration
	Config
}

// New returns a new provisioner for the AWS account the credentials
// belong to
func New(config Config, accessKey, secretKey string) (*Provisioner, error) {
	if err := config.CheckAndSetDefaults(); err != nil {
		return nil, trace.Wrap(err)
	}
	if config.Client == nil {
		session, err := session.NewSession(&awsapi.Config{
			Region: awsapi.String(config.Region),
			Credentials: credentials.NewStaticCredentials(
				accessKey, secretKey, ""),
		})
		if err != nil {
			return nil, trace.Wrap(err)
		}
		config.Client = ec2.New(session)
	}
	return &Provisioner{Config: config}, nil
}

// EnsureSecurityGroup makes sure the configured security group exists,
// creating it with the SSH and management console ingress rules when absent.
// An existing group is left as is.
func (p *Provisioner) EnsureSecurityGroup(ctx context.Context) error {
	exists, err := p.securityGroupExists(ctx)
	if err != nil {
		return trace.Wrap(err)
	}
	if exists {
		p.Debugf("Security group %q already exists.", p.SecurityGroup)
		return nil
	}
	return trace.Wrap(p.CreateSecurityGroup(ctx))
}

// CreateSecurityGroup creates the configured security group and authorizes
// the two ingress rules the deployment needs: SSH and the Enterprise
// Manager console, both open to all sources.
//
// Creating a group whose name is already taken fails with AlreadyExists.
func (p *Provisioner) CreateSecurityGroup(ctx context.Context) error {
	_, err := p.Client.CreateSecurityGroupWithContext(ctx, &ec2.CreateSecurityGroupInput{
		GroupName:   awsapi.String(p.SecurityGroup),
		Description: awsapi.String(defaults.SecurityGroupDescription),
	})
	if err != nil {
		return trace.Wrap(ConvertError(err))
	}
	for _, port := range []int64{defaults.SSHPort, defaults.ManagementPort} {
		_, err = p.Client.AuthorizeSecurityGroupIngressWithContext(ctx,
			&ec2.AuthorizeSecurityGroupIngressInput{
				GroupName:  awsapi.String(p.SecurityGroup),
				IpProtocol: awsapi.String("tcp"),
				FromPort:   awsapi.Int64(port),
				ToPort:     awsapi.Int64(port),
				CidrIp:     awsapi.String(defaults.AllNetworksCIDR),
			})
		if err != nil {
			return trace.Wrap(ConvertError(err))
		}
	}
	p.Infof("Created security group %q.", p.SecurityGroup)
	return nil
}

func (p *Provisioner) securityGroupExists(ctx context.Context) (bool, error) {
	out, err := p.Client.DescribeSecurityGroupsWithContext(ctx,
		&ec2.DescribeSecurityGroupsInput{
			GroupNames: []*string{awsapi.String(p.SecurityGroup)},
		})
	if err != nil {
		err = ConvertError(err)
		if trace.IsNotFound(err) {
			return false, nil
		}
		return false, trace.Wrap(err)
	}
	return len(out.SecurityGroups) != 0, nil
}

// Provision launches one database host instance and waits for it to reach
// the running state.
//
// The root volume of the image is replaced with an enlarged one, the stock
// volume has no room for the database installation. While the instance is
// pending the Name tag is attached exactly once, a failed tagging call is
// retried on the next poll and never aborts provisioning.
func (p *Provisioner) Provision(ctx context.Context) (*Instance, error) {
	if err := p.EnsureSecurityGroup(ctx); err != nil {
		return nil, trace.Wrap(err)
	}
	reservation, err := p.Client.RunInstancesWithContext(ctx, &ec2.RunInstancesInput{
		ImageId:        awsapi.String(p.AMI),
		InstanceType:   awsapi.String(p.InstanceType),
		KeyName:        awsapi.String(p.KeyName),
		SecurityGroups: []*string{awsapi.String(p.SecurityGroup)},
		MinCount:       awsapi.Int64(1),
		MaxCount:       awsapi.Int64(1),
		BlockDeviceMappings: []*ec2.BlockDeviceMapping{
			{
				DeviceName: awsapi.String(defaults.RootDevice),
				Ebs: &ec2.EbsBlockDevice{
					VolumeSize:          awsapi.Int64(p.RootVolumeSizeGiB),
					VolumeType:          awsapi.String(defaults.RootVolumeType),
					DeleteOnTermination: awsapi.Bool(true),
				},
			},
		},
	})
	if err != nil {
		return nil, trace.Wrap(ConvertError(err))
	}
	if len(reservation.Instances) == 0 {
		return nil, trace.NotFound("reservation came back with no instances")
	}
	instance := &Instance{
		ID:    awsapi.StringValue(reservation.Instances[0].InstanceId),
		State: awsapi.StringValue(reservation.Instances[0].State.Name),
	}
	p.WithField(constants.FieldInstanceID, instance.ID).Info("Launched instance.")

	tagged := false
	for instance.State == constants.InstanceStatePending {
		if !tagged {
			tagged = p.tryTag(ctx, instance.ID)
		}
		p.Clock.Sleep(defaults.InstancePollInterval)
		if err := p.refresh(ctx, instance); err != nil {
			return nil, trace.Wrap(err)
		}
	}
	if instance.State != constants.InstanceStateRunning {
		return nil, trace.Wrap(&ProvisionError{
			InstanceID: instance.ID,
			State:      instance.State,
		})
	}
	p.WithField(constants.FieldInstanceID, instance.ID).Infof(
		"Instance running at %v.", instance.PublicAddr)
	return instance, nil
}

// Status returns the current state of the specified instance
func (p *Provisioner) Status(ctx context.Context, instanceID string) (*Instance, error) {
	instance := &Instance{ID: instanceID}
	if err := p.refresh(ctx, instance); err != nil {
		return nil, trace.Wrap(err)
	}
	return instance, nil
}

// tryTag attaches the Name tag to the instance, reporting whether the
// call succeeded. Failure is logged and retried on the next poll.
func (p *Provisioner) tryTag(ctx context.Context, instanceID string) bool {
	_, err := p.Client.CreateTagsWithContext(ctx, &ec2.CreateTagsInput{
		Resources: []*string{awsapi.String(instanceID)},
		Tags: []*ec2.Tag{
			{
				Key:   awsapi.String("Name"),
				Value: awsapi.String(p.InstanceName),
			},
		},
	})
	if err != nil {
		p.Warnf("Tagging failed, will retry on next poll: %v.", err)
		return false
	}
	return true
}

func (p *Provisioner) refresh(ctx context.Context, instance *Instance) error {
	out, err := p.Client.DescribeInstancesWithContext(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []*string{awsapi.String(instance.ID)},
	})
	if err != nil {
		return trace.Wrap(ConvertError(err))
	}
	if len(out.Reservations) == 0 || len(out.Reservations[0].Instances) == 0 {
		return trace.NotFound("instance %v not found", instance.ID)
	}
	state := out.Reservations[0].Instances[0]
	instance.State = awsapi.StringValue(state.State.Name)
	instance.PublicAddr = awsapi.StringValue(state.PublicDnsName)
	return nil
}
