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

package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/oraspace/lander/lib/compare"
	"github.com/oraspace/lander/lib/defaults"

	"github.com/gravitational/trace"
	"gopkg.in/check.v1"
)

func TestConfig(t *testing.T) { check.TestingT(t) }

type ConfigSuite struct {
	dir string
}

var _ = check.Suite(&ConfigSuite{})

func (s *ConfigSuite) SetUpTest(c *check.C) {
	s.dir = c.MkDir()
}

func (s *ConfigSuite) write(c *check.C, name, data string) string {
	path := filepath.Join(s.dir, name)
	c.Assert(ioutil.WriteFile(path, []byte(data), defaults.SharedReadMask), check.IsNil)
	return path
}

func (s *ConfigSuite) TestConfigDefaults(c *check.C) {
	config, err := ReadConfig(filepath.Join(s.dir, "lander.yaml"))
	c.Assert(err, check.IsNil)
	c.Assert(config.AMI, check.Equals, defaults.AMI)
	c.Assert(config.InstanceType, check.Equals, defaults.InstanceType)
	c.Assert(config.SecurityGroup, check.Equals, defaults.SecurityGroup)
	c.Assert(config.RootVolumeSizeGiB, check.Equals, int64(defaults.RootVolumeSizeGiB))
	c.Assert(config.KeyName, check.Equals, "oracle-database")
}

func (s *ConfigSuite) TestConfigOverrides(c *check.C) {
	path := s.write(c, "lander.yaml", `
region: us-west-2
ami: ami-deadbeef
instanceType: m3.xlarge
keyFile: /keys/deploy.pem
rootVolumeSize: 100
`)
	config, err := ReadConfig(path)
	c.Assert(err, check.IsNil)
	c.Assert(config.Region, check.Equals, "us-west-2")
	c.Assert(config.AMI, check.Equals, "ami-deadbeef")
	c.Assert(config.InstanceType, check.Equals, "m3.xlarge")
	c.Assert(config.RootVolumeSizeGiB, check.Equals, int64(100))
	// key name is derived from the key file
	c.Assert(config.KeyName, check.Equals, "deploy")
	// untouched fields still default
	c.Assert(config.OracleSID, check.Equals, defaults.OracleSID)
}

func (s *ConfigSuite) TestCredentials(c *check.C) {
	path := s.write(c, "aws-credentials.txt",
		"User Name,Access Key Id,Secret Access Key\n"+
			"deployer,AKIAOLD,oldsecret\n"+
			"deployer,AKIAEXAMPLE,wJalrXUtnFEMI\n")
	creds, err := ReadCredentials(path)
	c.Assert(err, check.IsNil)
	// the last record wins
	compare.DeepCompare(c, creds, &Credentials{
		AccessKey: "AKIAEXAMPLE",
		SecretKey: "wJalrXUtnFEMI",
	})
}

func (s *ConfigSuite) TestCredentialsMissingColumn(c *check.C) {
	path := s.write(c, "aws-credentials.txt",
		"Access Key Id\nAKIAEXAMPLE\n")
	_, err := ReadCredentials(path)
	c.Assert(trace.IsBadParameter(err), check.Equals, true,
		check.Commentf("expected BadParameter, got %v", err))
}

func (s *ConfigSuite) TestPackages(c *check.C) {
	path := s.write(c, "yum-requirements.txt",
		"oracle-rdbms-server-11gR2-preinstall\nsysstat\n\n# comment\nunzip\n")
	packages, err := ReadPackages(path)
	c.Assert(err, check.IsNil)
	compare.DeepCompare(c, packages, []string{
		"oracle-rdbms-server-11gR2-preinstall", "sysstat", "unzip",
	})
}

func (s *ConfigSuite) TestEmptyPackageList(c *check.C) {
	path := s.write(c, "yum-requirements.txt", "\n# nothing\n")
	_, err := ReadPackages(path)
	c.Assert(trace.IsNotFound(err), check.Equals, true,
		check.Commentf("expected NotFound, got %v", err))
}
