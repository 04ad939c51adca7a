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

package remote

import (
	"gopkg.in/check.v1"
)

type ResultSuite struct{}

var _ = check.Suite(&ResultSuite{})

func (s *ResultSuite) TestResult(c *check.C) {
	result := Result{Command: "uname -a", ExitStatus: 0, Output: "Linux\n"}
	c.Assert(result.Success(), check.Equals, true)
	c.Assert(result.Error(), check.IsNil)

	result = Result{Command: "yum -y install sysstat", ExitStatus: 1, Output: "No package\n"}
	c.Assert(result.Success(), check.Equals, false)
	c.Assert(result.Error(), check.NotNil)
	c.Assert(result.Error(), check.ErrorMatches, `.*returned 1.*No package.*`)
}

func (s *ResultSuite) TestConfigDefaults(c *check.C) {
	config := Config{User: "root", Addr: "host.example.com", KeyFile: "/keys/test.pem"}
	c.Assert(config.CheckAndSetDefaults(), check.IsNil)
	// the SSH port is appended when unspecified
	c.Assert(config.Addr, check.Equals, "host.example.com:22")

	config = Config{User: "root", Addr: "host.example.com:2022", KeyFile: "/keys/test.pem"}
	c.Assert(config.CheckAndSetDefaults(), check.IsNil)
	c.Assert(config.Addr, check.Equals, "host.example.com:2022")

	config = Config{User: "root"}
	c.Assert(config.CheckAndSetDefaults(), check.NotNil)
}
