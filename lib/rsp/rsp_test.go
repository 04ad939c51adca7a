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

package rsp

import (
	"strings"
	"testing"

	"github.com/gravitational/trace"
	"gopkg.in/check.v1"
)

func TestRSP(t *testing.T) { check.TestingT(t) }

type RenderSuite struct{}

var _ = check.Suite(&RenderSuite{})

func (s *RenderSuite) TestRendersInstallResponseFile(c *check.C) {
	out, err := Render(InstallTemplate, Context{
		"ORACLE_HOSTNAME":    "ip-10-0-0-1.ec2.internal",
		"UNIX_GROUP_NAME":    "oinstall",
		"INVENTORY_LOCATION": "/u01/app/oraInventory",
		"ORACLE_HOME":        "/u01/app/oracle/product/11.2.0/dbhome_1",
		"ORACLE_BASE":        "/u01/app/oracle",
	})
	c.Assert(err, check.IsNil)
	rendered := string(out)
	c.Assert(strings.Contains(rendered, "ORACLE_HOSTNAME=ip-10-0-0-1.ec2.internal"),
		check.Equals, true, check.Commentf("rendered:\n%v", rendered))
	c.Assert(strings.Contains(rendered, "INVENTORY_LOCATION=/u01/app/oraInventory"),
		check.Equals, true)
	// no template variables left behind
	c.Assert(strings.Contains(rendered, "{{"), check.Equals, false)
}

func (s *RenderSuite) TestFailsOnMissingVariable(c *check.C) {
	_, err := Render(InstallTemplate, Context{
		"ORACLE_HOSTNAME": "ip-10-0-0-1.ec2.internal",
	})
	c.Assert(err, check.NotNil)
}

func (s *RenderSuite) TestFailsOnUnknownTemplate(c *check.C) {
	_, err := Render("no-such-template", Context{})
	c.Assert(trace.IsNotFound(err), check.Equals, true,
		check.Commentf("expected NotFound, got %v", err))
}

func (s *RenderSuite) TestContextOverrides(c *check.C) {
	base := Context{"ORACLE_SID": "orcl", "SYS_PASSWORD": "secret"}
	merged := base.With(map[string]string{"ORACLE_SID": "testdb"})
	c.Assert(merged["ORACLE_SID"], check.Equals, "testdb")
	c.Assert(merged["SYS_PASSWORD"], check.Equals, "secret")
	// the base context is left untouched
	c.Assert(base["ORACLE_SID"], check.Equals, "orcl")

	out, err := Render(DatabaseTemplate, merged)
	c.Assert(err, check.IsNil)
	c.Assert(strings.Contains(string(out), `SID="testdb"`), check.Equals, true)
}

func (s *RenderSuite) TestRepoTemplateIsStatic(c *check.C) {
	out, err := Render(RepoTemplate, Context{})
	c.Assert(err, check.IsNil)
	c.Assert(strings.Contains(string(out), "[ol6_latest]"), check.Equals, true)
}
