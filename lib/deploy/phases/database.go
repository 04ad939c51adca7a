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

package phases

import (
	"context"
	"fmt"

	"github.com/oraspace/lander/lib/defaults"
	"github.com/oraspace/lander/lib/rsp"

	"github.com/gravitational/trace"
	"github.com/sethvargo/go-password/password"
)

// listenerPort is the default database listener port
const listenerPort = "1521"

// CreateListener configures the database listener with the network
// configuration assistant driven by a rendered response file
func CreateListener(ctx context.Context, config *Config) error {
	hostname, err := config.Remote.Hostname(ctx)
	if err != nil {
		return trace.Wrap(err)
	}
	response, err := rsp.Render(rsp.ListenerTemplate, rsp.Context{
		"ORACLE_HOSTNAME": hostname,
		"LISTENER_PORT":   listenerPort,
	}.With(config.Values))
	if err != nil {
		return trace.Wrap(err)
	}
	err = config.Remote.Upload(ctx, defaults.ServiceUser,
		defaults.ListenerResponsePath, response)
	if err != nil {
		return trace.Wrap(err)
	}
	_, err = config.strict(ctx, defaults.ServiceUser, fmt.Sprintf(
		"%v/bin/netca /silent /responsefile %v",
		config.OracleHome, defaults.ListenerResponsePath))
	return trace.Wrap(err)
}

// CreateDatabase creates the database instance with the database
// configuration assistant driven by a rendered response file.
// The SYS/SYSTEM password is generated unless provided.
func CreateDatabase(ctx context.Context, config *Config) error {
	sysPassword := config.SysPassword
	if sysPassword == "" {
		var err error
		// letters and digits only, dbca rejects most symbols
		sysPassword, err = password.Generate(16, 4, 0, false, false)
		if err != nil {
			return trace.Wrap(err)
		}
		config.Progress.PrintInfo("generated SYS/SYSTEM password: %v", sysPassword)
	}
	response, err := rsp.Render(rsp.DatabaseTemplate, rsp.Context{
		"ORACLE_SID":   config.OracleSID,
		"SYS_PASSWORD": sysPassword,
	}.With(config.Values))
	if err != nil {
		return trace.Wrap(err)
	}
	err = config.Remote.Upload(ctx, defaults.ServiceUser,
		defaults.DatabaseResponsePath, response)
	if err != nil {
		return trace.Wrap(err)
	}
	_, err = config.strict(ctx, defaults.ServiceUser, fmt.Sprintf(
		"%v/bin/dbca -silent -responseFile %v",
		config.OracleHome, defaults.DatabaseResponsePath))
	return trace.Wrap(err)
}
