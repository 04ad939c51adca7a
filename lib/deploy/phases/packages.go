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
	"strings"

	"github.com/oraspace/lander/lib/defaults"
	"github.com/oraspace/lander/lib/rsp"

	"github.com/gravitational/trace"
)

// EnrollRepository uploads the Oracle Linux public yum repository
// configuration and refreshes the package cache
func EnrollRepository(ctx context.Context, config *Config) error {
	repo, err := rsp.Render(rsp.RepoTemplate, rsp.Context{}.With(config.Values))
	if err != nil {
		return trace.Wrap(err)
	}
	err = config.Remote.Upload(ctx, defaults.AdminUser, defaults.RepoPath, repo)
	if err != nil {
		return trace.Wrap(err)
	}
	_, err = config.strict(ctx, defaults.AdminUser, "yum -y makecache")
	return trace.Wrap(err)
}

// InstallPackages installs all the requested packages in one transaction
func InstallPackages(ctx context.Context, config *Config, packages []string) error {
	if len(packages) == 0 {
		return trace.BadParameter("no packages to install")
	}
	command := fmt.Sprintf("yum -y install %v", strings.Join(packages, " "))
	result, err := config.Remote.Run(ctx, defaults.AdminUser, command)
	if err != nil {
		return trace.Wrap(err)
	}
	if !result.Success() {
		return trace.Wrap(&PackageInstallError{
			Package: failedPackage(result.Output, packages),
		})
	}
	return nil
}
