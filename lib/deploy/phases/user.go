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

	"github.com/gravitational/trace"
)

// SetupUser prepares the service account and directory layout for the
// installation: SSH access for the oracle user, its environment, the
// required directories and the unpacked installer archive.
//
// Every sub-step is best-effort, re-runs against a partially prepared
// host are expected and there is no rollback.
func SetupUser(ctx context.Context, config *Config) error {
	serviceHome := fmt.Sprintf("/home/%v", defaults.ServiceUser)
	owner := fmt.Sprintf("%v:%v", defaults.ServiceUser, defaults.ServiceGroup)

	// the service account reuses the administrative key material
	config.bestEffort(ctx, defaults.AdminUser,
		fmt.Sprintf("mkdir -p %v/.ssh", serviceHome))
	config.bestEffort(ctx, defaults.AdminUser,
		fmt.Sprintf("cp /root/.ssh/authorized_keys %v/.ssh/authorized_keys", serviceHome))
	config.bestEffort(ctx, defaults.AdminUser,
		fmt.Sprintf("chown -R %v %v/.ssh", owner, serviceHome))
	config.bestEffort(ctx, defaults.AdminUser,
		fmt.Sprintf("chmod 700 %v/.ssh", serviceHome))
	config.bestEffort(ctx, defaults.AdminUser,
		fmt.Sprintf("chmod 600 %v/.ssh/authorized_keys", serviceHome))

	profile := fmt.Sprintf(`
export ORACLE_BASE=%v
export ORACLE_HOME=%v
export ORACLE_SID=%v
export PATH=$PATH:$ORACLE_HOME/bin
`, config.OracleBase, config.OracleHome, config.OracleSID)
	result, err := config.Remote.RunWithInput(ctx, defaults.AdminUser,
		fmt.Sprintf("cat >> %v/.bash_profile", serviceHome), []byte(profile))
	if err == nil {
		err = result.Error()
	}
	if err != nil {
		config.WithError(err).Warn("Failed to append environment to profile.")
		config.Progress.PrintWarn(err, "failed to append environment to profile")
	}

	config.bestEffort(ctx, defaults.AdminUser,
		fmt.Sprintf("mkdir -p %v %v %v", config.OracleBase, config.InventoryDir, defaults.StagingDir))

	if err := fetchArchive(ctx, config); err != nil {
		config.WithError(err).Warn("Failed to fetch installer archive.")
		config.Progress.PrintWarn(err, "failed to fetch installer archive")
	}

	config.bestEffort(ctx, defaults.AdminUser,
		fmt.Sprintf("chown -R %v /u01/app %v", owner, defaults.StagingDir))
	return nil
}

// fetchArchive downloads and unpacks the installer archive, skipping the
// download when the archive is already present on the host
func fetchArchive(ctx context.Context, config *Config) error {
	archivePath := fmt.Sprintf("%v/database.zip", defaults.StagingDir)
	exists, err := config.Remote.Exists(ctx, defaults.AdminUser, archivePath)
	if err != nil {
		return trace.Wrap(err)
	}
	if exists {
		config.Progress.PrintSubStep("installer archive already present, skipping download")
	} else {
		_, err = config.strict(ctx, defaults.AdminUser,
			fmt.Sprintf("wget -q -O %v %v", archivePath, config.ArchiveURL))
		if err != nil {
			return trace.Wrap(err)
		}
	}
	_, err = config.strict(ctx, defaults.AdminUser,
		fmt.Sprintf("unzip -o -q %v -d %v", archivePath, defaults.StagingDir))
	return trace.Wrap(err)
}
