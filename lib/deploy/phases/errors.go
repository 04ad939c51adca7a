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
	"fmt"
	"regexp"
	"strings"

	"github.com/gravitational/trace"
)

// UpgradeError is returned when the OS package upgrade fails
type UpgradeError struct {
	// Reason describes the failed upgrade stage
	Reason string
}

// Error returns the error string representation
func (e *UpgradeError) Error() string {
	return fmt.Sprintf("OS upgrade failed: %v", e.Reason)
}

// IsUpgradeError returns true if the specified error is of type UpgradeError
func IsUpgradeError(err error) bool {
	_, ok := trace.Unwrap(err).(*UpgradeError)
	return ok
}

// PackageInstallError is returned when the package transaction fails
type PackageInstallError struct {
	// Package is the first failing package when it could be determined
	// from the package manager output, otherwise the whole list
	Package string
}

// Error returns the error string representation
func (e *PackageInstallError) Error() string {
	return fmt.Sprintf("unable to install package %v", e.Package)
}

// IsPackageInstallError returns true if the specified error is of type PackageInstallError
func IsPackageInstallError(err error) bool {
	_, ok := trace.Unwrap(err).(*PackageInstallError)
	return ok
}

// InstallerLogNotFoundError is returned when the installer output never
// mentions its log path
type InstallerLogNotFoundError struct {
	// Attempts is the exhausted discovery attempt budget
	Attempts int
}

// Error returns the error string representation
func (e *InstallerLogNotFoundError) Error() string {
	return fmt.Sprintf("installer log path did not appear in installer "+
		"output after %v attempts", e.Attempts)
}

// IsInstallerLogNotFoundError returns true if the specified error is of type
// InstallerLogNotFoundError
func IsInstallerLogNotFoundError(err error) bool {
	_, ok := trace.Unwrap(err).(*InstallerLogNotFoundError)
	return ok
}

// missingPackageRE extracts the failing package name from yum output
var missingPackageRE = regexp.MustCompile(`No package ([^\s]+) available`)

// failedPackage determines the first failing package from the package
// manager output, falling back to the whole requested list
func failedPackage(output string, packages []string) string {
	if match := missingPackageRE.FindStringSubmatch(output); len(match) == 2 {
		return match[1]
	}
	return strings.Join(packages, " ")
}
