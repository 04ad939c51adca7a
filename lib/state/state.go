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

// Package state manages the local lander state directory which keeps
// the record of the currently provisioned host
package state

import (
	"fmt"
	"io/ioutil"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/oraspace/lander/lib/defaults"

	"github.com/gravitational/trace"
	log "github.com/sirupsen/logrus"
)

// HostRecord identifies the currently provisioned target host.
//
// The tool is single-host by design: there is at most one active record
// at a time and each launch overwrites the previous one.
type HostRecord struct {
	// User is the remote account used for administrative access
	User string
	// Addr is the public address of the host
	Addr string
	// InstanceID is the cloud instance id the host runs on
	InstanceID string
}

// String returns the host record in its on-disk format
func (r HostRecord) String() string {
	if r.InstanceID != "" {
		return fmt.Sprintf("%v@%v %v", r.User, r.Addr, r.InstanceID)
	}
	return fmt.Sprintf("%v@%v", r.User, r.Addr)
}

// Hostname returns the user@address form of the record
func (r HostRecord) Hostname() string {
	return fmt.Sprintf("%v@%v", r.User, r.Addr)
}

// Check validates the host record
func (r HostRecord) Check() error {
	if r.User == "" || r.Addr == "" {
		return trace.BadParameter("host record requires both user and address: %q", r.String())
	}
	return nil
}

// ParseHostRecord parses a host record from its on-disk format:
// a single "user@address [instance-id]" line
func ParseHostRecord(s string) (*HostRecord, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) == 0 {
		return nil, trace.BadParameter("empty host record")
	}
	parts := strings.SplitN(fields[0], "@", 2)
	if len(parts) != 2 {
		return nil, trace.BadParameter("expected user@address, got %q", fields[0])
	}
	record := &HostRecord{
		User: parts[0],
		Addr: parts[1],
	}
	if len(fields) > 1 {
		record.InstanceID = fields[1]
	}
	if err := record.Check(); err != nil {
		return nil, trace.Wrap(err)
	}
	return record, nil
}

// SetHostRecord saves the provided record as the active target host,
// overwriting the previous one
func SetHostRecord(stateDir string, record HostRecord) error {
	if err := record.Check(); err != nil {
		return trace.Wrap(err)
	}
	if err := os.MkdirAll(stateDir, defaults.SharedDirMask); err != nil {
		return trace.ConvertSystemError(err)
	}
	path := filepath.Join(stateDir, defaults.HostRecordFilename)
	err := ioutil.WriteFile(path, []byte(record.String()+"\n"), defaults.SharedReadMask)
	if err != nil {
		return trace.ConvertSystemError(err)
	}
	log.Debugf("Host record written to %v.", path)
	return nil
}

// GetHostRecord returns the active target host record
func GetHostRecord(stateDir string) (*HostRecord, error) {
	path := filepath.Join(stateDir, defaults.HostRecordFilename)
	bytes, err := ioutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, trace.NotFound(
				"no host record found in %v, run `lander provision` first", stateDir)
		}
		return nil, trace.ConvertSystemError(err)
	}
	record, err := ParseHostRecord(string(bytes))
	if err != nil {
		return nil, trace.Wrap(err, "failed to parse host record %v", path)
	}
	return record, nil
}

// Dir returns the local state directory, defaulting to ~/.lander when
// stateDir is unspecified
func Dir(stateDir string) (string, error) {
	if stateDir != "" {
		return stateDir, nil
	}
	usr, err := user.Current()
	if err != nil {
		return "", trace.ConvertSystemError(err)
	}
	return filepath.Join(usr.HomeDir, defaults.LanderDir), nil
}
