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

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/oraspace/lander/lib/cloudprovider/aws"
	"github.com/oraspace/lander/lib/constants"
	"github.com/oraspace/lander/lib/state"

	"github.com/gravitational/trace"
	"github.com/olekukonko/tablewriter"
)

// hostStatus is the state of the recorded host and its instance
type hostStatus struct {
	// Host is the recorded host as user@addr
	Host string `json:"host"`
	// InstanceID is the EC2 instance id
	InstanceID string `json:"instanceID"`
	// State is the instance lifecycle state
	State string `json:"state"`
	// Addr is the current public address of the instance
	Addr string `json:"addr"`
}

// newHostStatus combines the recorded host with the instance state
func newHostStatus(record state.HostRecord, instance *aws.Instance) hostStatus {
	return hostStatus{
		Host:       record.Hostname(),
		InstanceID: instance.ID,
		State:      instance.State,
		Addr:       instance.PublicAddr,
	}
}

// status shows the recorded host and the current state of its instance
func status(ctx context.Context, env *environment, format constants.Format) error {
	record, err := env.hostRecord()
	if err != nil {
		return trace.Wrap(err)
	}
	provisioner, err := env.provisioner()
	if err != nil {
		return trace.Wrap(err)
	}
	instance, err := provisioner.Status(ctx, record.InstanceID)
	if err != nil {
		return trace.Wrap(err)
	}
	result := newHostStatus(*record, instance)

	if format == constants.EncodingJSON {
		bytes, err := json.Marshal(result)
		if err != nil {
			return trace.Wrap(err)
		}
		fmt.Println(string(bytes))
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Host", "Instance ID", "State", "Address"})
	table.Append([]string{result.Host, result.InstanceID, result.State, result.Addr})
	table.Render()
	return nil
}
