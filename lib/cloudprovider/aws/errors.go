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

package aws

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/gravitational/trace"
)

// ProvisionError is returned when the launched instance reaches a terminal
// state other than running
type ProvisionError struct {
	// InstanceID is the id of the failed instance
	InstanceID string
	// State is the terminal instance state
	State string
}

// Error returns the error string representation
func (e *ProvisionError) Error() string {
	return fmt.Sprintf("instance %v entered state %q instead of running",
		e.InstanceID, e.State)
}

// IsProvisionError returns true if the specified error is of type ProvisionError
func IsProvisionError(err error) bool {
	_, ok := trace.Unwrap(err).(*ProvisionError)
	return ok
}

const (
	errCodeGroupDuplicate = "InvalidGroup.Duplicate"
	errCodeGroupNotFound  = "InvalidGroup.NotFound"
	errCodeAuthFailure    = "AuthFailure"
	errCodeUnauthorized   = "UnauthorizedOperation"
)

// ConvertError converts an EC2 API error to a trace error kind
func ConvertError(err error) error {
	awsErr, ok := trace.Unwrap(err).(awserr.Error)
	if !ok {
		return err
	}
	switch awsErr.Code() {
	case errCodeGroupDuplicate:
		return trace.AlreadyExists(awsErr.Message())
	case errCodeGroupNotFound:
		return trace.NotFound(awsErr.Message())
	case errCodeAuthFailure, errCodeUnauthorized:
		return trace.AccessDenied(awsErr.Message())
	}
	return err
}
