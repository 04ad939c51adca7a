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

package utils

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/gravitational/trace"
	log "github.com/sirupsen/logrus"
)

// RunCommand executes the local command specified with args and returns
// its combined output
func RunCommand(ctx context.Context, logger log.FieldLogger, args ...string) ([]byte, error) {
	if logger == nil {
		logger = log.WithField(trace.Component, "utils")
	}
	logger.WithField("args", args).Debug("Run command.")
	name := args[0]
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args[1:]...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return out.Bytes(), trace.Wrap(err, "failed to run %v: %s", args, out.Bytes())
	}
	return out.Bytes(), nil
}
