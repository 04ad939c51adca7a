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
	"os"

	"github.com/oraspace/lander/lib/deploy"

	"github.com/olekukonko/tablewriter"
)

// printPlan prints the deployment steps in execution order
func printPlan(env *environment) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Step", "Account", "Mode", "Description"})

	var data [][]string
	for _, step := range deploy.Plan() {
		mode := "strict"
		if step.BestEffort {
			mode = "best-effort"
		}
		data = append(data, []string{
			step.Name,
			step.Account,
			mode,
			step.Description,
		})
	}

	table.AppendBulk(data)
	table.Render()
	return nil
}
