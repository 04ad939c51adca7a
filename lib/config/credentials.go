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

package config

import (
	"encoding/csv"
	"os"

	"github.com/gravitational/trace"
)

// The credentials file is the CSV file the AWS console offers for download
// when an access key is created.
const (
	accessKeyColumn = "Access Key Id"
	secretKeyColumn = "Secret Access Key"
)

// Credentials is an AWS API key pair
type Credentials struct {
	// AccessKey is the AWS access key id
	AccessKey string
	// SecretKey is the AWS secret access key
	SecretKey string
}

// Check validates the credentials
func (c Credentials) Check() error {
	if c.AccessKey == "" || c.SecretKey == "" {
		return trace.BadParameter("credentials require both %q and %q",
			accessKeyColumn, secretKeyColumn)
	}
	return nil
}

// ReadCredentials reads the AWS credentials from the CSV file at path.
// When the file has multiple rows the last one wins.
func ReadCredentials(path string) (*Credentials, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, trace.ConvertSystemError(err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, trace.Wrap(err, "failed to parse credentials file %v", path)
	}
	if len(rows) < 2 {
		return nil, trace.BadParameter(
			"credentials file %v requires a header row and at least one record", path)
	}
	columns := map[string]int{}
	for i, name := range rows[0] {
		columns[name] = i
	}
	accessIndex, ok := columns[accessKeyColumn]
	if !ok {
		return nil, trace.BadParameter("credentials file %v is missing column %q",
			path, accessKeyColumn)
	}
	secretIndex, ok := columns[secretKeyColumn]
	if !ok {
		return nil, trace.BadParameter("credentials file %v is missing column %q",
			path, secretKeyColumn)
	}
	record := rows[len(rows)-1]
	if len(record) <= accessIndex || len(record) <= secretIndex {
		return nil, trace.BadParameter("malformed credentials record in %v", path)
	}
	creds := &Credentials{
		AccessKey: record[accessIndex],
		SecretKey: record[secretIndex],
	}
	if err := creds.Check(); err != nil {
		return nil, trace.Wrap(err)
	}
	return creds, nil
}
