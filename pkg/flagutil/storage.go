/*
Copyright 2026 The Kubernetes Authors.

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

package flagutil

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kubeflow/papermill-job/pkg/io"
)

// StorageClientOptions configures access to the artifact destination.
type StorageClientOptions struct {
	// GCSCredentialsFile is used for writing to gs:// paths. If unset,
	// application default credentials are used.
	GCSCredentialsFile string `json:"gcs_credentials_file,omitempty"`
	// S3CredentialsFile is used for writing to s3:// paths. If unset, the
	// default AWS credential chain is used. See pkg/io/providers for the format.
	S3CredentialsFile string `json:"s3_credentials_file,omitempty"`
}

// AddFlags injects storage options into the given FlagSet.
func (o *StorageClientOptions) AddFlags(fs *flag.FlagSet) {
	fs.StringVar(&o.GCSCredentialsFile, "gcs-credentials-file", "", "File where GCS credentials are stored")
	fs.StringVar(&o.S3CredentialsFile, "s3-credentials-file", "", "File where s3 credentials are stored. For the exact format see pkg/io/providers/providers.go")
}

// Validate validates storage options.
func (o *StorageClientOptions) Validate(dryRun bool) error {
	for flagName, path := range map[string]string{
		"gcs-credentials-file": o.GCSCredentialsFile,
		"s3-credentials-file":  o.S3CredentialsFile,
	} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("error accessing --%s: %w", flagName, err)
		}
	}
	return nil
}

// StorageClient returns an Opener for the configured credentials.
func (o *StorageClientOptions) StorageClient(ctx context.Context) (io.Opener, error) {
	opener, err := io.NewOpener(ctx, o.GCSCredentialsFile, o.S3CredentialsFile)
	if err != nil {
		message := ""
		if o.GCSCredentialsFile != "" {
			message = fmt.Sprintf(" gcs-credentials-file: %s", o.GCSCredentialsFile)
		}
		if o.S3CredentialsFile != "" {
			message = fmt.Sprintf("%s s3-credentials-file: %s", message, o.S3CredentialsFile)
		}
		return nil, fmt.Errorf("error creating opener%s: %w", message, err)
	}
	return opener, nil
}
