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

package providers_test

import (
	"context"
	"testing"

	"github.com/kubeflow/papermill-job/pkg/io/providers"
)

func TestParseStoragePath(t *testing.T) {
	tests := []struct {
		name                string
		storagePath         string
		wantStorageProvider string
		wantBucket          string
		wantRelativePath    string
		wantErr             bool
	}{
		{
			name:                "parse s3 path",
			storagePath:         "s3://kubeflow-ci/nb",
			wantStorageProvider: "s3",
			wantBucket:          "kubeflow-ci",
			wantRelativePath:    "nb",
		},
		{
			name:                "parse gs deep path",
			storagePath:         "gs://kubeflow-ci/pr-logs/nb/job.yaml",
			wantStorageProvider: "gs",
			wantBucket:          "kubeflow-ci",
			wantRelativePath:    "pr-logs/nb/job.yaml",
		},
		{
			name:                "parse bucket only",
			storagePath:         "mem://artifacts",
			wantStorageProvider: "mem",
			wantBucket:          "artifacts",
		},
		{
			name:        "no bucket",
			storagePath: "gs://",
			wantErr:     true,
		},
		{
			name:        "no provider",
			storagePath: "/tmp/artifacts",
			wantErr:     true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotStorageProvider, gotBucket, gotRelativePath, err := providers.ParseStoragePath(tt.storagePath)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStoragePath() error = %v, wantErr %v", err, tt.wantErr)
			}
			if gotStorageProvider != tt.wantStorageProvider {
				t.Errorf("ParseStoragePath() gotStorageProvider = %v, want %v", gotStorageProvider, tt.wantStorageProvider)
			}
			if gotBucket != tt.wantBucket {
				t.Errorf("ParseStoragePath() gotBucket = %v, want %v", gotBucket, tt.wantBucket)
			}
			if gotRelativePath != tt.wantRelativePath {
				t.Errorf("ParseStoragePath() gotRelativePath = %v, want %v", gotRelativePath, tt.wantRelativePath)
			}
		})
	}
}

func TestIsLocal(t *testing.T) {
	for path, want := range map[string]bool{
		"/tmp/artifacts":   true,
		"_artifacts":       true,
		"gs://bucket/path": false,
		"mem://bucket":     false,
	} {
		if got := providers.IsLocal(path); got != want {
			t.Errorf("IsLocal(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestGetBucket(t *testing.T) {
	ctx := context.Background()
	bkt, err := providers.GetBucket(ctx, nil, "mem://artifacts/nb")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer bkt.Close()

	if _, err := providers.GetBucket(ctx, []byte("{"), "s3://artifacts/nb"); err == nil {
		t.Error("expected an error for malformed s3 credentials")
	}
}
