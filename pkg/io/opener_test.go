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

package io

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gocloud.dev/blob"
)

func newTestOpener() *opener {
	return &opener{cachedBuckets: map[string]*blob.Bucket{}}
}

func TestWriteReadContent(t *testing.T) {
	ctx := context.Background()
	testCases := []struct {
		name string
		path string
	}{
		{
			name: "local absolute path",
			path: filepath.Join(t.TempDir(), "nested", "job.yaml"),
		},
		{
			name: "memory bucket",
			path: "mem://artifacts/pr-logs/job.yaml",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			o := newTestOpener()
			content := []byte("kind: Job\n")
			if err := WriteContent(ctx, o, tc.path, content, ContentType("application/yaml")); err != nil {
				t.Fatalf("unexpected error writing: %v", err)
			}
			got, err := ReadContent(ctx, o, tc.path)
			if err != nil {
				t.Fatalf("unexpected error reading: %v", err)
			}
			if string(got) != string(content) {
				t.Errorf("expected %q, got %q", content, got)
			}
		})
	}
}

func TestReaderMissing(t *testing.T) {
	ctx := context.Background()
	o := newTestOpener()
	for _, path := range []string{
		filepath.Join(t.TempDir(), "missing"),
		"mem://artifacts/missing",
	} {
		_, err := ReadContent(ctx, o, path)
		if !IsNotExist(err) {
			t.Errorf("%s: expected a not-exist error, got %v", path, err)
		}
	}
}

func TestGCSWithoutClient(t *testing.T) {
	o := newTestOpener()
	if _, err := o.Writer(context.Background(), "gs://bucket/object"); err == nil {
		t.Error("expected an error writing to gcs without a client")
	}
}

func TestIsNotExist(t *testing.T) {
	if IsNotExist(nil) {
		t.Error("nil is not a not-exist error")
	}
	if !IsNotExist(os.ErrNotExist) {
		t.Error("os.ErrNotExist should be a not-exist error")
	}
}
