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

// Package fakeopener provides an in-memory io.Opener for tests.
package fakeopener

import (
	"bytes"
	"context"
	"os"
	"sync"

	pkgio "github.com/kubeflow/papermill-job/pkg/io"
)

// FakeOpener keeps every written object in Buffer, keyed by path.
type FakeOpener struct {
	pkgio.Opener
	Buffer     map[string]*bytes.Buffer
	ReadError  error
	WriteError error

	lock sync.Mutex
}

type nopReadWriteCloser struct {
	*bytes.Buffer
}

func (nc *nopReadWriteCloser) Close() error {
	return nil
}

func (fo *FakeOpener) Reader(ctx context.Context, path string) (pkgio.ReadCloser, error) {
	fo.lock.Lock()
	defer fo.lock.Unlock()
	if fo.ReadError != nil {
		return nil, fo.ReadError
	}
	buf, ok := fo.Buffer[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	// copy so the stored buffer can be read more than once
	return &nopReadWriteCloser{Buffer: bytes.NewBuffer(buf.Bytes())}, nil
}

func (fo *FakeOpener) Writer(ctx context.Context, path string, opts ...pkgio.WriterOptions) (pkgio.WriteCloser, error) {
	fo.lock.Lock()
	defer fo.lock.Unlock()
	if fo.WriteError != nil {
		return nil, fo.WriteError
	}
	if fo.Buffer == nil {
		fo.Buffer = make(map[string]*bytes.Buffer)
	}
	fo.Buffer[path] = &bytes.Buffer{}
	return &nopReadWriteCloser{Buffer: fo.Buffer[path]}, nil
}

// Paths lists the paths written so far.
func (fo *FakeOpener) Paths() []string {
	fo.lock.Lock()
	defer fo.lock.Unlock()
	var paths []string
	for p := range fo.Buffer {
		paths = append(paths, p)
	}
	return paths
}
