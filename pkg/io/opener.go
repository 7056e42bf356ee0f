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

// Package io reads and writes artifacts on local disk, GCS, S3 or any
// other gocloud blob provider behind a single Opener.
package io

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"cloud.google.com/go/storage"
	"github.com/sirupsen/logrus"
	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"
	"google.golang.org/api/option"

	"github.com/kubeflow/papermill-job/pkg/io/providers"
)

type storageClient interface {
	Bucket(name string) *storage.BucketHandle
}

// Aliases to types in the standard library
type (
	ReadCloser  = io.ReadCloser
	WriteCloser = io.WriteCloser
)

// Opener has methods to read and write paths
type Opener interface {
	Reader(ctx context.Context, path string) (ReadCloser, error)
	Writer(ctx context.Context, path string, opts ...WriterOptions) (WriteCloser, error)
}

// WriterOptions are applied to GCS and gocloud writers. Local files ignore them.
type WriterOptions struct {
	ContentType *string
}

// Apply copies the options onto whichever writer is in use.
func (o WriterOptions) Apply(gcs *storage.Writer, b *blob.WriterOptions) {
	if o.ContentType == nil {
		return
	}
	if gcs != nil {
		gcs.ContentType = *o.ContentType
	}
	if b != nil {
		b.ContentType = *o.ContentType
	}
}

// ContentType is shorthand for a WriterOptions that only sets the content type.
func ContentType(ct string) WriterOptions {
	return WriterOptions{ContentType: &ct}
}

type opener struct {
	gcsClient          storageClient
	s3Credentials      []byte
	cachedBuckets      map[string]*blob.Bucket
	cachedBucketsMutex sync.Mutex
}

// NewOpener returns an opener that can read GCS, S3, gocloud and local paths.
// Both credentials files may be empty, in which case credentials are
// auto-discovered from the environment.
func NewOpener(ctx context.Context, gcsCredentialsFile, s3CredentialsFile string) (Opener, error) {
	var options []option.ClientOption
	if gcsCredentialsFile != "" {
		options = append(options, option.WithCredentialsFile(gcsCredentialsFile))
	}
	gcsClient, err := storage.NewClient(ctx, options...)
	if err != nil {
		if gcsCredentialsFile != "" {
			return nil, err
		}
		logrus.WithError(err).Debug("Cannot load application default gcp credentials")
		gcsClient = nil
	}
	var s3Credentials []byte
	if s3CredentialsFile != "" {
		s3Credentials, err = ioutil.ReadFile(s3CredentialsFile)
		if err != nil {
			return nil, err
		}
	}
	o := &opener{
		s3Credentials: s3Credentials,
		cachedBuckets: map[string]*blob.Bucket{},
	}
	// a nil *storage.Client must not end up inside the interface
	if gcsClient != nil {
		o.gcsClient = gcsClient
	}
	return o, nil
}

// IsNotExist will return true if the error shows that the object does not exist.
func IsNotExist(err error) bool {
	if errors.Is(err, os.ErrNotExist) || errors.Is(err, storage.ErrObjectNotExist) {
		return true
	}
	return gcerrors.Code(err) == gcerrors.NotFound
}

// LogClose will attempt a close an log any error
func LogClose(c io.Closer) {
	if err := c.Close(); err != nil {
		logrus.WithError(err).Error("Failed to close")
	}
}

func (o *opener) openGCS(path string) (*storage.ObjectHandle, error) {
	if o.gcsClient == nil {
		return nil, errors.New("no gcs client configured")
	}
	_, bucket, object, err := providers.ParseStoragePath(path)
	if err != nil {
		return nil, err
	}
	if object == "" {
		return nil, errors.New("object name is empty")
	}
	return o.gcsClient.Bucket(bucket).Object(object), nil
}

// getBucket opens the bucket path lives in, caching buckets by name so each
// one is only opened once per process.
func (o *opener) getBucket(ctx context.Context, path string) (*blob.Bucket, string, error) {
	_, bucketName, relativePath, err := providers.ParseStoragePath(path)
	if err != nil {
		return nil, "", fmt.Errorf("could not get bucket: %w", err)
	}

	o.cachedBucketsMutex.Lock()
	defer o.cachedBucketsMutex.Unlock()
	if bucket, ok := o.cachedBuckets[bucketName]; ok {
		return bucket, relativePath, nil
	}

	bucket, err := providers.GetBucket(ctx, o.s3Credentials, path)
	if err != nil {
		return nil, "", err
	}
	o.cachedBuckets[bucketName] = bucket
	return bucket, relativePath, nil
}

// Reader will open the path for reading, returning an IsNotExist() error when missing
func (o *opener) Reader(ctx context.Context, path string) (io.ReadCloser, error) {
	if strings.HasPrefix(path, providers.GS+"://") {
		g, err := o.openGCS(path)
		if err != nil {
			return nil, fmt.Errorf("bad gcs path: %w", err)
		}
		return g.NewReader(ctx)
	}
	if providers.IsLocal(path) {
		return os.Open(path)
	}

	bucket, relativePath, err := o.getBucket(ctx, path)
	if err != nil {
		return nil, err
	}
	return bucket.NewReader(ctx, relativePath, nil)
}

// Writer returns a writer that overwrites the path.
func (o *opener) Writer(ctx context.Context, p string, opts ...WriterOptions) (io.WriteCloser, error) {
	if strings.HasPrefix(p, providers.GS+"://") {
		g, err := o.openGCS(p)
		if err != nil {
			return nil, fmt.Errorf("bad gcs path: %w", err)
		}
		writer := g.NewWriter(ctx)
		for _, opt := range opts {
			opt.Apply(writer, nil)
		}
		return writer, nil
	}
	if providers.IsLocal(p) {
		dir := filepath.Dir(p)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create directory %q: %w", dir, err)
		}
		return os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	}

	bucket, relativePath, err := o.getBucket(ctx, p)
	if err != nil {
		return nil, err
	}
	var wOpts blob.WriterOptions
	for _, opt := range opts {
		opt.Apply(nil, &wOpts)
	}
	return bucket.NewWriter(ctx, relativePath, &wOpts)
}

// WriteContent writes content to path through opener, closing the writer.
func WriteContent(ctx context.Context, opener Opener, path string, content []byte, opts ...WriterOptions) error {
	w, err := opener.Writer(ctx, path, opts...)
	if err != nil {
		return fmt.Errorf("open %s for writing: %w", path, err)
	}
	if _, err := w.Write(content); err != nil {
		LogClose(w)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// ReadContent reads the whole object at path.
func ReadContent(ctx context.Context, opener Opener, path string) ([]byte, error) {
	r, err := opener.Reader(ctx, path)
	if err != nil {
		return nil, err
	}
	defer LogClose(r)
	return ioutil.ReadAll(r)
}
