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

// Package providers resolves artifact destinations to gocloud buckets.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	"gocloud.dev/blob/s3blob"
)

const (
	S3   = "s3"
	GS   = "gs"
	File = "file"
	Mem  = "mem"
)

// IsLocal reports whether storagePath has no scheme and so names a path on disk.
func IsLocal(storagePath string) bool {
	return !strings.Contains(storagePath, "://")
}

// ParseStoragePath splits storagePath into storageProvider, bucket and relativePath.
// For example gs://kubeflow-ci-artifacts/nb/job.yaml results in
// (gs, kubeflow-ci-artifacts, nb/job.yaml).
func ParseStoragePath(storagePath string) (storageProvider, bucket, relativePath string, err error) {
	parsedPath, err := url.Parse(storagePath)
	if err != nil {
		return "", "", "", fmt.Errorf("unable to parse path %q: %w", storagePath, err)
	}

	storageProvider = parsedPath.Scheme
	bucket, relativePath = parsedPath.Host, strings.TrimPrefix(parsedPath.Path, "/")
	if storageProvider == "" {
		return "", "", "", fmt.Errorf("no storage provider in path %q", storagePath)
	}
	if bucket == "" {
		return "", "", "", fmt.Errorf("could not find bucket in storagePath %q", storagePath)
	}
	return storageProvider, bucket, relativePath, nil
}

// GetBucket opens the bucket that storagePath lives in. S3 buckets use
// s3Credentials when they are given; every other provider is opened through
// blob.OpenBucket, which discovers credentials from the environment.
//
// S3 credentials have the form:
//    {
//      "region": "us-east-1",
//      "endpoint": "https://minio.example.com:9000",
//      "s3_force_path_style": true,
//      "access_key": "access_key",
//      "secret_key": "secret_key"
//    }
func GetBucket(ctx context.Context, s3Credentials []byte, storagePath string) (*blob.Bucket, error) {
	storageProvider, bucket, _, err := ParseStoragePath(storagePath)
	if err != nil {
		return nil, err
	}
	if storageProvider == S3 && len(s3Credentials) > 0 {
		return getS3Bucket(ctx, s3Credentials, bucket)
	}

	bkt, err := blob.OpenBucket(ctx, fmt.Sprintf("%s://%s", storageProvider, bucket))
	if err != nil {
		return nil, fmt.Errorf("error opening %s bucket %q: %w", storageProvider, bucket, err)
	}
	return bkt, nil
}

type s3Credentials struct {
	Region           string `json:"region"`
	Endpoint         string `json:"endpoint"`
	Insecure         bool   `json:"insecure"`
	S3ForcePathStyle bool   `json:"s3_force_path_style"`
	AccessKey        string `json:"access_key"`
	SecretKey        string `json:"secret_key"`
}

func (c s3Credentials) awsConfig() *aws.Config {
	cfg := &aws.Config{
		DisableSSL:       aws.Bool(c.Insecure),
		S3ForcePathStyle: aws.Bool(c.S3ForcePathStyle),
		Region:           aws.String(c.Region),
	}
	if c.Endpoint != "" {
		cfg.Endpoint = aws.String(c.Endpoint)
	}
	// without static keys the default credential chain applies
	if c.AccessKey != "" && c.SecretKey != "" {
		cfg.Credentials = credentials.NewStaticCredentials(c.AccessKey, c.SecretKey, "")
	}
	return cfg
}

func getS3Bucket(ctx context.Context, creds []byte, bucketName string) (*blob.Bucket, error) {
	var s3Creds s3Credentials
	if err := json.Unmarshal(creds, &s3Creds); err != nil {
		return nil, fmt.Errorf("error getting S3 credentials from JSON: %w", err)
	}

	sess, err := session.NewSession(s3Creds.awsConfig())
	if err != nil {
		return nil, fmt.Errorf("error creating S3 Session: %w", err)
	}

	bkt, err := s3blob.OpenBucket(ctx, sess, bucketName, nil)
	if err != nil {
		return nil, fmt.Errorf("error opening S3 bucket: %w", err)
	}
	return bkt, nil
}
