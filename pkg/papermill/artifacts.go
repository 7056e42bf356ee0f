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

package papermill

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/GoogleCloudPlatform/testgrid/metadata"
	"github.com/sirupsen/logrus"
	batchv1 "k8s.io/api/batch/v1"

	"github.com/kubeflow/papermill-job/pkg/io"
	"github.com/kubeflow/papermill-job/pkg/io/providers"
	"github.com/kubeflow/papermill-job/pkg/jobtemplate"
	"github.com/kubeflow/papermill-job/pkg/repos"
)

// Artifact file names, following the Prow job artifact layout.
const (
	StartedFile  = "started.json"
	FinishedFile = "finished.json"
	JobFile      = "job.yaml"
)

// Artifacts writes a record of the run under Dir, which may be a local
// directory or a bucket URL understood by Opener.
type Artifacts struct {
	Opener io.Opener
	Dir    string
	Repos  repos.Spec

	now func() time.Time
}

// NewArtifacts returns an Artifacts writing to dir.
func NewArtifacts(opener io.Opener, dir string, spec repos.Spec) *Artifacts {
	return &Artifacts{Opener: opener, Dir: dir, Repos: spec, now: time.Now}
}

func (a *Artifacts) path(name string) string {
	if providers.IsLocal(a.Dir) {
		return filepath.Join(a.Dir, name)
	}
	return strings.TrimSuffix(a.Dir, "/") + "/" + name
}

func (a *Artifacts) write(ctx context.Context, log *logrus.Entry, name, contentType string, content []byte) {
	p := a.path(name)
	if err := io.WriteContent(ctx, a.Opener, p, content, io.ContentType(contentType)); err != nil {
		log.WithError(err).WithField("path", p).Warn("Failed to write artifact.")
		return
	}
	log.WithField("path", p).Debug("Wrote artifact.")
}

func (a *Artifacts) writeJSON(ctx context.Context, log *logrus.Entry, name string, v interface{}) {
	raw, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		log.WithError(err).Warnf("Failed to marshal %s.", name)
		return
	}
	a.write(ctx, log, name, "application/json", raw)
}

// startedExists reports whether a started.json is already present. Read
// errors other than a missing object are logged and treated as absent.
func (a *Artifacts) startedExists(ctx context.Context, log *logrus.Entry) bool {
	p := a.path(StartedFile)
	raw, err := io.ReadContent(ctx, a.Opener, p)
	if err != nil {
		if !io.IsNotExist(err) {
			log.WithError(err).WithField("path", p).Warn("Could not check for an existing started.json.")
		}
		return false
	}
	var existing metadata.Started
	if err := json.Unmarshal(raw, &existing); err != nil {
		log.WithError(err).WithField("path", p).Warn("Replacing malformed started.json.")
		return false
	}
	return true
}

// Started records the submitted job and the repos it checks out. An
// existing started.json is not overwritten.
func (a *Artifacts) Started(ctx context.Context, log *logrus.Entry, job *batchv1.Job) {
	if a == nil {
		return
	}
	if a.startedExists(ctx, log) {
		log.WithField("path", a.path(StartedFile)).Info("Keeping existing started.json.")
		return
	}
	started := metadata.Started{
		Timestamp: a.now().Unix(),
		Repos:     map[string]string{},
		Metadata: metadata.Metadata{
			"job":       job.Name,
			"namespace": job.Namespace,
		},
	}
	for _, r := range a.Repos {
		started.Repos[r.Owner+"/"+r.Name] = r.String()
	}
	if len(a.Repos) > 0 {
		started.RepoCommit = a.Repos[0].Revision
		started.DeprecatedRepoVersion = a.Repos[0].Revision
	}
	if containers := job.Spec.Template.Spec.Containers; len(containers) > 0 {
		started.Metadata["image"] = containers[0].Image
	}
	a.writeJSON(ctx, log, StartedFile, started)
}

// Finished records the outcome and, when known, the final job manifest.
func (a *Artifacts) Finished(ctx context.Context, log *logrus.Entry, job *batchv1.Job, outcome error) {
	if a == nil {
		return
	}
	now := a.now().Unix()
	passed := outcome == nil
	finished := metadata.Finished{
		Timestamp: &now,
		Passed:    &passed,
		Result:    Result(outcome),
		Metadata:  metadata.Metadata{},
	}
	if outcome != nil {
		finished.Metadata["error"] = outcome.Error()
	}
	a.writeJSON(ctx, log, FinishedFile, finished)

	if job != nil {
		a.write(ctx, log, JobFile, "application/yaml", []byte(jobtemplate.Manifest(job)))
	}
}
