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

// Package jobtemplate loads the Job manifest that runs a notebook and
// patches the handful of fields that vary between runs.
package jobtemplate

import (
	"errors"
	"fmt"
	"io/ioutil"

	batchv1 "k8s.io/api/batch/v1"
	"sigs.k8s.io/yaml"

	"github.com/kubeflow/papermill-job/pkg/repos"
)

const (
	// CheckoutScript is the entrypoint of the init container that checks out repos.
	CheckoutScript = "/usr/local/bin/checkout_repos.sh"
	// SrcDir is where repos are checked out inside the pod.
	SrcDir = "/src"
	// Depth is passed as --depth to the checkout script.
	Depth = "all"
)

var (
	// ErrNoInitContainers means the template has nowhere to run the checkout.
	ErrNoInitContainers = errors.New("job template has no init containers")
	// ErrNoContainers means the template has nowhere to run the notebook.
	ErrNoContainers = errors.New("job template has no containers")
)

// Load reads and decodes a Job manifest from path.
func Load(path string) (*batchv1.Job, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job template: %w", err)
	}
	job, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return job, nil
}

// Parse decodes a Job manifest.
func Parse(raw []byte) (*batchv1.Job, error) {
	var job batchv1.Job
	if err := yaml.UnmarshalStrict(raw, &job); err != nil {
		return nil, fmt.Errorf("unmarshal job template: %w", err)
	}
	return &job, nil
}

// CheckoutCommand is the init container command that checks out spec.
func CheckoutCommand(spec repos.Spec) []string {
	return []string{
		CheckoutScript,
		"--repos=" + spec.String(),
		"--src_dir=" + SrcDir,
		"--depth=" + Depth,
	}
}

// Patch points the first init container at the repos to check out and the
// first container at image. Nothing else in the manifest is touched.
func Patch(job *batchv1.Job, spec repos.Spec, image string) error {
	podSpec := &job.Spec.Template.Spec
	if len(podSpec.InitContainers) == 0 {
		return ErrNoInitContainers
	}
	if len(podSpec.Containers) == 0 {
		return ErrNoContainers
	}
	podSpec.InitContainers[0].Command = CheckoutCommand(spec)
	podSpec.Containers[0].Image = image
	return nil
}

// SetIdentity writes the name and namespace into the job metadata.
func SetIdentity(job *batchv1.Job, name, namespace string) {
	job.Name = name
	job.Namespace = namespace
}

// Manifest renders job as YAML for logging and artifacts.
func Manifest(job *batchv1.Job) string {
	raw, err := yaml.Marshal(job)
	if err != nil {
		return fmt.Sprintf("<unable to marshal job %s/%s: %v>", job.Namespace, job.Name, err)
	}
	return string(raw)
}
