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

// Package papermill submits a Kubernetes Job that executes a notebook with
// papermill, waits for the job to finish and classifies the outcome.
package papermill

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	batchv1 "k8s.io/api/batch/v1"
	kerrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/client-go/kubernetes"

	"github.com/kubeflow/papermill-job/pkg/jobtemplate"
	"github.com/kubeflow/papermill-job/pkg/kube"
	"github.com/kubeflow/papermill-job/pkg/repos"
)

const (
	// DefaultTimeout bounds how long Run waits for the job to finish.
	DefaultTimeout = 30 * time.Minute
	// DefaultPollInterval is how often the job status is read while waiting.
	DefaultPollInterval = 30 * time.Second
	// DefaultTemplatePath is read relative to the working directory.
	DefaultTemplatePath = "job.yaml"

	createdBy = "papermill-job"
)

// Options describe a single notebook run.
type Options struct {
	// Name of the job; generated when empty.
	Name      string
	Namespace string
	// Repos to check out before the notebook runs. Callers resolve these,
	// for example with repos.FromEnv, before calling Run.
	Repos repos.Spec
	// Image runs the notebook.
	Image        string
	TemplatePath string
}

// Validate ensures the options describe a job that can be submitted.
func (o Options) Validate() error {
	var errs []error
	if o.Namespace == "" {
		errs = append(errs, errors.New("namespace is required"))
	}
	if o.Image == "" {
		errs = append(errs, errors.New("image is required"))
	}
	if err := o.Repos.Validate(); err != nil {
		errs = append(errs, err)
	}
	return utilerrors.NewAggregate(errs)
}

// Runner submits notebook jobs and waits for them.
type Runner struct {
	Client kubernetes.Interface
	Namer  jobtemplate.Namer

	Timeout      time.Duration
	PollInterval time.Duration

	// BuildID labels the submitted job when set.
	BuildID string
	// Artifacts records the run when set.
	Artifacts *Artifacts
	// Metrics observes the run when set.
	Metrics *Metrics
}

// NewRunner returns a Runner with the default timeout, poll interval and namer.
func NewRunner(client kubernetes.Interface) *Runner {
	return &Runner{
		Client:       client,
		Namer:        jobtemplate.NewNamer(),
		Timeout:      DefaultTimeout,
		PollInterval: DefaultPollInterval,
	}
}

// Build loads the template and patches it into the job Run would submit.
func (r *Runner) Build(o Options) (*batchv1.Job, error) {
	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	templatePath := o.TemplatePath
	if templatePath == "" {
		templatePath = DefaultTemplatePath
	}
	job, err := jobtemplate.Load(templatePath)
	if err != nil {
		return nil, err
	}

	logrus.Infof("Repos set to %s", o.Repos)
	if err := jobtemplate.Patch(job, o.Repos, o.Image); err != nil {
		return nil, fmt.Errorf("patch %s: %w", templatePath, err)
	}
	jobtemplate.SetIdentity(job, r.Namer.Resolve(o.Name), o.Namespace)

	if job.Labels == nil {
		job.Labels = map[string]string{}
	}
	job.Labels[kube.CreatedByLabel] = createdBy
	if r.BuildID != "" {
		job.Labels[kube.BuildIDLabel] = r.BuildID
	}
	return job, nil
}

// Run submits the job described by o, blocks until it finishes or the
// timeout elapses, and returns the final state of the job. The run is
// recorded in Metrics even when the job was never created. A nil error means
// the job's last condition is Complete. Otherwise the error is a
// *JobIncompleteError, a *JobFailedError, or a wrapped API or timeout error.
func (r *Runner) Run(ctx context.Context, o Options) (*batchv1.Job, error) {
	start := time.Now()
	job, err := r.Build(o)
	if err != nil {
		r.Metrics.Observe(time.Since(start), Result(err))
		return nil, err
	}
	log := logrus.WithFields(logrus.Fields{"job": job.Name, "namespace": job.Namespace})

	final, err := r.submitAndWait(ctx, log, job)
	if err != nil && final != nil {
		log.WithError(err).Error("Job didn't complete successfully")
		r.dumpPodLogs(ctx, log, final)
	}

	r.Artifacts.Finished(ctx, log, final, err)
	r.Metrics.Observe(time.Since(start), Result(err))
	return final, err
}

func (r *Runner) submitAndWait(ctx context.Context, log *logrus.Entry, job *batchv1.Job) (*batchv1.Job, error) {
	log.Infof("Creating job:\n%s", jobtemplate.Manifest(job))
	r.Artifacts.Started(ctx, log, job)

	created, err := r.Client.BatchV1().Jobs(job.Namespace).Create(ctx, job, metav1.CreateOptions{})
	if err != nil {
		if kerrors.IsAlreadyExists(err) {
			return nil, fmt.Errorf("job %s.%s already exists: %w", job.Namespace, job.Name, err)
		}
		return nil, fmt.Errorf("create job %s.%s: %w", job.Namespace, job.Name, err)
	}
	log.Infof("Created job %s.%s:\n%s", created.Namespace, created.Name, jobtemplate.Manifest(created))

	final, err := r.waitForJob(ctx, log, created.Namespace, created.Name)
	if err != nil {
		return final, err
	}
	log.Infof("Final job:\n%s", jobtemplate.Manifest(final))
	return final, CheckJob(final)
}

// CheckJob classifies a job that is done being waited on by its last condition.
func CheckJob(job *batchv1.Job) error {
	last, ok := kube.LastCondition(job)
	if !ok {
		return &JobIncompleteError{Namespace: job.Namespace, Name: job.Name}
	}
	if last.Type != kube.JobComplete {
		return &JobFailedError{Namespace: job.Namespace, Name: job.Name, Condition: last}
	}
	return nil
}
