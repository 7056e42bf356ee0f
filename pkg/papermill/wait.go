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
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	batchv1 "k8s.io/api/batch/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/kubeflow/papermill-job/pkg/kube"
)

// waitForJob polls the job until the controller marks it Complete or Failed.
// It returns the last observed job along with any error, including when the
// timeout elapses.
func (r *Runner) waitForJob(ctx context.Context, log *logrus.Entry, namespace, name string) (*batchv1.Job, error) {
	var last *batchv1.Job
	err := wait.PollImmediateWithContext(ctx, r.PollInterval, r.Timeout, func(ctx context.Context) (bool, error) {
		job, err := r.Client.BatchV1().Jobs(namespace).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return false, fmt.Errorf("get job %s.%s: %w", namespace, name, err)
		}
		last = job
		if kube.Finished(job) {
			return true, nil
		}
		log.WithFields(logrus.Fields{
			"active":    job.Status.Active,
			"succeeded": job.Status.Succeeded,
			"failed":    job.Status.Failed,
		}).Debug("Waiting for job to finish.")
		return false, nil
	})
	if errors.Is(err, wait.ErrWaitTimeout) {
		return last, fmt.Errorf("timed out after %s waiting for job %s.%s: %w", r.Timeout, namespace, name, err)
	}
	return last, err
}
