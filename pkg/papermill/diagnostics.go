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
	"fmt"

	"github.com/sirupsen/logrus"
	batchv1 "k8s.io/api/batch/v1"
	v1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/kubeflow/papermill-job/pkg/kube"
)

// logTailLines caps how much of each container log is echoed on failure.
const logTailLines int64 = 200

// containerLog is the tail of one container's log.
type containerLog struct {
	Pod       string
	Container string
	Log       string
}

// collectPodLogs fetches the tail of every init and main container log of
// the pods the job controller created for job. A container whose log cannot
// be read is skipped and its error is included in the returned aggregate.
func (r *Runner) collectPodLogs(ctx context.Context, job *batchv1.Job) ([]containerLog, error) {
	selector := labels.Set{kube.JobNameLabel: job.Name}.AsSelector().String()
	pods, err := r.Client.CoreV1().Pods(job.Namespace).List(ctx, metav1.ListOptions{LabelSelector: selector})
	if err != nil {
		return nil, fmt.Errorf("list pods for job %s.%s: %w", job.Namespace, job.Name, err)
	}
	var logs []containerLog
	var errs []error
	for _, pod := range pods.Items {
		containers := append(append([]v1.Container{}, pod.Spec.InitContainers...), pod.Spec.Containers...)
		for _, c := range containers {
			tail := logTailLines
			raw, err := r.Client.CoreV1().Pods(pod.Namespace).GetLogs(pod.Name, &v1.PodLogOptions{
				Container: c.Name,
				TailLines: &tail,
			}).DoRaw(ctx)
			if err != nil {
				errs = append(errs, fmt.Errorf("get logs for %s/%s: %w", pod.Name, c.Name, err))
				continue
			}
			logs = append(logs, containerLog{Pod: pod.Name, Container: c.Name, Log: string(raw)})
		}
	}
	return logs, utilerrors.NewAggregate(errs)
}

// dumpPodLogs logs what collectPodLogs finds. Problems are only warned about;
// they never change the outcome of the run.
func (r *Runner) dumpPodLogs(ctx context.Context, log *logrus.Entry, job *batchv1.Job) {
	logs, err := r.collectPodLogs(ctx, job)
	if err != nil {
		log.WithError(err).Warn("Could not collect all pod logs.")
	}
	if len(logs) == 0 && err == nil {
		log.Warn("Found no pods for job.")
	}
	for _, l := range logs {
		log.WithFields(logrus.Fields{"pod": l.Pod, "container": l.Container}).Infof("Container log:\n%s", l.Log)
	}
}
