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

// Package kube wraps the client-go plumbing used to talk to the cluster
// that runs notebook jobs.
package kube

import (
	batchv1 "k8s.io/api/batch/v1"
	v1 "k8s.io/api/core/v1"
)

// JobNameLabel is set by the job controller on every pod it creates.
const JobNameLabel = "job-name"

// CreatedByLabel marks jobs submitted by this tool.
const CreatedByLabel = "created-by"

// BuildIDLabel carries the build ID of the run that submitted the job.
const BuildIDLabel = "build-id"

type Job = batchv1.Job
type JobCondition = batchv1.JobCondition
type Pod = v1.Pod

const (
	JobComplete = batchv1.JobComplete
	JobFailed   = batchv1.JobFailed
)

// Finished reports whether the job controller marked job as complete or failed.
func Finished(job *Job) bool {
	for _, c := range job.Status.Conditions {
		if (c.Type == JobComplete || c.Type == JobFailed) && c.Status == v1.ConditionTrue {
			return true
		}
	}
	return false
}

// LastCondition returns the most recently appended condition, if any.
func LastCondition(job *Job) (JobCondition, bool) {
	n := len(job.Status.Conditions)
	if n == 0 {
		return JobCondition{}, false
	}
	return job.Status.Conditions[n-1], true
}
