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
	"errors"
	"fmt"

	batchv1 "k8s.io/api/batch/v1"
)

// JobIncompleteError means the job reported no conditions once waiting ended.
type JobIncompleteError struct {
	Namespace string
	Name      string
}

func (e *JobIncompleteError) Error() string {
	return fmt.Sprintf("job %s.%s; did not complete", e.Namespace, e.Name)
}

// JobFailedError means the job's last condition was something other than Complete.
type JobFailedError struct {
	Namespace string
	Name      string
	Condition batchv1.JobCondition
}

func (e *JobFailedError) Error() string {
	msg := fmt.Sprintf("job %s.%s failed", e.Namespace, e.Name)
	if e.Condition.Reason != "" {
		msg += fmt.Sprintf(" (%s: %s)", e.Condition.Type, e.Condition.Reason)
	}
	return msg
}

// IsJobIncomplete reports whether err, or an error it wraps, is a JobIncompleteError.
func IsJobIncomplete(err error) bool {
	var target *JobIncompleteError
	return errors.As(err, &target)
}

// IsJobFailed reports whether err, or an error it wraps, is a JobFailedError.
func IsJobFailed(err error) bool {
	var target *JobFailedError
	return errors.As(err, &target)
}

// Result values recorded in finished.json and metrics.
const (
	ResultSuccess = "SUCCESS"
	ResultFailure = "FAILURE"
	ResultError   = "ERROR"
)

// Result classifies the outcome of Run: the notebook failing is a FAILURE,
// anything else going wrong (API errors, timeouts, incomplete jobs) is an ERROR.
func Result(err error) string {
	switch {
	case err == nil:
		return ResultSuccess
	case IsJobFailed(err):
		return ResultFailure
	default:
		return ResultError
	}
}
