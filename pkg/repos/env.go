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

package repos

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// The Prow downward API exposes the refs under test through these variables.
// See https://github.com/kubernetes/test-infra/blob/master/prow/jobs.md#job-environment-variables
const (
	JobSpecEnv     = "JOB_SPEC"
	RepoOwnerEnv   = "REPO_OWNER"
	RepoNameEnv    = "REPO_NAME"
	PullBaseShaEnv = "PULL_BASE_SHA"
	PullNumberEnv  = "PULL_NUMBER"
)

// ErrNoProwEnv is returned by FromEnv when the process is not running as a Prow job.
var ErrNoProwEnv = errors.New("not running under prow: no refs in the environment")

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// jobSpec is the subset of $JOB_SPEC needed to find the refs under test.
type jobSpec struct {
	Type      string `json:"type,omitempty"`
	Refs      *refs  `json:"refs,omitempty"`
	ExtraRefs []refs `json:"extra_refs,omitempty"`
}

type refs struct {
	Org     string `json:"org"`
	Repo    string `json:"repo"`
	BaseRef string `json:"base_ref,omitempty"`
	BaseSHA string `json:"base_sha,omitempty"`
	Pulls   []pull `json:"pulls,omitempty"`
}

type pull struct {
	Number int    `json:"number"`
	SHA    string `json:"sha"`
}

func (r refs) repo() Repo {
	out := Repo{Owner: r.Org, Name: r.Repo, Revision: r.BaseSHA}
	if out.Revision == "" {
		out.Revision = r.BaseRef
	}
	if len(r.Pulls) > 0 {
		out.Pull = r.Pulls[0].Number
	}
	return out
}

// FromEnv infers the repos to check out from Prow job environment variables.
// The individual REPO_* and PULL_* variables are preferred; the serialized
// $JOB_SPEC is consulted when they are missing so that extra refs are
// picked up as well.
func FromEnv(lookup LookupFunc) (Spec, error) {
	owner, _ := lookup(RepoOwnerEnv)
	name, _ := lookup(RepoNameEnv)
	baseSHA, _ := lookup(PullBaseShaEnv)
	if owner != "" && name != "" && baseSHA != "" {
		r := Repo{Owner: owner, Name: name, Revision: baseSHA}
		if raw, ok := lookup(PullNumberEnv); ok && raw != "" {
			number, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("malformed $%s: %w", PullNumberEnv, err)
			}
			r.Pull = number
		}
		return Spec{r}, nil
	}

	raw, ok := lookup(JobSpecEnv)
	if !ok || raw == "" {
		return nil, ErrNoProwEnv
	}
	var spec jobSpec
	if err := json.Unmarshal([]byte(raw), &spec); err != nil {
		return nil, fmt.Errorf("malformed $%s: %w", JobSpecEnv, err)
	}
	var out Spec
	if spec.Refs != nil {
		out = append(out, spec.Refs.repo())
	}
	for _, extra := range spec.ExtraRefs {
		out = append(out, extra.repo())
	}
	if len(out) == 0 {
		return nil, ErrNoProwEnv
	}
	return out, nil
}
