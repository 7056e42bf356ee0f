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

// Package repos models the set of repositories a notebook job checks out
// before it runs, and the single flag string used to hand that set to the
// checkout init container.
package repos

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"k8s.io/apimachinery/pkg/util/sets"
)

var _ pflag.Value = (*Spec)(nil)

// Repo identifies one repository and the revision to check out.
type Repo struct {
	Owner string
	Name  string
	// Revision is a commit SHA or branch; empty means the default branch.
	Revision string
	// Pull is the pull request merged on top of Revision, zero for none.
	Pull int
}

// String encodes the repo as owner/name[@revision[:pull]].
func (r Repo) String() string {
	s := r.Owner + "/" + r.Name
	if r.Revision == "" && r.Pull == 0 {
		return s
	}
	s += "@" + r.Revision
	if r.Pull != 0 {
		s += ":" + strconv.Itoa(r.Pull)
	}
	return s
}

// Spec is an ordered list of repos.
type Spec []Repo

// String joins the repos with commas, the format checkout_repos.sh expects
// for its --repos flag.
func (s Spec) String() string {
	parts := make([]string, 0, len(s))
	for _, r := range s {
		parts = append(parts, r.String())
	}
	return strings.Join(parts, ",")
}

// Set parses value and appends its repos, so a Spec can be used as a flag.Value.
func (s *Spec) Set(value string) error {
	parsed, err := Parse(value)
	if err != nil {
		return err
	}
	*s = append(*s, parsed...)
	return nil
}

// Type implements pflag.Value.
func (s *Spec) Type() string {
	return "repos"
}

// Validate ensures no repo is listed more than once.
func (s Spec) Validate() error {
	if len(s) == 0 {
		return errors.New("no repos specified")
	}
	seen := sets.NewString()
	for _, r := range s {
		key := r.Owner + "/" + r.Name
		if seen.Has(key) {
			return fmt.Errorf("repo %s provided more than once", key)
		}
		seen.Insert(key)
	}
	return nil
}

// Parse decodes a comma separated list of repos. Each entry has the form
//   owner/name[@revision[:pull]]
// Empty entries and a trailing "@" are errors, so every accepted entry
// encodes back to itself.
func Parse(value string) (Spec, error) {
	if strings.TrimSpace(value) == "" {
		return nil, fmt.Errorf("no repos found in %q", value)
	}
	var spec Spec
	for i, raw := range strings.Split(value, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil, fmt.Errorf("empty entry %d in %q", i, value)
		}
		r, err := parseRepo(raw)
		if err != nil {
			return nil, err
		}
		spec = append(spec, r)
	}
	return spec, nil
}

func parseRepo(raw string) (Repo, error) {
	name, revision := raw, ""
	if i := strings.Index(raw, "@"); i >= 0 {
		name, revision = raw[:i], raw[i+1:]
		if revision == "" {
			return Repo{}, fmt.Errorf("repo %q: empty revision after @", raw)
		}
	}

	nameParts := strings.Split(name, "/")
	if len(nameParts) != 2 || nameParts[0] == "" || nameParts[1] == "" {
		return Repo{}, fmt.Errorf("repo %q: expected owner/name", raw)
	}
	r := Repo{Owner: nameParts[0], Name: nameParts[1], Revision: revision}

	if i := strings.LastIndex(revision, ":"); i >= 0 {
		pull, err := strconv.Atoi(revision[i+1:])
		if err != nil || pull <= 0 {
			return Repo{}, fmt.Errorf("repo %q: invalid pull number %q", raw, revision[i+1:])
		}
		r.Revision, r.Pull = revision[:i], pull
	}
	return r, nil
}
