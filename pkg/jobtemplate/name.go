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

package jobtemplate

import (
	"time"

	"github.com/google/uuid"
)

// DefaultPrefix starts every generated job name.
const DefaultPrefix = "xgboost-test"

// Namer generates job names of the form <prefix>-<HHMMSS>-<3 hex chars>.
// The random suffix keeps runs started in the same second apart.
type Namer struct {
	Prefix string
	Now    func() time.Time
	Hex    func() string
}

// NewNamer returns a Namer using the wall clock and a random UUID.
func NewNamer() Namer {
	return Namer{
		Prefix: DefaultPrefix,
		Now:    time.Now,
		Hex:    func() string { return uuid.NewString() },
	}
}

// Name returns a fresh job name.
func (n Namer) Name() string {
	return n.Prefix + "-" + n.Now().Format("150405") + "-" + n.Hex()[:3]
}

// Resolve returns name when set and a generated name otherwise.
func (n Namer) Resolve(name string) string {
	if name != "" {
		return name
	}
	return n.Name()
}
