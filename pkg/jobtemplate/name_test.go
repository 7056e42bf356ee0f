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
	"regexp"
	"testing"
	"time"
)

var generatedName = regexp.MustCompile(`^xgboost-test-\d{6}-[0-9a-f]{3}$`)

func TestNamerFormat(t *testing.T) {
	n := Namer{
		Prefix: DefaultPrefix,
		Now:    func() time.Time { return time.Date(2020, 1, 2, 15, 4, 5, 0, time.UTC) },
		Hex:    func() string { return "abcdef" },
	}
	if got, want := n.Name(), "xgboost-test-150405-abc"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNewNamerUniqueWithinSecond(t *testing.T) {
	now := time.Now()
	n := NewNamer()
	n.Now = func() time.Time { return now }

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		name := n.Name()
		if !generatedName.MatchString(name) {
			t.Fatalf("generated name %q does not match %s", name, generatedName)
		}
		seen[name] = true
	}
	// 4096 possible suffixes; five draws all colliding is not plausible.
	if len(seen) < 2 {
		t.Errorf("expected distinct names within the same second, got %v", seen)
	}
}

func TestResolve(t *testing.T) {
	n := NewNamer()
	if got := n.Resolve("explicit"); got != "explicit" {
		t.Errorf("expected explicit name to win, got %q", got)
	}
	if got := n.Resolve(""); !generatedName.MatchString(got) {
		t.Errorf("expected a generated name, got %q", got)
	}
}
