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

package logrusutil

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestDefaultFieldsFormatter(t *testing.T) {
	testCases := []struct {
		description string
		entry       *logrus.Entry
		expected    string
	}{
		{
			description: "default fields are added",
			entry:       &logrus.Entry{Message: "message"},
			expected:    "level=panic msg=message component=papermill-job\n",
		},
		{
			description: "entry fields win over defaults",
			entry:       &logrus.Entry{Message: "message", Data: logrus.Fields{"component": "other"}},
			expected:    "level=panic msg=message component=other\n",
		},
		{
			description: "entry fields are kept",
			entry:       &logrus.Entry{Message: "message", Data: logrus.Fields{"job": "nb"}},
			expected:    "level=panic msg=message component=papermill-job job=nb\n",
		},
	}

	formatter := NewDefaultFieldsFormatter(&logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
	}, logrus.Fields{"component": "papermill-job"})

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			out, err := formatter.Format(tc.entry)
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if string(out) != tc.expected {
				t.Errorf("Expected '%s', got '%s'", tc.expected, string(out))
			}
		})
	}
}

func TestDefaultFieldsFormatterDoesNotMutateEntry(t *testing.T) {
	entry := &logrus.Entry{Message: "message", Data: logrus.Fields{"job": "nb"}}
	formatter := NewDefaultFieldsFormatter(nil, logrus.Fields{"component": "papermill-job"})
	if _, err := formatter.Format(entry); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, ok := entry.Data["component"]; ok {
		t.Errorf("Format added default fields to the caller's entry: %v", entry.Data)
	}
}

func TestLevelFromEnv(t *testing.T) {
	testCases := []struct {
		name     string
		env      map[string]string
		expected logrus.Level
	}{
		{
			name:     "unset",
			expected: logrus.InfoLevel,
		},
		{
			name:     "debug",
			env:      map[string]string{LevelEnv: "debug"},
			expected: logrus.DebugLevel,
		},
		{
			name:     "garbage",
			env:      map[string]string{LevelEnv: "loud"},
			expected: logrus.InfoLevel,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			lookup := func(key string) (string, bool) {
				v, ok := tc.env[key]
				return v, ok
			}
			if got := levelFromEnv(lookup); got != tc.expected {
				t.Errorf("expected level %v, got %v", tc.expected, got)
			}
		})
	}
}
