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

// Package version holds variables that identify the papermill-job binary.
package version

var (
	// Name is the colloquial identifier for the compiled binary
	Name = "papermill-job"
	// Version is a concatenation of the build date and commit SHA,
	// set with -ldflags at link time.
	Version = "0"
)

// UserAgent is sent with every request made to the API server.
func UserAgent() string {
	return Name + "/" + Version
}
