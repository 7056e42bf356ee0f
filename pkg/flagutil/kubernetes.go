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

// Package flagutil contains option structs shared by the papermill-job
// command and anything else that needs to reach the cluster or artifact storage.
package flagutil

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"

	"k8s.io/client-go/kubernetes"

	"github.com/kubeflow/papermill-job/pkg/kube"
)

// KubernetesOptions holds options for interacting with the cluster that
// runs notebook jobs.
type KubernetesOptions struct {
	kubeconfig string
	context    string
	masterURL  string

	// resolved lazily and cached
	client kubernetes.Interface
}

// AddFlags injects Kubernetes options into the given FlagSet.
func (o *KubernetesOptions) AddFlags(fs *flag.FlagSet) {
	fs.StringVar(&o.kubeconfig, "kubeconfig", "", "Path to .kube/config file. If empty, uses the in-cluster config or $KUBECONFIG.")
	fs.StringVar(&o.context, "context", "", "Kubeconfig context to use. Defaults to the current context.")
	fs.StringVar(&o.masterURL, "master", "", "Address of the Kubernetes API server. Overrides any value in the kubeconfig.")
}

// Validate validates Kubernetes options.
func (o *KubernetesOptions) Validate(dryRun bool) error {
	if o.kubeconfig != "" {
		if _, err := os.Stat(o.kubeconfig); err != nil {
			return fmt.Errorf("error accessing --kubeconfig: %w", err)
		}
	}
	if o.masterURL != "" {
		if _, err := url.ParseRequestURI(o.masterURL); err != nil {
			return fmt.Errorf("invalid --master URL %q: %w", o.masterURL, err)
		}
	}
	return nil
}

// Client returns a clientset for the configured cluster.
func (o *KubernetesOptions) Client(dryRun bool) (kubernetes.Interface, error) {
	if dryRun {
		return nil, errors.New("no kubernetes client is created in dry-run mode")
	}
	if o.client != nil {
		return o.client, nil
	}
	client, err := kube.GetKubernetesClient(o.masterURL, o.kubeconfig, o.context)
	if err != nil {
		return nil, fmt.Errorf("load --kubeconfig=%q --context=%q --master=%q: %w", o.kubeconfig, o.context, o.masterURL, err)
	}
	o.client = client
	return client, nil
}
