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

package kube

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/kubeflow/papermill-job/pkg/version"

	// auth plugins for GKE and OIDC kubeconfigs
	_ "k8s.io/client-go/plugin/pkg/client/auth"
)

// inClusterConfig is swapped out in tests.
var inClusterConfig = rest.InClusterConfig

// LoadClusterConfig loads connection configuration for the cluster jobs are
// submitted to. With no explicit kubeconfig, context or master we prefer the
// in-cluster configuration and fall back to the default loading rules
// ($KUBECONFIG, ~/.kube/config) otherwise.
func LoadClusterConfig(masterURL, kubeconfig, context string) (*rest.Config, error) {
	if masterURL == "" && kubeconfig == "" && context == "" {
		cfg, err := inClusterConfig()
		if err == nil {
			logrus.Info("Using in-cluster config.")
			return withUserAgent(cfg), nil
		}
		logrus.WithError(err).Debug("Could not create in-cluster config (expected when running outside the cluster).")
	}

	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if kubeconfig != "" {
		rules = &clientcmd.ClientConfigLoadingRules{ExplicitPath: kubeconfig}
	}
	overrides := &clientcmd.ConfigOverrides{CurrentContext: context}
	if masterURL != "" {
		overrides.ClusterInfo.Server = masterURL
	}

	cfg, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides).ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("could not load client configuration: %w", err)
	}
	return withUserAgent(cfg), nil
}

func withUserAgent(cfg *rest.Config) *rest.Config {
	cfg.UserAgent = version.UserAgent()
	return cfg
}

// GetKubernetesClient builds a clientset from LoadClusterConfig.
func GetKubernetesClient(masterURL, kubeconfig, context string) (kubernetes.Interface, error) {
	cfg, err := LoadClusterConfig(masterURL, kubeconfig, context)
	if err != nil {
		return nil, err
	}
	client, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("create kubernetes client: %w", err)
	}
	logrus.WithField("host", cfg.Host).Info("Successfully constructed k8s client")
	return client, nil
}
