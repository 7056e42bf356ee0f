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

// papermill-job runs a notebook with papermill as a Kubernetes Job, waits
// for the job to finish and exits non-zero unless it completed.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"k8s.io/client-go/kubernetes"

	"github.com/kubeflow/papermill-job/pkg/flagutil"
	"github.com/kubeflow/papermill-job/pkg/jobtemplate"
	"github.com/kubeflow/papermill-job/pkg/logrusutil"
	"github.com/kubeflow/papermill-job/pkg/papermill"
	"github.com/kubeflow/papermill-job/pkg/repos"
	"github.com/kubeflow/papermill-job/pkg/version"
)

const (
	artifactsEnv = "ARTIFACTS"
	buildIDEnv   = "BUILD_ID"
)

type options struct {
	name         string
	namespace    string
	repos        repos.Spec
	image        string
	jobTemplate  string
	timeout      time.Duration
	pollInterval time.Duration

	artifacts      string
	pushgatewayURL string
	buildID        string
	dryRun         bool

	kubernetes flagutil.KubernetesOptions
	storage    flagutil.StorageClientOptions
}

func (o *options) AddFlags(fs *flag.FlagSet) {
	fs.StringVar(&o.name, "name", "", "Name of the job. Generated as xgboost-test-<HHMMSS>-<hex> when empty.")
	fs.StringVar(&o.namespace, "namespace", "", "Namespace to run the job in.")
	fs.Var(&o.repos, "repos", "Comma separated repos to check out, as owner/name[@revision[:pull]]. Inferred from the Prow environment when unset.")
	fs.StringVar(&o.image, "image", "", "Image that executes the notebook.")
	fs.StringVar(&o.jobTemplate, "job-template", papermill.DefaultTemplatePath, "Path to the Job manifest to patch and submit.")
	fs.DurationVar(&o.timeout, "timeout", papermill.DefaultTimeout, "How long to wait for the job to finish.")
	fs.DurationVar(&o.pollInterval, "poll-interval", papermill.DefaultPollInterval, "How often to check on the job.")
	fs.StringVar(&o.artifacts, "artifacts", "", "Local directory or bucket URL to write started.json, finished.json and job.yaml to. Defaults to $ARTIFACTS.")
	fs.StringVar(&o.pushgatewayURL, "pushgateway-url", "", "Prometheus Pushgateway to push run metrics to.")
	fs.BoolVar(&o.dryRun, "dry-run", false, "Print the job instead of submitting it.")
	o.kubernetes.AddFlags(fs)
	o.storage.AddFlags(fs)
}

// complete fills in everything not given on the command line from the environment.
func (o *options) complete(lookup repos.LookupFunc) error {
	if len(o.repos) == 0 {
		spec, err := repos.FromEnv(lookup)
		if err != nil {
			return fmt.Errorf("--repos was not set and could not be inferred: %w", err)
		}
		logrus.Infof("Inferred repos %s from the environment.", spec)
		o.repos = spec
	}
	if o.artifacts == "" {
		if dir, ok := lookup(artifactsEnv); ok {
			o.artifacts = dir
		}
	}
	if id, ok := lookup(buildIDEnv); ok && id != "" {
		o.buildID = id
	} else {
		node, err := snowflake.NewNode(1)
		if err != nil {
			return fmt.Errorf("failed to register snowflake node: %w", err)
		}
		o.buildID = node.Generate().String()
	}
	return nil
}

func (o *options) Validate() error {
	if o.timeout <= 0 {
		return errors.New("--timeout must be positive")
	}
	if o.pollInterval <= 0 {
		return errors.New("--poll-interval must be positive")
	}
	if o.pushgatewayURL != "" {
		if _, err := url.ParseRequestURI(o.pushgatewayURL); err != nil {
			return fmt.Errorf("invalid --pushgateway-url: %w", err)
		}
	}
	if err := o.runOptions().Validate(); err != nil {
		return err
	}
	if err := o.kubernetes.Validate(o.dryRun); err != nil {
		return err
	}
	return o.storage.Validate(o.dryRun)
}

func (o *options) runOptions() papermill.Options {
	return papermill.Options{
		Name:         o.name,
		Namespace:    o.namespace,
		Repos:        o.repos,
		Image:        o.image,
		TemplatePath: o.jobTemplate,
	}
}

func newCommand(lookup repos.LookupFunc) *cobra.Command {
	o := &options{}
	fs := flag.NewFlagSet(version.Name, flag.ContinueOnError)
	o.AddFlags(fs)

	cmd := &cobra.Command{
		Use:           version.Name,
		Short:         "Run a notebook with papermill as a Kubernetes Job and wait for it to finish",
		Version:       version.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := o.complete(lookup); err != nil {
				return err
			}
			if err := o.Validate(); err != nil {
				return fmt.Errorf("invalid options: %w", err)
			}
			return run(context.Background(), cmd.OutOrStdout(), o)
		},
	}
	cmd.Flags().AddGoFlagSet(fs)
	return cmd
}

func run(ctx context.Context, out io.Writer, o *options) error {
	if o.dryRun {
		runner := papermill.NewRunner(nil)
		runner.BuildID = o.buildID
		job, err := runner.Build(o.runOptions())
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(out, jobtemplate.Manifest(job))
		return err
	}

	client, err := o.kubernetes.Client(o.dryRun)
	if err != nil {
		return err
	}
	return submit(ctx, client, o)
}

// submit runs the job on client and pushes metrics for every attempt,
// including ones where the job could not be created.
func submit(ctx context.Context, client kubernetes.Interface, o *options) error {
	runner := papermill.NewRunner(client)
	runner.Timeout = o.timeout
	runner.PollInterval = o.pollInterval
	runner.BuildID = o.buildID
	if o.artifacts != "" {
		opener, err := o.storage.StorageClient(ctx)
		if err != nil {
			return err
		}
		runner.Artifacts = papermill.NewArtifacts(opener, o.artifacts, o.repos)
	}
	if o.pushgatewayURL != "" {
		runner.Metrics = papermill.NewMetrics()
	}

	runOptions := o.runOptions()
	runOptions.Name = runner.Namer.Resolve(runOptions.Name)
	job, err := runner.Run(ctx, runOptions)
	if runner.Metrics != nil {
		if pushErr := runner.Metrics.Push(o.pushgatewayURL, runOptions.Name); pushErr != nil {
			logrus.WithError(pushErr).Warn("Failed to push metrics.")
		}
	}
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"job": job.Name, "namespace": job.Namespace}).Info("Job completed.")
	return nil
}

func main() {
	logrusutil.ComponentInit(version.Name)
	if err := newCommand(os.LookupEnv).Execute(); err != nil {
		logrus.WithError(err).Fatal("Notebook job did not succeed.")
	}
}
