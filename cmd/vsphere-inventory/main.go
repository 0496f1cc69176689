/*
Copyright 2026 Alexandre Mahdhaoui

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

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alexandremahdhaoui/vsphere-inventory/internal/inventory"
	"github.com/alexandremahdhaoui/vsphere-inventory/internal/metrics"
	"github.com/alexandremahdhaoui/vsphere-inventory/internal/output"
	"github.com/alexandremahdhaoui/vsphere-inventory/internal/util/gracefulshutdown"
	"github.com/alexandremahdhaoui/vsphere-inventory/internal/util/logging"
)

const Name = "vsphere-inventory"

var (
	Version        = "dev" //nolint:gochecknoglobals // set by ldflags
	CommitSHA      = "n/a" //nolint:gochecknoglobals // set by ldflags
	BuildTimestamp = "n/a" //nolint:gochecknoglobals // set by ldflags
)

const (
	flagConfig            = "config"
	flagEndpoint          = "endpoint"
	flagUsername          = "username"
	flagPassword          = "password"
	flagInsecure          = "insecure"
	flagHost              = "host"
	flagHostConcurrency   = "host-concurrency"
	flagVMConcurrency     = "vm-concurrency"
	flagCallTimeout       = "call-timeout"
	flagRetries           = "retries"
	flagRetryInterval     = "retry-interval"
	flagOutput            = "output"
	flagMetricsFile       = "metrics-file"
	flagListen            = "listen"
	flagInterval          = "interval"
	flagBasicAuthUsername = "basic-auth-username"
	flagBasicAuthPassword = "basic-auth-password"
	flagTLSCertFile       = "tls-cert-file"
	flagTLSKeyFile        = "tls-key-file"
	flagTLSClientAuth     = "tls-client-auth"
	flagTLSClientCAFile   = "tls-client-ca-file"
	flagLogLevel          = "log-level"
	flagLogDevelopment    = "log-development"
)

var errInvalidConfig = errors.New("invalid configuration")

// ------------------------------------------------- Main ----------------------------------------------------------- //

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		slog.Error("command failed", "error", err.Error())
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           Name,
		Short:         "Inventory hypervisor hosts and virtual machines of a vSphere management endpoint",
		Version:       fmt.Sprintf("%s (%s) %s", Version, CommitSHA, BuildTimestamp),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	fs := root.PersistentFlags()
	fs.String(flagConfig, "", "path to a YAML or JSON configuration file")
	addConnectionFlags(fs)
	fs.String(flagLogLevel, "info", "log level: debug, info, warn or error")
	fs.Bool(flagLogDevelopment, false, "human-readable logs")

	root.AddCommand(newCollectCommand(), newServeCommand())

	return root
}

func addConnectionFlags(fs *pflag.FlagSet) {
	fs.String(flagEndpoint, "", "vCenter or ESXi address, e.g. vcenter.example.com")
	fs.String(flagUsername, "", "username used to login")
	fs.String(flagPassword, "", "password used to login (prefer "+EnvPrefix+"PASSWORD)")
	fs.Bool(flagInsecure, false, "skip TLS certificate verification")
	fs.StringArray(flagHost, nil, "DNS name of a hypervisor host to inventory, repeatable")
	fs.Int(flagHostConcurrency, inventory.DefaultHostConcurrency, "number of hosts collected in parallel")
	fs.Int(flagVMConcurrency, inventory.DefaultVMConcurrency, "number of VMs per host fetched in parallel")
	fs.Duration(flagCallTimeout, inventory.DefaultCallTimeout, "timeout of every remote call, 0 disables it")
	fs.Int(flagRetries, 0, "number of times a failed remote call is retried")
	fs.Duration(flagRetryInterval, time.Second, "delay before the first retry, doubled on each retry")
}

// ------------------------------------------------- Collect -------------------------------------------------------- //

func newCollectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect one snapshot and write it to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, log, err := setup(cmd)
			if err != nil {
				return err
			}

			return runCollect(cmd, config, log)
		},
	}

	cmd.Flags().String(flagOutput, string(output.JSONFormat), fmt.Sprintf("snapshot format, one of %v", output.Formats()))
	cmd.Flags().String(flagMetricsFile, "", "write metrics to this file in the Prometheus textfile format")

	return cmd
}

func runCollect(cmd *cobra.Command, config *Config, log logr.Logger) error {
	gs := gracefulshutdown.New(cmd.Context(), Name)
	defer gs.Shutdown(0)

	ctx := gs.Context()

	format, err := output.ParseFormat(config.Output)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()

	client, err := connect(ctx, config, log, metrics.New(reg))
	if err != nil {
		return err
	}

	defer closeClient(client)

	client.SetTargetHosts(config.Hosts)

	snapshot, err := client.Collect(ctx)
	if err != nil {
		return err
	}

	if err := output.Render(cmd.OutOrStdout(), snapshot, format); err != nil {
		return err
	}

	if config.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(config.MetricsFile, reg); err != nil {
			return fmt.Errorf("writing metrics file %s: %w", config.MetricsFile, err)
		}
	}

	return nil
}

// ------------------------------------------------- Helpers -------------------------------------------------------- //

// setup resolves the configuration and initializes logging.
func setup(cmd *cobra.Command) (*Config, logr.Logger, error) {
	configPath, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return nil, logr.Discard(), err
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, logr.Discard(), err
	}

	if err := config.applyFlags(cmd.Flags()); err != nil {
		return nil, logr.Discard(), err
	}

	if err := config.Validate(); err != nil {
		return nil, logr.Discard(), errors.Join(err, errInvalidConfig)
	}

	level, _ := logging.ParseLevel(config.Log.Level)
	log := logging.Setup(logging.Options{
		Development: config.Log.Development,
		Level:       level,
		Output:      cmd.ErrOrStderr(),
	})

	log.Info("starting", "name", Name, "version", Version, "commit", CommitSHA, "buildTimestamp", BuildTimestamp)

	return config, log, nil
}

func connect(ctx context.Context, config *Config, log logr.Logger, m *metrics.Metrics) (*inventory.Client, error) {
	return inventory.Connect(ctx,
		inventory.Config{
			Endpoint: config.Endpoint,
			Username: config.Username,
			Password: config.Password,
			Insecure: config.Insecure,
		},
		inventory.WithLogger(log),
		inventory.WithMetrics(m),
		inventory.WithCallTimeout(config.CallTimeout.Duration),
		inventory.WithConcurrency(config.HostConcurrency, config.VMConcurrency),
		inventory.WithRetries(config.Retries, config.RetryInterval.Duration),
	)
}

// closeClient logs out with a fresh context, since the shared one is usually cancelled by then.
func closeClient(client *inventory.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), inventory.DefaultCallTimeout)
	defer cancel()

	if err := client.Close(ctx); err != nil {
		slog.Warn("logging out", "error", err.Error())
	}
}
