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
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"sigs.k8s.io/yaml"

	"github.com/alexandremahdhaoui/vsphere-inventory/internal/inventory"
	"github.com/alexandremahdhaoui/vsphere-inventory/internal/output"
	"github.com/alexandremahdhaoui/vsphere-inventory/internal/util/logging"
	"github.com/alexandremahdhaoui/vsphere-inventory/internal/util/tlsutil"
)

// EnvPrefix prefixes every environment variable overriding the configuration.
const EnvPrefix = "VSPHERE_INVENTORY_"

// Config holds the configuration of vsphere-inventory.
//
// Values are resolved in this order, last wins: defaults, configuration file, environment, command-line flags.
type Config struct {
	// Endpoint is the address of the vCenter or ESXi server.
	Endpoint string `json:"endpoint"`
	// Username used to login.
	Username string `json:"username"`
	// Password used to login. Prefer VSPHERE_INVENTORY_PASSWORD over storing it in a file.
	Password string `json:"password,omitempty"`
	// Insecure disables TLS certificate verification.
	Insecure bool `json:"insecure"`

	// Hosts are the DNS names of the hypervisor hosts to inventory, in output order.
	Hosts []string `json:"hosts"`

	// HostConcurrency is the number of hosts collected in parallel.
	HostConcurrency int `json:"hostConcurrency"`
	// VMConcurrency is the number of VMs of one host fetched in parallel.
	VMConcurrency int `json:"vmConcurrency"`
	// CallTimeout bounds every remote call. "0s" disables the timeout.
	CallTimeout Duration `json:"callTimeout"`
	// Retries is the number of times a failed remote call is retried.
	Retries int `json:"retries"`
	// RetryInterval is the delay before the first retry. It doubles on each retry.
	RetryInterval Duration `json:"retryInterval"`

	// Output is the snapshot format written by the collect command.
	Output string `json:"output"`
	// MetricsFile is where the collect command writes its metrics in the Prometheus textfile format.
	MetricsFile string `json:"metricsFile,omitempty"`

	// Serve configures the serve command.
	Serve ServeConfig `json:"serve"`

	// Log configures logging.
	Log LogConfig `json:"log"`
}

// ServeConfig configures the periodic exporter.
type ServeConfig struct {
	// Listen is the address of the HTTP server.
	Listen string `json:"listen"`
	// Interval is the time between two collections.
	Interval Duration `json:"interval"`
	// BasicAuth protects the /snapshot endpoint when Username is set.
	BasicAuth struct {
		Username string `json:"username,omitempty"`
		Password string `json:"password,omitempty"`
	} `json:"basicAuth"`
	// TLS enables HTTPS when a certificate is configured.
	TLS tlsutil.Config `json:"tls"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level"`
	// Development switches to human-readable output.
	Development bool `json:"development"`
}

// NewDefaultConfig returns a Config with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		HostConcurrency: inventory.DefaultHostConcurrency,
		VMConcurrency:   inventory.DefaultVMConcurrency,
		CallTimeout:     Duration{inventory.DefaultCallTimeout},
		RetryInterval:   Duration{time.Second},
		Output:          string(output.JSONFormat),
		Serve: ServeConfig{
			Listen:   ":9273",
			Interval: Duration{5 * time.Minute},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads the configuration file at configPath, if any, over the defaults and applies environment
// overrides.
//
// The file may be YAML or JSON. The result is not validated, as flags may still override it.
func LoadConfig(configPath string) (*Config, error) {
	config := NewDefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configPath, err)
		}

		if err := yaml.UnmarshalStrict(data, config); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", configPath, err)
		}
	}

	if err := config.applyEnvironmentOverrides(); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	return config, nil
}

// applyEnvironmentOverrides applies VSPHERE_INVENTORY_* environment variables to the config.
func (c *Config) applyEnvironmentOverrides() error {
	var errs []error

	if val := os.Getenv(EnvPrefix + "ENDPOINT"); val != "" {
		c.Endpoint = val
	}
	if val := os.Getenv(EnvPrefix + "USERNAME"); val != "" {
		c.Username = val
	}
	if val := os.Getenv(EnvPrefix + "PASSWORD"); val != "" {
		c.Password = val
	}
	if val := os.Getenv(EnvPrefix + "INSECURE"); val != "" {
		c.Insecure = isTrue(val)
	}
	if val := os.Getenv(EnvPrefix + "HOSTS"); val != "" {
		c.Hosts = splitList(val)
	}
	if val := os.Getenv(EnvPrefix + "HOST_CONCURRENCY"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sHOST_CONCURRENCY: %w", EnvPrefix, err))
		}
		c.HostConcurrency = n
	}
	if val := os.Getenv(EnvPrefix + "VM_CONCURRENCY"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sVM_CONCURRENCY: %w", EnvPrefix, err))
		}
		c.VMConcurrency = n
	}
	if val := os.Getenv(EnvPrefix + "RETRIES"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sRETRIES: %w", EnvPrefix, err))
		}
		c.Retries = n
	}
	if val := os.Getenv(EnvPrefix + "LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv(EnvPrefix + "LOG_DEVELOPMENT"); val != "" {
		c.Log.Development = isTrue(val)
	}

	return errors.Join(errs...)
}

// applyFlags applies every flag explicitly set on the command line to the config.
func (c *Config) applyFlags(fs *pflag.FlagSet) error {
	var errs []error

	fs.Visit(func(f *pflag.Flag) {
		var err error

		switch f.Name {
		case flagEndpoint:
			c.Endpoint = f.Value.String()
		case flagUsername:
			c.Username = f.Value.String()
		case flagPassword:
			c.Password = f.Value.String()
		case flagInsecure:
			c.Insecure, err = fs.GetBool(f.Name)
		case flagHost:
			c.Hosts, err = fs.GetStringArray(f.Name)
		case flagHostConcurrency:
			c.HostConcurrency, err = fs.GetInt(f.Name)
		case flagVMConcurrency:
			c.VMConcurrency, err = fs.GetInt(f.Name)
		case flagCallTimeout:
			c.CallTimeout.Duration, err = fs.GetDuration(f.Name)
		case flagRetries:
			c.Retries, err = fs.GetInt(f.Name)
		case flagRetryInterval:
			c.RetryInterval.Duration, err = fs.GetDuration(f.Name)
		case flagOutput:
			c.Output = f.Value.String()
		case flagMetricsFile:
			c.MetricsFile = f.Value.String()
		case flagListen:
			c.Serve.Listen = f.Value.String()
		case flagInterval:
			c.Serve.Interval.Duration, err = fs.GetDuration(f.Name)
		case flagBasicAuthUsername:
			c.Serve.BasicAuth.Username = f.Value.String()
		case flagBasicAuthPassword:
			c.Serve.BasicAuth.Password = f.Value.String()
		case flagTLSCertFile:
			c.Serve.TLS.CertFile = f.Value.String()
		case flagTLSKeyFile:
			c.Serve.TLS.KeyFile = f.Value.String()
		case flagTLSClientAuth:
			c.Serve.TLS.ClientAuth = f.Value.String()
		case flagTLSClientCAFile:
			c.Serve.TLS.ClientCAFile = f.Value.String()
		case flagLogLevel:
			c.Log.Level = f.Value.String()
		case flagLogDevelopment:
			c.Log.Development, err = fs.GetBool(f.Name)
		}

		if err != nil {
			errs = append(errs, fmt.Errorf("flag --%s: %w", f.Name, err))
		}
	})

	return errors.Join(errs...)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Endpoint == "" {
		errs = append(errs, errors.New("endpoint cannot be empty"))
	}

	if c.Username == "" {
		errs = append(errs, errors.New("username cannot be empty"))
	}

	if len(c.Hosts) == 0 {
		errs = append(errs, errors.New("at least one host must be configured"))
	}

	for i, host := range c.Hosts {
		if strings.TrimSpace(host) == "" {
			errs = append(errs, fmt.Errorf("hosts[%d] cannot be empty", i))
		}
	}

	if c.HostConcurrency < 1 {
		errs = append(errs, errors.New("hostConcurrency must be at least 1"))
	}

	if c.VMConcurrency < 1 {
		errs = append(errs, errors.New("vmConcurrency must be at least 1"))
	}

	if c.CallTimeout.Duration < 0 {
		errs = append(errs, errors.New("callTimeout cannot be negative"))
	}

	if c.Retries < 0 {
		errs = append(errs, errors.New("retries cannot be negative"))
	}

	if c.Retries > 0 && c.RetryInterval.Duration <= 0 {
		errs = append(errs, errors.New("retryInterval must be positive when retries are enabled"))
	}

	if _, err := output.ParseFormat(c.Output); err != nil {
		errs = append(errs, err)
	}

	if c.Serve.Listen == "" {
		errs = append(errs, errors.New("serve.listen cannot be empty"))
	}

	if c.Serve.Interval.Duration <= 0 {
		errs = append(errs, errors.New("serve.interval must be positive"))
	}

	if err := c.Serve.TLS.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("serve.tls: %w", err))
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Duration is a time.Duration read from and written as a string such as "30s".
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string such as \"30s\": %w", err)
	}

	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}

	d.Duration = v

	return nil
}

func isTrue(val string) bool {
	return val == "true" || val == "1" || val == "yes"
}

func splitList(val string) []string {
	var out []string

	for _, s := range strings.Split(val, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}

	return out
}
