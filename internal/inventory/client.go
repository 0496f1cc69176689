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

// Package inventory collects hosts and virtual machines from a vSphere management endpoint.
package inventory

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-logr/logr"

	"github.com/alexandremahdhaoui/vsphere-inventory/internal/adapter"
	"github.com/alexandremahdhaoui/vsphere-inventory/internal/metrics"
)

const (
	DefaultCallTimeout     = 30 * time.Second
	DefaultHostConcurrency = 1
	DefaultVMConcurrency   = 1
)

// Names of the remote operations, used as metric labels.
const (
	opRetrieveServiceContent = "RetrieveServiceContent"
	opLogin                  = "Login"
	opLogout                 = "Logout"
	opFindByDnsName          = "FindByDnsName"
	opRetrieveProperties     = "RetrieveProperties"
)

var (
	// ErrConnection is returned by Connect when the endpoint cannot be reached or does not behave like a vSphere
	// management endpoint.
	ErrConnection = errors.New("connecting to management endpoint")
	// ErrAuthentication is returned by Connect when the credentials are rejected.
	ErrAuthentication = errors.New("authenticating to management endpoint")
	// ErrNoTargetHosts is returned by Collect when SetTargetHosts was never called.
	ErrNoTargetHosts = errors.New("target hosts must be set before collecting")

	errEmptyEndpoint = errors.New("endpoint must not be empty")
)

// Config holds what is needed to open a session.
type Config struct {
	// Endpoint is the address of the vCenter or ESXi server, e.g. "vcenter.example.com".
	Endpoint string
	// Username used to login.
	Username string
	// Password used to login.
	Password string
	// Insecure disables TLS certificate verification.
	Insecure bool
}

// --------------------------------------------------- OPTIONS ------------------------------------------------------ //

// Option configures a Client.
type Option func(*Client)

// WithTransport overrides the transport. The default is the govmomi SOAP transport.
func WithTransport(t adapter.Transport) Option {
	return func(c *Client) {
		c.transport = t
	}
}

// WithLogger sets the logger.
func WithLogger(log logr.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithMetrics sets the Prometheus collectors the client records to.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithCallTimeout bounds every remote call. A zero or negative value disables the timeout.
func WithCallTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.callTimeout = d
	}
}

// WithConcurrency sets how many hosts, and how many VMs per host, are fetched in parallel.
// Values lower than 1 are ignored.
func WithConcurrency(hosts, vms int) Option {
	return func(c *Client) {
		if hosts > 0 {
			c.hostConcurrency = hosts
		}

		if vms > 0 {
			c.vmConcurrency = vms
		}
	}
}

// WithRetries retries a failed remote call up to n times, waiting an exponentially growing delay starting at
// interval between attempts. Each attempt gets its own call timeout. Rejected credentials are never retried.
func WithRetries(n int, interval time.Duration) Option {
	return func(c *Client) {
		c.retries = n
		c.retryInterval = interval
	}
}

// WithClock overrides the function used to timestamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// --------------------------------------------------- CLIENT ------------------------------------------------------- //

// Client is an authenticated session against a vSphere management endpoint.
//
// Collect may be called repeatedly and concurrently with SetTargetHosts.
type Client struct {
	transport adapter.Transport
	content   adapter.ServiceContent

	log             logr.Logger
	metrics         *metrics.Metrics
	callTimeout     time.Duration
	hostConcurrency int
	vmConcurrency   int
	retries         int
	retryInterval   time.Duration
	now             func() time.Time

	mu         sync.RWMutex
	hosts      []string
	targetsSet bool

	closeOnce sync.Once
	closeErr  error
}

// Connect retrieves the service content of the endpoint and logs in.
//
// It fails with ErrConnection or ErrAuthentication; no client is returned on failure.
func Connect(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	c := &Client{
		log:             logr.FromSlogHandler(slog.Default().Handler()),
		callTimeout:     DefaultCallTimeout,
		hostConcurrency: DefaultHostConcurrency,
		vmConcurrency:   DefaultVMConcurrency,
		now:             time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.transport == nil {
		if cfg.Endpoint == "" {
			return nil, errors.Join(errEmptyEndpoint, ErrConnection)
		}

		t, err := adapter.NewGovmomiTransport(cfg.Endpoint, cfg.Insecure)
		if err != nil {
			return nil, errors.Join(err, ErrConnection)
		}

		c.transport = t
	}

	if err := c.call(ctx, opRetrieveServiceContent, func(ctx context.Context) error {
		var err error
		c.content, err = c.transport.RetrieveServiceContent(ctx)

		return err
	}); err != nil {
		return nil, errors.Join(err, ErrConnection)
	}

	if err := c.call(ctx, opLogin, func(ctx context.Context) error {
		return c.transport.Login(ctx, c.content.SessionManager, cfg.Username, cfg.Password)
	}); err != nil {
		if errors.Is(err, adapter.ErrLoginRejected) {
			return nil, errors.Join(err, ErrAuthentication)
		}

		return nil, errors.Join(err, ErrConnection)
	}

	c.log.Info("connected to management endpoint",
		"endpoint", cfg.Endpoint,
		"username", cfg.Username,
		"product", c.content.About.FullName,
		"apiVersion", c.content.About.ApiVersion,
	)

	return c, nil
}

// ServiceContent returns the sub-service references advertised at connect time.
func (c *Client) ServiceContent() adapter.ServiceContent {
	return c.content
}

// SetTargetHosts records the ordered host identifiers Collect enumerates. Identifiers are not validated.
func (c *Client) SetTargetHosts(hosts []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hosts = append(make([]string, 0, len(hosts)), hosts...)
	c.targetsSet = true
}

// TargetHosts returns a copy of the configured host identifiers.
func (c *Client) TargetHosts() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append(make([]string, 0, len(c.hosts)), c.hosts...)
}

// Close logs out. Subsequent calls return the result of the first one.
func (c *Client) Close(ctx context.Context) error {
	c.closeOnce.Do(func() {
		c.closeErr = c.call(ctx, opLogout, func(ctx context.Context) error {
			return c.transport.Logout(ctx, c.content.SessionManager)
		})
	})

	return c.closeErr
}

// call runs one remote operation, retrying it if configured.
func (c *Client) call(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	if c.retries <= 0 {
		return c.attempt(ctx, operation, fn)
	}

	b := backoff.NewExponentialBackOff()
	if c.retryInterval > 0 {
		b.InitialInterval = c.retryInterval
	}

	b.Multiplier = 2
	b.MaxElapsedTime = 0 // bounded by the number of retries.

	return backoff.Retry(func() error {
		err := c.attempt(ctx, operation, fn)
		if err == nil {
			return nil
		}

		if errors.Is(err, adapter.ErrLoginRejected) || ctx.Err() != nil {
			return backoff.Permanent(err)
		}

		c.log.V(1).Info("remote call failed", "operation", operation, "error", err.Error())

		return err
	}, backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.retries)), ctx))
}

// attempt runs fn once under the call timeout and records its duration.
func (c *Client) attempt(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	if c.callTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, c.callTimeout)
		defer cancel()
	}

	start := time.Now()
	err := fn(ctx)
	c.metrics.ObserveCall(operation, time.Since(start), err)

	return err
}
