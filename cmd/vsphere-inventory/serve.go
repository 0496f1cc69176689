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
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/alexandremahdhaoui/vsphere-inventory/internal/metrics"
	"github.com/alexandremahdhaoui/vsphere-inventory/internal/output"
	"github.com/alexandremahdhaoui/vsphere-inventory/internal/types"
	"github.com/alexandremahdhaoui/vsphere-inventory/internal/util/gracefulshutdown"
	"github.com/alexandremahdhaoui/vsphere-inventory/internal/util/httputil"
	"github.com/alexandremahdhaoui/vsphere-inventory/internal/util/tlsutil"
)

var errServe = errors.New("serve terminated with errors")

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Collect periodically and expose metrics and the last snapshot over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, log, err := setup(cmd)
			if err != nil {
				return err
			}

			return runServe(cmd.Context(), config, log)
		},
	}

	cmd.Flags().String(flagListen, ":9273", "address of the HTTP server")
	cmd.Flags().Duration(flagInterval, 5*time.Minute, "time between two collections")
	cmd.Flags().String(flagBasicAuthUsername, "", "protect /snapshot with basic authentication")
	cmd.Flags().String(flagBasicAuthPassword, "", "password of the /snapshot basic authentication")
	cmd.Flags().String(flagTLSCertFile, "", "serve HTTPS with this PEM certificate")
	cmd.Flags().String(flagTLSKeyFile, "", "PEM private key of --"+flagTLSCertFile)
	cmd.Flags().String(flagTLSClientAuth, "none", "client certificate policy: none, request or require")
	cmd.Flags().String(flagTLSClientCAFile, "", "PEM bundle used to verify client certificates")

	return cmd
}

func runServe(ctx context.Context, config *Config, log logr.Logger) error {
	tlsConfig, err := tlsutil.ServerConfig(config.Serve.TLS)
	if err != nil {
		return err
	}

	gs := gracefulshutdown.New(ctx, Name)
	ctx = gs.Context()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	client, err := connect(ctx, config, log, metrics.New(reg))
	if err != nil {
		gs.Shutdown(1)
		return err
	}

	defer closeClient(client)

	client.SetTargetHosts(config.Hosts)

	store := new(snapshotStore)

	// --------------------------------------------- Collector ------------------------------------------------------ //

	gs.Go("collector", func(ctx context.Context) error {
		return collectLoop(ctx, client, config.Serve.Interval.Duration, store)
	})

	// --------------------------------------------- Server --------------------------------------------------------- //

	httputil.Serve(gs, map[string]*http.Server{
		"exporter": {
			Addr:              config.Serve.Listen,
			Handler:           newHandler(reg, store, config.Serve.BasicAuth.Username, config.Serve.BasicAuth.Password),
			TLSConfig:         tlsConfig,
			ReadHeaderTimeout: time.Second,
		},
	})

	if code := gs.Wait(); code != 0 {
		return errServe
	}

	return nil
}

// ------------------------------------------------- Collector ------------------------------------------------------ //

// collector is satisfied by *inventory.Client.
type collector interface {
	Collect(ctx context.Context) (types.Snapshot, error)
}

// collectLoop collects once immediately, then on every tick, until ctx is done.
func collectLoop(ctx context.Context, c collector, interval time.Duration, store *snapshotStore) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		snapshot, err := c.Collect(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err != nil {
			return err
		}

		store.Store(snapshot)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

type snapshotStore struct {
	last atomic.Pointer[types.Snapshot]
}

func (s *snapshotStore) Store(snapshot types.Snapshot) {
	s.last.Store(&snapshot)
}

// Load returns the last stored snapshot, or false if none was stored yet.
func (s *snapshotStore) Load() (types.Snapshot, bool) {
	p := s.last.Load()
	if p == nil {
		return types.Snapshot{}, false
	}

	return *p, true
}

// ------------------------------------------------- Handler -------------------------------------------------------- //

func newHandler(gatherer prometheus.Gatherer, store *snapshotStore, username, password string) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	mux.Handle("GET /snapshot", httputil.BasicAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snapshot, ok := store.Load()
		if !ok {
			http.Error(w, `{"message":"no snapshot collected yet"}`, http.StatusServiceUnavailable)
			return
		}

		format := output.JSONFormat
		if q := r.URL.Query().Get("format"); q != "" {
			f, err := output.ParseFormat(q)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}

			format = f
		}

		w.Header().Set("Content-Type", "application/"+string(format))

		if err := output.Render(w, snapshot, format); err != nil {
			slog.ErrorContext(r.Context(), "rendering snapshot", "error", err.Error())
		}
	}), username, password))

	return mux
}
