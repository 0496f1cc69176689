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

//go:build unit

package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexandremahdhaoui/vsphere-inventory/internal/inventory"
	"github.com/alexandremahdhaoui/vsphere-inventory/internal/metrics"
	"github.com/alexandremahdhaoui/vsphere-inventory/internal/types"
)

func newSnapshot() types.Snapshot {
	return types.Snapshot{
		ID:          uuid.New(),
		CollectedAt: time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC),
		Hosts:       []types.HostRecord{{Ref: "host-10", Name: "esx1.example.com", OSName: types.HostOSName}},
		VMs:         []types.VMRecord{{Ref: "vm-1", Name: "web-01", HostedOn: "esx1"}},
	}
}

type fakeCollector struct {
	calls   int
	onCall  func(calls int)
	err     error
	results types.Snapshot
}

func (f *fakeCollector) Collect(context.Context) (types.Snapshot, error) {
	f.calls++
	if f.onCall != nil {
		f.onCall(f.calls)
	}

	return f.results, f.err
}

func TestCollectLoop(t *testing.T) {
	t.Run("StoresSnapshotsUntilCancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		c := &fakeCollector{
			results: newSnapshot(),
			onCall: func(calls int) {
				if calls == 3 {
					cancel()
				}
			},
		}
		store := new(snapshotStore)

		err := collectLoop(ctx, c, time.Millisecond, store)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 3, c.calls)

		snapshot, ok := store.Load()
		require.True(t, ok)
		assert.Equal(t, c.results, snapshot)
	})

	t.Run("CollectError", func(t *testing.T) {
		c := &fakeCollector{err: inventory.ErrNoTargetHosts}
		store := new(snapshotStore)

		err := collectLoop(context.Background(), c, time.Millisecond, store)
		assert.ErrorIs(t, err, inventory.ErrNoTargetHosts)
		assert.Equal(t, 1, c.calls)

		_, ok := store.Load()
		assert.False(t, ok)
	})
}

func TestHandler(t *testing.T) {
	var (
		store   *snapshotStore
		handler http.Handler
	)

	setup := func(t *testing.T, username, password string) {
		t.Helper()

		reg := prometheus.NewRegistry()
		m := metrics.New(reg)
		m.ObserveSnapshot(newSnapshot())

		store = new(snapshotStore)
		handler = newHandler(reg, store, username, password)
	}

	get := func(path string, setAuth func(r *http.Request)) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if setAuth != nil {
			setAuth(req)
		}

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		return rr
	}

	t.Run("Healthz", func(t *testing.T) {
		setup(t, "", "")

		rr := get("/healthz", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "ok", rr.Body.String())
	})

	t.Run("Metrics", func(t *testing.T) {
		setup(t, "", "")

		rr := get("/metrics", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "vsphere_inventory_hosts 1")
		assert.Contains(t, rr.Body.String(), "vsphere_inventory_vms 1")
	})

	t.Run("SnapshotNotCollectedYet", func(t *testing.T) {
		setup(t, "", "")

		rr := get("/snapshot", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})

	t.Run("SnapshotJSON", func(t *testing.T) {
		setup(t, "", "")
		store.Store(newSnapshot())

		rr := get("/snapshot", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		assert.Contains(t, rr.Body.String(), `"hostedOn": "esx1"`)
	})

	t.Run("SnapshotYAML", func(t *testing.T) {
		setup(t, "", "")
		store.Store(newSnapshot())

		rr := get("/snapshot?format=yaml", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/yaml", rr.Header().Get("Content-Type"))
		assert.Contains(t, rr.Body.String(), "hostedOn: esx1")
	})

	t.Run("SnapshotUnknownFormat", func(t *testing.T) {
		setup(t, "", "")
		store.Store(newSnapshot())

		rr := get("/snapshot?format=xml", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("SnapshotBasicAuth", func(t *testing.T) {
		setup(t, "prometheus", "secret")
		store.Store(newSnapshot())

		rr := get("/snapshot", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)

		rr = get("/snapshot", func(r *http.Request) { r.SetBasicAuth("prometheus", "secret") })
		assert.Equal(t, http.StatusOK, rr.Code)

		// only the snapshot is protected.
		rr = get("/healthz", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
