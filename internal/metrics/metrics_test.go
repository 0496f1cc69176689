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

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexandremahdhaoui/vsphere-inventory/internal/types"
)

func TestMetrics(t *testing.T) {
	var (
		reg *prometheus.Registry
		m   *Metrics
	)

	setup := func(t *testing.T) {
		t.Helper()

		reg = prometheus.NewRegistry()
		m = New(reg)
	}

	t.Run("ObserveSnapshot", func(t *testing.T) {
		setup(t)

		collectedAt := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

		m.ObserveSnapshot(types.Snapshot{
			CollectedAt: collectedAt,
			Hosts:       []types.HostRecord{{Ref: "host-10"}, {Ref: "host-11"}},
			VMs:         []types.VMRecord{{Ref: "vm-1"}},
		})
		m.ObserveSnapshot(types.Snapshot{
			CollectedAt: collectedAt.Add(time.Minute),
			Hosts:       []types.HostRecord{{Ref: "host-10"}},
			Errors: []types.CollectionError{
				{Kind: types.ResolutionErrorKind, Host: "esx2"},
				{Kind: types.PropertyFetchErrorKind, Host: "esx1", Object: "vm-2"},
				{Kind: types.PropertyFetchErrorKind, Host: "esx1", Object: "vm-3"},
			},
		})

		assert.Equal(t, 1.0, testutil.ToFloat64(m.collections.WithLabelValues(ResultSuccess)))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.collections.WithLabelValues(ResultPartial)))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.collectionErrs.WithLabelValues("resolution")))
		assert.Equal(t, 2.0, testutil.ToFloat64(m.collectionErrs.WithLabelValues("propertyFetch")))

		// gauges reflect the last snapshot.
		assert.Equal(t, 1.0, testutil.ToFloat64(m.hosts))
		assert.Equal(t, 0.0, testutil.ToFloat64(m.vms))
		assert.Equal(t, float64(collectedAt.Add(time.Minute).Unix()), testutil.ToFloat64(m.lastCollection))
	})

	t.Run("ObserveCall", func(t *testing.T) {
		setup(t)

		m.ObserveCall("RetrieveProperties", 20*time.Millisecond, nil)
		m.ObserveCall("RetrieveProperties", 40*time.Millisecond, nil)
		m.ObserveCall("FindByDnsName", time.Second, errors.New("timeout"))

		n, err := testutil.GatherAndCount(reg, "vsphere_inventory_remote_call_duration_seconds")
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("Registration", func(t *testing.T) {
		setup(t)

		assert.Panics(t, func() { New(reg) })
		assert.NotPanics(t, func() { New(nil) })
	})

	t.Run("NilMetrics", func(t *testing.T) {
		var nilMetrics *Metrics

		assert.NotPanics(t, func() {
			nilMetrics.ObserveCall("Login", time.Second, nil)
			nilMetrics.ObserveSnapshot(types.Snapshot{})
		})
	})
}
