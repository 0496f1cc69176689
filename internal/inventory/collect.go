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

package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	vimtypes "github.com/vmware/govmomi/vim25/types"
	"golang.org/x/sync/errgroup"

	"github.com/alexandremahdhaoui/vsphere-inventory/internal/adapter"
	"github.com/alexandremahdhaoui/vsphere-inventory/internal/types"
)

var errHostNotFound = errors.New("no host system matches this DNS name")

// hostResult holds everything collected for one configured host.
type hostResult struct {
	host *types.HostRecord
	vms  []types.VMRecord
	errs []types.CollectionError
}

// Collect enumerates every target host and its virtual machines.
//
// Failures to resolve a host or to fetch the properties of a host or VM are recorded in Snapshot.Errors and never
// abort the collection. Hosts appear in configured order and VMs in host order, then in the order returned by the
// service. Templates are excluded.
//
// A non-nil error is returned when no target hosts were set, or when ctx is done; in the latter case the snapshot
// holds whatever was gathered.
func (c *Client) Collect(ctx context.Context) (types.Snapshot, error) {
	c.mu.RLock()
	hosts := append(make([]string, 0, len(c.hosts)), c.hosts...)
	targetsSet := c.targetsSet
	c.mu.RUnlock()

	if !targetsSet {
		return types.Snapshot{}, ErrNoTargetHosts
	}

	if err := ctx.Err(); err != nil {
		return types.Snapshot{}, err
	}

	snapshot := types.Snapshot{
		ID:          uuid.New(),
		CollectedAt: c.now(),
		Hosts:       make([]types.HostRecord, 0, len(hosts)),
		VMs:         []types.VMRecord{},
		Errors:      []types.CollectionError{},
	}

	results := make([]hostResult, len(hosts))

	g := new(errgroup.Group)
	g.SetLimit(c.hostConcurrency)

	for i, host := range hosts {
		g.Go(func() error {
			results[i] = c.collectHost(ctx, i, len(hosts), host)
			return nil
		})
	}

	_ = g.Wait() // collectHost never returns an error.

	for _, res := range results {
		if res.host != nil {
			snapshot.Hosts = append(snapshot.Hosts, *res.host)
		}

		snapshot.VMs = append(snapshot.VMs, res.vms...)
		snapshot.Errors = append(snapshot.Errors, res.errs...)
	}

	for _, e := range snapshot.Errors {
		c.log.Info("could not collect item", "kind", e.Kind, "host", e.Host, "object", e.Object, "error", e.Message)
	}

	c.metrics.ObserveSnapshot(snapshot)

	c.log.Info("collection done",
		"snapshot", snapshot.ID.String(),
		"hosts", len(snapshot.Hosts),
		"vms", len(snapshot.VMs),
		"errors", len(snapshot.Errors),
	)

	return snapshot, ctx.Err()
}

// collectHost resolves one host, fetches its properties and those of its VMs.
func (c *Client) collectHost(ctx context.Context, index, total int, host string) hostResult {
	c.log.Info("processing host", "host", host, "index", index+1, "total", total)

	var ref *vimtypes.ManagedObjectReference

	if err := c.call(ctx, opFindByDnsName, func(ctx context.Context) error {
		var err error
		ref, err = c.transport.FindByDnsName(ctx, c.content.SearchIndex, host, false)

		return err
	}); err != nil {
		return hostResult{errs: []types.CollectionError{resolutionError(host, err)}}
	}

	if ref == nil {
		return hostResult{errs: []types.CollectionError{resolutionError(host, errHostNotFound)}}
	}

	hostProps, err := c.retrieveProperties(ctx, adapter.HostSystemKind, *ref)
	if err != nil {
		return hostResult{errs: []types.CollectionError{propertyFetchError(host, *ref, err)}}
	}

	refs := vmRefs(hostProps)
	vms := make([]*types.VMRecord, len(refs))
	errs := make([]*types.CollectionError, len(refs))

	g := new(errgroup.Group)
	g.SetLimit(c.vmConcurrency)

	for i, vmRef := range refs {
		g.Go(func() error {
			vmProps, err := c.retrieveProperties(ctx, adapter.VirtualMachineKind, vmRef)
			if err != nil {
				e := propertyFetchError(host, vmRef, err)
				errs[i] = &e

				return nil
			}

			rec := extractVM(vmRef, vmProps)
			c.log.V(1).Info("processing vm", "host", host, "vm", rec.Name, "index", i+1, "total", len(refs))

			if rec.Template {
				return nil
			}

			rec.HostedOn = host
			vms[i] = &rec

			return nil
		})
	}

	_ = g.Wait() // VM fetches never return an error.

	res := hostResult{
		vms: make([]types.VMRecord, 0, len(refs)),
	}

	for i := range refs {
		if vms[i] != nil {
			res.vms = append(res.vms, *vms[i])
		}

		if errs[i] != nil {
			res.errs = append(res.errs, *errs[i])
		}
	}

	hostRec := extractHost(*ref, hostProps)
	res.host = &hostRec

	return res
}

func (c *Client) retrieveProperties(
	ctx context.Context,
	kind string,
	ref vimtypes.ManagedObjectReference,
) (adapter.PropertySet, error) {
	var ps adapter.PropertySet

	err := c.call(ctx, opRetrieveProperties, func(ctx context.Context) error {
		var err error
		ps, err = c.transport.RetrieveProperties(ctx, c.content.PropertyCollector, kind, ref)

		return err
	})

	return ps, err
}

func resolutionError(host string, err error) types.CollectionError {
	return types.CollectionError{
		Kind:    types.ResolutionErrorKind,
		Host:    host,
		Message: err.Error(),
	}
}

func propertyFetchError(host string, ref vimtypes.ManagedObjectReference, err error) types.CollectionError {
	return types.CollectionError{
		Kind:    types.PropertyFetchErrorKind,
		Host:    host,
		Object:  ref.Value,
		Message: err.Error(),
	}
}
