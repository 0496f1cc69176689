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
	"reflect"

	vimtypes "github.com/vmware/govmomi/vim25/types"

	"github.com/alexandremahdhaoui/vsphere-inventory/internal/adapter"
	"github.com/alexandremahdhaoui/vsphere-inventory/internal/types"
)

// Top-level property names of the HostSystem and VirtualMachine managed objects.
const (
	propConfig   = "config"
	propGuest    = "guest"
	propHardware = "hardware"
	propLayoutEx = "layoutEx"
	propName     = "name"
	propParent   = "parent"
	propRuntime  = "runtime"
	propSummary  = "summary"
	propVM       = "vm"
)

// File types of a VM layout that describe virtual disks.
const (
	fileTypeDiskDescriptor = "diskDescriptor"
	fileTypeDiskExtent     = "diskExtent"
)

// ---------------------------------------------------- VM ---------------------------------------------------------- //

// extractVM normalizes the property set of a VirtualMachine. Absent properties keep their zero value.
func extractVM(ref vimtypes.ManagedObjectReference, ps adapter.PropertySet) types.VMRecord {
	rec := types.VMRecord{
		Ref:      ref.Value,
		VMDKs:    []string{},
		Disks:    []types.GuestDisk{},
		Hardware: []types.Device{},
	}

	if config, ok := property[vimtypes.VirtualMachineConfigInfo](ps, propConfig); ok {
		rec.Name = config.Name
		rec.OSName = config.GuestFullName
		rec.UUID = config.Uuid
		rec.Template = config.Template
		rec.MemoryMB = config.Hardware.MemoryMB
		rec.CPUs = config.Hardware.NumCPU
		rec.CoresPerSocket = config.Hardware.NumCoresPerSocket
		rec.Hardware = devices(config.Hardware.Device)
	}

	if rec.Name == "" {
		rec.Name, _ = property[string](ps, propName)
	}

	if summary, ok := property[vimtypes.VirtualMachineSummary](ps, propSummary); ok {
		rec.Status = string(summary.OverallStatus)
		rec.UptimeSeconds = summary.QuickStats.UptimeSeconds

		if summary.Guest != nil {
			rec.IPAddress = summary.Guest.IpAddress
		}
	}

	if guest, ok := property[vimtypes.GuestInfo](ps, propGuest); ok {
		if rec.IPAddress == "" {
			rec.IPAddress = guest.IpAddress
		}

		for _, disk := range guest.Disk {
			rec.Disks = append(rec.Disks, types.GuestDisk{
				Path:          disk.DiskPath,
				CapacityBytes: disk.Capacity,
				FreeBytes:     disk.FreeSpace,
			})
		}
	}

	if runtime, ok := property[vimtypes.VirtualMachineRuntimeInfo](ps, propRuntime); ok {
		rec.PowerState = string(runtime.PowerState)
		rec.MaxCPUMHz = runtime.MaxCpuUsage
		rec.MaxMemoryMB = runtime.MaxMemoryUsage

		if runtime.Host != nil {
			rec.Host = runtime.Host.Type
		}
	}

	if parent, ok := property[vimtypes.ManagedObjectReference](ps, propParent); ok {
		rec.Parent = parent.Value
	}

	if layout, ok := property[vimtypes.VirtualMachineFileLayoutEx](ps, propLayoutEx); ok {
		for _, file := range layout.File {
			if file.Type == fileTypeDiskDescriptor || file.Type == fileTypeDiskExtent {
				rec.VMDKs = append(rec.VMDKs, file.Name)
			}
		}
	}

	return rec
}

func devices(in []vimtypes.BaseVirtualDevice) []types.Device {
	out := make([]types.Device, 0, len(in))

	for _, base := range in {
		if base == nil {
			continue
		}

		dev := base.GetVirtualDevice()
		if dev == nil {
			continue
		}

		d := types.Device{
			Key:  dev.Key,
			Type: reflect.Indirect(reflect.ValueOf(base)).Type().Name(),
		}

		if dev.DeviceInfo != nil {
			if desc := dev.DeviceInfo.GetDescription(); desc != nil {
				d.Label = desc.Label
				d.Summary = desc.Summary
			}
		}

		out = append(out, d)
	}

	return out
}

// ---------------------------------------------------- HOST -------------------------------------------------------- //

// extractHost normalizes the property set of a HostSystem. Absent properties keep their zero value.
func extractHost(ref vimtypes.ManagedObjectReference, ps adapter.PropertySet) types.HostRecord {
	rec := types.HostRecord{
		Ref:    ref.Value,
		OSName: types.HostOSName,
	}

	rec.Name, _ = property[string](ps, propName)

	if hw, ok := property[vimtypes.HostHardwareInfo](ps, propHardware); ok {
		rec.UUID = hw.SystemInfo.Uuid
		rec.Vendor = hw.SystemInfo.Vendor
		rec.CPUs = int32(hw.CpuInfo.NumCpuCores)

		if len(hw.CpuPkg) > 0 {
			rec.CoresPerCPU = int32(len(hw.CpuPkg[0].ThreadId))
		}

		rec.MemoryBytes = hw.MemorySize
	}

	if summary, ok := property[vimtypes.HostListSummary](ps, propSummary); ok {
		rec.Status = string(summary.OverallStatus)
		rec.MaxCPUMHz = summary.QuickStats.OverallCpuUsage
		rec.MaxMemoryMB = summary.QuickStats.OverallMemoryUsage
		rec.UptimeSeconds = summary.QuickStats.Uptime

		if summary.Hardware != nil && summary.Hardware.MemorySize != 0 {
			rec.MemoryBytes = summary.Hardware.MemorySize
		}

		if summary.Runtime != nil {
			rec.PowerState = string(summary.Runtime.PowerState)
		}

		if summary.Config.Product != nil {
			rec.Hypervisor = summary.Config.Product.FullName
		}
	}

	if config, ok := property[vimtypes.HostConfigInfo](ps, propConfig); ok {
		if config.Product.FullName != "" {
			rec.Hypervisor = config.Product.FullName
		}

		rec.IPAddress = managementAddress(config.Network)
	}

	if parent, ok := property[vimtypes.ManagedObjectReference](ps, propParent); ok {
		rec.Parent = parent.Value
	}

	return rec
}

// managementAddress returns the first IP address configured on a host VMkernel NIC.
func managementAddress(network *vimtypes.HostNetworkInfo) string {
	if network == nil {
		return ""
	}

	for _, vnic := range network.Vnic {
		if vnic.Spec.Ip != nil && vnic.Spec.Ip.IpAddress != "" {
			return vnic.Spec.Ip.IpAddress
		}
	}

	return ""
}

// vmRefs returns the VM references listed by a HostSystem, in the order returned by the service.
func vmRefs(ps adapter.PropertySet) []vimtypes.ManagedObjectReference {
	if arr, ok := property[vimtypes.ArrayOfManagedObjectReference](ps, propVM); ok {
		return arr.ManagedObjectReference
	}

	refs, _ := property[[]vimtypes.ManagedObjectReference](ps, propVM)

	return refs
}

// ---------------------------------------------------- UTILS ------------------------------------------------------- //

// property returns the named property as T. Values decoded as *T are dereferenced.
func property[T any](ps adapter.PropertySet, name string) (T, bool) {
	var zero T

	switch v := ps[name].(type) {
	case T:
		return v, true
	case *T:
		if v != nil {
			return *v, true
		}
	}

	return zero, false
}
