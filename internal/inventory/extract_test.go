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

package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	vimtypes "github.com/vmware/govmomi/vim25/types"

	"github.com/alexandremahdhaoui/vsphere-inventory/internal/adapter"
	"github.com/alexandremahdhaoui/vsphere-inventory/internal/types"
)

func vmPropertySet() adapter.PropertySet {
	return adapter.PropertySet{
		"name": "web-01",
		"config": vimtypes.VirtualMachineConfigInfo{
			Name:          "web-01",
			GuestFullName: "Ubuntu Linux (64-bit)",
			Uuid:          "4203a5c1-6d5e-4c1c-9d4b-2f1e0f6a9b10",
			Hardware: vimtypes.VirtualHardware{
				NumCPU:            4,
				NumCoresPerSocket: 2,
				MemoryMB:          8192,
				Device: []vimtypes.BaseVirtualDevice{
					&vimtypes.VirtualDisk{
						VirtualDevice: vimtypes.VirtualDevice{
							Key: 2000,
							DeviceInfo: &vimtypes.Description{
								Label:   "Hard disk 1",
								Summary: "16,777,216 KB",
							},
						},
					},
					&vimtypes.VirtualE1000{
						VirtualEthernetCard: vimtypes.VirtualEthernetCard{
							VirtualDevice: vimtypes.VirtualDevice{Key: 4000},
						},
					},
				},
			},
		},
		"summary": vimtypes.VirtualMachineSummary{
			Guest:         &vimtypes.VirtualMachineGuestSummary{IpAddress: "10.0.0.5"},
			QuickStats:    vimtypes.VirtualMachineQuickStats{UptimeSeconds: 3600},
			OverallStatus: vimtypes.ManagedEntityStatusGreen,
		},
		"guest": vimtypes.GuestInfo{
			IpAddress: "10.0.0.6",
			Disk: []vimtypes.GuestDiskInfo{
				{DiskPath: "/", Capacity: 20 << 30, FreeSpace: 5 << 30},
				{DiskPath: "/var", Capacity: 10 << 30, FreeSpace: 1 << 30},
			},
		},
		"runtime": vimtypes.VirtualMachineRuntimeInfo{
			Host:           &vimtypes.ManagedObjectReference{Type: "HostSystem", Value: "host-10"},
			PowerState:     vimtypes.VirtualMachinePowerStatePoweredOn,
			MaxCpuUsage:    9600,
			MaxMemoryUsage: 8192,
		},
		"parent": vimtypes.ManagedObjectReference{Type: "Folder", Value: "group-v4"},
		"layoutEx": vimtypes.VirtualMachineFileLayoutEx{
			File: []vimtypes.VirtualMachineFileLayoutExFileInfo{
				{Name: "[ds1] web-01/web-01.vmx", Type: "config"},
				{Name: "[ds1] web-01/web-01.vmdk", Type: "diskDescriptor"},
				{Name: "[ds1] web-01/web-01-flat.vmdk", Type: "diskExtent"},
				{Name: "[ds1] web-01/vmware.log", Type: "log"},
			},
		},
	}
}

func hostPropertySet(vms ...string) adapter.PropertySet {
	refs := make([]vimtypes.ManagedObjectReference, 0, len(vms))
	for _, vm := range vms {
		refs = append(refs, vimtypes.ManagedObjectReference{Type: "VirtualMachine", Value: vm})
	}

	return adapter.PropertySet{
		"name": "esx1.example.com",
		"hardware": vimtypes.HostHardwareInfo{
			SystemInfo: vimtypes.HostSystemInfo{Vendor: "HPE", Uuid: "30393137-3136-4d32-3230-313130304e4e"},
			CpuInfo:    vimtypes.HostCpuInfo{NumCpuCores: 16},
			CpuPkg:     []vimtypes.HostCpuPackage{{ThreadId: []int16{0, 1, 2, 3, 4, 5, 6, 7}}},
			MemorySize: 128 << 30,
		},
		"summary": vimtypes.HostListSummary{
			Hardware:      &vimtypes.HostHardwareSummary{MemorySize: 256 << 30},
			Runtime:       &vimtypes.HostRuntimeInfo{PowerState: vimtypes.HostSystemPowerStatePoweredOn},
			QuickStats:    vimtypes.HostListSummaryQuickStats{OverallCpuUsage: 2400, OverallMemoryUsage: 32768, Uptime: 86400},
			OverallStatus: vimtypes.ManagedEntityStatusYellow,
			Config: vimtypes.HostConfigSummary{
				Product: &vimtypes.AboutInfo{FullName: "VMware ESXi 8.0.1 build-21495797"},
			},
		},
		"config": &vimtypes.HostConfigInfo{
			Product: vimtypes.AboutInfo{FullName: "VMware ESXi 8.0.2 build-22380479"},
			Network: &vimtypes.HostNetworkInfo{
				Vnic: []vimtypes.HostVirtualNic{
					{Device: "vmk0", Spec: vimtypes.HostVirtualNicSpec{}},
					{Device: "vmk1", Spec: vimtypes.HostVirtualNicSpec{Ip: &vimtypes.HostIpConfig{IpAddress: "192.168.1.10"}}},
				},
			},
		},
		"parent": vimtypes.ManagedObjectReference{Type: "ComputeResource", Value: "domain-s7"},
		"vm":     vimtypes.ArrayOfManagedObjectReference{ManagedObjectReference: refs},
	}
}

func TestExtractVM(t *testing.T) {
	ref := vimtypes.ManagedObjectReference{Type: "VirtualMachine", Value: "vm-42"}

	t.Run("AllProperties", func(t *testing.T) {
		expected := types.VMRecord{
			Ref:            "vm-42",
			Name:           "web-01",
			UUID:           "4203a5c1-6d5e-4c1c-9d4b-2f1e0f6a9b10",
			OSName:         "Ubuntu Linux (64-bit)",
			MemoryMB:       8192,
			CPUs:           4,
			CoresPerSocket: 2,
			IPAddress:      "10.0.0.5",
			Parent:         "group-v4",
			Status:         "green",
			Host:           "HostSystem",
			MaxCPUMHz:      9600,
			MaxMemoryMB:    8192,
			UptimeSeconds:  3600,
			Template:       false,
			PowerState:     "poweredOn",
			VMDKs:          []string{"[ds1] web-01/web-01.vmdk", "[ds1] web-01/web-01-flat.vmdk"},
			Disks: []types.GuestDisk{
				{Path: "/", CapacityBytes: 20 << 30, FreeBytes: 5 << 30},
				{Path: "/var", CapacityBytes: 10 << 30, FreeBytes: 1 << 30},
			},
			Hardware: []types.Device{
				{Key: 2000, Type: "VirtualDisk", Label: "Hard disk 1", Summary: "16,777,216 KB"},
				{Key: 4000, Type: "VirtualE1000"},
			},
		}

		assert.Equal(t, expected, extractVM(ref, vmPropertySet()))
	})

	t.Run("EmptyPropertySet", func(t *testing.T) {
		expected := types.VMRecord{
			Ref:      "vm-42",
			VMDKs:    []string{},
			Disks:    []types.GuestDisk{},
			Hardware: []types.Device{},
		}

		assert.Equal(t, expected, extractVM(ref, adapter.PropertySet{}))
		assert.Equal(t, expected, extractVM(ref, nil))
	})

	t.Run("NoIPAddress", func(t *testing.T) {
		ps := vmPropertySet()
		delete(ps, "summary")
		delete(ps, "guest")

		actual := extractVM(ref, ps)
		assert.Equal(t, "", actual.IPAddress)
		assert.Equal(t, "web-01", actual.Name)
		assert.Empty(t, actual.Disks)
	})

	t.Run("GuestIPAddressFallback", func(t *testing.T) {
		ps := vmPropertySet()
		ps["summary"] = vimtypes.VirtualMachineSummary{}

		assert.Equal(t, "10.0.0.6", extractVM(ref, ps).IPAddress)
	})

	t.Run("PointerValues", func(t *testing.T) {
		ps := vmPropertySet()
		config := ps["config"].(vimtypes.VirtualMachineConfigInfo)
		config.Template = true
		ps["config"] = &config

		actual := extractVM(ref, ps)
		assert.True(t, actual.Template)
		assert.Equal(t, int32(4), actual.CPUs)
	})

	t.Run("UnexpectedType", func(t *testing.T) {
		ps := adapter.PropertySet{
			"config":  "not a config",
			"runtime": 42,
			"parent":  nil,
			"name":    "db-01",
		}

		actual := extractVM(ref, ps)
		assert.Equal(t, "db-01", actual.Name)
		assert.Equal(t, int32(0), actual.CPUs)
		assert.Equal(t, "", actual.PowerState)
		assert.Equal(t, "", actual.Parent)
	})
}

func TestExtractHost(t *testing.T) {
	ref := vimtypes.ManagedObjectReference{Type: "HostSystem", Value: "host-10"}

	t.Run("AllProperties", func(t *testing.T) {
		expected := types.HostRecord{
			Ref:           "host-10",
			Name:          "esx1.example.com",
			UUID:          "30393137-3136-4d32-3230-313130304e4e",
			OSName:        "ESX",
			MemoryBytes:   256 << 30,
			CPUs:          16,
			CoresPerCPU:   8,
			IPAddress:     "192.168.1.10",
			Parent:        "domain-s7",
			Status:        "yellow",
			MaxCPUMHz:     2400,
			MaxMemoryMB:   32768,
			UptimeSeconds: 86400,
			PowerState:    "poweredOn",
			Vendor:        "HPE",
			Hypervisor:    "VMware ESXi 8.0.2 build-22380479",
		}

		assert.Equal(t, expected, extractHost(ref, hostPropertySet()))
	})

	t.Run("EmptyPropertySet", func(t *testing.T) {
		expected := types.HostRecord{
			Ref:    "host-10",
			OSName: "ESX",
		}

		assert.Equal(t, expected, extractHost(ref, adapter.PropertySet{}))
	})

	t.Run("SummaryFallbacks", func(t *testing.T) {
		ps := hostPropertySet()
		delete(ps, "config")

		hw := ps["hardware"].(vimtypes.HostHardwareInfo)
		ps["summary"] = vimtypes.HostListSummary{
			Config: vimtypes.HostConfigSummary{
				Product: &vimtypes.AboutInfo{FullName: "VMware ESXi 7.0.3"},
			},
		}

		actual := extractHost(ref, ps)
		assert.Equal(t, "VMware ESXi 7.0.3", actual.Hypervisor)
		assert.Equal(t, hw.MemorySize, actual.MemoryBytes)
		assert.Equal(t, "", actual.IPAddress)
	})
}

func TestVMRefs(t *testing.T) {
	t.Run("Array", func(t *testing.T) {
		refs := vmRefs(hostPropertySet("vm-1", "vm-2"))
		assert.Equal(t, []vimtypes.ManagedObjectReference{
			{Type: "VirtualMachine", Value: "vm-1"},
			{Type: "VirtualMachine", Value: "vm-2"},
		}, refs)
	})

	t.Run("Slice", func(t *testing.T) {
		ps := adapter.PropertySet{
			"vm": []vimtypes.ManagedObjectReference{{Type: "VirtualMachine", Value: "vm-3"}},
		}

		assert.Len(t, vmRefs(ps), 1)
	})

	t.Run("Missing", func(t *testing.T) {
		assert.Empty(t, vmRefs(adapter.PropertySet{}))
	})
}
