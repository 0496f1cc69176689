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

package types

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// HostOSName is the OS name reported for every hypervisor host.
const HostOSName = "ESX"

// ---------------------------------------------------- HOST -------------------------------------------------------- //

// HostRecord holds the normalized attributes of a hypervisor host.
//
// Every field is optional on the remote side; absent properties are left to their zero value.
type HostRecord struct {
	// Ref is the managed object id of the host (e.g. "host-42").
	Ref string `json:"ref"`
	// Name is the display name of the host.
	Name string `json:"name"`
	// UUID is the hardware system UUID.
	UUID string `json:"uuid"`
	// OSName is always HostOSName.
	OSName string `json:"osName"`
	// MemoryBytes is the physical memory size in bytes.
	MemoryBytes int64 `json:"memoryBytes"`
	// CPUs is the number of physical CPU cores.
	CPUs int32 `json:"cpus"`
	// CoresPerCPU is the number of hardware threads of the first CPU package.
	CoresPerCPU int32 `json:"coresPerCpu"`
	// IPAddress is the management address of the host, if any.
	IPAddress string `json:"ipAddress"`
	// Parent is the managed object id of the parent compute resource.
	Parent string `json:"parent"`
	// Status is the overall health status (green, yellow, red, gray).
	Status string `json:"status"`
	// MaxCPUMHz is the aggregated CPU usage across all cores in MHz.
	MaxCPUMHz int32 `json:"maxCpuMhz"`
	// MaxMemoryMB is the physical memory usage in MB.
	MaxMemoryMB int32 `json:"maxMemoryMb"`
	// UptimeSeconds is the host uptime.
	UptimeSeconds int32 `json:"uptimeSeconds"`
	// PowerState is the host power state (poweredOn, poweredOff, standBy, unknown).
	PowerState string `json:"powerState"`
	// Vendor is the hardware vendor (e.g. "HPE").
	Vendor string `json:"vendor"`
	// Hypervisor is the hypervisor product full name and build.
	Hypervisor string `json:"hypervisor"`
}

// ---------------------------------------------------- VM ---------------------------------------------------------- //

// VMRecord holds the normalized attributes of a virtual machine.
type VMRecord struct {
	// Ref is the managed object id of the VM (e.g. "vm-1001").
	Ref string `json:"ref"`
	// Name is the display name of the VM.
	Name string `json:"name"`
	// UUID is the BIOS UUID of the VM.
	UUID string `json:"uuid"`
	// OSName is the full name of the guest operating system.
	OSName string `json:"osName"`
	// MemoryMB is the configured memory size.
	MemoryMB int32 `json:"memoryMb"`
	// CPUs is the number of virtual CPUs.
	CPUs int32 `json:"cpus"`
	// CoresPerSocket is the number of cores per virtual socket.
	CoresPerSocket int32 `json:"coresPerSocket"`
	// IPAddress is the primary guest IP address. Multiple addresses are not reported.
	IPAddress string `json:"ipAddress"`
	// Parent is the managed object id of the parent folder.
	Parent string `json:"parent"`
	// Status is the overall health status (green, yellow, red, gray).
	Status string `json:"status"`
	// Host is the managed object type of the host running the VM.
	Host string `json:"host"`
	// MaxCPUMHz is the CPU usage upper limit in MHz.
	MaxCPUMHz int32 `json:"maxCpuMhz"`
	// MaxMemoryMB is the memory usage upper limit in MB.
	MaxMemoryMB int32 `json:"maxMemoryMb"`
	// UptimeSeconds is the guest uptime.
	UptimeSeconds int32 `json:"uptimeSeconds"`
	// Template is true when the VM is a deployment template.
	Template bool `json:"template"`
	// PowerState is the VM power state (poweredOn, poweredOff, suspended).
	PowerState string `json:"powerState"`
	// VMDKs lists the virtual disk files backing the VM.
	VMDKs []string `json:"vmdks"`
	// Disks lists the logical disks seen by the guest.
	Disks []GuestDisk `json:"disks"`
	// Hardware lists the virtual devices attached to the VM.
	Hardware []Device `json:"hardware"`
	// HostedOn is the configured host identifier the VM was discovered under.
	HostedOn string `json:"hostedOn"`
}

// GuestDisk is a logical disk as reported by the guest tools.
type GuestDisk struct {
	Path          string `json:"path"`
	CapacityBytes int64  `json:"capacityBytes"`
	FreeBytes     int64  `json:"freeBytes"`
}

// Device is a virtual hardware device.
type Device struct {
	// Key uniquely identifies the device within the VM.
	Key int32 `json:"key"`
	// Type is the device kind, e.g. "VirtualDisk" or "VirtualVmxnet3".
	Type string `json:"type"`
	// Label is the device label, e.g. "Hard disk 1".
	Label string `json:"label"`
	// Summary is the device summary, e.g. "16,777,216 KB".
	Summary string `json:"summary"`
}

// ---------------------------------------------------- ERRORS ------------------------------------------------------ //

// CollectionErrorKind classifies a recoverable per-item failure.
type CollectionErrorKind string

const (
	// ResolutionErrorKind means the host identifier did not resolve to a managed object.
	ResolutionErrorKind CollectionErrorKind = "resolution"
	// PropertyFetchErrorKind means retrieving the properties of a host or VM failed.
	PropertyFetchErrorKind CollectionErrorKind = "propertyFetch"
)

var (
	// ErrResolution is matched by every CollectionError of kind ResolutionErrorKind.
	ErrResolution = errors.New("host did not resolve to a managed object")
	// ErrPropertyFetch is matched by every CollectionError of kind PropertyFetchErrorKind.
	ErrPropertyFetch = errors.New("retrieving properties failed")
)

// CollectionError is a recoverable failure recorded while collecting one host or VM.
type CollectionError struct {
	// Kind is the error classification.
	Kind CollectionErrorKind `json:"kind"`
	// Host is the configured host identifier being processed.
	Host string `json:"host"`
	// Object is the managed object id concerned, empty when the host did not resolve.
	Object string `json:"object,omitempty"`
	// Message is the underlying error message.
	Message string `json:"message"`
}

func (e CollectionError) Error() string {
	if e.Object == "" {
		return string(e.Kind) + " error for host " + e.Host + ": " + e.Message
	}

	return string(e.Kind) + " error for host " + e.Host + " object " + e.Object + ": " + e.Message
}

// Unwrap returns the sentinel error matching the kind.
func (e CollectionError) Unwrap() error {
	switch e.Kind {
	case ResolutionErrorKind:
		return ErrResolution
	case PropertyFetchErrorKind:
		return ErrPropertyFetch
	default:
		return nil
	}
}

// ---------------------------------------------------- SNAPSHOT ---------------------------------------------------- //

// Snapshot is the aggregated result of one collection.
type Snapshot struct {
	// ID uniquely identifies the collection run.
	ID uuid.UUID `json:"id"`
	// CollectedAt is the time the collection started.
	CollectedAt time.Time `json:"collectedAt"`
	// Hosts holds one record per successfully collected host, in configured order.
	Hosts []HostRecord `json:"hosts"`
	// VMs holds every non-template VM, grouped by host in configured order.
	VMs []VMRecord `json:"vms"`
	// Errors holds the recoverable failures encountered during the collection.
	Errors []CollectionError `json:"errors,omitempty"`
}

// HasErrors returns true if at least one host or VM could not be collected.
func (s Snapshot) HasErrors() bool {
	return len(s.Errors) > 0
}

// Err joins every recorded CollectionError. It returns nil when the collection was complete.
func (s Snapshot) Err() error {
	if len(s.Errors) == 0 {
		return nil
	}

	errs := make([]error, 0, len(s.Errors))
	for _, e := range s.Errors {
		errs = append(errs, e)
	}

	return errors.Join(errs...)
}
