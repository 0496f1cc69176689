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

package adapter

import (
	"context"
	"errors"
	"sync"

	"github.com/vmware/govmomi/vim25"
	"github.com/vmware/govmomi/vim25/methods"
	"github.com/vmware/govmomi/vim25/soap"
	"github.com/vmware/govmomi/vim25/types"
)

const (
	// HostSystemKind is the managed object type of a hypervisor host.
	HostSystemKind = "HostSystem"
	// VirtualMachineKind is the managed object type of a virtual machine.
	VirtualMachineKind = "VirtualMachine"
)

var (
	ErrNotConnected  = errors.New("transport is not connected: service content must be retrieved first")
	ErrEmptyResponse = errors.New("remote service returned no object")
	ErrLoginRejected = errors.New("credentials rejected by the session manager")

	errParseEndpoint          = errors.New("parsing endpoint")
	errRetrieveServiceContent = errors.New("retrieving service content")
	errIncompleteContent      = errors.New("service content does not advertise a session manager and a search index")
	errLogin                  = errors.New("logging in")
	errLogout                 = errors.New("logging out")
	errFindByDnsName          = errors.New("finding managed object by DNS name")
	errRetrieveProperties     = errors.New("retrieving properties")
)

// --------------------------------------------------- INTERFACES --------------------------------------------------- //

// Transport is the document-style RPC endpoint of a vSphere management server.
//
// RetrieveServiceContent must be called first; the other operations target the sub-services it advertises.
type Transport interface {
	// RetrieveServiceContent performs the initial handshake and returns the advertised sub-services.
	RetrieveServiceContent(ctx context.Context) (ServiceContent, error)
	// Login establishes an authenticated session through the session manager.
	Login(ctx context.Context, sessionManager types.ManagedObjectReference, username, password string) error
	// Logout terminates the authenticated session.
	Logout(ctx context.Context, sessionManager types.ManagedObjectReference) error
	// FindByDnsName resolves a host (vmSearch=false) or VM (vmSearch=true) by its DNS name.
	// It returns nil without error when no object matches.
	FindByDnsName(
		ctx context.Context,
		searchIndex types.ManagedObjectReference,
		dnsName string,
		vmSearch bool,
	) (*types.ManagedObjectReference, error)
	// RetrieveProperties retrieves every property of the given object of the given kind.
	RetrieveProperties(
		ctx context.Context,
		propertyCollector types.ManagedObjectReference,
		kind string,
		obj types.ManagedObjectReference,
	) (PropertySet, error)
}

// ServiceContent holds the sub-service references advertised by the management endpoint.
type ServiceContent struct {
	// SessionManager is used to login and logout.
	SessionManager types.ManagedObjectReference
	// SearchIndex is used to resolve objects by name.
	SearchIndex types.ManagedObjectReference
	// PropertyCollector is used to retrieve object properties.
	PropertyCollector types.ManagedObjectReference
	// About describes the remote product.
	About types.AboutInfo
}

// PropertySet maps each returned property name to its value for one managed object.
type PropertySet map[string]types.AnyType

// NewPropertySet pairs every property name of the object content with its value.
func NewPropertySet(content types.ObjectContent) PropertySet {
	ps := make(PropertySet, len(content.PropSet))
	for _, prop := range content.PropSet {
		ps[prop.Name] = prop.Val
	}

	return ps
}

// --------------------------------------------------- CONSTRUCTORS ------------------------------------------------- //

// NewGovmomiTransport returns a Transport for the given endpoint.
//
// The endpoint may be a bare host ("vcenter.example.com"), a host:port or a full URL; the scheme defaults to https and
// the path to /sdk. No network call is made until RetrieveServiceContent is called.
func NewGovmomiTransport(endpoint string, insecure bool) (Transport, error) {
	u, err := soap.ParseURL(endpoint)
	if err != nil {
		return nil, errors.Join(err, errParseEndpoint)
	}

	if u == nil {
		return nil, errParseEndpoint
	}

	return &govmomiTransport{
		soapClient: soap.NewClient(u, insecure),
	}, nil
}

// --------------------------------------------- CONCRETE IMPLEMENTATION -------------------------------------------- //

type govmomiTransport struct {
	soapClient *soap.Client

	mu     sync.RWMutex
	client *vim25.Client
}

// --------------------------------------------- RetrieveServiceContent --------------------------------------------- //

func (t *govmomiTransport) RetrieveServiceContent(ctx context.Context) (ServiceContent, error) {
	// vim25.NewClient issues RetrieveServiceContent against the ServiceInstance.
	client, err := vim25.NewClient(ctx, t.soapClient)
	if err != nil {
		return ServiceContent{}, errors.Join(err, errRetrieveServiceContent)
	}

	sc := client.ServiceContent
	if sc.SessionManager == nil || sc.SearchIndex == nil {
		return ServiceContent{}, errors.Join(errIncompleteContent, errRetrieveServiceContent)
	}

	t.mu.Lock()
	t.client = client
	t.mu.Unlock()

	return ServiceContent{
		SessionManager:    *sc.SessionManager,
		SearchIndex:       *sc.SearchIndex,
		PropertyCollector: sc.PropertyCollector,
		About:             sc.About,
	}, nil
}

// --------------------------------------------- Login -------------------------------------------------------------- //

func (t *govmomiTransport) Login(
	ctx context.Context,
	sessionManager types.ManagedObjectReference,
	username, password string,
) error {
	client, err := t.vimClient()
	if err != nil {
		return errors.Join(err, errLogin)
	}

	req := types.Login{
		This:     sessionManager,
		UserName: username,
		Password: password,
	}

	if _, err := methods.Login(ctx, client, &req); err != nil {
		if isInvalidLogin(err) {
			return errors.Join(err, ErrLoginRejected, errLogin)
		}

		return errors.Join(err, errLogin)
	}

	return nil
}

// --------------------------------------------- Logout ------------------------------------------------------------- //

func (t *govmomiTransport) Logout(ctx context.Context, sessionManager types.ManagedObjectReference) error {
	client, err := t.vimClient()
	if err != nil {
		return errors.Join(err, errLogout)
	}

	if _, err := methods.Logout(ctx, client, &types.Logout{This: sessionManager}); err != nil {
		return errors.Join(err, errLogout)
	}

	return nil
}

// --------------------------------------------- FindByDnsName ------------------------------------------------------ //

func (t *govmomiTransport) FindByDnsName(
	ctx context.Context,
	searchIndex types.ManagedObjectReference,
	dnsName string,
	vmSearch bool,
) (*types.ManagedObjectReference, error) {
	client, err := t.vimClient()
	if err != nil {
		return nil, errors.Join(err, errFindByDnsName)
	}

	req := types.FindByDnsName{
		This:     searchIndex,
		DnsName:  dnsName,
		VmSearch: vmSearch,
	}

	res, err := methods.FindByDnsName(ctx, client, &req)
	if err != nil {
		return nil, errors.Join(err, errFindByDnsName)
	}

	return res.Returnval, nil
}

// --------------------------------------------- RetrieveProperties ------------------------------------------------- //

func (t *govmomiTransport) RetrieveProperties(
	ctx context.Context,
	propertyCollector types.ManagedObjectReference,
	kind string,
	obj types.ManagedObjectReference,
) (PropertySet, error) {
	client, err := t.vimClient()
	if err != nil {
		return nil, errors.Join(err, errRetrieveProperties)
	}

	req := types.RetrieveProperties{
		This: propertyCollector,
		SpecSet: []types.PropertyFilterSpec{{
			PropSet: []types.PropertySpec{{
				Type: kind,
				All:  types.NewBool(true),
			}},
			ObjectSet: []types.ObjectSpec{{
				Obj: obj,
			}},
		}},
	}

	res, err := methods.RetrieveProperties(ctx, client, &req)
	if err != nil {
		return nil, errors.Join(err, errRetrieveProperties)
	}

	if len(res.Returnval) == 0 {
		return nil, errors.Join(ErrEmptyResponse, errRetrieveProperties)
	}

	return NewPropertySet(res.Returnval[0]), nil
}

// --------------------------------------------- UTILS -------------------------------------------------------------- //

// isInvalidLogin returns true if the server rejected the credentials. Other faults are not login rejections.
func isInvalidLogin(err error) bool {
	if !soap.IsSoapFault(err) {
		return false
	}

	switch soap.ToSoapFault(err).VimFault().(type) {
	case types.InvalidLogin, *types.InvalidLogin:
		return true
	default:
		return false
	}
}

func (t *govmomiTransport) vimClient() (*vim25.Client, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.client == nil {
		return nil, ErrNotConnected
	}

	return t.client, nil
}
