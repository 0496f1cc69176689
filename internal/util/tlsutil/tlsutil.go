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

package tlsutil

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
)

var (
	ErrMissingKeyPair    = errors.New("certFile and keyFile must both be set")
	ErrInvalidClientAuth = errors.New("invalid clientAuth value")
	ErrMissingClientCA   = errors.New("clientCAFile must be set when client certificates are verified")
	ErrLoadKeyPair       = errors.New("loading certificate and key")
	ErrLoadClientCA      = errors.New("loading client CA file")
	ErrParseClientCA     = errors.New("client CA file contains no PEM certificate")
)

// Config describes the TLS setup of an HTTP server. The zero value disables TLS.
type Config struct {
	// CertFile is the path to the PEM server certificate.
	CertFile string `json:"certFile,omitempty"`
	// KeyFile is the path to the PEM server private key.
	KeyFile string `json:"keyFile,omitempty"`
	// ClientAuth is one of "none", "request" or "require".
	ClientAuth string `json:"clientAuth,omitempty"`
	// ClientCAFile is the path to the PEM bundle used to verify client certificates.
	ClientCAFile string `json:"clientCAFile,omitempty"`
}

// Enabled returns true if a certificate is configured.
func (c Config) Enabled() bool {
	return c.CertFile != "" || c.KeyFile != ""
}

// Validate reports configuration errors without reading any file.
func (c Config) Validate() error {
	if !c.Enabled() {
		return nil
	}

	var errs []error

	if c.CertFile == "" || c.KeyFile == "" {
		errs = append(errs, ErrMissingKeyPair)
	}

	clientAuth, err := parseClientAuth(c.ClientAuth)
	if err != nil {
		errs = append(errs, err)
	}

	if clientAuth == tls.RequireAndVerifyClientCert && c.ClientCAFile == "" {
		errs = append(errs, ErrMissingClientCA)
	}

	return errors.Join(errs...)
}

// ServerConfig loads the files referenced by c. It returns nil, nil when TLS is disabled.
func ServerConfig(c Config) (*tls.Config, error) {
	if !c.Enabled() {
		return nil, nil
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	clientAuth, _ := parseClientAuth(c.ClientAuth)

	cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
	if err != nil {
		return nil, errors.Join(err, ErrLoadKeyPair)
	}

	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
		ClientAuth:   clientAuth,
	}

	if c.ClientCAFile != "" {
		b, err := os.ReadFile(c.ClientCAFile)
		if err != nil {
			return nil, errors.Join(err, ErrLoadClientCA)
		}

		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(b) {
			return nil, ErrParseClientCA
		}

		tlsConfig.ClientCAs = pool
	}

	return tlsConfig, nil
}

func parseClientAuth(clientAuth string) (tls.ClientAuthType, error) {
	switch clientAuth {
	case "", "none":
		return tls.NoClientCert, nil
	case "request":
		return tls.VerifyClientCertIfGiven, nil
	case "require":
		return tls.RequireAndVerifyClientCert, nil
	default:
		return tls.NoClientCert, fmt.Errorf("%w: %q (valid values: none, request, require)", ErrInvalidClientAuth, clientAuth)
	}
}
