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

// Package certutil issues short-lived certificates for tests of TLS endpoints.
package certutil

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"
)

var (
	errGenerateKey   = errors.New("generating private key")
	errSignCert      = errors.New("signing certificate")
	errEncodeKey     = errors.New("encoding private key")
	errWriteKeyPair  = errors.New("writing certificate and key")
	errWriteCABundle = errors.New("writing CA bundle")
)

const validity = time.Hour

// ------------------------------------------------------- CA ------------------------------------------------------- //

// CA is a self-signed certificate authority living in memory.
type CA struct {
	key    *ecdsa.PrivateKey
	cert   *x509.Certificate
	serial atomic.Int64
}

// NewCA creates a CA valid for one hour.
func NewCA() (*CA, error) {
	ca := &CA{}

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, errors.Join(err, errGenerateKey)
	}

	template := ca.template("vsphere-inventory test CA")
	template.IsCA = true
	template.BasicConstraintsValid = true
	template.KeyUsage = x509.KeyUsageCertSign | x509.KeyUsageCRLSign

	cert, err := sign(template, template, key.Public(), key)
	if err != nil {
		return nil, err
	}

	ca.key = key
	ca.cert = cert

	return ca, nil
}

// Pool returns a cert pool trusting the CA.
func (ca *CA) Pool() *x509.CertPool {
	pool := x509.NewCertPool()
	pool.AddCert(ca.cert)

	return pool
}

// CertPEM returns the CA certificate in PEM format.
func (ca *CA) CertPEM() []byte {
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: ca.cert.Raw})
}

// ------------------------------------------------ Key pairs ------------------------------------------------------- //

// KeyPairPEM issues a certificate for the given DNS names or IP addresses, usable for both server and client
// authentication.
func (ca *CA) KeyPairPEM(names ...string) (certPEM, keyPEM []byte, err error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, errors.Join(err, errGenerateKey)
	}

	template := ca.template("vsphere-inventory test")
	template.KeyUsage = x509.KeyUsageDigitalSignature
	template.ExtKeyUsage = []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth}

	for _, name := range names {
		if ip := net.ParseIP(name); ip != nil {
			template.IPAddresses = append(template.IPAddresses, ip)
		} else {
			template.DNSNames = append(template.DNSNames, name)
		}
	}

	cert, err := sign(template, ca.cert, key.Public(), ca.key)
	if err != nil {
		return nil, nil, err
	}

	kb, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, nil, errors.Join(err, errEncodeKey)
	}

	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw}),
		pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: kb}),
		nil
}

// WriteKeyPair issues a key pair with KeyPairPEM and writes it to <dir>/<name>.crt and <dir>/<name>.key.
func (ca *CA) WriteKeyPair(dir, name string, names ...string) (certFile, keyFile string, err error) {
	certPEM, keyPEM, err := ca.KeyPairPEM(names...)
	if err != nil {
		return "", "", err
	}

	certFile = filepath.Join(dir, name+".crt")
	keyFile = filepath.Join(dir, name+".key")

	if err := os.WriteFile(certFile, certPEM, 0o600); err != nil {
		return "", "", errors.Join(err, errWriteKeyPair)
	}

	if err := os.WriteFile(keyFile, keyPEM, 0o600); err != nil {
		return "", "", errors.Join(err, errWriteKeyPair)
	}

	return certFile, keyFile, nil
}

// WriteCertPEM writes the CA certificate to <dir>/ca.crt.
func (ca *CA) WriteCertPEM(dir string) (string, error) {
	path := filepath.Join(dir, "ca.crt")
	if err := os.WriteFile(path, ca.CertPEM(), 0o600); err != nil {
		return "", errors.Join(err, errWriteCABundle)
	}

	return path, nil
}

func (ca *CA) template(commonName string) *x509.Certificate {
	now := time.Now()

	return &x509.Certificate{
		SerialNumber: big.NewInt(ca.serial.Add(1)),
		Subject:      pkix.Name{CommonName: commonName, Organization: []string{"Use in test only!"}},
		NotBefore:    now.Add(-time.Minute),
		NotAfter:     now.Add(validity),
	}
}

func sign(template, parent *x509.Certificate, pub any, priv *ecdsa.PrivateKey) (*x509.Certificate, error) {
	raw, err := x509.CreateCertificate(rand.Reader, template, parent, pub, priv)
	if err != nil {
		return nil, errors.Join(err, errSignCert)
	}

	cert, err := x509.ParseCertificate(raw)
	if err != nil {
		return nil, errors.Join(err, errSignCert)
	}

	return cert, nil
}
