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

package certutil_test

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexandremahdhaoui/vsphere-inventory/internal/util/certutil"
)

func TestCA(t *testing.T) {
	ca, err := certutil.NewCA()
	require.NoError(t, err)

	t.Run("CertPEM", func(t *testing.T) {
		block, _ := pem.Decode(ca.CertPEM())
		require.NotNil(t, block)
		assert.Equal(t, "CERTIFICATE", block.Type)

		cert, err := x509.ParseCertificate(block.Bytes)
		require.NoError(t, err)
		assert.True(t, cert.IsCA)
	})

	t.Run("KeyPairPEM", func(t *testing.T) {
		certPEM, keyPEM, err := ca.KeyPairPEM("exporter.example.com", "127.0.0.1")
		require.NoError(t, err)

		pair, err := tls.X509KeyPair(certPEM, keyPEM)
		require.NoError(t, err)

		cert, err := x509.ParseCertificate(pair.Certificate[0])
		require.NoError(t, err)
		assert.Equal(t, []string{"exporter.example.com"}, cert.DNSNames)
		require.Len(t, cert.IPAddresses, 1)
		assert.Equal(t, "127.0.0.1", cert.IPAddresses[0].String())

		_, err = cert.Verify(x509.VerifyOptions{
			DNSName:     "exporter.example.com",
			Roots:       ca.Pool(),
			CurrentTime: time.Now(),
		})
		assert.NoError(t, err)
	})

	t.Run("WriteKeyPair", func(t *testing.T) {
		dir := t.TempDir()

		certFile, keyFile, err := ca.WriteKeyPair(dir, "server", "localhost")
		require.NoError(t, err)

		_, err = tls.LoadX509KeyPair(certFile, keyFile)
		assert.NoError(t, err)

		caFile, err := ca.WriteCertPEM(dir)
		require.NoError(t, err)
		assert.FileExists(t, caFile)
	})

	t.Run("DistinctSerials", func(t *testing.T) {
		a, _, err := ca.KeyPairPEM("a")
		require.NoError(t, err)
		b, _, err := ca.KeyPairPEM("b")
		require.NoError(t, err)

		blockA, _ := pem.Decode(a)
		blockB, _ := pem.Decode(b)
		certA, err := x509.ParseCertificate(blockA.Bytes)
		require.NoError(t, err)
		certB, err := x509.ParseCertificate(blockB.Bytes)
		require.NoError(t, err)

		assert.NotEqual(t, certA.SerialNumber, certB.SerialNumber)
	})
}
