/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package certagent

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"net"
	"time"

	liberr "github.com/nabbar/g3proxy/errors"
)

const (
	codeNoLocalCA = liberr.MinPkgCertAgent + iota
	codeMintFailed
)

func errNoLocalCA() liberr.Error {
	return liberr.New(codeNoLocalCA, "fake-cert agent has no local CA configured")
}

func errMintFailed(parent error) liberr.Error {
	return liberr.New(codeMintFailed, "certificate mint failed", parent)
}

// LocalMinter mints leaves signed by a single configured root, the
// certificates/ca-loaded pair the daemon's TLS interception config points
// at. It generalizes the "load a configured cert" shape of
// certificates/ca and certificates/certs into "sign a fresh leaf under a
// local root, keyed by request parameters".
type LocalMinter struct {
	RootCert *x509.Certificate
	RootKey  *ecdsa.PrivateKey
	Validity time.Duration
}

func NewLocalMinter(root *x509.Certificate, key *ecdsa.PrivateKey, validity time.Duration) *LocalMinter {
	if validity <= 0 {
		validity = 24 * time.Hour
	}
	return &LocalMinter{RootCert: root, RootKey: key, Validity: validity}
}

// Mint builds a fresh leaf whose subject mirrors domain, whose key usage
// mirrors upstreamLeaf when available (so a pinned client sees a
// shape-compatible certificate), signed by the agent's local root.
func (m *LocalMinter) Mint(ctx context.Context, service, usage, domain string, upstreamLeaf *x509.Certificate) (*Pair, error) {
	if m.RootCert == nil || m.RootKey == nil {
		return nil, errNoLocalCA()
	}

	leafKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, errMintFailed(err)
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, errMintFailed(err)
	}

	now := time.Now()
	tmpl := &x509.Certificate{
		SerialNumber: serial,
		Subject:      pkix.Name{CommonName: domain, Organization: []string{service}},
		NotBefore:    now.Add(-time.Minute),
		NotAfter:     now.Add(m.Validity),
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		DNSNames:     []string{domain},
	}
	if ip := net.ParseIP(domain); ip != nil {
		tmpl.DNSNames = nil
		tmpl.IPAddresses = []net.IP{ip}
	}
	if upstreamLeaf != nil {
		tmpl.DNSNames = append(tmpl.DNSNames, upstreamLeaf.DNSNames...)
		tmpl.IPAddresses = append(tmpl.IPAddresses, upstreamLeaf.IPAddresses...)
	}
	_ = usage // reserved: distinguishes server/client-auth leaves once mutual-TLS intercept is wired

	der, err := x509.CreateCertificate(rand.Reader, tmpl, m.RootCert, &leafKey.PublicKey, m.RootKey)
	if err != nil {
		return nil, errMintFailed(err)
	}
	leaf, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, errMintFailed(err)
	}
	keyDER, err := x509.MarshalECPrivateKey(leafKey)
	if err != nil {
		return nil, errMintFailed(err)
	}

	return &Pair{
		Leaf:   leaf,
		Chain:  [][]byte{der, m.RootCert.Raw},
		KeyDER: keyDER,
	}, nil
}
