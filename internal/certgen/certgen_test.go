package certgen

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeCA(t *testing.T, ca *CA) (string, string) {
	t.Helper()
	certPEM, keyPEM, err := ca.PEM()
	if err != nil {
		t.Fatalf("encode CA: %v", err)
	}
	dir := t.TempDir()
	if err := WritePair(dir, "ca", certPEM, keyPEM); err != nil {
		t.Fatalf("write CA: %v", err)
	}
	return filepath.Join(dir, "ca.crt"), filepath.Join(dir, "ca.key")
}

func TestNewCA(t *testing.T) {
	ca, err := NewCA("WorkPlanner Dev CA", 24*time.Hour)
	if err != nil {
		t.Fatalf("NewCA error: %v", err)
	}
	if !ca.Cert.IsCA || !ca.Cert.BasicConstraintsValid {
		t.Error("certificate should be a CA")
	}
	if ca.Cert.KeyUsage&x509.KeyUsageCertSign == 0 {
		t.Errorf("KeyUsage = %v; want CertSign", ca.Cert.KeyUsage)
	}
	if ca.Cert.Subject.CommonName != "WorkPlanner Dev CA" {
		t.Errorf("CommonName = %q", ca.Cert.Subject.CommonName)
	}
	if _, ok := ca.Key.(*ecdsa.PrivateKey); !ok {
		t.Errorf("key type = %T; want *ecdsa.PrivateKey", ca.Key)
	}
}

func TestLoadCA_RoundTrip(t *testing.T) {
	ca, err := NewCA("Test CA", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	certPath, keyPath := writeCA(t, ca)

	loaded, err := LoadCA(certPath, keyPath)
	if err != nil {
		t.Fatalf("LoadCA error: %v", err)
	}
	if !loaded.Cert.Equal(ca.Cert) {
		t.Error("loaded certificate does not match")
	}
	want := ca.Key.(*ecdsa.PrivateKey)
	got, ok := loaded.Key.(*ecdsa.PrivateKey)
	if !ok {
		t.Fatalf("key type = %T; want *ecdsa.PrivateKey", loaded.Key)
	}
	if !got.Equal(want) {
		t.Error("loaded key does not match")
	}
}

func TestLoadCA_RSAKey(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	template := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "RSA CA"},
		NotBefore:             time.Now().Add(-time.Minute),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		KeyUsage:              x509.KeyUsageCertSign,
		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &rsaKey.PublicKey, rsaKey)
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(rsaKey)})
	if err := WritePair(dir, "ca", certPEM, keyPEM); err != nil {
		t.Fatal(err)
	}

	ca, err := LoadCA(filepath.Join(dir, "ca.crt"), filepath.Join(dir, "ca.key"))
	if err != nil {
		t.Fatalf("LoadCA error: %v", err)
	}
	if _, ok := ca.Key.(*rsa.PrivateKey); !ok {
		t.Errorf("key type = %T; want *rsa.PrivateKey", ca.Key)
	}
	if _, _, err := ca.IssueServer([]string{"localhost"}, time.Hour); err != nil {
		t.Errorf("IssueServer with RSA CA: %v", err)
	}
}

func TestLoadCA_Errors(t *testing.T) {
	ca, err := NewCA("Test CA", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	certPath, keyPath := writeCA(t, ca)

	garbage := filepath.Join(t.TempDir(), "garbage.pem")
	if err := os.WriteFile(garbage, []byte("not a pem"), 0o600); err != nil {
		t.Fatal(err)
	}

	leafPEM, leafKeyPEM, err := ca.IssueServer([]string{"localhost"}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	leafDir := t.TempDir()
	if err := WritePair(leafDir, "server", leafPEM, leafKeyPEM); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		certPath string
		keyPath  string
		want     string
	}{
		{"missing cert", "/no/such/file.pem", keyPath, "read ca cert"},
		{"missing key", certPath, "/no/such/key.pem", "read ca key"},
		{"bad cert", garbage, keyPath, "invalid CA cert PEM"},
		{"bad key", certPath, garbage, "invalid CA key PEM"},
		{"leaf cert", filepath.Join(leafDir, "server.crt"), filepath.Join(leafDir, "server.key"), "not a CA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCA(tt.certPath, tt.keyPath)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %v; want error containing %q", err, tt.want)
			}
		})
	}
}

func TestIssueServer(t *testing.T) {
	ca, err := NewCA("Test CA", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	certPEM, keyPEM, err := ca.IssueServer([]string{"localhost", "127.0.0.1", "planner.internal"}, time.Hour)
	if err != nil {
		t.Fatalf("IssueServer error: %v", err)
	}

	block, _ := pem.Decode(certPEM)
	if block == nil || block.Type != "CERTIFICATE" {
		t.Fatalf("cert PEM invalid")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		t.Fatalf("parse cert: %v", err)
	}
	if cert.Subject.CommonName != "localhost" {
		t.Errorf("CommonName = %q; want localhost", cert.Subject.CommonName)
	}
	if len(cert.DNSNames) != 2 || cert.DNSNames[0] != "localhost" || cert.DNSNames[1] != "planner.internal" {
		t.Errorf("DNSNames = %v", cert.DNSNames)
	}
	if len(cert.IPAddresses) != 1 || !cert.IPAddresses[0].Equal(net.ParseIP("127.0.0.1")) {
		t.Errorf("IPAddresses = %v", cert.IPAddresses)
	}

	roots := x509.NewCertPool()
	roots.AddCert(ca.Cert)
	if _, err := cert.Verify(x509.VerifyOptions{
		DNSName:   "planner.internal",
		Roots:     roots,
		KeyUsages: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}); err != nil {
		t.Errorf("verify against CA: %v", err)
	}

	if _, err := tls.X509KeyPair(certPEM, keyPEM); err != nil {
		t.Errorf("certificate and key do not form a TLS pair: %v", err)
	}
}

func TestIssueServer_NoHosts(t *testing.T) {
	ca, err := NewCA("Test CA", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := ca.IssueServer(nil, time.Hour); err == nil {
		t.Error("expected error for empty host list")
	}
}

func TestWritePair_Permissions(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "certs")
	if err := WritePair(dir, "server", []byte("cert"), []byte("key")); err != nil {
		t.Fatalf("WritePair error: %v", err)
	}
	info, err := os.Stat(filepath.Join(dir, "server.key"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("key mode = %v; want 0600", info.Mode().Perm())
	}
	data, err := os.ReadFile(filepath.Join(dir, "server.crt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "cert" {
		t.Errorf("cert = %q", data)
	}
}
