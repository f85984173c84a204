// Package main generates a development Certificate Authority and a server
// certificate signed by it, writing them under the "certs" directory.
//
// Serve the API with TLS_CERT=certs/server.crt TLS_KEY=certs/server.key and
// start the client with -ca certs/ca.crt.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atinyakov/WorkPlanner/internal/certgen"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "certgen:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("certgen", flag.ContinueOnError)
	fs.SetOutput(out)
	dir := fs.String("dir", "certs", "output directory")
	hosts := fs.String("hosts", "localhost,127.0.0.1", "comma-separated server host names and IPs")
	validity := fs.Duration("validity", 365*24*time.Hour, "server certificate lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// 1. Reuse the CA when one exists, so clients keep trusting it
	caCertPath, caKeyPath := filepath.Join(*dir, "ca.crt"), filepath.Join(*dir, "ca.key")
	ca, err := certgen.LoadCA(caCertPath, caKeyPath)
	switch {
	case err == nil:
		fmt.Fprintf(out, "Reusing CA from %s\n", caCertPath)
	case errors.Is(err, os.ErrNotExist):
		if ca, err = certgen.NewCA("WorkPlanner Dev CA", 10*365*24*time.Hour); err != nil {
			return err
		}
		certPEM, keyPEM, err := ca.PEM()
		if err != nil {
			return err
		}
		if err := certgen.WritePair(*dir, "ca", certPEM, keyPEM); err != nil {
			return err
		}
		fmt.Fprintf(out, "Generated CA into %s\n", caCertPath)
	default:
		return err
	}

	// 2. Issue the server certificate
	certPEM, keyPEM, err := ca.IssueServer(splitHosts(*hosts), *validity)
	if err != nil {
		return err
	}
	if err := certgen.WritePair(*dir, "server", certPEM, keyPEM); err != nil {
		return err
	}

	fmt.Fprintf(out, "Generated server certificate into %s\n", filepath.Join(*dir, "server.crt"))
	return nil
}

func splitHosts(s string) []string {
	var hosts []string
	for _, h := range strings.Split(s, ",") {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}
