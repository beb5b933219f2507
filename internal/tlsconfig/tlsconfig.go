// Package tlsconfig builds the *tls.Config used for "mqtts://" and "wss://"
// broker connections: the system root pool, an optional client
// certificate/key pair, and SSLKEYLOGFILE-based key logging for external
// decryption tools (spec §6 "TLS").
//
// Grounded on github.com/getmockd/mockd's pkg/tls.LoadTLSCertificate for
// the PEM-loading call shape; that package's certificate-generation half
// (pkg/tls/certgen.go, GenerateSelfSignedCert, EnsureCertificate) has no
// caller here, since mqttui is a client that is handed certificates, never
// a server that mints them, and is not carried forward.
package tlsconfig

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log/slog"
	"os"
)

// Options configures Build.
type Options struct {
	// Insecure disables server certificate verification entirely.
	Insecure bool

	// ClientCertPath and ClientKeyPath, if both set, are loaded as a PEM
	// client certificate for mutual-TLS brokers.
	ClientCertPath string
	ClientKeyPath  string

	// ServerName overrides SNI; empty uses the broker host.
	ServerName string

	Logger *slog.Logger
}

// Build constructs a *tls.Config from opts. Individual client-certificate
// load failures are logged and the connection proceeds without a client
// cert rather than aborting, a warn-and-continue posture on per-item
// failures consistent with the rest of mqttui's connection setup.
func Build(opts Options) (*tls.Config, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		logger.Warn("falling back to an empty root certificate pool", "error", err)
		pool = x509.NewCertPool()
	}

	cfg := &tls.Config{
		RootCAs:            pool,
		InsecureSkipVerify: opts.Insecure,
		ServerName:         opts.ServerName,
	}

	if opts.ClientCertPath != "" && opts.ClientKeyPath != "" {
		cert, err := tls.LoadX509KeyPair(opts.ClientCertPath, opts.ClientKeyPath)
		if err != nil {
			logger.Warn("skipping client certificate: failed to load key pair",
				"cert", opts.ClientCertPath, "key", opts.ClientKeyPath, "error", err)
		} else {
			cfg.Certificates = []tls.Certificate{cert}
		}
	}

	if err := enableKeyLogging(cfg, logger); err != nil {
		return nil, err
	}

	return cfg, nil
}

// enableKeyLogging wires cfg.KeyLogWriter to the file named by
// SSLKEYLOGFILE, if set, so tools like Wireshark can decrypt captured
// traffic. The file is opened append-only and never closed by this
// package; it lives for the process lifetime.
func enableKeyLogging(cfg *tls.Config, logger *slog.Logger) error {
	path := os.Getenv("SSLKEYLOGFILE")
	if path == "" {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("opening SSLKEYLOGFILE %q: %w", path, err)
	}

	logger.Warn("TLS key logging enabled via SSLKEYLOGFILE", "path", path)
	cfg.KeyLogWriter = f
	return nil
}
