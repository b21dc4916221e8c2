// Command healthcheck probes a running codehub server. It exits 0 when the
// health endpoint answers 200 with status "ok" and 1 otherwise, which makes
// it usable as a container HEALTHCHECK in images without a shell.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"
)

const (
	defaultAddr  = "127.0.0.1:8080"
	healthPath   = "/api/v1/health"
	probeTimeout = 2 * time.Second
)

type healthReport struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func main() {
	os.Exit(check())
}

func check() int {
	if err := probe(context.Background(), normalizeAddr(os.Getenv("CODEHUB_LISTEN_ADDR"))); err != nil {
		fmt.Fprintln(os.Stderr, "unhealthy:", err)
		return 1
	}
	return 0
}

func probe(ctx context.Context, addr string) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+healthPath, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", healthPath, err)
	}
	defer resp.Body.Close()

	var report healthReport
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&report); err != nil {
		return fmt.Errorf("decoding health report (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK || report.Status != "ok" {
		return fmt.Errorf("status %d, %s, database: %s", resp.StatusCode, report.Status, report.Database)
	}
	return nil
}

// normalizeAddr points the probe at loopback when the server binds every
// interface, since the probe runs next to the server.
func normalizeAddr(raw string) string {
	host, port, err := net.SplitHostPort(raw)
	if err != nil {
		return defaultAddr
	}

	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
	}

	return net.JoinHostPort(host, port)
}
