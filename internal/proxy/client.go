package proxy

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/net/proxy"
)

// Client routes HTTP traffic through a SOCKS5 proxy.
//
// Design decision: We only speak SOCKS5, not HTTP CONNECT proxies. SOCKS5
// covers the two cases this tool is actually used with (a local Tor daemon
// and ssh -D tunnels), and supporting both protocols would double the
// surface for little gain.
type Client struct {
	// proxyAddress is the SOCKS5 proxy address in "host:port" format.
	proxyAddress string

	// dialer is the SOCKS5 dialer; cached so every connection reuses it.
	dialer proxy.Dialer

	// timeout is the per-request timeout applied to HTTP clients built
	// from this Client.
	timeout time.Duration
}

// NewClient creates a SOCKS5 proxy client for the given address.
//
// The address must be in "host:port" format. The format is validated here,
// but no connection is attempted: the proxy may legitimately come up later,
// and the first fetch will surface any connectivity problem as an ordinary
// recoverable failure.
func NewClient(proxyAddress string, timeout time.Duration) (*Client, error) {
	if !isValidProxyAddress(proxyAddress) {
		return nil, ErrInvalidProxyAddress
	}

	// nil auth: neither Tor nor ssh -D requires SOCKS authentication.
	dialer, err := proxy.SOCKS5("tcp", proxyAddress, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}

	return &Client{
		proxyAddress: proxyAddress,
		dialer:       dialer,
		timeout:      timeout,
	}, nil
}

// Address returns the configured proxy address.
func (c *Client) Address() string {
	return c.proxyAddress
}

// HTTPClient returns an *http.Client whose connections are dialed through
// the SOCKS5 proxy. DNS resolution happens proxy-side, so looked-up
// hostnames never leak to the local resolver.
func (c *Client) HTTPClient() *http.Client {
	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			if cd, ok := c.dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, addr)
			}
			return c.dialer.Dial(network, addr)
		},
	}

	return &http.Client{
		Transport: transport,
		Timeout:   c.timeout,
	}
}

// isValidProxyAddress checks if the address is in valid "host:port" format
// with a port in the 1..65535 range.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}

	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 65535
}
