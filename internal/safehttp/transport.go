// Package safehttp provides an outbound transport that refuses to dial
// private address space. The upstream base URL is operator-configurable, so
// a bad config (or a hijacked DNS answer) must not turn the tool into an
// internal-network proxy.
package safehttp

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Transport rejects connections to loopback, private, and link-local ranges.
var Transport = &http.Transport{
	DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
		dialer := &net.Dialer{Timeout: 5 * time.Second}
		conn, err := dialer.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}

		host, _, _ := net.SplitHostPort(conn.RemoteAddr().String())
		ip := net.ParseIP(host)
		if ip == nil {
			conn.Close()
			return nil, fmt.Errorf("failed to parse remote IP for %q", addr)
		}

		if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() {
			conn.Close()
			return nil, fmt.Errorf("access to private IP %s is denied", ip)
		}

		return conn, nil
	},
}
