package search

import (
	"context"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"time"

	tls2 "github.com/refraction-networking/utls"
)

// searchDomains are the regional endpoints a fresh identity may be bound
// to. Once picked, the binding is persisted with the fingerprint so every
// later run hits the same endpoint.
var searchDomains = []string{
	"www.google.com",
	"www.google.co.uk",
	"www.google.ca",
	"www.google.com.au",
}

// pickDomain chooses a regional endpoint for a fresh identity.
func pickDomain() string {
	return searchDomains[rand.IntN(len(searchDomains))]
}

// preflightTimeout bounds the reachability probe of a freshly picked domain.
const preflightTimeout = 5 * time.Second

// preflightDomain checks that the chosen domain answers over TLS, using a
// Chrome ClientHello so the probe's TLS fingerprint matches the identity
// the browser will present. Failures are advisory only; the caller logs
// and proceeds, since the browser may still succeed where the probe fails.
func preflightDomain(ctx context.Context, domain, proxy string) error {
	ctx, cancel := context.WithTimeout(ctx, preflightTimeout)
	defer cancel()

	transport := &http.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialTLSChrome(ctx, network, addr)
		},
	}
	if proxy != "" {
		if proxyURL, err := url.Parse(proxy); err == nil && (proxyURL.Scheme == "http" || proxyURL.Scheme == "https") {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	client := &http.Client{Transport: transport}
	defer client.CloseIdleConnections()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, "https://"+domain+"/", nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// dialTLSChrome establishes a TLS connection using a Chrome fingerprint via utls.
func dialTLSChrome(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{}
	rawConn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	host, _, _ := net.SplitHostPort(addr)
	tlsConn := tls2.UClient(rawConn, &tls2.Config{
		ServerName: host,
	}, tls2.HelloChrome_Auto)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		rawConn.Close()
		return nil, err
	}
	return tlsConn, nil
}
