package network

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"

	"precis/backend/internal/logger"
)

// ProxyProvider provides proxy configuration.
type ProxyProvider interface {
	GetProxyURL(ctx context.Context) string
}

// StaticProxy is a ProxyProvider returning a fixed URL; empty means direct.
type StaticProxy string

func (p StaticProxy) GetProxyURL(ctx context.Context) string {
	return string(p)
}

// ClientFactory creates outbound HTTP clients for model hubs and APIs.
type ClientFactory struct {
	proxyProvider ProxyProvider
}

// NewClientFactory creates a new client factory.
func NewClientFactory(proxyProvider ProxyProvider) *ClientFactory {
	if proxyProvider == nil {
		proxyProvider = StaticProxy("")
	}
	return &ClientFactory{proxyProvider: proxyProvider}
}

// NewHTTPClient creates an http.Client with proxy configuration.
// A zero timeout means no client-side timeout.
func (f *ClientFactory) NewHTTPClient(ctx context.Context, timeout time.Duration) *http.Client {
	client := &http.Client{Timeout: timeout}

	proxyURL := f.proxyProvider.GetProxyURL(ctx)
	if proxyURL != "" {
		client.Transport = newTransportWithProxy(proxyURL)
		logger.Debug("outbound proxy enabled", "module", "network", "action", "request", "resource", "proxy", "result", "ok", "scheme", proxyScheme(proxyURL))
	}

	return client
}

// newTransportWithProxy creates an http.Transport with proper proxy support.
// For SOCKS5 proxies, it uses golang.org/x/net/proxy for correct handling.
// For HTTP/HTTPS proxies, it uses the standard http.ProxyURL.
func newTransportWithProxy(proxyURL string) *http.Transport {
	parsed, err := url.Parse(proxyURL)
	if err != nil {
		logger.Warn("invalid proxy url", "module", "network", "action", "request", "resource", "proxy", "result", "failed", "error", err)
		return &http.Transport{}
	}

	if strings.HasPrefix(parsed.Scheme, "socks") {
		var auth *proxy.Auth
		if parsed.User != nil {
			auth = &proxy.Auth{
				User: parsed.User.Username(),
			}
			if password, ok := parsed.User.Password(); ok {
				auth.Password = password
			}
		}

		dialer, err := proxy.SOCKS5("tcp", parsed.Host, auth, proxy.Direct)
		if err != nil {
			return &http.Transport{}
		}

		if cd, ok := dialer.(proxy.ContextDialer); ok {
			return &http.Transport{DialContext: cd.DialContext}
		}
		return &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			},
		}
	}

	return &http.Transport{
		Proxy: http.ProxyURL(parsed),
	}
}

func proxyScheme(proxyURL string) string {
	if parsed, err := url.Parse(proxyURL); err == nil {
		return parsed.Scheme
	}
	return ""
}
