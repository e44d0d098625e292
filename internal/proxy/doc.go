// Package proxy provides SOCKS5 connectivity for crawling through a proxy
// or the Tor network.
//
// Client wraps any SOCKS5 endpoint into an *http.Client with proxy-side DNS
// resolution. EmbeddedTor launches a Tor daemon on demand and exposes it as
// just another SOCKS5 endpoint, keeping the crawl code proxy-agnostic.
package proxy
