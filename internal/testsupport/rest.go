package testsupport

import (
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
)

// RESTServer is an httptest server split into the host-only base URL and port
// that expctl composes into request URLs.
type RESTServer struct {
	*httptest.Server
	BaseURL string
	Port    int
}

// NewRESTServer starts handler on a loopback port and registers cleanup.
func NewRESTServer(t testing.TB, handler http.Handler) *RESTServer {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	parsed, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("parse server url: %v", err)
	}
	host, portText, err := net.SplitHostPort(parsed.Host)
	if err != nil {
		t.Fatalf("split server host: %v", err)
	}
	port, err := strconv.Atoi(portText)
	if err != nil {
		t.Fatalf("parse server port: %v", err)
	}
	return &RESTServer{
		Server:  srv,
		BaseURL: parsed.Scheme + "://" + host,
		Port:    port,
	}
}
