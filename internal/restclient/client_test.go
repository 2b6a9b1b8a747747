package restclient_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"expctl/internal/restclient"
	"expctl/internal/testsupport"
)

func TestURLBuilders(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	client := restclient.New(cfg)

	cases := map[string]string{
		client.ExperimentURL(8080):      "http://localhost:8080/api/v1/nni/experiment",
		client.TrialJobsURL(8080):       "http://localhost:8080/api/v1/nni/trial-jobs",
		client.TrialJobURL(8080, "abc"): "http://localhost:8080/api/v1/nni/trial-jobs/abc",
		client.CheckStatusURL(8080):     "http://localhost:8080/api/v1/nni/check-status",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("got %q want %q", got, want)
		}
	}
}

func TestGetSendsRequestID(t *testing.T) {
	var seen string
	srv := testsupport.NewRESTServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(restclient.RequestIDHeader)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	cfg := testsupport.NewConfig(t, testsupport.WithRESTBaseURL(srv.BaseURL))
	client := restclient.New(cfg)

	resp, err := client.Get(context.Background(), client.ExperimentURL(srv.Port), time.Second)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !restclient.IsResponseOK(resp) {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Text() != `{"ok":true}` {
		t.Fatalf("unexpected body %q", resp.Text())
	}
	if seen == "" || seen != client.RequestID() {
		t.Fatalf("request id header %q, client id %q", seen, client.RequestID())
	}
}

func TestWithRequestID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	client := restclient.New(cfg, restclient.WithRequestID("fixed"))
	if client.RequestID() != "fixed" {
		t.Fatalf("expected fixed request id, got %q", client.RequestID())
	}
}

func TestDeleteReportsStatus(t *testing.T) {
	var method string
	srv := testsupport.NewRESTServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	cfg := testsupport.NewConfig(t, testsupport.WithRESTBaseURL(srv.BaseURL))
	client := restclient.New(cfg)

	resp, err := client.Delete(context.Background(), client.TrialJobURL(srv.Port, "t1"), time.Second)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if method != http.MethodDelete {
		t.Fatalf("expected DELETE, got %s", method)
	}
	if restclient.IsResponseOK(resp) {
		t.Fatal("500 must not be OK")
	}
	if resp.Text() != "boom" {
		t.Fatalf("unexpected body %q", resp.Text())
	}
}

func TestRequestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := testsupport.NewRESTServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer close(release)
	cfg := testsupport.NewConfig(t, testsupport.WithRESTBaseURL(srv.BaseURL))
	client := restclient.New(cfg)

	if _, err := client.Get(context.Background(), client.ExperimentURL(srv.Port), 50*time.Millisecond); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestCheckServerQuick(t *testing.T) {
	srv := testsupport.NewRESTServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/nni/check-status" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"status":"RUNNING"}`))
	}))
	cfg := testsupport.NewConfig(t, testsupport.WithRESTBaseURL(srv.BaseURL))
	client := restclient.New(cfg)

	running, resp := client.CheckServerQuick(context.Background(), srv.Port)
	if !running || resp == nil {
		t.Fatalf("expected running server, got %v %v", running, resp)
	}

	srv.Close()
	running, resp = client.CheckServerQuick(context.Background(), srv.Port)
	if running || resp != nil {
		t.Fatalf("expected closed server to be down, got %v %v", running, resp)
	}
}

func TestIsResponseOKNil(t *testing.T) {
	if restclient.IsResponseOK(nil) {
		t.Fatal("nil response must not be OK")
	}
}

func TestTrialJobURLEscapesID(t *testing.T) {
	var (
		path  string
		query string
	)
	srv := testsupport.NewRESTServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.EscapedPath()
		query = r.URL.RawQuery
	}))
	cfg := testsupport.NewConfig(t, testsupport.WithRESTBaseURL(srv.BaseURL))
	client := restclient.New(cfg)

	target := client.TrialJobURL(srv.Port, "a/b?c")
	if want := "/api/v1/nni/trial-jobs/a%2Fb%3Fc"; !strings.HasSuffix(target, want) {
		t.Fatalf("unexpected url %q", target)
	}
	if _, err := client.Delete(context.Background(), target, time.Second); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if path != "/api/v1/nni/trial-jobs/a%2Fb%3Fc" || query != "" {
		t.Fatalf("request reached path=%q query=%q", path, query)
	}
}
