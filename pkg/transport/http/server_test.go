package http

import (
	"context"
	"encoding/json"
	"io"
	"net"
	gohttp "net/http"
	"strings"
	"testing"
	"time"

	"github.com/rhuss/gemini-proxy/pkg/api"
	"github.com/rhuss/gemini-proxy/pkg/transport"
)

type testServerCreator struct {
	text string
}

func (c *testServerCreator) CreateCompletion(ctx context.Context, req *api.ChatCompletionRequest) (*api.ChatCompletionResponse, error) {
	return api.NewChatCompletionResponse(req.Model, c.text, time.Now()), nil
}

func (c *testServerCreator) ListModels(ctx context.Context) (*api.ModelList, error) {
	return &api.ModelList{Object: api.ObjectList, Data: []api.Model{}}, nil
}

const chatBody = `{"model":"test","messages":[{"role":"user","content":"hi"}]}`

// startServer serves srv on a random port until the test ends.
func startServer(t *testing.T, srv *Server) (string, <-chan error) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ServeOn(ctx, ln) }()
	t.Cleanup(cancel)

	return ln.Addr().String(), done
}

func TestServerStartsAndAcceptsRequests(t *testing.T) {
	creator := &testServerCreator{text: "pong"}
	srv := NewServer(creator, creator, WithAddr("127.0.0.1:0"))
	addr, _ := startServer(t, srv)

	resp, err := gohttp.Post("http://"+addr+"/v1/chat/completions", "application/json", strings.NewReader(chatBody))
	if err != nil {
		t.Fatalf("POST error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != gohttp.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, gohttp.StatusOK)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}

	var got api.ChatCompletionResponse
	json.NewDecoder(resp.Body).Decode(&got)
	if len(got.Choices) != 1 || got.Choices[0].Message.Content != "pong" {
		t.Errorf("choices = %+v", got.Choices)
	}
}

func TestServerStopsWhenContextCancelled(t *testing.T) {
	creator := &testServerCreator{}
	srv := NewServer(creator, creator, WithShutdownTimeout(time.Second))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ServeOn(ctx, ln) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ServeOn returned %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServerStopsOnExternalShutdown(t *testing.T) {
	creator := &testServerCreator{}
	srv := NewServer(creator, creator)
	addr, done := startServer(t, srv)

	// Wait until the listener answers.
	resp, err := gohttp.Get("http://" + addr + "/")
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ServeOn returned %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ServeOn did not return after Shutdown")
	}
}

func TestServerGracefulShutdown(t *testing.T) {
	slowCreator := transport.CompletionCreatorFunc(func(ctx context.Context, req *api.ChatCompletionRequest) (*api.ChatCompletionResponse, error) {
		select {
		case <-time.After(200 * time.Millisecond):
			return api.NewChatCompletionResponse(req.Model, "slow", time.Now()), nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})

	srv := NewServer(slowCreator, &testServerCreator{},
		WithShutdownTimeout(5*time.Second),
	)
	addr, _ := startServer(t, srv)
	time.Sleep(50 * time.Millisecond)

	responseCh := make(chan int, 1)
	go func() {
		resp, err := gohttp.Post("http://"+addr+"/v1/chat/completions", "application/json", strings.NewReader(chatBody))
		if err != nil {
			responseCh <- 0
			return
		}
		defer resp.Body.Close()
		responseCh <- resp.StatusCode
	}()

	time.Sleep(50 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(ctx)

	status := <-responseCh
	if status != gohttp.StatusOK {
		t.Errorf("slow request status = %d, want %d", status, gohttp.StatusOK)
	}
}

func TestServerWaitsForSlowUpstream(t *testing.T) {
	slowCreator := transport.CompletionCreatorFunc(func(ctx context.Context, req *api.ChatCompletionRequest) (*api.ChatCompletionResponse, error) {
		time.Sleep(300 * time.Millisecond)
		return api.NewChatCompletionResponse(req.Model, "eventually", time.Now()), nil
	})

	srv := NewServer(slowCreator, &testServerCreator{})
	if srv.httpServer.WriteTimeout != 0 {
		t.Fatalf("write timeout = %v, want none", srv.httpServer.WriteTimeout)
	}
	addr, _ := startServer(t, srv)

	resp, err := gohttp.Post("http://"+addr+"/v1/chat/completions", "application/json", strings.NewReader(chatBody))
	if err != nil {
		t.Fatalf("POST error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != gohttp.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, gohttp.StatusOK)
	}
	var got api.ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(got.Choices) != 1 || got.Choices[0].Message.Content != "eventually" {
		t.Errorf("choices = %+v", got.Choices)
	}
}

func TestServerMetricsOffByDefault(t *testing.T) {
	creator := &testServerCreator{}
	srv := NewServer(creator, creator)
	addr, _ := startServer(t, srv)

	resp, err := gohttp.Get("http://" + addr + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != gohttp.StatusNotFound {
		t.Fatalf("status = %d, want %d", resp.StatusCode, gohttp.StatusNotFound)
	}
	var body api.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if body.Error == nil || body.Error.Type != api.ErrorTypeNotFound {
		t.Errorf("error = %+v, want not_found", body.Error)
	}
}

func TestServerMetrics(t *testing.T) {
	creator := &testServerCreator{text: "pong"}
	srv := NewServer(creator, creator, WithMetrics("/metrics"))
	addr, _ := startServer(t, srv)

	resp, err := gohttp.Post("http://"+addr+"/v1/chat/completions", "application/json", strings.NewReader(chatBody))
	if err != nil {
		t.Fatalf("POST error: %v", err)
	}
	resp.Body.Close()

	resp, err = gohttp.Get("http://" + addr + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics error: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != gohttp.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), `geminiproxy_requests_total{method="POST",route="/v1/chat/completions",status="2xx"}`) {
		t.Errorf("request counter not exposed:\n%s", body)
	}
}

func TestServerFunctionalOptions(t *testing.T) {
	creator := &testServerCreator{}
	srv := NewServer(creator, creator,
		WithAddr(":9999"),
		WithMaxBodySize(1024),
		WithTimeouts(5*time.Second, 6*time.Second),
		WithShutdownTimeout(10*time.Second),
		WithMetrics("/internal/metrics"),
	)

	if srv.config.Addr != ":9999" {
		t.Errorf("addr = %q, want %q", srv.config.Addr, ":9999")
	}
	if srv.config.MaxBodySize != 1024 {
		t.Errorf("max body size = %d, want %d", srv.config.MaxBodySize, 1024)
	}
	if srv.httpServer.ReadTimeout != 5*time.Second || srv.httpServer.WriteTimeout != 6*time.Second {
		t.Errorf("timeouts = %v/%v", srv.httpServer.ReadTimeout, srv.httpServer.WriteTimeout)
	}
	if srv.config.ShutdownTimeout != 10*time.Second {
		t.Errorf("shutdown timeout = %v, want %v", srv.config.ShutdownTimeout, 10*time.Second)
	}
	if srv.config.MetricsPath != "/internal/metrics" {
		t.Errorf("metrics path = %q", srv.config.MetricsPath)
	}
}

func TestDefaultServerConfig(t *testing.T) {
	cfg := DefaultServerConfig()
	if cfg.Addr != ":10000" {
		t.Errorf("addr = %q, want :10000", cfg.Addr)
	}
	if cfg.MaxBodySize != 10<<20 {
		t.Errorf("max body = %d", cfg.MaxBodySize)
	}
	if cfg.MetricsPath != "" {
		t.Errorf("metrics path = %q, want disabled", cfg.MetricsPath)
	}
	if cfg.WriteTimeout != 0 {
		t.Errorf("write timeout = %v, want none", cfg.WriteTimeout)
	}
}
