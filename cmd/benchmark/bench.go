package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/nulzo/intent-router/internal/config"
	"github.com/nulzo/intent-router/internal/gateway"
	"github.com/nulzo/intent-router/internal/server"
	vegeta "github.com/tsenart/vegeta/v12/lib"
	"go.uber.org/zap"
)

const benchKey = "bench-key-12345"

var queries = []string{
	"git status",
	"create a function to parse JSON",
	"why is this failing with an error",
	"what is the best approach for a microservice architecture",
	"xyz123",
	"",
}

func main() {
	duration := flag.Duration("duration", 10*time.Second, "duration of the attack")
	rate := flag.Int("rate", 200, "requests per second")
	target := flag.String("target", "classify", "endpoint to attack: classify or completions")
	upstreamDelay := flag.Duration("upstream-delay", 10*time.Millisecond, "latency of the mock upstream")
	flag.Parse()

	upstreamURL := startMockUpstream(*upstreamDelay)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appURL, err := startRouter(ctx, upstreamURL)
	if err != nil {
		log.Fatalf("failed to start router: %v", err)
	}
	waitForApp(appURL + "/health")

	targeter, err := newTargeter(appURL, *target)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Attacking %s: %s at %d req/s\n", *target, *duration, *rate)

	attacker := vegeta.NewAttacker(vegeta.KeepAlive(true))
	var metrics vegeta.Metrics
	for res := range attacker.Attack(targeter, vegeta.Rate{Freq: *rate, Per: time.Second}, *duration, "intent-router") {
		metrics.Add(res)
	}
	metrics.Close()

	report(&metrics)
}

func newTargeter(appURL, target string) (vegeta.Targeter, error) {
	header := http.Header{
		"Content-Type":  []string{"application/json"},
		"Authorization": []string{"Bearer " + benchKey},
	}

	var path string
	var body func(q string) []byte
	switch target {
	case "classify":
		path = "/v1/classify"
		body = func(q string) []byte {
			b, _ := json.Marshal(map[string]string{"query": q})
			return b
		}
	case "completions":
		path = "/v1/chat/completions"
		body = func(q string) []byte {
			b, _ := json.Marshal(map[string]interface{}{
				"model":    "auto",
				"messages": []map[string]string{{"role": "user", "content": q + " please"}},
			})
			return b
		}
	default:
		return nil, fmt.Errorf("unknown target %q", target)
	}

	return func(t *vegeta.Target) error {
		t.Method = http.MethodPost
		t.URL = appURL + path
		t.Body = body(queries[rand.Intn(len(queries))])
		t.Header = header
		return nil
	}, nil
}

// startRouter runs the real server in-process on a free port.
func startRouter(ctx context.Context, upstreamURL string) (string, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}

	cfg := &config.Config{
		Server:    config.ServerConfig{Port: "0", Env: "production", APIKeys: []string{benchKey}},
		Upstream:  config.UpstreamConfig{BaseURL: upstreamURL, APIKey: "mock-key"},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 0},
		ModelInfo: config.ModelInfoConfig{CacheTTL: time.Minute, CacheSize: 16},
	}

	rt, err := gateway.Bootstrap(ctx, cfg, zap.NewNop())
	if err != nil {
		return "", err
	}
	go func() {
		<-ctx.Done()
		_ = rt.Close()
	}()

	srv := server.New(cfg, zap.NewNop(), rt.Service, "bench")
	go func() {
		_ = http.Serve(ln, srv.Handler())
	}()

	return "http://" + ln.Addr().String(), nil
}

func startMockUpstream(delay time.Duration) string {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		log.Fatalf("mock upstream: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&req)
		time.Sleep(delay)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "bench-123",
			"object":  "chat.completion",
			"created": time.Now().Unix(),
			"model":   req["model"],
			"choices": []interface{}{map[string]interface{}{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": "Hello"},
				"finish_reason": "stop",
			}},
			"usage": map[string]int{"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15},
		})
	})

	go func() {
		_ = http.Serve(ln, mux)
	}()
	return "http://" + ln.Addr().String()
}

func waitForApp(url string) {
	for i := 0; i < 20; i++ {
		resp, err := http.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(250 * time.Millisecond)
	}
	log.Fatal("app timed out")
}

func report(m *vegeta.Metrics) {
	line := strings.Repeat("-", 50)
	fmt.Println(line)
	fmt.Println("99th percentile: ", m.Latencies.P99)
	fmt.Println("Mean:            ", m.Latencies.Mean)
	fmt.Println("Max:             ", m.Latencies.Max)
	fmt.Printf("Success:         %.2f%%\n", m.Success*100)
	fmt.Printf("Throughput:      %.2f req/s\n", m.Throughput)
	fmt.Println(line)

	if len(m.Errors) > 0 {
		fmt.Println("Error set (first 5 unique):")
		seen := make(map[string]bool)
		for _, msg := range m.Errors {
			if !seen[msg] && len(seen) < 5 {
				fmt.Println(msg)
				seen[msg] = true
			}
		}
		os.Exit(1)
	}
}
