package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "valyu.yaml")
	content := fmt.Sprintf(`
search:
  base_url: %s
  top_k: 5
content:
  base_url: %s
logging:
  level: error
metrics:
  enabled: true
`, baseURL, baseURL)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := executeContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestSearchCommand_JSON(t *testing.T) {
	t.Setenv("VALYU_API_KEY", "cli-key")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "cli-key" || r.URL.Path != "/v1/deepsearch" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		io.WriteString(w, `{"success":true,"results":[{"title":"Go","url":"https://go.dev","content":"The Go language","relevance_score":0.8}]}`)
	}))
	defer server.Close()

	stdout, stderr, err := execute(t, "--config", writeConfig(t, server.URL), "search", "-q", "golang", "--json")
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	var got []recordOutput
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("decode output %q: %v", stdout, err)
	}
	want := []recordOutput{{
		URL:            "https://go.dev",
		Title:          "Go",
		RelevanceScore: 0.8,
		DataType:       "unstructured",
		Content:        "The Go language",
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}

	if !strings.Contains(stderr, `valyu_requests_total{endpoint="search",status="success"} 1`) {
		t.Errorf("expected metrics summary on stderr, got %q", stderr)
	}
	if strings.Contains(stdout+stderr, "cli-key") {
		t.Error("api key leaked into command output")
	}
}

func TestSearchCommand_FailureStillReportsMetrics(t *testing.T) {
	t.Setenv("VALYU_API_KEY", "cli-key")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":"upstream down"}`)
	}))
	defer server.Close()

	_, stderr, err := execute(t, "--config", writeConfig(t, server.URL), "search", "-q", "golang")
	if err == nil {
		t.Fatal("expected search to fail")
	}
	if !strings.Contains(stderr, `valyu_requests_total{endpoint="search",status="error"} 1`) {
		t.Errorf("expected error counter in metrics summary, got %q", stderr)
	}
}

func TestFetchCommand_ShowsSummaryDirective(t *testing.T) {
	t.Setenv("VALYU_API_KEY", "cli-key")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"url":"https://go.dev","title":"Go","content":"full page","summary":"short summary"}]`)
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "valyu.yaml")
	content := fmt.Sprintf("content:\n  base_url: %s\n  summary: true\nlogging:\n  level: error\n", server.URL)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := execute(t, "--config", path, "fetch", "https://go.dev")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	for _, want := range []string{"Fetched 1 records for 1 urls", "Summary directive: default", "short summary"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output:\n%s", want, stdout)
		}
	}
}

func TestComponentsCommand(t *testing.T) {
	stdout, _, err := execute(t, "--config", filepath.Join(t.TempDir(), "none.yaml"), "components")
	if err != nil {
		t.Fatalf("components: %v", err)
	}
	for _, want := range []string{"valyu_search", "valyu_content_fetcher", "urls", "(optional)"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output:\n%s", want, stdout)
		}
	}
}

func TestWriteMetricsSummary(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "b_total", Help: "b"}, []string{"endpoint"})
	hist := prometheus.NewHistogram(prometheus.HistogramOpts{Name: "a_hist", Help: "a"})
	reg.MustRegister(counter, hist)
	counter.WithLabelValues("contents").Add(2)
	hist.Observe(3)

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	writeMetricsSummary(&buf, families)

	want := "a_hist count=1 sum=3\nb_total{endpoint=\"contents\"} 2\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestLabelString_Empty(t *testing.T) {
	if got := labelString([]*dto.LabelPair{}); got != "" {
		t.Errorf("expected empty label string, got %q", got)
	}
}
