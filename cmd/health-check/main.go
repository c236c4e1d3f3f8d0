// Package main provides a standalone readiness probe for container health
// checks and monitoring scripts
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/alchemorsel/mealplan/internal/infrastructure/config"
)

const (
	exitCodeSuccess = 0
	exitCodeFailure = 1
	exitCodeError   = 2
)

// Options holds command-line configuration
type Options struct {
	URL        string
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
	Format     string
	ConfigPath string
}

func main() {
	opts := parseFlags()

	if opts.URL == "" {
		url, err := detectURL(opts.ConfigPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "health-check:", err)
			os.Exit(exitCodeError)
		}
		opts.URL = url
	}

	os.Exit(probe(opts, os.Stdout))
}

func parseFlags() Options {
	var opts Options
	flag.StringVar(&opts.URL, "url", "", "Readiness endpoint URL (default derived from the ops listener config)")
	flag.DurationVar(&opts.Timeout, "timeout", 5*time.Second, "Request timeout")
	flag.IntVar(&opts.Retries, "retry", 0, "Number of retries on failure")
	flag.DurationVar(&opts.RetryDelay, "retry-delay", time.Second, "Delay between retries")
	flag.StringVar(&opts.Format, "format", "text", "Output format: text or json")
	flag.StringVar(&opts.ConfigPath, "config", "", "Configuration file path")
	flag.Parse()
	return opts
}

// detectURL points at the readiness endpoint of the configured ops listener
func detectURL(configPath string) (string, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return "", err
	}
	if !cfg.Ops.Enabled {
		return "", fmt.Errorf("ops listener is disabled, pass -url")
	}
	host := cfg.Ops.Host
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("http://%s:%d/health/ready", host, cfg.Ops.Port), nil
}

type result struct {
	URL     string          `json:"url"`
	Status  int             `json:"status"`
	Healthy bool            `json:"healthy"`
	Latency string          `json:"latency"`
	Error   string          `json:"error,omitempty"`
	Body    json.RawMessage `json:"body,omitempty"`
}

// probe polls the endpoint until it reports ready or retries run out
func probe(opts Options, out io.Writer) int {
	client := &http.Client{Timeout: opts.Timeout}

	var res result
	for attempt := 0; attempt <= opts.Retries; attempt++ {
		if attempt > 0 {
			time.Sleep(opts.RetryDelay)
		}
		res = check(client, opts.URL)
		if res.Healthy {
			break
		}
	}

	report(opts.Format, res, out)
	switch {
	case res.Healthy:
		return exitCodeSuccess
	case res.Error != "":
		return exitCodeError
	default:
		return exitCodeFailure
	}
}

func check(client *http.Client, url string) result {
	res := result{URL: url}
	start := time.Now()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	resp, err := client.Do(req)
	res.Latency = time.Since(start).Round(time.Millisecond).String()
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Valid(body) {
		res.Body = body
	}
	res.Status = resp.StatusCode
	res.Healthy = resp.StatusCode == http.StatusOK
	return res
}

func report(format string, res result, out io.Writer) {
	if format == "json" {
		_ = json.NewEncoder(out).Encode(res)
		return
	}

	switch {
	case res.Error != "":
		fmt.Fprintf(out, "UNREACHABLE %s: %s\n", res.URL, res.Error)
	case res.Healthy:
		fmt.Fprintf(out, "READY %s (%s)\n", res.URL, res.Latency)
	default:
		fmt.Fprintf(out, "NOT READY %s: HTTP %d (%s)\n", res.URL, res.Status, res.Latency)
	}
}
