// README: Smoke cases for the loadrec API plus DB/Redis environment checks and a throughput check.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"loadrec/internal/infra"
)

const (
	statusPass = "PASS"
	statusFail = "FAIL"
	statusSkip = "SKIP"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client

	// addedID is the load created by the add-load case, deleted afterwards.
	addedID string
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 60 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}
	return results
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	truck := map[string]any{"location": r.cfg.TruckLocation, "capacity": 20}
	newLoad := map[string]any{
		"pickup_point":           "Nagpur, Maharashtra",
		"destination":            "Hyderabad, Telangana",
		"rate":                   26,
		"cargo_type":             "steel coils",
		"weight_tons":            12,
		"expected_delivery_date": time.Now().AddDate(0, 0, 3).Format("2006-01-02"),
	}

	return []TestCase{
		{
			Name: "Env: Postgres connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: statusSkip, Note: "dsn not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.db.Ping(ctx); err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name: "Env: Redis connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: statusSkip, Note: "redis not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name: "Migration: apply (optional)",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.ApplyMigration || r.cfg.DSN == "" {
					return Result{Status: statusSkip, Note: "apply-migration=false"}
				}
				if err := infra.Migrate(r.cfg.Migrations, r.cfg.DSN); err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name: "Migration: tables exist",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: statusSkip, Note: "dsn not configured"}
				}
				for _, t := range []string{"loads", "feedback"} {
					var exists bool
					err := r.db.QueryRow(ctx,
						"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)",
						t,
					).Scan(&exists)
					if err != nil {
						return Result{Status: statusFail, Note: err.Error()}
					}
					if !exists {
						return Result{Status: statusFail, Note: "missing table: " + t}
					}
				}
				return Result{Status: statusPass}
			},
		},

		httpCase("API: health", http.MethodGet, base+"/health", nil, 200),
		httpCase("API: metrics exposed", http.MethodGet, base+"/metrics", nil, 200),

		httpCase("Loads: add (missing fields -> 400)", http.MethodPost, base+"/api/v1/load/add-load", map[string]any{"pickup_point": "Pune"}, 400),
		{
			Name: "Loads: add (valid)",
			Run: func(ctx context.Context, r *Runner) Result {
				var resp struct {
					Load struct {
						LoadID string `json:"load_id"`
					} `json:"load"`
				}
				res := r.doJSON(ctx, http.MethodPost, base+"/api/v1/load/add-load", newLoad, &resp, 200)
				r.addedID = resp.Load.LoadID
				if res.Status == statusPass && r.addedID == "" {
					return Result{Status: statusFail, Latency: res.Latency, Note: "no load_id in response"}
				}
				return res
			},
		},

		httpCase("Recommend: missing capacity -> 400", http.MethodPost, base+"/api/v1/recommendations/recommend", map[string]any{"location": "Pune"}, 400),
		{
			Name: "Recommend: scored and sorted",
			Run: func(ctx context.Context, r *Runner) Result {
				var scored []struct {
					Score float64 `json:"score"`
				}
				res := r.doJSON(ctx, http.MethodPost, base+"/api/v1/recommendations/recommend", truck, &scored, 200)
				if res.Status != statusPass {
					return res
				}
				for i := 1; i < len(scored); i++ {
					if scored[i].Score > scored[i-1].Score {
						return Result{Status: statusFail, Latency: res.Latency, Note: "scores not descending"}
					}
				}
				res.Note = fmt.Sprintf("loads=%d", len(scored))
				return res
			},
		},
		httpCase("Recommend: summary", http.MethodPost, base+"/api/v1/recommendations/recommend/summary", truck, 200, 404, 429),

		httpCase("Agent: missing question -> 400", http.MethodPost, base+"/api/v1/agent/ask-agent", map[string]any{}, 400),
		httpCase("Agent: ask", http.MethodPost, base+"/api/v1/agent/ask-agent", map[string]any{"question": "Which loads leave Nagpur this week?"}, 200, 429),

		httpCase("Feedback: missing fields -> 400", http.MethodPost, base+"/api/v1/feedback/feedback", map[string]any{}, 400),
		httpCase("Feedback: record", http.MethodPost, base+"/api/v1/feedback/feedback", map[string]any{
			"truck_id":         "bench-truck",
			"load_origin":      "Nagpur",
			"load_destination": "Hyderabad",
			"ai_score":         18.04,
			"action":           "accepted",
		}, 200),

		{
			Name: "Loads: delete added load",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.addedID == "" {
					return Result{Status: statusSkip, Note: "no load was added"}
				}
				return r.doJSON(ctx, http.MethodDelete, base+"/api/v1/delete-load/loads/"+r.addedID, nil, nil, 200)
			},
		},
		httpCase("Loads: delete unknown -> 404", http.MethodDelete, base+"/api/v1/delete-load/loads/bench-missing", nil, 404),

		// Performance
		{
			Name: "Perf: recommend throughput",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, base+"/api/v1/recommendations/recommend", truck)
			},
		},
	}
}

func httpCase(name, method, url string, body any, okStatuses ...int) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			return r.doJSON(ctx, method, url, body, nil, okStatuses...)
		},
	}
}

// doJSON sends body as JSON and decodes the response into out when the
// status is accepted and out is non-nil.
func (r *Runner) doJSON(ctx context.Context, method, url string, body, out any, okStatuses ...int) Result {
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return Result{Status: statusFail, Note: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Client-ID", "loadrec-bench")

	start := time.Now()
	resp, err := r.httpc.Do(req)
	latency := time.Since(start)
	if err != nil {
		return Result{Status: statusFail, Latency: latency, Note: err.Error()}
	}
	defer resp.Body.Close()

	if !slices.Contains(okStatuses, resp.StatusCode) {
		return Result{Status: statusFail, Latency: latency, Note: fmt.Sprintf("status=%d", resp.StatusCode)}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return Result{Status: statusFail, Latency: latency, Note: "decode: " + err.Error()}
		}
	}
	return Result{Status: statusPass, Latency: latency, Note: fmt.Sprintf("status=%d", resp.StatusCode)}
}

func perfLoad(ctx context.Context, r *Runner, url string, payload any) Result {
	b, _ := json.Marshal(payload)
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < r.cfg.Concurrency; i++ {
		g.Go(func() error {
			for time.Now().Before(end) && ctx.Err() == nil {
				req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
				req.Header.Set("Content-Type", "application/json")
				resp, err := r.httpc.Do(req)
				if err != nil {
					errCount.Add(1)
					continue
				}
				_, _ = io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				count.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	if count.Load() == 0 {
		return Result{Status: statusFail, Note: "no requests completed"}
	}
	rps := float64(count.Load()) / r.cfg.Duration.Seconds()
	return Result{Status: statusPass, Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount.Load())}
}
