// Load driver for the clinic API: concurrent receptionists creating,
// cancelling and reading bookings against a running api-server, with a
// latency report at the end. Conflicts are expected output, not errors.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/odontosoft/clinic-scheduling/internal/logging"
	"github.com/odontosoft/clinic-scheduling/internal/timefmt"
)

type SimConfig struct {
	APIBaseURL  string
	Duration    time.Duration
	Workers     int
	BookRatio   float64
	CancelRatio float64
	ReadRatio   float64
	Days        int // how many calendar days the bookings spread over
}

type DataPool struct {
	Doctors  []string
	Patients []string

	mu       sync.RWMutex
	bookings []string
}

func (dp *DataPool) AddBooking(id string) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.bookings = append(dp.bookings, id)
}

func (dp *DataPool) RandomBooking(rng *rand.Rand) (string, bool) {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	if len(dp.bookings) == 0 {
		return "", false
	}
	return dp.bookings[rng.Intn(len(dp.bookings))], true
}

type OperationMetrics struct {
	Total    int64
	Success  int64
	Conflict int64
	Error    int64

	mu        sync.Mutex
	latencies []time.Duration
}

func (om *OperationMetrics) Record(latency time.Duration, success, conflict bool) {
	atomic.AddInt64(&om.Total, 1)
	switch {
	case success:
		atomic.AddInt64(&om.Success, 1)
	case conflict:
		atomic.AddInt64(&om.Conflict, 1)
	default:
		atomic.AddInt64(&om.Error, 1)
	}

	om.mu.Lock()
	om.latencies = append(om.latencies, latency)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (avg, min, max, p50, p95 time.Duration) {
	om.mu.Lock()
	defer om.mu.Unlock()

	if len(om.latencies) == 0 {
		return 0, 0, 0, 0, 0
	}

	latencies := make([]time.Duration, len(om.latencies))
	copy(latencies, om.latencies)
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}

	avg = sum / time.Duration(len(latencies))
	min = latencies[0]
	max = latencies[len(latencies)-1]
	p50 = latencies[len(latencies)*50/100]
	p95 = latencies[min2(len(latencies)*95/100, len(latencies)-1)]
	return avg, min, max, p50, p95
}

func min2(a, b int) int {
	if a < b {
		return a
	}
	return b
}

type Metrics struct {
	Book      OperationMetrics
	Cancel    OperationMetrics
	AmountDue OperationMetrics
	ListByDoc OperationMetrics
}

type Simulator struct {
	config  SimConfig
	pool    *DataPool
	client  *http.Client
	metrics Metrics
}

func main() {
	logging.Init("clinic-simulate", "dev")
	log.Info().Msg("simulator starting")

	cfg := loadConfig()
	if cfg.Workers <= 0 || cfg.Duration <= 0 {
		log.Fatal().Msg("SIM_WORKERS and SIM_DURATION must be positive")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := &http.Client{Timeout: 10 * time.Second}

	pool, err := loadDataPool(ctx, client, cfg.APIBaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("load data pool")
	}
	log.Info().
		Int("doctors", len(pool.Doctors)).
		Int("patients", len(pool.Patients)).
		Msg("reference data loaded")

	sim := &Simulator{config: cfg, pool: pool, client: client}
	sim.Run()
	sim.PrintReport()
}

func loadConfig() SimConfig {
	cfg := SimConfig{
		APIBaseURL:  getEnv("SIM_API_BASE_URL", "http://localhost:8080"),
		Duration:    getDuration("SIM_DURATION", 30*time.Second),
		Workers:     getInt("SIM_WORKERS", 10),
		BookRatio:   getFloat("SIM_BOOK_RATIO", 0.5),
		CancelRatio: getFloat("SIM_CANCEL_RATIO", 0.2),
		ReadRatio:   getFloat("SIM_READ_RATIO", 0.3),
		Days:        getInt("SIM_DAYS", 5),
	}

	total := cfg.BookRatio + cfg.CancelRatio + cfg.ReadRatio
	if total > 0 {
		cfg.BookRatio /= total
		cfg.CancelRatio /= total
		cfg.ReadRatio /= total
	}
	return cfg
}

func loadDataPool(ctx context.Context, client *http.Client, baseURL string) (*DataPool, error) {
	pool := &DataPool{}

	var doctors []struct {
		ID string `json:"id"`
	}
	if err := getJSON(ctx, client, baseURL+"/doctors", &doctors); err != nil {
		return nil, fmt.Errorf("load doctors: %w", err)
	}
	for _, d := range doctors {
		pool.Doctors = append(pool.Doctors, d.ID)
	}

	var patients []struct {
		ID string `json:"id"`
	}
	if err := getJSON(ctx, client, baseURL+"/patients", &patients); err != nil {
		return nil, fmt.Errorf("load patients: %w", err)
	}
	for _, p := range patients {
		pool.Patients = append(pool.Patients, p.ID)
	}

	if len(pool.Doctors) == 0 {
		return nil, fmt.Errorf("no doctors loaded, is the server seeded?")
	}
	if len(pool.Patients) == 0 {
		return nil, fmt.Errorf("no patients loaded, is the server seeded?")
	}
	return pool, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (s *Simulator) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Duration)
	defer cancel()

	log.Info().
		Dur("duration", s.config.Duration).
		Int("workers", s.config.Workers).
		Msg("starting simulation")

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}

	wg.Wait()
	log.Info().Msg("simulation complete")
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))

	for {
		select {
		case <-ctx.Done():
			return
		default:
			r := rng.Float64()
			switch {
			case r < s.config.BookRatio:
				s.doBook(ctx, rng)
			case r < s.config.BookRatio+s.config.CancelRatio:
				s.doCancel(ctx, rng)
			default:
				if rng.Intn(2) == 0 {
					s.doAmountDue(ctx, rng)
				} else {
					s.doListByDoctor(ctx, rng)
				}
			}
		}
	}
}

// doBook creates a half-hour appointment on a coarse grid of days and
// start times, so that concurrent workers collide often enough to
// exercise the conflict path.
func (s *Simulator) doBook(ctx context.Context, rng *rand.Rand) {
	doctorID := s.pool.Doctors[rng.Intn(len(s.pool.Doctors))]
	patientID := s.pool.Patients[rng.Intn(len(s.pool.Patients))]

	day := timefmt.DateOf(time.Now().AddDate(0, 0, rng.Intn(s.config.Days)+1))
	startMin := 8*60 + 30*rng.Intn(18) // 08:00 through 16:30
	start := timefmt.TimeOfDay(startMin)
	end := timefmt.TimeOfDay(startMin + 30)

	id := "SIM-" + uuid.NewString()
	reqBody := map[string]string{
		"id":         id,
		"kind":       "appointment",
		"doctor_id":  doctorID,
		"patient_id": patientID,
		"day":        day.String(),
		"start":      start.String(),
		"end":        end.String(),
		"cost":       "45.00",
	}
	body, _ := json.Marshal(reqBody)

	startAt := time.Now()
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, s.config.APIBaseURL+"/bookings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	latency := time.Since(startAt)

	success := false
	conflict := false
	if err == nil {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		switch resp.StatusCode {
		case http.StatusCreated:
			success = true
			s.pool.AddBooking(id)
		case http.StatusConflict:
			conflict = true
		}
	}

	s.metrics.Book.Record(latency, success, conflict)
}

func (s *Simulator) doCancel(ctx context.Context, rng *rand.Rand) {
	id, ok := s.pool.RandomBooking(rng)
	if !ok {
		return
	}

	startAt := time.Now()
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/bookings/%s/cancel", s.config.APIBaseURL, id), nil)

	resp, err := s.client.Do(req)
	latency := time.Since(startAt)

	success := false
	conflict := false
	if err == nil {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		switch resp.StatusCode {
		case http.StatusOK:
			success = true
		case http.StatusConflict:
			conflict = true
		}
	}

	s.metrics.Cancel.Record(latency, success, conflict)
}

func (s *Simulator) doAmountDue(ctx context.Context, rng *rand.Rand) {
	id, ok := s.pool.RandomBooking(rng)
	if !ok {
		return
	}

	startAt := time.Now()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/bookings/%s/amount-due", s.config.APIBaseURL, id), nil)

	resp, err := s.client.Do(req)
	latency := time.Since(startAt)

	success := false
	if err == nil {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		success = resp.StatusCode == http.StatusOK
	}

	s.metrics.AmountDue.Record(latency, success, false)
}

func (s *Simulator) doListByDoctor(ctx context.Context, rng *rand.Rand) {
	doctorID := s.pool.Doctors[rng.Intn(len(s.pool.Doctors))]

	startAt := time.Now()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/bookings?doctor_id=%s", s.config.APIBaseURL, doctorID), nil)

	resp, err := s.client.Do(req)
	latency := time.Since(startAt)

	success := false
	if err == nil {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		success = resp.StatusCode == http.StatusOK
	}

	s.metrics.ListByDoc.Record(latency, success, false)
}

func (s *Simulator) PrintReport() {
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("SIMULATION REPORT")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Duration: %s\n", s.config.Duration)
	fmt.Printf("Workers: %d\n", s.config.Workers)
	fmt.Println()

	printOperationReport("Book", &s.metrics.Book)
	printOperationReport("Cancel", &s.metrics.Cancel)
	printOperationReport("Amount due", &s.metrics.AmountDue)
	printOperationReport("List by doctor", &s.metrics.ListByDoc)
}

func printOperationReport(name string, om *OperationMetrics) {
	total := atomic.LoadInt64(&om.Total)
	if total == 0 {
		return
	}

	success := atomic.LoadInt64(&om.Success)
	conflict := atomic.LoadInt64(&om.Conflict)
	errCount := atomic.LoadInt64(&om.Error)

	avg, min, max, p50, p95 := om.Stats()

	fmt.Printf("%s:\n", name)
	fmt.Printf("  Total: %d\n", total)
	fmt.Printf("  Success: %d (%.1f%%)\n", success, float64(success)/float64(total)*100)
	if conflict > 0 {
		fmt.Printf("  Conflicts: %d (%.1f%%)\n", conflict, float64(conflict)/float64(total)*100)
	}
	if errCount > 0 {
		fmt.Printf("  Errors: %d (%.1f%%)\n", errCount, float64(errCount)/float64(total)*100)
	}
	fmt.Printf("  Latency: avg=%s min=%s max=%s p50=%s p95=%s\n",
		avg.Round(time.Millisecond), min.Round(time.Millisecond), max.Round(time.Millisecond),
		p50.Round(time.Millisecond), p95.Round(time.Millisecond))
	fmt.Println()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
