package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Config holds the benchmark settings
var (
	targetURL   string
	concurrency int
	duration    time.Duration
	workload    string
	customers   int
	date        string
)

// Metrics
var (
	totalRequests uint64
	loaded        uint64 // Credit loads fulfilled
	confirmed     uint64 // Reservations confirmed
	rejected      uint64 // Insufficient credits / unknown customer
	failOther     uint64
)

// Must match cmd/seeder.
const firstDNI = 10000000

func init() {
	flag.StringVar(&targetURL, "url", "http://localhost:8080", "API Base URL")
	flag.IntVar(&concurrency, "workers", 10, "Number of concurrent workers")
	flag.DurationVar(&duration, "duration", 30*time.Second, "Test duration")
	flag.StringVar(&workload, "workload", "uniform", "Workload type: uniform | hotspot")
	flag.IntVar(&customers, "customers", 1000, "Number of seeded customers")
	flag.StringVar(&date, "date", time.Now().AddDate(0, 0, 7).Format("2006-01-02"), "Reservation date (YYYY-MM-DD)")
}

func main() {
	flag.Parse()
	log.Printf("Starting Benchmark: %s | Workers: %d | Duration: %s", workload, concurrency, duration)

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(concurrency)

	for i := 0; i < concurrency; i++ {
		go worker(&wg, start)
	}

	wg.Wait()
	printResults(time.Since(start))
}

type slotValue struct {
	Value struct {
		InterpretedValue string `json:"interpretedValue"`
	} `json:"value"`
}

func slot(v string) *slotValue {
	s := &slotValue{}
	s.Value.InterpretedValue = v
	return s
}

func event(intent string, slots map[string]*slotValue) map[string]interface{} {
	return map[string]interface{}{
		"invocationSource": "FulfillmentCodeHook",
		"sessionState": map[string]interface{}{
			"intent": map[string]interface{}{"name": intent, "slots": slots},
		},
	}
}

var courts = []string{"tenis", "futbol", "basquet", "padel"}

func worker(wg *sync.WaitGroup, start time.Time) {
	defer wg.Done()
	client := &http.Client{Timeout: 5 * time.Second}

	for time.Since(start) < duration {
		dni := strconv.Itoa(pickCustomer())

		// Roughly one load for every three reservation attempts keeps balances moving both ways.
		var payload map[string]interface{}
		isLoad := rand.Intn(4) == 0
		if isLoad {
			payload = event("LoadCreditsIntent", map[string]*slotValue{
				"sl_customer_dni":     slot(dni),
				"sl_amount":           slot("100"),
				"slt_payment_methods": slot("tarjeta"),
			})
		} else {
			payload = event("ReserveCourtIntent", map[string]*slotValue{
				"sl_customer_dni": slot(dni),
				"slt_court_types": slot(courts[rand.Intn(len(courts))]),
				"sl_date":         slot(date),
				"sl_time":         slot(fmt.Sprintf("%02d:00", 8+rand.Intn(14))),
			})
		}
		body, _ := json.Marshal(payload)

		resp, err := client.Post(targetURL+"/functions/router", "application/json", bytes.NewBuffer(body))
		if err != nil {
			atomic.AddUint64(&failOther, 1)
			continue
		}
		atomic.AddUint64(&totalRequests, 1)

		var out struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		err = json.NewDecoder(resp.Body).Decode(&out)
		resp.Body.Close()
		if err != nil || resp.StatusCode != http.StatusOK || len(out.Messages) == 0 {
			atomic.AddUint64(&failOther, 1)
			continue
		}

		msg := out.Messages[0].Content
		switch {
		case isLoad && strings.Contains(msg, "Carga exitosa"), isLoad && strings.Contains(msg, "Cuenta creada"):
			atomic.AddUint64(&loaded, 1)
		case strings.Contains(msg, "Reserva confirmada"):
			atomic.AddUint64(&confirmed, 1)
		case strings.Contains(msg, "insuficientes"), strings.Contains(msg, "No encontramos"):
			atomic.AddUint64(&rejected, 1)
		default:
			atomic.AddUint64(&failOther, 1)
		}
	}
}

func pickCustomer() int {
	if workload == "hotspot" {
		// Hotspot: 90% of traffic goes to the first two customers
		if rand.Float32() < 0.90 {
			return firstDNI + rand.Intn(2)
		}
	}
	return firstDNI + rand.Intn(customers)
}

func printResults(d time.Duration) {
	total := atomic.LoadUint64(&totalRequests)
	l := atomic.LoadUint64(&loaded)
	c := atomic.LoadUint64(&confirmed)
	r := atomic.LoadUint64(&rejected)
	fErr := atomic.LoadUint64(&failOther)

	tps := float64(total) / d.Seconds()
	var rejectRate float64
	if total > 0 {
		rejectRate = float64(r) / float64(total) * 100
	}

	results := map[string]interface{}{
		"workload":               workload,
		"duration_sec":           d.Seconds(),
		"total_requests":         total,
		"throughput_tps":         tps,
		"credits_loaded":         l,
		"reservations_confirmed": c,
		"business_rejections":    r,
		"rejection_rate_pct":     rejectRate,
		"errors":                 fErr,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(results)

	filename := fmt.Sprintf("results_%s.json", workload)
	file, err := os.Create(filename)
	if err != nil {
		log.Printf("could not save results: %v", err)
		return
	}
	defer file.Close()
	json.NewEncoder(file).Encode(results)
}
