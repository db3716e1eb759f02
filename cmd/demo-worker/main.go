// Demo transcription worker for local development. It accepts submissions
// and reports each job completed with a canned transcript a few seconds
// later. Run the server with SCRIBE_WORKER_URL pointing at it.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type job struct {
	URL      string
	FinishAt time.Time
}

type demoWorker struct {
	mu   sync.Mutex
	jobs map[string]*job
}

type submitRequest struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func (d *demoWorker) submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.jobs[req.ID]; exists {
		http.Error(w, "duplicate job id", http.StatusBadRequest)
		return
	}
	d.jobs[req.ID] = &job{URL: req.URL, FinishAt: time.Now().Add(5 * time.Second)}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "pending", "job_id": req.ID}) //nolint:errcheck
}

type segment struct {
	Speaker   string     `json:"speaker"`
	Timestamp [2]float64 `json:"timestamp"`
	Text      string     `json:"text"`
}

func cannedTranscript() []segment {
	return []segment{
		{Speaker: "SPEAKER_01", Timestamp: [2]float64{0.0, 1.2}, Text: "aaa"},
		{Speaker: "SPEAKER_01", Timestamp: [2]float64{1.2, 3.9}, Text: "ccc"},
		{Speaker: "SPEAKER_02", Timestamp: [2]float64{3.9, 5.0}, Text: "bbb"},
	}
}

func (d *demoWorker) status(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "job_id")

	d.mu.Lock()
	j, ok := d.jobs[id]
	d.mu.Unlock()
	if !ok {
		http.Error(w, "unknown job", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if time.Now().Before(j.FinishAt) {
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"completed": false,
			"error":     false,
			"stage":     "transcribing",
		})
		return
	}

	title := "Demo video"
	json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
		"completed":              true,
		"error":                  false,
		"transcript":             cannedTranscript(),
		"video_title":            title,
		"video_duration_seconds": 5.0,
	})
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	d := &demoWorker{jobs: make(map[string]*job)}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Post("/submit", d.submit)
	r.Get("/status/{job_id}", d.status)

	log.Printf("Demo worker listening on :%s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("Demo worker error: %v", err)
	}
}
