package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/domaingen/api/internal/models"
	"github.com/google/uuid"
)

type scenario struct {
	name       string
	body       string
	wantCode   int
	wantStatus []models.GenerationStatus
}

func main() {
	baseURL := os.Getenv("DOMAINGEN_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	scenarios := []scenario{
		{
			name:       "safe description",
			body:       `{"business_description":"A small bakery selling artisan bread"}`,
			wantCode:   http.StatusOK,
			wantStatus: []models.GenerationStatus{models.GenerationStatusSuccess, models.GenerationStatusError},
		},
		{
			name:       "unsafe description",
			body:       `{"business_description":"adult content website with explicit nude content"}`,
			wantCode:   http.StatusOK,
			wantStatus: []models.GenerationStatus{models.GenerationStatusBlocked},
		},
		{
			name:     "missing field",
			body:     `{}`,
			wantCode: http.StatusUnprocessableEntity,
		},
	}

	client := &http.Client{Timeout: 2 * time.Minute}
	failed := 0

	for _, sc := range scenarios {
		requestID := uuid.New().String()
		log.Printf("[%s] POST /generate (request %s)", sc.name, requestID)

		req, _ := http.NewRequest(http.MethodPost, baseURL+"/generate", bytes.NewBufferString(sc.body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Request-ID", requestID)

		start := time.Now()
		resp, err := client.Do(req)
		if err != nil {
			log.Fatalf("Request failed: %v", err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != sc.wantCode {
			log.Printf("FAIL: expected HTTP %d, got %d. Body: %s", sc.wantCode, resp.StatusCode, body)
			failed++
			continue
		}

		if sc.wantStatus == nil {
			log.Printf("OK: HTTP %d in %s", resp.StatusCode, time.Since(start))
			continue
		}

		var out models.GenerationResponse
		if err := json.Unmarshal(body, &out); err != nil {
			log.Printf("FAIL: undecodable body %s: %v", body, err)
			failed++
			continue
		}

		if !contains(sc.wantStatus, out.Status) {
			log.Printf("FAIL: unexpected status %q. Body: %s", out.Status, body)
			failed++
			continue
		}

		log.Printf("OK: status=%s suggestions=%d message=%q in %s", out.Status, len(out.Suggestions), out.Message, time.Since(start))
		for _, s := range out.Suggestions {
			log.Printf("    %-40s %.2f", s.Domain, s.Confidence)
		}
	}

	if failed > 0 {
		log.Fatalf("%d of %d scenarios failed", failed, len(scenarios))
	}
	log.Println("SUCCESS: all scenarios passed")
}

func contains(statuses []models.GenerationStatus, s models.GenerationStatus) bool {
	for _, want := range statuses {
		if want == s {
			return true
		}
	}
	return false
}
