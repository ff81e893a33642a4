package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"
)

// Générateur d'événements de test: poste des payloads réalistes sur le
// webhook d'ingestion, avec la distribution typique d'une journée de SDR.

type eventPayload struct {
	Source    string                 `json:"source"`
	EventType string                 `json:"event_type"`
	Metadata  map[string]interface{} `json:"metadata"`
}

type ingestResponse struct {
	Status     string `json:"status"`
	EventID    string `json:"event_id"`
	GoldEarned int    `json:"gold_earned"`
	XPEarned   int    `json:"xp_earned"`
	Duplicate  bool   `json:"duplicate"`
}

// Distribution des types d'événements (poids cumulés sur 100)
var eventWeights = []struct {
	eventType string
	weight    int
}{
	{"call_dial", 50},
	{"email_sent", 25},
	{"call_connect", 20},
	{"meeting_booked", 4},
	{"meeting_attended", 1},
}

var sources = []string{"nooks", "outreach", "manual", "zapier"}

var prospects = []string{"Alex Martin", "Jordan Lee", "Sam Carter", "Robin Diaz", "Charlie Kim"}
var companies = []string{"Acme Corp", "Globex", "Initech", "Umbrella SA", "Wayne Industries"}

func pickEventType(rng *rand.Rand) string {
	n := rng.Intn(100)
	acc := 0
	for _, e := range eventWeights {
		acc += e.weight
		if n < acc {
			return e.eventType
		}
	}
	return eventWeights[0].eventType
}

func generateEvent(rng *rand.Rand, seq int) eventPayload {
	eventType := pickEventType(rng)

	metadata := map[string]interface{}{
		"prospect_name": prospects[rng.Intn(len(prospects))],
		"company":       companies[rng.Intn(len(companies))],
		"seed_seq":      seq, // rend chaque événement unique vis-à-vis de la détection de doublons
	}

	switch eventType {
	case "call_dial", "call_connect":
		metadata["phone_number"] = fmt.Sprintf("+1555%07d", rng.Intn(10000000))
		if eventType == "call_connect" {
			metadata["call_duration"] = 30 + rng.Intn(570)
		}
	case "meeting_booked", "meeting_attended":
		metadata["meeting_time"] = time.Now().AddDate(0, 0, 1+rng.Intn(14)).Format(time.RFC3339)
	case "email_sent":
		metadata["subject"] = fmt.Sprintf("Quick question #%d", rng.Intn(1000))
	}

	return eventPayload{
		Source:    sources[rng.Intn(len(sources))],
		EventType: eventType,
		Metadata:  metadata,
	}
}

func sendEvent(client *http.Client, endpoint, secret string, event eventPayload) (*ingestResponse, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-RIFT-SECRET", secret)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var result ingestResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return &result, nil
}

func main() {
	var (
		apiURL = flag.String("api", "http://localhost:8000", "base URL of the rift API")
		count  = flag.Int("count", 50, "number of events to generate")
		delay  = flag.Duration("delay", 100*time.Millisecond, "delay between events")
		seed   = flag.Int64("seed", time.Now().UnixNano(), "random seed")
	)
	flag.Parse()

	secret := os.Getenv("WEBHOOK_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "WEBHOOK_SECRET environment variable is required")
		os.Exit(1)
	}

	endpoint := *apiURL + "/api/v1/webhook/ingest"
	rng := rand.New(rand.NewSource(*seed))
	client := &http.Client{Timeout: 5 * time.Second}

	fmt.Printf("Seeding %d events to %s\n", *count, endpoint)

	var sent, failed, duplicates int
	for i := 0; i < *count; i++ {
		event := generateEvent(rng, i)

		result, err := sendEvent(client, endpoint, secret, event)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "event %d failed: %v\n", i, err)
			continue
		}

		sent++
		if result.Duplicate {
			duplicates++
		}

		time.Sleep(*delay)
	}

	fmt.Printf("Done: sent=%d duplicates=%d failed=%d\n", sent, duplicates, failed)
}
