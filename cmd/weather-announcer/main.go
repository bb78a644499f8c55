package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/wd4sel/weather-announcer/internal/announce"
	"github.com/wd4sel/weather-announcer/internal/config"
	"github.com/wd4sel/weather-announcer/internal/report"
	"github.com/wd4sel/weather-announcer/internal/wunderground"
)

// One fetch, one format, one announce per invocation. Failures are reported
// on the console; the process exits 0 either way.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("ERROR: failed to load config: %v", err)
		return
	}

	// Shared HTTP client for the outbound observations call.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	client := wunderground.NewClient(httpClient, cfg.Weather)

	obs, err := client.Current(context.Background())
	if err != nil {
		log.Printf("ERROR: fetching weather data: %v", err)
		fmt.Println(report.Message(nil, time.Now()))
		return
	}

	fmt.Println(report.StationReport(obs))

	message := report.Message(obs, time.Now())
	fmt.Println("Formatted message:")
	fmt.Println(message)

	announcer := announce.New(cfg.Asterisk, nil)
	if err := announcer.Announce(message); err != nil {
		// The report is already out; a failed announcement is not fatal.
		log.Printf("WARN: sending announcement failed: %v", err)
		return
	}

	log.Println("INFO: weather announcement sent")
}
