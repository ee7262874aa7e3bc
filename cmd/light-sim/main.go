package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/PratikDhanave/lightscan-service/pkg/logger"
)

type scanPayload struct {
	LightID string   `json:"lightId"`
	Date    []string `json:"date"`
	Latency float64  `json:"latency"`
	Error   bool     `json:"error"`
}

// main publishes synthetic scans for one light until interrupted.
func main() {
	brokerAddr := flag.String("broker", "tcp://localhost:1883", "MQTT broker address")
	topic := flag.String("topic", "lights/scans", "Topic the service subscribes to")
	lightID := flag.String("light-id", "LGT-1A2B3C", "External light identifier")
	interval := flag.Duration("interval", 2*time.Second, "Interval between published scans")
	baseLatency := flag.Float64("base-latency", 100, "Baseline latency in milliseconds")
	jitter := flag.Float64("latency-jitter", 40, "Maximum random jitter applied to latency")
	errorRate := flag.Float64("error-rate", 0.1, "Probability in [0,1] that a scan is marked failed")
	flag.Parse()

	if err := logger.Init("text"); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Named("light-sim")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clientID := fmt.Sprintf("%s-simulator-%d", *lightID, time.Now().UnixNano())
	client := mqtt.NewClient(mqtt.NewClientOptions().AddBroker(*brokerAddr).SetClientID(clientID))
	if tok := client.Connect(); tok.Wait() && tok.Error() != nil {
		log.Error(ctx, "failed to connect to broker", logger.String("broker", *brokerAddr), logger.Error(tok.Error()))
		os.Exit(1)
	}
	log.Info(ctx, "connected", logger.String("broker", *brokerAddr), logger.String("clientId", clientID))

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	publish := func() {
		p := scanPayload{
			LightID: *lightID,
			Date:    []string{time.Now().UTC().Format(time.RFC3339Nano)},
			Latency: jittered(rng, *baseLatency, *jitter),
			Error:   rng.Float64() < *errorRate,
		}
		data, err := json.Marshal(p)
		if err != nil {
			log.Error(ctx, "failed to encode payload", logger.Error(err))
			return
		}
		tok := client.Publish(*topic, 1, false, data)
		tok.Wait()
		if err := tok.Error(); err != nil {
			log.Warn(ctx, "publish error", logger.Error(err))
			return
		}
		log.Info(ctx, "published",
			logger.String("topic", *topic),
			logger.Float64("latency", p.Latency),
			logger.Any("failed", p.Error))
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	publish()
	for {
		select {
		case <-ctx.Done():
			log.Info(context.Background(), "received shutdown signal, disconnecting")
			client.Disconnect(250)
			return
		case <-ticker.C:
			publish()
		}
	}
}

// jittered returns base ± jitter, never below zero.
func jittered(rng *rand.Rand, base, jitter float64) float64 {
	v := base
	if jitter > 0 {
		v += (rng.Float64()*2 - 1) * jitter
	}
	if v < 0 {
		return 0
	}
	return float64(int(v*10)) / 10
}
