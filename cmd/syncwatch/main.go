// Command syncwatch tracks one appointment's automation agent from a
// terminal: it loads the appointment, follows the agent status with the
// same adaptive polling the web views use, and exits once the automation
// settles.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashank35i/DentraOS-sub001/internal/agentstatus"
	"github.com/shashank35i/DentraOS-sub001/internal/appointments"
	"github.com/shashank35i/DentraOS-sub001/internal/upstream"
	"github.com/shashank35i/DentraOS-sub001/platform/config"
	"github.com/shashank35i/DentraOS-sub001/platform/logger"

	"github.com/redis/go-redis/v9"
)

func main() {
	appointmentID := flag.String("appointment", "", "appointment id to watch")
	token := flag.String("token", "", "bearer token (defaults to the stored service token)")
	flag.Parse()

	if *appointmentID == "" {
		fmt.Fprintln(os.Stderr, "usage: syncwatch -appointment <id> [-token <bearer>]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var tokens upstream.TokenSource
	if *token != "" {
		tokens = upstream.StaticTokenSource(*token)
	} else {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.GetRedisPassword(),
			DB:       cfg.GetRedisDB(),
		})
		defer func() { _ = rdb.Close() }()
		tokens = upstream.NewRedisTokenStore(rdb, 0)
	}

	gateway := upstream.NewGateway(upstream.NewClient(upstream.Config{
		BaseURL: cfg.GetUpstreamBaseURL(),
		Timeout: cfg.GetUpstreamTimeout(),
		Tokens:  tokens,
		Logger:  log,
	}))

	poller := agentstatus.NewPoller(agentstatus.PollerConfig{
		Fetcher:  gateway,
		Interval: cfg.GetAgentPollInterval(),
		Logger:   log,
	})
	controller := appointments.NewController(gateway, poller)
	defer controller.Close()

	record, err := controller.Load(ctx, *appointmentID)
	if err != nil {
		log.Error("failed to load appointment", "appointment_id", *appointmentID, "error", err)
		os.Exit(1)
	}
	log.Info("watching appointment",
		"appointment_id", record.ID,
		"patient", record.PatientName,
		"status", record.Status,
	)

	// The poller re-arms itself while the automation runs; this loop only
	// observes the snapshot and decides when to stop.
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	var lastSeen agentstatus.Status
	for {
		select {
		case <-ctx.Done():
			log.Info("interrupted")
			return
		case <-ticker.C:
			snapshot := controller.AgentStatus()
			status := snapshot.Status()

			if status != lastSeen {
				lastSeen = status
				logSnapshot(log, snapshot)
			}

			if !snapshot.CheckedAt.IsZero() && !status.Active() {
				log.Info("automation settled", "status", string(status))
				return
			}
		}
	}
}

func logSnapshot(log *logger.Logger, snapshot agentstatus.Snapshot) {
	if snapshot.Event == nil {
		log.Info("no recent automation events")
		return
	}

	if snapshot.Event.Status == agentstatus.StatusFailed {
		log.Warn("automation step failed",
			"event_type", snapshot.Event.EventType,
			"event_id", snapshot.Event.EventID,
			"last_error", snapshot.Event.LastError,
		)
		return
	}

	log.Info("automation status",
		"event_type", snapshot.Event.EventType,
		"event_id", snapshot.Event.EventID,
		"status", string(snapshot.Event.Status),
	)
}
