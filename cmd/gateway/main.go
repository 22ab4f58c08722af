package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"sihas-gateway/internal/tasks"
)

func main() {
	var opts tasks.Options
	flag.StringVar(&opts.ConfigPath, "config", "config/config.yaml", "path to YAML config")
	flag.BoolVar(&opts.StorageEnabled, "storage", false, "force-enable storage")
	flag.StringVar(&opts.StorageDir, "storage-dir", "", "storage output directory (implies -storage)")
	flag.StringVar(&opts.MQTTBroker, "mqtt-broker", "", "MQTT broker URL override (implies mqtt enabled)")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigCh
		log.Printf("received signal: %v, shutting down...", s)
		cancel()
	}()

	if err := tasks.InitAndRunGateway(ctx, opts); err != nil {
		log.Fatalf("gateway exited with error: %v", err)
	}
}
