// Command serve runs the erosion loop and streams snapshots over websocket.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"

	"heightfield/internal/pipeline"
	"heightfield/internal/server"
)

func main() {
	cfg := pipeline.DefaultConfig()
	cfg.Bind(flag.CommandLine)
	addr := flag.String("addr", ":8080", "listen address")
	tps := flag.Int("tps", 5, "iterations per second")
	maxSteps := flag.Int("max-steps", 0, "stop stepping after this many iterations (0 = forever)")
	flag.Parse()

	grid, err := pipeline.Load(cfg)
	if err != nil {
		log.Fatalf("load: %v", err)
	}
	p := pipeline.New(cfg, grid, log.Default())
	p.Prepare()

	size := p.Size()
	hub := server.NewHub(nil)
	mux := http.NewServeMux()
	mux.Handle("/ws", hub.Handler())
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "heightfield %dx%d, %d clients; connect to /ws\n", size.W, size.H, hub.Clients())
	})
	srv := &http.Server{Addr: *addr, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		err := server.Loop(ctx, hub, p, server.LoopConfig{TPS: *tps, MaxSteps: *maxSteps})
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("loop: %v", err)
		}
		srv.Close()
	}()

	log.Printf("listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
