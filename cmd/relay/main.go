// Command relay runs the room relay: hosts open rooms, clients join by
// code, and every game frame passes through as an opaque payload. The relay
// holds no match state, so any number of matches can share one process.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"

	"hexreign.gg/internal/relay"
)

type envConfig struct {
	Addr   string `env:"HEXREIGN_RELAY_ADDR" envDefault:":8420"`
	WSPath string `env:"HEXREIGN_RELAY_WS_PATH" envDefault:"/ws"`
}

func main() {
	logger := log.New(os.Stdout, "[relay] ", log.LstdFlags|log.Lmicroseconds)

	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		logger.Fatalf("env: %v", err)
	}
	var (
		addr   = flag.String("addr", ec.Addr, "listen address")
		wsPath = flag.String("ws_path", ec.WSPath, "websocket endpoint path")
	)
	flag.Parse()

	ctx, cancel := signalContext()
	defer cancel()

	reg := relay.NewRegistry()
	srv := relay.NewServer(reg, logger)

	mux := http.NewServeMux()
	mux.HandleFunc(*wsPath, srv.Handler())
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")

		// Minimal Prometheus exposition format.
		fmt.Fprintf(rw, "# HELP hexreign_relay_rooms Rooms currently open.\n")
		fmt.Fprintf(rw, "# TYPE hexreign_relay_rooms gauge\n")
		fmt.Fprintf(rw, "hexreign_relay_rooms %d\n", reg.Len())
	})

	httpSrv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = httpSrv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s (ws %s)", *addr, *wsPath)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
