package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/siegeai/widgetmock/fakeapi"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fakejsonserver failed", "err", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	host := flag.String("h", getEnv("WIDGETMOCK_HOST", ""), "the host to listen on")
	port := flag.String("p", getEnv("WIDGETMOCK_PORT", "3000"), "the port to listen on")
	token := flag.String("token", getEnv("WIDGETMOCK_TOKEN", fakeapi.DefaultAccessToken), "the access token requests must carry")
	metricsAddr := flag.String("metrics", getEnv("WIDGETMOCK_METRICS", ""), "address for the /metrics endpoint, empty disables it")
	describe := flag.Bool("describe", false, "print the OpenAPI document and exit")
	flag.Parse()

	if err := setupLogging(getEnv("WIDGETMOCK_LOG", "info")); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	s := fakeapi.New(
		fakeapi.WithAccessToken(*token),
		fakeapi.WithLogger(slog.Default()),
		fakeapi.WithRegisterer(reg),
	)

	if *describe {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(s.Describe())
	}

	addr := fmt.Sprintf("%s:%s", *host, *port)
	if _, err := s.Start(addr); err != nil {
		return err
	}
	defer func() {
		if err := s.Stop(); err != nil {
			slog.Warn("could not stop server", "err", err)
		}
	}()

	if *metricsAddr != "" {
		admin := &http.Server{
			Addr:    *metricsAddr,
			Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		}
		go func() {
			err := admin.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", "err", err)
			}
		}()
		defer admin.Close()
		slog.Info("serving metrics", "addr", *metricsAddr)
	}

	term := make(chan os.Signal, 1)
	signal.Notify(term, syscall.SIGINT, syscall.SIGTERM)
	<-term
	return nil
}

func setupLogging(level string) error {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		return err
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(h))
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
