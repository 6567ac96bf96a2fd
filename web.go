/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Seednode/quizbox/trivia"
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	timeout time.Duration = 10 * time.Second
	qrSize  int           = 320
)

func securityHeaders(cfg *Config, w http.ResponseWriter) {
	w.Header().Set("Cross-Origin-Embedder-Policy", "require-corp")
	w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
	w.Header().Set("Cross-Origin-Resource-Policy", "same-site")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "default-src 'self'")

	if cfg.scheme() == "https" {
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
	}
}

func realIP(r *http.Request) string {
	host, port, _ := net.SplitHostPort(r.RemoteAddr)
	if ip := r.Header.Get("CF-Connecting-IP"); ip != "" {
		if net.ParseIP(ip) != nil {
			host = ip
		}
	} else if ip := r.Header.Get("X-Real-IP"); ip != "" {
		if net.ParseIP(ip) != nil {
			host = ip
		}
	}
	if net.ParseIP(host) != nil && strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if port != "" {
		return host + ":" + port
	}
	return host
}

func writeText(cfg *Config, w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	securityHeaders(cfg, w)
	w.WriteHeader(http.StatusOK)

	if _, err := io.WriteString(w, body); err != nil {
		cfg.logger.Debug("writing response", zap.Error(err))
	}
}

func serveHealthCheck(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writeText(cfg, w, "Ok\n")
	}
}

func serveVersion(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		writeText(cfg, w, "quizbox v"+releaseVersion+"\n")

		logf(cfg, "SERVE: Version page to %s in %s",
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

func serveRooms(cfg *Config, registry *trivia.Registry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "application/json")
		securityHeaders(cfg, w)

		if err := json.NewEncoder(w).Encode(registry.Rooms()); err != nil {
			cfg.logger.Debug("writing room list", zap.Error(err))
		}
	}
}

// serveRoomQR renders a QR code pointing players at the join page for a room.
func serveRoomQR(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		roomID := strings.TrimSpace(ps.ByName("roomid"))
		if roomID == "" {
			http.Error(w, "missing room id", http.StatusBadRequest)
			return
		}

		scheme := cfg.scheme()
		if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
			scheme = proto
		}

		link := scheme + "://" + r.Host + cfg.prefix + "/?room=" + url.QueryEscape(roomID)

		png, err := qrcode.Encode(link, qrcode.Medium, qrSize)
		if err != nil {
			cfg.logger.Warn("qr generation failed", zap.String("room", roomID), zap.Error(err))
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", strconv.Itoa(len(png)))
		securityHeaders(cfg, w)

		_, _ = w.Write(png)
	}
}

// loadBank never fails: a missing or broken bank falls back to the built-in
// question so the server stays usable.
func loadBank(cfg *Config) *trivia.Bank {
	bank, err := trivia.LoadBank(cfg.questions)
	if err != nil {
		cfg.logger.Warn("using built-in question bank", zap.String("path", cfg.questions), zap.Error(err))
		return trivia.DefaultBank()
	}

	cfg.logger.Info("loaded question bank", zap.String("path", cfg.questions), zap.Int("questions", bank.Len()))

	return bank
}

func newRouter(cfg *Config, hub *Hub, registry *trivia.Registry) *httprouter.Router {
	mux := httprouter.New()

	mux.PanicHandler = func(w http.ResponseWriter, r *http.Request, i any) {
		cfg.logger.Error("panic serving request", zap.String("path", r.URL.Path), zap.Any("panic", i))

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)
		w.WriteHeader(http.StatusInternalServerError)

		_, _ = io.WriteString(w, newPage("Server Error", "An error has occurred. Please try again."))
	}

	mux.GET(cfg.prefix+"/healthz", serveHealthCheck(cfg))

	mux.GET(cfg.prefix+"/version", serveVersion(cfg))

	mux.Handler("GET", cfg.prefix+"/metrics", promhttp.Handler())

	mux.GET(cfg.prefix+"/rooms", serveRooms(cfg, registry))

	mux.GET(cfg.prefix+"/room/:roomid/qr", serveRoomQR(cfg))

	mux.GET(cfg.prefix+"/ws", serveWebSocket(cfg, hub, registry))

	if cfg.profile {
		registerProfileHandlers(cfg, mux)
	}

	return mux
}

func ServePage(ctx context.Context, cfg *Config) error {
	var err error

	timeZone := os.Getenv("TZ")
	if timeZone != "" {
		time.Local, err = time.LoadLocation(timeZone)
		if err != nil {
			return err
		}
	}

	logf(cfg, "START: quizbox v%s", releaseVersion)

	cfg.prefix = strings.TrimSuffix(cfg.prefix, "/")

	hub := newHub(cfg.logger.Named("hub"))
	registry := trivia.NewRegistry(loadBank(cfg), hub, trivia.DefaultConfig(), cfg.logger.Named("rooms"))

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.bind, strconv.Itoa(cfg.port)),
		Handler:           newRouter(cfg, hub, registry),
		IdleTimeout:       10 * time.Minute,
		ReadTimeout:       timeout,
		ReadHeaderTimeout: timeout,
		WriteTimeout:      timeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logf(cfg, "SERVE: Listening on %s://%s%s/", cfg.scheme(), srv.Addr, cfg.prefix)

		var err error
		if cfg.tlsKey != "" && cfg.tlsCert != "" {
			err = srv.ListenAndServeTLS(cfg.tlsCert, cfg.tlsKey)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		registry.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
