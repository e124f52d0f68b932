package main

import (
	"context"
	"errors"
	"flag"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/04pril/booscaminas/internal/config"
	"github.com/04pril/booscaminas/internal/i18n"
	"github.com/04pril/booscaminas/internal/minefield"
	"github.com/04pril/booscaminas/internal/webapi"
	"github.com/04pril/booscaminas/web"
)

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	opts := config.Register(fs)
	addr := fs.String("addr", ":8080", "listen address")
	ttl := fs.Duration("session-ttl", 2*time.Hour, "drop games idle for longer than this")
	_ = fs.Parse(os.Args[1:])

	log := opts.Logger(os.Stdout)
	if err := opts.Validate(); err != nil {
		log.WithError(err).Fatal("invalid options")
	}
	minefield.Log = log
	i18n.Log = log

	cat := i18n.Load(opts.Lang)
	store := webapi.NewStore(*ttl, opts.Seed, log)
	h := webapi.New(store, webapi.HandlerOptions{
		Board:         opts.Board(),
		Catalog:       cat,
		QuestionMarks: opts.QuestionMarks,
	}, log)

	tmpl := web.Templates()
	page := map[string]any{
		"Lang":      cat.Lang(),
		"Title":     cat.Get(i18n.MsgTitle),
		"Start":     cat.Get(i18n.MsgStart),
		"PlayAgain": cat.Get(i18n.MsgPlayAgain),
	}

	mux := http.NewServeMux()
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(web.StaticFS())))
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.ExecuteTemplate(w, "index.tmpl", page); err != nil {
			http.Error(w, template.HTMLEscapeString(err.Error()), http.StatusInternalServerError)
		}
	})
	h.Register(mux)

	srv := &http.Server{
		Addr:              *addr,
		Handler:           webapi.RequestLogger(log, mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("shutdown")
		}
	}()

	log.WithFields(logrus.Fields{
		"addr":  *addr,
		"board": opts.Board(),
		"lang":  cat.Lang(),
	}).Info("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("server error")
	}
}
