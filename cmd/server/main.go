// dungeoncrawl-server serves the dungeon over SSH. Every connection gets its
// own independent run. Build:
//
//	go build -o dungeoncrawl-server ./cmd/server
//
// Usage:
//
//	./dungeoncrawl-server [--config crawl.yaml] [--addr :2222] [--key host_key]
//
// Connect with:
//
//	ssh -t -p 2222 localhost
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
	"unicode"
	"unicode/utf8"

	"dungeoncrawl/internal/config"
	"dungeoncrawl/internal/game"
	"dungeoncrawl/internal/logger"
	internalssh "dungeoncrawl/internal/ssh"
	"dungeoncrawl/internal/telemetry"

	gossh "github.com/gliderlabs/ssh"
	"github.com/sirupsen/logrus"
	xssh "golang.org/x/crypto/ssh"
)

// maxNameBytes bounds player names taken from the SSH user.
const maxNameBytes = 16

// allowedTerms lists the TERM values a client may select. Replaced by
// server.allowed_terms when the config sets it.
var allowedTerms = internalssh.TermSet([]string{
	"xterm", "xterm-256color",
	"screen", "screen-256color",
	"tmux", "tmux-256color",
	"vt100", "linux", "alacritty",
	"rxvt-unicode-256color",
})

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file (default $CRAWL_CONFIG)")
	addr := flag.String("addr", "", "Listen address (overrides server.addr)")
	keyFile := flag.String("key", "", "Path to the PEM host key, generated if absent (default <data dir>/host_key)")
	flag.Parse()

	if err := run(*configPath, *addr, *keyFile); err != nil {
		logger.Log.WithError(err).Error("Server stopped.")
		os.Exit(1)
	}
}

func run(configPath, addr, keyFile string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logOpts := logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: os.Stderr}
	if cfg.Log.File != "" {
		f, err := logger.OpenFile(cfg.Log.File)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOpts.Output = f
	}
	logger.Init(logOpts)
	log := logger.Component("server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Options{
		Enabled:  cfg.Telemetry.Enabled,
		Endpoint: cfg.Telemetry.Endpoint,
		Insecure: cfg.Telemetry.Insecure,
	})
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.WithError(err).Warn("Tracing shutdown failed.")
		}
	}()

	if len(cfg.Server.AllowedTerms) > 0 {
		allowedTerms = internalssh.TermSet(cfg.Server.AllowedTerms)
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}
	if keyFile == "" {
		keyFile = cfg.Server.HostKey
	}
	if keyFile == "" {
		dir, err := config.DataDir()
		if err != nil {
			return fmt.Errorf("locate data dir: %w", err)
		}
		keyFile = filepath.Join(dir, "host_key")
	}
	signer, err := loadOrCreateHostKey(keyFile)
	if err != nil {
		return err
	}

	srv := &gossh.Server{
		Addr: addr,
		Handler: func(s gossh.Session) {
			handleSession(s, cfg)
		},
		PtyCallback: func(_ gossh.Context, _ gossh.Pty) bool { return true },
		// No authentication; add gossh.PublicKeyAuth for anything public.
		HostSigners: []gossh.Signer{signer},
	}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()

	log.WithField("addr", addr).Info("Listening for SSH connections.")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, gossh.ErrServerClosed) {
		return err
	}
	log.Info("Server shut down.")
	return nil
}

// handleSession runs one player's game for the lifetime of the connection.
func handleSession(s gossh.Session, cfg config.Config) {
	name := sanitizeName(s.User())
	if name == "" {
		name = "adventurer"
	}
	log := logger.Component("server").WithFields(logrus.Fields{
		"player": name,
		"remote": s.RemoteAddr().String(),
	})

	pty, winCh, hasPTY := s.Pty()
	if !hasPTY {
		fmt.Fprintln(s, "This game requires a PTY. Connect with: ssh -t -p 2222 <host>")
		return
	}

	term := internalssh.SessionTerm(s.Environ(), allowedTerms)
	screen, err := internalssh.NewScreen(s, pty, winCh, term)
	if err != nil {
		log.WithError(err).Warn("Screen setup failed.")
		fmt.Fprintf(s, "%v\n", err)
		return
	}
	defer screen.Fini()

	ctx := s.Context()
	// A dropped connection unblocks PollEvent.
	go func() {
		<-ctx.Done()
		screen.Fini()
	}()

	sess, err := game.NewSession(screen, cfg, game.SessionOptions{
		PlayerName: name,
		Sink:       game.LogSink{Entry: log},
		SaveRuns:   true,
	})
	if err != nil {
		log.WithError(err).Error("Session setup failed.")
		return
	}

	log.WithField("term", term).Info("Player connected.")
	if err := sess.Run(ctx); err != nil {
		log.WithError(err).Error("Session ended with an error.")
	}
	log.Info("Player disconnected.")
}

// sanitizeName drops control characters and cuts the result to maxNameBytes
// without splitting a rune.
func sanitizeName(s string) string {
	out := make([]byte, 0, maxNameBytes)
	for _, r := range s {
		if unicode.IsControl(r) || r == utf8.RuneError {
			continue
		}
		if len(out)+utf8.RuneLen(r) > maxNameBytes {
			break
		}
		out = utf8.AppendRune(out, r)
	}
	return string(out)
}

// loadOrCreateHostKey loads a PEM private key from path, or generates and
// persists a new ed25519 key if the file is absent or unreadable.
func loadOrCreateHostKey(path string) (gossh.Signer, error) {
	log := logger.Component("server").WithField("path", path)
	if data, err := os.ReadFile(path); err == nil {
		if signer, err := xssh.ParsePrivateKey(data); err == nil {
			log.Info("Loaded host key.")
			return signer, nil
		}
	}

	log.Info("Generating new ed25519 host key.")
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate host key: %w", err)
	}
	signer, err := xssh.NewSignerFromKey(key)
	if err != nil {
		return nil, fmt.Errorf("create signer: %w", err)
	}
	// Persisting is best effort; the server still runs with an ephemeral key.
	pemBlock, err := xssh.MarshalPrivateKey(key, "dungeoncrawl server")
	if err == nil {
		if err = os.MkdirAll(filepath.Dir(path), 0o700); err == nil {
			err = os.WriteFile(path, pem.EncodeToMemory(pemBlock), 0o600)
		}
	}
	if err != nil {
		log.WithError(err).Warn("Host key not saved.")
	}
	return signer, nil
}
