package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/okian/duoquiz/internal/adapters/http/api"
	"github.com/okian/duoquiz/internal/adapters/transport/ws"
	service "github.com/okian/duoquiz/internal/app"
	"github.com/okian/duoquiz/internal/config"
	"github.com/okian/duoquiz/internal/domain/codec"
	"github.com/okian/duoquiz/internal/domain/dedupe"
	"github.com/okian/duoquiz/internal/domain/model"
	"github.com/okian/duoquiz/pkg/logger"
	"github.com/okian/duoquiz/pkg/metrics"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// HTTP server timeout constants.
const (
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 60 * time.Second
	shutdownTimeout   = 10 * time.Second
	defaultLinger     = 5 * time.Second
)

func hostCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "host",
		Short: "Start a session, print the invite and wait for the partner",
		RunE:  runHostCmd,
	}
	f := cmd.Flags()
	f.StringP("answers", "a", "", "YAML file with your answers (required)")
	f.String("bonus-question", "", "Free-text bonus question for your partner")
	f.String("bonus-label", "", "Label shown next to the bonus scale")
	f.String("bonus-min", "", "Label for the low end of the bonus scale")
	f.String("bonus-max", "", "Label for the high end of the bonus scale")
	f.Duration("linger", defaultLinger, "How long to keep serving after the result so the partner can fetch it")
	_ = cmd.MarkFlagRequired("answers")
	return cmd
}

func runHostCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	f := cmd.Flags()
	path, _ := f.GetString("answers")
	answers, err := loadAnswers(path)
	if err != nil {
		return err
	}
	inv := codec.Invite{Role: model.RoleGuest, SID: service.NewSessionID()}
	inv.BonusQ, _ = f.GetString("bonus-question")
	inv.BonusLabel, _ = f.GetString("bonus-label")
	inv.BonusMin, _ = f.GetString("bonus-min")
	inv.BonusMax, _ = f.GetString("bonus-max")
	linger, _ := f.GetDuration("linger")

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}
	return runHost(cmd.Context(), cfg, ln, hostParams{
		invite:  inv,
		answers: answers,
		out:     cmd.OutOrStdout(),
		linger:  linger,
	})
}

type hostParams struct {
	invite  codec.Invite
	answers model.UserAnswers
	out     io.Writer
	linger  time.Duration
	// onInvite, when set, receives the invite token once it is known.
	onInvite func(token string)
}

// runHost serves the pairing socket on ln until the pair result is known,
// prints it, then shuts the server down.
func runHost(ctx context.Context, cfg *config.Config, ln net.Listener, p hostParams) error {
	log := logger.Named("host")
	base := publicURL(cfg, ln.Addr())
	p.invite.Addr = base

	token, err := codec.Encode(p.invite)
	if err != nil {
		_ = ln.Close()
		return err
	}

	listener := ws.NewListener(ws.WithLogger(logger.Named("ws")))
	srv := &http.Server{
		Handler: api.NewServer(
			api.WithPairing(listener),
			api.WithLogger(logger.Named("api")),
		).Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}

	sess, err := service.NewSession(p.invite, model.RoleOwner, newEngine(cfg),
		service.WithDeduper(dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(cfg.DedupeSize))),
		service.WithLogger(logger.Named("session")),
	)
	if err != nil {
		_ = ln.Close()
		return err
	}
	defer sess.Close()
	ch, err := service.Attach(sess, listener, cfg.AutoStart, channelOptions(cfg)...)
	if err != nil {
		_ = ln.Close()
		return err
	}
	defer ch.Close()

	fmt.Fprintf(p.out, "session: %s\ninvite:  %s\nlink:    %s/invite?d=%s\n", p.invite.SID, token, base, token)
	if p.onInvite != nil {
		p.onInvite(token)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	metrics.Global().StartSystemCollector(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info(gctx, "starting HTTP server", logger.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
		defer stop()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		defer cancel()
		if err := sess.SubmitAnswers(gctx, p.answers); err != nil {
			return err
		}
		if !cfg.AutoStart {
			if err := ch.Connect(p.invite.SID); err != nil {
				return err
			}
		}
		log.Info(gctx, "waiting for partner", logger.String("status", ch.Status()))
		res, err := sess.Wait(gctx)
		if err != nil {
			if chErr := ch.Err(); chErr != nil {
				return fmt.Errorf("%w: %w", err, chErr)
			}
			return err
		}
		if err := printResult(p.out, res, base); err != nil {
			return err
		}
		// the partner may still be reconnecting for its copy
		select {
		case <-gctx.Done():
		case <-time.After(p.linger):
		}
		return nil
	})
	return g.Wait()
}

// publicURL is where guests reach this host.
func publicURL(cfg *config.Config, addr net.Addr) string {
	if cfg.PublicURL != "" {
		return strings.TrimRight(cfg.PublicURL, "/")
	}
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return "http://" + addr.String()
	}
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
