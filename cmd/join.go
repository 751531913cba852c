package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/okian/duoquiz/internal/adapters/transport/ws"
	service "github.com/okian/duoquiz/internal/app"
	"github.com/okian/duoquiz/internal/config"
	"github.com/okian/duoquiz/internal/domain/codec"
	"github.com/okian/duoquiz/internal/domain/model"
	"github.com/okian/duoquiz/pkg/logger"
	"github.com/spf13/cobra"
)

var errNoHostAddr = errors.New("invite has no host address; pass --host")

func joinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "join",
		Short: "Follow an invite, send your answers and print the pair result",
		RunE:  runJoinCmd,
	}
	f := cmd.Flags()
	f.StringP("invite", "i", "", "Invite token or link (required)")
	f.StringP("answers", "a", "", "YAML file with your answers (required)")
	f.String("host", "", "Host address, overriding the one in the invite")
	_ = cmd.MarkFlagRequired("invite")
	_ = cmd.MarkFlagRequired("answers")
	return cmd
}

func runJoinCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	f := cmd.Flags()
	raw, _ := f.GetString("invite")
	inv, err := codec.Decode[codec.Invite](tokenOf(raw))
	if err != nil {
		return fmt.Errorf("%w: %w", service.ErrInvalidInvite, err)
	}
	if host, _ := f.GetString("host"); host != "" {
		inv.Addr = host
	}
	path, _ := f.GetString("answers")
	answers, err := loadAnswers(path)
	if err != nil {
		return err
	}
	return runJoin(cmd.Context(), cfg, inv, answers, cmd.OutOrStdout())
}

// runJoin dials the host named by inv and blocks until the pair result
// arrives or ctx ends.
func runJoin(ctx context.Context, cfg *config.Config, inv codec.Invite, answers model.UserAnswers, out io.Writer) error {
	if inv.Addr == "" {
		return errNoHostAddr
	}
	dialer, err := ws.NewDialer(inv.Addr, ws.WithLogger(logger.Named("ws")))
	if err != nil {
		return err
	}

	sess, err := service.NewSession(inv, model.RoleGuest, newEngine(cfg),
		service.WithLogger(logger.Named("session")),
	)
	if err != nil {
		return err
	}
	defer sess.Close()
	ch, err := service.Attach(sess, dialer, cfg.AutoStart, channelOptions(cfg)...)
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := sess.SubmitAnswers(ctx, answers); err != nil {
		return err
	}
	if !cfg.AutoStart {
		if err := ch.Connect(inv.SID); err != nil {
			return err
		}
	}

	// a terminal channel error ends the wait early
	waitCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	go watchChannel(waitCtx, ch, cancel)

	res, err := sess.Wait(waitCtx)
	if err != nil {
		if cause := context.Cause(waitCtx); cause != nil && !errors.Is(cause, context.Canceled) {
			return cause
		}
		return err
	}
	if solo, ok := sess.Solo(); ok {
		logger.Named("join").Info(ctx, "personal type",
			logger.String("variant", string(solo.Variant)),
			logger.String("name", solo.Profile().Name),
		)
	}
	return printResult(out, res, inv.Addr)
}
