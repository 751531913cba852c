package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/okian/duoquiz/internal/adapters/http/api"
	"github.com/okian/duoquiz/internal/adapters/pairing"
	service "github.com/okian/duoquiz/internal/app"
	"github.com/okian/duoquiz/internal/domain/codec"
	"github.com/okian/duoquiz/internal/domain/types"
	"github.com/spf13/cobra"
)

const watchInterval = 100 * time.Millisecond

func resultCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "result",
		Short: "Render a result token or link",
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, _ := cmd.Flags().GetString("token")
			p, err := codec.Decode[codec.ResultPayload](tokenOf(raw))
			if err != nil {
				return fmt.Errorf("%w: %w", api.ErrInvalidLink, err)
			}
			return writeResultView(cmd.OutOrStdout(), p)
		},
	}
	cmd.Flags().StringP("token", "t", "", "Result token or link (required)")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}

// tokenOf accepts a bare token or a link carrying it in the d parameter.
func tokenOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.RawQuery == "" {
		return raw
	}
	if d := u.Query().Get("d"); d != "" {
		return d
	}
	return raw
}

// printResult prints the local view and a link that reopens it.
func printResult(out io.Writer, p codec.ResultPayload, base string) error {
	token, err := codec.Encode(p)
	if err != nil {
		return err
	}
	if err := writeResultView(out, p); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "result:  %s\nlink:    %s/result?d=%s\n", token, base, token)
	return err
}

func writeResultView(out io.Writer, p codec.ResultPayload) error {
	view, ok := service.PairViewFor(p)
	if !ok {
		return fmt.Errorf("%w: result id %d", api.ErrInvalidLink, p.ResultID)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(types.NewResultView(p, view))
}

// watchChannel cancels with the channel's error once it gives up.
func watchChannel(ctx context.Context, ch *pairing.Channel, cancel context.CancelCauseFunc) {
	t := time.NewTicker(watchInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if ch.State() == pairing.StateError {
				cancel(ch.Err())
				return
			}
		}
	}
}
