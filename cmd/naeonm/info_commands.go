package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hkteamnoob/naeonm/internal/check"
	"github.com/hkteamnoob/naeonm/internal/display"
	"github.com/hkteamnoob/naeonm/internal/history"
	"github.com/hkteamnoob/naeonm/internal/planner"
	"github.com/hkteamnoob/naeonm/internal/probe"
	"github.com/hkteamnoob/naeonm/internal/term"
)

func newProbeCommand(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <file>",
		Short: "Show the streams of a file and how a metadata edit would treat them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			prober := probe.NewProber(app.cfg.Tools.FFprobe)
			streams, err := prober.Streams(ctx, args[0])
			if err != nil {
				return err
			}

			mapped := map[string]bool{}
			if plan, ok := planner.PlanMetadata(args[0], streams, ""); ok {
				mapped = mappedStreams(plan)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, display.RenderTable(
				[]string{"#", "Type", "Codec", "Language", "Kept"},
				streamRows(streams, mapped),
				[]display.Align{display.AlignRight},
			))

			if d, err := prober.Duration(ctx, args[0]); err == nil {
				fmt.Fprintf(out, "Duration: %s\n", time.Duration(d*float64(time.Second)).Round(time.Millisecond))
			} else {
				app.log.Debug("%v", err)
			}
			return nil
		},
	}
}

func streamRows(streams []probe.StreamRecord, mapped map[string]bool) [][]string {
	rows := make([][]string, 0, len(streams))
	for _, s := range streams {
		lang := "-"
		if s.HasLanguage {
			lang = s.Language
		}
		kept := "no"
		if mapped[strconv.Itoa(s.Index)] {
			kept = "yes"
		}
		rows = append(rows, []string{strconv.Itoa(s.Index), display.Label(string(s.Type)), s.Codec, lang, kept})
	}
	return rows
}

// mappedStreams collects the input stream indices selected by -map 0:N.
func mappedStreams(plan *planner.Plan) map[string]bool {
	mapped := make(map[string]bool)
	body := plan.Tokens()
	for i := 0; i+1 < len(body); i++ {
		if body[i] != "-map" {
			continue
		}
		if idx, ok := strings.CutPrefix(body[i+1], "0:"); ok {
			mapped[idx] = true
		}
	}
	return mapped
}

func newCheckCommand(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report ffmpeg, ffprobe, drawtext and font availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := check.New(&app.cfg)
			c.RunCheck(cmd.Context(), app.log)
			if err := c.CheckDeps(false); err != nil {
				app.log.Error("%v", err)
				return errReported
			}
			return nil
		},
	}
}

func newHistoryCommand(app *application) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent edit operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.cfg.History.Path == "" {
				return errors.New("history is disabled (history.path is empty)")
			}
			store, err := history.Open(cmd.Context(), app.cfg.History.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No operations recorded")
				return nil
			}
			fmt.Fprintln(out, display.RenderTable(
				[]string{"Started", "Operation", "Status", "File", "Elapsed", "Detail"},
				historyRows(entries),
				[]display.Align{display.AlignLeft, display.AlignLeft, display.AlignLeft, display.AlignLeft, display.AlignRight},
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show (0 = all)")
	return cmd
}

const maxDetailWidth = 60

func historyRows(entries []history.Entry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		detail := []rune(e.Detail)
		if len(detail) > maxDetailWidth {
			detail = append(detail[:maxDetailWidth-1], '…')
		}
		rows = append(rows, []string{
			e.StartedAt.Local().Format("2006-01-02 15:04:05"),
			display.Label(e.Operation),
			colorStatus(e.Status),
			filepath.Base(e.InputPath),
			display.FormatElapsed(e.Elapsed),
			string(detail),
		})
	}
	return rows
}

func colorStatus(s history.Status) string {
	color := ""
	switch s {
	case history.StatusOK:
		color = term.Green
	case history.StatusFailed:
		color = term.Red
	case history.StatusSkipped:
		color = term.Yellow
	case history.StatusDryRun:
		color = term.Cyan
	}
	if color == "" {
		return string(s)
	}
	return color + string(s) + term.NC
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "naeonm %s (%s)\n", version, commit)
		},
	}
}
