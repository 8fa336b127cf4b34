package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hkteamnoob/naeonm/internal/pipeline"
)

func newMetadataCommand(app *application) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "metadata <path>...",
		Short: "Rewrite container and stream metadata in place",
		Long: "Strips existing global metadata, writes the title key to the container\n" +
			"and to every kept stream, preserves language tags, and drops WebVTT and\n" +
			"unidentified subtitle streams. Directories are searched recursively.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.preflight(false); err != nil {
				return err
			}
			r := app.runner(cmd.Context())
			return batch(cmd.Context(), r, args, func(ctx context.Context, path string) error {
				return r.EditMetadata(ctx, path, title)
			})
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "Title key written to the container and streams")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newWatermarkCommand(app *application) *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "watermark <path>...",
		Short: "Burn a text watermark into the video at the start, middle and end",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.preflight(true); err != nil {
				return err
			}
			r := app.runner(cmd.Context())
			return batch(cmd.Context(), r, args, func(ctx context.Context, path string) error {
				return r.Watermark(ctx, path, key)
			})
		},
	}
	cmd.Flags().StringVarP(&key, "key", "k", "", "Watermark text")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func newAttachCommand(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "attach <file> <attachment>",
		Short: "Embed a cover image as a Matroska attachment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.preflight(false); err != nil {
				return err
			}
			return app.runner(cmd.Context()).Attach(cmd.Context(), args[0], args[1])
		},
	}
}

func newProcessCommand(app *application) *cobra.Command {
	var req pipeline.Request
	cmd := &cobra.Command{
		Use:   "process <path>...",
		Short: "Run metadata, then watermark and attachment, on each file",
		Long: "Applies the metadata edit, then the watermark when --watermark is set,\n" +
			"then the attachment when --attach is set. A failed attachment is logged\n" +
			"and leaves the file as it was after the earlier steps.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.preflight(req.WatermarkKey != ""); err != nil {
				return err
			}
			r := app.runner(cmd.Context())
			return batch(cmd.Context(), r, args, func(ctx context.Context, path string) error {
				return r.Process(ctx, path, req)
			})
		},
	}
	cmd.Flags().StringVarP(&req.Title, "title", "t", "", "Title key written to the container and streams")
	cmd.Flags().StringVarP(&req.WatermarkKey, "watermark", "w", "", "Watermark text (skipped when empty)")
	cmd.Flags().StringVarP(&req.Attachment, "attach", "a", "", "Cover image to attach (skipped when empty)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

// batch runs op over every target and turns failures into an exit status.
func batch(ctx context.Context, r *pipeline.Runner, targets []string, op pipeline.Operation) error {
	stats := r.Run(ctx, targets, op)
	if err := ctx.Err(); err != nil {
		return err
	}
	if stats.Failed > 0 {
		return fmt.Errorf("%d of %d files %w", stats.Failed, stats.Total, errReported)
	}
	return nil
}
