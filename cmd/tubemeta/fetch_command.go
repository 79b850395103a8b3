package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tubemeta/internal/metadata"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var refresh bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Fetch metadata for a media URL, using the cache when possible",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := ctx.fetchService(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			previous := svc.SetRefresh(refresh)
			defer svc.SetRefresh(previous)

			doc, err := svc.Fetch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, json.RawMessage(doc.Bytes()))
			}
			return printVideoSummary(cmd.OutOrStdout(), doc)
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Bypass the cache and fetch from the remote")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full metadata document as JSON")
	return cmd
}

func printVideoSummary(out io.Writer, doc metadata.Document) error {
	video, err := doc.Video()
	if err != nil {
		return err
	}
	type field struct {
		key   string
		value string
	}
	fields := []field{
		{"title", video.Title},
		{"artist", video.DisplayArtist()},
		{"duration", formatSeconds(video.Duration)},
		{"upload_date", formatUploadDate(video.UploadDate)},
		{"webpage_url", video.WebpageURL},
	}
	width := 0
	for _, f := range fields {
		if label := formatLabel(f.key); len(label) > width {
			width = len(label)
		}
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			continue
		}
		fmt.Fprintf(out, "%-*s %s\n", width+1, formatLabel(f.key)+":", f.value)
	}
	return nil
}

func formatSeconds(seconds float64) string {
	if seconds <= 0 {
		return ""
	}
	return (time.Duration(seconds) * time.Second).String()
}

// formatUploadDate renders yt-dlp's YYYYMMDD dates as YYYY-MM-DD.
func formatUploadDate(value string) string {
	parsed, err := time.Parse("20060102", strings.TrimSpace(value))
	if err != nil {
		return value
	}
	return parsed.Format(time.DateOnly)
}
