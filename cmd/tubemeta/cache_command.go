package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"tubemeta/internal/logging"
	"tubemeta/internal/mediaid"
	"tubemeta/internal/metacache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the metadata cache",
	}

	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheShowCommand(ctx))
	cacheCmd.AddCommand(newCacheRemoveCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func withCache(ctx *commandContext, cmd *cobra.Command, fn func(*metacache.Cache) error) error {
	logger, err := ctx.logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	cache, err := ctx.openCache(logger, false)
	if err != nil {
		return err
	}
	defer cache.Close()
	return fn(cache)
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached metadata entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(ctx, cmd, func(cache *metacache.Cache) error {
				entries, err := cache.Entries(cmd.Context())
				if err != nil {
					return err
				}
				printCacheEntries(cmd, cache, entries)
				return nil
			})
		},
	}
}

func printCacheEntries(cmd *cobra.Command, cache *metacache.Cache, entries []metacache.EntrySummary) {
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintf(out, "No cached metadata in %s\n", cache.Dir())
		return
	}
	const stampLayout = "2006-01-02 15:04"
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		title := "(unreadable)"
		if doc, ok, err := cache.Get(cmd.Context(), entry.ID); err == nil && ok {
			if video, err := doc.Video(); err == nil {
				title = video.Title
			}
		}
		rows = append(rows, []string{
			entry.ID.String(),
			title,
			humanBytes(entry.SizeBytes),
			entry.ModifiedAt.Local().Format(stampLayout),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"ID", "Title", "Size", "Updated"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
	))
	fmt.Fprintf(out, "%d entries in %s\n", len(entries), cache.Dir())
}

func newCacheShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print the cached metadata document for an identifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(ctx, cmd, func(cache *metacache.Cache) error {
				doc, ok, err := cache.Get(cmd.Context(), mediaid.New(args[0]))
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("no cached metadata for %q", args[0])
				}
				return writeJSON(cmd, json.RawMessage(doc.Bytes()))
			})
		},
	}
}

func newCacheRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove one cached metadata entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(ctx, cmd, func(cache *metacache.Cache) error {
				id := mediaid.New(args[0])
				path := existingEntryPath(cache, id)
				if _, _, err := cache.Remove(cmd.Context(), id); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if path == "" {
					fmt.Fprintf(out, "No cached metadata for %s\n", id)
					return nil
				}
				fmt.Fprintf(out, "Removed %s\n", path)
				return nil
			})
		},
	}
}

// existingEntryPath returns the cache file for id, or "" when none is on disk.
func existingEntryPath(cache *metacache.Cache, id mediaid.ID) string {
	path, err := cache.Path(id)
	if err != nil {
		return ""
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return ""
	}
	return path
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every cached metadata entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			removed, err := metacache.Clear(cfg.Paths.CacheDir)
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd.ErrOrStderr())
			if err == nil {
				logger.Debug("metadata cache cleared",
					logging.String(logging.FieldEventType, "cache_cleared"),
					logging.Int("removed", removed),
				)
			}
			printClearResult(cmd.OutOrStdout(), removed)
			return nil
		},
	}
}

func printClearResult(out io.Writer, removed int) {
	switch removed {
	case 0:
		fmt.Fprintln(out, "Cache already empty")
	case 1:
		fmt.Fprintln(out, "Removed 1 cached entry")
	default:
		fmt.Fprintf(out, "Removed %d cached entries\n", removed)
	}
}
