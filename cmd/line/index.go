package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/praetorian-inc/line/pkg/index"
	"github.com/praetorian-inc/line/pkg/input"
	"github.com/praetorian-inc/line/pkg/linereader"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	indexFormat string
	indexPrune  bool
)

func newIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index [file...]",
		Short: "Count lines ahead of time and manage the line count index",
		Long: `Count the lines of the given files and store them in the index, so
later extractions skip the counting pass. Without files, list the index.`,
		RunE: runIndex,
	}
	cmd.Flags().StringVar(&indexFormat, "format", "human", "Output format: human, json, yaml")
	cmd.Flags().BoolVar(&indexPrune, "prune", false, "Remove entries for files that changed or no longer exist")
	return cmd
}

// indexEntry is the listed form of an index.Entry.
type indexEntry struct {
	Path      string    `json:"path" yaml:"path"`
	Lines     int       `json:"lines" yaml:"lines"`
	Size      int64     `json:"size" yaml:"size"`
	ModTime   time.Time `json:"mod_time" yaml:"mod_time"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

func runIndex(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("index") {
		indexPath = cfg.Index
	}
	if indexPath == "" {
		return fmt.Errorf("no index configured (use --index or the index config key)")
	}
	switch indexFormat {
	case "human", "json", "yaml":
	default:
		return fmt.Errorf("unknown format %q (want human, json or yaml)", indexFormat)
	}

	store, err := index.New(index.Config{Path: indexPath})
	if err != nil {
		return fmt.Errorf("opening index: %w", err)
	}
	defer store.Close()

	for _, path := range args {
		if err := indexFile(cmd, store, path); err != nil {
			return err
		}
	}
	if indexPrune {
		if err := pruneIndex(cmd, store); err != nil {
			return err
		}
	}
	if len(args) > 0 || indexPrune {
		return nil
	}
	return listIndex(cmd, store)
}

// indexFile counts the lines of path and stores them.
func indexFile(cmd *cobra.Command, store index.Store, path string) error {
	f, err := input.Open(path)
	if errors.Is(err, input.ErrEmptyFile) {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("reading metadata of `%s`: %w", path, err)
		}
		key, err := index.KeyFor(path, info)
		if err != nil {
			return err
		}
		return storeCount(cmd, store, key, 0)
	}
	if err != nil {
		return err
	}
	defer f.Close()

	if f.Key.IsZero() {
		warnf(cmd, "can't read metadata of `%s`, not indexing it: %v", path, f.StatErr)
		return nil
	}
	lines, err := linereader.Count(f)
	if err != nil {
		return fmt.Errorf("counting lines of `%s`: %w", path, err)
	}
	return storeCount(cmd, store, f.Key, lines)
}

func storeCount(cmd *cobra.Command, store index.Store, key index.Key, lines int) error {
	if err := store.Put(key, lines); err != nil {
		return fmt.Errorf("updating index: %w", err)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s lines (%s)\n", key.Path, humanize.Comma(int64(lines)), humanize.Bytes(uint64(key.Size)))
	}
	return nil
}

// pruneIndex removes entries whose file is gone or has changed since it
// was counted.
func pruneIndex(cmd *cobra.Command, store index.Store) error {
	entries, err := store.Entries()
	if err != nil {
		return fmt.Errorf("reading index: %w", err)
	}

	pruned := 0
	for _, e := range entries {
		info, err := os.Stat(e.Path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			warnf(cmd, "can't read metadata of `%s`, keeping it: %v", e.Path, err)
			continue
		}
		if err == nil {
			current, err := index.KeyFor(e.Path, info)
			if err == nil && current.Matches(e.Key) {
				continue
			}
		}
		if err := store.Remove(e.Path); err != nil {
			return fmt.Errorf("pruning `%s`: %w", e.Path, err)
		}
		logf(cmd, "pruned %s", e.Path)
		pruned++
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d of %d entries\n", pruned, len(entries))
	}
	return nil
}

func listIndex(cmd *cobra.Command, store index.Store) error {
	entries, err := store.Entries()
	if err != nil {
		return fmt.Errorf("reading index: %w", err)
	}
	listed := make([]indexEntry, len(entries))
	for i, e := range entries {
		listed[i] = indexEntry{
			Path:      e.Path,
			Lines:     e.Lines,
			Size:      e.Size,
			ModTime:   e.ModTime,
			UpdatedAt: e.UpdatedAt,
		}
	}

	out := cmd.OutOrStdout()
	switch indexFormat {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(listed)
	case "yaml":
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		if err := encoder.Encode(listed); err != nil {
			return err
		}
		return encoder.Close()
	}

	fmt.Fprintf(out, "=== Line Count Index ===\n")
	fmt.Fprintf(out, "Index: %s\n", indexPath)
	fmt.Fprintf(out, "Entries: %d\n", len(listed))
	for _, e := range listed {
		fmt.Fprintf(out, "\n%s\n", e.Path)
		fmt.Fprintf(out, "  Lines:    %s\n", humanize.Comma(int64(e.Lines)))
		fmt.Fprintf(out, "  Size:     %s\n", humanize.Bytes(uint64(e.Size)))
		fmt.Fprintf(out, "  Modified: %s\n", humanize.Time(e.ModTime))
		fmt.Fprintf(out, "  Counted:  %s\n", humanize.Time(e.UpdatedAt))
	}
	return nil
}
