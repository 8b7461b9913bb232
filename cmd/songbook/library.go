// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/songbook/internal/export"
	"github.com/pdiddy/songbook/internal/library"
	"github.com/pdiddy/songbook/pkg/types"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage the song library (add, search, lookup, list, export)",
	Long: `Library manages a local SQLite database of song collections built from
convert output. Use subcommands to add collections, search lyrics, look up
songs by first line, or export.`,
}

// --- add subcommand ---

var libraryAddCmd = &cobra.Command{
	Use:   "add <songs.json...>",
	Short: "Add song collections to the library",
	Long: `Add reads song collections written by convert and stores each one under
its collection name (the file's base name unless --collection is given).
Collections whose songs are unchanged since the last add are skipped
unless --force is set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLibraryAdd,
}

func runLibraryAdd(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("collection")
	if name != "" && len(args) > 1 {
		return fmt.Errorf("--collection names a single collection; got %d files", len(args))
	}
	force, _ := cmd.Flags().GetBool("force")

	store, err := library.Open(libraryConfig(), logger)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	var added, skipped, failed int
	for _, path := range args {
		collection := name
		if collection == "" {
			collection = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}

		res, err := addCollection(ctx, store, collection, path, force)
		if err != nil {
			fmt.Printf("failed:  %s (%v)\n", collection, err)
			failed++
			continue
		}
		switch res.Status {
		case types.ConversionSkipped:
			fmt.Printf("skipped: %s (unchanged)\n", collection)
			skipped++
		default:
			fmt.Printf("added:   %s (%d songs)\n", collection, res.Songs)
			added++
		}
	}

	fmt.Printf("\nLibrary summary: %d added, %d skipped, %d failed\n", added, skipped, failed)
	if failed > 0 {
		return fmt.Errorf("%d collection(s) failed", failed)
	}
	return nil
}

func addCollection(ctx context.Context, store *library.Store, collection, path string, force bool) (library.IngestResult, error) {
	songs, err := export.ReadJSON(path)
	if err != nil {
		return library.IngestResult{}, err
	}
	return store.Ingest(ctx, collection, path, songs, force)
}

// --- search subcommand ---

var librarySearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search song titles and lyrics",
	Long: `Search returns songs whose title or lyrics contain the query text,
optionally restricted to one collection.`,
	RunE: runLibrarySearch,
}

func runLibrarySearch(cmd *cobra.Command, args []string) error {
	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide search text or --collection")
	}

	store, err := library.Open(libraryConfig(), logger)
	if err != nil {
		return err
	}
	defer store.Close()

	songs, err := store.Search(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSongs(os.Stdout, songs, jsonOutput)
}

// --- lookup subcommand ---

var libraryLookupCmd = &cobra.Command{
	Use:   "lookup <first line>",
	Short: "Find songs by the first line of their lyrics",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLibraryLookup,
}

func runLibraryLookup(cmd *cobra.Command, args []string) error {
	collection, _ := cmd.Flags().GetString("collection")

	store, err := library.Open(libraryConfig(), logger)
	if err != nil {
		return err
	}
	defer store.Close()

	songs, err := store.Lookup(context.Background(), collection, strings.Join(args, " "))
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return formatSongs(os.Stdout, songs, true)
	}
	for _, s := range songs {
		fmt.Printf("%s #%d: %s\n\n%s\n\n", s.Collection, s.Position, s.Title, s.Lyrics)
	}
	return nil
}

// --- list subcommand ---

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored collections, or the index of one collection",
	RunE:  runLibraryList,
}

func runLibraryList(cmd *cobra.Command, args []string) error {
	collection, _ := cmd.Flags().GetString("collection")

	store, err := library.Open(libraryConfig(), logger)
	if err != nil {
		return err
	}
	defer store.Close()
	ctx := context.Background()

	if collection != "" {
		entries, err := store.Index(ctx, collection)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return fmt.Errorf("collection %q: %w", collection, library.ErrNotFound)
		}
		return export.WriteIndex(os.Stdout, types.RowsCSV, entries)
	}

	cols, err := store.Collections(ctx)
	if err != nil {
		return err
	}
	if len(cols) == 0 {
		fmt.Println("Library is empty.")
		return nil
	}
	fmt.Fprintf(os.Stdout, "%-24s  %-6s  %-20s  %s\n", "Collection", "Songs", "Added", "Source")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
	for _, c := range cols {
		fmt.Fprintf(os.Stdout, "%-24s  %-6d  %-20s  %s\n", c.Name, c.Songs, c.IngestedAt, c.Source)
	}
	return nil
}

// --- export subcommand ---

var libraryExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the library to YAML or JSON",
	Long: `Export writes the full library (or a filtered subset) to export.yaml or
export.json in the library directory. Supports the same filters as search.`,
	RunE: runLibraryExport,
}

func runLibraryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := library.Open(libraryConfig(), logger)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(context.Background(), opts)
	case "json":
		path, err = store.ExportJSON(context.Background(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Exported to %s\n", path)
	return nil
}

// --- shared helpers ---

func libraryConfig() types.LibraryConfig {
	return types.LibraryConfig{
		Dir:        viper.GetString("library.dir"),
		MaxResults: viper.GetInt("library.max_results"),
	}
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) library.QueryOptions {
	collection, _ := cmd.Flags().GetString("collection")
	limit, _ := cmd.Flags().GetInt("limit")
	return library.QueryOptions{
		Query:      strings.Join(args, " "),
		Collection: collection,
		MaxResults: limit,
	}
}

func formatSongs(w io.Writer, songs []types.LibrarySong, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(songs)
	}

	if len(songs) == 0 {
		fmt.Fprintln(w, "No songs found.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-20s  %-5s  %-20s  %s\n", "Rank", "Collection", "#", "Title", "First line")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for i, s := range songs {
		fmt.Fprintf(w, "%-4d  %-20s  %-5d  %-20s  %s\n",
			i+1, truncate(s.Collection, 20), s.Position, truncate(s.Title, 20), truncate(s.FirstLine, 40))
	}
	fmt.Fprintf(w, "\n%d songs\n", len(songs))
	return nil
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	libraryCmd.PersistentFlags().String("dir", "library", "library directory (holds songbook.db and exports)")
	libraryCmd.PersistentFlags().Int("max-results", 20, "default maximum number of search results")
	bindFlag("library.dir", libraryCmd.PersistentFlags().Lookup("dir"))
	bindFlag("library.max_results", libraryCmd.PersistentFlags().Lookup("max-results"))

	libraryAddCmd.Flags().String("collection", "", "collection name (default: file base name)")
	libraryAddCmd.Flags().Bool("force", false, "re-add collections even when their songs are unchanged")

	librarySearchCmd.Flags().String("collection", "", "restrict results to one collection")
	librarySearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	librarySearchCmd.Flags().Bool("json", false, "output results as JSON")

	libraryLookupCmd.Flags().String("collection", "", "restrict lookup to one collection")
	libraryLookupCmd.Flags().Bool("json", false, "output results as JSON")

	libraryListCmd.Flags().String("collection", "", "print the first-line index of this collection")

	libraryExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	libraryExportCmd.Flags().String("collection", "", "export only this collection")
	libraryExportCmd.Flags().Int("limit", 0, "maximum songs to export (0 = all)")

	libraryCmd.AddCommand(libraryAddCmd)
	libraryCmd.AddCommand(librarySearchCmd)
	libraryCmd.AddCommand(libraryLookupCmd)
	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryExportCmd)

	rootCmd.AddCommand(libraryCmd)
}
