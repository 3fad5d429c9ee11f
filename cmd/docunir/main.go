// Package main provides the docunir command line interface.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jvillalba/docunir/internal/catalog"
	"github.com/jvillalba/docunir/internal/parser"
	"github.com/jvillalba/docunir/internal/unify"
	"github.com/spf13/cobra"
)

var (
	levels      []int
	titles      []string
	whitelist   bool
	catalogPath string
	outDir      string
	groupLevel  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "docunir",
		Short: "Merge and group document sections by heading",
		Long: `docunir selects sections from .docx, .md, .html and .pdf documents by
their headings. It can merge them into a single Word document with a
spreadsheet of every table found, or write one document per distinct
section title.`,
	}
	rootCmd.PersistentFlags().IntSliceVar(&levels, "levels", nil, "Heading levels to keep (default 1,2,3)")
	rootCmd.PersistentFlags().StringSliceVar(&titles, "titles", nil, "Keep only sections with these titles")
	rootCmd.PersistentFlags().BoolVar(&whitelist, "whitelist", false, "Keep only catalogued titles")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "YAML catalogue overriding the built-in one")
	rootCmd.PersistentFlags().StringVarP(&outDir, "out", "o", ".", "Output directory")

	mergeCmd := &cobra.Command{
		Use:   "merge [files...]",
		Short: "Merge qualifying sections into one document",
		RunE:  runMerge,
	}

	groupCmd := &cobra.Command{
		Use:   "group [files...]",
		Short: "Write one document per distinct section title",
		RunE:  runGroup,
	}
	groupCmd.Flags().IntVar(&groupLevel, "group-level", 1, "Heading level to group on (1-3)")

	headingsCmd := &cobra.Command{
		Use:   "headings [files...]",
		Short: "List the headings of each document",
		RunE:  runHeadings,
	}

	rootCmd.AddCommand(mergeCmd, groupCmd, headingsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// collectInputs reads the named files, or every supported file in the
// current directory when none are named.
func collectInputs(args []string) ([]unify.Input, error) {
	paths := args
	if len(paths) == 0 {
		entries, err := os.ReadDir(".")
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() && parser.IsSupportedExtension(e.Name()) {
				paths = append(paths, e.Name())
			}
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no supported documents found")
	}

	inputs := make([]unify.Input, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		inputs = append(inputs, unify.Input{Name: filepath.Base(path), Data: data})
	}
	return inputs, nil
}

func buildOptions() (unify.Options, error) {
	opts := unify.Options{
		Levels:           levels,
		ExactTitles:      titles,
		EnforceWhitelist: whitelist,
		GroupLevel:       groupLevel,
	}
	if catalogPath != "" {
		cat, err := catalog.Load(catalogPath)
		if err != nil {
			return opts, fmt.Errorf("load catalogue: %w", err)
		}
		opts.Catalog = cat
	}
	return opts, nil
}

func writeFiles(files map[string][]byte) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		path := filepath.Join(outDir, name)
		if err := os.WriteFile(path, files[name], 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Println("wrote", path)
	}
	return nil
}

func reportSkips(skipped []unify.Skip) {
	for _, s := range skipped {
		fmt.Fprintf(os.Stderr, "skipped %s: %s\n", s.File, s.Reason)
	}
}

func runMerge(cmd *cobra.Command, args []string) error {
	inputs, err := collectInputs(args)
	if err != nil {
		return err
	}
	opts, err := buildOptions()
	if err != nil {
		return err
	}
	res, err := unify.Merge(inputs, opts)
	if err != nil {
		return err
	}
	reportSkips(res.Skipped)
	return writeFiles(res.Files)
}

func runGroup(cmd *cobra.Command, args []string) error {
	inputs, err := collectInputs(args)
	if err != nil {
		return err
	}
	opts, err := buildOptions()
	if err != nil {
		return err
	}
	res, err := unify.Group(inputs, opts)
	if err != nil {
		return err
	}
	reportSkips(res.Skipped)
	return writeFiles(res.Files)
}

func runHeadings(cmd *cobra.Command, args []string) error {
	inputs, err := collectInputs(args)
	if err != nil {
		return err
	}
	outlines, skipped := unify.Headings(inputs)
	reportSkips(skipped)

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"File", "Level", "Heading"})
	for _, in := range inputs {
		for _, h := range outlines[in.Name] {
			tw.AppendRow(table.Row{in.Name, h.Level, strings.Repeat("  ", h.Level-1) + h.Text})
		}
	}
	tw.SetStyle(table.StyleLight)
	tw.Render()
	return nil
}
