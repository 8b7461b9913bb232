// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/songbook/internal/convert"
	"github.com/pdiddy/songbook/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [documents...]",
	Short: "Split lyrics documents into song collections",
	Long: `Convert loads each document (.txt, .md, .docx or .pdf), splits it into
songs at every occurrence of the preset's title marker, and writes the
collection to the output directory as JSON, YAML, Markdown or HTML.

With --index a first-line index (<name>-index.csv) is written alongside.
Existing outputs are skipped unless --force is given. Use --batch to
convert every document in --in.`,
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := conversionConfig(cmd)
	if err != nil {
		return err
	}

	p, err := convert.New(cfg, nil, logger)
	if err != nil {
		return err
	}

	paths := args
	if viper.GetBool("convert.batch") {
		dir := viper.GetString("convert.input_dir")
		found, err := convert.SourceFiles(dir)
		if err != nil {
			return err
		}
		if len(found) == 0 {
			fmt.Printf("No documents found in %s\n", dir)
			return nil
		}
		paths = append(paths, found...)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no documents given: pass file paths or use --batch")
	}

	result := p.ConvertBatch(paths, os.Stdout)
	if result.HasFailures() {
		return fmt.Errorf("%d document(s) failed conversion", result.Failed)
	}
	return nil
}

func conversionConfig(cmd *cobra.Command) (types.ConversionConfig, error) {
	preset, err := resolvePreset(cmd, viper.GetString("convert.preset"))
	if err != nil {
		return types.ConversionConfig{}, err
	}
	return types.ConversionConfig{
		Preset:    preset,
		Normalize: viper.GetBool("convert.normalize"),
		Format:    types.OutputFormat(viper.GetString("convert.format")),
		Index:     viper.GetBool("convert.index"),
		OutputDir: viper.GetString("convert.output_dir"),
		Force:     viper.GetBool("convert.force"),
	}, nil
}

func init() {
	convertCmd.Flags().String("preset", "aruthal", "delimiter preset (see \"songbook presets\")")
	addDelimiterFlags(convertCmd)
	convertCmd.Flags().Bool("normalize", false, "rewrite titles as \"<marker> <N>\" in order")
	convertCmd.Flags().String("format", "json", "output format: json, yaml, markdown, or html")
	convertCmd.Flags().Bool("index", false, "also write a first-line index CSV")
	convertCmd.Flags().String("out", ".", "output directory")
	convertCmd.Flags().Bool("batch", false, "convert every supported document in --in")
	convertCmd.Flags().String("in", "songs", "input directory for --batch")
	convertCmd.Flags().Bool("force", false, "overwrite existing outputs")

	bindFlag("convert.preset", convertCmd.Flags().Lookup("preset"))
	bindFlag("convert.normalize", convertCmd.Flags().Lookup("normalize"))
	bindFlag("convert.format", convertCmd.Flags().Lookup("format"))
	bindFlag("convert.index", convertCmd.Flags().Lookup("index"))
	bindFlag("convert.output_dir", convertCmd.Flags().Lookup("out"))
	bindFlag("convert.batch", convertCmd.Flags().Lookup("batch"))
	bindFlag("convert.input_dir", convertCmd.Flags().Lookup("in"))
	bindFlag("convert.force", convertCmd.Flags().Lookup("force"))

	rootCmd.AddCommand(convertCmd)
}
