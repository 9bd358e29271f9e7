package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/varbook/varbook/internal/duckdb"
	"github.com/varbook/varbook/internal/filter"
	"github.com/varbook/varbook/internal/table"
	"github.com/varbook/varbook/internal/vcf"
	"github.com/varbook/varbook/internal/workbook"
)

func newGenerateCmd() *cobra.Command {
	var (
		filters       []string
		outputFile    string
		annotationKey string
		printColumns  bool
	)

	cmd := &cobra.Command{
		Use:   "generate <input.vcf>",
		Short: "Build the wide variant table and partition it with filters",
		Long: `Read a VCF file (plain or gzipped, '-' for stdin), expand its packed
INFO, nested annotation and FORMAT/SAMPLE fields into a wide table, then
apply the given filters. Rows satisfying every filter are retained; with
--keep the excluded rows are preserved as an extra "filtered" sheet.`,
		Example: `  varbook generate sample.vcf
  varbook generate --filter "DP>30" --filter "QUAL<200" sample.vcf
  varbook generate --filter "gnomAD_AF<=0.02" --keep -o review.tsv sample.vcf
  varbook generate --format duckdb -o review.duckdb sample.vcf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(args[0], filters, outputFile, annotationKey, printColumns)
		},
	}

	cmd.Flags().StringArrayVar(&filters, "filter", nil, `filter expression <column><operator><value> (repeatable)`)
	cmd.Flags().Bool("keep", false, "preserve excluded rows as an extra \"filtered\" sheet")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringP("format", "f", "tab", "output format: tab, duckdb")
	cmd.Flags().StringVar(&annotationKey, "annotation-key", table.DefaultAnnotationKey, "INFO key carrying nested per-transcript annotations")
	cmd.Flags().BoolVar(&printColumns, "print-columns", false, "print the resolved column names and exit")

	// Config file values back the flags; an explicit flag wins.
	_ = viper.BindPFlag("filter.keep", cmd.Flags().Lookup("keep"))
	_ = viper.BindPFlag("output.format", cmd.Flags().Lookup("format"))

	return cmd
}

func runGenerate(inputPath string, filters []string, outputFile, annotationKey string, printColumns bool) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	parser, err := vcf.NewParser(inputPath)
	if err != nil {
		return err
	}
	defer parser.Close()

	records, err := parser.ReadAll()
	if err != nil {
		return err
	}
	logger.Info("read records", zap.String("input", inputPath), zap.Int("records", len(records)))

	annotationFields := parser.AnnotationFields(annotationKey)
	if len(annotationFields) == 0 {
		logger.Debug("no nested annotation declaration in header; key left unexpanded",
			zap.String("key", annotationKey))
	}

	splitter := table.NewSplitter(annotationFields)
	splitter.SetAnnotationKey(annotationKey)
	splitter.SetTypeHints(parser)
	splitter.SetLogger(logger)

	tbl, err := splitter.Split(records)
	if err != nil {
		return err
	}
	logger.Info("built wide table",
		zap.Int("rows", tbl.NumRows()),
		zap.Int("columns", len(tbl.ColumnNames())),
	)

	if printColumns {
		fmt.Println(strings.Join(tbl.ColumnNames(), "\n"))
		return nil
	}

	spec, err := filter.Parse(filters)
	if err != nil {
		return err
	}

	keep := viper.GetBool("filter.keep")
	sheets := workbook.NewSheetSet()
	if len(spec) == 0 {
		sheets.Add("variants", tbl)
	} else {
		engine := filter.NewEngine()
		engine.SetLogger(logger)

		res, err := engine.Apply(tbl, spec)
		if err != nil {
			return err
		}
		sheets.AddPartition("variants", res, keep)
		logger.Info("partitioned rows",
			zap.Int("retained", res.Retained.NumRows()),
			zap.Int("excluded", res.Excluded.NumRows()),
			zap.Bool("keep", keep),
		)
	}

	switch format := viper.GetString("output.format"); format {
	case "tab":
		return writeTab(sheets, outputFile)
	case "duckdb":
		if outputFile == "" {
			return fmt.Errorf("--output is required for duckdb format")
		}
		return writeDuckDB(sheets, outputFile)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeTab(sheets *workbook.SheetSet, outputFile string) error {
	out := os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	tw := workbook.NewTabWriter(out)
	if err := tw.WriteSheetSet(sheets); err != nil {
		return err
	}
	return tw.Flush()
}

func writeDuckDB(sheets *workbook.SheetSet, outputFile string) error {
	store, err := duckdb.Open(outputFile)
	if err != nil {
		return err
	}
	defer store.Close()

	names := sheets.Names()
	tables := sheets.Tables()
	for i, name := range names {
		if err := store.WriteSheet(name, tables[i]); err != nil {
			return err
		}
	}
	return nil
}
