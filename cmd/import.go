package main

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/talent-radar/internal/roster"
	"github.com/sells-group/talent-radar/internal/store"
)

var (
	importFilePath string
	importURL      string
	importBulk     bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a tracked-employee roster from CSV, XLSX, JSON or ZIP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if importFilePath == "" && importURL == "" {
			return eris.New("import: --file or --url is required")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		if importURL != "" {
			n, err := roster.NewImporter(st).ImportURL(ctx, importURL)
			if err != nil {
				return err
			}
			zap.L().Info("import complete", zap.Int("rows", n))
			return nil
		}

		if importBulk {
			pg, ok := st.(*store.PostgresStore)
			if !ok {
				zap.L().Warn("bulk import needs the postgres driver, falling back to row-by-row")
			} else if strings.ToLower(filepath.Ext(importFilePath)) != ".csv" {
				zap.L().Warn("bulk import only handles CSV, falling back to row-by-row")
			} else {
				n, err := roster.NewBulkImporter(pg.Pool()).ImportCSV(ctx, importFilePath)
				if err != nil {
					return err
				}
				zap.L().Info("import complete", zap.Int64("rows", n))
				return nil
			}
		}

		n, err := roster.NewImporter(st).ImportFile(ctx, importFilePath)
		if err != nil {
			return err
		}

		zap.L().Info("import complete", zap.Int("rows", n))
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importFilePath, "file", "", "path to roster file")
	importCmd.Flags().StringVar(&importURL, "url", "", "URL of roster file to download")
	importCmd.Flags().BoolVar(&importBulk, "bulk", false, "use the COPY-based postgres fast path")
	rootCmd.AddCommand(importCmd)
}
