package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/talent-radar/internal/fetcher"
	"github.com/sells-group/talent-radar/internal/model"
)

var classifyInputPath string

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify departure records into alert levels",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		classifier, err := initClassifier(ctx)
		if err != nil {
			return err
		}

		f, err := os.Open(classifyInputPath)
		if err != nil {
			return eris.Wrapf(err, "open %s", classifyInputPath)
		}
		defer f.Close()

		ch, errCh := fetcher.DecodeJSONArray[model.DepartureRecord](ctx, f)
		var departures []model.DepartureRecord
		for rec := range ch {
			departures = append(departures, rec)
		}
		if err := <-errCh; err != nil {
			return eris.Wrapf(err, "decode %s", classifyInputPath)
		}

		classified := classifier.ClassifyAll(departures)

		counts := map[int]int{}
		for _, rec := range classified {
			counts[rec.AlertLevel]++
		}
		zap.L().Info("classification complete",
			zap.Int("total", len(classified)),
			zap.Int("level_3", counts[3]),
			zap.Int("level_2", counts[2]),
			zap.Int("level_1", counts[1]),
		)

		return printJSON(classified)
	},
}

func init() {
	classifyCmd.Flags().StringVar(&classifyInputPath, "input", "", "path to JSON array of departure records (required)")
	_ = classifyCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(classifyCmd)
}
