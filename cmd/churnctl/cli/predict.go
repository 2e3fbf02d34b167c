package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/classifier"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/dataset"
)

type predictFlags struct {
	model  string
	input  string
	output string
}

func newPredictCmd(a *app) *cobra.Command {
	var f predictFlags

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Score a customer CSV file",
		Long: "Reads a customer CSV, aligns it to the model's trained features and appends the " +
			"Churn Prediction and Churn Probability columns. The scored file goes to --output, " +
			"or to stdout when no output is given.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if f.model == "" {
				f.model = a.cfg.Model.Path
			}
			return runPredict(cmd, a, f)
		},
	}

	cmd.Flags().StringVarP(&f.model, "model", "m", "", "model artifact (default: model.path from config)")
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "customer CSV to score")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "where to write the scored CSV")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runPredict(cmd *cobra.Command, a *app, f predictFlags) error {
	model, err := classifier.Load(f.model)
	if err != nil {
		return err
	}

	in, err := os.Open(f.input)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer in.Close()

	frame, err := dataset.ReadCSV(in)
	if err != nil {
		return err
	}
	aligned, err := dataset.Prepare(frame, model.FeatureNames())
	if err != nil {
		return err
	}
	if missing := aligned.Missing(); len(missing) > 0 {
		a.lggr.Warnw("input lacks trained features, using zero", "features", missing)
	}

	scores, err := model.Score(aligned)
	if err != nil {
		return err
	}
	scored, err := frame.WithPredictions(scores.Labels, scores.Probabilities)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if f.output == "" {
		return scored.WriteCSV(out)
	}

	file, err := os.Create(f.output)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := scored.WriteCSV(file); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	fmt.Fprintf(out, "Scored %d rows into %s\n", frame.Nrow(), f.output)
	fmt.Fprintf(out, "Total Predicted Churns: %d\n", scores.PositiveCount())
	fmt.Fprintf(out, "Average Churn Probability: %.2f\n", scores.MeanProbability())
	return nil
}
