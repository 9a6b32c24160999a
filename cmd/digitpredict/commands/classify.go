package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"digit-canvas/internal/app"
	"digit-canvas/internal/chart"
	"digit-canvas/internal/imageio"
	"digit-canvas/internal/predict"

	"github.com/spf13/cobra"
)

func classifyCmd(opts *options) *cobra.Command {
	var (
		chartPath string
		gridPath  string
	)

	cmd := &cobra.Command{
		Use:   "classify [image]",
		Short: "Fit an image to the 28x28 grid and print the digit distribution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !imageio.IsImportFormat(args[0]) {
				return fmt.Errorf("unsupported image format %q, want one of %s",
					filepath.Ext(args[0]), strings.Join(imageio.ImportFormats(), " "))
			}

			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}

			classifier, err := openClassifier(cfg)
			if err != nil {
				return err
			}
			defer classifier.Close()

			session := app.NewSession(classifier)
			if err := session.Import(args[0]); err != nil {
				return err
			}
			p, _ := session.Prediction()
			writeDistribution(cmd.OutOrStdout(), p)

			if gridPath != "" {
				written, err := session.Export(gridPath)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Grid written to %s\n", written)
			}
			if chartPath != "" {
				written, err := chart.Save(chartPath, p)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Chart written to %s\n", written)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&chartPath, "chart", "", "write a probability bar chart (.png, .svg, .pdf)")
	cmd.Flags().StringVar(&gridPath, "export-grid", "", "write the 28x28 grid image (.png, .bmp, .tif)")
	return cmd
}

// writeDistribution prints digits from most to least likely, then the winner.
func writeDistribution(w io.Writer, p predict.Probabilities) {
	for _, d := range p.Ranked() {
		fmt.Fprintf(w, "%d %7.2f%%\n", d, p[d]*100)
	}
	fmt.Fprintf(w, "Prediction: %s\n", p)
}
