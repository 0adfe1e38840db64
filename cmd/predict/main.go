// Command predict runs the study habits form headless: it fills the form from
// flags and/or a YAML file, validates it, asks the prediction service and
// prints the result card.
//
// Usage:
//
//	predict --attendance 80 --stress-level 3 --desired-grade 1
//	predict --file habits.yaml --json
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "predict",
		Short:        "Predict a grade from study habits",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configDir, "config", "configs", "directory containing config.yaml")
	f.StringVar(&opts.baseURL, "base-url", "", "prediction service base URL (defaults to config / API_BASE_URL)")
	f.StringVarP(&opts.file, "file", "f", "", "YAML file with form values")
	f.BoolVar(&opts.jsonOut, "json", false, "print the prediction and result card as JSON")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log requests to stdout")
	for _, ff := range fieldFlags {
		f.Float64(ff.name, ff.spec().Default, ff.usage())
	}

	return cmd
}
