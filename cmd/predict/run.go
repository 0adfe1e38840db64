package main

import (
	"context"
	"encoding/json"
	"fmt"
	"grade_predictor/internal/config"
	"grade_predictor/internal/model"
	"grade_predictor/internal/service"
	"grade_predictor/internal/util"
	"grade_predictor/pkg/logger"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type options struct {
	configDir string
	baseURL   string
	file      string
	jsonOut   bool
	verbose   bool
}

type fieldFlag struct {
	name  string
	field model.Field
}

var fieldFlags = []fieldFlag{
	{name: "attendance", field: model.FieldAttendance},
	{name: "participation-score", field: model.FieldParticipationScore},
	{name: "sleep-hours", field: model.FieldSleepHoursPerNight},
	{name: "stress-level", field: model.FieldStressLevel},
	{name: "study-hours", field: model.FieldStudyHours},
	{name: "desired-grade", field: model.FieldDesiredGrade},
}

func (ff fieldFlag) spec() model.FieldSpec {
	s, _ := model.LookupField(ff.field)
	return s
}

func (ff fieldFlag) usage() string {
	s := ff.spec()
	return fmt.Sprintf("%s (%s..%s)", s.Description, util.FormatNumber(s.Bounds.Min), util.FormatNumber(s.Bounds.Max))
}

func run(cmd *cobra.Command, opts *options) error {
	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	logger.InitLogger(&config.Config{Log: config.LogConfig{Level: level}})
	defer logger.Log.Sync()

	predictionCfg, err := resolvePredictionConfig(opts)
	if err != nil {
		return err
	}

	form, err := fillForm(cmd, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !form.Validate() {
		printFieldErrors(cmd.ErrOrStderr(), form)
		return util.ErrInvalidForm
	}

	client := service.NewPredictionClient(predictionCfg)
	prediction, err := client.Predict(context.Background(), service.ToPredictionRequest(form.Values()))
	if err != nil {
		return err
	}

	view := service.PresentResult(prediction)
	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Prediction *model.Prediction  `json:"prediction"`
			Result     service.ResultView `json:"result"`
		}{prediction, view})
	}
	printResult(out, view)
	return nil
}

func resolvePredictionConfig(opts *options) (config.PredictionConfig, error) {
	if opts.baseURL != "" {
		return config.PredictionConfig{BaseURL: opts.baseURL}, nil
	}
	cfg, err := config.LoadConfig(opts.configDir)
	if err != nil {
		return config.PredictionConfig{}, err
	}
	return cfg.Prediction, nil
}

// fillForm applies, in order, defaults, the YAML file and explicitly set
// flags, each through FormState.Set.
func fillForm(cmd *cobra.Command, opts *options) (*service.FormState, error) {
	form := service.NewFormState()

	if opts.file != "" {
		values, err := readValuesFile(opts.file)
		if err != nil {
			return nil, err
		}
		for _, spec := range model.FieldSpecs {
			v, _ := values.Get(spec.Field)
			form.Set(spec.Field, v)
		}
	}

	for _, ff := range fieldFlags {
		if !cmd.Flags().Changed(ff.name) {
			continue
		}
		v, err := cmd.Flags().GetFloat64(ff.name)
		if err != nil {
			return nil, err
		}
		if err := form.Set(ff.field, v); err != nil {
			return nil, err
		}
	}
	return form, nil
}

// readValuesFile decodes form values; keys missing from the file keep their
// defaults.
func readValuesFile(path string) (model.FormValues, error) {
	values := model.DefaultFormValues()
	data, err := os.ReadFile(path)
	if err != nil {
		return values, err
	}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return values, fmt.Errorf("parse %s: %w", path, err)
	}
	return values, nil
}

func printFieldErrors(w io.Writer, form *service.FormState) {
	for _, spec := range model.FieldSpecs {
		if verr := form.FieldError(spec.Field); verr != nil {
			fmt.Fprintf(w, "%s: %s\n", spec.Label, verr.Message)
		}
	}
}

func printResult(w io.Writer, view service.ResultView) {
	if view.Empty {
		fmt.Fprintln(w, view.EmptyTitle)
		fmt.Fprintln(w, view.EmptyGuidance)
		return
	}
	fmt.Fprintf(w, "Predicted Grade: %s\n", view.PredictedLabel)
	fmt.Fprintln(w, view.Message)
	for _, card := range view.Cards {
		fmt.Fprintf(w, "  * %s\n", card.Text)
	}
}
