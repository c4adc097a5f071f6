package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"cosmonumero/internal/interpretation"
	"cosmonumero/internal/numerology"
)

type computeOptions struct {
	name      string
	birthDate string
	year      int
	asJSON    bool
	narrative bool
}

type computeOutput struct {
	FullName       string                    `json:"fullName"`
	BirthDate      string                    `json:"birthDate"`
	EvaluationYear int                       `json:"evaluationYear"`
	Result         numerology.Result         `json:"result"`
	Narrative      *interpretation.Narrative `json:"narrative,omitempty"`
}

func computeCmd() *cobra.Command {
	opts := &computeOptions{}
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute life path, destiny and personal year numbers",
		Example: `  numerology compute --name "Maria Silva" --birth-date 1990-05-15
  numerology compute --name "Maria Silva" --birth-date 1990-05-15 --year 2025 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.year == 0 {
				opts.year = time.Now().Year()
			}
			return runCompute(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "Full name")
	cmd.Flags().StringVarP(&opts.birthDate, "birth-date", "b", "", "Birth date (YYYY-MM-DD)")
	cmd.Flags().IntVarP(&opts.year, "year", "y", 0, "Evaluation year (default current year)")
	cmd.Flags().BoolVarP(&opts.asJSON, "json", "j", false, "Output as JSON")
	cmd.Flags().BoolVar(&opts.narrative, "narrative", false, "Include the fixed interpretation texts")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("birth-date")

	return cmd
}

func runCompute(out io.Writer, opts *computeOptions) error {
	birthDate, err := numerology.ParseBirthDate(opts.birthDate)
	if err != nil {
		return err
	}
	result, err := numerology.Compute(opts.name, birthDate, opts.year)
	if err != nil {
		return err
	}

	output := computeOutput{
		FullName:       opts.name,
		BirthDate:      birthDate.String(),
		EvaluationYear: opts.year,
		Result:         result,
	}
	if opts.narrative {
		n := interpretation.Fallback(result)
		output.Narrative = &n
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(output)
	}

	fmt.Fprintf(out, "%s (%s), %d\n", output.FullName, birthDate.Display(), output.EvaluationYear)
	fmt.Fprintf(out, "  Life path:     %d\n", result.LifePathNumber)
	fmt.Fprintf(out, "  Destiny:       %d\n", result.DestinyNumber)
	fmt.Fprintf(out, "  Personal year: %d\n", result.PersonalYearNumber)
	if output.Narrative != nil {
		fmt.Fprintf(out, "\n%s\n\n%s\n\n%s\n", output.Narrative.LifePathMeaning, output.Narrative.DestinyMeaning, output.Narrative.PersonalYearMeaning)
	}
	return nil
}
