package main

import (
	"errors"
	"fmt"

	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a resume JSON file against the ResumeData schema",
	Long:  "Checks a ResumeData JSON file against the built-in schema, or any JSON file against a schema given with --schema.",
	RunE:  runValidate,
}

var (
	validateSchemaPath string
	validateJSONPath   string
)

func init() {
	validateCmd.Flags().StringVarP(&validateSchemaPath, "schema", "s", "", "Path to JSON Schema file (defaults to the built-in ResumeData schema)")
	validateCmd.Flags().StringVarP(&validateJSONPath, "json", "j", "", "Path to JSON file to validate (required)")

	if err := validateCmd.MarkFlagRequired("json"); err != nil {
		panic(fmt.Sprintf("failed to mark json flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	var err error
	if validateSchemaPath != "" {
		err = schemas.ValidateJSON(validateSchemaPath, validateJSONPath)
	} else {
		err = schemas.ValidateResumeDataFile(validateJSONPath)
	}

	var verr *schemas.ValidationError
	switch {
	case err == nil:
		fmt.Fprintln(cmd.OutOrStdout(), "Validation passed") //nolint:errcheck
		return nil
	case errors.As(err, &verr):
		observability.NewPrinter(cmd.ErrOrStderr()).PrintSchemaErrors(verr)
		return fmt.Errorf("validation failed with %d error(s)", len(verr.Errors))
	default:
		return err
	}
}
