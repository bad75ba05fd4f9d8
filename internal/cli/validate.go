package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/roach88/guard/internal/scenario"
	"github.com/roach88/guard/internal/schema"
)

// FileValidation holds validation results for one scenario file.
type FileValidation struct {
	Path   string   `json:"path"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenario.yaml|dir>...",
		Short: "Validate scenarios without running them",
		Long: `Validate scenario files against the CUE schema and the structural rules,
without executing anything.

Both checks run on every file: the CUE schema catches shape and enum
violations, the structural validator catches referential problems (expect
sections naming guards or vars that were never declared).`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	files, err := collectYAMLFiles(paths)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list scenario files", err)
	}
	if len(files) == 0 {
		return NewExitError(ExitCommandError, "no scenario files found")
	}

	invalid := 0
	validations := make([]FileValidation, 0, len(files))
	for _, path := range files {
		v := validateFile(path)
		if !v.Valid {
			invalid++
		}
		validations = append(validations, v)
	}

	if err := outputValidations(formatter, validations, invalid); err != nil {
		return err
	}
	if invalid > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d file(s) invalid", invalid, len(files)))
	}
	return nil
}

func validateFile(path string) FileValidation {
	v := FileValidation{Path: path, Valid: true}

	data, err := os.ReadFile(path)
	if err != nil {
		v.Valid = false
		v.Errors = append(v.Errors, err.Error())
		return v
	}

	for _, serr := range schema.ValidateYAML(data) {
		v.Valid = false
		v.Errors = append(v.Errors, "schema: "+serr.Error())
	}
	if _, err := scenario.Parse(data); err != nil {
		v.Valid = false
		v.Errors = append(v.Errors, err.Error())
	}
	return v
}

// collectYAMLFiles expands directories into their *.yaml contents, sorted.
func collectYAMLFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(path, "*.yaml"))
		if err != nil {
			return nil, err
		}
		sort.Strings(matches)
		files = append(files, matches...)
	}
	return files, nil
}

func outputValidations(f *OutputFormatter, validations []FileValidation, invalid int) error {
	if f.Format == "json" {
		status := "ok"
		if invalid > 0 {
			status = "error"
		}
		return f.JSON(status, validations, "")
	}

	for _, v := range validations {
		if v.Valid {
			f.Textf("OK   %s", v.Path)
			continue
		}
		f.Textf("FAIL %s", v.Path)
		for _, msg := range v.Errors {
			f.Textf("  - %s", msg)
		}
	}
	f.Textf("%d file(s), %d invalid", len(validations), invalid)
	return nil
}
