package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/conform/internal/presentation/tui"
	"github.com/aretw0/conform/pkg/adapters/memory"
	"github.com/aretw0/conform/pkg/registry"
	"github.com/aretw0/conform/pkg/schema"
	"github.com/aretw0/conform/pkg/schemadoc"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var checkCmd = &cobra.Command{
	Use:   "check --schema <file|name> <data-file|-> [data-file...]",
	Short: "Validate data files against a schema",
	Long: `Validates each JSON or YAML data file against a schema and prints a report.
Use "-" to read the data from standard input.

The schema is either a schema document on disk or the name of a stored schema.
The command exits with status 1 if any input does not conform.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringP("schema", "s", "", "Schema document path or stored schema name")
	checkCmd.Flags().String("store", "", "Read stored schemas from this directory instead of the configured store")
	checkCmd.Flags().StringP("format", "f", tui.FormatText, "Report format: text, json or markdown")
	_ = checkCmd.MarkFlagRequired("schema")
}

func runCheck(cmd *cobra.Command, args []string) error {
	ref, _ := cmd.Flags().GetString("schema")
	format, _ := cmd.Flags().GetString("format")

	s, label, err := resolveSchema(cmd, ref)
	if err != nil {
		return err
	}

	profile := termenv.Ascii
	if cmd.OutOrStdout() == os.Stdout {
		profile = stdoutProfile()
	}

	failed := 0
	for _, arg := range args {
		value, source, err := readData(cmd.InOrStdin(), arg)
		if err != nil {
			return err
		}
		res := schema.Validate(s, value)
		if !res.Success() {
			failed++
		}
		logger.Debug("Checked input", "source", source, "schema", label, "valid", res.Success())

		report := tui.Report{Source: source, Schema: label, Result: res}
		if err := tui.Write(cmd.OutOrStdout(), report, format, profile); err != nil {
			return err
		}
	}
	if failed > 0 {
		return errNotConform
	}
	return nil
}

func stdoutProfile() termenv.Profile {
	return tui.ProfileFor(os.Stdout)
}

// resolveSchema loads ref as a document on disk, falling back to a stored schema name.
func resolveSchema(cmd *cobra.Command, ref string) (schema.Schema, string, error) {
	if _, err := os.Stat(ref); err == nil {
		s, err := schemadoc.Load(ref)
		if err != nil {
			return nil, "", err
		}
		return s, ref, nil
	}
	if !registry.ValidName(ref) {
		return nil, "", fmt.Errorf("schema %q is neither a file nor a valid schema name", ref)
	}

	var reg *registry.Registry
	if dir, _ := cmd.Flags().GetString("store"); dir != "" {
		store, err := memory.LoadDir(dir)
		if err != nil {
			return nil, "", err
		}
		reg = registry.New(store)
	} else {
		r, closeStore, err := openRegistry(cmd.Context())
		defer closeStore()
		if err != nil {
			return nil, "", err
		}
		reg = r
	}

	s, err := reg.Get(cmd.Context(), ref)
	if err != nil {
		return nil, "", err
	}
	return s, ref, nil
}

// readData decodes a data file. JSON numbers keep their literal form; anything
// that is not JSON is read as YAML.
func readData(stdin io.Reader, arg string) (any, string, error) {
	var (
		data   []byte
		err    error
		source = arg
	)
	if arg == "-" {
		source = "<stdin>"
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(arg)
	}
	if err != nil {
		return nil, source, fmt.Errorf("failed to read %s: %w", source, err)
	}

	value, err := decodeData(data, strings.ToLower(filepath.Ext(arg)))
	if err != nil {
		return nil, source, fmt.Errorf("failed to parse %s: %w", source, err)
	}
	return value, source, nil
}

func decodeData(data []byte, ext string) (any, error) {
	if ext == ".json" || (ext != ".yaml" && ext != ".yml" && json.Valid(data)) {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
			return nil, errors.New("unexpected data after the JSON value")
		}
		return value, nil
	}

	var value any
	if err := yaml.Unmarshal(data, &value); err != nil {
		return nil, err
	}
	return value, nil
}
