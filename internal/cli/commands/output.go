package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/swiftstay/admin/internal/api"
)

// Output formats
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// SessionExpiredMessage is printed when the backend rejected the stored credentials
const SessionExpiredMessage = "Session expired. Please run 'swiftstay-admin login'."

// table is a header plus rows for the table output format
type table struct {
	header []string
	rows   [][]string
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

// emit writes v in the selected format. Table output uses t, or falls back to JSON when t is nil.
func (e *Env) emit(v any, t *table) error {
	switch e.Output {
	case OutputJSON:
		return writeJSON(e.Out, v)
	case OutputYAML:
		return writeYAML(e.Out, v)
	}

	if t == nil {
		return writeJSON(e.Out, v)
	}
	if len(t.rows) == 0 {
		fmt.Fprintln(e.Out, "No results.")
		return nil
	}

	w := tabwriter.NewWriter(e.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(t.header, "\t"))
	underline := make([]string, len(t.header))
	for i, h := range t.header {
		underline[i] = strings.Repeat("─", len([]rune(h)))
	}
	fmt.Fprintln(w, strings.Join(underline, "\t"))
	for _, row := range t.rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

// done prints a confirmation line in table mode, or the envelope otherwise
func (e *Env) done(env *api.RawEnvelope, fallback string) error {
	if e.Output != OutputTable {
		return e.emit(env, nil)
	}
	msg := env.Message
	if msg == "" {
		msg = fallback
	}
	fmt.Fprintf(e.Out, "✓ %s\n", msg)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeYAML goes through JSON first so that field names match the json tags
func writeYAML(w io.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return enc.Close()
}

// unwrap turns a decoded envelope into its data, reporting success=false as a failure
func unwrap[T any](env *api.Envelope[T], err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	if err := env.Err(); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, fmt.Errorf("%w: response has no data", api.ErrMalformedResponse)
	}
	return env.Data, nil
}

// succeeded is unwrap for calls whose data is not interesting
func succeeded(env *api.RawEnvelope, err error) (*api.RawEnvelope, error) {
	if err != nil {
		return nil, err
	}
	if err := env.Err(); err != nil {
		return nil, err
	}
	return env, nil
}

// FormatError renders err for the terminal
func FormatError(err error) string {
	if errors.Is(err, api.ErrSessionExpired) {
		return SessionExpiredMessage
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		var b strings.Builder
		b.WriteString("Error: " + apiErr.Error())
		for _, fe := range apiErr.ValidationErrors {
			fmt.Fprintf(&b, "\n  - %s: %s", fe.Field, fe.Message)
		}
		return b.String()
	}

	return "Error: " + err.Error()
}

// readPayload decodes a JSON or YAML file into v using v's json tags
func readPayload(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var generic any
		if err := yaml.Unmarshal(raw, &generic); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if raw, err = json.Marshal(generic); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// confirmDelete asks before deleting unless --yes was given
func (e *Env) confirmDelete(cmd *cobra.Command, what string) (bool, error) {
	yes, _ := cmd.Flags().GetBool("yes")
	if yes {
		return true, nil
	}

	ok, err := e.Confirm(fmt.Sprintf("Delete %s", what))
	if err != nil {
		return false, err
	}
	if !ok {
		fmt.Fprintln(e.Out, "Aborted.")
	}
	return ok, nil
}

func addYesFlag(cmd *cobra.Command) {
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}

func money(a api.Amount, currency string) string {
	if currency == "" {
		currency = "GHS"
	}
	return fmt.Sprintf("%s %.2f", currency, float64(a))
}

func count(c api.Count) string {
	return strconv.FormatInt(int64(c), 10)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
