package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/tailquest/tailquest/internal/progress"
)

// Export formats. YAML is handy for diffing snapshots; JSON matches the file
// store's document layout.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Export writes the user map to w in the given format.
func Export(w io.Writer, users map[string]progress.UserProgress, format string) error {
	switch format {
	case FormatJSON:
		contents, err := json.MarshalIndent(users, "", "  ")
		if err != nil {
			return fmt.Errorf("json.MarshalIndent() > %w", err)
		}
		contents = append(contents, '\n')
		if _, err := w.Write(contents); err != nil {
			return fmt.Errorf("w.Write() > %w", err)
		}
	case FormatYAML:
		if err := yaml.NewEncoder(w).Encode(users); err != nil {
			return fmt.Errorf("yaml.NewEncoder().Encode() > %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q, want %s or %s", format, FormatJSON, FormatYAML)
	}
	return nil
}
