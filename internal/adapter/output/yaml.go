package output

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats events as a stream of YAML documents.
type YAMLFormatter struct{}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

// Format writes the event as one YAML document.
func (f *YAMLFormatter) Format(w io.Writer, e Event) error {
	if _, err := io.WriteString(w, "---\n"); err != nil {
		return err
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(e); err != nil {
		return err
	}
	return encoder.Close()
}
