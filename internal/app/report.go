package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// problemReport is the document written by -report.
type problemReport struct {
	Count int       `json:"count" yaml:"count"`
	Files []Problem `json:"files" yaml:"files"`
}

// writeReport stores problems as JSON when path ends in .json, YAML
// otherwise.
func writeReport(path string, problems []Problem) error {
	if problems == nil {
		problems = []Problem{}
	}
	rep := problemReport{Count: len(problems), Files: problems}
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(rep, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(rep)
	}
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// PrintProblems writes the end-of-run listing of files that produced no
// output.
func PrintProblems(w io.Writer, problems []Problem) {
	fmt.Fprintf(w, "Files with header issues (%d)\n", len(problems))
	for _, p := range problems {
		fmt.Fprintln(w, p.Source)
	}
}
