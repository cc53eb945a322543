package app

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/JiscSD/ed318-validator/zone"

	"github.com/go-logfmt/logfmt"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	formatText   = "text"
	formatLogfmt = "logfmt"

	outputNone = "none"
	outputJSON = "json"
	outputYAML = "yaml"
)

// writeIssues prints one line per issue, e.g.
//
//	level=error path=features[0].properties.country kind=ConstraintViolation msg="..."
func writeIssues(w io.Writer, format, level string, issues []*zone.ValidationErrorDetail) error {
	switch format {
	case formatLogfmt:
		enc := logfmt.NewEncoder(w)
		for _, issue := range issues {
			err := enc.EncodeKeyvals(
				"level", level,
				"path", issue.Path.String(),
				"kind", issue.Kind.String(),
				"msg", issue.Message)
			if err != nil {
				return err
			}
			if err := enc.EndRecord(); err != nil {
				return err
			}
		}
	case formatText:
		for _, issue := range issues {
			if _, err := fmt.Fprintf(w, "%s: %s\n", level, issue); err != nil {
				return err
			}
		}
	default:
		return errors.Errorf("unknown format %q", format)
	}
	return nil
}

func writeDocument(w io.Writer, output string, doc zone.Object) error {
	var (
		blob []byte
		err  error
	)
	switch output {
	case outputNone:
		return nil
	case outputJSON:
		blob, err = json.MarshalIndent(doc, "", "  ")
		blob = append(blob, '\n')
	case outputYAML:
		blob, err = marshalYAML(doc)
	default:
		return errors.Errorf("unknown output %q", output)
	}
	if err != nil {
		return errors.Wrap(err, "cannot encode document")
	}
	_, err = w.Write(blob)
	return err
}

// marshalYAML renders the JSON encoding of v as block-style YAML so field
// names and omissions follow the MarshalJSON methods of the zone types.
func marshalYAML(v interface{}) ([]byte, error) {
	blob, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(blob, &node); err != nil {
		return nil, err
	}
	clearStyle(&node)
	return yaml.Marshal(&node)
}

func clearStyle(node *yaml.Node) {
	node.Style = 0
	for _, child := range node.Content {
		clearStyle(child)
	}
}
