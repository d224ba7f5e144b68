package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/alecthomas/repr"
	"github.com/ztrue/tracerr"
	"gopkg.in/yaml.v2"

	"github.com/pontaoski/leanparse/ast"
)

// fileRecord is the json and yaml shape of one parsed file.
type fileRecord struct {
	Path  string      `json:"path" yaml:"path"`
	Tree  *ast.Record `json:"tree,omitempty" yaml:"tree,omitempty"`
	Error string      `json:"error,omitempty" yaml:"error,omitempty"`
}

func newFileRecord(r parseResult) fileRecord {
	rec := fileRecord{Path: r.Path}
	if r.Err != nil {
		rec.Error = tracerr.Unwrap(r.Err).Error()
		return rec
	}
	rec.Tree = ast.Encode(r.File)
	return rec
}

// writeResults prints parsed trees in the given format. json produces one
// document per line and yaml separates documents with ---. Failed files
// only show up in the json and yaml output, as an error field.
func writeResults(w io.Writer, format string, results []parseResult) error {
	written := 0
	for _, r := range results {
		if r.Err != nil && (format == "repr" || format == "lean") {
			continue
		}
		written++

		switch format {
		case "repr":
			fmt.Fprintf(w, "-- %s\n", r.Path)
			fmt.Fprintln(w, repr.String(r.File, repr.Indent("  "), repr.OmitEmpty(true)))
		case "lean":
			fmt.Fprintf(w, "-- %s\n", r.Path)
			fmt.Fprint(w, ast.Format(r.File))
		case "json":
			data, err := json.Marshal(newFileRecord(r))
			if err != nil {
				return tracerr.Wrap(err)
			}
			if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
				return tracerr.Wrap(err)
			}
		case "yaml":
			data, err := yaml.Marshal(newFileRecord(r))
			if err != nil {
				return tracerr.Wrap(err)
			}
			if written > 1 {
				data = append([]byte("---\n"), data...)
			}
			if _, err := w.Write(data); err != nil {
				return tracerr.Wrap(err)
			}
		default:
			return tracerr.Errorf("unknown format %q", format)
		}
	}
	return nil
}

// reportError prints a failed parse. With trace the wrapped stack is shown
// alongside the offending source lines.
func reportError(w io.Writer, r parseResult, trace bool) {
	if trace {
		tracerr.PrintSourceColor(r.Err)
		return
	}
	fmt.Fprintf(w, "%s: %v\n", r.Path, tracerr.Unwrap(r.Err))
}
