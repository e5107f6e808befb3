// Package form loads application form descriptors and the batch tracker
// workbook that drives multi-application runs.
package form

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/tlweave2/AI-Job-Application-Agent/internal/model"
)

// Load reads and validates a form descriptor from a JSON file.
func Load(path string) (*model.Form, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "form: open descriptor")
	}
	defer f.Close()

	form, err := Decode(f)
	if err != nil {
		return nil, eris.Wrapf(err, "form: %s", path)
	}
	return form, nil
}

// Decode parses a form descriptor and normalizes its fields. A descriptor
// with an empty field list decodes cleanly; planning over it yields an
// empty plan rather than an error.
func Decode(r io.Reader) (*model.Form, error) {
	var form model.Form
	if err := json.NewDecoder(r).Decode(&form); err != nil {
		return nil, eris.Wrap(err, "form: decode json")
	}
	if err := normalize(&form); err != nil {
		return nil, err
	}
	return &form, nil
}

// normalize trims identifying text, defaults missing kinds to text, and
// rejects descriptors that the pipeline cannot act on deterministically.
func normalize(form *model.Form) error {
	form.Company = strings.TrimSpace(form.Company)
	form.Role = strings.TrimSpace(form.Role)

	seen := make(map[string]int, len(form.Fields))
	for i := range form.Fields {
		fd := &form.Fields[i]
		fd.Selector = strings.TrimSpace(fd.Selector)
		fd.Label = strings.TrimSpace(fd.Label)

		if fd.Selector == "" {
			return eris.Errorf("form: field %d has no selector", i)
		}
		if prev, dup := seen[fd.Selector]; dup {
			return eris.Errorf("form: fields %d and %d share selector %q", prev, i, fd.Selector)
		}
		seen[fd.Selector] = i

		if fd.Kind == "" {
			fd.Kind = model.KindText
		}
		fd.Kind = model.InputKind(strings.ToLower(strings.TrimSpace(string(fd.Kind))))
		if !fd.Kind.Valid() {
			return eris.Errorf("form: field %q has unknown type %q", fd.Selector, fd.Kind)
		}

		for j, opt := range fd.Options {
			fd.Options[j] = strings.TrimSpace(opt)
		}
		if fd.HasOptions() && !fd.Kind.Bounded() {
			return eris.Errorf("form: field %q is %s but carries an option list", fd.Selector, fd.Kind)
		}
	}
	return nil
}
