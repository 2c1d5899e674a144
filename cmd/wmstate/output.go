// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type format string

const (
	formatYAML format = "yaml"
	formatJSON format = "json"
)

// printer serializes command results in the selected format.
type printer struct {
	w      io.Writer
	format format
}

func newPrinter(w io.Writer, f string) (*printer, error) {
	switch format(f) {
	case formatYAML, formatJSON:
		return &printer{w: w, format: format(f)}, nil
	}
	return nil, errors.Errorf("unsupported format %q (use yaml or json)", f)
}

// Print writes v.
func (p *printer) Print(v interface{}) error {
	if p.format == formatJSON {
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return errors.Wrap(enc.Encode(v), "json encode")
	}
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "yaml encode")
	}
	return enc.Close()
}

// Raw writes text unchanged.
func (p *printer) Raw(text string) error {
	_, err := io.WriteString(p.w, text)
	return err
}
