/*
Copyright 2026 Alexandre Mahdhaoui

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"sigs.k8s.io/yaml"

	"github.com/alexandremahdhaoui/vsphere-inventory/internal/types"
)

// Format is a snapshot serialization format.
type Format string

const (
	JSONFormat Format = "json"
	YAMLFormat Format = "yaml"
)

var (
	ErrUnknownFormat = errors.New("unknown output format")

	errMarshal = errors.New("marshalling snapshot")
	errWrite   = errors.New("writing snapshot")
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{JSONFormat, YAMLFormat}
}

// ParseFormat validates s and returns the matching Format.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats() {
		if string(f) == s {
			return f, nil
		}
	}

	return "", errors.Join(ErrUnknownFormat, fmt.Errorf("got %q, want one of %v", s, Formats()))
}

// Render writes the snapshot to w in the given format.
func Render(w io.Writer, snapshot types.Snapshot, format Format) error {
	var (
		b   []byte
		err error
	)

	switch format {
	case JSONFormat:
		b, err = json.MarshalIndent(snapshot, "", "  ")
		b = append(b, '\n')
	case YAMLFormat:
		b, err = yaml.Marshal(snapshot)
	default:
		return errors.Join(ErrUnknownFormat, fmt.Errorf("got %q", format))
	}

	if err != nil {
		return errors.Join(err, errMarshal)
	}

	if _, err := w.Write(b); err != nil {
		return errors.Join(err, errWrite)
	}

	return nil
}
