package controller

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFS walks fsys and parses every JSON/YAML descriptor file. Files list
// controllers under a top-level "controllers" key. A nil fsys yields no
// descriptors.
func LoadFS(fsys fs.FS) ([]Descriptor, error) {
	if fsys == nil {
		return nil, nil
	}

	var out []Descriptor
	seen := make(map[string]string)

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDescriptorFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("controller: read %s: %w", path, err)
		}

		descs, err := ParseDescriptors(data, path)
		if err != nil {
			return err
		}
		for _, desc := range descs {
			key := desc.Key()
			if previous, dup := seen[key]; dup {
				return fmt.Errorf("controller: duplicate controller %q (files %s and %s)", key, previous, path)
			}
			seen[key] = path
			out = append(out, desc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

type descriptorFile struct {
	Controllers []Descriptor `json:"controllers" yaml:"controllers"`
}

// ParseDescriptors decodes one descriptor document. JSON is tried first, then
// YAML. Verbs are normalised and every descriptor is validated.
func ParseDescriptors(data []byte, source string) ([]Descriptor, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("controller: file %s is empty", source)
	}

	var doc descriptorFile
	if err := json.Unmarshal(data, &doc); err != nil {
		doc = descriptorFile{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("controller: parse %s: invalid JSON or YAML", source)
		}
	}

	for idx := range doc.Controllers {
		desc := &doc.Controllers[idx]
		for a := range desc.Actions {
			verb, err := ParseVerb(string(desc.Actions[a].Verb))
			if err != nil {
				return nil, fmt.Errorf("controller: %s: %s.%s: %w", source, desc.Name, desc.Actions[a].Name, err)
			}
			desc.Actions[a].Verb = verb
		}
		if err := desc.Validate(); err != nil {
			return nil, fmt.Errorf("%w (file %s)", err, source)
		}
	}
	return doc.Controllers, nil
}

// RegisterAll registers every descriptor, stopping at the first failure.
func (t *Tree) RegisterAll(descs ...Descriptor) error {
	for _, desc := range descs {
		if err := t.Register(desc); err != nil {
			return err
		}
	}
	return nil
}

func isDescriptorFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}
