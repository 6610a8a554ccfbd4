// Package contract holds the JSON Schemas that bound what this function
// accepts from the host and from the fetched backend.
package contract

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const baseURL = "https://discount-function.schemas.local/"

type Schema string

const (
	Configuration Schema = "configuration.schema.json"
	Request       Schema = "request.schema.json"
	Operations    Schema = "operations.schema.json"
)

var (
	once     sync.Once
	compiled map[Schema]*jsonschema.Schema
	errLoad  error
)

func load() {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020

	names := []Schema{Configuration, Request, Operations}
	for _, name := range names {
		data, err := schemaFS.ReadFile("schemas/" + string(name))
		if err != nil {
			errLoad = fmt.Errorf("read schema %s: %w", name, err)
			return
		}
		if err := c.AddResource(baseURL+string(name), bytes.NewReader(data)); err != nil {
			errLoad = fmt.Errorf("load schema %s: %w", name, err)
			return
		}
	}

	compiled = make(map[Schema]*jsonschema.Schema, len(names))
	for _, name := range names {
		s, err := c.Compile(baseURL + string(name))
		if err != nil {
			errLoad = fmt.Errorf("compile schema %s: %w", name, err)
			return
		}
		compiled[name] = s
	}
}

func schemaFor(name Schema) (*jsonschema.Schema, error) {
	once.Do(load)
	if errLoad != nil {
		return nil, errLoad
	}
	s, ok := compiled[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", name)
	}
	return s, nil
}

// Validate checks a raw JSON document against the named schema. Invalid JSON
// is reported as a validation failure.
func Validate(name Schema, raw []byte) error {
	s, err := schemaFor(name)
	if err != nil {
		return err
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return fmt.Errorf("invalid JSON: trailing data after document")
	}
	return s.Validate(v)
}
