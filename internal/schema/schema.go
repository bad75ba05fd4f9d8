// Package schema validates scenario documents against an embedded CUE schema.
//
// The Go-side validator in internal/scenario checks referential rules
// (labels referenced by expect exist, observed vars are declared). The CUE
// schema is the declarative structural contract: field names, enums, and
// shape. `guardcheck validate` runs both.
package schema

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed scenario.cue
var scenarioCUE string

// ValidationError reports one schema violation with its CUE path.
type ValidationError struct {
	Path    string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// ValidateYAML decodes scenario YAML and validates it against the schema.
// Returns all violations found, not just the first.
func ValidateYAML(data []byte) []ValidationError {
	var doc any
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&doc); err != nil {
		return []ValidationError{{Message: fmt.Sprintf("failed to parse YAML: %v", err)}}
	}
	return Validate(doc)
}

// Validate unifies a decoded scenario document with the #Scenario definition
// and reports every violation.
func Validate(doc any) []ValidationError {
	ctx := cuecontext.New()

	schema := ctx.CompileString(scenarioCUE)
	if err := schema.Err(); err != nil {
		// The embedded schema is part of the binary; failing to compile it
		// is a programming error, not bad input.
		panic(fmt.Sprintf("embedded scenario schema does not compile: %v", err))
	}

	def := schema.LookupPath(cue.ParsePath("#Scenario"))
	if !def.Exists() {
		panic("embedded scenario schema has no #Scenario definition")
	}

	unified := def.Unify(ctx.Encode(doc))
	err := unified.Validate(cue.Final(), cue.Concrete(true))
	if err == nil {
		return nil
	}

	var out []ValidationError
	for _, e := range errors.Errors(err) {
		out = append(out, ValidationError{
			Path:    strings.Join(e.Path(), "."),
			Message: e.Error(),
		})
	}
	return out
}
