// Package schema validates raw project documents against an embedded CUE
// schema before the model is constructed from them. Validation produces a
// complete list of user-facing messages, never a panic and never fail-fast:
// a document from an old editor version should report everything wrong with
// it at once.
package schema

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed schema.cue
var schemaSource string

var (
	schemaOnce  sync.Once
	schemaValue cue.Value
)

// compiledSchema compiles the embedded schema once. The schema is trusted
// input; a compile failure is a build defect surfaced on first use.
func compiledSchema() cue.Value {
	schemaOnce.Do(func() {
		ctx := cuecontext.New()
		schemaValue = ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	})
	return schemaValue
}

// Issue is one schema violation, located by its CUE path within the
// document.
type Issue struct {
	Path    string
	Message string
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return fmt.Sprintf("%s: %s", i.Path, i.Message)
}

// Validate checks document bytes against the project schema. A nil slice
// and nil error mean the document is well-formed. A non-nil error means the
// bytes are not JSON at all; schema violations come back as issues.
func Validate(data []byte) ([]Issue, error) {
	schema := compiledSchema()
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile embedded schema: %w", err)
	}

	expr, err := cuejson.Extract("project.json", data)
	if err != nil {
		return nil, fmt.Errorf("parse project document: %w", err)
	}

	ctx := schema.Context()
	doc := ctx.BuildExpr(expr)
	if err := doc.Err(); err != nil {
		return nil, fmt.Errorf("build project document: %w", err)
	}

	unified := schema.Unify(doc)
	err = unified.Validate(cue.Concrete(true))
	if err == nil {
		return nil, nil
	}

	var issues []Issue
	for _, e := range cueerrors.Errors(err) {
		issues = append(issues, Issue{
			Path:    strings.Join(cueerrors.Path(e), "."),
			Message: e.Error(),
		})
	}
	return issues, nil
}
