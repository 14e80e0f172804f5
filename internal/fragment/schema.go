package fragment

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	oerrors "github.com/tailcfg/cli/internal/errors"
)

//go:embed schema/fragment.cue
var schemaCUE []byte

// fragmentDef is the path of the fragment definition inside the embedded schema.
const fragmentDef = "#Fragment"

// Schema validates fragment documents against the embedded CUE definition.
type Schema struct {
	ctx *cue.Context
	def cue.Value
}

// NewSchema compiles the embedded fragment schema in ctx.
// A nil ctx creates a fresh CUE context.
func NewSchema(ctx *cue.Context) (*Schema, error) {
	if ctx == nil {
		ctx = cuecontext.New()
	}

	schema := ctx.CompileBytes(schemaCUE, cue.Filename("fragment.cue"))
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling fragment schema: %w", schema.Err())
	}

	def := schema.LookupPath(cue.ParsePath(fragmentDef))
	if !def.Exists() {
		return nil, fmt.Errorf("fragment schema has no %s definition", fragmentDef)
	}

	return &Schema{ctx: ctx, def: def}, nil
}

// Context returns the CUE context the schema was compiled in.
func (s *Schema) Context() *cue.Context {
	return s.ctx
}

// Check unifies value with the fragment definition and requires the result to
// be concrete. Violations are reported as MalformedFragment errors located at name.
func (s *Schema) Check(name string, value cue.Value) (cue.Value, error) {
	unified := s.def.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return cue.Value{}, malformedFromCUE(name, err)
	}
	return unified, nil
}

// malformedFromCUE converts CUE evaluation errors into a MalformedFragment
// detail error, keeping the path of the first error and the full CUE report.
func malformedFromCUE(name string, err error) error {
	var field string
	if errs := cueerrors.Errors(err); len(errs) > 0 {
		field = fieldPath(errs[0].Path())
	}

	details := strings.TrimSpace(cueerrors.Details(err, nil))

	return &oerrors.DetailError{
		Type:     "malformed fragment",
		Message:  details,
		Location: name,
		Field:    field,
		Hint:     "Fragments accept mode, prefix, separator, darkMode, important, content, theme, plugins and safelist.",
		Cause:    oerrors.ErrMalformedFragment,
	}
}

// fieldPath joins a CUE error path into a fragment field, dropping the
// definition selectors the document was unified under.
func fieldPath(path []string) string {
	for len(path) > 0 && strings.HasPrefix(path[0], "#") {
		path = path[1:]
	}
	return strings.Join(path, ".")
}
