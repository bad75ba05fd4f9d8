package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
name: lifo_two_guards
description: "Guards fire in reverse declaration order."
steps:
  - declare: { label: A, action: log }
  - declare: { label: B, action: log }
exit: normal
expect:
  teardown: [B, A]
  outcome: returned
`

func TestValidateYAML_ValidScenario(t *testing.T) {
	errs := ValidateYAML([]byte(validYAML))
	assert.Empty(t, errs)
}

func TestValidateYAML_ObserveRequiresVar(t *testing.T) {
	content := `
name: n
description: "d"
steps:
  - declare: { label: A, action: observe }
expect:
  teardown: [A]
`
	errs := ValidateYAML([]byte(content))
	assert.NotEmpty(t, errs, "observe without var must fail the schema")
}

func TestValidateYAML_RejectsUnknownField(t *testing.T) {
	content := `
name: n
description: "d"
steps:
  - declare: { label: A, action: log }
expect:
  teardown: [A]
bogus: true
`
	errs := ValidateYAML([]byte(content))
	assert.NotEmpty(t, errs, "unknown top-level field must fail the closed schema")
}

func TestValidateYAML_RejectsBadExitMode(t *testing.T) {
	content := `
name: n
description: "d"
exit: sideways
steps:
  - declare: { label: A, action: log }
expect:
  teardown: [A]
`
	errs := ValidateYAML([]byte(content))
	assert.NotEmpty(t, errs)
}

func TestValidateYAML_RejectsEmptySteps(t *testing.T) {
	content := `
name: n
description: "d"
steps: []
expect:
  teardown: []
`
	errs := ValidateYAML([]byte(content))
	assert.NotEmpty(t, errs, "steps must be non-empty")
}

func TestValidateYAML_RejectsMissingName(t *testing.T) {
	content := `
description: "d"
steps:
  - declare: { label: A, action: log }
expect:
  teardown: [A]
`
	errs := ValidateYAML([]byte(content))
	require.NotEmpty(t, errs)
}

func TestValidateYAML_MalformedYAML(t *testing.T) {
	errs := ValidateYAML([]byte("name: [broken"))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "failed to parse YAML")
}

func TestValidateYAML_StepCannotMixDeclareAndSet(t *testing.T) {
	content := `
name: n
description: "d"
vars: { x: "1" }
steps:
  - declare: { label: A, action: log }
    set: { var: x, value: "2" }
expect:
  teardown: [A]
`
	errs := ValidateYAML([]byte(content))
	assert.NotEmpty(t, errs)
}
