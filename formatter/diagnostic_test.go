package formatter

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gnolang/ppl/internal/vet"
)

func TestFormatDiagnostics(t *testing.T) {
	t.Parallel()
	diags := []vet.Diagnostic{{
		Rule:     "distcheck",
		Category: vet.CategoryParameter,
		Position: token.Position{Filename: "model.go", Line: 5, Column: 12},
		Message:  "Flip probability 2 is outside [0, 1]",
	}}

	expected := `warning: distcheck(invalid-parameter)
 --> model.go:5:12
  = Flip probability 2 is outside [0, 1]

`
	assert.Equal(t, expected, GenerateFormattedDiagnostics(diags))
}
