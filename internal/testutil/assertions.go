package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertParamCompiled checks the debug log for the observer line emitted
// before a parameter routine runs.
func AssertParamCompiled(t *testing.T, result *HarnessResult, element, param string) {
	t.Helper()

	line := "element=" + element + " parameter=" + param
	require.True(t,
		strings.Contains(result.LogOutput, line),
		"expected parameter %s.%s to be compiled, not found in logs", element, param,
	)
}
