package domain

import (
	"fmt"
	"maps"
	"strings"
)

type Operation struct {
	Name      string
	Hash      string
	Variables map[string]any
}

// WithVariables returns a copy of the operation with vars merged over the defaults.
func (o Operation) WithVariables(vars map[string]any) Operation {
	merged := make(map[string]any, len(o.Variables)+len(vars))
	maps.Copy(merged, o.Variables)
	maps.Copy(merged, vars)
	o.Variables = merged
	return o
}

type OperationError struct {
	Operation string
	Messages  []string
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("gql operation %s failed: %s", e.Operation, strings.Join(e.Messages, "; "))
}
