package domain

import (
	"fmt"
	"strings"
)

// Operation identifies one of the canned cleaning transformations
type Operation string

const (
	OpRemoveMissing                 Operation = "remove-missing"
	OpHandleMissing                 Operation = "handle-missing"
	OpRemoveDuplicates              Operation = "remove-duplicates"
	OpHandleMissingRemoveDuplicates Operation = "handle-missing-remove-duplicates"
)

// Operations lists every operation in presentation order
var Operations = []Operation{
	OpRemoveMissing,
	OpHandleMissing,
	OpRemoveDuplicates,
	OpHandleMissingRemoveDuplicates,
}

var operationInfo = map[Operation]struct {
	label    string
	filename string
}{
	OpRemoveMissing:                 {"Remove Missing Values", "cleaned_no_missing.csv"},
	OpHandleMissing:                 {"Handle Missing Values", "cleaned_handled_missing.csv"},
	OpRemoveDuplicates:              {"Remove Duplicate Records", "cleaned_no_duplicates.csv"},
	OpHandleMissingRemoveDuplicates: {"Handle Missing + Remove Duplicates", "cleaned_handled_no_duplicates.csv"},
}

// ParseOperation resolves an operation name, case-insensitively.
// Underscores are accepted in place of dashes.
func ParseOperation(name string) (Operation, error) {
	op := Operation(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-"))
	if _, ok := operationInfo[op]; !ok {
		return "", fmt.Errorf("unknown operation %q", name)
	}
	return op, nil
}

// Valid reports whether op is a known operation
func (op Operation) Valid() bool {
	_, ok := operationInfo[op]
	return ok
}

// Label returns the human-readable name
func (op Operation) Label() string {
	return operationInfo[op].label
}

// ExportFilename returns the fixed download filename of the operation's result
func (op Operation) ExportFilename() string {
	return operationInfo[op].filename
}

// Export is a serialized cleaning result ready to hand to the user
type Export struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"-"`
}
