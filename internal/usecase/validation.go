package usecase

import (
	"sort"
	"strings"
)

// ValidationErrors maps a field name to its first failure message.
// Handlers serialize it as a 422 body so forms can mark fields inline.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}
