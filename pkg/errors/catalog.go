package errors

import "fmt"

// Catalog maps error codes to fmt-style message templates. It keeps the
// identity of an error (its code) apart from the text shown to clients.
type Catalog map[string]string

// Format renders the template registered for code with args. Unknown codes
// render as the code itself so a missing entry never hides the failure.
func (c Catalog) Format(code string, args ...any) string {
	tmpl, ok := c[code]
	if !ok {
		return code
	}
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}
