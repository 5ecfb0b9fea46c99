// Package validation wraps go-playground/validator for apiwatch.
//
// Struct tag validation is used for file-loaded watch definitions; Var
// validates a single value against a tag and backs the hook's endpoint
// check.
//
//	type Watch struct {
//	    Endpoint string `validate:"required,url"`
//	    Method   string `validate:"omitempty,httpmethod"`
//	}
//	err := validation.Validate(w)
package validation
