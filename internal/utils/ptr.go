package utils

// Ptr returns a pointer to v. Useful for the option structs in the Copilot
// SDK, which take *bool and *string fields.
func Ptr[T any](v T) *T {
	return &v
}
