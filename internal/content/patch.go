package content

import "github.com/oapi-codegen/nullable"

// applyValue replaces dst when the patch carries a value.
func applyValue[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// applyNullable follows the three states of a nullable patch field: absent
// leaves dst alone, null clears it, a value replaces it.
func applyNullable[T any](dst **T, field nullable.Nullable[T]) {
	if !field.IsSpecified() {
		return
	}
	if field.IsNull() {
		*dst = nil
		return
	}
	v := field.MustGet()
	*dst = &v
}
