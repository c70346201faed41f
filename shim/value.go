package shim

import "github.com/cgnl/plex-postgresql/internal/accessor"

// ValueType implements value_type() over a handle returned by
// column_value. A nil handle, or one that never came from this core at
// all, is rejected rather than dereferenced — see accessor.IsSynthetic.
// A handle whose ring slot has since been reissued still passes that
// check and reads the slot's current value.
func ValueType(v *accessor.ValueHandle) accessor.TypeCode {
	if !accessor.IsSynthetic(v) {
		return accessor.TypeNull
	}
	return v.TypeCode()
}

// ValueInt implements value_int/value_int64.
func ValueInt(v *accessor.ValueHandle) int64 {
	if !accessor.IsSynthetic(v) {
		return 0
	}
	return v.Int()
}

// ValueInt64 implements value_int64.
func ValueInt64(v *accessor.ValueHandle) int64 {
	return ValueInt(v)
}

// ValueDouble implements value_double.
func ValueDouble(v *accessor.ValueHandle) float64 {
	if !accessor.IsSynthetic(v) {
		return 0
	}
	return v.Double()
}

// ValueText implements value_text.
func ValueText(v *accessor.ValueHandle) string {
	if !accessor.IsSynthetic(v) {
		return ""
	}
	text, isNull := v.Text()
	if isNull {
		return ""
	}
	return text
}

// ValueBlob implements value_blob.
func ValueBlob(v *accessor.ValueHandle) []byte {
	if !accessor.IsSynthetic(v) {
		return nil
	}
	return v.Blob()
}

// ValueBytes implements value_bytes.
func ValueBytes(v *accessor.ValueHandle) int {
	if !accessor.IsSynthetic(v) {
		return 0
	}
	return v.Bytes()
}
