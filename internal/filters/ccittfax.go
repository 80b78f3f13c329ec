package filters

import "fmt"

// CCITTFax rejects Group 3/4 fax data. Returning the payload unchanged
// would hand bi-level image bits to callers expecting decoded bytes, so
// the filter fails instead and the caller decides whether to skip the
// stream.
func CCITTFax(data []byte, params Params) ([]byte, error) {
	k := getIntParam(params, "K", 0)
	columns := getIntParam(params, "Columns", 1728)
	return nil, fmt.Errorf("%s (K=%d, Columns=%d) is not implemented: %w", CCITTFaxDecode, k, columns, ErrUnsupportedFilter)
}
