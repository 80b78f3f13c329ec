package core

import (
	"fmt"

	"github.com/tsawler/pdfcore/internal/filters"
)

// Filters returns the stream's filter names in application order
// together with their decode parameters. A single /Filter name and an
// array of names are both accepted. /DecodeParms may be an array with
// null slots or a single dictionary shared by every filter.
func (s *Stream) Filters() ([]string, []filters.Params, error) {
	var names []string
	switch f := s.Dict.Get("Filter").(type) {
	case nil, Null:
		return nil, nil, nil
	case Name:
		names = []string{string(f)}
	case Array:
		for i, obj := range f {
			name, ok := obj.(Name)
			if !ok {
				return nil, nil, fmt.Errorf("filter %d is not a name: %T", i, obj)
			}
			names = append(names, string(name))
		}
	default:
		return nil, nil, fmt.Errorf("invalid Filter type: %T", f)
	}

	paramsObj := s.Dict.Get("DecodeParms")
	if paramsObj == nil {
		paramsObj = s.Dict.Get("DP")
	}

	params := make([]filters.Params, len(names))
	switch p := paramsObj.(type) {
	case Dict:
		shared := dictToParams(p)
		for i := range params {
			params[i] = shared
		}
	case Array:
		for i := range names {
			if i < len(p) {
				if d, ok := p[i].(Dict); ok {
					params[i] = dictToParams(d)
				}
			}
		}
	}

	return names, params, nil
}

// Decode runs the raw payload through the stream's filter chain.
// Streams without a filter return Data unchanged.
func (s *Stream) Decode() ([]byte, error) {
	names, params, err := s.Filters()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return s.Data, nil
	}
	return filters.Decode(s.Data, names, params)
}

// dictToParams converts a decode parameter dictionary to filters.Params,
// translating PDF numbers and booleans to Go values.
func dictToParams(dict Dict) filters.Params {
	if dict == nil {
		return nil
	}

	params := make(filters.Params, len(dict))
	for k, v := range dict {
		switch obj := v.(type) {
		case Int:
			params[k] = int(obj)
		case Real:
			params[k] = float64(obj)
		case Bool:
			params[k] = bool(obj)
		case Name:
			params[k] = string(obj)
		case String:
			params[k] = string(obj)
		}
	}
	return params
}
