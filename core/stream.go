package core

import (
	"fmt"

	"github.com/sliderx/slidepdf/internal/filters"
)

// NewStream creates an unfiltered stream. The writer fills in /Length.
func NewStream(dict Dict, data []byte) *Stream {
	if dict == nil {
		dict = make(Dict)
	}
	return &Stream{Dict: dict, Data: data}
}

// NewFlateStream compresses data and returns a stream carrying the
// FlateDecode filter.
func NewFlateStream(dict Dict, data []byte) (*Stream, error) {
	encoded, err := filters.FlateEncode(data)
	if err != nil {
		return nil, fmt.Errorf("flate encode: %w", err)
	}

	d := make(Dict)
	for k, v := range dict {
		d[k] = v
	}
	d["Filter"] = Name("FlateDecode")

	return &Stream{Dict: d, Data: encoded}, nil
}

// Decode decodes the stream data according to the Filter(s) specified in the
// stream dictionary, with any matching DecodeParms. Only FlateDecode is
// supported, alone or in a chain.
func (s *Stream) Decode() ([]byte, error) {
	filterObj := s.Dict.Get("Filter")
	if filterObj == nil {
		// No filter - return raw data
		return s.Data, nil
	}

	// Handle single filter
	if filterName, ok := filterObj.(Name); ok {
		return decodeWithFilter(s.Data, string(filterName), decodeParams(s.Dict.Get("DecodeParms")))
	}

	// Handle filter array (chain of filters)
	if filterArray, ok := filterObj.(Array); ok {
		parms, _ := s.Dict.GetArray("DecodeParms")
		data := s.Data

		for i, filter := range filterArray {
			filterName, ok := filter.(Name)
			if !ok {
				return nil, fmt.Errorf("filter %d is not a name: %T", i, filter)
			}

			var err error
			data, err = decodeWithFilter(data, string(filterName), decodeParams(parms.Get(i)))
			if err != nil {
				return nil, fmt.Errorf("filter %d (%s) failed: %w", i, filterName, err)
			}
		}

		return data, nil
	}

	return nil, fmt.Errorf("invalid Filter type: %T", filterObj)
}

// decodeWithFilter applies a single decompression filter to data.
func decodeWithFilter(data []byte, filterName string, params filters.Params) ([]byte, error) {
	switch filterName {
	case "FlateDecode", "Fl":
		return filters.FlateDecode(data, params)
	default:
		return nil, fmt.Errorf("unsupported filter: %s", filterName)
	}
}

// decodeParams reads the predictor entries of a DecodeParms dictionary.
// Anything else, including null, means no parameters.
func decodeParams(obj Object) filters.Params {
	d, ok := obj.(Dict)
	if !ok {
		return filters.Params{}
	}
	get := func(key string) int {
		v, _ := d.GetInt(key)
		return int(v)
	}
	return filters.Params{
		Predictor:        get("Predictor"),
		Colors:           get("Colors"),
		BitsPerComponent: get("BitsPerComponent"),
		Columns:          get("Columns"),
	}
}
