package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// Decode fills out from input and validates it.
//
// Every exported field of out that has a `mapstructure` (or `json`) name is
// required: a missing key, a null value or a value of the wrong primitive
// type is reported as a field error. Keys that out does not know are ignored.
// Once the shape is right, out.Validate() applies the tag rules.
//
// Integer fields accept Go integers and integral float64 values such as 42.0.
// Input read by DecodeJSONObject or DecodeJSONArray is stricter: numbers stay
// json.Number, so JSON 1.0 or 1e3 is rejected for an integer field.
//
// out must be a non-nil pointer to a struct.
func Decode(input map[string]any, out Validatable) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("validation: decode target must be a non-nil pointer to a struct, got %T", out)
	}

	elem := rv.Elem()
	t := elem.Type()

	var problems CustomValidationErrors
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		key := fieldKey(sf)
		if key == "" {
			continue
		}

		raw, ok := input[key]
		switch {
		case !ok:
			problems = append(problems, CustomValidationError{Field: key, Message: "is required"})
		case raw == nil:
			problems = append(problems, CustomValidationError{Field: key, Message: "must not be null"})
		default:
			if err := decodeValue(raw, elem.Field(i).Addr().Interface()); err != nil {
				problems = append(problems, CustomValidationError{
					Field:   key,
					Message: "must be a valid " + kindName(sf.Type),
				})
			}
		}
	}

	if len(problems) > 0 {
		return newError(extractFieldErrors(problems))
	}

	if err := out.Validate(); err != nil {
		var verr *Error
		if errors.As(err, &verr) {
			return verr
		}
		return newError(extractFieldErrors(err))
	}

	return nil
}

// DecodeJSONObject reads one JSON object from r.
//
// Numbers are kept as json.Number so integer fields are checked exactly.
// An empty body is treated as an empty object.
func DecodeJSONObject(r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var input map[string]any
	if err := dec.Decode(&input); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}

		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, newError(extractFieldErrors(CustomValidationErrors{
				{Message: "body must be a JSON object"},
			}))
		}
		return nil, fmt.Errorf("malformed JSON: %w", err)
	}

	if err := expectEOF(dec); err != nil {
		return nil, err
	}

	if input == nil {
		return map[string]any{}, nil
	}

	return input, nil
}

// DecodeJSONArray reads a JSON array of objects from r.
//
// An element that is not an object fails with its index as the field path.
func DecodeJSONArray(r io.Reader) ([]map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var items []any
	if err := dec.Decode(&items); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, newError(extractFieldErrors(CustomValidationErrors{
				{Message: "body must be a JSON array"},
			}))
		}
		return nil, fmt.Errorf("malformed JSON: %w", err)
	}

	if err := expectEOF(dec); err != nil {
		return nil, err
	}

	return Objects(items)
}

// Objects checks that every item is a JSON object and returns them typed.
//
// The first item that is not an object fails with its index as the field path.
func Objects(items []any) ([]map[string]any, error) {
	records := make([]map[string]any, 0, len(items))
	for i, item := range items {
		record, ok := item.(map[string]any)
		if !ok {
			return nil, newError(extractFieldErrors(CustomValidationErrors{
				{Field: fmt.Sprintf("[%d]", i), Message: "must be an object"},
			}))
		}
		records = append(records, record)
	}

	return records, nil
}

// expectEOF fails when anything but whitespace follows the first JSON value.
func expectEOF(dec *json.Decoder) error {
	var extra json.RawMessage
	err := dec.Decode(&extra)
	switch {
	case errors.Is(err, io.EOF):
		return nil
	case err != nil:
		return fmt.Errorf("malformed JSON: %w", err)
	default:
		return errors.New("malformed JSON: unexpected data after top-level value")
	}
}

func fieldKey(sf reflect.StructField) string {
	for _, tag := range []string{"mapstructure", "json"} {
		name := strings.SplitN(sf.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return ""
}

func decodeValue(raw any, target any) error {
	decoder, err := mapstructure.NewDecoder(
		&mapstructure.DecoderConfig{
			DecodeHook: strictTypesHook,
			Result:     target,
		},
	)
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

// strictTypesHook closes the gaps mapstructure leaves open even without weak
// typing: floats with a fraction and booleans decode into integers, and a
// json.Number decodes into a string.
func strictTypesHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		switch v := data.(type) {
		case json.Number:
			if _, err := v.Int64(); err != nil {
				return nil, fmt.Errorf("%q is not an integer", v.String())
			}
		case float64:
			if !isIntegral(v) {
				return nil, fmt.Errorf("%v is not an integer", v)
			}
		case float32:
			if !isIntegral(float64(v)) {
				return nil, fmt.Errorf("%v is not an integer", v)
			}
		case uint64:
			if signed(to) && v > math.MaxInt {
				return nil, fmt.Errorf("%d overflows int", v)
			}
		case uint:
			if signed(to) && uint64(v) > math.MaxInt {
				return nil, fmt.Errorf("%d overflows int", v)
			}
		case bool:
			return nil, fmt.Errorf("boolean is not an integer")
		}
	case reflect.String:
		if from == reflect.TypeOf(json.Number("")) {
			return nil, fmt.Errorf("number is not a string")
		}
	}

	return data, nil
}

func signed(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isIntegral(f float64) bool {
	// float64(math.MaxInt64) rounds up to 2^63, which no int64 can hold.
	return f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64
}

func kindName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "list"
	default:
		return "object"
	}
}
