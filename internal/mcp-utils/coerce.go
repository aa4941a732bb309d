// Package mcputils binds loosely typed MCP tool arguments to request structs.
package mcputils

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// ArgumentGetter is implemented by mcp.CallToolRequest.
type ArgumentGetter interface {
	GetArguments() map[string]any
}

// BindArguments decodes request arguments into target using json tags.
// Clients sometimes send every value as a string, so "3", "true" and
// `["a","b"]` are coerced into the field's type. Missing or non-object
// arguments leave target untouched.
func BindArguments[T any](request ArgumentGetter, target *T) error {
	raw := request.GetArguments()
	if raw == nil {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			jsonStringHook,
			mapstructure.StringToSliceHookFunc(","),
		),
		Result:  target,
		TagName: "json",
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

// jsonStringHook decodes string values that hold JSON for non-string
// fields. Anything that does not parse is passed through unchanged.
func jsonStringHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	// json.Number and other named string types come back through here.
	s := strings.TrimSpace(reflect.ValueOf(data).String())
	if s == "" {
		return data, nil
	}

	for to.Kind() == reflect.Pointer {
		to = to.Elem()
	}

	switch {
	case to.Kind() == reflect.Slice && strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]"):
		ptr := reflect.New(to)
		if err := json.Unmarshal([]byte(s), ptr.Interface()); err == nil {
			return ptr.Elem().Interface(), nil
		}
	case to.Kind() == reflect.Map && strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}"):
		var m map[string]any
		if err := json.Unmarshal([]byte(s), &m); err == nil {
			return m, nil
		}
	case to.Kind() == reflect.Bool && (s == "true" || s == "false"):
		return s == "true", nil
	case to.Kind() >= reflect.Int && to.Kind() <= reflect.Float64:
		var n json.Number
		if err := json.Unmarshal([]byte(s), &n); err == nil {
			return n, nil
		}
	}
	return data, nil
}
