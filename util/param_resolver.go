package util

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/oliveagle/jsonpath"
)

var tokenPattern = regexp.MustCompile(`{(.*?)}`)

// ResolveInputParams substitutes `{$.path}` tokens in node input params with
// values looked up from the flow data. Nested maps and lists are resolved
// recursively; non-string values pass through unchanged.
func ResolveInputParams(flowData map[string]any, inputParams map[string]any) map[string]any {
	output := make(map[string]any)
	resolveParams(flowData, inputParams, output)
	return output
}

func resolveParams(flowData map[string]any, params map[string]any, output map[string]any) {
	for k, v := range params {
		switch val := v.(type) {
		case map[string]any:
			out := make(map[string]any)
			output[k] = out
			resolveParams(flowData, val, out)
		case []any:
			output[k] = resolveList(flowData, val)
		case string:
			output[k] = resolveString(flowData, val)
		default:
			output[k] = v
		}
	}
}

func resolveList(flowData map[string]any, list []any) []any {
	var output []any
	for _, v := range list {
		switch val := v.(type) {
		case map[string]any:
			out := make(map[string]any)
			resolveParams(flowData, val, out)
			output = append(output, out)
		case []any:
			output = append(output, resolveList(flowData, val))
		case string:
			output = append(output, resolveString(flowData, val))
		default:
			output = append(output, v)
		}
	}
	return output
}

func resolveString(flowData map[string]any, s string) string {
	tokens := tokenPattern.FindAllString(s, -1)
	for _, token := range tokens {
		path := strings.TrimSuffix(strings.TrimPrefix(token, "{"), "}")
		if !strings.HasPrefix(path, "$") {
			continue
		}
		value, _ := jsonpath.JsonPathLookup(flowData, path)
		s = strings.ReplaceAll(s, token, fmt.Sprintf("%v", value))
	}
	return s
}
