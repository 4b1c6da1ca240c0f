package catalog

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"
)

// DefaultModel is used for agents whose frontmatter has no usable model
const DefaultModel = "sonnet"

// CommandPrefix is prepended to the file-derived name of every command
const CommandPrefix = "/"

// Frontmatter keys read by the normalizers
const (
	fieldName         = "name"
	fieldDescription  = "description"
	fieldModel        = "model"
	fieldTools        = "tools"
	fieldAllowedTools = "allowed-tools"
)

// NormalizeAgent maps parsed frontmatter fields onto an AgentEntry.
// It never fails: missing or mistyped fields fall back to their defaults.
func NormalizeAgent(filename string, fields map[string]any, raw string) AgentEntry {
	name, ok := fields[fieldName].(string)
	if !ok || strings.TrimSpace(name) == "" {
		name = baseName(filename)
	}

	model := DefaultModel
	if v := fields[fieldModel]; isScalar(v) {
		if s := stringify(v); s != "" {
			model = s
		}
	}

	return AgentEntry{
		Name:        name,
		Description: stringify(fields[fieldDescription]),
		Model:       model,
		Tools:       stringSequence(fields[fieldTools]),
		Raw:         raw,
	}
}

// NormalizeCommand maps parsed frontmatter fields onto a CommandEntry.
// The name always comes from the filename; a `name` field is ignored.
func NormalizeCommand(filename string, fields map[string]any, raw string) CommandEntry {
	return CommandEntry{
		Name:         CommandPrefix + baseName(filename),
		Description:  stringify(fields[fieldDescription]),
		AllowedTools: stringSequence(fields[fieldAllowedTools]),
		Raw:          raw,
	}
}

// baseName strips the extension from filename
func baseName(filename string) string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	if name == "" {
		return filename
	}
	return name
}

// stringSequence converts a YAML sequence into strings, preserving order.
// Anything that is not a sequence, including a bare string, yields an empty slice.
func stringSequence(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}

	result := make([]string, 0, len(items))
	for _, item := range items {
		result = append(result, stringify(item))
	}
	return result
}

// stringify converts any decoded YAML value to a string. nil becomes "".
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, stringify(item))
		}
		return strings.Join(parts, ",")
	case map[any]any, map[string]any:
		return fmt.Sprint(t)
	}

	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprint(v)
}

func isScalar(v any) bool {
	switch v.(type) {
	case nil, []any, map[any]any, map[string]any:
		return false
	default:
		return true
	}
}
