package util

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// EnvVar describes one environment variable read by the tool.
type EnvVar struct {
	Name     string
	Default  string
	Required bool
	// Usage is a short description, taken from the `usage` tag.
	Usage string
}

// ----------------------------------------------------- ExpectedEnvs ----------------------------------------------- //

// ExpectedEnvs lists the environment variables of a caarlos0/env struct.
// It uses reflection to read the `env`, `envDefault` and `usage` tags of the
// struct fields.
func ExpectedEnvs[T any]() []EnvVar {
	out := make([]EnvVar, 0)

	rt := reflect.TypeFor[T]()
	for i := range rt.NumField() {
		field := rt.Field(i)

		val, ok := field.Tag.Lookup("env")
		if !ok {
			continue
		}

		substr := strings.Split(val, ",")
		if substr[0] == "" {
			continue
		}

		out = append(out, EnvVar{
			Name:     substr[0],
			Default:  field.Tag.Get("envDefault"),
			Required: slices.Contains(substr[1:], "required"),
			Usage:    field.Tag.Get("usage"),
		})
	}

	return out
}

// ----------------------------------------------------- FormatExpectedEnvList -------------------------------------- //

// FormatExpectedEnvList formats the environment variables of a struct, see
// ExpectedEnvs.
func FormatExpectedEnvList[T any]() string {
	return FormatEnvList(ExpectedEnvs[T]())
}

// FormatEnvList renders vars one per line, required ones first, as
// "- NAME [Required|Optional] usage (default: x)".
func FormatEnvList(vars []EnvVar) string {
	observedMaxStrLen := 0
	for _, v := range vars {
		if len(v.Name) > observedMaxStrLen {
			observedMaxStrLen = len(v.Name)
		}
	}

	sorted := slices.Clone(vars)
	slices.SortStableFunc(sorted, func(a, b EnvVar) int {
		switch {
		case a.Required == b.Required:
			return 0
		case a.Required:
			return -1
		default:
			return 1
		}
	})

	var sb strings.Builder
	for _, v := range sorted {
		kind := "[Optional]"
		if v.Required {
			kind = "[Required]"
		}

		line := fmt.Sprintf("- %s %s%s", v.Name, fmtSpaces(v.Name, observedMaxStrLen), kind)
		if v.Usage != "" {
			line += " " + v.Usage
		}
		if v.Default != "" {
			line += fmt.Sprintf(" (default: %s)", v.Default)
		}

		sb.WriteString(line)
		sb.WriteString("\n")
	}

	return sb.String()
}

func fmtSpaces(s string, maxLen int) string {
	return strings.Repeat(" ", maxLen-len(s))
}
