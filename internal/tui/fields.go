package tui

import (
	"errors"
	"strconv"
	"strings"
)

var (
	errNotNumber = errors.New("must be a number")
	errNotWhole  = errors.New("must be a whole number")
	errNotList   = errors.New("must be numbers separated by commas")
	errNotYesNo  = errors.New("must be yes or no")
)

func textField[F any](label, placeholder string, get func(F) string, set func(*F, string)) Field[F] {
	return Field[F]{
		Label:       label,
		Placeholder: placeholder,
		Get:         get,
		Set: func(f *F, s string) error {
			set(f, s)
			return nil
		},
	}
}

// floatField is an optional number; a blank input clears it.
func floatField[F any](label, placeholder string, get func(F) *float64, set func(*F, *float64)) Field[F] {
	return Field[F]{
		Label:       label,
		Placeholder: placeholder,
		Limit:       12,
		Get:         func(f F) string { return formatFloat(get(f)) },
		Set: func(f *F, s string) error {
			if s == "" {
				set(f, nil)
				return nil
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return errNotNumber
			}
			set(f, &v)
			return nil
		},
	}
}

// numberField is a required number; a blank input is zero and left to
// validation.
func numberField[F any](label, placeholder string, get func(F) float64, set func(*F, float64)) Field[F] {
	return floatField(label, placeholder,
		func(f F) *float64 {
			v := get(f)
			if v == 0 {
				return nil
			}
			return &v
		},
		func(f *F, v *float64) {
			if v == nil {
				set(f, 0)
				return
			}
			set(f, *v)
		})
}

func intField[F any](label, placeholder string, get func(F) int, set func(*F, int)) Field[F] {
	return Field[F]{
		Label:       label,
		Placeholder: placeholder,
		Limit:       8,
		Get: func(f F) string {
			if v := get(f); v != 0 {
				return strconv.Itoa(v)
			}
			return ""
		},
		Set: func(f *F, s string) error {
			if s == "" {
				set(f, 0)
				return nil
			}
			v, err := strconv.Atoi(s)
			if err != nil {
				return errNotWhole
			}
			set(f, v)
			return nil
		},
	}
}

// listField edits a comma separated list of strings.
func listField[F any](label, placeholder string, get func(F) []string, set func(*F, []string)) Field[F] {
	return Field[F]{
		Label:       label,
		Placeholder: placeholder,
		Limit:       120,
		Get:         func(f F) string { return strings.Join(get(f), ",") },
		Set: func(f *F, s string) error {
			set(f, splitList(s))
			return nil
		},
	}
}

// daysField edits weekday numbers, 0 for Sunday.
func daysField[F any](label string, get func(F) []int, set func(*F, []int)) Field[F] {
	return Field[F]{
		Label:       label,
		Placeholder: "1,2,3,4,5",
		Limit:       20,
		Get: func(f F) string {
			days := get(f)
			parts := make([]string, len(days))
			for i, d := range days {
				parts[i] = strconv.Itoa(d)
			}
			return strings.Join(parts, ",")
		},
		Set: func(f *F, s string) error {
			items := splitList(s)
			days := make([]int, 0, len(items))
			for _, item := range items {
				d, err := strconv.Atoi(item)
				if err != nil {
					return errNotList
				}
				days = append(days, d)
			}
			set(f, days)
			return nil
		},
	}
}

func yesNoField[F any](label string, get func(F) bool, set func(*F, bool)) Field[F] {
	return Field[F]{
		Label:       label,
		Placeholder: "yes",
		Limit:       3,
		Get: func(f F) string {
			if get(f) {
				return "yes"
			}
			return "no"
		},
		Set: func(f *F, s string) error {
			switch strings.ToLower(s) {
			case "yes", "y", "":
				set(f, true)
			case "no", "n":
				set(f, false)
			default:
				return errNotYesNo
			}
			return nil
		},
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
