package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/keypoint-cli/keypoint/color"
	"github.com/keypoint-cli/keypoint/constant"
	"github.com/keypoint-cli/keypoint/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field is one registered setting with its factory value.
type Field struct {
	Key         string
	Value       any
	Description string

	// Options lists the accepted values of enumerated fields.
	Options []string
}

// Accepts reports whether v is a valid value. Fields without options accept anything.
func (f *Field) Accepts(v string) bool {
	return len(f.Options) == 0 || lo.Contains(f.Options, v)
}

// Parse converts command line input into a value of the field's type.
func (f *Field) Parse(raw []string) (any, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("no value for %s", f.Key)
	}

	if _, ok := f.Value.([]string); ok {
		return raw, nil
	}

	v := raw[0]
	if !f.Accepts(v) {
		return nil, fmt.Errorf("invalid value %s for %s, accepted: %s", v, f.Key, strings.Join(f.Options, ", "))
	}

	var (
		parsed any
		err    error
	)
	switch f.Value.(type) {
	case string:
		parsed = v
	case bool:
		parsed, err = strconv.ParseBool(v)
	case int:
		parsed, err = strconv.Atoi(v)
	case float64:
		parsed, err = strconv.ParseFloat(v, 64)
	default:
		return nil, fmt.Errorf("%s can not be set from the command line", f.Key)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q for %s", f.Type(), v, f.Key)
	}
	return parsed, nil
}

// Type names the Go type of the field.
func (f *Field) Type() string {
	if f.Value == nil {
		return "unknown"
	}
	return reflect.TypeOf(f.Value).String()
}

// Env is the environment variable overriding the field.
func (f *Field) Env() string {
	return strings.ToUpper(constant.Keypoint + "_" + EnvKeyReplacer.Replace(f.Key))
}

// Pretty renders the field for config info.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string   `json:"key"`
		Value       any      `json:"value"`
		Default     any      `json:"default"`
		Description string   `json:"description"`
		Type        string   `json:"type"`
		Env         string   `json:"env"`
		Options     []string `json:"options,omitempty"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.Type(),
		Env:         f.Env(),
		Options:     f.Options,
	})
}

// Highlight colors a setting value by its kind.
func Highlight(v any) string {
	switch value := v.(type) {
	case bool:
		return style.Fg(lo.Ternary(value, color.Green, color.Red))(strconv.FormatBool(value))
	case string:
		if value == "" {
			return style.Faint(`""`)
		}
		return style.Fg(color.Yellow)(value)
	default:
		return fmt.Sprint(value)
	}
}

var prettyTemplate = lo.Must(template.New("field").Funcs(template.FuncMap{
	"faint":   style.Faint,
	"label":   style.Fg(color.Blue),
	"name":    style.Fg(color.Purple),
	"current": func(k string) string { return Highlight(viper.Get(k)) },
	"hl":      Highlight,
	"join":    strings.Join,
}).Parse(`{{ name .Key }}
{{ faint .Description }}
  {{ label "current" }}  {{ current .Key }}
  {{ label "default" }}  {{ hl .Value }}
  {{ label "type" }}     {{ .Type }}
  {{ label "env" }}      {{ .Env }}{{ if .Options }}
  {{ label "options" }}  {{ join .Options ", " }}{{ end }}`))
