// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/calcoloergosum/vocagen/color"
	"github.com/calcoloergosum/vocagen/constant"
	"github.com/calcoloergosum/vocagen/key"
	"github.com/calcoloergosum/vocagen/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string

	// Choices restricts string fields to a closed set. Empty means any value.
	Choices []string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Vocagen + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// Accepts reports whether v is a legal value for the field.
func (f *Field) Accepts(v any) error {
	if reflect.TypeOf(v) != reflect.TypeOf(f.Value) {
		return fmt.Errorf("%s: expected %s, got %T", f.Key, f.typeName(), v)
	}

	if s, ok := v.(string); ok && len(f.Choices) > 0 && !lo.Contains(f.Choices, s) {
		return fmt.Errorf("%s: %q is not one of %s", f.Key, s, strings.Join(f.Choices, ", "))
	}

	if n, ok := v.(int); ok && n < 0 {
		return fmt.Errorf("%s: must not be negative", f.Key)
	}

	return nil
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string   `json:"key"`
		Value       any      `json:"value"`
		Default     any      `json:"default"`
		Description string   `json:"description"`
		Type        string   `json:"type"`
		Choices     []string `json:"choices,omitempty"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
		Choices:     f.Choices,
	})
}

func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func register(k string, v any, desc string, choices ...string) {
	if _, exists := Default[k]; exists {
		panic("Duplicate config key: " + k)
	}

	Default[k] = Field{Key: k, Value: v, Description: desc, Choices: choices}
	EnvExposed = append(EnvExposed, k)
}

func init() {
	register(key.ServerURL, constant.DefaultServer, "Base URL of the content server, including the /api prefix")
	register(key.ServerTimeout, 30, "Seconds to wait for a content server response")

	register(key.TrainerPair, "", "Language pair to train, as native-target (e.g. en-ko).\nWill prompt if not set.\nType \"vocagen pairs\" to show available pairs")
	register(key.TrainerMode, "sentence", "What each stream step yields", "sentence", "word")
	register(key.TrainerOrder, "random", "Order of the sentence stream. Ignored in word mode", "random", "length")
	register(key.TrainerRepeat, 3, "How many times the target clip is played per item")
	register(key.TrainerHideNative, false, "Skip the native language clip and play the target clip only")
	register(key.TrainerPauseMs, 1000, "Pause in milliseconds before each repeat of the target clip")
	register(key.TrainerGapMs, 1000, "Pause in milliseconds before moving on to the next item")

	register(key.HistorySave, true, "Remember the stream position per language pair and count finished items")
	register(key.MiniItemLimit, 0, "Stop mini mode after this many items. 0 means never")

	register(key.IconsVariant, "plain", "Icons variant", "emoji", "kaomoji", "plain", "squares", "nerd")
	register(key.TUIShowImageURL, false, "Show the image URL of the current item")
	register(key.TUIWrap, 80, "Wrap sentences at this many columns. 0 disables wrapping")

	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Log verbosity, from less to most verbose", "panic", "fatal", "error", "warn", "info", "debug", "trace")
	register(key.LogsJson, false, "Use json format for logs")

	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, false, "Enable automatic version check")

	register(key.Player, "mpv", "Audio backend to use. native requires PortAudio", "mpv", "native")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"join":     strings.Join,
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}{{ if .Choices }}
{{ blue "Choices:" }} {{ cyan (join .Choices ", ") }}{{ end }}`))
