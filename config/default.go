package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/gurbani-cli/gurbani/color"
	"github.com/gurbani-cli/gurbani/constant"
	"github.com/gurbani-cli/gurbani/key"
	"github.com/gurbani-cli/gurbani/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field is one configuration setting and its default.
type Field struct {
	Key         string
	Value       any
	Description string
	// Unit is shown next to numeric values, e.g. "ms".
	Unit string
}

// Section is the key prefix, e.g. "player" for player.seek_step.
func (f *Field) Section() string {
	section, _, _ := strings.Cut(f.Key, ".")
	return section
}

// Pretty renders the field for `config info`.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env is the environment variable that overrides the field.
func (f *Field) Env() string {
	return strings.ToUpper(constant.Gurbani + "_" + EnvKeyReplacer.Replace(f.Key))
}

// MarshalJSON includes the current value next to the default.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
		Unit        string `json:"unit,omitempty"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        fmt.Sprintf("%T", f.Value),
		Unit:        f.Unit,
	})
}

// Default holds every registered field by key.
var Default = make(map[string]Field)

// EnvExposed lists the keys bound to environment variables.
var EnvExposed []string

const ms = "ms"

var fields = []Field{
	{key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, nerd (nerd-font required), plain, kaomoji, squares", ""},

	{key.PlayerMPVPath, "mpv", "Path or name of the mpv executable used for audio output", ""},
	{key.PlayerStatusInterval, 1000, "Interval between playback status updates", ms},
	{key.PlayerCompletionEpsilon, 1000, "A track counts as finished once its position is this close to the end.\nOnly used when the player gives no explicit end-of-file signal", ms},
	{key.PlayerSeekStep, 10000, "Time skipped by the seek forward/backward controls", ms},
	{key.PlayerAutoAdvance, true, "Automatically continue with the next Nitnem bani when one finishes", ""},
	{key.PlayerLoadTimeout, 15000, "How long to wait for the player to open a track before giving up", ms},

	{key.NotifyDesktop, true, "Show desktop notifications when a track fails to load or the Nitnem is complete", ""},
	{key.ProgressSaveListening, true, "Remember how far each track was listened to", ""},
	{key.TUIStartExpanded, false, "Open the full player instead of the mini player", ""},

	{key.LogsWrite, false, "Write logs", ""},
	{key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace", ""},
	{key.LogsJson, false, "Use json format for logs", ""},

	{key.CliColored, true, "Enable colored CLI output", ""},
	{key.CliVersionCheck, true, "Check for a newer release when showing help or the version", ""},
}

func init() {
	for _, f := range fields {
		if _, exists := Default[f.Key]; exists {
			panic("duplicate config key: " + f.Key)
		}
		Default[f.Key] = f
		EnvExposed = append(EnvExposed, f.Key)
	}
}

func highlight(v any) string {
	switch value := v.(type) {
	case bool:
		b := strconv.FormatBool(value)
		if value {
			return style.Fg(color.Green)(b)
		}
		return style.Fg(color.Red)(b)
	case string:
		return style.Fg(color.Yellow)(strconv.Quote(value))
	default:
		return fmt.Sprint(value)
	}
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"saffron":  style.Fg(color.Kesri),
	"purple":   style.Fg(color.Purple),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return fmt.Sprintf("%T", v) },
	"hl":       highlight,
}).Parse(`{{ faint .Description }}
{{ saffron "Key" }}      {{ purple .Key }}
{{ saffron "Env" }}      {{ .Env }}
{{ saffron "Value" }}    {{ hl (value .Key) }}{{ with .Unit }} {{ faint . }}{{ end }}
{{ saffron "Default" }}  {{ hl .Value }}{{ with .Unit }} {{ faint . }}{{ end }}
{{ saffron "Type" }}     {{ typename .Value }}`))
