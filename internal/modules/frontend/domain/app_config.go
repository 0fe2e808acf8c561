// Package domain holds the runtime configuration the SPA reads at boot.
package domain

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed theme.yaml
var themeYAML []byte

// PrimaryColor is the brand colour used across the theme overrides.
const PrimaryColor = "#1E434C"

type AppConfig struct {
	Public PublicConfig   `json:"public"`
	I18n   I18nConfig     `json:"i18n"`
	Theme  map[string]any `json:"theme"`
}

type PublicConfig struct {
	EntuURL  string `json:"entuUrl"`
	EsterURL string `json:"esterUrl"`
}

type I18nConfig struct {
	DatetimeFormats       map[string]map[string]DateTimeFormat `json:"datetimeFormats"`
	DetectBrowserLanguage DetectBrowserLanguage                `json:"detectBrowserLanguage"`
	FallbackWarn          bool                                 `json:"fallbackWarn"`
	MissingWarn           bool                                 `json:"missingWarn"`
	Legacy                bool                                 `json:"legacy"`
	Strategy              string                               `json:"strategy"`
}

// DateTimeFormat mirrors Intl.DateTimeFormat options.
type DateTimeFormat struct {
	Year   string `json:"year,omitempty"`
	Month  string `json:"month,omitempty"`
	Day    string `json:"day,omitempty"`
	Hour   string `json:"hour,omitempty"`
	Minute string `json:"minute,omitempty"`
	Hour12 *bool  `json:"hour12,omitempty"`
}

type DetectBrowserLanguage struct {
	UseCookie bool `json:"useCookie"`
}

func DefaultI18n() I18nConfig {
	date := DateTimeFormat{Year: "numeric", Month: "2-digit", Day: "2-digit"}
	datetime := DateTimeFormat{Year: "numeric", Month: "2-digit", Day: "2-digit", Hour: "2-digit", Minute: "2-digit"}
	twelveHour := true
	enDatetime := datetime
	enDatetime.Hour12 = &twelveHour

	return I18nConfig{
		DatetimeFormats: map[string]map[string]DateTimeFormat{
			"en": {"date": date, "datetime": enDatetime},
			"et": {"date": date, "datetime": datetime},
		},
		Strategy: "no_prefix",
	}
}

// ThemeOverrides decodes the embedded naive-ui overrides. Each call returns a fresh map.
func ThemeOverrides() (map[string]any, error) {
	theme := map[string]any{}
	if err := yaml.Unmarshal(themeYAML, &theme); err != nil {
		return nil, fmt.Errorf("decode theme: %w", err)
	}
	return theme, nil
}

func NewAppConfig(public PublicConfig) (*AppConfig, error) {
	theme, err := ThemeOverrides()
	if err != nil {
		return nil, err
	}
	return &AppConfig{Public: public, I18n: DefaultI18n(), Theme: theme}, nil
}
