package intl

import (
	"context"
	"embed"
	"io/fs"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/go-faster/errors"
	"github.com/iota-uz/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

type SupportedLanguage struct {
	Code        string
	VerboseName string
	Tag         language.Tag
}

var (
	// allSupportedLanguages is the master list of all languages the console ships
	allSupportedLanguages = []SupportedLanguage{
		{
			Code:        "en",
			VerboseName: "English",
			Tag:         language.English,
		},
		{
			Code:        "zh",
			VerboseName: "中文",
			Tag:         language.Chinese,
		},
	}

	SupportedLanguages = allSupportedLanguages
)

// GetSupportedLanguages returns a filtered list of supported languages based on the whitelist.
// If whitelist is nil or empty, returns all supported languages.
func GetSupportedLanguages(whitelist []string) []SupportedLanguage {
	if len(whitelist) == 0 {
		return allSupportedLanguages
	}
	whitelistMap := make(map[string]bool, len(whitelist))
	for _, code := range whitelist {
		whitelistMap[code] = true
	}
	filtered := make([]SupportedLanguage, 0, len(whitelist))
	for _, lang := range allSupportedLanguages {
		if whitelistMap[lang.Code] {
			filtered = append(filtered, lang)
		}
	}
	return filtered
}

// LoadBundle parses the embedded locale files.
func LoadBundle(defaultLang language.Tag) (*i18n.Bundle, error) {
	bundle := i18n.NewBundle(defaultLang)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	err := fs.WalkDir(localeFS, "locales", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := localeFS.ReadFile(path)
		if err != nil {
			return err
		}
		if _, err := bundle.ParseMessageFileBytes(data, filepath.Base(path)); err != nil {
			return errors.Wrapf(err, "parse %s", path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "load locales")
	}
	return bundle, nil
}

// MatchLanguage negotiates an Accept-Language header against the supported set.
func MatchLanguage(acceptLanguage string, fallback language.Tag) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	supported := make([]language.Tag, 0, len(allSupportedLanguages)+1)
	supported = append(supported, fallback)
	for _, l := range allSupportedLanguages {
		supported = append(supported, l.Tag)
	}
	matcher := language.NewMatcher(supported)
	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return fallback
	}
	return supported[idx]
}

type localizerKey struct{}

func WithLocalizer(ctx context.Context, l *i18n.Localizer) context.Context {
	return context.WithValue(ctx, localizerKey{}, l)
}

func UseLocalizer(ctx context.Context) (*i18n.Localizer, bool) {
	l, ok := ctx.Value(localizerKey{}).(*i18n.Localizer)
	return l, ok && l != nil
}

// T translates key with the localizer in ctx, returning fallback when no
// localizer is present or the key is unknown.
func T(ctx context.Context, key string, data map[string]string, fallback string) string {
	l, ok := UseLocalizer(ctx)
	if !ok || key == "" {
		return fallback
	}
	msg, err := l.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil || msg == "" {
		return fallback
	}
	return msg
}
