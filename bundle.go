package transync

import (
	"context"
	"fmt"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// LoadBundle builds a go-i18n bundle for run-time lookups. The extracted
// code catalog is the untranslated default; for every locale the on-disk
// code catalog is overlaid onto it.
func (s *Syncer) LoadBundle(ctx context.Context, cfg Config) (*i18n.Bundle, error) {
	defaultTag, err := language.Parse(cfg.DefaultLocale)
	if err != nil {
		return nil, fmt.Errorf("default locale: %w", err)
	}
	ext, err := s.ReadExtraction(ctx, cfg)
	if err != nil {
		return nil, err
	}
	base := ext.Code
	if base == nil {
		base = Catalog{}
	}

	bundle := i18n.NewBundle(defaultTag)
	for _, locale := range cfg.Locales {
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("locale %q: %w", locale, err)
		}
		localized, err := s.ReadCatalogFile(ctx, CodeTranslationsPath(cfg.Context(locale)))
		if err != nil {
			return nil, err
		}
		if err := bundle.AddMessages(tag, bundleMessages(OverlayCatalog(base, localized))...); err != nil {
			return nil, fmt.Errorf("locale %s: %w", locale, err)
		}
	}
	return bundle, nil
}

func bundleMessages(c Catalog) []*i18n.Message {
	msgs := make([]*i18n.Message, 0, len(c))
	for _, key := range c.Keys() {
		m := c[key]
		msgs = append(msgs, &i18n.Message{ID: key, Description: m.Description, Other: m.Message})
	}
	return msgs
}

// Translate renders key for locale, falling back to the bundle's default
// language. data feeds message templates and may be nil.
func Translate(bundle *i18n.Bundle, locale, key string, data map[string]any) (string, error) {
	localizer := i18n.NewLocalizer(bundle, locale)
	return localizer.Localize(&i18n.LocalizeConfig{MessageID: key, TemplateData: data})
}
