package dialog

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/oshokin/timer-skill/internal/logger"
)

//go:embed locales/*.json
var localeFS embed.FS

// itemsKey is the template value holding the joined item renderings.
const itemsKey = "items"

// Renderer turns responses into text.
type Renderer struct {
	// localizer resolves messages for the configured language.
	localizer *i18n.Localizer
	// languages lists the catalogues found in the embedded locales.
	languages []string
}

// NewRenderer loads the embedded catalogues and prepares a localizer for lang,
// falling back to English.
func NewRenderer(lang string) (*Renderer, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}

	languages := make([]string, 0, len(entries))

	for _, entry := range entries {
		name := entry.Name()

		code, ok := strings.CutPrefix(strings.TrimSuffix(name, ".json"), "active.")
		if !ok || code == "" {
			continue
		}

		if _, err = bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			return nil, fmt.Errorf("load locale %s: %w", name, err)
		}

		languages = append(languages, code)
	}

	return &Renderer{
		localizer: i18n.NewLocalizer(bundle, lang, language.English.String()),
		languages: languages,
	}, nil
}

// Languages returns the language codes of the loaded catalogues.
func (r *Renderer) Languages() []string {
	return r.languages
}

// Render returns the text of resp. Unknown messages render as their identifier.
func (r *Renderer) Render(ctx context.Context, resp Response) string {
	data := make(map[string]any, len(resp.Params)+2)
	for k, v := range resp.Params {
		data[k] = v
	}

	data["Count"] = resp.Count

	if len(resp.Items) > 0 {
		items := make([]string, 0, len(resp.Items))
		for _, item := range resp.Items {
			items = append(items, r.Render(ctx, item))
		}

		data[itemsKey] = joinChoices(items)
	}

	text, err := r.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    resp.ID,
		TemplateData: data,
		PluralCount:  resp.Count,
	})
	if err != nil {
		logger.DebugKV(ctx, "Message is missing from catalogue",
			"id", resp.ID,
			"error", err,
		)

		return resp.ID
	}

	return text
}

// joinChoices joins items as "a, b or c".
func joinChoices(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " or " + items[len(items)-1]
	}
}
