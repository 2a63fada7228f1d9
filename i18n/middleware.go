package i18n

import (
	"context"
	"net/http"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	// TranslatorContextKey is the key used to store the Translator in the request context
	TranslatorContextKey contextKey = "liveedit_translator"
	// LocaleContextKey is the key used to store the detected locale in the request context
	LocaleContextKey contextKey = "liveedit_locale"
)

// LocaleDetector returns middleware that detects the user's locale and injects
// a pre-configured Translator into the request context.
//
// The middleware runs once per request and stores the Translator in the
// context, so handlers do not repeat locale detection. The locale is detected
// from query parameters, cookies, or the Accept-Language header, in that
// order, falling back to the manager's active locale.
//
// Example:
//
//	manager := i18n.NewManager("./locales")
//	handler := i18n.LocaleDetector(manager)(mux)
//	http.ListenAndServe(":8080", handler)
func LocaleDetector(manager *Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			translator := manager.Translator(r)

			ctx := context.WithValue(r.Context(), TranslatorContextKey, translator)
			ctx = context.WithValue(ctx, LocaleContextKey, translator.LocaleCode())

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TranslatorFromContext retrieves the Translator from the request context.
// Returns nil if no Translator was found in the context.
func TranslatorFromContext(ctx context.Context) *Translator {
	if translator, ok := ctx.Value(TranslatorContextKey).(*Translator); ok {
		return translator
	}
	return nil
}

// LocaleFromContext retrieves the detected locale code from the request context.
// Returns an empty string if no locale was found in the context.
func LocaleFromContext(ctx context.Context) string {
	if locale, ok := ctx.Value(LocaleContextKey).(string); ok {
		return locale
	}
	return ""
}

// MustTranslatorFromContext retrieves the Translator from the request context.
// Panics if no Translator was found in the context. Use when you are certain
// the LocaleDetector middleware has been applied and want to fail fast.
func MustTranslatorFromContext(ctx context.Context) *Translator {
	translator := TranslatorFromContext(ctx)
	if translator == nil {
		panic("i18n: Translator not found in context. Did you apply the LocaleDetector middleware?")
	}
	return translator
}
