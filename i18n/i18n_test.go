package i18n

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
)

// createRequest creates a test HTTP request with a specific locale
func createRequest(locale string) *http.Request {
	req, _ := http.NewRequest("GET", "/test", nil)
	if locale != "" {
		req.Header.Set("Accept-Language", locale)
	}
	return req
}

func TestNewManager(t *testing.T) {
	// Create a temporary directory for test locales
	tempDir := t.TempDir()

	// Create test locale files
	enContent := `welcomeMessage = "Welcome, {{.User}}!"

[home]
title = "Home Page"`

	esContent := `welcomeMessage = "¡Bienvenido, {{.User}}!"

[home]
title = "Página de Inicio"`

	// Write test files
	if err := os.WriteFile(filepath.Join(tempDir, "en.toml"), []byte(enContent), 0644); err != nil {
		t.Fatalf("Failed to create test locale file: %v", err)
	}

	if err := os.WriteFile(filepath.Join(tempDir, "es.toml"), []byte(esContent), 0644); err != nil {
		t.Fatalf("Failed to create test locale file: %v", err)
	}

	// Create manager
	manager := NewManager(tempDir)

	// Check available locales
	locales := manager.GetAvailableLocales()
	if len(locales) != 2 {
		t.Errorf("Expected 2 locales, got %d", len(locales))
	}

	// Check if both locales are present
	hasEn := false
	hasEs := false
	for _, locale := range locales {
		if locale == "en" {
			hasEn = true
		}
		if locale == "es" {
			hasEs = true
		}
	}

	if !hasEn || !hasEs {
		t.Error("Missing expected locales")
	}
}

func TestNewManagerInvalidDir(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected NewManager to panic for a missing directory")
		}
	}()
	NewManager("/nonexistent/locales")
}

func TestTranslator_T(t *testing.T) {
	manager := NewManagerEmpty()
	manager.AddLocale("en", map[string]interface{}{
		"welcomeMessage": "Welcome, {{.User}}!",
		"greeting":       "Hello",
	})

	// Create request
	req, _ := http.NewRequest("GET", "/", nil)

	// Get translator
	translator := manager.Translator(req)

	// Test translation with parameters
	result := translator.T("welcomeMessage", map[string]interface{}{
		"User": "John",
	})

	expected := "Welcome, John!"
	if result != expected {
		t.Errorf("Expected '%s', got '%s'", expected, result)
	}

	// Test translation without parameters
	result = translator.T("greeting", nil)
	expected = "Hello"
	if result != expected {
		t.Errorf("Expected '%s', got '%s'", expected, result)
	}

	// Test missing key
	result = translator.T("missing", nil)
	expected = "missing"
	if result != expected {
		t.Errorf("Expected '%s', got '%s'", expected, result)
	}
}

func TestTranslator_Tn(t *testing.T) {
	manager := NewManagerEmpty()
	manager.AddLocale("en", map[string]interface{}{
		"itemCountOne":   "{{.Count}} item",
		"itemCountOther": "{{.Count}} items",
	})

	req, _ := http.NewRequest("GET", "/", nil)
	translator := manager.Translator(req)

	// Test singular
	result := translator.Tn("itemCountOne", "itemCountOther", 1, nil)
	expected := "1 item"
	if result != expected {
		t.Errorf("Expected '%s', got '%s'", expected, result)
	}

	// Test plural
	result = translator.Tn("itemCountOne", "itemCountOther", 5, nil)
	expected = "5 items"
	if result != expected {
		t.Errorf("Expected '%s', got '%s'", expected, result)
	}
}

func TestLocaleDetection(t *testing.T) {
	manager := NewManagerEmpty()
	manager.AddLocale("en", map[string]interface{}{"greeting": "Hello"})
	manager.AddLocale("es", map[string]interface{}{"greeting": "Hola"})

	// Test query parameter
	req, _ := http.NewRequest("GET", "/?locale=es", nil)
	translator := manager.Translator(req)
	result := translator.T("greeting", nil)
	expected := "Hola"
	if result != expected {
		t.Errorf("Expected '%s', got '%s'", expected, result)
	}

	// Test cookie
	req, _ = http.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "locale", Value: "es"})
	translator = manager.Translator(req)
	result = translator.T("greeting", nil)
	expected = "Hola"
	if result != expected {
		t.Errorf("Expected '%s', got '%s'", expected, result)
	}

	// Test Accept-Language header
	req = createRequest("es-ES,es;q=0.9,en;q=0.8")
	translator = manager.Translator(req)
	result = translator.T("greeting", nil)
	expected = "Hola"
	if result != expected {
		t.Errorf("Expected '%s', got '%s'", expected, result)
	}

	// Test fallback to the active locale
	req = createRequest("fr-FR,fr;q=0.9")
	translator = manager.Translator(req)
	result = translator.T("greeting", nil)
	expected = "Hello"
	if result != expected {
		t.Errorf("Expected '%s', got '%s'", expected, result)
	}
}

func TestAddLocale(t *testing.T) {
	manager := NewManagerEmpty()

	// Add locale programmatically
	messages := map[string]interface{}{
		"greeting": "Bonjour",
	}
	manager.AddLocale("fr", messages)

	// Check if locale was added
	locales := manager.GetAvailableLocales()
	if len(locales) != 1 || locales[0] != "fr" {
		t.Error("Locale was not added correctly")
	}

	// Test translation
	req, _ := http.NewRequest("GET", "/?locale=fr", nil)
	translator := manager.Translator(req)
	result := translator.T("greeting", nil)
	expected := "Bonjour"
	if result != expected {
		t.Errorf("Expected '%s', got '%s'", expected, result)
	}
}

func TestSetActiveLocale(t *testing.T) {
	manager := NewManagerEmpty()
	manager.AddLocale("en", map[string]interface{}{"greeting": "Hello"})
	manager.AddLocale("es", map[string]interface{}{"greeting": "Hola"})

	// Change active locale
	manager.SetActiveLocale("es")

	if manager.ActiveLocale() != "es" {
		t.Errorf("Expected active locale es, got %q", manager.ActiveLocale())
	}

	// Test that the new active locale is used for undetectable requests
	req, _ := http.NewRequest("GET", "/", nil)
	translator := manager.Translator(req)
	result := translator.T("greeting", nil)
	expected := "Hola"
	if result != expected {
		t.Errorf("Expected '%s', got '%s'", expected, result)
	}

	// And for the request-free translator
	result = manager.ActiveTranslator().T("greeting", nil)
	if result != expected {
		t.Errorf("Expected '%s', got '%s'", expected, result)
	}
}

func TestFallbackLocale(t *testing.T) {
	manager := NewManagerEmpty()
	manager.AddLocale("en", map[string]interface{}{"greeting": "Hello"})
	manager.SetFallbackLocale("en")
	manager.SetActiveLocale("de") // not loaded

	result := manager.ActiveTranslator().T("greeting", nil)
	expected := "Hello"
	if result != expected {
		t.Errorf("Expected fallback translation '%s', got '%s'", expected, result)
	}
}

func TestNestedMessages(t *testing.T) {
	manager := NewManagerEmpty()
	manager.AddLocale("en", map[string]interface{}{
		"user": map[string]interface{}{
			"profile": map[string]interface{}{
				"title": "User Profile",
			},
		},
	})

	req, _ := http.NewRequest("GET", "/", nil)
	translator := manager.Translator(req)

	result := translator.T("user.profile.title", nil)
	expected := "User Profile"
	if result != expected {
		t.Errorf("Expected '%s', got '%s'", expected, result)
	}
}

func TestLookupMessage(t *testing.T) {
	messages := map[string]interface{}{
		"greeting": "Hello",
		"home": map[string]interface{}{
			"title": "Home Page",
		},
		"count": int64(3),
	}

	if got := LookupMessage(messages, "greeting"); got != "Hello" {
		t.Errorf("Expected 'Hello', got '%s'", got)
	}
	if got := LookupMessage(messages, "home.title"); got != "Home Page" {
		t.Errorf("Expected 'Home Page', got '%s'", got)
	}
	if got := LookupMessage(messages, "home.missing"); got != "" {
		t.Errorf("Expected empty string for a missing leaf, got '%s'", got)
	}
	if got := LookupMessage(messages, "greeting.deeper"); got != "" {
		t.Errorf("Expected empty string for a path through a leaf, got '%s'", got)
	}
	if got := LookupMessage(messages, "count"); got != "" {
		t.Errorf("Expected empty string for a non-string leaf, got '%s'", got)
	}
}

func TestSetPostTranslation(t *testing.T) {
	manager := NewManagerEmpty()
	manager.AddLocale("en", map[string]interface{}{"greeting": "Hello"})

	var seen []string
	first := func(resolved interface{}, key string) interface{} {
		seen = append(seen, "first:"+key)
		return resolved
	}

	if prev := manager.SetPostTranslation(first); prev != nil {
		t.Error("Expected no previous hook on first install")
	}

	// A second install receives the first hook back for chaining.
	var prev PostTranslationHook
	prev = manager.SetPostTranslation(func(resolved interface{}, key string) interface{} {
		seen = append(seen, "second:"+key)
		return prev(resolved, key)
	})
	if prev == nil {
		t.Fatal("Expected the previous hook to be returned")
	}

	result := manager.ActiveTranslator().T("greeting", nil)
	if result != "Hello" {
		t.Errorf("Expected 'Hello', got '%s'", result)
	}
	if len(seen) != 2 || seen[0] != "second:greeting" || seen[1] != "first:greeting" {
		t.Errorf("Expected both hooks to run in chain order, got %v", seen)
	}
}

func TestPostTranslationRewrite(t *testing.T) {
	manager := NewManagerEmpty()
	manager.AddLocale("en", map[string]interface{}{"greeting": "Hello"})

	manager.SetPostTranslation(func(resolved interface{}, key string) interface{} {
		return "[" + resolved.(string) + "]"
	})

	result := manager.ActiveTranslator().T("greeting", nil)
	if result != "[Hello]" {
		t.Errorf("Expected the hook to rewrite the value, got '%s'", result)
	}
}

func TestMessages(t *testing.T) {
	manager := NewManagerEmpty()
	manager.AddLocale("en", map[string]interface{}{"greeting": "Hello"})

	messages := manager.Messages("en")
	if messages == nil || messages["greeting"] != "Hello" {
		t.Errorf("Expected the locale's message tree, got %v", messages)
	}

	if manager.Messages("de") != nil {
		t.Error("Expected nil for an unknown locale")
	}
}

func TestMergeMessages(t *testing.T) {
	manager := NewManagerEmpty()
	manager.AddLocale("en", map[string]interface{}{
		"greeting": "Hello",
		"home": map[string]interface{}{
			"title": "Home Page",
		},
	})

	manager.MergeMessages("en", map[string]interface{}{
		"greeting": "Hi",
		"home": map[string]interface{}{
			"subtitle": "Welcome back",
		},
	})

	translator := manager.ActiveTranslator()
	if got := translator.T("greeting", nil); got != "Hi" {
		t.Errorf("Expected the merged value 'Hi', got '%s'", got)
	}
	if got := translator.T("home.title", nil); got != "Home Page" {
		t.Errorf("Expected the existing nested value to survive, got '%s'", got)
	}
	if got := translator.T("home.subtitle", nil); got != "Welcome back" {
		t.Errorf("Expected the merged nested value, got '%s'", got)
	}

	// Merging into an unknown locale creates it.
	manager.MergeMessages("fr", map[string]interface{}{"greeting": "Bonjour"})
	if manager.Messages("fr") == nil {
		t.Error("Expected the locale to be created by the merge")
	}
}

func TestSubstituteParamsInvalidTemplate(t *testing.T) {
	manager := NewManagerEmpty()
	manager.AddLocale("en", map[string]interface{}{
		"broken": "Hello {{.User",
	})

	// An unparsable template falls back to the raw message.
	result := manager.ActiveTranslator().T("broken", map[string]interface{}{"User": "John"})
	if result != "Hello {{.User" {
		t.Errorf("Expected the raw message for a broken template, got '%s'", result)
	}
}
