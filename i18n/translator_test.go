package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("invalid_format", map[string]string{"value": "zz", "format": "hex string"}); msg != "zz is not a valid hex string" {
		t.Fatalf("unexpected en message %q", msg)
	}

	SetLanguage("ja")
	if msg := T("too_long", map[string]string{"max": "2"}); msg != "要素が多すぎます (最大: 2)" {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_UnknownCodeFallsBack(t *testing.T) {
	if msg := T("no_such_code", nil); msg != "no_such_code" {
		t.Fatalf("expected code fallback, got %q", msg)
	}
}

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "X:" + code }

func TestSetTranslator(t *testing.T) {
	SetTranslator(upper{})
	if msg := T("required", nil); msg != "X:required" {
		t.Fatalf("custom translator not used: %q", msg)
	}
	SetTranslator(nil)
	if msg := T("required", nil); msg != "required field is null" {
		t.Fatalf("nil should restore default, got %q", msg)
	}
}

func TestSetLanguage_UnknownFallsBackAndSwapsConcurrently(t *testing.T) {
	if got := Languages(); len(got) != 2 || got[0] != "en" || got[1] != "ja" {
		t.Fatalf("languages %v", got)
	}
	SetLanguage("fr")
	if msg := T("required", nil); msg != "required field is null" {
		t.Fatalf("fr should fall back to en, got %q", msg)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 100 {
			_ = T("required", nil)
		}
	}()
	for _, lang := range []string{"ja", "en", "ja", "en"} {
		SetLanguage(lang)
	}
	<-done
	if msg := T("required", nil); msg != "required field is null" {
		t.Fatalf("final language not english: %q", msg)
	}
}
