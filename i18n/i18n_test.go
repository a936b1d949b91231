package i18n

import "testing"

func clearLocaleEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LANGUAGE", "")
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "")
}

func TestDetectLanguagePriorityAndNormalization(t *testing.T) {
	t.Run("LANGUAGE has highest priority", func(t *testing.T) {
		clearLocaleEnv(t)
		t.Setenv("LANGUAGE", "ru_RU.UTF-8:en_US")
		t.Setenv("LC_ALL", "de_DE.UTF-8")

		if got := detectLanguage(); got != "ru_RU" {
			t.Fatalf("detectLanguage() = %q, want %q", got, "ru_RU")
		}
	})

	t.Run("C and POSIX are skipped", func(t *testing.T) {
		clearLocaleEnv(t)
		t.Setenv("LANGUAGE", "C")
		t.Setenv("LC_ALL", "POSIX")
		t.Setenv("LC_MESSAGES", "fr_FR.UTF-8")

		if got := detectLanguage(); got != "fr_FR" {
			t.Fatalf("detectLanguage() = %q, want %q", got, "fr_FR")
		}
	})

	t.Run("falls back to en", func(t *testing.T) {
		clearLocaleEnv(t)
		if got := detectLanguage(); got != "en" {
			t.Fatalf("detectLanguage() = %q, want %q", got, "en")
		}
	})
}

func TestTAndNFallbackWhenUninitialized(t *testing.T) {
	old := po
	po = nil
	t.Cleanup(func() { po = old })

	if got := T("Hello"); got != "Hello" {
		t.Fatalf("T fallback = %q, want %q", got, "Hello")
	}

	if got := N("file", "files", 1); got != "file" {
		t.Fatalf("N singular fallback = %q, want %q", got, "file")
	}

	if got := N("file", "files", 2); got != "files" {
		t.Fatalf("N plural fallback = %q, want %q", got, "files")
	}
}

func TestInitLoadsEmbeddedCatalog(t *testing.T) {
	old := po
	t.Cleanup(func() { po = old })

	Init("de_DE")
	if got := T("Project"); got != "Projekt" {
		t.Fatalf("T(Project) = %q, want %q", got, "Projekt")
	}
	if got := N("Created %d catalog", "Created %d catalogs", 3); got != "%d Kataloge angelegt" {
		t.Fatalf("N plural = %q", got)
	}

	Init("ru")
	if got := N("Created %d catalog", "Created %d catalogs", 5); got != "Создано %d каталогов" {
		t.Fatalf("N(5) ru = %q", got)
	}

	Init("xx")
	if got := T("Project"); got != "Project" {
		t.Fatalf("unknown language T = %q, want passthrough", got)
	}
}

func TestMatchPicksEmbeddedLanguage(t *testing.T) {
	cases := map[string]string{
		"de_AT":    "de",
		"de":       "de",
		"ru_RU":    "ru",
		"en_GB":    "en",
		"ja":       "en",
		"not-lang": "en",
	}
	for in, want := range cases {
		if got := match(in); got != want {
			t.Errorf("match(%q) = %q, want %q", in, got, want)
		}
	}

	if got := Languages(); len(got) != 2 || got[0] != "de" || got[1] != "ru" {
		t.Fatalf("Languages() = %v, want [de ru]", got)
	}
}
