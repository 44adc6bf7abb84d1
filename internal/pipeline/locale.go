package pipeline

import "strings"

// defaultLocale is used when a language name has no table entry.
const defaultLocale = "en-US"

// locales maps the human-readable language names clients send to the
// synthesis locales the TTS voice selection needs.
var locales = map[string]string{
	"spanish":    "es-ES",
	"french":     "fr-FR",
	"german":     "de-DE",
	"italian":    "it-IT",
	"portuguese": "pt-BR",
	"japanese":   "ja-JP",
	"korean":     "ko-KR",
	"chinese":    "cmn-CN",
	"mandarin":   "cmn-CN",
	"hindi":      "hi-IN",
	"arabic":     "ar-XA",
	"russian":    "ru-RU",
	"dutch":      "nl-NL",
	"polish":     "pl-PL",
	"turkish":    "tr-TR",
	"english":    "en-US",
}

// LocaleFor returns the synthesis locale for a language name,
// case-insensitively, falling back to en-US.
func LocaleFor(language string) string {
	if locale, ok := locales[strings.ToLower(strings.TrimSpace(language))]; ok {
		return locale
	}
	return defaultLocale
}
