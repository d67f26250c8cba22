package config

// DefaultLanguage is used when no display language has been configured.
const DefaultLanguage = "en"

// Language pairs a display label with its BCP 47 tag.
type Language struct {
	Label string
	Value string
}

// Languages lists the selectable display languages for LLM responses.
var Languages = []Language{
	{Label: "简体中文", Value: "zh-CN"},
	{Label: "繁體中文", Value: "zh-TW"},
	{Label: "English", Value: "en"},
	{Label: "日本語", Value: "ja"},
	{Label: "한국어", Value: "ko"},
	{Label: "Français", Value: "fr"},
	{Label: "Deutsch", Value: "de"},
	{Label: "Español", Value: "es"},
	{Label: "Русский", Value: "ru"},
	{Label: "Português", Value: "pt"},
	{Label: "Italiano", Value: "it"},
}

// IsSupportedLanguage reports whether the tag is in the language catalog.
func IsSupportedLanguage(value string) bool {
	for _, l := range Languages {
		if l.Value == value {
			return true
		}
	}
	return false
}
