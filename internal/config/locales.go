package config

const (
	LangEN = "en"
	LangES = "es"
)

// IsSupportedLanguage reports whether messages exist for lang.
func IsSupportedLanguage(lang string) bool {
	switch lang {
	case LangEN, LangES:
		return true
	default:
		return false
	}
}
