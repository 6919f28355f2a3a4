package output

// T looks up localized guest and operator messages.
type T interface {
	// T renders key for locale, filling template placeholders from data
	// (nil when the message has none). Unknown keys render as the key.
	T(locale, key string, data map[string]any) string
}
