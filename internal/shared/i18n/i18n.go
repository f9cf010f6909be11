// Package i18n holds the user-facing strings of the assistant in the four
// supported languages. The bundle is an explicit value handed to whoever
// renders text; nothing reads it through package state.
package i18n

// Message keys.
const (
	KeyGreeting       = "greeting"
	KeyNotUnderstood  = "notUnderstood"
	KeyTurnFailed     = "turnFailed"
	KeyLoadFailed     = "loadFailed"
	KeyRegisterOK     = "registerSuccess"
	KeyRegisterFailed = "registerFailed"
)

// DefaultLanguage is used whenever a requested language is unknown.
const DefaultLanguage = "en"

type Bundle struct {
	tables map[string]map[string]string
}

// NewBundle returns a bundle with the built-in translation tables.
func NewBundle() *Bundle {
	return &Bundle{tables: translations}
}

// Languages reports the supported language codes.
func (b *Bundle) Languages() []string {
	langs := make([]string, 0, len(b.tables))
	for code := range b.tables {
		langs = append(langs, code)
	}
	return langs
}

// Supported reports whether lang has a translation table.
func (b *Bundle) Supported(lang string) bool {
	_, ok := b.tables[lang]
	return ok
}

// T resolves key in lang, falling back to English, then to the key itself.
func (b *Bundle) T(lang, key string) string {
	if table, ok := b.tables[lang]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if msg, ok := b.tables[DefaultLanguage][key]; ok {
		return msg
	}
	return key
}

var translations = map[string]map[string]string{
	"en": {
		KeyGreeting:       "Hi! I'm your financial assistant. How can I help you today?",
		KeyNotUnderstood:  "I'm sorry, I couldn't understand your request.",
		KeyTurnFailed:     "Sorry, I encountered an error. Please try again.",
		KeyLoadFailed:     "Failed to load. Please try again.",
		KeyRegisterOK:     "Registration successful!",
		KeyRegisterFailed: "Registration failed",
	},
	"hi": {
		KeyGreeting:       "नमस्ते! मैं आपका वित्तीय सहायक हूँ। आज मैं आपकी कैसे मदद कर सकता हूँ?",
		KeyNotUnderstood:  "माफ़ कीजिए, मैं आपका अनुरोध समझ नहीं पाया।",
		KeyTurnFailed:     "माफ़ कीजिए, कुछ गड़बड़ हो गई। कृपया फिर से प्रयास करें।",
		KeyLoadFailed:     "लोड नहीं हो सका। कृपया फिर से प्रयास करें।",
		KeyRegisterOK:     "पंजीकरण सफल!",
		KeyRegisterFailed: "पंजीकरण विफल",
	},
	"gu": {
		KeyGreeting:       "નમસ્તે! હું તમારો નાણાકીય સહાયક છું. આજે હું તમારી કેવી રીતે મદદ કરી શકું?",
		KeyNotUnderstood:  "માફ કરશો, હું તમારી વિનંતી સમજી શક્યો નહીં.",
		KeyTurnFailed:     "માફ કરશો, કંઈક ખોટું થયું. કૃપા કરીને ફરી પ્રયાસ કરો.",
		KeyLoadFailed:     "લોડ થઈ શક્યું નહીં. કૃપા કરીને ફરી પ્રયાસ કરો.",
		KeyRegisterOK:     "નોંધણી સફળ!",
		KeyRegisterFailed: "નોંધણી નિષ્ફળ",
	},
	"mr": {
		KeyGreeting:       "नमस्कार! मी तुमचा आर्थिक सहाय्यक आहे. आज मी तुमची कशी मदत करू शकतो?",
		KeyNotUnderstood:  "माफ करा, मला तुमची विनंती समजली नाही.",
		KeyTurnFailed:     "माफ करा, काहीतरी चूक झाली. कृपया पुन्हा प्रयत्न करा.",
		KeyLoadFailed:     "लोड करता आले नाही. कृपया पुन्हा प्रयत्न करा.",
		KeyRegisterOK:     "नोंदणी यशस्वी!",
		KeyRegisterFailed: "नोंदणी अयशस्वी",
	},
}
