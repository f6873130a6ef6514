package i18n

import (
	"strings"
	"sync/atomic"
)

// Translator retrieves localized messages for failure codes.
// data provides optional parameters to embed in the message (for example,
// "min" or "expected").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator. Templates use
// {name} placeholders filled from data.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"type":            "expected {expected}, got {actual}",
		"required":        "required value missing",
		"minLength":       "must be at least {min} characters",
		"maxLength":       "must be at most {max} characters",
		"pattern":         "must match {pattern}",
		"oneOf":           "must be one of the allowed values",
		"notOneOf":        "must not be one of the excluded values",
		"min":             "must be greater than or equal to {min}",
		"max":             "must be less than or equal to {max}",
		"equal":           "must equal {expected}",
		"minItems":        "must contain at least {min} items",
		"maxItems":        "must contain at most {max} items",
		"additionalItems": "unexpected item",
		"unknownKey":      "unknown key",
		"custom":          "failed check {test}",
	},
	"ja": {
		"type":            "型が不正です ({expected} が必要ですが {actual} でした)",
		"required":        "必須の値が不足しています",
		"minLength":       "{min} 文字以上である必要があります",
		"maxLength":       "{max} 文字以下である必要があります",
		"pattern":         "{pattern} に一致する必要があります",
		"oneOf":           "許可された値のいずれかである必要があります",
		"notOneOf":        "除外された値は使用できません",
		"min":             "{min} 以上である必要があります",
		"max":             "{max} 以下である必要があります",
		"equal":           "{expected} である必要があります",
		"minItems":        "{min} 個以上の要素が必要です",
		"maxItems":        "{max} 個以下の要素である必要があります",
		"additionalItems": "想定外の要素です",
		"unknownKey":      "未知のキーです",
		"custom":          "検査 {test} に失敗しました",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	return fill(tmpl, data)
}

// fill replaces {name} placeholders; unknown placeholders are dropped.
func fill(tmpl string, data map[string]string) string {
	if !strings.Contains(tmpl, "{") {
		return tmpl
	}
	b := &strings.Builder{}
	for {
		open := strings.IndexByte(tmpl, '{')
		if open < 0 {
			b.WriteString(tmpl)
			break
		}
		end := strings.IndexByte(tmpl[open:], '}')
		if end < 0 {
			b.WriteString(tmpl)
			break
		}
		b.WriteString(tmpl[:open])
		b.WriteString(data[tmpl[open+1:open+end]])
		tmpl = tmpl[open+end+1:]
	}
	return b.String()
}

type holder struct{ tr Translator }

var current atomic.Pointer[holder]

func init() { current.Store(&holder{tr: dictTranslator{lang: "en"}}) }

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	current.Store(&holder{tr: dictTranslator{lang: lang}})
}

// For returns the built-in Translator for lang, falling back to English.
func For(lang string) Translator {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	return dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores English.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	current.Store(&holder{tr: tr})
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return current.Load().tr.Message(code, data) }
