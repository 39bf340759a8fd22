package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "min" or "pattern").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator. Templates use
// {name} placeholders filled from data.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"invalid_type":     "invalid type, expected {type}",
		"required":         "required property missing",
		"unknown_key":      "property not allowed",
		"too_small":        "must be at least {min}",
		"too_big":          "must be at most {max}",
		"too_short":        "too short, minimum is {min}",
		"too_long":         "too long, maximum is {max}",
		"out_of_range":     "must be between {min} and {max}",
		"pattern":          "must match pattern {pattern}",
		"invalid_enum":     "must be one of the allowed values",
		"invalid_const":    "must equal the constant value",
		"not_multiple":     "must be a multiple of {divider}",
		"uniqueness":       "items must be unique",
		"not_allowed":      "value is not allowed here",
		"dependency":       "property dependency not satisfied",
		"composition":      "does not satisfy the combined schema",
		"invalid_item":     "array item does not match its schema",
		"invalid_key":      "property does not match its schema",
		"expression":       "does not satisfy {expression}",
		"rule_violation":   "rule violated",
		"union_ambiguous":  "must match exactly one schema",
		"union_no_match":   "must match at least one schema",
		"contains_missing": "no item matches the contains schema",
	},
	"ja": {
		"invalid_type":     "型が不正です（期待: {type}）",
		"required":         "必須プロパティが不足しています",
		"unknown_key":      "許可されていないプロパティです",
		"too_small":        "{min} 以上である必要があります",
		"too_big":          "{max} 以下である必要があります",
		"too_short":        "短すぎます（最小 {min}）",
		"too_long":         "長すぎます（最大 {max}）",
		"out_of_range":     "{min} から {max} の範囲である必要があります",
		"pattern":          "パターン {pattern} に一致しません",
		"invalid_enum":     "許可された値ではありません",
		"invalid_const":    "固定値と一致しません",
		"not_multiple":     "{divider} の倍数である必要があります",
		"uniqueness":       "要素が重複しています",
		"not_allowed":      "この値は許可されていません",
		"dependency":       "依存するプロパティが不足しています",
		"composition":      "複合スキーマを満たしていません",
		"invalid_item":     "配列の要素がスキーマに一致しません",
		"invalid_key":      "プロパティがスキーマに一致しません",
		"expression":       "{expression} を満たしていません",
		"rule_violation":   "ルール違反です",
		"union_ambiguous":  "ちょうど1つのスキーマに一致する必要があります",
		"union_no_match":   "いずれかのスキーマに一致する必要があります",
		"contains_missing": "contains スキーマに一致する要素がありません",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	return fill(tmpl, data)
}

// fill substitutes {name} placeholders. Placeholders without data become "?".
func fill(tmpl string, data map[string]string) string {
	var b strings.Builder
	for {
		open := strings.IndexByte(tmpl, '{')
		if open < 0 {
			break
		}
		closing := strings.IndexByte(tmpl[open:], '}')
		if closing < 0 {
			break
		}
		b.WriteString(tmpl[:open])
		if v, ok := data[tmpl[open+1:open+closing]]; ok {
			b.WriteString(v)
		} else {
			b.WriteString("?")
		}
		tmpl = tmpl[open+closing+1:]
	}
	b.WriteString(tmpl)
	return b.String()
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	mu.Lock()
	defer mu.Unlock()
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	mu.Lock()
	defer mu.Unlock()
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
