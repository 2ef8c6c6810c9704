package i18n

import (
	"maps"
	"slices"
	"strings"
	"sync/atomic"
)

// Translator retrieves localized messages for Issue codes.
// data fills the {placeholders} of the message (for example "value", "max"
// or "format").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"invalid_type":   "expected {expected}, got {got}",
		"required":       "required field is null",
		"unknown_key":    "{key} is not a valid subkey",
		"too_small":      "{value} is smaller than min ({min})",
		"too_big":        "{value} is larger than max ({max})",
		"too_short":      "too few values (min: {min})",
		"too_long":       "too many values (max: {max})",
		"invalid_enum":   "{value} is not a valid enum option",
		"invalid_format": "{value} is not a valid {format}",
		"too_deep":       "document nesting exceeds {max} levels",
	},
	"ja": {
		"invalid_type":   "型が不正です ({expected} を期待しましたが {got} でした)",
		"required":       "必須フィールドが null です",
		"unknown_key":    "{key} は未知のキーです",
		"too_small":      "{value} は最小値 ({min}) より小さいです",
		"too_big":        "{value} は最大値 ({max}) より大きいです",
		"too_short":      "要素が少なすぎます (最小: {min})",
		"too_long":       "要素が多すぎます (最大: {max})",
		"invalid_enum":   "{value} は許可された値ではありません",
		"invalid_format": "{value} は有効な {format} ではありません",
		"too_deep":       "ドキュメントの入れ子が {max} 段を超えています",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	if len(data) == 0 {
		return msg
	}
	pairs := make([]string, 0, 2*len(data))
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

type installed struct{ tr Translator }

// current is swapped atomically so the language can change while validation
// runs are in flight.
var current atomic.Pointer[installed]

func init() { current.Store(&installed{dictTranslator{lang: "en"}}) }

// Languages lists the built-in dictionaries.
func Languages() []string {
	return slices.Sorted(maps.Keys(dictionaries))
}

// SetLanguage selects a built-in dictionary; an unknown language selects
// English.
func SetLanguage(lang string) {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator installs tr for later issues. nil restores English.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	current.Store(&installed{tr})
}

// T renders the message for code with the installed Translator.
func T(code string, data map[string]string) string {
	return current.Load().tr.Message(code, data)
}
