package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// 支持的语言
const (
	LocaleEN = "en-US"
	LocaleZH = "zh-CN"
)

// DefaultLocale 默认语言
const DefaultLocale = LocaleEN

var catalogs = map[string]map[string]string{
	LocaleEN: messagesEN,
	LocaleZH: messagesZH,
}

// T 翻译消息，缺失时回退到英文，再回退到 key 本身
func T(locale, key string) string {
	if msg, ok := catalogs[NormalizeLocale(locale)][key]; ok {
		return msg
	}
	if msg, ok := messagesEN[key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化消息
func Sprintf(locale, key string, args ...interface{}) string {
	msg := T(locale, key)
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

// NormalizeLocale 将任意语言标签归一到支持的语言
func NormalizeLocale(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	switch {
	case locale == "":
		return DefaultLocale
	case strings.HasPrefix(locale, "zh"):
		return LocaleZH
	default:
		return LocaleEN
	}
}

// ResolveLocale 从请求头解析语言，X-Locale 优先于 Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return DefaultLocale
	}
	if locale := strings.TrimSpace(c.GetHeader("X-Locale")); locale != "" {
		return NormalizeLocale(locale)
	}
	accept := c.GetHeader("Accept-Language")
	if accept == "" {
		return DefaultLocale
	}
	first := strings.Split(accept, ",")[0]
	first = strings.Split(first, ";")[0]
	return NormalizeLocale(first)
}
