package textnorm

import (
	"regexp"
	"strings"
)

type Language string

const (
	Arabic  Language = "ar"
	English Language = "en"
)

// ParseLanguage maps a request language to a supported one.
// Empty means Arabic; anything that is not "ar" is treated as English.
func ParseLanguage(s string) Language {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ar":
		return Arabic
	default:
		return English
	}
}

var (
	arabicMarks = regexp.MustCompile(`[\x{064B}-\x{065F}\x{0670}\x{06D6}-\x{06ED}\x{0640}]`)
	whitespace  = regexp.MustCompile("[" + WhitespaceClass + "]+")

	arabicFolds = strings.NewReplacer(
		"أ", "ا",
		"إ", "ا",
		"آ", "ا",
		"ى", "ي",
		"ة", "ه",
	)
)

// Normalize canonicalizes text for lexical matching.
func Normalize(text string, lang Language) string {
	if text == "" {
		return ""
	}
	s := strings.ToLower(text)
	if lang == Arabic {
		s = arabicMarks.ReplaceAllString(s, "")
		s = arabicFolds.Replace(s)
	}
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// CollapseSpace collapses whitespace runs and trims, without any other folding.
func CollapseSpace(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// WhitespaceClass matches ASCII whitespace, \v, Unicode space separators and
// line/paragraph separators. Pasted lesson notes often carry NBSP.
const WhitespaceClass = `\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}`

// Fields splits on whitespace runs, dropping empty tokens.
func Fields(s string) []string {
	parts := whitespace.Split(s, -1)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Detect reports Arabic when the text contains any rune from the Arabic block.
func Detect(text string) Language {
	for _, r := range text {
		if r >= 0x0600 && r <= 0x06FF {
			return Arabic
		}
	}
	return English
}
