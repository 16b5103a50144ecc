package domain

import (
	"path/filepath"
	"sort"
	"strings"
)

// langByExt maps a lowercase file extension to its language tag.
// Mirrors the identifiers editors use for these languages.
var langByExt = map[string]string{
	".ts":    "typescript",
	".tsx":   "typescriptreact",
	".js":    "javascript",
	".jsx":   "javascriptreact",
	".mjs":   "javascript",
	".cjs":   "javascript",
	".go":    "go",
	".py":    "python",
	".rs":    "rust",
	".rb":    "ruby",
	".java":  "java",
	".kt":    "kotlin",
	".swift": "swift",
	".c":     "c",
	".h":     "c",
	".cpp":   "cpp",
	".cc":    "cpp",
	".hpp":   "cpp",
	".cs":    "csharp",
	".php":   "php",
}

// Language returns the language tag for a file path, or "plaintext"
// when the extension is not recognized.
func Language(path string) string {
	if lang, ok := langByExt[strings.ToLower(filepath.Ext(path))]; ok {
		return lang
	}
	return "plaintext"
}

// Supported reports whether error detection applies to this file
func Supported(path string) bool {
	_, ok := langByExt[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Languages returns the sorted set of supported language tags
func Languages() []string {
	set := map[string]bool{}
	for _, lang := range langByExt {
		set[lang] = true
	}
	langs := make([]string, 0, len(set))
	for lang := range set {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Extensions returns the sorted extensions registered for a language tag
func Extensions(lang string) []string {
	var exts []string
	for ext, l := range langByExt {
		if l == lang {
			exts = append(exts, ext)
		}
	}
	sort.Strings(exts)
	return exts
}
