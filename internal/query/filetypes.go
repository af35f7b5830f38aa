package query

import (
	"path"
	"strings"
)

// macroExtensions maps each type macro to its extension set.
var macroExtensions = map[string]map[string]struct{}{
	"image":   extSet("jpg", "jpeg", "png", "gif", "bmp", "webp", "svg", "heic", "tiff", "tif", "ico", "raw"),
	"video":   extSet("mp4", "mov", "avi", "mkv", "webm", "flv", "wmv", "m4v", "mpg", "mpeg"),
	"audio":   extSet("mp3", "wav", "flac", "aac", "ogg", "m4a", "wma", "aiff", "opus"),
	"doc":     extSet("pdf", "doc", "docx", "xls", "xlsx", "ppt", "pptx", "txt", "md", "rtf", "odt", "ods", "csv", "epub"),
	"archive": extSet("zip", "tar", "gz", "bz2", "xz", "7z", "rar", "tgz", "zst"),
	"code": extSet("go", "rs", "py", "js", "jsx", "ts", "tsx", "c", "cpp", "cc", "h", "hpp",
		"java", "rb", "php", "sh", "bash", "swift", "kt", "cs", "scala", "lua", "pl",
		"html", "css", "scss", "json", "yaml", "yml", "toml", "xml", "sql", "proto"),
}

func extSet(exts ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		m[e] = struct{}{}
	}
	return m
}

// extOf returns the lowercased extension of name without the dot.
func extOf(name string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
}

// macroMatches reports whether name's extension belongs to the macro
// category.
func macroMatches(macro, name string) bool {
	exts, ok := macroExtensions[macro]
	if !ok {
		return false
	}
	_, ok = exts[extOf(name)]
	return ok
}

// extIcons maps extensions to a display glyph; categoryIcons covers the
// rest of a macro's extension set.
var extIcons = map[string]string{
	"go":  "\U0001F439",
	"md":  "\U0001F4DD",
	"pdf": "\U0001F4D5",
}

var categoryIcons = map[string]string{
	"image":   "\U0001F5BC",
	"video":   "\U0001F3AC",
	"audio":   "\U0001F3B5",
	"doc":     "\U0001F4C4",
	"archive": "\U0001F4E6",
	"code":    "\U0001F4BB",
}

// IconFor picks a display glyph for an entry. Folders and symlinks get
// fixed glyphs; files fall back from extension to category to a generic
// file glyph.
func IconFor(name string, isFolder, isSymlink bool) string {
	switch {
	case isFolder:
		return "\U0001F4C1"
	case isSymlink:
		return "\U0001F517"
	}
	ext := extOf(name)
	if icon, ok := extIcons[ext]; ok {
		return icon
	}
	for macro, exts := range macroExtensions {
		if _, ok := exts[ext]; ok {
			return categoryIcons[macro]
		}
	}
	return "\U0001F4C4"
}
