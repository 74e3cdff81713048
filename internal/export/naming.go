// Package export writes grouped participant rows as workbooks and a combined archive.
package export

import (
	"strconv"
	"strings"

	"pesertagen/pkg/utils"
)

// File name parts.
const (
	forbiddenChars  = `\/:*?"<>|`
	fallbackName    = "output"
	WorkbookExt     = ".xlsx"
	ArchiveExt      = ".zip"
	archiveSuffix   = "_ALL_JENIS_TES"
	groupNameJoiner = "_"
)

var helper = utils.NewStringHelper()

// SanitizeFilename replaces characters not allowed in file names with "-",
// collapses whitespace and trims. An empty result becomes "output".
func SanitizeFilename(s string) string {
	out := helper.NormalizeWhitespace(helper.ReplaceAny(s, forbiddenChars, "-"))
	if out == "" {
		return fallbackName
	}

	return out
}

// GroupFileName is the workbook name for one JENIS_TES group.
func GroupFileName(institutionName, key string) string {
	return SanitizeFilename(institutionName) + groupNameJoiner + SanitizeFilename(key) + WorkbookExt
}

// ArchiveName is the name of the archive holding every group workbook.
func ArchiveName(institutionName string) string {
	return SanitizeFilename(institutionName) + archiveSuffix + ArchiveExt
}

// uniqueName appends " (2)", " (3)" ... before the extension until name is
// not in used, then records it. Comparison ignores case.
func uniqueName(name string, used map[string]bool) string {
	base, ext := name, ""
	if i := strings.LastIndex(name, "."); i > 0 {
		base, ext = name[:i], name[i:]
	}

	candidate := name
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		candidate = base + " (" + strconv.Itoa(n) + ")" + ext
	}

	used[strings.ToLower(candidate)] = true

	return candidate
}
