package converter

import (
	"fmt"
	"path"
	"strings"
	"unicode/utf8"
)

// MaxSheetNameLength is the longest sheet name a workbook accepts, in characters.
const MaxSheetNameLength = 31

var sheetNameReplacer = strings.NewReplacer(
	`\`, "", "/", "", "*", "", "?", "", ":", "", "[", "", "]", "",
)

// BaseName returns the final element of a source name without its extension.
// Both slash styles are treated as separators.
func BaseName(source string) string {
	base := path.Base(strings.ReplaceAll(source, `\`, "/"))
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// stem returns the final element of a source name with every extension
// removed, so "report.backup.csv" and "report.csv" share the stem "report".
func stem(source string) string {
	base := BaseName(source)
	if i := strings.Index(base[min(1, len(base)):], "."); i >= 0 {
		return base[:i+1]
	}
	return base
}

// SanitizeSheetName derives a legal sheet name from a source file name.
// position is the 1-based index of the item in its batch and names the
// fallback sheet when nothing usable is left.
//
// Every extension is stripped, not just the last: "report.backup.csv" gives
// "report" and "sales.2024.q1.csv" gives "sales". Dotted names therefore
// collide more often; SheetNamer resolves those collisions with a suffix.
func SanitizeSheetName(source string, position int) string {
	name := sheetNameReplacer.Replace(stem(source))
	// Names may not begin or end with an apostrophe.
	name = strings.Trim(name, "' ")
	name = truncateRunes(name, MaxSheetNameLength)
	name = strings.TrimRight(name, "' ")
	if name == "" {
		return DefaultSheetName(position)
	}
	return name
}

// DefaultSheetName returns the positional name Sheet<position>.
func DefaultSheetName(position int) string {
	return fmt.Sprintf("Sheet%d", position)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// SheetNamer hands out sheet names that are unique within one workbook.
// Workbooks compare sheet names case-insensitively.
type SheetNamer struct {
	used map[string]bool
}

func NewSheetNamer() *SheetNamer {
	return &SheetNamer{used: make(map[string]bool)}
}

// Unique returns name, or name with the first free "_N" suffix (N >= 2)
// when it is already taken. The result never exceeds MaxSheetNameLength.
func (n *SheetNamer) Unique(name string) string {
	candidate := name
	for i := 2; n.used[strings.ToLower(candidate)]; i++ {
		suffix := fmt.Sprintf("_%d", i)
		candidate = truncateRunes(name, MaxSheetNameLength-len(suffix)) + suffix
	}
	n.used[strings.ToLower(candidate)] = true
	return candidate
}

// Taken reports whether name has already been handed out.
func (n *SheetNamer) Taken(name string) bool {
	return n.used[strings.ToLower(name)]
}
