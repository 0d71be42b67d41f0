package emoji

import "github.com/yildizm/tabview/internal/viewmodel"

// EmojiMap holds emoji and fallback mappings
var emojiMap = map[string][2]string{
	// [emoji, fallback]
	"error":     {"❌", "[ERR]"},
	"warning":   {"⚠️", "[WRN]"},
	"info":      {"ℹ️", "[INF]"},
	"success":   {"✅", "[OK]"},
	"rows":      {"📊", "[ROWS]"},
	"filter":    {"🔍", "[FLT]"},
	"sort_asc":  {"🔼", "[ASC]"},
	"sort_desc": {"🔽", "[DESC]"},
	"selected":  {"☑️", "[x]"},
	"cleared":   {"🧹", "[CLR]"},
	"pruned":    {"✂️", "[CUT]"},
	"page":      {"📄", "[PG]"},
	"reload":    {"🔄", "[RLD]"},
	"help":      {"❓", "[?]"},
	"door":      {"🚪", "[EXIT]"},
}

var emojiDisabled bool

// SetEmojiDisabled sets the global emoji disabled state
func SetEmojiDisabled(disabled bool) {
	emojiDisabled = disabled
}

// IsEmojiDisabled returns the current emoji disabled state
func IsEmojiDisabled() bool {
	return emojiDisabled
}

// GetEmoji returns emoji or fallback based on no-emoji setting
func GetEmoji(key string) string {
	if mapping, exists := emojiMap[key]; exists {
		if emojiDisabled {
			return mapping[1] // fallback
		}
		return mapping[0] // emoji
	}
	return "[?]" // unknown key
}

// ForEvent returns the symbol shown next to a view-model event
func ForEvent(kind viewmodel.EventKind) string {
	switch kind {
	case viewmodel.EventSelectionChanged:
		return GetEmoji("selected")
	case viewmodel.EventSelectionPruned:
		return GetEmoji("pruned")
	case viewmodel.EventSelectionCleared:
		return GetEmoji("cleared")
	case viewmodel.EventPageClamped:
		return GetEmoji("page")
	default:
		return GetEmoji("info")
	}
}

// ForSort returns the symbol for a sort direction, empty when unsorted
func ForSort(direction viewmodel.SortDirection) string {
	switch direction {
	case viewmodel.SortAscending:
		return GetEmoji("sort_asc")
	case viewmodel.SortDescending:
		return GetEmoji("sort_desc")
	default:
		return ""
	}
}
