package view

// Icon is the category of glyph drawn next to an item.
type Icon int

const (
	IconFile Icon = iota
	IconFolder
	IconDisk
	IconCode
	IconImage
	IconText
	IconWord
	IconPDF
	IconArchive
	IconSpreadsheet
)

var iconNames = [...]string{
	IconFile:        "file",
	IconFolder:      "folder",
	IconDisk:        "disk",
	IconCode:        "code",
	IconImage:       "image",
	IconText:        "text",
	IconWord:        "word",
	IconPDF:         "pdf",
	IconArchive:     "archive",
	IconSpreadsheet: "spreadsheet",
}

func (i Icon) String() string {
	if i < 0 || int(i) >= len(iconNames) {
		return "file"
	}
	return iconNames[i]
}

// iconByExt is matched case-sensitively: ".PNG" is a plain file.
var iconByExt = map[string]Icon{
	".json": IconCode, ".sql": IconCode, ".js": IconCode, ".css": IconCode,
	".scss": IconCode, ".cs": IconCode, ".rs": IconCode, ".html": IconCode,
	".php": IconCode, ".htm": IconCode, ".py": IconCode,

	".png": IconImage, ".jpg": IconImage, ".jpeg": IconImage,
	".webp": IconImage, ".gif": IconImage, ".svg": IconImage,

	".txt": IconText,

	".docx": IconWord, ".doc": IconWord,

	".pdf": IconPDF,

	".zip": IconArchive, ".rar": IconArchive, ".tar": IconArchive,
	".zst": IconArchive, ".7z": IconArchive,

	".xlsx": IconSpreadsheet,
}

// IconFor picks the icon for an entry from its extension (with the dot).
func IconFor(ext string, isDir bool) Icon {
	if isDir {
		return IconFolder
	}
	if icon, ok := iconByExt[ext]; ok {
		return icon
	}
	return IconFile
}

// archiveExts enable the extract action.
var archiveExts = map[string]bool{
	".zip": true, ".rar": true, ".7z": true, ".tar": true, ".zst": true,
}

// IsArchive reports whether ext names an archive that can be extracted.
func IsArchive(ext string) bool {
	return archiveExts[ext]
}
