// Package backend holds the command contract between the skiff front end and
// whatever serves its file-system operations, plus the in-process reference
// implementation of that contract.
package backend

import "time"

// Command is the wire name of a backend operation.
type Command string

const (
	ListDirs      Command = "list_dirs"
	OpenDir       Command = "open_dir"
	OpenItem      Command = "open_item"
	GoHome        Command = "go_home"
	GoBack        Command = "go_back"
	GoToDir       Command = "go_to_dir"
	SearchFor     Command = "search_for"
	CreateFolder  Command = "create_folder"
	CreateFile    Command = "create_file"
	RenameElement Command = "rename_element"
	DeleteItem    Command = "delete_item"
	CopyPaste     Command = "copy_paste"
	ArrCopyPaste  Command = "arr_copy_paste"
	CompressItem  Command = "compress_item"
	ExtractItem   Command = "extract_item"
	ListDisks     Command = "list_disks"
	SwitchView    Command = "switch_view"
	CheckConfig   Command = "check_app_config"
	GetCurrentDir Command = "get_current_dir"

	// DirChanged is never requested. The backend emits it when the directory
	// it is showing changes on disk.
	DirChanged Command = "dir_changed"
)

// ReturnsListing reports whether a successful response carries a directory
// listing that replaces the current one.
func (c Command) ReturnsListing() bool {
	switch c {
	case ListDirs, OpenDir, GoHome, GoBack, GoToDir, SearchFor,
		DeleteItem, CopyPaste, ArrCopyPaste, SwitchView:
		return true
	}
	return false
}

// Known reports whether c names a requestable command.
func (c Command) Known() bool {
	_, ok := requiredFields[c]
	return ok
}

// Request is one command sent to the backend. Only the fields the command
// uses are set; Token correlates the response.
type Request struct {
	Command Command `json:"command" validate:"required"`
	Token   int64   `json:"token"`

	Path          string   `json:"path,omitempty" validate:"required"`
	Name          string   `json:"name,omitempty"`
	Directory     string   `json:"directory,omitempty" validate:"required"`
	FileName      string   `json:"fileName,omitempty" validate:"required"`
	FolderName    string   `json:"folderName,omitempty" validate:"required,basename"`
	NewName       string   `json:"newName,omitempty" validate:"required,basename"`
	ActFileName   string   `json:"actFileName,omitempty" validate:"required,basename"`
	FromPath      string   `json:"fromPath,omitempty" validate:"required"`
	ArrItems      []string `json:"arrItems,omitempty" validate:"min=1,dive,required"`
	IsForDualPane bool     `json:"isForDualPane,omitempty"`
	CopyToPath    string   `json:"copyToPath,omitempty"`
	ViewMode      string   `json:"viewMode,omitempty" validate:"oneof=wrap column"`
}

// Entry is one file-system object in a listing.
type Entry struct {
	Name         string    `json:"name"`
	Path         string    `json:"path"`
	IsDir        bool      `json:"is_dir"`
	Extension    string    `json:"extension"` // with leading dot, empty for directories
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// DiskEntry summarizes one mounted volume. Load is the free space and
// Capacity the total, both already formatted for display.
type DiskEntry struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Load     string `json:"load"`
	Capacity string `json:"capacity"`
}

// AppConfig is the persisted front-end state the backend serves.
type AppConfig struct {
	ViewMode string `json:"view_mode"`
	LastDir  string `json:"last_dir,omitempty"`
}

// Response answers exactly one Request (same Token), except DirChanged
// notifications which carry Token 0.
type Response struct {
	Command Command     `json:"command"`
	Token   int64       `json:"token"`
	Dir     string      `json:"dir,omitempty"`
	Entries []Entry     `json:"entries,omitempty"`
	Disks   []DiskEntry `json:"disks,omitempty"`
	Config  *AppConfig  `json:"config,omitempty"`
	Output  string      `json:"output,omitempty"` // path produced by compress/extract/download
	Failure *Failure    `json:"failure,omitempty"`
}

// Err returns the response's failure as an error, or nil.
func (r Response) Err() error {
	if r.Failure == nil {
		return nil
	}
	return r.Failure
}

// Gateway is the one asynchronous command channel the front end talks through.
// Dispatch never waits for the operation; the answer arrives on Responses.
type Gateway interface {
	Dispatch(req Request) error
	Responses() <-chan Response
}
