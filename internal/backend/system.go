package backend

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/justyntemme/skiff/internal/debug"
	"github.com/justyntemme/skiff/internal/safego"
)

// ErrClosed is returned by Dispatch after Close.
var ErrClosed = errors.New("backend: closed")

const (
	defaultSearchDepth = 4
	defaultViewMode    = "wrap"
)

// Options configures a System.
type Options struct {
	StartPath     string
	HomePath      string
	SearchDepth   int
	UseTrash      bool
	WatchDebounce time.Duration // zero disables directory watching
	Settings      SettingsStore
	Providers     []CloudProvider
	Opener        func(path string) error

	// Observe is called after every handled command, on the goroutine that handled it.
	Observe func(cmd Command, failure *Failure, elapsed time.Duration)
}

// System is the in-process backend. Requests are consumed by Start in order;
// search, compress and extract run on their own goroutines so that they never
// hold up navigation.
type System struct {
	RequestChan  chan Request
	ResponseChan chan Response

	opts      Options
	home      string
	settings  SettingsStore
	providers []CloudProvider
	opener    func(string) error
	watcher   *dirWatcher

	mu  sync.RWMutex
	cwd string

	done      chan struct{}
	closeOnce sync.Once
	jobs      sync.WaitGroup
}

func NewSystem(opts Options) *System {
	home := opts.HomePath
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	start := opts.StartPath
	if start == "" {
		start = home
	}
	if opts.SearchDepth <= 0 {
		opts.SearchDepth = defaultSearchDepth
	}
	settings := opts.Settings
	if settings == nil {
		settings = NewMemorySettings()
	}
	opener := opts.Opener
	if opener == nil {
		opener = platformOpen
	}

	s := &System{
		RequestChan:  make(chan Request, 32),
		ResponseChan: make(chan Response, 32),
		opts:         opts,
		home:         home,
		settings:     settings,
		providers:    opts.Providers,
		opener:       opener,
		cwd:          start,
		done:         make(chan struct{}),
	}
	if opts.WatchDebounce > 0 {
		w, err := newDirWatcher(opts.WatchDebounce, s.send)
		if err != nil {
			debug.Log(debug.WATCH, "watcher disabled: %v", err)
		} else {
			s.watcher = w
			w.Watch(start)
		}
	}
	return s
}

// Dispatch queues req for Start. It implements Gateway.
func (s *System) Dispatch(req Request) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}
	select {
	case s.RequestChan <- req:
		return nil
	case <-s.done:
		return ErrClosed
	}
}

// Responses implements Gateway.
func (s *System) Responses() <-chan Response {
	return s.ResponseChan
}

// Cwd returns the directory the backend is currently showing.
func (s *System) Cwd() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cwd
}

func (s *System) setCwd(dir string) {
	s.mu.Lock()
	s.cwd = dir
	s.mu.Unlock()
	if s.watcher != nil {
		s.watcher.Watch(dir)
	}
	if !isRemotePath(dir) {
		if err := s.settings.SaveSetting(settingLastDir, dir); err != nil {
			debug.Log(debug.BACKEND, "save last_dir: %v", err)
		}
	}
}

// Start runs the request loop until Close.
func (s *System) Start() {
	for {
		select {
		case <-s.done:
			return
		case req := <-s.RequestChan:
			debug.Log(debug.BACKEND, "request: %s token=%d", req.Command, req.Token)
			if isBackground(req.Command) {
				s.runBackground(req)
				continue
			}
			s.send(s.Handle(context.Background(), req))
		}
	}
}

// Close stops the loop and the watcher. Background jobs still running have
// their responses dropped.
func (s *System) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		if s.watcher != nil {
			s.watcher.Close()
		}
	})
}

// Wait blocks until all background jobs have finished.
func (s *System) Wait() {
	s.jobs.Wait()
}

func (s *System) send(resp Response) {
	select {
	case s.ResponseChan <- resp:
	case <-s.done:
		debug.Log(debug.BACKEND, "dropping %s response token=%d: closed", resp.Command, resp.Token)
	}
}

func isBackground(c Command) bool {
	return c == SearchFor || c == CompressItem || c == ExtractItem
}

func (s *System) runBackground(req Request) {
	cwd := s.Cwd()
	s.jobs.Add(1)
	var once sync.Once
	finish := func(resp Response) {
		once.Do(func() {
			s.send(resp)
			s.jobs.Done()
		})
	}
	safego.GoWithRecover(func() {
		finish(s.handleAt(context.Background(), req, cwd))
	}, func(r any) {
		finish(Response{Command: req.Command, Token: req.Token, Dir: cwd,
			Failure: failf(KindInternal, "%s crashed: %v", req.Command, r)})
	})
}

// Handle executes req synchronously against the current directory.
func (s *System) Handle(ctx context.Context, req Request) Response {
	return s.handleAt(ctx, req, s.Cwd())
}

func (s *System) handleAt(ctx context.Context, req Request, cwd string) Response {
	started := time.Now()
	resp, err := s.exec(ctx, req, cwd)
	resp.Command = req.Command
	resp.Token = req.Token
	if err != nil {
		resp.Failure = AsFailure(err)
		resp.Entries = nil
		resp.Disks = nil
		if resp.Dir == "" {
			resp.Dir = cwd
		}
	}
	debug.Log(debug.BACKEND, "response: %s token=%d entries=%d failure=%v",
		resp.Command, resp.Token, len(resp.Entries), resp.Failure)
	if s.opts.Observe != nil {
		s.opts.Observe(req.Command, resp.Failure, time.Since(started))
	}
	return resp
}

func (s *System) exec(ctx context.Context, req Request, cwd string) (Response, error) {
	if err := Validate(req); err != nil {
		return Response{}, err
	}

	switch req.Command {
	case ListDirs:
		return s.listing(ctx, cwd)

	case OpenDir:
		return s.changeDir(ctx, req.Path)

	case GoHome:
		return s.changeDir(ctx, s.home)

	case GoBack:
		return s.changeDir(ctx, parentDir(cwd))

	case GoToDir:
		return s.changeDir(ctx, expandPath(req.Directory, cwd, s.home))

	case OpenItem:
		out, err := s.openItem(ctx, req.Path)
		return Response{Dir: cwd, Output: out}, err

	case SearchFor:
		entries, err := s.search(ctx, cwd, req.FileName)
		if err != nil {
			return Response{}, err
		}
		return Response{Dir: cwd, Entries: entries}, nil

	case CreateFolder:
		out, err := s.createFolder(cwd, req.FolderName)
		return Response{Dir: cwd, Output: out}, err

	case CreateFile:
		out, err := s.createFile(cwd, req.FileName)
		return Response{Dir: cwd, Output: out}, err

	case RenameElement:
		out, err := s.rename(req.Path, req.NewName)
		return Response{Dir: cwd, Output: out}, err

	case DeleteItem:
		if err := s.deleteItem(cwd, req.ActFileName); err != nil {
			return Response{}, err
		}
		return s.listing(ctx, cwd)

	case CopyPaste:
		if _, err := s.copyInto(ctx, cwd, req.FromPath, req.ActFileName); err != nil {
			return Response{}, err
		}
		return s.listing(ctx, cwd)

	case ArrCopyPaste:
		dest := cwd
		if req.CopyToPath != "" {
			dest = expandPath(req.CopyToPath, cwd, s.home)
		}
		if err := s.copyMany(ctx, dest, req.ArrItems); err != nil {
			return Response{}, err
		}
		if req.IsForDualPane {
			return s.listing(ctx, dest)
		}
		return s.listing(ctx, cwd)

	case CompressItem:
		out, err := s.compress(ctx, req.FromPath)
		return Response{Dir: cwd, Output: out}, err

	case ExtractItem:
		out, err := s.extract(ctx, req.FromPath)
		return Response{Dir: cwd, Output: out}, err

	case ListDisks:
		disks, err := listDisks(ctx)
		if err != nil {
			return Response{}, err
		}
		return Response{Dir: cwd, Disks: disks}, nil

	case SwitchView:
		if err := s.settings.SaveSetting(settingViewMode, req.ViewMode); err != nil {
			return Response{}, fmt.Errorf("persist view mode: %w", err)
		}
		resp, err := s.listing(ctx, cwd)
		if err == nil {
			resp.Config = s.appConfig()
		}
		return resp, err

	case CheckConfig:
		return Response{Dir: cwd, Config: s.appConfig()}, nil

	case GetCurrentDir:
		return Response{Dir: cwd}, nil
	}

	return Response{}, failf(KindUnsupported, "unknown command %q", req.Command)
}

func (s *System) listing(ctx context.Context, dir string) (Response, error) {
	entries, err := s.readDir(ctx, dir)
	if err != nil {
		return Response{Dir: dir}, err
	}
	return Response{Dir: dir, Entries: entries}, nil
}

func (s *System) changeDir(ctx context.Context, dir string) (Response, error) {
	if !isRemotePath(dir) {
		dir = filepath.Clean(dir)
	}
	resp, err := s.listing(ctx, dir)
	if err != nil {
		return Response{}, err
	}
	s.setCwd(dir)
	return resp, nil
}

func (s *System) appConfig() *AppConfig {
	cfg := &AppConfig{ViewMode: defaultViewMode}
	settings, err := s.settings.Settings()
	if err != nil {
		debug.Log(debug.BACKEND, "read settings: %v", err)
		return cfg
	}
	if v := settings[settingViewMode]; v == "wrap" || v == "column" {
		cfg.ViewMode = v
	}
	cfg.LastDir = settings[settingLastDir]
	return cfg
}

func (s *System) readDir(ctx context.Context, dir string) ([]Entry, error) {
	if p := s.providerFor(dir); p != nil {
		return p.ReadDir(ctx, dir)
	}
	if isRemotePath(dir) {
		return nil, failf(KindUnsupported, "no provider for %s", remoteScheme(dir))
	}
	return listDir(dir)
}
