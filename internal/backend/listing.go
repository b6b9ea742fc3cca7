package backend

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/justyntemme/skiff/internal/debug"
	"github.com/justyntemme/skiff/internal/search"
)

// skipDirRoots are top-level directories a recursive search never enters.
var skipDirRoots = map[string]bool{
	"dev":        true,
	"proc":       true,
	"sys":        true,
	"run":        true,
	"snap":       true,
	"boot":       true,
	"lost+found": true,
}

func shouldSkipPath(path string) bool {
	if len(path) < 2 || path[0] != '/' {
		return false
	}
	rest := path[1:]
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return skipDirRoots[rest]
}

func requireDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return failf(KindInvalid, "%s is not a directory", dir)
	}
	return nil
}

func entryFromInfo(path string, info fs.FileInfo) Entry {
	e := Entry{
		Name:         info.Name(),
		Path:         path,
		IsDir:        info.IsDir(),
		Size:         info.Size(),
		LastModified: info.ModTime(),
	}
	if !e.IsDir {
		e.Extension = filepath.Ext(e.Name)
	} else {
		e.Size = 0
	}
	return e
}

// sortEntries orders directories first, then by case-folded name.
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		a, b := strings.ToLower(entries[i].Name), strings.ToLower(entries[j].Name)
		if a != b {
			return a < b
		}
		return entries[i].Path < entries[j].Path
	})
}

// listDir returns the direct children of dir. Symlinks are followed; a
// dangling link is listed with its own lstat info.
func listDir(dir string) ([]Entry, error) {
	debug.Log(debug.BACKEND, "listDir: reading %q", dir)
	if err := requireDir(dir); err != nil {
		return nil, err
	}

	var (
		result []Entry
		mu     sync.Mutex
	)
	conf := &fastwalk.Config{Follow: true, MaxDepth: 1}

	err := fastwalk.Walk(conf, dir, func(fullPath string, d fs.DirEntry, err error) error {
		if err != nil {
			if fullPath == dir {
				return err
			}
			debug.Log(debug.BACKEND_WALK, "listDir: walk error at %q: %v", fullPath, err)
			return nil
		}
		if fullPath == dir {
			return nil
		}

		info, err := fastwalk.StatDirEntry(fullPath, d)
		if err != nil {
			info, err = os.Lstat(fullPath)
			if err != nil {
				debug.Log(debug.BACKEND_WALK, "listDir: skipping %q: %v", d.Name(), err)
				return nil
			}
		}

		mu.Lock()
		result = append(result, entryFromInfo(fullPath, info))
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortEntries(result)
	return result, nil
}

// search walks dir up to the query's depth and returns the matching entries.
func (s *System) search(ctx context.Context, dir, query string) ([]Entry, error) {
	if p := s.providerFor(dir); p != nil {
		return p.Search(ctx, dir, query, s.opts.SearchDepth)
	}

	if err := requireDir(dir); err != nil {
		return nil, err
	}
	q := search.Parse(query)
	if q.IsEmpty() {
		return listDir(dir)
	}
	maxDepth := q.Depth(s.opts.SearchDepth)
	matcher := search.NewMatcherWithContext(ctx, q)
	debug.Log(debug.BACKEND, "search: dir=%q query=%q depth=%d", dir, query, maxDepth)

	var (
		results []Entry
		mu      sync.Mutex
	)
	// Symlinks are not followed so that a link to an ancestor cannot loop.
	conf := &fastwalk.Config{Follow: false, MaxDepth: maxDepth}

	err := fastwalk.Walk(conf, dir, func(fullPath string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			if fullPath == dir {
				return err
			}
			return nil
		}
		if fullPath == dir {
			return nil
		}
		if shouldSkipPath(fullPath) {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		info, err := fastwalk.StatDirEntry(fullPath, d)
		if err != nil {
			if info, err = os.Lstat(fullPath); err != nil {
				return nil
			}
		}
		if !info.IsDir() && !info.Mode().IsRegular() {
			return nil
		}

		if matcher.Match(fullPath, info) {
			debug.Log(debug.BACKEND_WALK, "search: match %s", fullPath)
			mu.Lock()
			results = append(results, entryFromInfo(fullPath, info))
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortEntries(results)
	return results, nil
}
