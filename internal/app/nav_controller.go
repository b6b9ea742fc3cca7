package app

import (
	"strings"

	"github.com/justyntemme/skiff/internal/backend"
	"github.com/justyntemme/skiff/internal/debug"
)

// NavigationController stamps every request with a token and remembers the
// newest listing request. Only that request's response may replace the view.
type NavigationController struct {
	gw      backend.Gateway
	next    int64
	latest  int64
	waiting bool // latest not yet answered
	loading bool
}

func NewNavigationController(gw backend.Gateway) *NavigationController {
	return &NavigationController{gw: gw}
}

func isListing(c backend.Command) bool {
	return c.ReturnsListing() || c == backend.ListDisks
}

// Dispatch sends req with a fresh token and returns it.
func (n *NavigationController) Dispatch(req backend.Request) (int64, error) {
	n.next++
	req.Token = n.next
	if isListing(req.Command) {
		n.latest = req.Token
		n.waiting = true
	}
	debug.Log(debug.GATEWAY, "dispatch %s token=%d", req.Command, req.Token)
	if err := n.gw.Dispatch(req); err != nil {
		if req.Token == n.latest {
			n.waiting, n.loading = false, false
		}
		return req.Token, err
	}
	return req.Token, nil
}

// navigate shows the loading placeholder, then dispatches.
func (n *NavigationController) navigate(req backend.Request) error {
	n.loading = true
	_, err := n.Dispatch(req)
	return err
}

// Open opens a directory in place or hands a file to the backend's opener.
func (n *NavigationController) Open(e backend.Entry) error {
	if e.IsDir {
		return n.navigate(backend.Request{Command: backend.OpenDir, Path: e.Path, Name: e.Name})
	}
	_, err := n.Dispatch(backend.Request{Command: backend.OpenItem, Path: e.Path})
	return err
}

func (n *NavigationController) GoHome() error {
	return n.navigate(backend.Request{Command: backend.GoHome})
}

// GoBack moves to the parent of the current directory.
func (n *NavigationController) GoBack() error {
	return n.navigate(backend.Request{Command: backend.GoBack})
}

// GoToDirectory navigates to a typed path; the backend expands it.
func (n *NavigationController) GoToDirectory(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return n.Refresh()
	}
	return n.navigate(backend.Request{Command: backend.GoToDir, Directory: path})
}

func (n *NavigationController) Refresh() error {
	return n.navigate(backend.Request{Command: backend.ListDirs})
}

// Search lists matches under the current directory. An empty query goes
// back to the plain listing.
func (n *NavigationController) Search(query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return n.CancelSearch()
	}
	return n.navigate(backend.Request{Command: backend.SearchFor, FileName: query})
}

func (n *NavigationController) CancelSearch() error {
	return n.Refresh()
}

func (n *NavigationController) ShowDisks() error {
	return n.navigate(backend.Request{Command: backend.ListDisks})
}

// Accept reports whether resp answers the newest listing request and, if so,
// clears the loading placeholder.
func (n *NavigationController) Accept(resp backend.Response) bool {
	if !n.waiting || resp.Token != n.latest {
		return false
	}
	n.waiting, n.loading = false, false
	return true
}

// Pending reports whether the newest listing request is still unanswered.
func (n *NavigationController) Pending() bool {
	return n.waiting
}

func (n *NavigationController) Loading() bool {
	return n.loading
}

// Latest is the token of the newest listing request.
func (n *NavigationController) Latest() int64 {
	return n.latest
}

// Abandon forgets the outstanding listing request, for when no response can
// arrive any more.
func (n *NavigationController) Abandon() {
	n.waiting, n.loading = false, false
}
