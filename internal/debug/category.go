// Package debug is categorized trace logging, compiled in with -tags debug.
// SKIFF_DEBUG selects categories: "all", "none" or a list such as "APP,MENU".
package debug

import "strings"

type Category string

const (
	APP     Category = "APP"
	GATEWAY Category = "GATEWAY" // request/response traffic
	BACKEND Category = "BACKEND"
	STORE   Category = "STORE"
	UI      Category = "UI"
	MENU    Category = "MENU"
	DROP    Category = "DROP"
	WATCH   Category = "WATCH"

	BACKEND_WALK Category = "BACKEND_WALK" // one line per walked entry
	UI_EVENT     Category = "UI_EVENT"
)

var categories = []Category{APP, GATEWAY, BACKEND, STORE, UI, MENU, DROP, WATCH, BACKEND_WALK, UI_EVENT}

func verbose(c Category) bool { return c == BACKEND_WALK || c == UI_EVENT }

// parseSelection turns a SKIFF_DEBUG value into the enabled set. An empty
// value enables everything but the verbose categories.
func parseSelection(s string) map[Category]bool {
	on := make(map[Category]bool, len(categories))
	switch s = strings.ToUpper(strings.TrimSpace(s)); s {
	case "":
		for _, c := range categories {
			on[c] = !verbose(c)
		}
	case "ALL":
		for _, c := range categories {
			on[c] = true
		}
	case "NONE":
	default:
		for _, name := range strings.Split(s, ",") {
			if name = strings.TrimSpace(name); name != "" {
				on[Category(name)] = true
			}
		}
	}
	return on
}
