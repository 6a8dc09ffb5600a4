// Package navigation turns menu API responses into the entries a sidebar
// renders.
package navigation

import (
	"fmt"
	"io"
	"strings"

	"github.com/idcard-hub/idcard-menu-services/models"
)

// Link is a single navigation target.
type Link struct {
	Title string
	URL   string
}

// Entry is one top-level sidebar item. Expandable entries have children and
// no URL of their own.
type Entry struct {
	ID         string
	Title      string
	Icon       string
	URL        string
	Expandable bool
	Children   []Link
}

// View is what a sidebar shows for one response: either entries or a
// message explaining why there are none.
type View struct {
	Message string
	Entries []Entry
}

// FromResponse builds the sidebar view for a menu response.
func FromResponse(resp models.MenuResponse) View {
	if !resp.Success {
		return View{Message: resp.Message}
	}

	menus := resp.Data.All()
	entries := make([]Entry, 0, len(menus))
	for _, menu := range menus {
		entries = append(entries, entryFor(menu))
	}
	return View{Message: resp.Message, Entries: entries}
}

func entryFor(menu models.Menu) Entry {
	entry := Entry{
		ID:    menu.ID,
		Title: menu.Title,
	}
	if menu.Icon != nil {
		entry.Icon = *menu.Icon
	}

	if menu.IsCollapsible {
		entry.Expandable = true
		entry.Children = make([]Link, 0, len(menu.SubMenus))
		for _, sub := range menu.SubMenus {
			entry.Children = append(entry.Children, Link{Title: sub.Title, URL: sub.URL})
		}
		return entry
	}

	if menu.URL != nil {
		entry.URL = *menu.URL
	}
	return entry
}

// Write prints the view as an indented tree.
func (v View) Write(w io.Writer) error {
	if len(v.Entries) == 0 {
		msg := v.Message
		if msg == "" {
			msg = "no menu entries"
		}
		_, err := fmt.Fprintln(w, msg)
		return err
	}

	var b strings.Builder
	for _, e := range v.Entries {
		if e.Expandable {
			fmt.Fprintf(&b, "▸ %s\n", e.Title)
			for _, c := range e.Children {
				fmt.Fprintf(&b, "    %s  %s\n", c.Title, c.URL)
			}
			continue
		}
		fmt.Fprintf(&b, "  %s  %s\n", e.Title, e.URL)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
