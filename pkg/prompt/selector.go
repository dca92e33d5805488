package prompt

import (
	"fmt"

	"github.com/jroimartin/gocui"
)

const optionsView = "options"

// selector is a full-screen single-choice list.
type selector struct {
	message string
	options []string
	chosen  int
}

func runSelector(message string, options []string) (int, error) {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return 0, fmt.Errorf("starting selector: %w", err)
	}
	defer g.Close()

	s := &selector{message: message, options: options, chosen: -1}

	g.Highlight = true
	g.SelFgColor = gocui.ColorGreen
	g.BgColor = gocui.ColorDefault
	g.FgColor = gocui.ColorWhite
	g.SetManagerFunc(s.layout)

	if err := s.setupKeyBindings(g); err != nil {
		return 0, fmt.Errorf("binding keys: %w", err)
	}

	if err := g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return 0, err
	}
	if s.chosen < 0 {
		return 0, ErrAborted
	}
	return s.chosen, nil
}

func (s *selector) setupKeyBindings(g *gocui.Gui) error {
	bindings := []struct {
		key     interface{}
		handler func(*gocui.Gui, *gocui.View) error
	}{
		{gocui.KeyCtrlC, s.quit},
		{gocui.KeyEsc, s.quit},
		{'q', s.quit},
		{gocui.KeyArrowDown, s.cursorDown},
		{'j', s.cursorDown},
		{gocui.KeyArrowUp, s.cursorUp},
		{'k', s.cursorUp},
		{'g', s.goToTop},
		{gocui.KeyHome, s.goToTop},
		{'G', s.goToBottom},
		{gocui.KeyEnd, s.goToBottom},
		{gocui.KeyEnter, s.choose},
	}
	for _, b := range bindings {
		if err := g.SetKeybinding("", b.key, gocui.ModNone, b.handler); err != nil {
			return err
		}
	}
	return nil
}

func (s *selector) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()

	// Shrink to the list when it fits, leaving one row for the hint.
	bottom := len(s.options) + 1
	if bottom > maxY-2 {
		bottom = maxY - 2
	}

	if v, err := g.SetView(optionsView, 0, 0, maxX-1, bottom); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = s.message
		v.Highlight = true
		v.SelBgColor = gocui.ColorGreen
		v.SelFgColor = gocui.ColorBlack
		for _, option := range s.options {
			fmt.Fprintln(v, option)
		}
		if _, err := g.SetCurrentView(optionsView); err != nil {
			return err
		}
	}

	if v, err := g.SetView("hint", 0, bottom+1, maxX-1, bottom+3); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Frame = false
		fmt.Fprint(v, "↑/↓ or j/k to move, enter to select, esc to cancel")
	}
	return nil
}

// index is the option under the cursor.
func index(v *gocui.View) int {
	_, oy := v.Origin()
	_, cy := v.Cursor()
	return oy + cy
}

func (s *selector) cursorDown(g *gocui.Gui, v *gocui.View) error {
	v = g.CurrentView()
	if v == nil || index(v) >= len(s.options)-1 {
		return nil
	}
	cx, cy := v.Cursor()
	if err := v.SetCursor(cx, cy+1); err != nil {
		ox, oy := v.Origin()
		if err := v.SetOrigin(ox, oy+1); err != nil {
			return err
		}
	}
	return nil
}

func (s *selector) cursorUp(g *gocui.Gui, v *gocui.View) error {
	v = g.CurrentView()
	if v == nil {
		return nil
	}
	ox, oy := v.Origin()
	cx, cy := v.Cursor()
	if err := v.SetCursor(cx, cy-1); err != nil && oy > 0 {
		if err := v.SetOrigin(ox, oy-1); err != nil {
			return err
		}
	}
	return nil
}

func (s *selector) goToTop(g *gocui.Gui, v *gocui.View) error {
	v = g.CurrentView()
	if v != nil {
		v.SetCursor(0, 0)
		v.SetOrigin(0, 0)
	}
	return nil
}

func (s *selector) goToBottom(g *gocui.Gui, v *gocui.View) error {
	v = g.CurrentView()
	if v == nil {
		return nil
	}
	_, maxY := v.Size()
	last := len(s.options) - 1
	if last >= maxY {
		v.SetOrigin(0, last-maxY+1)
		v.SetCursor(0, maxY-1)
	} else {
		v.SetOrigin(0, 0)
		v.SetCursor(0, last)
	}
	return nil
}

func (s *selector) choose(g *gocui.Gui, v *gocui.View) error {
	if v = g.CurrentView(); v != nil {
		s.chosen = index(v)
	}
	return gocui.ErrQuit
}

func (s *selector) quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}
