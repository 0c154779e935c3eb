// Package terminal runs the story map editor in a terminal. Mouse drags are
// fed to the chart, keys drive the controller, and the chart is redrawn
// through the render package after every change.
package terminal

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"storymap/canvas"
	"storymap/controller"
	"storymap/editor"
	"storymap/geometry"
	"storymap/render"
	"storymap/uid"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog"
)

const (
	panCols       = 8
	panRows       = 4
	timelineWidth = 28
)

const freeEndHint = "drop on a character to move a free end (Esc cancels)"

const helpText = "n:character a:association r:rename d:delete t:timeline T:event s:save o:open e:$EDITOR q:quit"

// Options controls how the chart is shown.
type Options struct {
	ScaleX float64 // chart units per column
	ScaleY float64 // chart units per row
	Style  render.Style
}

// App is the interactive editor. It is the chart's drawing surface.
type App struct {
	screen   tcell.Screen
	ctl      *controller.Controller
	renderer *render.Renderer
	vp       render.Viewport
	log      zerolog.Logger

	pointer   geometry.Point
	pressed   bool // mouse button 1 is down
	prompt    *prompt
	status    string
	timeline  bool
	quitArmed bool
	done      bool
}

// prompt is a one-line text input on the status row.
type prompt struct {
	label string
	text  []rune
	done  func(string) error
}

// New creates an app drawing on screen. The screen is initialised by Run.
func New(screen tcell.Screen, ctl *controller.Controller, opts Options, log zerolog.Logger) *App {
	a := &App{
		screen:   screen,
		ctl:      ctl,
		renderer: render.NewRenderer(opts.Style),
		vp:       render.Viewport{ScaleX: opts.ScaleX, ScaleY: opts.ScaleY},
		log:      log,
	}
	ctl.Chart().SetSurface(a)
	return a
}

// Run initialises the screen and processes events until the user quits.
func (a *App) Run() error {
	if err := a.screen.Init(); err != nil {
		return fmt.Errorf("failed to setup terminal: %w", err)
	}
	defer a.screen.Fini()
	a.screen.EnableMouse(tcell.MouseMotionEvents)
	a.screen.HideCursor()

	a.draw()
	for !a.done {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		a.HandleEvent(ev)
	}
	return nil
}

// Done reports whether the user has quit.
func (a *App) Done() bool { return a.done }

// Status returns the message shown on the status row.
func (a *App) Status() string { return a.status }

// Refresh redraws the screen. The chart calls it after every visual change.
func (a *App) Refresh() {
	a.draw()
}

// HandleEvent processes one terminal event.
func (a *App) HandleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventMouse:
		a.handleMouse(ev)
	case *tcell.EventKey:
		if a.prompt != nil {
			a.handlePrompt(ev)
		} else {
			a.handleKey(ev)
		}
	}
	a.draw()
}

func (a *App) chartSize() (int, int) {
	w, h := a.screen.Size()
	if a.timeline {
		w -= timelineWidth
	}
	return max(w, 0), max(h-1, 0)
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	w, h := a.chartSize()
	down := ev.Buttons()&tcell.Button1 != 0
	if (x >= w || y >= h) && !a.pressed {
		return
	}

	p := a.vp.ToChart(canvas.Point{X: x, Y: y})
	a.pointer = p
	chart := a.ctl.Chart()

	switch {
	case down && !a.pressed:
		a.pressed = true
		idle := chart.State() == editor.StateIdle
		t := chart.HitTest(p)
		chart.Press(p, t)
		if ep, ok := a.endpoint(t); idle && ok && ep.Attached == uid.None {
			// a free end only moves by way of a character
			a.status = freeEndHint
		}
	case down:
		chart.Move(p)
	case a.pressed:
		a.pressed = false
		if _, onNode := chart.NodeAt(p); onNode && a.status == freeEndHint {
			a.status = ""
		}
		chart.Release(p)
	default:
		// an endpoint being placed follows the pointer
		chart.Move(p)
	}
}

// endpoint returns the endpoint a target points at.
func (a *App) endpoint(t editor.Target) (editor.EndpointView, bool) {
	if t.Kind != editor.TargetEndpoint {
		return editor.EndpointView{}, false
	}
	for _, av := range a.ctl.Chart().Associations() {
		switch t.ID {
		case av.Start.ID:
			return av.Start, true
		case av.End.ID:
			return av.End, true
		}
	}
	return editor.EndpointView{}, false
}

func (a *App) handleKey(ev *tcell.EventKey) {
	if ev.Key() != tcell.KeyRune || ev.Rune() != 'q' {
		a.quitArmed = false
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		a.ctl.Chart().Cancel()
		a.status = ""
	case tcell.KeyCtrlC:
		a.done = true
	case tcell.KeyLeft:
		a.vp = a.vp.Pan(-panCols, 0)
	case tcell.KeyRight:
		a.vp = a.vp.Pan(panCols, 0)
	case tcell.KeyUp:
		a.vp = a.vp.Pan(0, -panRows)
	case tcell.KeyDown:
		a.vp = a.vp.Pan(0, panRows)
	case tcell.KeyHome:
		a.vp.Origin = geometry.Point{}
	case tcell.KeyDelete:
		a.deleteAtPointer()
	case tcell.KeyRune:
		a.handleRune(ev.Rune())
	}
}

func (a *App) handleRune(r rune) {
	at := a.pointer
	switch r {
	case 'q':
		a.quit()
	case '?':
		a.status = helpText
	case 'n':
		a.ask("Character name: ", "", func(name string) error {
			_, err := a.ctl.CreateCharacter(name, "", at.X, at.Y)
			return err
		})
	case 'a':
		a.ask("Association label: ", "", func(label string) error {
			_, err := a.ctl.CreateAssociation(label, at)
			if err == nil {
				a.status = "click to place the end of the association"
			}
			return err
		})
	case 'r':
		a.rename()
	case 'd':
		a.deleteAtPointer()
	case 't':
		a.timeline = !a.timeline
	case 'T':
		a.timeline = true
		a.ask("Event: ", "", func(name string) error {
			a.ctl.NewEvent(name, "")
			return nil
		})
	case 's':
		if a.ctl.Path() == "" {
			a.ask("Save as: ", "", a.save)
			return
		}
		a.report(a.save(""))
	case 'S':
		a.ask("Save as: ", a.ctl.Path(), a.save)
	case 'o':
		a.ask("Open: ", "", func(path string) error {
			if err := a.ctl.Open(path); err != nil {
				return err
			}
			a.status = "opened " + filepath.Base(path)
			return nil
		})
	case 'N':
		a.report(a.ctl.NewProject())
	case 'e':
		a.report(a.editExternally())
	}
}

func (a *App) quit() {
	if a.ctl.HasChanges() && !a.quitArmed {
		a.quitArmed = true
		a.status = "unsaved changes, press q again to quit"
		return
	}
	a.done = true
}

func (a *App) save(path string) error {
	if err := a.ctl.Save(path); err != nil {
		return err
	}
	a.status = "saved " + filepath.Base(a.ctl.Path())
	return nil
}

func (a *App) rename() {
	t := a.ctl.Chart().HitTest(a.pointer)
	switch t.Kind {
	case editor.TargetNode:
		ch, ok := a.ctl.Project().Relationships.Character(t.ID)
		if !ok {
			return
		}
		a.ask("Rename: ", ch.Name, func(name string) error {
			return a.ctl.EditCharacter(ch.ID, name, ch.Description)
		})
	case editor.TargetEndpoint:
		for _, av := range a.ctl.Chart().Associations() {
			if av.Start.ID != t.ID && av.End.ID != t.ID {
				continue
			}
			id := av.ID
			a.ask("Label: ", av.Label, func(label string) error {
				return a.ctl.EditAssociationLabel(id, label)
			})
			return
		}
	}
}

func (a *App) deleteAtPointer() {
	removed, err := a.ctl.Delete(a.pointer)
	if err != nil {
		a.report(err)
		return
	}
	if !removed {
		a.status = "nothing to delete here"
	}
}

func (a *App) ask(label, initial string, done func(string) error) {
	a.prompt = &prompt{label: label, text: []rune(initial), done: done}
}

func (a *App) handlePrompt(ev *tcell.EventKey) {
	p := a.prompt
	switch ev.Key() {
	case tcell.KeyEscape:
		a.prompt = nil
	case tcell.KeyEnter:
		a.prompt = nil
		a.status = ""
		a.report(p.done(strings.TrimSpace(string(p.text))))
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(p.text) > 0 {
			p.text = p.text[:len(p.text)-1]
		}
	case tcell.KeyRune:
		p.text = append(p.text, ev.Rune())
	}
}

// report shows err on the status row.
func (a *App) report(err error) {
	if err == nil {
		return
	}
	a.log.Warn().Err(err).Msg("command failed")
	switch {
	case errors.Is(err, editor.ErrGestureInProgress):
		a.status = "finish the current drag first (Esc cancels)"
	case errors.Is(err, controller.ErrNoPath):
		a.status = "no file name, use S to save as"
	default:
		a.status = "error: " + err.Error()
	}
}

func (a *App) draw() {
	w, h := a.screen.Size()
	a.screen.Clear()

	cw, ch := a.chartSize()
	if c := canvas.NewMatrixCanvas(cw, ch); c != nil {
		a.renderer.Draw(c, render.SceneFromChart(a.ctl.Chart()), a.vp)
		for y, row := range c.Matrix() {
			for x, r := range row {
				if r == 0 {
					continue // right half of a wide rune
				}
				a.screen.SetContent(x, y, r, nil, tcell.StyleDefault)
			}
		}
	}
	if a.timeline {
		a.drawTimeline(cw, ch)
	}
	if h > 0 {
		a.drawStatus(w, h-1)
	}
	a.screen.Show()
}

func (a *App) drawTimeline(x0, height int) {
	border := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for y := 0; y < height; y++ {
		a.screen.SetContent(x0, y, '│', nil, border)
	}
	a.drawText(x0+2, 0, x0+timelineWidth, "Timeline", tcell.StyleDefault.Bold(true))
	for i, e := range a.ctl.Project().Timeline.Events() {
		if i+2 >= height {
			break
		}
		a.drawText(x0+2, i+2, x0+timelineWidth, fmt.Sprintf("%d. %s", i+1, e.Name), tcell.StyleDefault)
	}
}

func (a *App) drawStatus(width, y int) {
	style := tcell.StyleDefault.Reverse(true)
	for x := 0; x < width; x++ {
		a.screen.SetContent(x, y, ' ', nil, style)
	}

	if a.prompt != nil {
		end := a.drawText(0, y, width, a.prompt.label+string(a.prompt.text), style)
		a.screen.ShowCursor(end, y)
		return
	}
	a.screen.HideCursor()

	name := "untitled"
	if a.ctl.Path() != "" {
		name = filepath.Base(a.ctl.Path())
	}
	if a.ctl.HasChanges() {
		name += " [+]"
	}
	right := fmt.Sprintf(" %s  %s ", name, a.ctl.Chart().State())
	rx := max(width-runewidth.StringWidth(right), 0)
	a.drawText(0, y, rx, a.status, style)
	a.drawText(rx, y, width, right, style)
}

// drawText writes s from column x, stopping before column limit, and
// returns the column after the last rune written.
func (a *App) drawText(x, y, limit int, s string, style tcell.Style) int {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if x+w > limit {
			break
		}
		a.screen.SetContent(x, y, r, nil, style)
		x += w
	}
	return x
}
