package main

import (
	"context"
	"fmt"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/cpu3d/pkg/render"
)

// viewer owns the terminal session. Events and frames are handled on one
// goroutine, so the scene needs no locking.
type viewer struct {
	cfg   *config
	term  *uv.Terminal
	scene *render.Scene
	ctrl  *render.Controller

	intent    render.Intent
	showStats bool
}

// viewerOptions sizes the frame to the terminal: one pixel per column and
// two per row, drawn with half blocks.
func viewerOptions(cfg *config, cols, rows int) render.Options {
	opts := cfg.options()
	opts.Width, opts.Height = max(cols, 1), max(rows*2, 2)
	w, h := opts.RenderSize()
	opts.TilesAcross = max(min(opts.TilesAcross, w), 1)
	opts.TilesUp = max(min(opts.TilesUp, h), 1)
	return opts
}

func runViewer(ctx context.Context, cfg *config, model string) error {
	term := uv.DefaultTerminal()
	cols, rows, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	sc, err := newScene(cfg, viewerOptions(cfg, cols, rows), model)
	if err != nil {
		return err
	}

	if err := term.Start(); err != nil {
		sc.Close()
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(cols, rows)

	v := &viewer{
		cfg:       cfg,
		term:      term,
		scene:     sc,
		ctrl:      render.NewController(max(cfg.fps, 1)),
		showStats: true,
	}
	defer v.close()

	return v.loop(ctx)
}

func (v *viewer) close() {
	v.scene.Close()
	v.term.ExitAltScreen()
	v.term.ShowCursor()
	v.term.Shutdown(context.Background())
}

func (v *viewer) loop(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(max(v.cfg.fps, 1)))
	defer ticker.Stop()

	events := v.term.Events()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			quit, err := v.handle(ev)
			if err != nil || quit {
				return err
			}
		case <-ticker.C:
			if err := v.frame(); err != nil {
				return err
			}
		}
	}
}

// handle applies one terminal event and reports whether to quit.
func (v *viewer) handle(ev uv.Event) (bool, error) {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		return false, v.resize(ev.Width, ev.Height)

	case uv.KeyPressEvent:
		flags := &v.scene.Flags
		switch {
		case ev.MatchString("q", "escape", "ctrl+c"):
			return true, nil
		case ev.MatchString("w"):
			v.intent.LookUp = 1
		case ev.MatchString("s"):
			v.intent.LookUp = -1
		case ev.MatchString("a"):
			v.intent.TurnRight = -1
		case ev.MatchString("d"):
			v.intent.TurnRight = 1
		case ev.MatchString("up"):
			v.intent.Forward = 1
		case ev.MatchString("down"):
			v.intent.Forward = -1
		case ev.MatchString("left"):
			v.intent.Strafe = -1
		case ev.MatchString("right"):
			v.intent.Strafe = 1
		case ev.MatchString("space"):
			v.intent.Lift = 1
		case ev.MatchString("shift+space"):
			v.intent.Lift = -1
		case ev.MatchString("c"):
			flags.BackfaceCulling = !flags.BackfaceCulling
		case ev.MatchString("g"):
			flags.GammaCorrection = !flags.GammaCorrection
		case ev.MatchString("h"):
			flags.Shadows = !flags.Shadows
		case ev.MatchString("l"):
			flags.Lighting = !flags.Lighting
		case ev.MatchString("x"):
			flags.Wireframe = !flags.Wireframe
		case ev.MatchString("i"):
			flags.ShowLights = !flags.ShowLights
		case ev.MatchString("?", "shift+/"):
			v.showStats = !v.showStats
		}

	case uv.KeyReleaseEvent:
		switch {
		case ev.MatchString("w", "s"):
			v.intent.LookUp = 0
		case ev.MatchString("a", "d"):
			v.intent.TurnRight = 0
		case ev.MatchString("up", "down"):
			v.intent.Forward = 0
		case ev.MatchString("left", "right"):
			v.intent.Strafe = 0
		case ev.MatchString("space", "shift+space"):
			v.intent.Lift = 0
		}
	}
	return false, nil
}

// resize replaces the scene with one sized for the new terminal, moving
// the shapes, lights, camera and flags across.
func (v *viewer) resize(cols, rows int) error {
	old := v.scene
	sc, err := render.NewScene(viewerOptions(v.cfg, cols, rows))
	if err != nil {
		return err
	}
	sc.Flags = old.Flags
	*sc.Camera() = *old.Camera()
	for _, s := range old.Shapes() {
		sc.AddShape(s)
	}
	for _, l := range old.Lights() {
		sc.AddLight(l)
	}
	old.Close()
	v.scene = sc

	v.term.Erase()
	v.term.Resize(cols, rows)
	return nil
}

// frame advances the camera by one controller tick and paints a frame.
func (v *viewer) frame() error {
	v.scene.Camera().Update(v.ctrl.Step(v.intent))
	v.decayIntent()

	img, err := v.scene.Render()
	if err != nil {
		return err
	}
	if v.showStats {
		st := v.scene.Stats()
		text := fmt.Sprintf("%.1fms %d tris", float64(st.Duration.Microseconds())/1000, st.Triangles)
		render.DrawText(img, 1, render.TextHeight()-2, text, render.ColorWhite)
	}

	render.TerminalFrame{Image: img}.Draw(v.term, v.term.Bounds())
	return v.term.Display()
}

// decayIntent fades held keys, since many terminals never report a key
// release.
func (v *viewer) decayIntent() {
	const fade = 0.85
	v.intent.LookUp *= fade
	v.intent.TurnRight *= fade
	v.intent.Forward *= fade
	v.intent.Strafe *= fade
	v.intent.Lift *= fade
}
