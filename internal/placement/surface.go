package placement

// Target is where the surface is rendered.
type Target int

const (
	TargetSidebar Target = iota // the inline anchor next to the track list
	TargetDock                  // the full-window dock layer
)

func (t Target) String() string {
	if t == TargetDock {
		return "dock"
	}
	return "sidebar"
}

// Surface is the rendering decision for the embedded video.
type Surface struct {
	Mode       Mode
	Target     Target
	Visible    bool // an embedded track is active and the mode is not hidden
	Active     bool // the dock is in use
	Fullscreen bool
	Background bool
	Floating   bool
	Hidden     bool
}

func surfaceFor(mode Mode, embedded, background bool) Surface {
	s := Surface{
		Mode:     mode,
		Target:   TargetSidebar,
		Visible:  embedded && mode != ModeHidden,
		Floating: mode.Floating(),
		Hidden:   mode == ModeHidden,
	}
	if mode != ModeSidebar {
		s.Target = TargetDock
	}
	s.Active = embedded && mode != ModeSidebar
	s.Fullscreen = s.Active && mode == ModeFullscreen
	s.Background = s.Fullscreen && background
	return s
}

// Flags lists the set surface flags in a fixed order: active,
// fullscreen, background, floating, hidden.
func (s Surface) Flags() []string {
	var out []string
	for _, f := range []struct {
		set  bool
		name string
	}{
		{s.Active, "active"},
		{s.Fullscreen, "fullscreen"},
		{s.Background, "background"},
		{s.Floating, "floating"},
		{s.Hidden, "hidden"},
	} {
		if f.set {
			out = append(out, f.name)
		}
	}
	return out
}
