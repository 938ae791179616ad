package app

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/frvmusic/internal/catalog"
	"github.com/llehouerou/frvmusic/internal/keymap"
	"github.com/llehouerou/frvmusic/internal/placement"
	"github.com/llehouerou/frvmusic/internal/playback"
	"github.com/llehouerou/frvmusic/internal/state"
	"github.com/llehouerou/frvmusic/internal/ui/playerbar"
	"github.com/llehouerou/frvmusic/internal/ui/styles"
	"github.com/llehouerou/frvmusic/internal/ui/tracklist"
)

const volumeStep = 0.05

// EmbedStatus reports the video player bootstrap.
// *embed.Bootstrap implements it.
type EmbedStatus interface {
	Done() <-chan struct{}
	Err() error
}

// Options holds the collaborators of the UI.
type Options struct {
	Coordinator *playback.Coordinator
	Catalog     *catalog.Catalog
	State       state.Interface
	Placement   *placement.Controller
	Proximity   *Proximity
	Embed       EmbedStatus // nil when the video player is disabled
	SeekStep    float64     // seconds
	Preferences state.Preferences
}

// Model is the root application model.
type Model struct {
	coord     *playback.Coordinator
	catalog   *catalog.Catalog
	state     state.Interface
	placement *placement.Controller
	proximity *Proximity
	embed     EmbedStatus
	sub       *playback.Subscription
	keys      *keymap.Resolver

	tracks      tracklist.Model
	help        help.Model
	search      textinput.Model
	searching   bool
	filter      string
	artistID    string

	playlists  []state.Playlist
	playlistID string // listed playlist
	targetID   string // playlist that receives added tracks
	nameInput  textinput.Model
	naming     bool
	showHelp    bool
	displayMode playerbar.DisplayMode

	favorites  []string
	theme      state.Theme
	seekStep   float64
	lastVolume float64
	embedErr   error
	errorMsg   string

	width, height int
}

// New creates the application model.
func New(opts Options) Model {
	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "title, artist or tag"

	name := textinput.New()
	name.Prompt = "New playlist: "
	name.CharLimit = 80

	h := help.New()
	h.ShowAll = true

	prox := opts.Proximity
	if prox == nil {
		prox = NewProximity()
	}
	seek := opts.SeekStep
	if seek <= 0 {
		seek = 5
	}

	m := Model{
		coord:      opts.Coordinator,
		catalog:    opts.Catalog,
		state:      opts.State,
		placement:  opts.Placement,
		proximity:  prox,
		embed:      opts.Embed,
		sub:        opts.Coordinator.Subscribe(),
		keys:       keymap.NewResolver(keymap.Bindings),
		tracks:     tracklist.New(opts.Catalog),
		help:       h,
		search:     search,
		nameInput:  name,
		playlists:  opts.Preferences.Playlists,
		favorites:  opts.Preferences.Favorites,
		theme:      opts.Preferences.Theme,
		seekStep:   seek,
		lastVolume: state.DefaultVolume,
	}
	styles.Use(string(m.theme))
	m.tracks.SetFavorites(m.favorites)
	m.tracks.SetPlaying(m.coord.Status().CurrentID)
	m.refreshTracks()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.WatchServiceEvents(), m.WatchEmbedLoad(), TickCmd())
}
