// Package main provides the frvmusic terminal player.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/afero"

	"github.com/llehouerou/frvmusic/internal/app"
	"github.com/llehouerou/frvmusic/internal/catalog"
	"github.com/llehouerou/frvmusic/internal/config"
	"github.com/llehouerou/frvmusic/internal/errmsg"
	"github.com/llehouerou/frvmusic/internal/logger"
	"github.com/llehouerou/frvmusic/internal/mpris"
	"github.com/llehouerou/frvmusic/internal/notify"
	"github.com/llehouerou/frvmusic/internal/placement"
	"github.com/llehouerou/frvmusic/internal/playback"
	"github.com/llehouerou/frvmusic/internal/player"
	"github.com/llehouerou/frvmusic/internal/player/embed"
	"github.com/llehouerou/frvmusic/internal/player/embed/mpv"
	"github.com/llehouerou/frvmusic/internal/player/local"
	"github.com/llehouerou/frvmusic/internal/player/speaker"
	"github.com/llehouerou/frvmusic/internal/state"
	"github.com/llehouerou/frvmusic/internal/stderr"
)

var (
	cli         = kingpin.New("frvmusic", "Terminal music player for local audio and embedded video tracks")
	configPath  = cli.Flag("config", "Path to config file (default: ~/.config/frvmusic/config.toml, ./config.toml)").String()
	catalogPath = cli.Flag("catalog", "Path to the catalog JSON file, overrides the config").String()
	verbose     = cli.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile     = cli.Flag("logfile", "Path to log file (default: XDG state dir)").String()
	noMPRIS     = cli.Flag("no-mpris", "Do not register on the D-Bus session bus").Bool()
	noVideo     = cli.Flag("no-video", "Disable the embedded video player").Bool()
)

func main() {
	kingpin.MustParse(cli.Parse(os.Args[1:]))

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "frvmusic: %v\n", err)
		os.Exit(1)
	}
	if *catalogPath != "" {
		cfg.CatalogPath = *catalogPath
	}
	if *noVideo {
		cfg.Embed.Driver = "none"
	}

	// The terminal belongs to the UI, so logs always go to a file.
	logCfg := logger.Config{Output: "file", Level: cfg.Log.Level, File: cfg.Log.File}
	if *verbose {
		logCfg.Level = "debug"
	}
	if *logfile != "" {
		logCfg.File = *logfile
	}
	logCloser, err := logger.Init(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "frvmusic: init logger: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	if err := run(cfg); err != nil {
		zlog.Error().Err(err).Msg("frvmusic exited with error")
		stderr.WriteOriginal(errmsg.Format(errmsg.OpInitialize, err) + "\n")
		logCloser.Close()
		os.Exit(1)
	}
}

// run wires the session and blocks until the UI exits. Keeping this out
// of main lets the deferred cleanups run on every return.
func run(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := stderr.Start(func(line string) {
		zlog.Warn().Str("source", "stderr").Msg(line)
	}); err != nil {
		zlog.Warn().Err(err).Msg("stderr capture unavailable")
	}
	defer stderr.Stop()

	cat, err := catalog.Load(ctx, afero.NewOsFs(), cfg.CatalogPath)
	if err != nil {
		return err
	}
	zlog.Info().Str("path", cfg.CatalogPath).Int("tracks", len(cat.Tracks())).Msg("catalog loaded")

	store, err := state.Open(cfg.StatePath)
	if err != nil {
		return errors.Wrap(err, "open state")
	}
	defer store.Close()

	prefs, err := store.Load()
	if err != nil {
		zlog.Warn().Err(err).Msg("using default preferences")
	}
	if !prefs.VolumeSaved {
		prefs.Volume = cfg.Playback.DefaultVolume
	}

	backends := []player.Backend{local.New(speaker.New)}
	var boot *embed.Bootstrap
	if cfg.EmbedEnabled() {
		boot = embed.NewBootstrap(mpv.Loader(mpv.Options{
			Path:      cfg.Embed.MPVPath,
			ExtraArgs: cfg.Embed.MPVArgs,
		}))
		defer func() {
			if err := boot.Close(); err != nil {
				zlog.Warn().Err(err).Msg("close mpv")
			}
		}()
		backends = append(backends, embed.New(boot, cfg.PollInterval()))
	}

	coord := playback.NewCoordinator(playback.NewEngine(), cat, store, playback.Config{
		Volume:         prefs.Volume,
		SkipUnplayable: cfg.Playback.SkipUnplayable,
	}, backends...)
	defer func() {
		if err := coord.Close(); err != nil {
			zlog.Warn().Err(err).Msg("close playback")
		}
	}()
	restoreQueue(coord, cat, store, prefs.LastTrackID)

	// Subscribed after the restore so the paused startup track is not announced.
	if cfg.Notifications {
		notifier, err := notify.New()
		if err != nil {
			zlog.Warn().Err(err).Msg("notifications unavailable")
		} else {
			go notify.NewNowPlaying(notifier, cat).Run(ctx, coord.Subscribe())
		}
	}

	prox := app.NewProximity()
	pc := placement.NewController(initialMode(prefs.EmbedMode, cfg.Embed.DefaultMode), prox, store)
	defer pc.Close()
	if boot != nil {
		pc.OnChange(mpv.Follow(ctx, boot, pc.Surface))
	}

	if !*noMPRIS {
		adapter, err := mpris.New(coord, cat)
		if err != nil {
			zlog.Warn().Err(err).Msg("mpris unavailable")
		} else {
			defer adapter.Close()
		}
	}

	opts := app.Options{
		Coordinator: coord,
		Catalog:     cat,
		State:       store,
		Placement:   pc,
		Proximity:   prox,
		SeekStep:    cfg.Playback.SeekStepSec,
		Preferences: prefs,
	}
	if boot != nil {
		opts.Embed = boot
	}

	p := tea.NewProgram(app.New(opts),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	)
	if _, err := p.Run(); err != nil {
		return errors.Wrap(err, "run ui")
	}
	return nil
}

// restoreQueue installs the saved queue, dropping ids no longer in the
// catalog. Without a saved queue the whole catalog is queued. Playback
// stays paused either way.
func restoreQueue(coord *playback.Coordinator, cat *catalog.Catalog, store state.Interface, lastTrackID string) {
	ids := catalog.TrackIDs(cat.Tracks())
	startID := lastTrackID

	saved, err := store.GetQueue()
	if err != nil {
		zlog.Warn().Err(err).Msg("could not read saved queue")
	} else if saved != nil && len(saved.TrackIDs) > 0 {
		if saved.CurrentIndex >= 0 && saved.CurrentIndex < len(saved.TrackIDs) {
			startID = saved.TrackIDs[saved.CurrentIndex]
		}
		known := lo.Filter(saved.TrackIDs, func(id string, _ int) bool {
			_, ok := cat.Track(id)
			return ok
		})
		if len(known) > 0 {
			ids = known
		}
	}
	if len(ids) == 0 {
		return
	}
	coord.Restore(ids, startID)
}

func initialMode(saved, fallback string) placement.Mode {
	for _, name := range []string{saved, fallback} {
		if name == "" {
			continue
		}
		mode, err := placement.ParseMode(name)
		if err == nil {
			return mode
		}
		zlog.Warn().Err(err).Msg("ignoring embed mode")
	}
	return placement.ModeSidebar
}
