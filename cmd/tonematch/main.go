package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli"

	"github.com/valerio/go-tonematch/tonematch/audio"
	"github.com/valerio/go-tonematch/tonematch/audio/player"
	"github.com/valerio/go-tonematch/tonematch/backend"
	"github.com/valerio/go-tonematch/tonematch/backend/headless"
	"github.com/valerio/go-tonematch/tonematch/backend/panel"
	"github.com/valerio/go-tonematch/tonematch/backend/terminal"
	"github.com/valerio/go-tonematch/tonematch/config"
	"github.com/valerio/go-tonematch/tonematch/game"
	"github.com/valerio/go-tonematch/tonematch/hw"
	"github.com/valerio/go-tonematch/tonematch/input"
	"github.com/valerio/go-tonematch/tonematch/timing"
)

func main() {
	app := cli.NewApp()
	app.Name = "tonematch"
	app.Description = "A pitch memory game on a simulated tone board"
	app.Usage = "tonematch [options]"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "Path to a YAML configuration file",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Play unattended from an answer script, without a terminal interface",
		},
		cli.StringFlag{
			Name:  "script",
			Usage: "Comma separated answers for headless mode, e.g. ok,miss,ok (missing once exhausted)",
		},
		cli.IntFlag{
			Name:  "max-frames",
			Usage: "Stop headless mode after N frames (0 = run until the alarm)",
		},
		cli.Uint64Flag{
			Name:  "seed",
			Usage: "Seed for the round picker (0 = seed from the clock)",
		},
		cli.BoolFlag{
			Name:  "skip-demo",
			Usage: "Start with the first round instead of the demo",
		},
		cli.IntFlag{
			Name:  "threshold",
			Usage: "Number of strikes that ends the game",
		},
		cli.BoolFlag{
			Name:  "mute",
			Usage: "Do not play audio on the host",
		},
		cli.StringFlag{
			Name:  "panel",
			Usage: "Serial port of an external LED panel",
		},
		cli.IntFlag{
			Name:  "panel-baud",
			Usage: "Baud rate of the LED panel",
		},
		cli.BoolFlag{
			Name:  "list-ports",
			Usage: "List serial ports an LED panel could use and exit",
		},
	}
	app.Action = runGame

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running game", "error", err)
		os.Exit(1)
	}
}

// loadConfig layers the config file and then the flags over the defaults.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}

	if c.IsSet("seed") {
		cfg.Game.Seed = c.Uint64("seed")
	}
	if c.Bool("skip-demo") {
		cfg.Game.SkipDemo = true
	}
	if c.IsSet("threshold") {
		cfg.Game.StrikeThreshold = c.Int("threshold")
	}
	if c.Bool("mute") || c.Bool("headless") {
		cfg.Audio.Mute = true
	}
	if c.IsSet("panel") {
		cfg.Panel.Port = c.String("panel")
	}
	if c.IsSet("panel-baud") {
		cfg.Panel.Baud = c.Int("panel-baud")
	}

	return cfg, cfg.Validate()
}

func runGame(c *cli.Context) error {
	if c.Bool("list-ports") {
		ports, err := panel.Ports()
		if err != nil {
			return err
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return nil
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	var be backend.Backend
	var limiter timing.Limiter
	if c.Bool("headless") {
		script, err := headless.ParseScript(c.String("script"))
		if err != nil {
			return err
		}
		be = headless.New(c.Int("max-frames"), script)
		limiter = timing.NewNoOpLimiter()
	} else {
		be = terminal.New()
		limiter = cfg.Limiter()
	}

	if err := be.Init(backend.Config{Title: "Tone Match", StrikeThreshold: cfg.Game.StrikeThreshold}); err != nil {
		return err
	}
	defer be.Cleanup()

	board := hw.NewBoard(cfg.BoardSettings())
	board.SetLimiter(limiter)

	seq := audio.NewSequencer(board.Timer, board.DAC, &audio.Sine)
	board.Timer.InterruptHandler = seq.OnTick

	if !cfg.Audio.Mute {
		out, err := player.New(cfg.Audio.SampleRate)
		if err != nil {
			// play on without sound
			slog.Warn("Audio unavailable", "error", err)
		} else {
			out.Setup(board.DAC)
			out.Start()
			defer out.Close()
		}
	}

	if cfg.Panel.Port != "" {
		p, err := panel.Open(cfg.Panel.Port, cfg.Panel.Baud)
		if err != nil {
			return err
		}
		defer p.Close()
		if err := p.Attach(board.LEDs); err != nil {
			return err
		}
	}

	seed := cfg.Game.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	slog.Debug("Round picker seeded", "seed", seed)

	machine, err := game.NewMachine(cfg.Settings(), seq, board, board, board, game.NewRandSource(seed))
	if err != nil {
		return err
	}

	pump := backend.NewPump(be, input.NewManager(board.Buttons), func() backend.View {
		s := machine.Session()
		return backend.View{
			Frame:       board.Frames(),
			Elapsed:     board.Elapsed(),
			LEDs:        board.LEDs.Snapshot(),
			Playing:     seq.Armed(),
			State:       s.State,
			LastPitch:   s.LastPitch,
			Rounds:      s.Rounds,
			Strikes:     s.Strikes,
			Hits:        s.Hits,
			AlarmCycles: s.AlarmCycles,
		}
	})
	board.SetFrameHook(pump.Frame)

	err = machine.Run()
	s := machine.Session()
	slog.Info("Session ended", "rounds", s.Rounds, "hits", s.Hits, "strikes", s.Strikes, "state", s.State.String())
	if errors.Is(err, game.ErrQuit) {
		return nil
	}
	return err
}
