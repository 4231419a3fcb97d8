package cmd

import (
	"context"
	"os"

	"emperror.dev/errors"
	"github.com/apex/log"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/dockmop/dockmop/cleanup"
	"github.com/dockmop/dockmop/config"
	"github.com/dockmop/dockmop/environment"
	"github.com/dockmop/dockmop/loggers/cli"
	"github.com/dockmop/dockmop/runtime"
	"github.com/dockmop/dockmop/system"
)

var rootArgs struct {
	Containers bool
	Volumes    bool
	Networks   bool
	Images     bool
	Standard   bool
	Full       bool
	Aggressive bool
	Usage      bool

	Host    string
	Debug   bool
	JSON    bool
	NoColor bool
}

func newRootCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "dockmop",
		Short: "Clean up stale Docker resources accumulated during local development.",
		Long: "dockmop finds and safely removes stale Docker resources: stopped containers,\n" +
			"dangling volumes, unused networks and dangling images. Run without flags for\n" +
			"an interactive menu, or pass category flags for non-interactive cleanup.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PreRun: func(cmd *cobra.Command, args []string) {
			initConfig()
			initLogging()
		},
		RunE: rootCmdRun,
	}

	flags := command.Flags()
	flags.BoolVar(&rootArgs.Containers, "containers", false, "remove stopped containers")
	flags.BoolVar(&rootArgs.Volumes, "volumes", false, "remove dangling volumes")
	flags.BoolVar(&rootArgs.Networks, "networks", false, "remove unused networks")
	flags.BoolVar(&rootArgs.Images, "images", false, "remove dangling images")
	flags.BoolVar(&rootArgs.Standard, "standard", false, "containers + volumes + networks")
	flags.BoolVar(&rootArgs.Full, "full", false, "standard + dangling images")
	flags.BoolVar(&rootArgs.Aggressive, "aggressive", false, "remove all unused resources including tagged images and build cache")
	flags.BoolVar(&rootArgs.Usage, "usage", false, "print the disk usage snapshot and exit")
	flags.StringVar(&rootArgs.Host, "host", "", "daemon endpoint override (defaults to DOCKER_HOST or the platform socket)")
	flags.BoolVar(&rootArgs.Debug, "debug", false, "enable debug logging")
	flags.BoolVar(&rootArgs.JSON, "json", false, "print the --usage snapshot as JSON")
	flags.BoolVar(&rootArgs.NoColor, "no-color", false, "disable colored output")

	// Composites and the usage report cannot be combined with each other or
	// with the atomic category flags.
	composites := []string{"standard", "full", "aggressive", "usage"}
	for i, a := range composites {
		for _, b := range composites[i+1:] {
			command.MarkFlagsMutuallyExclusive(a, b)
		}
		for _, atomic := range []string{"containers", "volumes", "networks", "images"} {
			command.MarkFlagsMutuallyExclusive(a, atomic)
		}
	}

	return command
}

// Execute runs the root command. Exit code 1 is reserved for the two fatal
// conditions: an unreachable daemon and an unrecognized environment.
// Everything else, including an operator decline and partial removal
// failures, exits 0.
func Execute() {
	log.SetHandler(cli.Default)
	if err := newRootCommand().Execute(); err != nil {
		log.WithError(err).Error("exiting")
		if errors.Is(err, runtime.ErrRuntimeUnavailable) {
			log.Error("could not reach the container runtime: is the Docker daemon running?")
		}
		os.Exit(1)
	}
}

func initConfig() {
	c, err := config.NewDefault()
	if err != nil {
		panic(err)
	}
	c.Host = rootArgs.Host
	if rootArgs.Debug {
		c.Debug = true
	}
	if rootArgs.NoColor {
		c.NoColor = true
	}
	config.Set(c)
}

func initLogging() {
	log.SetHandler(cli.Default)
	log.SetLevel(log.InfoLevel)
	if config.Get().Debug {
		log.SetLevel(log.DebugLevel)
	}
}

func rootCmdRun(cmd *cobra.Command, _ []string) error {
	cfg := config.Get()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	env, err := environment.Detect(cfg.Host)
	if err != nil {
		return err
	}
	log.WithField("platform", env.Platform).WithField("endpoint", env.Endpoint).Debug("detected environment")

	client, err := runtime.NewDocker(ctx, env.Endpoint, cfg.Timeout)
	if err != nil {
		return err
	}
	defer client.Close()

	if cfg.Debug {
		if info, err := client.Info(ctx); err == nil {
			log.WithField("version", info.Version).
				WithField("driver", info.Driver).
				WithField("containers", info.Containers).
				Debug("connected to daemon")
		}
	}

	display := cleanup.NewDisplayContext(cfg.NoColor)
	logger := log.WithField("subsystem", "cleanup")

	if rootArgs.Usage {
		return runUsage(ctx, client, display)
	}

	runner := &cleanup.Runner{
		Client:     client,
		Classifier: cleanup.NewClassifier(cfg.ExtraReservedNetworks),
		Display:    display,
		Log:        logger,
	}

	categories := selectedCategories()
	if len(categories) == 0 {
		runner.Gate = &cleanup.InteractiveGate{Display: display}
		menu := &cleanup.Menu{Runner: runner}
		return menu.Run(ctx)
	}

	runner.Gate = &cleanup.BatchGate{
		Requested: requestedKinds(categories),
		In:        cmd.InOrStdin(),
		Out:       cmd.OutOrStdout(),
	}
	for _, cat := range categories {
		if err := runner.RunCategory(ctx, cat); err != nil {
			return err
		}
	}
	return nil
}

// runUsage handles --usage: exactly one snapshot query, no mutation.
func runUsage(ctx context.Context, client *runtime.Docker, display *cleanup.DisplayContext) error {
	snap, err := client.Usage(ctx)
	if err != nil {
		return err
	}
	disks, err := system.HostDiskUsage()
	if err != nil {
		log.WithError(err).Debug("host disk usage unavailable")
		disks = nil
	}

	if rootArgs.JSON {
		out, err := json.MarshalIndent(struct {
			Docker system.UsageSnapshot `json:"docker"`
			Host   []system.HostDisk    `json:"host_disks,omitempty"`
		}{Docker: snap, Host: disks}, "", "  ")
		if err != nil {
			return errors.Wrap(err, "encoding usage snapshot")
		}
		display.Printf("%s\n", out)
		return nil
	}

	display.RenderUsage(snap, disks)
	return nil
}

// selectedCategories maps the category flags to their run order. Atomic
// flags may be combined; they always execute in the fixed order containers,
// volumes, networks, images.
func selectedCategories() []cleanup.Category {
	switch {
	case rootArgs.Standard:
		return []cleanup.Category{cleanup.Standard}
	case rootArgs.Full:
		return []cleanup.Category{cleanup.Full}
	case rootArgs.Aggressive:
		return []cleanup.Category{cleanup.Aggressive}
	}

	var categories []cleanup.Category
	if rootArgs.Containers {
		categories = append(categories, cleanup.Containers)
	}
	if rootArgs.Volumes {
		categories = append(categories, cleanup.Volumes)
	}
	if rootArgs.Networks {
		categories = append(categories, cleanup.Networks)
	}
	if rootArgs.Images {
		categories = append(categories, cleanup.Images)
	}
	return categories
}

func requestedKinds(categories []cleanup.Category) map[runtime.Kind]bool {
	requested := make(map[runtime.Kind]bool)
	for _, cat := range categories {
		for _, kind := range cat.Kinds {
			requested[kind] = true
		}
	}
	return requested
}
