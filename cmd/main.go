package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/flowshot-io/frontier-dist/pkg/archiver"
	"github.com/flowshot-io/frontier-dist/pkg/bundle"
	"github.com/flowshot-io/frontier-dist/pkg/config"
	"github.com/flowshot-io/frontier-dist/pkg/logger"
	"github.com/flowshot-io/frontier-dist/pkg/publish"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type flags struct {
	configPath string
	pretty     bool
	logLevel   string
	publish    []string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "frontier-dist",
		Short: "Package the Frontier counter demo into a zip bundle",
		Long: `Writes README.md into the dist directory and zips it together with the
prebuilt frontier-wasm-host binary and counter_component.wasm guest component.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBundle(cmd, f)
		},
	}

	cmd.PersistentFlags().StringVar(&f.configPath, "config", "", "settings file overriding the bundle layout")
	cmd.PersistentFlags().BoolVar(&f.pretty, "pretty", false, "human readable log output")
	cmd.PersistentFlags().StringVar(&f.logLevel, "log-level", "info", "log level")
	cmd.Flags().StringArrayVar(&f.publish, "publish", nil, "storage connection string to upload the archive to (repeatable)")

	cmd.AddCommand(newListCommand(f))
	return cmd
}

func runBundle(cmd *cobra.Command, f *flags) error {
	settings, err := config.LoadSettings(f.configPath)
	if err != nil {
		return fmt.Errorf("error loading settings: %w", err)
	}

	log := logger.New(&logger.Options{Pretty: f.pretty, Level: f.logLevel})
	fs := afero.NewOsFs()
	layout := settings.Layout()

	result, err := bundle.New(&bundle.Options{Fs: fs, Layout: &layout, Logger: log}).Write()
	if err != nil {
		log.Error("Bundle failed", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}

	targets, err := publish.OpenTargets(append(settings.Publish, f.publish...))
	if err != nil {
		return err
	}

	return publish.New(&publish.Options{Fs: fs, Logger: log}).Publish(cmd.Context(), result.ArchivePath, targets)
}

func newListCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "list [archive]",
		Short: "List the entries of a bundle archive",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.LoadSettings(f.configPath)
			if err != nil {
				return fmt.Errorf("error loading settings: %w", err)
			}

			path := settings.Layout().ArchivePath()
			if len(args) == 1 {
				path = args[0]
			}

			entries, err := archiver.New(afero.NewOsFs()).List(path)
			if err != nil {
				return err
			}

			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%-28s %s\n", e.Name, humanize.Bytes(uint64(e.Size)))
			}
			return nil
		},
	}
}
