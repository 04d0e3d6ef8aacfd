package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/contre95/lxbridge/src/features/bridge"
	"github.com/contre95/lxbridge/src/features/hosting"
	"github.com/contre95/lxbridge/src/features/metadata"
	"github.com/contre95/lxbridge/src/features/opening"
	"github.com/contre95/lxbridge/src/infra/mediastore"
	"github.com/contre95/lxbridge/src/music"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bridge server (default)",
	RunE:  runServe,
}

var readCmd = &cobra.Command{
	Use:   "read <path>",
	Short: "Print the metadata of an audio file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRead,
}

var writeCmd = &cobra.Command{
	Use:   "write <path>",
	Short: "Write metadata to an audio file",
	Args:  cobra.ExactArgs(1),
	RunE:  runWrite,
}

var picCmd = &cobra.Command{
	Use:   "pic <path>",
	Short: "Extract the embedded picture of an audio file",
	Args:  cobra.ExactArgs(1),
	RunE:  runPic,
}

var openCmd = &cobra.Command{
	Use:   "open <uri>",
	Short: "Match and resolve an intent URI without a running server",
	Args:  cobra.ExactArgs(1),
	RunE:  runOpen,
}

var indexCmd = &cobra.Command{
	Use:   "index <path>",
	Short: "Add a file or directory to the content index",
	Args:  cobra.ExactArgs(1),
	RunE:  runIndex,
}

func runServe(cmd *cobra.Command, args []string) error {
	app, err := newApplication()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create the media scanner
	scanner, err := mediastore.NewScanner(app.store)
	if err != nil {
		return fmt.Errorf("failed to create media scanner: %w", err)
	}
	scanner.SetObserver(app.metrics)
	storeCfg := app.cfg.Get().MediaStore
	if storeCfg.ScanOnStart {
		for _, dir := range storeCfg.WatchDirs {
			if _, err := scanner.ScanDir(ctx, dir); err != nil {
				slog.Error("Initial media scan failed", "dir", dir, "error", err)
			}
		}
	}
	if len(storeCfg.WatchDirs) > 0 {
		if err := scanner.Start(ctx, storeCfg.WatchDirs...); err != nil {
			return fmt.Errorf("failed to watch media directories: %w", err)
		}
	}
	defer scanner.Stop()
	if count, err := app.store.Count(ctx); err != nil {
		slog.Warn("Failed to count indexed files", "error", err)
	} else {
		slog.Info("Content index ready", "files", count, "watching", len(storeCfg.WatchDirs))
	}

	server := hosting.NewServer(app.cfg, app.router, app.emitter, app.metadata, app.metrics)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server started. Press Ctrl+C to shut down.", "port", app.cfg.Get().Server.Port)
		return server.Start()
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutting down server...")
		return server.Shutdown()
	})
	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("Server gracefully shut down.")
	return nil
}

func runRead(cmd *cobra.Command, args []string) error {
	app, err := newApplication()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()
	fields, err := app.metadata.ReadMetadata(ctx, args[0]).Wait(ctx)
	if err != nil {
		return err
	}
	return printJSON(fields)
}

func runWrite(cmd *cobra.Command, args []string) error {
	app, err := newApplication()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()
	flags := cmd.Flags()
	var fields metadata.Fields
	if flags.Changed("title") {
		v, _ := flags.GetString("title")
		fields.Name = &v
	}
	if flags.Changed("artist") {
		v, _ := flags.GetString("artist")
		fields.Singer = &v
	}
	if flags.Changed("quality") {
		v, _ := flags.GetString("quality")
		fields.Quality = &v
	}
	if flags.Changed("pic") {
		v, _ := flags.GetString("pic")
		fields.PicURL = &v
	}
	overwrite, _ := flags.GetBool("overwrite")

	if _, err := app.metadata.SaveMetadata(ctx, args[0], fields, overwrite).Wait(ctx); err != nil {
		return err
	}
	if picFile, _ := flags.GetString("pic-file"); picFile != "" {
		if _, err := app.metadata.WritePic(ctx, args[0], picFile).Wait(ctx); err != nil {
			return err
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Metadata written:", args[0])
	return nil
}

func runPic(cmd *cobra.Command, args []string) error {
	app, err := newApplication()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()
	out, _ := cmd.Flags().GetString("out")
	path, err := app.metadata.ReadPic(ctx, args[0], out).Wait(ctx)
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "No embedded picture")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func runOpen(cmd *cobra.Command, args []string) error {
	app, err := newApplication()
	if err != nil {
		return err
	}
	defer app.Close()

	mime, _ := cmd.Flags().GetString("mime")
	in := opening.NewViewIntent(args[0], mime)
	if action, _ := cmd.Flags().GetString("action"); action != "" {
		in.Action = action
	}

	rec := &bridge.Recorder{}
	app.emitter.Attach(rec)
	res := app.router.HandleIntent(cmd.Context(), in)
	return printJSON(struct {
		opening.Result
		Events []bridge.Event `json:"events"`
	}{res, rec.Events()})
}

func runIndex(cmd *cobra.Command, args []string) error {
	app, err := newApplication()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()
	target, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	info, err := os.Stat(target)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		if !music.IsAudioFile(target) {
			return errors.New("not an audio file: " + target)
		}
		handle, err := app.store.Index(ctx, target)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), handle)
		return nil
	}

	scanner, err := mediastore.NewScanner(app.store)
	if err != nil {
		return err
	}
	defer scanner.Stop()
	n, err := scanner.ScanDir(ctx, target)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d files\n", n)
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
