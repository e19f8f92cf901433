package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-authoring/internal/config"
	"github.com/KirkDiggler/rpg-authoring/internal/entities/authoring"
	session "github.com/KirkDiggler/rpg-authoring/internal/orchestrators/authoring"
	"github.com/KirkDiggler/rpg-authoring/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-authoring/internal/pkg/idgen"
)

var (
	replaySubmit  bool
	replayDiscard bool
)

var replayCmd = &cobra.Command{
	Use:   "replay [script.json]",
	Short: "Run a scripted editing session against the configured backend",
	Long: `Replay applies the steps of a script to a live editing session, saves
everything, optionally submits the draft and prints the final draft as JSON.

Attachment files are resolved relative to the script.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&replaySubmit, "submit", false, "Submit the draft after the last step")
	replayCmd.Flags().BoolVar(&replayDiscard, "discard", false, "Delete the draft when done")
}

func runReplay(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sc, err := readScript(args[0])
	if err != nil {
		return err
	}
	if replaySubmit {
		sc.Submit = true
	}

	return replay(ctx, cfg, sc, filepath.Dir(args[0]), cmd.OutOrStdout())
}

// replay runs sc against the backend cfg selects and writes the final draft to out
func replay(ctx context.Context, cfg *config.Config, sc *script, dir string, out io.Writer) error {
	client, cleanup, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	s, err := session.New(&session.Config{
		Client: client,
		Clock:  clock.New(),
		Delay:  cfg.Debounce,
		IDs:    idgen.NewULID(),
		Draft:  sc.Draft,
	})
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	defer s.Close()

	for i, st := range sc.Steps {
		if err := st.apply(ctx, s, dir); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, st.Op, err)
		}
	}

	if err := s.Flush(ctx); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}

	result := struct {
		Draft  *authoring.Draft  `json:"draft"`
		Errors map[string]string `json:"errors,omitempty"`
		GameID string            `json:"game_id,omitempty"`
	}{}

	if sc.Submit {
		submitted, err := s.Submit(ctx)
		if err != nil {
			return fmt.Errorf("failed to submit draft: %w", err)
		}
		result.GameID = submitted.GameID
	}
	result.Draft = s.Draft()
	result.Errors = s.Errors()

	if replayDiscard {
		if err := s.Discard(ctx); err != nil {
			return fmt.Errorf("failed to discard draft: %w", err)
		}
		slog.InfoContext(ctx, "draft discarded", "draft_id", result.Draft.ID)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
