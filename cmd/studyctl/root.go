package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/config"
	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/generation"
	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/services"
)

var rootCmd = &cobra.Command{
	Use:          "studyctl",
	Short:        "Turn YouTube lectures into study notes and quizzes",
	Long:         "studyctl fetches a video's transcript and generates study notes or a graded quiz from it, falling back across model tiers and API keys when quotas run out.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringP("file", "f", "", "Read the transcript from a .txt, .pdf or .docx file instead of YouTube")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log every generation attempt to stderr")

	rootCmd.AddCommand(notesCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(transcriptCmd)
}

// app is what a command needs to reach the generation backend.
type app struct {
	cfg     *config.Config
	backend generation.Backend
	runner  *generation.Runner
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.LoadGeneration()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	backend, err := generation.NewBackend(cfg.GenerationProvider, cfg.BaseURL(), cfg.GeminiConcurrentReqs)
	if err != nil {
		return nil, err
	}

	logger := log.New(io.Discard, "", 0)
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	runner := generation.NewRunner(backend, generation.RunnerConfig{
		Tiers:          cfg.Tiers,
		Credentials:    cfg.Credentials(),
		Policy:         cfg.RotationPolicy,
		TierPause:      cfg.TierPause,
		AttemptTimeout: cfg.AttemptTimeout,
		Logger:         logger,
	})
	return &app{cfg: cfg, backend: backend, runner: runner}, nil
}

func (a *app) close() {
	if gemini, ok := a.backend.(*generation.GeminiBackend); ok {
		gemini.Close()
	}
}

// transcript resolves the command's input: the --file flag when set,
// otherwise a YouTube URL argument.
func (a *app) transcript(ctx context.Context, cmd *cobra.Command, args []string) (*services.Transcript, error) {
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		text, err := services.NewFileExtractService().ExtractTextFromPath(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return &services.Transcript{Text: text, Source: services.SourceUpload}, nil
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("pass a YouTube URL or --file")
	}
	videoID, err := services.ValidateYouTubeURL(args[0])
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			return nil, fmt.Errorf("%s", ve.Fields["url"])
		}
		return nil, err
	}

	var transcriber services.Transcriber
	if len(a.cfg.GeminiAPIKeys) > 0 {
		gemini, ok := a.backend.(*generation.GeminiBackend)
		if !ok {
			gemini = generation.NewGeminiBackend(a.cfg.GeminiConcurrentReqs)
		}
		transcriber = services.NewSpeechToText(gemini, a.cfg.GeminiAPIKeys, a.cfg.TranscriptionModel)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Fetching transcript for %s...\n", videoID)
	return services.NewYouTubeService(transcriber).FetchTranscript(ctx, videoID)
}
