package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	gotritonclient "github.com/okieraised/go-triton-client"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"

	attendance "github.com/vagdevi08/Employee-Attendance-Marking-Application"
	"github.com/vagdevi08/Employee-Attendance-Marking-Application/config"
	"github.com/vagdevi08/Employee-Attendance-Marking-Application/internal/store"
	"github.com/vagdevi08/Employee-Attendance-Marking-Application/internal/web"
	"github.com/vagdevi08/Employee-Attendance-Marking-Application/modules"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the attendance HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	logger := newLogger()
	settings := config.LoadSettings()

	pool, err := store.NewPool(settings)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	ctx := context.Background()
	if err := store.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}

	gallery := store.NewGalleryCache(store.NewEnrolledRepository(pool))
	if err := gallery.Load(ctx); err != nil {
		return fmt.Errorf("priming gallery cache: %w", err)
	}
	attendanceRepo := store.NewAttendanceRepository(pool)

	pipeline, modelLoaded, err := buildPipeline(settings, gallery, attendanceRepo, logger)
	if err != nil {
		return err
	}
	defer pipeline.Detector.Close()

	health := func(ctx context.Context) (bool, bool) {
		return modelLoaded, pool.Ping(ctx) == nil
	}

	server := web.NewServer(pipeline, health, settings.APIKey, settings.Host, settings.Port, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("signal received, shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildPipeline assembles the detector, extractor and policy from settings.
// The boolean result reports whether the trained model backs the extractor;
// with USE_FALLBACK_EXTRACTOR set the degraded-mode gradient histogram
// extractor takes over and health reports the model as not loaded.
func buildPipeline(settings *config.Settings, enrolled store.EnrolledStore, attendanceStore store.AttendanceStore, logger *slog.Logger) (*attendance.Pipeline, bool, error) {
	detectorParams := *config.DefaultFaceDetectorParams
	detectorParams.CascadeFile = settings.CascadeFile
	detector, err := modules.NewFaceDetector(&detectorParams, config.DefaultDetectionStrategies())
	if err != nil {
		return nil, false, fmt.Errorf("initializing face detector: %w", err)
	}

	embedParams := *config.DefaultFaceEmbeddingParams
	embedParams.ModelName = settings.ModelName
	embedParams.Threshold = settings.ConfidenceThreshold

	var extractor modules.FeatureExtractor
	modelLoaded := false
	if settings.UseFallbackExtractor {
		logger.Warn("using fallback extractor, embeddings are not model-based")
		hog, err := modules.NewHOGExtractor(embedParams.ImgSize, logger)
		if err != nil {
			detector.Close()
			return nil, false, fmt.Errorf("initializing fallback extractor: %w", err)
		}
		extractor = hog
	} else {
		triton, err := gotritonclient.NewTritonGRPCClient(
			settings.TritonURL,
			grpc.WithTransportCredentials(insecure.NewCredentials()),
			grpc.WithKeepaliveParams(keepalive.ClientParameters{PermitWithoutStream: true}),
		)
		if err != nil {
			detector.Close()
			return nil, false, fmt.Errorf("connecting to inference server: %w", err)
		}

		session, err := modules.NewTritonSession(triton, &embedParams)
		if err != nil {
			detector.Close()
			return nil, false, fmt.Errorf("binding embedding model: %w", err)
		}
		extractor = modules.NewFaceEmbeddingClient(session, &embedParams, logger)
		modelLoaded = true
	}

	policy := modules.NewAttendancePolicy(settings.MaxAttendancePerDay)
	return attendance.NewPipeline(detector, extractor, &embedParams, policy, enrolled, attendanceStore, logger), modelLoaded, nil
}
