// Package speech turns uploaded audio/video into timestamped text through an
// external speech-recognition engine.
package speech

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"videoquiz/ai-services/internal/apperror"
	"videoquiz/ai-services/models"
)

const tracerName = "videoquiz/ai-services/internal/speech"

// SupportedExtensions lists the accepted upload containers, lower case.
var SupportedExtensions = []string{".mp4", ".wav", ".mp3", ".m4a", ".avi", ".mov"}

// Engine is a loaded speech-recognition model.
type Engine interface {
	Name() string
	Loaded() bool
	Transcribe(ctx context.Context, audioPath string, opts DecodeOptions) (*models.TranscriptionResult, error)
}

// AudioPreparer rewrites an input file into engine-friendly audio at outputPath
// and returns its duration.
type AudioPreparer interface {
	Prepare(ctx context.Context, inputPath, outputPath string) (time.Duration, error)
}

// Request is one transcription call.
type Request struct {
	Filename string
	Body     io.Reader
	Language string
	Task     string
}

// Transcriber validates uploads, spools them to per-request temp files and
// runs them through the engine. Temp files never outlive the call.
type Transcriber struct {
	engine   Engine
	preparer AudioPreparer
	tempDir  string
	log      *logrus.Logger
	tracer   trace.Tracer
}

// NewTranscriber wires a Transcriber. engine and preparer may be nil; a nil
// engine makes every call fail as unavailable.
func NewTranscriber(engine Engine, preparer AudioPreparer, tempDir string, log *logrus.Logger) *Transcriber {
	return &Transcriber{
		engine:   engine,
		preparer: preparer,
		tempDir:  tempDir,
		log:      log,
		tracer:   otel.Tracer(tracerName),
	}
}

// Loaded reports whether the engine is initialized.
func (t *Transcriber) Loaded() bool {
	return t != nil && t.engine != nil && t.engine.Loaded()
}

// IsSupportedFile reports whether filename has an accepted extension.
func IsSupportedFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Transcribe runs one upload through the engine.
func (t *Transcriber) Transcribe(ctx context.Context, req Request) (*models.TranscriptionResult, error) {
	if !IsSupportedFile(req.Filename) {
		return nil, apperror.Input("Unsupported file format")
	}
	task, ok := ParseTask(req.Task)
	if !ok {
		return nil, apperror.Input("Task must be either 'transcribe' or 'translate'")
	}
	if !t.Loaded() {
		return nil, apperror.Unavailable("Whisper model not loaded")
	}

	ctx, span := t.tracer.Start(ctx, "speech.transcribe", trace.WithAttributes(
		attribute.String("speech.model", t.engine.Name()),
		attribute.String("speech.task", string(task)),
		attribute.String("speech.language", req.Language),
	))
	defer span.End()

	entry := t.log.WithFields(logrus.Fields{"filename": req.Filename, "task": task})
	entry.Info("Starting transcription")

	result, err := t.run(ctx, entry, req, task)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transcription failed")
		entry.WithError(err).Error("Transcription error")
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("speech.segments", len(result.Segments)),
		attribute.String("speech.detected_language", result.Language),
	)
	entry.WithFields(logrus.Fields{"language": result.Language, "segments": len(result.Segments)}).
		Info("Transcription completed")
	return result, nil
}

func (t *Transcriber) run(ctx context.Context, entry *logrus.Entry, req Request, task Task) (*models.TranscriptionResult, error) {
	uploadPath, err := t.spool(req)
	if err != nil {
		return nil, apperror.Processing("Transcription failed", err)
	}
	defer t.remove(entry, uploadPath)

	audioPath := uploadPath
	if t.preparer != nil {
		prepared, err := t.tempPath("audio-*.wav")
		if err != nil {
			return nil, apperror.Processing("Transcription failed", err)
		}
		defer t.remove(entry, prepared)

		duration, err := t.preparer.Prepare(ctx, uploadPath, prepared)
		if err != nil {
			return nil, apperror.Processing("Transcription failed", err)
		}
		entry.WithField("duration_s", duration.Seconds()).Debug("Audio normalized")
		audioPath = prepared
	}

	result, err := t.engine.Transcribe(ctx, audioPath, QualityOptions(task, req.Language))
	if err != nil {
		return nil, apperror.Processing("Transcription failed", err)
	}
	return normalize(result), nil
}

// spool copies the upload into a fresh temp file keeping its extension.
func (t *Transcriber) spool(req Request) (string, error) {
	ext := strings.ToLower(filepath.Ext(req.Filename))
	f, err := os.CreateTemp(t.tempDir, "upload-*"+ext)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()

	_, copyErr := io.Copy(f, req.Body)
	closeErr := f.Close()
	if copyErr != nil || closeErr != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			t.log.WithError(rmErr).WithField("path", path).Warn("Failed to remove temp file")
		}
		if copyErr != nil {
			return "", fmt.Errorf("write temp file: %w", copyErr)
		}
		return "", fmt.Errorf("close temp file: %w", closeErr)
	}
	return path, nil
}

// tempPath reserves a temp file name for a tool that writes its own output.
func (t *Transcriber) tempPath(pattern string) (string, error) {
	f, err := os.CreateTemp(t.tempDir, pattern)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return path, nil
}

func (t *Transcriber) remove(entry *logrus.Entry, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		entry.WithError(err).WithField("path", path).Warn("Failed to remove temp file")
		return
	}
	entry.WithField("path", path).Debug("Temp file cleaned up")
}

// normalize enforces the result invariants: blank segments dropped, end not
// before start, segments ordered by start, language never empty.
func normalize(r *models.TranscriptionResult) *models.TranscriptionResult {
	segments := make([]models.TranscriptSegment, 0, len(r.Segments))
	for _, s := range r.Segments {
		if strings.TrimSpace(s.Text) == "" {
			continue
		}
		if s.End < s.Start {
			s.End = s.Start
		}
		segments = append(segments, s)
	}
	sort.SliceStable(segments, func(i, j int) bool { return segments[i].Start < segments[j].Start })

	language := strings.TrimSpace(r.Language)
	if language == "" {
		language = "unknown"
	}
	return &models.TranscriptionResult{Text: r.Text, Segments: segments, Language: language}
}
