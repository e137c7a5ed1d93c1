package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// FFProbeOutput is the part of ffprobe's JSON output we read.
type FFProbeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Normalizer converts uploaded media into the audio format the speech engine
// decodes best: 16 kHz mono PCM WAV.
type Normalizer struct {
	FFmpegPath  string
	FFprobePath string
}

// NewNormalizer returns a Normalizer using the ffmpeg and ffprobe binaries on PATH.
func NewNormalizer() *Normalizer {
	return &Normalizer{FFmpegPath: "ffmpeg", FFprobePath: "ffprobe"}
}

// Available reports whether both binaries can be found.
func (n *Normalizer) Available() bool {
	if _, err := exec.LookPath(n.FFmpegPath); err != nil {
		return false
	}
	_, err := exec.LookPath(n.FFprobePath)
	return err == nil
}

// Prepare extracts the audio track of inputFile into outputFile and returns
// its duration. A failed probe yields a zero duration, not an error.
func (n *Normalizer) Prepare(ctx context.Context, inputFile, outputFile string) (time.Duration, error) {
	if err := n.ExtractAudio(ctx, inputFile, outputFile); err != nil {
		return 0, err
	}
	d, _ := n.GetDuration(ctx, outputFile)
	return d, nil
}

// ExtractAudio writes the first audio stream of inputFile to outputFile as
// 16 kHz mono WAV, overwriting outputFile.
func (n *Normalizer) ExtractAudio(ctx context.Context, inputFile, outputFile string) error {
	// ffmpeg -y -i <in> -vn -ac 1 -ar 16000 -c:a pcm_s16le -f wav <out>
	cmd := exec.CommandContext(ctx, n.FFmpegPath,
		"-nostdin",
		"-y",
		"-i", inputFile,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		"-f", "wav",
		outputFile,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg audio extraction failed: %v\nStderr: %s", err, stderr.String())
	}
	return nil
}

// GetDuration uses ffprobe to read the duration of a media file.
func (n *Normalizer) GetDuration(ctx context.Context, filePath string) (time.Duration, error) {
	// ffprobe -v quiet -print_format json -show_format <input_file>
	cmd := exec.CommandContext(ctx, n.FFprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		filePath,
	)

	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe failed: %v\nStderr: %s", err, stderr.String())
	}

	var probe FFProbeOutput
	if err := json.Unmarshal(out.Bytes(), &probe); err != nil {
		return 0, fmt.Errorf("error unmarshalling ffprobe output: %v\nOutput: %s", err, out.String())
	}
	if probe.Format.Duration == "" {
		return 0, fmt.Errorf("could not retrieve duration from ffprobe output\nOutput: %s", out.String())
	}

	seconds, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("error parsing duration string '%s': %v", probe.Format.Duration, err)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}
