package gui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
	"github.com/rs/zerolog/log"
)

const (
	maxTrackSize    = 50 * 1024 * 1024
	previewDuration = 10 * time.Second
)

var (
	speakerOnce sync.Once
	speakerErr  error
	mixer       *beep.Mixer
	sampleRate  beep.SampleRate
)

func initSpeaker(sr beep.SampleRate) error {
	speakerOnce.Do(func() {
		sampleRate = sr
		// The buffer size should be large enough to avoid under-runs.
		bufferSize := sr.N(time.Second / 10)
		if err := speaker.Init(sampleRate, bufferSize); err != nil {
			speakerErr = err
			return
		}
		mixer = &beep.Mixer{}
		speaker.Play(mixer)
	})
	return speakerErr
}

// validateTrack checks that path is a non-empty regular file in a format the preview can decode.
func validateTrack(path string) error {
	if path == "" {
		return fmt.Errorf("empty file path")
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory: %s", path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("file is empty: %s", path)
	}
	if info.Size() > maxTrackSize {
		return fmt.Errorf("file is too large: %d bytes", info.Size())
	}
	if _, err := decoderFor(path); err != nil {
		return err
	}
	return nil
}

type decoder func(io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

func decoderFor(path string) (decoder, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return mp3.Decode, nil
	case ".wav":
		return func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(rc) }, nil
	case ".ogg":
		return vorbis.Decode, nil
	}
	return nil, fmt.Errorf("unsupported file format: %s", filepath.Ext(path))
}

// previewTrack plays the first seconds of a soundtrack file and blocks until it ends.
func previewTrack(path string) error {
	if err := validateTrack(path); err != nil {
		return err
	}
	decode, _ := decoderFor(path)

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	streamer, format, err := decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	defer streamer.Close()

	// The speaker runs at the rate of the first track played.
	if err := initSpeaker(format.SampleRate); err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}

	clip := beep.Take(format.SampleRate.N(previewDuration), streamer)
	resampled := beep.Resample(4, format.SampleRate, sampleRate, clip)

	done := make(chan struct{})
	speaker.Lock()
	mixer.Add(beep.Seq(resampled, beep.Callback(func() { close(done) })))
	speaker.Unlock()

	<-done
	log.Debug().Str("track", path).Msg("Soundtrack preview finished")
	return nil
}
