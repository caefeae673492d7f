package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/habedi/q2launch/pkg/pool"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// ErrNoTracks is returned when a folder has no playable MP3 files.
var ErrNoTracks = errors.New("no playable mp3 tracks")

// decode is swapped in tests.
var decode = func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	return mp3.Decode(rc)
}

// FindTracks lists the .mp3 files under dir, recursively, sorted by path.
func FindTracks(fs afero.Fs, dir string) ([]string, error) {
	var tracks []string
	err := afero.Walk(fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.EqualFold(filepath.Ext(info.Name()), ".mp3") {
			tracks = append(tracks, path)
		}
		return nil
	})
	return tracks, err
}

// CheckMP3Folder decodes the header of every track in dir and returns how many are playable.
func CheckMP3Folder(ctx context.Context, fs afero.Fs, dir string, workers int) (int, error) {
	tracks, err := FindTracks(fs, dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read mp3 folder %s: %w", dir, err)
	}
	if len(tracks) == 0 {
		return 0, fmt.Errorf("%w in %s", ErrNoTracks, dir)
	}

	var playable atomic.Int32
	errs := pool.Run(ctx, tracks, workers, func(ctx context.Context, track string) error {
		f, err := fs.Open(track)
		if err != nil {
			return err
		}
		streamer, _, err := decode(f)
		if err != nil {
			f.Close()
			return fmt.Errorf("%s: %w", track, err)
		}
		streamer.Close()
		playable.Add(1)
		return nil
	})
	for _, e := range errs {
		log.Warn().Err(e).Msg("Skipping unplayable mp3 track")
	}

	n := int(playable.Load())
	if n == 0 {
		return 0, fmt.Errorf("%w in %s", ErrNoTracks, dir)
	}
	return n, nil
}
