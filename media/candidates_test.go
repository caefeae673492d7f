package media_test

import (
	"testing"

	"github.com/habedi/q2launch/media"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidates_OrderAndDedup(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/Volumes/QUAKE2", 0o755))
	require.NoError(t, fs.MkdirAll("/Volumes/Backup", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/Volumes/.DS_Store", nil, 0o644))

	roots := media.Candidates(fs, media.CandidateOptions{
		BasePath: "/Applications/Quake2/",
		ExeDir:   "/Applications/Quake2",
		WorkDir:  "/Users/q",
		Extra:    []string{"/Games/q2", "/Users/q"},
	})

	assert.Equal(t, []string{
		"/Applications/Quake2",
		"/Users/q",
		"/Games/q2",
		media.CDPath,
		"/Volumes/Backup",
		"/Volumes/QUAKE2",
	}, roots)
}

func TestCandidates_ChosenReplacesEverything(t *testing.T) {
	roots := media.Candidates(afero.NewMemMapFs(), media.CandidateOptions{
		Chosen:   "/Games/q2/",
		BasePath: "/Applications/Quake2",
	})
	assert.Equal(t, []string{"/Games/q2"}, roots)
}

func TestCandidates_MissingVolumesDir(t *testing.T) {
	roots := media.Candidates(afero.NewMemMapFs(), media.CandidateOptions{
		VolumesDir: "/nope",
		CDPath:     "/cd",
	})
	assert.Equal(t, []string{"/cd"}, roots)
}

func TestMediaDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	assert.Equal(t, "", media.MediaDir(fs, ""))

	require.NoError(t, fs.MkdirAll(media.CDPath, 0o755))
	assert.Equal(t, media.CDPath, media.MediaDir(fs, ""))

	require.NoError(t, afero.WriteFile(fs, "/cdfile", nil, 0o644))
	assert.Equal(t, "", media.MediaDir(fs, "/cdfile"))
}
