package core

import (
	"context"
	"os"
	"path"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// tickingClock yields a new instant, one second later, on each call
func tickingClock() func() time.Time {
	t := time.Date(2021, 3, 14, 15, 9, 26, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func tempFs(t testing.TB) afero.Fs {
	return afero.NewBasePathFs(afero.NewOsFs(), t.TempDir())
}

func newTestRepo(t testing.TB, opts ...RepositoryOption) (*Repository, afero.Fs) {
	fs := tempFs(t)
	repo, err := NewRepository(append([]RepositoryOption{RepoFs(fs), Clock(tickingClock())}, opts...)...)
	require.NoError(t, err)
	require.NoError(t, repo.Init(context.Background()))
	return repo, fs
}

func writeFile(t testing.TB, fs afero.Fs, pth, content string) {
	if dir := path.Dir(pth); dir != "." {
		require.NoError(t, fs.MkdirAll(dir, 0755))
	}
	require.NoError(t, afero.WriteFile(fs, pth, []byte(content), 0644))
}

func readFile(t testing.TB, fs afero.Fs, pth string) string {
	data, err := afero.ReadFile(fs, pth)
	require.NoError(t, err)
	return string(data)
}

// chdir moves the process into dir for the duration of the test
func chdir(t testing.TB, dir string) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(wd))
	})
}
