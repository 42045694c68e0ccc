package actions

import (
	"context"
	"io"
	"testing"

	"github.com/grovetools/seedee/taskexec"
	"github.com/grovetools/seedee/testutil"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

type env struct {
	ctx  context.Context
	exec *testutil.FakeExecutor
	fs   afero.Fs
}

// newEnv installs a fake executor, an in-memory file system and /home/ci as
// home directory on a fresh context.
func newEnv(t *testing.T) *env {
	t.Helper()
	testutil.IsolateHome(t)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	e := &env{exec: testutil.NewFakeExecutor(), fs: afero.NewMemMapFs()}
	ctx := taskexec.New().Attach(context.Background())
	ctx = taskexec.LoggerKey.With(ctx, logrus.NewEntry(logger))
	ctx = taskexec.ExecutorKey.With(ctx, e.exec)
	ctx = taskexec.FileSystemKey.With(ctx, e.fs)
	ctx = taskexec.HomeDirKey.With(ctx, "/home/ci")
	e.ctx = ctx
	return e
}

func failure(code int, stderr string) testutil.Response {
	return testutil.Response{ExitCode: code, Stderr: stderr + "\n"}
}
