package taskexec

import (
	"context"
	"os"

	"github.com/grovetools/seedee/command"
	"github.com/grovetools/seedee/logging"
	"github.com/grovetools/seedee/pkg/paths"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// ExecutorKey resolves the command runner. The default runs through bash and
// mirrors child output to this process's stdout and stderr.
var ExecutorKey = NewKey[command.Executor]("executor", func() command.Executor {
	return command.NewShellExecutor(
		command.WithLogger(logging.NewLogger("executor")),
		command.WithOutput(os.Stdout, os.Stderr),
	)
})

// FileSystemKey resolves the file system actions read and write through.
var FileSystemKey = NewKey[afero.Fs]("filesystem", func() afero.Fs {
	return afero.NewOsFs()
})

// LoggerKey resolves the logger actions report progress on.
var LoggerKey = NewKey[*logrus.Entry]("logger", func() *logrus.Entry {
	return logging.NewLogger("seedee")
})

// HomeDirKey resolves the user's home directory, under which provisioning
// profiles are installed.
var HomeDirKey = NewKey[string]("home", paths.HomeDir)

// Executor is shorthand for ExecutorKey.Get.
func Executor(ctx context.Context) command.Executor { return ExecutorKey.Get(ctx) }

// FileSystem is shorthand for FileSystemKey.Get.
func FileSystem(ctx context.Context) afero.Fs { return FileSystemKey.Get(ctx) }

// Logger is shorthand for LoggerKey.Get.
func Logger(ctx context.Context) *logrus.Entry { return LoggerKey.Get(ctx) }

// HomeDir is shorthand for HomeDirKey.Get.
func HomeDir(ctx context.Context) string { return HomeDirKey.Get(ctx) }
