//go:build !unix

package command

import "os/exec"

func configureProcess(cmd *exec.Cmd) {}
