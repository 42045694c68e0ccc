package logging

import (
	"sync"

	"github.com/sirupsen/logrus"
)

var bootstrapOnce sync.Once

// Bootstrap configures logrus' standard logger from seedee.yml and the
// environment. Only the first call in a process has any effect.
func Bootstrap() {
	bootstrapOnce.Do(func() {
		Configure(logrus.StandardLogger(), "seedee", LoadConfig())
	})
}
