package minefield

import "github.com/sirupsen/logrus"

// Log is the engine's logger. Frontends set its level and output.
var Log = logrus.New()
