package scores

import "github.com/sirupsen/logrus"

// Log receives this package's warnings. Frontends point it at their logger.
var Log logrus.FieldLogger = logrus.StandardLogger()
