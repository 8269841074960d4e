package commitproof

import (
	"github.com/privacybydesign/commitproof/verifier"
	"github.com/privacybydesign/commitproof/verifier/replay"
	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

func init() {
	Logger = logrus.StandardLogger()
	verifier.Logger = Logger
	replay.Logger = Logger
}
