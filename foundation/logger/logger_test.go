package logger_test

import (
	"testing"

	"github.com/ardanlabs/erc20bank/foundation/logger"
	"go.uber.org/zap/zapcore"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func Test_New(t *testing.T) {
	t.Log("Given the need to construct a logger for a command.")
	{
		t.Logf("\tTest 0:\tWhen handling a valid level.")
		{
			log, err := logger.New("TEST", "debug")
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to construct a logger: %s", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to construct a logger.", success)

			if !log.Desugar().Core().Enabled(zapcore.DebugLevel) {
				t.Fatalf("\t%s\tTest 0:\tShould have debug enabled.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould have debug enabled.", success)
		}

		t.Logf("\tTest 1:\tWhen handling an unknown level.")
		{
			if _, err := logger.New("TEST", "loud"); err == nil {
				t.Fatalf("\t%s\tTest 1:\tShould reject the level.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould reject the level.", success)
		}
	}
}
