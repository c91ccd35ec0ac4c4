package reviewintegrationtests

import (
	"os"
	"testing"

	"github.com/Black-And-White-Club/club-review/integration_tests/testutils"
)

var testEnv *testutils.TestEnvironment

func TestMain(m *testing.M) {
	os.Exit(testutils.RunMain(m, testutils.Options{}, func(env *testutils.TestEnvironment) { testEnv = env }))
}
