package e2e

import (
	"os"
	"testing"

	"github.com/cucumber/godog"

	"consentgate/e2e/steps/common"
)

// TestFeatures runs against a live server started with:
//
//	AUTHORITY=ST3E2EAUTHORITY ADMIN_API_TOKEN=e2e-admin HEIGHT_SOURCE=manual \
//	ACCESS_LIMIT_PER_CYCLE=2 CYCLE_DURATION=1000 \
//	DATA_REGISTRY_SEED_FILE=e2e/testdata/registry.json go run ./cmd/server
func TestFeatures(t *testing.T) {
	if os.Getenv("E2E_BASE_URL") == "" {
		t.Skip("E2E_BASE_URL not set")
	}

	suite := godog.TestSuite{
		ScenarioInitializer: func(sc *godog.ScenarioContext) {
			RegisterSteps(sc, common.NewWorld())
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
