package e2e

import (
	"github.com/cucumber/godog"

	"consentgate/e2e/steps/access"
	"consentgate/e2e/steps/common"
	"consentgate/e2e/steps/consent"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(sc *godog.ScenarioContext, w *common.World) {
	common.RegisterSteps(sc, w)
	consent.RegisterSteps(sc, w)
	access.RegisterSteps(sc, w)
}
