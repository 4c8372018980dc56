// Package consent registers consent ledger and researcher registry steps.
package consent

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cucumber/godog"

	"consentgate/e2e/steps/common"
)

type steps struct {
	w *common.World
}

func RegisterSteps(sc *godog.ScenarioContext, w *common.World) {
	s := &steps{w: w}
	sc.Step(`^the authority verifies researcher "([^"]*)"$`, s.verify)
	sc.Step(`^"([^"]*)" verifies researcher "([^"]*)"$`, s.verifyAs)
	sc.Step(`^"([^"]*)" grants "([^"]*)" "([^"]*)" consent on record (\d+) for (\d+) blocks$`, s.grant)
	sc.Step(`^"([^"]*)" revokes consent on record (\d+) for "([^"]*)"$`, s.revoke)
	sc.Step(`^I check consent of "([^"]*)" on record (\d+) for "([^"]*)"$`, s.check)
}

func (s *steps) verify(ctx context.Context, researcher string) error {
	if err := s.verifyAs(ctx, "authority", researcher); err != nil {
		return err
	}
	if s.w.LastStatus != http.StatusOK {
		return fmt.Errorf("verify %s: status %d (%v)", researcher, s.w.LastStatus, s.w.LastBody)
	}
	return nil
}

func (s *steps) verifyAs(ctx context.Context, actor, researcher string) error {
	return s.w.Do(ctx, actor, http.MethodPost, "/researchers/"+s.w.Identity(researcher)+"/verify", nil)
}

func (s *steps) grant(ctx context.Context, patient, researcher, accessType string, dataID, duration int) error {
	return s.w.Do(ctx, patient, http.MethodPost, "/consents", map[string]any{
		"data_id":     dataID,
		"researcher":  s.w.Identity(researcher),
		"duration":    duration,
		"access_type": accessType,
	})
}

func (s *steps) revoke(ctx context.Context, patient string, dataID int, researcher string) error {
	return s.w.Do(ctx, patient, http.MethodPost, fmt.Sprintf("/consents/%d/revoke", dataID), map[string]any{
		"researcher": s.w.Identity(researcher),
	})
}

func (s *steps) check(ctx context.Context, patient string, dataID int, researcher string) error {
	path := fmt.Sprintf("/consents/%s/%d/check?researcher=%s", s.w.Identity(patient), dataID, s.w.Identity(researcher))
	return s.w.Do(ctx, "authority", http.MethodGet, path, nil)
}
