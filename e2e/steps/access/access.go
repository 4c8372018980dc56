// Package access registers access orchestrator steps.
package access

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
	sc.Step(`^"([^"]*)" requests "([^"]*)" access to record (\d+)$`, s.request)
	sc.Step(`^"([^"]*)" requests "([^"]*)" access to record (\d+) (\d+) times$`, s.requestTimes)
	sc.Step(`^the access log entry should name researcher "([^"]*)"$`, s.logEntryNames)
}

func (s *steps) request(ctx context.Context, researcher, accessType string, dataID int) error {
	return s.w.Do(ctx, researcher, http.MethodPost, "/access", map[string]any{
		"data_id":     dataID,
		"access_type": accessType,
	})
}

func (s *steps) requestTimes(ctx context.Context, researcher, accessType string, dataID, n int) error {
	for i := range n {
		if err := s.request(ctx, researcher, accessType, dataID); err != nil {
			return err
		}
		if s.w.LastStatus != http.StatusCreated {
			return fmt.Errorf("request %d: status %d (%v)", i+1, s.w.LastStatus, s.w.LastBody)
		}
	}
	return nil
}

func (s *steps) logEntryNames(ctx context.Context, researcher string) error {
	logID, ok := s.w.LastBody["log_id"].(float64)
	if !ok {
		return fmt.Errorf("last response has no log_id: %v", s.w.LastBody)
	}
	if err := s.w.Do(ctx, researcher, http.MethodGet, fmt.Sprintf("/access/log/%d", int(logID)), nil); err != nil {
		return err
	}
	if got := s.w.LastBody["researcher"]; got != s.w.Identity(researcher) {
		return fmt.Errorf("log entry researcher %v, want %s", got, s.w.Identity(researcher))
	}
	return nil
}
