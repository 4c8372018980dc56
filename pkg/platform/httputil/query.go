package httputil

import (
	"net/http"
	"strings"

	id "consentgate/pkg/domain"
)

// QueryDataIDs collects the data ids under key, accepting both repeated and
// comma-separated forms (?data_id=1,2&data_id=3). Blanks are skipped and
// duplicates keep their first position.
func QueryDataIDs(r *http.Request, key string) ([]id.DataID, error) {
	var out []id.DataID
	seen := make(map[id.DataID]struct{})
	for _, value := range r.URL.Query()[key] {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			dataID, err := id.ParseDataID(part)
			if err != nil {
				return nil, err
			}
			if _, dup := seen[dataID]; dup {
				continue
			}
			seen[dataID] = struct{}{}
			out = append(out, dataID)
		}
	}
	return out, nil
}
