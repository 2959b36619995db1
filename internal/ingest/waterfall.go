package ingest

import (
	"context"
	"fmt"

	"github.com/rshade/tempscore/internal/logging"
	"github.com/rshade/tempscore/internal/model"
)

// Waterfall asks each provider in turn for the ids earlier providers lacked.
type Waterfall struct {
	providers []CompanyProvider
}

// NewWaterfall queries providers in the given order.
func NewWaterfall(providers ...CompanyProvider) *Waterfall {
	return &Waterfall{providers: providers}
}

// Companies returns the records found across providers in ids order and the
// ids no provider had. Each id a provider lacks is logged as a lookup warning.
// Finding none of the ids is ErrNoCompaniesFound.
func (w *Waterfall) Companies(ctx context.Context, ids []string) ([]model.CompanyInput, []string, error) {
	log := logging.FromContext(ctx)
	found := make(map[string]model.CompanyInput, len(ids))
	remaining := uniqueIDs(ids)

	for _, p := range w.providers {
		if len(remaining) == 0 {
			break
		}
		records, err := p.Companies(ctx, remaining)
		if err != nil {
			return nil, nil, fmt.Errorf("provider %s: %w", p.Name(), err)
		}
		for _, r := range records {
			found[r.CompanyID] = r
		}

		var next []string
		for _, id := range remaining {
			if _, ok := found[id]; ok {
				continue
			}
			log.Warn().Ctx(ctx).
				Str("component", "ingest").
				Str("operation", "lookup").
				Str("warning", model.WarningLookup).
				Str("provider", p.Name()).
				Str("company_id", id).
				Msg("company not found in provider")
			next = append(next, id)
		}
		remaining = next
	}

	if len(found) == 0 && len(ids) > 0 {
		return nil, remaining, ErrNoCompaniesFound
	}

	out := make([]model.CompanyInput, 0, len(found))
	for _, id := range uniqueIDs(ids) {
		if r, ok := found[id]; ok {
			out = append(out, r)
		}
	}
	return out, remaining, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
