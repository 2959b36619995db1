package ingest

import (
	"context"
	"fmt"
	"os"

	"github.com/rshade/tempscore/internal/logging"
	"github.com/rshade/tempscore/internal/model"
)

// CompanyFile is the on-disk company data document.
type CompanyFile struct {
	SchemaVersion string               `json:"schema_version" yaml:"schema_version"`
	Companies     []model.CompanyInput `json:"companies"      yaml:"companies"`
}

// ParseCompanies decodes a company data document.
func ParseCompanies(ctx context.Context, data []byte, format Format) (*CompanyFile, error) {
	log := logging.FromContext(ctx)
	log.Debug().Ctx(ctx).
		Str("component", "ingest").
		Str("operation", "parse_companies").
		Int("data_size_bytes", len(data)).
		Msg("parsing company data")

	var doc CompanyFile
	if err := decode(data, format, &doc); err != nil {
		return nil, fmt.Errorf("parsing company data: %w", err)
	}
	if err := CheckSchemaVersion(doc.SchemaVersion); err != nil {
		return nil, err
	}

	log.Debug().Ctx(ctx).
		Str("component", "ingest").
		Str("schema_version", doc.SchemaVersion).
		Int("company_count", len(doc.Companies)).
		Msg("company data parsed")
	return &doc, nil
}

// LoadCompanies reads and decodes a JSON or YAML company data file.
func LoadCompanies(ctx context.Context, path string) (*CompanyFile, error) {
	log := logging.FromContext(ctx)
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Error().Ctx(ctx).
			Str("component", "ingest").
			Str("operation", "load_companies").
			Str("path", path).
			Err(err).
			Msg("failed to read company data")
		return nil, fmt.Errorf("reading company data: %w", err)
	}
	return ParseCompanies(ctx, data, format)
}

// CompanyProvider supplies raw company records by id. Records for unknown
// ids are simply absent from the result.
type CompanyProvider interface {
	Name() string
	Companies(ctx context.Context, ids []string) ([]model.CompanyInput, error)
}

// StaticProvider serves records held in memory, such as a loaded file.
type StaticProvider struct {
	name    string
	records map[string]model.CompanyInput
	order   []string
}

// NewStaticProvider indexes records by company id. Later duplicates win.
func NewStaticProvider(name string, records []model.CompanyInput) *StaticProvider {
	p := &StaticProvider{name: name, records: make(map[string]model.CompanyInput, len(records))}
	for _, r := range records {
		if _, seen := p.records[r.CompanyID]; !seen {
			p.order = append(p.order, r.CompanyID)
		}
		p.records[r.CompanyID] = r
	}
	return p
}

// NewFileProvider loads a company data file into a StaticProvider named
// after the path.
func NewFileProvider(ctx context.Context, path string) (*StaticProvider, error) {
	doc, err := LoadCompanies(ctx, path)
	if err != nil {
		return nil, err
	}
	return NewStaticProvider(path, doc.Companies), nil
}

// Name identifies the provider in logs.
func (p *StaticProvider) Name() string { return p.name }

// IDs returns every company id in first-seen order.
func (p *StaticProvider) IDs() []string { return append([]string(nil), p.order...) }

// Companies returns the records for ids that the provider holds, in ids order.
func (p *StaticProvider) Companies(_ context.Context, ids []string) ([]model.CompanyInput, error) {
	out := make([]model.CompanyInput, 0, len(ids))
	for _, id := range ids {
		if r, ok := p.records[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}
