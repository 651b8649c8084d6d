// Package jobs implements the demonstration data-transformation jobs that
// exercise the lineage emitter end to end.
package jobs

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/lineage-audit/emitter/internal/lineage"
)

//go:embed datasets.yaml
var embeddedCatalog []byte

// Sentinel errors for catalog loading and lookup.
var (
	ErrDatasetNotFound  = errors.New("dataset not found in catalog")
	ErrCatalogNamespace = errors.New("catalog namespace cannot be empty")
	ErrCatalogEmpty     = errors.New("catalog must describe at least one dataset")
)

type (
	// Catalog describes every dataset the demonstration jobs read or write.
	// Jobs reference datasets by name; the catalog supplies the lineage
	// facets (schema, documentation, dataSource, ownership) so the dataset
	// metadata lives in one place instead of being repeated per job.
	Catalog struct {
		// Namespace is the dataset namespace for every catalog entry.
		Namespace string `yaml:"namespace"`

		// DataSource describes the physical source shared by all datasets.
		//nolint:tagliatelle // snake_case is intentional for YAML config files
		DataSource DataSourceSpec `yaml:"data_source"`

		// Owner is attached to every dataset as an ownership facet.
		Owner OwnerSpec `yaml:"owner"`

		// Datasets maps dataset name to its descriptor.
		Datasets map[string]DatasetSpec `yaml:"datasets"`
	}

	// DataSourceSpec identifies the physical data source.
	DataSourceSpec struct {
		Name string `yaml:"name"`
		URI  string `yaml:"uri"`
	}

	// OwnerSpec identifies the owning team.
	OwnerSpec struct {
		Name string `yaml:"name"`
		Type string `yaml:"type"`
	}

	// DatasetSpec describes one dataset.
	DatasetSpec struct {
		Description string                `yaml:"description"`
		Schema      []lineage.SchemaField `yaml:"schema"`
	}
)

// LoadCatalog parses the embedded dataset catalog.
func LoadCatalog() (*Catalog, error) {
	return parseCatalog(embeddedCatalog)
}

func parseCatalog(data []byte) (*Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse dataset catalog: %w", err)
	}

	if catalog.Namespace == "" {
		return nil, ErrCatalogNamespace
	}

	if len(catalog.Datasets) == 0 {
		return nil, ErrCatalogEmpty
	}

	return &catalog, nil
}

// Dataset builds the lineage descriptor for a named catalog entry.
//
// The returned dataset carries schema, documentation, dataSource, and
// ownership facets stamped with the given producer URI.
func (c *Catalog) Dataset(name, producer string) (lineage.Dataset, error) {
	spec, ok := c.Datasets[name]
	if !ok {
		return lineage.Dataset{}, fmt.Errorf("%w: %q", ErrDatasetNotFound, name)
	}

	facets := lineage.Facets{
		"dataSource": lineage.DataSourceFacet(producer, c.DataSource.Name, c.DataSource.URI),
		"ownership":  lineage.OwnershipFacet(producer, []lineage.Owner{{Name: c.Owner.Name, Type: c.Owner.Type}}),
	}

	if spec.Description != "" {
		facets["documentation"] = lineage.DocumentationFacet(producer, spec.Description)
	}

	if len(spec.Schema) > 0 {
		facets["schema"] = lineage.SchemaFacet(producer, spec.Schema)
	}

	return lineage.Dataset{
		Namespace: c.Namespace,
		Name:      name,
		Facets:    facets,
	}, nil
}

// ResolveDatasets resolves several catalog entries at once, in order.
func (c *Catalog) ResolveDatasets(producer string, names ...string) ([]lineage.Dataset, error) {
	datasets := make([]lineage.Dataset, 0, len(names))

	for _, name := range names {
		dataset, err := c.Dataset(name, producer)
		if err != nil {
			return nil, err
		}

		datasets = append(datasets, dataset)
	}

	return datasets, nil
}
