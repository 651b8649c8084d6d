package lineage

// Facet construction helpers for the standard facets this project emits.
// Facets are schema-on-write extensions: the core model treats their contents
// as opaque maps, but every facet object must carry the _producer and
// _schemaURL keys required by the OpenLineage spec. These constructors build
// the maps so jobs never hand-roll the envelope.
//
// Spec: https://openlineage.io/docs/spec/facets/

// SchemaField describes one column in a schema facet.
type SchemaField struct {
	Name        string `json:"name"        yaml:"name"`
	Type        string `json:"type"        yaml:"type"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Owner describes one owner in an ownership facet.
type Owner struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// QualityMetric is one check result in a dataQualityMetrics run facet.
type QualityMetric struct {
	TableName  string
	MetricName string
	Value      float64
}

const (
	facetProducerKey  = "_producer"
	facetSchemaURLKey = "_schemaURL"

	schemaFacetSchemaURL        = "https://openlineage.io/spec/facets/1-1-1/SchemaDatasetFacet.json"
	dataSourceFacetSchemaURL    = "https://openlineage.io/spec/facets/1-0-1/DatasourceDatasetFacet.json"
	documentationFacetSchemaURL = "https://openlineage.io/spec/facets/1-0-1/DocumentationDatasetFacet.json"
	ownershipFacetSchemaURL     = "https://openlineage.io/spec/facets/1-0-1/OwnershipDatasetFacet.json"
	sqlFacetSchemaURL           = "https://openlineage.io/spec/facets/1-0-1/SQLJobFacet.json"
	errorMessageFacetSchemaURL  = "https://openlineage.io/spec/facets/1-0-0/ErrorMessageRunFacet.json"

	// Custom run facet; OpenLineage has no standard run-level quality facet,
	// so the schema lives under this producer's namespace as the spec
	// prescribes for custom facets.
	dataQualityFacetSchemaURL = "https://github.com/lineage-audit/emitter/tree/main/docs/facets/DataQualityMetricsRunFacet.json"
)

// facetEnvelope returns the base map every facet object must include.
func facetEnvelope(producer, schemaURL string) map[string]interface{} {
	return map[string]interface{}{
		facetProducerKey:  producer,
		facetSchemaURLKey: schemaURL,
	}
}

// SchemaFacet builds a schema dataset facet describing the dataset's columns.
func SchemaFacet(producer string, fields []SchemaField) map[string]interface{} {
	facet := facetEnvelope(producer, schemaFacetSchemaURL)

	fieldMaps := make([]map[string]interface{}, 0, len(fields))
	for _, f := range fields {
		fieldMap := map[string]interface{}{
			"name": f.Name,
			"type": f.Type,
		}
		if f.Description != "" {
			fieldMap["description"] = f.Description
		}

		fieldMaps = append(fieldMaps, fieldMap)
	}

	facet["fields"] = fieldMaps

	return facet
}

// DataSourceFacet builds a dataSource dataset facet identifying the physical
// source of the dataset (e.g., name "postgresql", uri "postgresql://postgres:5432/audit").
func DataSourceFacet(producer, name, uri string) map[string]interface{} {
	facet := facetEnvelope(producer, dataSourceFacetSchemaURL)
	facet["name"] = name
	facet["uri"] = uri

	return facet
}

// DocumentationFacet builds a documentation facet carrying a human-readable
// description. Usable on datasets and jobs alike.
func DocumentationFacet(producer, description string) map[string]interface{} {
	facet := facetEnvelope(producer, documentationFacetSchemaURL)
	facet["description"] = description

	return facet
}

// OwnershipFacet builds an ownership dataset facet listing the owners of a
// dataset (e.g., {Name: "data-team", Type: "TEAM"}).
func OwnershipFacet(producer string, owners []Owner) map[string]interface{} {
	facet := facetEnvelope(producer, ownershipFacetSchemaURL)

	ownerMaps := make([]map[string]interface{}, 0, len(owners))
	for _, o := range owners {
		ownerMaps = append(ownerMaps, map[string]interface{}{
			"name": o.Name,
			"type": o.Type,
		})
	}

	facet["owners"] = ownerMaps

	return facet
}

// SQLFacet builds a sql job facet carrying the query text a job executed.
func SQLFacet(producer, query string) map[string]interface{} {
	facet := facetEnvelope(producer, sqlFacetSchemaURL)
	facet["query"] = query

	return facet
}

// DataQualityMetricsFacet builds a custom run facet carrying the quality
// check results a run computed, one entry per (table, metric) pair.
func DataQualityMetricsFacet(producer string, metrics []QualityMetric) map[string]interface{} {
	facet := facetEnvelope(producer, dataQualityFacetSchemaURL)

	metricMaps := make([]map[string]interface{}, 0, len(metrics))
	for _, m := range metrics {
		metricMaps = append(metricMaps, map[string]interface{}{
			"table":  m.TableName,
			"metric": m.MetricName,
			"value":  m.Value,
		})
	}

	facet["metrics"] = metricMaps

	return facet
}

// ErrorMessageFacet builds an errorMessage run facet for FAIL events.
func ErrorMessageFacet(producer, message string) map[string]interface{} {
	facet := facetEnvelope(producer, errorMessageFacetSchemaURL)
	facet["message"] = message
	facet["programmingLanguage"] = "go"

	return facet
}
