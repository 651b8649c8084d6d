package lineage

import "testing"

const testProducer = "https://github.com/lineage-audit/emitter"

func assertEnvelope(t *testing.T, facet map[string]interface{}) {
	t.Helper()

	if facet[facetProducerKey] != testProducer {
		t.Errorf("_producer = %v, want %q", facet[facetProducerKey], testProducer)
	}

	schemaURL, ok := facet[facetSchemaURLKey].(string)
	if !ok || schemaURL == "" {
		t.Errorf("_schemaURL missing or empty: %v", facet[facetSchemaURLKey])
	}
}

func TestSchemaFacet(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	facet := SchemaFacet(testProducer, []SchemaField{
		{Name: "customer_id", Type: "integer", Description: "Unique customer identifier"},
		{Name: "email", Type: "varchar"},
	})

	assertEnvelope(t, facet)

	fields, ok := facet["fields"].([]map[string]interface{})
	if !ok {
		t.Fatalf("fields has unexpected type %T", facet["fields"])
	}

	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}

	if fields[0]["description"] != "Unique customer identifier" {
		t.Errorf("first field description = %v", fields[0]["description"])
	}

	if _, hasDesc := fields[1]["description"]; hasDesc {
		t.Error("empty description should be omitted")
	}
}

func TestDataSourceFacet(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	facet := DataSourceFacet(testProducer, "postgresql", "postgresql://postgres:5432/audit")

	assertEnvelope(t, facet)

	if facet["name"] != "postgresql" || facet["uri"] != "postgresql://postgres:5432/audit" {
		t.Errorf("unexpected facet contents: %v", facet)
	}
}

func TestOwnershipFacet(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	facet := OwnershipFacet(testProducer, []Owner{{Name: "data-team", Type: "TEAM"}})

	assertEnvelope(t, facet)

	owners, ok := facet["owners"].([]map[string]interface{})
	if !ok || len(owners) != 1 {
		t.Fatalf("unexpected owners: %v", facet["owners"])
	}

	if owners[0]["name"] != "data-team" || owners[0]["type"] != "TEAM" {
		t.Errorf("unexpected owner: %v", owners[0])
	}
}

func TestErrorMessageFacet(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	facet := ErrorMessageFacet(testProducer, "pq: relation does not exist")

	assertEnvelope(t, facet)

	if facet["message"] != "pq: relation does not exist" {
		t.Errorf("message = %v", facet["message"])
	}

	if facet["programmingLanguage"] != "go" {
		t.Errorf("programmingLanguage = %v, want go", facet["programmingLanguage"])
	}
}

func TestDataQualityMetricsFacet(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	facet := DataQualityMetricsFacet(testProducer, []QualityMetric{
		{TableName: "processed_customers", MetricName: "row_count", Value: 5},
		{TableName: "processed_customers", MetricName: "null_email_rate", Value: 0.2},
	})

	assertEnvelope(t, facet)

	metrics, ok := facet["metrics"].([]map[string]interface{})
	if !ok {
		t.Fatalf("metrics has unexpected type %T", facet["metrics"])
	}

	if len(metrics) != 2 {
		t.Fatalf("expected 2 metrics, got %d", len(metrics))
	}

	if metrics[1]["table"] != "processed_customers" || metrics[1]["metric"] != "null_email_rate" {
		t.Errorf("unexpected metric entry: %v", metrics[1])
	}

	if metrics[1]["value"] != 0.2 {
		t.Errorf("value = %v, want 0.2", metrics[1]["value"])
	}
}
