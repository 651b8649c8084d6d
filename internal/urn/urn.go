// Package urn provides canonical dataset naming and event identity for the
// emitter.
//
// Dataset URNs are canonical identifiers of the form {namespace}/{name}.
// Correlating receivers compute the same URNs on ingest; emitting already
// normalized namespaces keeps the two sides in agreement even when other
// tools in the pipeline (dbt, Great Expectations, Spark) reference the same
// dataset with a different URI scheme or port convention.
//
// Normalization rules:
//  1. Scheme standardization:
//     - postgres:// → postgresql:// (SQLAlchemy/JDBC standard)
//     - s3a://, s3n:// → s3:// (Spark/Hadoop → AWS standard)
//  2. Default port removal:
//     - postgresql://db:5432 → postgresql://db
//  3. Non-URL namespaces ("bigquery", "data-lineage-audit") pass through
//     unchanged.
//
// Spec: https://openlineage.io/docs/spec/naming#dataset-naming
package urn

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// Sentinel errors for URN parsing.
var (
	ErrMissingDelimiter = errors.New("invalid URN format: missing '/' delimiter")
	ErrEmptyNamespace   = errors.New("invalid URN format: empty namespace")
	ErrEmptyName        = errors.New("invalid URN format: empty name")
)

const protocolSuffixLen = 3 // length of "://"

// GenerateDatasetURN constructs a canonical URN from namespace and name.
//
// Format: {namespace}/{name}. The namespace is normalized first. A single
// forward slash is the delimiter, which produces double slashes for S3/HDFS
// root paths; that is intentional per the OpenLineage naming spec.
//
// Examples:
//   - GenerateDatasetURN("postgres://db:5432", "public.raw_orders")
//     → "postgresql://db/public.raw_orders"
//   - GenerateDatasetURN("data-lineage-audit", "raw_customers")
//     → "data-lineage-audit/raw_customers"
func GenerateDatasetURN(namespace, name string) string {
	return NormalizeNamespace(namespace) + "/" + name
}

// ParseDatasetURN splits a URN back into namespace and name.
//
// URNs with a "://" protocol prefix split on the first "/" after the
// protocol; URNs without one split on the first "/".
func ParseDatasetURN(urn string) (string, string, error) {
	delimiterIdx := strings.Index(urn, "/")

	if protocolIdx := strings.Index(urn, "://"); protocolIdx != -1 {
		searchStart := protocolIdx + protocolSuffixLen

		relativeIdx := strings.Index(urn[searchStart:], "/")
		if relativeIdx == -1 {
			return "", "", ErrMissingDelimiter
		}

		delimiterIdx = searchStart + relativeIdx
	}

	if delimiterIdx == -1 {
		return "", "", ErrMissingDelimiter
	}

	namespace := urn[:delimiterIdx]
	name := urn[delimiterIdx+1:]

	if namespace == "" {
		return "", "", ErrEmptyNamespace
	}

	if name == "" {
		return "", "", ErrEmptyName
	}

	return namespace, name, nil
}

// NormalizeNamespace normalizes a namespace URI.
//
// The URL is taken apart manually instead of via net/url so that special
// characters (masked passwords, wildcards) survive verbatim; the value is an
// identity for string matching, not an address to dial.
func NormalizeNamespace(namespace string) string {
	if !strings.Contains(namespace, "://") {
		// Not a URL (e.g., "bigquery", "data-lineage-audit")
		return namespace
	}

	parts := strings.SplitN(namespace, "://", 2)
	scheme := normalizeScheme(parts[0])
	remainder := removeDefaultPort(scheme, parts[1])

	return scheme + "://" + remainder
}

func normalizeScheme(scheme string) string {
	switch strings.ToLower(scheme) {
	case "postgres":
		return "postgresql"
	case "s3a", "s3n":
		return "s3"
	default:
		return strings.ToLower(scheme)
	}
}

// defaultPorts maps schemes to the port that may be omitted.
var defaultPorts = map[string]string{
	"postgresql": ":5432",
	"mysql":      ":3306",
	"mongodb":    ":27017",
	"redis":      ":6379",
	"kafka":      ":9092",
}

func removeDefaultPort(scheme, remainder string) string {
	port, ok := defaultPorts[scheme]
	if !ok {
		return remainder
	}

	// "db:5432/path" → "db/path", "db:5432" → "db"
	if strings.Contains(remainder, port+"/") {
		return strings.Replace(remainder, port+"/", "/", 1)
	}

	if strings.HasSuffix(remainder, port) {
		return strings.TrimSuffix(remainder, port)
	}

	return remainder
}

// GenerateIdempotencyKey computes the deterministic identity of an event.
//
// Formula: SHA256(producer + jobNamespace + jobName + runID + eventTime + eventType)
//
// The same formula runs on the ingest side of OpenLineage-compatible
// backends to detect duplicate events, so the key an emitter logs for an
// event matches the key its receiver deduplicates on.
//
// Returns: 64-character lowercase hex string.
func GenerateIdempotencyKey(producer, jobNamespace, jobName, runID, eventTime, eventType string) string {
	hasher := sha256.New()
	hasher.Write([]byte(producer))
	hasher.Write([]byte(jobNamespace))
	hasher.Write([]byte(jobName))
	hasher.Write([]byte(runID))
	hasher.Write([]byte(eventTime))
	hasher.Write([]byte(eventType))

	return hex.EncodeToString(hasher.Sum(nil))
}
