package storage

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
)

// SerializeVector converts a float32 slice to a byte slice for BLOB storage.
// Little-endian, 4 bytes per element.
func SerializeVector(vec []float32) []byte {
	buf := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// DeserializeVector converts a stored BLOB back to a float32 slice.
func DeserializeVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("invalid vector data length: %d", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns 0 for mismatched dimensions or zero-magnitude vectors.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// searchComponents ranks embedded components against a query vector.
// Similarity is computed in Go rather than pushed into SQL, which keeps
// the scan portable across both SQLite drivers. Catalogs are small
// enough that a full scan is fine.
func searchComponents(ctx context.Context, q querier, queryVector []float32, opts SearchOptions) ([]ComponentHit, error) {
	query := `
		SELECT id, name, tier, usage_rules, requirements, examples, embedding
		FROM components
		WHERE embedding IS NOT NULL
	`
	args := []interface{}{}
	if opts.Tier != "" {
		query += ` AND tier = ?`
		args = append(args, opts.Tier)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	hits := make([]ComponentHit, 0)
	for rows.Next() {
		var hit ComponentHit
		var usageRules, requirements, examples sql.NullString
		var embedding []byte
		if err := rows.Scan(&hit.ID, &hit.Name, &hit.Tier, &usageRules, &requirements, &examples, &embedding); err != nil {
			return nil, err
		}

		vec, err := DeserializeVector(embedding)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", hit.ID, err)
		}
		hit.Similarity = CosineSimilarity(queryVector, vec)
		if hit.Similarity <= opts.Threshold {
			continue
		}

		hit.UsageRules = stringPtr(usageRules)
		hit.Requirements = stringPtr(requirements)
		hit.Examples = stringPtr(examples)
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})
	if opts.Limit > 0 && len(hits) > opts.Limit {
		hits = hits[:opts.Limit]
	}
	return hits, nil
}

// searchTokens ranks embedded design tokens against a query vector.
func searchTokens(ctx context.Context, q querier, queryVector []float32, opts SearchOptions) ([]TokenHit, error) {
	query := `
		SELECT id, name, category, value, description, embedding
		FROM tokens
		WHERE embedding IS NOT NULL
	`
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	hits := make([]TokenHit, 0)
	for rows.Next() {
		var hit TokenHit
		var description sql.NullString
		var embedding []byte
		if err := rows.Scan(&hit.ID, &hit.Name, &hit.Category, &hit.Value, &description, &embedding); err != nil {
			return nil, err
		}

		vec, err := DeserializeVector(embedding)
		if err != nil {
			return nil, fmt.Errorf("token %d: %w", hit.ID, err)
		}
		hit.Similarity = CosineSimilarity(queryVector, vec)
		if hit.Similarity <= opts.Threshold {
			continue
		}

		hit.Description = stringPtr(description)
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})
	if opts.Limit > 0 && len(hits) > opts.Limit {
		hits = hits[:opts.Limit]
	}
	return hits, nil
}
