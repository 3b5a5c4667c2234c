package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// Rubric kinds stored in the knowledge base.
const (
	KindHiringRubric    = "hiring_rubric"
	KindInterviewRubric = "interview_rubric"
	KindFairnessPolicy  = "fairness_policy"
)

// RubricPassage is one retrieved knowledge-base chunk.
type RubricPassage struct {
	Source string
	Kind   string
	Text   string
	Score  float32
}

// KnowledgeBase stores hiring rubrics and retrieves the passages most
// relevant to a job description.
type KnowledgeBase interface {
	InitCollection(ctx context.Context) error
	Ingest(ctx context.Context, source, kind string, chunks []string) (int, error)
	Retrieve(ctx context.Context, query string, kinds []string, limit int) ([]RubricPassage, error)
}

type embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type qdrantKnowledgeBase struct {
	client         *qdrant.Client
	embedder       embedder
	collectionName string
	vectorSize     uint64
}

func NewQdrantKnowledgeBase(urlStr, apiKey, collectionName string, embedder embedder) (KnowledgeBase, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	// The go client speaks gRPC, 6334 unless the URL says otherwise.
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   parsed.Hostname(),
		Port:   port,
		APIKey: apiKey,
		UseTLS: parsed.Scheme == "https",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantKnowledgeBase{
		client:         client,
		embedder:       embedder,
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004
	}, nil
}

// InitCollection implements KnowledgeBase.
func (q *qdrantKnowledgeBase) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	return nil
}

// Ingest implements KnowledgeBase. Existing passages of the same source are
// replaced.
func (q *qdrantKnowledgeBase) Ingest(ctx context.Context, source, kind string, chunks []string) (int, error) {
	if err := q.deleteSource(ctx, source); err != nil {
		return 0, err
	}

	points := make([]*qdrant.PointStruct, 0, len(chunks))
	for i, chunk := range chunks {
		embedding, err := q.embedder.GenerateEmbedding(ctx, chunk)
		if err != nil {
			return 0, fmt.Errorf("embed chunk %d of %s: %w", i, source, err)
		}
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(uuid.NewString()),
			Vectors: qdrant.NewVectors(embedding...),
			Payload: qdrant.NewValueMap(map[string]any{
				"source": source,
				"kind":   kind,
				"chunk":  i,
				"text":   chunk,
			}),
		})
	}
	if len(points) == 0 {
		return 0, nil
	}

	if _, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         points,
	}); err != nil {
		return 0, fmt.Errorf("failed to upsert points: %w", err)
	}

	return len(points), nil
}

// Retrieve implements KnowledgeBase.
func (q *qdrantKnowledgeBase) Retrieve(ctx context.Context, query string, kinds []string, limit int) ([]RubricPassage, error) {
	embedding, err := q.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	var filter *qdrant.Filter
	if len(kinds) > 0 {
		filter = &qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatchKeywords("kind", kinds...)},
		}
	}

	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	passages := make([]RubricPassage, 0, len(points))
	for _, point := range points {
		passages = append(passages, RubricPassage{
			Source: payloadString(point.Payload, "source"),
			Kind:   payloadString(point.Payload, "kind"),
			Text:   payloadString(point.Payload, "text"),
			Score:  point.Score,
		})
	}

	return passages, nil
}

func (q *qdrantKnowledgeBase) deleteSource(ctx context.Context, source string) error {
	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: &qdrant.Filter{
					Must: []*qdrant.Condition{qdrant.NewMatch("source", source)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete passages of %s: %w", source, err)
	}
	return nil
}

func payloadString(payload map[string]*qdrant.Value, key string) string {
	if v, ok := payload[key]; ok {
		if s, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
			return s.StringValue
		}
	}
	return ""
}

// FormatRubricContext renders retrieved passages for inclusion in a prompt.
func FormatRubricContext(passages []RubricPassage) string {
	if len(passages) == 0 {
		return ""
	}

	parts := make([]string, 0, len(passages))
	for i, p := range passages {
		parts = append(parts, fmt.Sprintf("--- Rubric %d (%s, score %.2f) ---\n%s",
			i+1, p.Source, p.Score, strings.TrimSpace(p.Text)))
	}

	return strings.Join(parts, "\n\n")
}
