// Package vectorstore provides a Qdrant-backed dense vector store (spec
// §4.4): collection management, point upsert, and cosine-similarity search
// with equality-filter translation.
package vectorstore

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/thebtf/ragd/pkg/docmodel"
)

// Config configures a new vectorstore Client.
type Config struct {
	Host             string
	Port             int
	CollectionPrefix string // physical collection name is "<prefix>_<logical>"
}

// Client wraps a Qdrant gRPC connection for a single logical set of
// collections sharing one prefix.
type Client struct {
	conn   *qdrant.Client
	prefix string
	mu     sync.RWMutex // guards the known-collections cache
	known  map[string]bool
}

// NewClient dials Qdrant at cfg.Host:cfg.Port. The connection is lazy in the
// sense that Qdrant need not be reachable yet; the first real RPC surfaces
// connectivity errors.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("qdrant host is required")
	}
	if cfg.CollectionPrefix == "" {
		return nil, fmt.Errorf("collection prefix is required")
	}

	conn, err := qdrant.NewClient(&qdrant.Config{
		Host: cfg.Host,
		Port: cfg.Port,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to qdrant at %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	return &Client{
		conn:   conn,
		prefix: cfg.CollectionPrefix,
		known:  make(map[string]bool),
	}, nil
}

// collectionName maps a logical collection name to its physical name.
func (c *Client) collectionName(name string) string {
	return fmt.Sprintf("%s_%s", c.prefix, name)
}

// EnsureCollection creates the named collection with the given vector
// dimensionality and cosine distance if it does not already exist.
func (c *Client) EnsureCollection(ctx context.Context, name string, dimensions uint64) error {
	physical := c.collectionName(name)

	c.mu.RLock()
	ok := c.known[physical]
	c.mu.RUnlock()
	if ok {
		return nil
	}

	exists, err := c.conn.CollectionExists(ctx, physical)
	if err != nil {
		return fmt.Errorf("check collection %s: %w", physical, err)
	}
	if !exists {
		err = c.conn.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: physical,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     dimensions,
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("create collection %s: %w", physical, err)
		}
	}

	c.mu.Lock()
	c.known[physical] = true
	c.mu.Unlock()
	return nil
}

// pointID derives a Qdrant point id from a document id: a bare uint64 is
// used directly, otherwise a deterministic UUIDv5 over the OID namespace is
// derived and passed as the full 128-bit UUID (not truncated to 64 bits).
func pointID(id string) *qdrant.PointId {
	if n, err := strconv.ParseUint(id, 10, 64); err == nil {
		return qdrant.NewIDNum(n)
	}
	u := uuid.NewSHA1(uuid.NameSpaceOID, []byte(id))
	return qdrant.NewID(u.String())
}

// Index upserts documents into the named collection. Documents with no
// embedding are skipped.
func (c *Client) Index(ctx context.Context, collection string, docs []docmodel.Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	physical := c.collectionName(collection)

	points := make([]*qdrant.PointStruct, 0, len(docs))
	for _, d := range docs {
		if len(d.Embedding) == 0 {
			continue
		}
		payload := map[string]*qdrant.Value{
			"content": qdrant.NewValueString(d.Content),
		}
		for k, v := range d.Metadata {
			payload[k] = qdrant.NewValueString(v)
		}
		points = append(points, &qdrant.PointStruct{
			Id:      pointID(d.ID),
			Vectors: qdrant.NewVectors(d.Embedding...),
			Payload: payload,
		})
	}
	if len(points) == 0 {
		return 0, nil
	}

	wait := true
	_, err := c.conn.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: physical,
		Points:         points,
		Wait:           &wait,
	})
	if err != nil {
		return 0, fmt.Errorf("upsert into %s: %w", physical, err)
	}
	return len(points), nil
}

// Search performs cosine-similarity search in the named collection, applying
// an optional conjunctive equality filter over string metadata fields.
func (c *Client) Search(ctx context.Context, collection string, queryVector []float32, topK int, filter map[string]string) ([]docmodel.SearchResult, error) {
	physical := c.collectionName(collection)
	if topK <= 0 {
		topK = 10
	}

	req := &qdrant.QueryPoints{
		CollectionName: physical,
		Query:          qdrant.NewQuery(queryVector...),
		Limit:          ptrUint64(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(false),
	}
	if len(filter) > 0 {
		conditions := make([]*qdrant.Condition, 0, len(filter))
		for k, v := range filter {
			conditions = append(conditions, qdrant.NewMatch(k, v))
		}
		req.Filter = &qdrant.Filter{Must: conditions}
	}

	resp, err := c.conn.Query(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", physical, err)
	}

	results := make([]docmodel.SearchResult, 0, len(resp))
	for _, point := range resp {
		meta := make(map[string]string, len(point.Payload))
		for k, v := range point.Payload {
			if s := v.GetStringValue(); s != "" {
				meta[k] = s
			}
		}
		results = append(results, docmodel.SearchResult{
			ID:       formatPointID(point.Id),
			Content:  meta["content"],
			Score:    point.Score,
			Metadata: meta,
			Source:   docmodel.SourceVector,
		})
	}
	return results, nil
}

// DeleteCollection removes the named collection entirely.
func (c *Client) DeleteCollection(ctx context.Context, name string) error {
	physical := c.collectionName(name)
	if err := c.conn.DeleteCollection(ctx, physical); err != nil {
		return fmt.Errorf("delete collection %s: %w", physical, err)
	}
	c.mu.Lock()
	delete(c.known, physical)
	c.mu.Unlock()
	return nil
}

// HealthCheck reports whether Qdrant is reachable and responding.
func (c *Client) HealthCheck(ctx context.Context) bool {
	_, err := c.conn.HealthCheck(ctx)
	return err == nil
}

func ptrUint64(v uint64) *uint64 { return &v }

// formatPointID renders a Qdrant point id back to its string form: a
// numeric id prints as decimal, a UUID id prints as-is.
func formatPointID(id *qdrant.PointId) string {
	if id == nil {
		return ""
	}
	switch v := id.GetPointIdOptions().(type) {
	case *qdrant.PointId_Num:
		return strconv.FormatUint(v.Num, 10)
	case *qdrant.PointId_Uuid:
		return v.Uuid
	default:
		return ""
	}
}
