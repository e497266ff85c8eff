package dbenum

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/everyday-items/iterio/enum"
	esinfra "github.com/everyday-items/iterio/infra/db/elasticsearch"
)

type esHit struct {
	ID     string         `json:"_id"`
	Source map[string]any `json:"_source"`
}

type esScrollResponse struct {
	ScrollID string `json:"_scroll_id"`
	Hits     struct {
		Hits []esHit `json:"hits"`
	} `json:"hits"`
}

func decodeScrollResponse(body io.ReadCloser) (*esScrollResponse, error) {
	defer body.Close()
	var resp esScrollResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func hitsToRows(hits []esHit) Rows {
	rows := make(Rows, len(hits))
	for i, h := range hits {
		row := make(Row, len(h.Source)+1)
		for k, v := range h.Source {
			row[k] = v
		}
		row["_id"] = h.ID
		rows[i] = row
	}
	return rows
}

type scrollState struct {
	scrollID string
}

// EnumElasticScroll pages an Elasticsearch query's matches into Rows
// chunks via the scroll API: the first pull opens the scroll with
// client.Search, every later pull advances it with client.Scroll, and
// release clears the scroll context. wrapped is the teacher's own
// infra/db/elasticsearch connection wrapper; the raw *elasticsearch.
// Client it hands back is what the scroll/search calls actually run on.
func EnumElasticScroll[A any](ctx context.Context, wrapped *esinfra.Client, index string, query map[string]any, batchSize int, ttl time.Duration) enum.Onum[Rows, A] {
	client := wrapped.RawClient()
	return enum.Bracket[Rows, A, *scrollState](
		func() (*scrollState, error) { return &scrollState{}, nil },
		func(s *scrollState) error {
			if s.scrollID == "" {
				return nil
			}
			res, err := client.ClearScroll(
				client.ClearScroll.WithContext(ctx),
				client.ClearScroll.WithScrollID(s.scrollID),
			)
			if err != nil {
				return err
			}
			return res.Body.Close()
		},
		func(s *scrollState) enum.Onum[Rows, A] {
			payload, err := json.Marshal(map[string]any{"query": query, "size": batchSize})
			if err != nil {
				return failOnum[Rows, A](err)
			}
			return enum.BuildOnum[Rows, A](func() (Rows, bool, error) {
				var (
					res *esapi.Response
					err error
				)
				if s.scrollID == "" {
					res, err = client.Search(
						client.Search.WithContext(ctx),
						client.Search.WithIndex(index),
						client.Search.WithBody(bytes.NewReader(payload)),
						client.Search.WithScroll(ttl),
					)
				} else {
					res, err = client.Scroll(
						client.Scroll.WithContext(ctx),
						client.Scroll.WithScrollID(s.scrollID),
						client.Scroll.WithScroll(ttl),
					)
				}
				if err != nil {
					return nil, false, err
				}
				if res.IsError() {
					defer res.Body.Close()
					return nil, false, fmt.Errorf("dbenum: elasticsearch scroll request failed: %s", res.Status())
				}
				parsed, err := decodeScrollResponse(res.Body)
				if err != nil {
					return nil, false, err
				}
				s.scrollID = parsed.ScrollID
				if len(parsed.Hits.Hits) == 0 {
					return nil, false, io.EOF
				}
				return hitsToRows(parsed.Hits.Hits), false, nil
			})
		},
	)
}
