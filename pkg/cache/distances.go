package cache

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/matzehuels/stresslayout/pkg/layout"
)

// unreachable stands in for +Inf, which JSON cannot encode.
const unreachable = -1

// DistanceKey returns the key of the distance matrix of a graph with n nodes
// and the given links, in link units.
func DistanceKey(n int, links []layout.Link) string {
	return hashKey("distances", n, links)
}

// Distances returns the matrix stored under key, or calls compute and stores
// its result. hit reports whether the cache answered. Unreadable entries are
// treated as misses; failures to store are ignored.
func Distances(ctx context.Context, c Cache, key string, ttl time.Duration, compute func() ([][]float64, error)) (d [][]float64, hit bool, err error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if ok {
		if d, err := decodeDistances(data); err == nil {
			return d, true, nil
		}
	}

	d, err = compute()
	if err != nil {
		return nil, false, err
	}
	if data, err := encodeDistances(d); err == nil {
		_ = c.Set(ctx, key, data, ttl)
	}
	return d, false, nil
}

func encodeDistances(d [][]float64) ([]byte, error) {
	rows := make([][]float64, len(d))
	for i, row := range d {
		rows[i] = make([]float64, len(row))
		for j, v := range row {
			if math.IsInf(v, 1) {
				v = unreachable
			}
			rows[i][j] = v
		}
	}
	return json.Marshal(rows)
}

func decodeDistances(data []byte) ([][]float64, error) {
	var rows [][]float64
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		for j, v := range row {
			if v == unreachable {
				row[j] = math.Inf(1)
			}
		}
	}
	return rows, nil
}
