package builders

import (
	"fmt"
	"time"

	"github.com/rushteam/vidrec/config"
	"github.com/rushteam/vidrec/core"
	"github.com/rushteam/vidrec/feature"
	"github.com/rushteam/vidrec/filter"
	"github.com/rushteam/vidrec/pipeline"
	"github.com/rushteam/vidrec/pkg/conv"
	"github.com/rushteam/vidrec/rank"
	"github.com/rushteam/vidrec/recall"
	"github.com/rushteam/vidrec/rerank"
)

func init() {
	config.Register("recall.catalog", BuildCatalogNode)
	config.Register("recall.user_history", BuildUserHistoryNode)
	config.Register("rank.content_cf", BuildContentCFNode)
	config.Register("filter", BuildFilterNode)
	config.Register("rerank.topn", BuildTopNNode)
}

func BuildCatalogNode(_ map[string]any, deps *pipeline.Dependencies) (pipeline.Node, error) {
	if deps.Catalog == nil {
		return nil, fmt.Errorf("recall.catalog: catalog source not configured")
	}
	return &recall.Catalog{Source: deps.Catalog}, nil
}

func BuildUserHistoryNode(cfg map[string]any, deps *pipeline.Dependencies) (pipeline.Node, error) {
	node := &recall.UserHistory{Behaviors: deps.Behaviors}
	if conv.ConfigGet(cfg, "watch_history", true) {
		node.WatchHistory = deps.WatchHistory
	}
	return node, nil
}

func BuildContentCFNode(cfg map[string]any, deps *pipeline.Dependencies) (pipeline.Node, error) {
	rc := deps.Rank
	if rc == nil {
		rc = &core.DefaultRankConfig{}
	}
	minLen := conv.ConfigGetInt(cfg, "min_token_len", rc.DefaultMinTokenLen())
	workers := conv.ConfigGetInt(cfg, "workers", rc.DefaultWorkers())
	maxItems := conv.ConfigGetInt(cfg, "max_items", rc.DefaultMaxItems())
	if minLen < 0 || workers < 0 || maxItems < 0 {
		return nil, fmt.Errorf("rank.content_cf: min_token_len, workers and max_items must not be negative")
	}
	return &rank.ContentCFNode{
		Encoder:  feature.NewTFIDFEncoder(feature.NewWordTokenizer(minLen)),
		Workers:  workers,
		MaxItems: maxItems,
	}, nil
}

func BuildFilterNode(cfg map[string]any, deps *pipeline.Dependencies) (pipeline.Node, error) {
	filtersConfig, err := conv.ConfigGetMaps(cfg, "filters")
	if err != nil {
		return nil, err
	}
	if len(filtersConfig) == 0 {
		return nil, fmt.Errorf("filters not found or invalid")
	}
	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, filterMap := range filtersConfig {
		filterType := conv.ConfigGet(filterMap, "type", "")
		switch filterType {
		case "watched":
			filters = append(filters, filter.NewWatchedFilter())
		case "expr":
			expr := conv.ConfigGet(filterMap, "expr", "")
			if expr == "" {
				return nil, fmt.Errorf("filter expr: expr not found")
			}
			f, err := filter.NewExprFilter(expr)
			if err != nil {
				return nil, err
			}
			filters = append(filters, f)
		case "blacklist":
			ids, err := conv.ConfigGetInt64s(filterMap, "item_ids")
			if err != nil {
				return nil, fmt.Errorf("filter blacklist: %w", err)
			}
			key := conv.ConfigGet(filterMap, "key", "")
			if key != "" && deps.Store == nil {
				return nil, fmt.Errorf("filter blacklist: key %q set but no store configured", key)
			}
			bl := filter.NewBlacklistFilter(ids, deps.Store, key)
			bl.Refresh = time.Duration(conv.ConfigGetInt(filterMap, "refresh_seconds", 0)) * time.Second
			filters = append(filters, bl)
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}
	return &filter.FilterNode{Filters: filters}, nil
}

func BuildTopNNode(cfg map[string]any, _ *pipeline.Dependencies) (pipeline.Node, error) {
	return &rerank.TopNNode{Max: conv.ConfigGetInt(cfg, "max", 0)}, nil
}
