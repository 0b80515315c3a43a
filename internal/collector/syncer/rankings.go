package syncer

import (
	"context"
	"log/slog"

	"github.com/Vodeneev/collegetennis/internal/collector/mapper"
	"github.com/Vodeneev/collegetennis/internal/collector/transport"
	"github.com/Vodeneev/collegetennis/internal/pkg/models"
	"github.com/Vodeneev/collegetennis/internal/pkg/performance"
	"github.com/Vodeneev/collegetennis/internal/pkg/storage"
)

const rankingItemLimit = 125

var rankingFormats = []string{models.RankingFormatTeam, models.RankingFormatSingles, models.RankingFormatDoubles}

type rankingKey struct {
	division string
	format   string
	gender   string
}

func (k rankingKey) String() string {
	return k.division + "/" + k.format + "/" + k.gender
}

// Rankings refreshes the published ranking lists of every configured division and gender.
// Publish dates are updated for every listed list; entries are fetched only for lists that
// have none stored yet.
func (o *Orchestrator) Rankings(ctx context.Context, stats *performance.RunStats) error {
	var keys []rankingKey
	for _, division := range o.cfg.Sync.RankingDivisions {
		for _, format := range rankingFormats {
			for _, gender := range o.cfg.Sync.RankingGenders {
				keys = append(keys, rankingKey{division: division, format: format, gender: gender})
			}
		}
	}

	var listed []string
	err := RunEach(ctx, o, stats, keys, EachSpec[rankingKey, models.RankingList]{
		Fetch: func(ctx context.Context, k rankingKey) ([]models.RankingList, []error, error) {
			data, err := o.client.Do(ctx, transport.Request{
				URL:           o.cfg.Provider.MeshURL,
				OperationName: "td_RankListsPublishDate",
				Query:         rankListsQuery,
				Variables:     rankListsVars(k.division, k.format, k.gender),
			})
			if err != nil {
				return nil, nil, err
			}
			conn, err := field[connection](data, "td_rankLists")
			if err != nil {
				return nil, nil, err
			}
			items := conn.Items
			if n := o.cfg.Sync.MaxRankingLists; n > 0 && len(items) > n {
				items = items[:n]
			}
			lists, errs := decodeAll(items, func(raw mapper.RawRankListSummary) (models.RankingList, error) {
				return mapper.RankListSummary(k.division, k.format, k.gender, raw)
			})
			for _, l := range lists {
				listed = append(listed, l.ID)
			}
			return lists, errs, nil
		},
		Upsert: o.engine.UpsertRankingList,
		Name:   rankingKey.String,
	})
	if err != nil {
		return err
	}

	var pending []string
	err = o.store.WithTx(ctx, func(tx storage.Tx) error {
		for _, id := range listed {
			has, err := tx.HasRankings(ctx, id)
			if err != nil {
				return err
			}
			if !has {
				pending = append(pending, id)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	slog.Info("Ranking lists listed", "job", stats.Job, "listed", len(listed), "pending", len(pending))

	return RunEach(ctx, o, stats, pending, EachSpec[string, models.RankingListRecord]{
		Fetch: func(ctx context.Context, id string) ([]models.RankingListRecord, []error, error) {
			data, err := o.client.Do(ctx, transport.Request{
				URL:           o.cfg.Provider.MeshURL,
				OperationName: "td_RankListById",
				Query:         rankListQuery,
				Variables:     rankListVars(id, rankingItemLimit),
			})
			if err != nil {
				return nil, nil, err
			}
			raw, err := field[mapper.RawRankingList](data, "td_rankList")
			if err != nil {
				return nil, nil, err
			}
			if raw.RankingItems != nil && raw.RankingItems.TotalItems > len(raw.RankingItems.Items) {
				slog.Warn("Ranking list truncated", "list", id,
					"total", raw.RankingItems.TotalItems, "fetched", len(raw.RankingItems.Items))
			}
			recs, errs := mapper.RankingList(raw)
			return recs, errs, nil
		},
		Upsert: o.engine.UpsertRankings,
		Name:   func(id string) string { return id },
	})
}
