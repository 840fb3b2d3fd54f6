// =============================================================================
// aggregate.go - 検索パイプライン
// =============================================================================
//
// 【処理の流れ】
//
//   SearchRequest
//     │ 1. Normalize   既定値の適用（limit=5, days=7, language=en）
//     ▼
//   ┌──────────────────────────────────────────────┐
//   │ 2. Fan-out（errgroup）                        │
//   │    地域別アダプタ × 要求地域 ＋ 全体アダプタ   │
//   │    失敗したタスクは空リスト扱い（warnログ）     │
//   └──────────────────────────────────────────────┘
//     │    登録順 → 地域順でマージ（完了順に依存しない）
//     ▼
//   3. 重複排除   URL、なければ "タイトル|公開日"。先勝ち
//   4. 期間フィルタ 公開日不明・期間外・未来日付（1日超）を除外
//   5. スコアリング
//   6. ソート     score desc → 公開日 desc → URL asc → タイトル asc
//   7. 件数制限
//   8. フォールバック（0件の場合のみ）
//   9. ID付与     "opp_" + sha256(url + "\n" + title) の先頭12桁
//
// =============================================================================
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"power-team-radar/internal/logger"
)

// 既定値
const (
	DefaultLimit         = 5
	DefaultTimeRangeDays = 7
	DefaultLanguage      = "en"
)

// maxClockSkew は未来日付として許容する幅
const maxClockSkew = 24 * time.Hour

// Service は検索パイプライン本体
//
// 状態はリクエストごとに閉じており、Searchは並行に呼び出してよい。
type Service struct {
	adapters   []Adapter
	homeRegion string
	log        logger.Logger
	metrics    *Metrics
	now        func() time.Time
}

// Option は Service の任意設定
type Option func(*Service)

// WithLogger はロガーを設定する
func WithLogger(l logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithMetrics はPrometheusメトリクスを設定する
func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock は現在時刻の取得関数を差し替える（テスト用）
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a search service over the given adapters. homeRegion is
// the implicit location used when a request names none ("Malaysia").
func NewService(adapters []Adapter, homeRegion string, opts ...Option) *Service {
	if homeRegion == "" {
		homeRegion = DefaultHomeRegion
	}
	s := &Service{
		adapters:   adapters,
		homeRegion: homeRegion,
		log:        logger.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Normalize はリクエストに既定値を適用したコピーを返す
//
// 0以下の limit / time_range_days は既定値になる。空文字列の業種・地域は除く。
func (r SearchRequest) Normalize() SearchRequest {
	out := r
	out.Industries = uniqStrings(r.Industries)
	out.Locations = uniqStrings(r.Locations)
	if out.Limit <= 0 {
		out.Limit = DefaultLimit
	}
	if out.TimeRangeDays <= 0 {
		out.TimeRangeDays = DefaultTimeRangeDays
	}
	out.Language = strings.ToLower(strings.TrimSpace(r.Language))
	if out.Language == "" {
		out.Language = DefaultLanguage
	}
	return out
}

// task はアダプタ1回分の呼び出し
type task struct {
	adapter  Adapter
	location string
}

// Search runs the full pipeline and always yields at least one item unless
// ctx was already cancelled on entry. Source failures never surface here.
func (s *Service) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	req = req.Normalize()
	now := s.now().UTC()
	q := Query{
		Industries: req.Industries,
		Language:   req.Language,
		Since:      now.AddDate(0, 0, -req.TimeRangeDays),
	}

	merged := s.collect(ctx, s.tasks(req), q)
	deduped := dedupe(merged)
	kept := filterRecent(deduped, req.TimeRangeDays, now)

	items := make([]Opportunity, 0, len(kept))
	for _, c := range kept {
		items = append(items, enrich(c, req, now))
	}
	sortOpportunities(items)
	if len(items) > req.Limit {
		items = items[:req.Limit]
	}

	usedFallback := false
	if len(items) == 0 {
		usedFallback = true
		s.metrics.fallbackUsed()
		items = s.fallback(req, now)
	}
	assignIDs(items)

	s.log.Info("Search completed",
		logger.Int("candidates", len(merged)),
		logger.Int("deduped", len(deduped)),
		logger.Int("kept", len(kept)),
		logger.Int("returned", len(items)),
		logger.Bool("fallback", usedFallback),
	)
	return &SearchResponse{Items: items}, nil
}

// tasks は地域別アダプタを地域ごとに展開したタスク一覧（登録順 → 地域順）
func (s *Service) tasks(req SearchRequest) []task {
	locations := req.Locations
	if len(locations) == 0 {
		locations = []string{s.homeRegion}
	}

	var out []task
	for _, a := range s.adapters {
		if !a.PerLocation() {
			out = append(out, task{adapter: a, location: s.homeRegion})
			continue
		}
		for _, loc := range locations {
			out = append(out, task{adapter: a, location: loc})
		}
	}
	return out
}

// collect は全タスクを並行実行し、タスク順に結果をマージする
//
// 各タスクは専用のスロットに書き込むため、ロックは不要。
func (s *Service) collect(ctx context.Context, tasks []task, q Query) []Candidate {
	results := make([][]Candidate, len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	for i, t := range tasks {
		g.Go(func() error {
			tq := q
			tq.Location = t.location
			results[i] = s.runTask(gctx, t, tq)
			return nil
		})
	}
	_ = g.Wait() // タスクはエラーを返さない

	var merged []Candidate
	for _, r := range results {
		merged = append(merged, r...)
	}
	return merged
}

// runTask は1タスクを実行する。エラー・panicはログとメトリクスに記録して空を返す
func (s *Service) runTask(ctx context.Context, t task, q Query) (out []Candidate) {
	src := t.adapter.Name()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Source panicked",
				logger.String("source", string(src)),
				logger.String("location", t.location),
				logger.Any("panic", r),
			)
			s.metrics.observeTask(src, outcomePanic, 0, time.Since(start))
			out = nil
		}
	}()

	cands, err := t.adapter.Collect(ctx, q)
	if err != nil {
		outcome := outcomeError
		var fe *FetchError
		if errors.As(err, &fe) && fe.Timeout {
			outcome = outcomeTimeout
		}
		s.log.Warn("Source failed",
			logger.String("source", string(src)),
			logger.String("location", t.location),
			logger.Error(fmt.Errorf("collect %s: %w", src, err)),
		)
		s.metrics.observeTask(src, outcome, 0, time.Since(start))
		return nil
	}

	s.log.Debug("Source collected",
		logger.String("source", string(src)),
		logger.String("location", t.location),
		logger.Int("count", len(cands)),
	)
	s.metrics.observeTask(src, outcomeOK, len(cands), time.Since(start))
	return cands
}

// fallback は固定の例示候補を通常と同じ経路でスコアリングして返す
func (s *Service) fallback(req SearchRequest, now time.Time) []Opportunity {
	location := s.homeRegion
	if len(req.Locations) > 0 {
		location = req.Locations[0]
	}

	cands := fallbackCandidates(now, location)
	items := make([]Opportunity, 0, len(cands))
	for _, c := range cands {
		items = append(items, enrich(c, req, now))
	}
	sortOpportunities(items)

	n := min(req.Limit, maxFallbackItems)
	if len(items) > n {
		items = items[:n]
	}
	return items
}

// =============================================================================
// パイプラインの各段階
// =============================================================================

// dedupe は重複排除キーの先勝ちで候補を絞る
func dedupe(in []Candidate) []Candidate {
	seen := make(map[string]bool, len(in))
	out := make([]Candidate, 0, len(in))
	for _, c := range in {
		if !c.hasKey() {
			continue
		}
		k := c.dedupKey()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, c)
	}
	return out
}

// filterRecent は期間内の候補のみ残す
//
//   - 公開日不明は除外（古い記事の混入を防ぐ）
//   - 経過日数（切り捨て）が days を超えるものは除外
//   - 現在時刻より1日以上未来のものは除外
//   - 残した候補の PublishedAt はRFC3339 UTCに正規化する
func filterRecent(in []Candidate, days int, now time.Time) []Candidate {
	out := make([]Candidate, 0, len(in))
	for _, c := range in {
		if c.PublishedAt == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, c.PublishedAt)
		if err != nil {
			continue
		}
		if t.After(now.Add(maxClockSkew)) {
			continue
		}
		if daysSince(c.PublishedAt, now) > days {
			continue
		}
		// 以降の比較は文字列で行うため、オフセット付きの値をUTCに揃える
		c.PublishedAt = t.UTC().Format(time.RFC3339)
		out = append(out, c)
	}
	return out
}

// enrich は候補にスコアと付加情報を付ける
func enrich(c Candidate, req SearchRequest, now time.Time) Opportunity {
	text := c.Title + " " + c.Summary
	signals := matchSignals(text)

	industries := req.Industries
	if len(industries) == 0 {
		industries = []string{defaultIndustry}
	}

	score := ScoreItem(ScoreInput{
		LocationMatch: locationMatches(c.Location, req.Locations),
		SignalsCount:  len(signals),
		DaysAge:       daysSince(c.PublishedAt, now),
		KeywordHits:   countHits(text, healthKeywords),
	})

	return Opportunity{
		Source:            c.Source,
		Title:             c.Title,
		Summary:           c.Summary,
		URL:               c.URL,
		PublishedAt:       c.PublishedAt,
		Score:             score,
		MatchedIndustries: append([]string(nil), industries...),
		Location:          c.Location,
		Signals:           signals,
		SuggestedMembers:  suggestMembers(industries[0]),
		OpeningLine:       openingLine(req.Language),
	}
}

// sortOpportunities は全順序でソートする
//
// PublishedAt は filterRecent でRFC3339 UTCに揃えてあるため、文字列比較で時刻順になる。
func sortOpportunities(items []Opportunity) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.PublishedAt != b.PublishedAt {
			return a.PublishedAt > b.PublishedAt
		}
		if a.URL != b.URL {
			return a.URL < b.URL
		}
		return a.Title < b.Title
	})
}

// OpportunityID はURLとタイトルから決定的なIDを作る
func OpportunityID(url, title string) string {
	sum := sha256.Sum256([]byte(url + "\n" + title))
	return "opp_" + hex.EncodeToString(sum[:])[:12]
}

// assignIDs はIDを付与する。レスポンス内で衝突した場合は "_2", "_3" … を付ける
func assignIDs(items []Opportunity) {
	used := make(map[string]int, len(items))
	for i := range items {
		id := OpportunityID(items[i].URL, items[i].Title)
		used[id]++
		if n := used[id]; n > 1 {
			id = fmt.Sprintf("%s_%d", id, n)
		}
		items[i].ID = id
	}
}
