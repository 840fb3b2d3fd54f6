// =============================================================================
// fetch.go - フィード取得
// =============================================================================
//
// 上流ソースへのHTTP GETを1回だけ実行する。リトライはしない。
// 失敗（タイムアウト・ネットワーク・2xx以外）はすべて *FetchError で返し、
// 呼び出し側は「このソースの候補は0件」として扱う。
//
// =============================================================================
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
)

// maxBodyBytes はレスポンスボディの上限
const maxBodyBytes = 5 << 20

// FetchError はフェッチ失敗を表す
type FetchError struct {
	URL        string
	StatusCode int  // 2xx以外のステータス（ネットワークエラー時は0）
	Timeout    bool // タイムアウトによる中断
	Cause      error
}

func (e *FetchError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("fetch %s: timeout", e.URL)
	case e.StatusCode > 0:
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	default:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Cause)
	}
}

func (e *FetchError) Unwrap() error { return e.Cause }

// Fetcher は共有クライアントでGETを行う
type Fetcher struct {
	cfg FetchConfig
}

// NewFetcher creates a Fetcher. Zero-valued fields fall back to the defaults.
func NewFetcher(cfg FetchConfig) *Fetcher {
	def := DefaultFetchConfig()
	if cfg.Client == nil {
		cfg.Client = def.Client
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	return &Fetcher{cfg: cfg}
}

// Fetch returns the raw body of url. Feeds get an RSS/XML Accept header.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	h := http.Header{}
	h.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, text/xml;q=0.8, */*;q=0.1")
	return f.get(ctx, url, h)
}

// FetchJSON GETs url with the extra headers and decodes the JSON body into v.
func (f *Fetcher) FetchJSON(ctx context.Context, url string, header http.Header, v any) error {
	h := header.Clone()
	if h == nil {
		h = http.Header{}
	}
	h.Set("Accept", "application/json")

	body, err := f.get(ctx, url, h)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

func (f *Fetcher) get(ctx context.Context, url string, header http.Header) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, &FetchError{URL: url, Cause: err}
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)

	resp, err := f.cfg.Client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Timeout: isTimeout(err), Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Cause: fmt.Errorf("unexpected status: %s", resp.Status)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &FetchError{URL: url, Timeout: isTimeout(err), Cause: err}
	}
	return body, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
