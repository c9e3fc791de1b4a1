package extract

import (
	"context"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/linkmagico/chatbot/internal/fetch"
	"github.com/linkmagico/chatbot/internal/model"
	"github.com/linkmagico/chatbot/internal/store"
)

// Fetcher is the page retrieval collaborator.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.RawDocument, error)
}

// Extractor sequences cache lookup, fetch and the field cascades. It
// always yields a complete record: total fetch failure degrades to the
// canonical default record, which is cached like any other result.
type Extractor struct {
	fetcher Fetcher
	cache   store.Store
	group   singleflight.Group
}

// NewExtractor creates an Extractor over the given fetcher and cache.
func NewExtractor(f Fetcher, cache store.Store) *Extractor {
	return &Extractor{fetcher: f, cache: cache}
}

// Extract returns the structured record for a URL, serving repeated
// calls within the cache TTL from the cache. Concurrent misses on the
// same URL share a single fetch. The only error it returns is invalid
// input; every extraction failure resolves to the default record.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (*model.ExtractedRecord, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, eris.New("extract: url is required")
	}
	if u, err := url.Parse(rawURL); err != nil || !u.IsAbs() {
		return nil, eris.Errorf("extract: url must be absolute: %q", rawURL)
	}

	if rec, ok, err := e.cache.Get(ctx, rawURL); err != nil {
		zap.L().Warn("extract: cache read failed", zap.String("url", rawURL), zap.Error(err))
	} else if ok {
		zap.L().Debug("extract: cache hit", zap.String("url", rawURL))
		return rec, nil
	}

	v, _, _ := e.group.Do(rawURL, func() (any, error) {
		return e.extract(ctx, rawURL), nil
	})
	return v.(*model.ExtractedRecord), nil
}

func (e *Extractor) extract(ctx context.Context, rawURL string) *model.ExtractedRecord {
	rec := model.DefaultRecord(rawURL)

	raw, err := e.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		zap.L().Warn("extract: fetch failed, using default record",
			zap.String("url", rawURL),
			zap.Error(err),
		)
		e.put(ctx, rawURL, rec)
		return rec
	}

	if raw.FinalURL != "" {
		rec.ResolvedURL = raw.FinalURL
	}

	doc, err := ParseDocument(raw.Body)
	if err != nil {
		zap.L().Warn("extract: parse failed, using default record",
			zap.String("url", rawURL),
			zap.Error(err),
		)
		e.put(ctx, rawURL, rec)
		return rec
	}

	// Field extractors are independent; a miss on one never blocks the
	// others, the field just keeps its default.
	if v, ok := Title(doc); ok {
		rec.Title = v
	}
	if v, ok := Description(doc); ok {
		rec.Description = v
	}
	if v, ok := Price(doc); ok {
		rec.Price = v
	}
	if v := Benefits(doc); len(v) > 0 {
		rec.Benefits = v
	}
	if v := Testimonials(doc); len(v) > 0 {
		rec.Testimonials = v
	}
	if v, ok := CallToAction(doc); ok {
		rec.CallToAction = v
	}

	zap.L().Info("extract: record assembled",
		zap.String("url", rawURL),
		zap.String("title", rec.Title),
		zap.Int("benefits", len(rec.Benefits)),
		zap.Int("testimonials", len(rec.Testimonials)),
	)

	e.put(ctx, rawURL, rec)
	return rec
}

func (e *Extractor) put(ctx context.Context, rawURL string, rec *model.ExtractedRecord) {
	if err := e.cache.Put(ctx, rawURL, rec); err != nil {
		zap.L().Warn("extract: cache write failed", zap.String("url", rawURL), zap.Error(err))
	}
}
