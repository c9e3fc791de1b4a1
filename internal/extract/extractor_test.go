package extract

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkmagico/chatbot/internal/fetch"
	"github.com/linkmagico/chatbot/internal/model"
	"github.com/linkmagico/chatbot/internal/store"
)

type fetcherFunc func(ctx context.Context, url string) (*fetch.RawDocument, error)

func (f fetcherFunc) Fetch(ctx context.Context, url string) (*fetch.RawDocument, error) {
	return f(ctx, url)
}

const fixturePage = `<html><head><title>irrelevante</title></head><body>
<h1>Arsenal Secreto das Vendas</h1>
<div class="description"><p>Descubra as estratégias que os maiores vendedores usam para fechar negócios todos os dias, explicadas passo a passo.</p></div>
<div class="price">R$ 497,00</div>
<ul class="benefits">
	<li>Acesso vitalício a todas as aulas do programa</li>
	<li>Suporte direto com instrutores experientes</li>
</ul>
<blockquote>Recomendo demais, os resultados apareceram já na primeira semana.</blockquote>
<a href="/checkout">Quero Garantir Minha Vaga</a>
</body></html>`

func TestExtractor_FullPage(t *testing.T) {
	calls := 0
	e := NewExtractor(fetcherFunc(func(_ context.Context, url string) (*fetch.RawDocument, error) {
		calls++
		return &fetch.RawDocument{Body: []byte(fixturePage), FinalURL: url, StatusCode: 200}, nil
	}), store.NewMemory(time.Hour))

	rec, err := e.Extract(context.Background(), "https://example.com/oferta")
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/oferta", rec.SourceURL)
	assert.Equal(t, "https://example.com/oferta", rec.ResolvedURL)
	assert.Equal(t, "Arsenal Secreto das Vendas", rec.Title)
	assert.Contains(t, rec.Description, "Descubra as estratégias")
	assert.Equal(t, "R$ 497,00", rec.Price)
	assert.Equal(t, []string{
		"Acesso vitalício a todas as aulas do programa",
		"Suporte direto com instrutores experientes",
	}, rec.Benefits)
	require.Len(t, rec.Testimonials, 1)
	assert.Equal(t, "Quero Garantir Minha Vaga", rec.CallToAction)
	assert.Equal(t, 1, calls)
}

func TestExtractor_CacheHitWithinTTL(t *testing.T) {
	calls := 0
	e := NewExtractor(fetcherFunc(func(_ context.Context, url string) (*fetch.RawDocument, error) {
		calls++
		return &fetch.RawDocument{Body: []byte(fixturePage), FinalURL: url, StatusCode: 200}, nil
	}), store.NewMemory(time.Hour))

	first, err := e.Extract(context.Background(), "https://example.com")
	require.NoError(t, err)
	second, err := e.Extract(context.Background(), "https://example.com")
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "second call must be served from cache")
	assert.Equal(t, first, second)
}

func TestExtractor_DistinctURLsFetchedSeparately(t *testing.T) {
	calls := 0
	e := NewExtractor(fetcherFunc(func(_ context.Context, url string) (*fetch.RawDocument, error) {
		calls++
		return &fetch.RawDocument{Body: []byte(fixturePage), FinalURL: url, StatusCode: 200}, nil
	}), store.NewMemory(time.Hour))

	_, err := e.Extract(context.Background(), "https://example.com/a")
	require.NoError(t, err)
	_, err = e.Extract(context.Background(), "https://example.com/a?utm=1")
	require.NoError(t, err)

	assert.Equal(t, 2, calls, "query variants are distinct cache keys")
}

func TestExtractor_FetchFailureYieldsDefaults(t *testing.T) {
	calls := 0
	e := NewExtractor(fetcherFunc(func(_ context.Context, _ string) (*fetch.RawDocument, error) {
		calls++
		return nil, eris.New("host unreachable")
	}), store.NewMemory(time.Hour))

	rec, err := e.Extract(context.Background(), "https://down.example.com")
	require.NoError(t, err)

	assert.Equal(t, model.DefaultTitle, rec.Title)
	assert.Equal(t, model.DefaultPrice, rec.Price)
	assert.Equal(t, model.DefaultDescription, rec.Description)
	assert.Equal(t, model.DefaultBenefits(), rec.Benefits)
	assert.Equal(t, model.DefaultTestimonials(), rec.Testimonials)
	assert.Equal(t, model.DefaultCallToAction, rec.CallToAction)

	// The default record is cached like any other result.
	_, err = e.Extract(context.Background(), "https://down.example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestExtractor_EmptyPageKeepsDefaults(t *testing.T) {
	e := NewExtractor(fetcherFunc(func(_ context.Context, url string) (*fetch.RawDocument, error) {
		return &fetch.RawDocument{Body: []byte("<html><body></body></html>"), FinalURL: url, StatusCode: 200}, nil
	}), store.NewMemory(time.Hour))

	rec, err := e.Extract(context.Background(), "https://empty.example.com")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultTitle, rec.Title)
	assert.Equal(t, model.DefaultCallToAction, rec.CallToAction)
}

func TestExtractor_ResolvedURLFollowsRedirect(t *testing.T) {
	e := NewExtractor(fetcherFunc(func(_ context.Context, _ string) (*fetch.RawDocument, error) {
		return &fetch.RawDocument{Body: []byte(fixturePage), FinalURL: "https://example.com/final", StatusCode: 200}, nil
	}), store.NewMemory(time.Hour))

	rec, err := e.Extract(context.Background(), "https://example.com/start")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/start", rec.SourceURL)
	assert.Equal(t, "https://example.com/final", rec.ResolvedURL)
}

func TestExtractor_InvalidURL(t *testing.T) {
	e := NewExtractor(fetcherFunc(func(_ context.Context, _ string) (*fetch.RawDocument, error) {
		t.Fatal("fetch must not be called")
		return nil, nil
	}), store.NewMemory(time.Hour))

	_, err := e.Extract(context.Background(), "")
	assert.Error(t, err)

	_, err = e.Extract(context.Background(), "not-a-url")
	assert.Error(t, err)

	_, err = e.Extract(context.Background(), "/relative/path")
	assert.Error(t, err)
}
