package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Title cascade: prominent headings, class-based title containers,
// social meta tags, then the document title element.

func titleValid(s string) bool {
	return minRunes(10)(s) && passesStoplist(s)
}

var titleCascade = []Strategy{
	{Name: "headings", Locate: texts("h1"), Validate: titleValid},
	{
		Name:     "title_classes",
		Locate:   texts(`.main-title, .product-title, .headline, .title, [class*="title"], [class*="headline"]`),
		Validate: titleValid,
	},
	{
		Name:     "meta_tags",
		Locate:   metas(`meta[property="og:title"]`, `meta[name="twitter:title"]`),
		Validate: titleValid,
	},
	{Name: "document_title", Locate: texts("title"), Validate: titleValid},
}

// Title extracts the product/page title.
func Title(d *Document) (string, bool) {
	return first(d, "title", titleCascade)
}

// Description cascade: first paragraph of description-like containers,
// paragraphs carrying marketing keywords, meta descriptions, then any
// paragraph. Accepted values are truncated to 500 runes.

const descriptionMaxRunes = 500

var descriptionKeywords = []string{
	"transforme", "descubra", "estratégia", "estrategia",
	"vendas", "marketing", "resultado", "método", "metodo",
}

func descriptionValid(s string) bool {
	return minRunes(80)(s) && passesStoplist(s)
}

var descriptionCascade = []Strategy{
	{
		Name: "container_paragraphs",
		Locate: firstParagraphs(
			".product-description", ".description", ".summary", ".lead",
			".intro", ".content", ".main-content", "article", "main",
		),
		Validate: descriptionValid,
	},
	{
		Name:     "keyword_paragraphs",
		Locate:   textsContaining("p", descriptionKeywords),
		Validate: descriptionValid,
	},
	{
		Name: "meta_tags",
		Locate: metas(
			`meta[name="description"]`,
			`meta[property="og:description"]`,
			`meta[name="twitter:description"]`,
		),
		Validate: descriptionValid,
	},
	{Name: "any_paragraph", Locate: texts("p"), Validate: descriptionValid},
}

// Description extracts the product description, capped at 500 runes.
func Description(d *Document) (string, bool) {
	v, ok := first(d, "description", descriptionCascade)
	if !ok {
		return "", false
	}
	return truncateRunes(v, descriptionMaxRunes), true
}

// Price: phase 1 matches currency patterns inside price-styled elements;
// phase 2 scans the full body text for Real amounts above a plausibility
// floor; phase 3 accepts promotional snippets mentioning a price.

const priceMinPlausible = 50

var (
	currencyRe = regexp.MustCompile(`R\$\s*\d{1,3}(?:[.,]\d{3})*(?:[.,]\d{2})?|USD\s*\d+[.,]?\d*|\$\s*\d+[.,]?\d*|€\s*\d+[.,]?\d*|£\s*\d+[.,]?\d*`)
	realRe     = regexp.MustCompile(`R\$\s*\d{1,3}(?:[.,]\d{3})*(?:[.,]\d{2})?`)
)

const priceSelectors = `.price-value, .product-price-value, .valor-produto, .preco-produto, .amount, .cost, .price, .valor, .preco, .money, .currency, [class*="price"], [class*="valor"], [class*="preco"], [class*="money"], [class*="cost"], [class*="amount"]`

var promoMarkers = []string{"oferta", "promoção", "promocao", "desconto", "por apenas", "investimento"}

// priceValue parses the numeric part of a Real match, separators
// stripped, so "R$ 497,00" reads as 49700.
func priceValue(s string) float64 {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	v, _ := strconv.ParseFloat(digits, 64)
	return v
}

var priceCascade = []Strategy{
	{
		Name: "price_elements",
		Locate: func(d *Document) []string {
			var out []string
			for _, t := range d.Texts(priceSelectors) {
				if m := currencyRe.FindString(t); m != "" {
					out = append(out, m)
				}
			}
			return out
		},
		Validate: func(s string) bool { return s != "" },
	},
	{
		Name: "body_scan",
		Locate: func(d *Document) []string {
			return realRe.FindAllString(d.BodyText(), -1)
		},
		Validate: func(s string) bool { return priceValue(s) > priceMinPlausible },
	},
	{
		Name:   "promo_snippets",
		Locate: textsContaining("p, div, span, li, strong, h2, h3", promoMarkers),
		Validate: func(s string) bool {
			return runesBetween(20, 300)(s) &&
				containsAny(s, []string{"r$", "apenas", "investimento"})
		},
	},
}

// Price extracts the product price, or a promotional price snippet when
// no currency amount can be found.
func Price(d *Document) (string, bool) {
	return first(d, "price", priceCascade)
}

// Benefits: marked or verb-prefixed list items first, then any list
// item; up to 5 deduplicated entries.

const maxBenefits = 5

var benefitVerbs = []string{
	"transforme", "alcance", "domine", "aprenda", "fechar",
	"resultados", "garantia", "estratégia", "técnica", "método", "sistema",
}

var benefitValid = all(runesBetween(20, 300), passesStoplist)

var benefitCascade = []Strategy{
	{
		Name:     "benefit_lists",
		Locate:   texts(".benefits li, .vantagens li, .features li, .product-benefits li, .advantages li"),
		Validate: benefitValid,
	},
	{
		Name:     "marker_items",
		Locate:   textsContaining("ul li, ol li", []string{"✓", "✅", "•", "→", "▶"}),
		Validate: benefitValid,
	},
	{
		Name:     "verb_items",
		Locate:   textsContaining("li", benefitVerbs),
		Validate: benefitValid,
	},
	{Name: "any_list_item", Locate: texts("ul li, ol li"), Validate: benefitValid},
}

// Benefits extracts up to 5 product benefits.
func Benefits(d *Document) []string {
	return collect(d, "benefits", benefitCascade, maxBenefits)
}

// Testimonials: dedicated containers first, then free text carrying
// sentiment markers; up to 3 deduplicated entries.

const maxTestimonials = 3

var sentimentMarkers = []string{
	"recomendo", "excelente", "funcionou", "incrível", "incrivel", "mudou minha vida",
}

var testimonialValid = all(runesBetween(30, 400), passesStoplist)

var testimonialCascade = []Strategy{
	{
		Name:     "testimonial_containers",
		Locate:   texts(".testimonials li, .depoimentos li, .reviews li, .review, .testimonial-text, .depoimento, .feedback, blockquote"),
		Validate: testimonialValid,
	},
	{
		Name:     "sentiment_text",
		Locate:   textsContaining("p, li, blockquote, div, span", sentimentMarkers),
		Validate: testimonialValid,
	},
}

// Testimonials extracts up to 3 customer testimonials.
func Testimonials(d *Document) []string {
	return collect(d, "testimonials", testimonialCascade, maxTestimonials)
}

// Call-to-action: clickable elements with action verbs, then generically
// buy/cta-styled elements.

var ctaVerbs = []string{
	"comprar", "quero", "adquirir", "garanta", "acesse", "clique", "inscreva", "agora",
}

var ctaValid = runesBetween(5, 100)

var ctaCascade = []Strategy{
	{
		Name:     "action_clickables",
		Locate:   textsContaining("a, button", ctaVerbs),
		Validate: ctaValid,
	},
	{
		Name:     "styled_buttons",
		Locate:   texts(`.buy-button, .call-to-action, [class*="buy"], [class*="cta"], .btn-primary, .btn-success, .button-primary`),
		Validate: ctaValid,
	},
}

// CallToAction extracts the page's main call-to-action text.
func CallToAction(d *Document) (string, bool) {
	return first(d, "cta", ctaCascade)
}
