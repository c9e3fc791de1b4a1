// Package model defines the data types shared across the chatbot core.
package model

// ExtractedRecord holds the structured marketing content pulled from a
// landing page. Every field is always populated: either with content
// located by an extraction strategy or with the canonical default for
// that field. ResolvedURL differs from SourceURL only after a redirect.
type ExtractedRecord struct {
	SourceURL    string   `json:"source_url"`
	ResolvedURL  string   `json:"resolved_url"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Price        string   `json:"price"`
	Benefits     []string `json:"benefits"`
	Testimonials []string `json:"testimonials"`
	CallToAction string   `json:"cta"`
}

// Canonical default values for each extracted field.
const (
	DefaultTitle        = "Produto Incrível"
	DefaultDescription  = "Descubra este produto incrível que vai transformar sua vida!"
	DefaultPrice        = "Consulte o preço na página"
	DefaultCallToAction = "Compre Agora!"
)

// DefaultBenefits returns the canonical fallback benefit list.
func DefaultBenefits() []string {
	return []string{
		"Resultados comprovados",
		"Suporte especializado",
		"Garantia de satisfação",
	}
}

// DefaultTestimonials returns the canonical fallback testimonial list.
func DefaultTestimonials() []string {
	return []string{
		"Produto excelente!",
		"Recomendo para todos!",
	}
}

// DefaultRecord returns the canonical default record for a URL, used when
// extraction degrades completely and as the base that field extractors
// overwrite strategy by strategy.
func DefaultRecord(url string) *ExtractedRecord {
	return &ExtractedRecord{
		SourceURL:    url,
		ResolvedURL:  url,
		Title:        DefaultTitle,
		Description:  DefaultDescription,
		Price:        DefaultPrice,
		Benefits:     DefaultBenefits(),
		Testimonials: DefaultTestimonials(),
		CallToAction: DefaultCallToAction,
	}
}

// Clone returns a deep copy of the record.
func (r *ExtractedRecord) Clone() *ExtractedRecord {
	if r == nil {
		return nil
	}
	out := *r
	out.Benefits = append([]string(nil), r.Benefits...)
	out.Testimonials = append([]string(nil), r.Testimonials...)
	return &out
}
