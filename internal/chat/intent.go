// Package chat drives the conversational agent: intent classification,
// bounded per-session history and tiered response synthesis.
package chat

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Intent is a closed-set label describing why the user sent a message.
type Intent string

const (
	IntentGreeting         Intent = "greeting"
	IntentPriceInquiry     Intent = "price_inquiry"
	IntentBenefitsInquiry  Intent = "benefits_inquiry"
	IntentPurchaseIntent   Intent = "purchase_intent"
	IntentSupportInquiry   Intent = "support_inquiry"
	IntentGuaranteeInquiry Intent = "guarantee_inquiry"
	IntentGeneralInquiry   Intent = "general_inquiry"
)

// greetings are matched against the whole message, exactly.
var greetings = map[string]struct{}{
	"oi": {}, "olá": {}, "ola": {}, "hey": {}, "hi": {}, "hello": {},
	"bom dia": {}, "boa tarde": {}, "boa noite": {},
}

// intentKeywords are substring rules, checked in fixed order with
// first-match-wins semantics.
var intentKeywords = []struct {
	intent Intent
	words  []string
}{
	{IntentPriceInquiry, []string{"preço", "preco", "valor", "custa", "investimento"}},
	{IntentBenefitsInquiry, []string{"benefício", "beneficio", "vantagem", "funciona", "serve"}},
	{IntentPurchaseIntent, []string{"comprar", "quero", "adquirir", "interessado"}},
	{IntentSupportInquiry, []string{"suporte", "pós", "pos", "atendimento", "ajuda"}},
	{IntentGuaranteeInquiry, []string{"garantia", "devolução", "devolucao", "reembolso"}},
}

// Classify maps a free-text message to an intent. It is pure and
// case-insensitive; messages are NFC-normalized so composed and
// decomposed accents match the same vocabulary. Anything unmatched is a
// general inquiry.
func Classify(message string) Intent {
	msg := norm.NFC.String(strings.ToLower(strings.TrimSpace(message)))

	if _, ok := greetings[msg]; ok {
		return IntentGreeting
	}

	for _, rule := range intentKeywords {
		for _, w := range rule.words {
			if strings.Contains(msg, w) {
				return rule.intent
			}
		}
	}

	return IntentGeneralInquiry
}
