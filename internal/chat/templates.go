package chat

import (
	"fmt"
	"strings"

	"github.com/linkmagico/chatbot/internal/model"
)

// greetingMarker is how a session's first greeting is recognized later:
// repeat greetings get a shorter reply.
const greetingMarker = "👋"

// fallbackReply renders the deterministic template for an intent. It is
// the bottom tier of the response chain and never fails.
func fallbackReply(intent Intent, rec *model.ExtractedRecord, agentName, message string, history []model.ConversationTurn) string {
	switch intent {
	case IntentGreeting:
		if hasGreeted(history, agentName) {
			return fmt.Sprintf("Oi novamente! 😊 Em que mais posso te ajudar sobre o %s?", rec.Title)
		}
		return fmt.Sprintf("Olá! 👋 Sou o %s, seu assistente especializado em %q. Como posso te ajudar hoje?", agentName, rec.Title)

	case IntentPriceInquiry:
		return fmt.Sprintf("💰 O investimento para o %s é: %s\n\nConsiderando todos os benefícios que você vai receber, é um excelente custo-benefício! Quer saber mais sobre o que está incluso?", rec.Title, rec.Price)

	case IntentBenefitsInquiry:
		benefits := rec.Benefits
		if len(benefits) > 3 {
			benefits = benefits[:3]
		}
		var b strings.Builder
		for _, benefit := range benefits {
			fmt.Fprintf(&b, "• %s\n", benefit)
		}
		return fmt.Sprintf("✅ Os principais benefícios do %s são:\n\n%s\nEstes são apenas alguns dos resultados que você pode esperar! Qual desses benefícios mais te interessa?", rec.Title, b.String())

	case IntentPurchaseIntent:
		return fmt.Sprintf("🚀 Que ótimo! Você está pronto para transformar seus resultados com o %s!\n\n%s\n\nClique no link acima para garantir sua vaga agora mesmo! Alguma dúvida antes de finalizar?", rec.Title, rec.CallToAction)

	case IntentSupportInquiry:
		return fmt.Sprintf("🤝 Sim, temos um excelente suporte! Você terá acesso completo ao atendimento especializado para tirar todas suas dúvidas e garantir que você tenha os melhores resultados com o %s.\n\nQuer saber mais alguma coisa sobre o produto?", rec.Title)

	case IntentGuaranteeInquiry:
		return fmt.Sprintf("🛡️ Pode ficar tranquilo! O %s oferece garantia para sua total segurança. Você pode experimentar sem riscos!\n\nQuer que eu te explique mais sobre como funciona?", rec.Title)

	default:
		return fmt.Sprintf("Entendi sua pergunta sobre %q. O %s foi desenvolvido exatamente para resolver questões como essa!\n\n%s...\n\nQuer que eu detalhe melhor como isso pode te ajudar?", message, rec.Title, truncate(rec.Description, 150))
	}
}

func hasGreeted(history []model.ConversationTurn, agentName string) bool {
	for _, t := range history {
		if t.Speaker == agentName && strings.Contains(t.Text, greetingMarker) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
