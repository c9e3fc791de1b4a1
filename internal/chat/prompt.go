package chat

import (
	"fmt"
	"strings"

	"github.com/linkmagico/chatbot/internal/model"
)

const defaultInstructions = "Seja sempre entusiasmado e focado em vendas"

// BuildPrompt assembles the system prompt for external generation: the
// record's canonical fields, the fixed conversational rule set and the
// recent history window.
func BuildPrompt(rec *model.ExtractedRecord, agentName, instructions string, intent Intent, history []model.ConversationTurn) string {
	if instructions == "" {
		instructions = defaultInstructions
	}

	recent := "Início da conversa"
	if len(history) > 0 {
		var lines []string
		for _, t := range history {
			speaker := agentName
			if t.Speaker == model.SpeakerUser {
				speaker = "Cliente"
			}
			lines = append(lines, fmt.Sprintf("%s: %s", speaker, t.Text))
		}
		recent = strings.Join(lines, "\n")
	}

	topBenefits := rec.Benefits
	if len(topBenefits) > 3 {
		topBenefits = topBenefits[:3]
	}

	return fmt.Sprintf(`Você é %s, um assistente de vendas especializado e inteligente para o produto "%s".

INFORMAÇÕES DO PRODUTO:
- Título: %s
- Descrição: %s
- Preço: %s
- Benefícios principais: %s
- Call-to-Action: %s

INSTRUÇÕES PERSONALIZADAS: %s

REGRAS IMPORTANTES:
1. Seja conversacional, natural e inteligente como um humano
2. Use as informações do produto de forma contextual e relevante
3. Adapte sua resposta à intenção específica do usuário: %s
4. Seja persuasivo mas não repetitivo - varie suas respostas
5. Mantenha o foco em vendas e conversão
6. Use emojis moderadamente (máximo 2 por resposta)
7. Seja específico sobre o produto quando perguntado
8. NUNCA repita informações já mencionadas na conversa recente
9. Seja criativo e varie suas respostas baseado no contexto
10. Responda de forma direta e objetiva à pergunta do usuário
11. Se for uma saudação simples, responda de forma amigável e pergunte como pode ajudar
12. Se for uma pergunta específica, responda diretamente sem repetir tudo

HISTÓRICO DA CONVERSA RECENTE:
%s

Responda de forma inteligente, contextual e específica à mensagem do usuário. Não repita informações desnecessárias.`,
		agentName, rec.Title,
		rec.Title, rec.Description, rec.Price,
		strings.Join(topBenefits, ", "), rec.CallToAction,
		instructions, intent, recent,
	)
}
