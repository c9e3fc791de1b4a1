package chat

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/linkmagico/chatbot/internal/genai"
	"github.com/linkmagico/chatbot/internal/model"
)

// DefaultGenerateTimeout bounds a single external generation call.
const DefaultGenerateTimeout = 10 * time.Second

// DefaultContextTurns is how many recent turns go into the prompt.
const DefaultContextTurns = 6

// Synthesizer produces replies: external generation when a backend is
// configured and answering in time, deterministic intent templates
// otherwise. Every call appends exactly two turns (user + agent) to the
// session.
type Synthesizer struct {
	history      *HistoryStore
	gen          genai.Generator // nil disables external generation
	timeout      time.Duration
	contextTurns int
	now          func() time.Time
}

// SynthOption configures the Synthesizer.
type SynthOption func(*Synthesizer)

// WithGenerator enables external generation through g.
func WithGenerator(g genai.Generator) SynthOption {
	return func(s *Synthesizer) { s.gen = g }
}

// WithGenerateTimeout bounds each external generation call.
func WithGenerateTimeout(d time.Duration) SynthOption {
	return func(s *Synthesizer) { s.timeout = d }
}

// WithContextTurns sets how many recent turns feed the prompt.
func WithContextTurns(n int) SynthOption {
	return func(s *Synthesizer) { s.contextTurns = n }
}

// NewSynthesizer creates a Synthesizer over the given history store.
func NewSynthesizer(history *HistoryStore, opts ...SynthOption) *Synthesizer {
	s := &Synthesizer{
		history:      history,
		timeout:      DefaultGenerateTimeout,
		contextTurns: DefaultContextTurns,
		now:          time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Respond classifies the message, records the user turn, and produces a
// reply for it. Generation failures of any kind degrade silently to the
// intent template; the only returned errors are invalid inputs.
func (s *Synthesizer) Respond(ctx context.Context, sessionID, message string, rec *model.ExtractedRecord, agentName, instructions string) (string, error) {
	if strings.TrimSpace(sessionID) == "" {
		return "", eris.New("chat: session id is required")
	}
	if strings.TrimSpace(message) == "" {
		return "", eris.New("chat: message is required")
	}
	if agentName == "" {
		agentName = "Assistente"
	}

	intent := Classify(message)
	zap.L().Debug("chat: intent detected",
		zap.String("session", sessionID),
		zap.String("intent", string(intent)),
	)

	s.history.Append(sessionID, model.ConversationTurn{
		Speaker:   model.SpeakerUser,
		Text:      message,
		Timestamp: s.now(),
		Intent:    string(intent),
	})

	if s.gen != nil {
		reply, err := s.generate(ctx, sessionID, message, rec, agentName, instructions, intent)
		if err == nil {
			s.appendAgent(sessionID, agentName, reply)
			return reply, nil
		}
		zap.L().Warn("chat: generation failed, falling back to template",
			zap.String("session", sessionID),
			zap.String("generator", s.gen.Name()),
			zap.Error(err),
		)
	}

	reply := fallbackReply(intent, rec, agentName, message, s.history.History(sessionID))
	s.appendAgent(sessionID, agentName, reply)
	return reply, nil
}

func (s *Synthesizer) generate(ctx context.Context, sessionID, message string, rec *model.ExtractedRecord, agentName, instructions string, intent Intent) (string, error) {
	gctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	history := s.history.History(sessionID)
	if n := len(history); n > s.contextTurns {
		history = history[n-s.contextTurns:]
	}

	out, err := s.gen.Generate(gctx, genai.Request{
		System:   BuildPrompt(rec, agentName, instructions, intent, history),
		Messages: []genai.Message{{Role: "user", Content: message}},
	})
	if err != nil {
		return "", err
	}

	out = postProcess(out)
	if out == "" {
		return "", eris.New("chat: empty generated reply")
	}
	return out, nil
}

func (s *Synthesizer) appendAgent(sessionID, agentName, reply string) {
	s.history.Append(sessionID, model.ConversationTurn{
		Speaker:   agentName,
		Text:      reply,
		Timestamp: s.now(),
	})
}

// postProcess cleans a generated reply: whitespace collapsed, terminal
// punctuation ensured, overlong output cut back to its first sentences.
func postProcess(reply string) string {
	reply = strings.Join(strings.Fields(reply), " ")
	if reply == "" {
		return ""
	}
	if last, _ := utf8.DecodeLastRuneInString(reply); !strings.ContainsRune(".!?", last) {
		reply += "."
	}
	if utf8.RuneCountInString(reply) > 500 {
		sentences := strings.SplitAfterN(reply, ".", 4)
		if len(sentences) > 3 {
			sentences = sentences[:3]
		}
		reply = strings.TrimSpace(strings.Join(sentences, ""))
	}
	return reply
}
