package fakes

import (
	"context"
	"strings"

	"github.com/noor-rag/noor-core/internal/core/domain"
)

// Generator is a fake of driven.GeneratorService. It builds its answer
// by echoing every user and system message it is given, in order
// (assistant messages are not echoed), so a test can assert the pipeline assembled the
// expected context/history instead of the generator inventing content.
type Generator struct {
	FailNext bool
	Calls    [][]domain.ChatMessage
}

func NewGenerator() *Generator { return &Generator{} }

func (g *Generator) Generate(_ context.Context, messages []domain.ChatMessage) (string, error) {
	g.Calls = append(g.Calls, messages)
	if g.FailNext {
		g.FailNext = false
		return "", errTransient
	}

	var b strings.Builder
	b.WriteString("fake-answer:")
	for _, m := range messages {
		if m.Role == domain.RoleUser || m.Role == domain.RoleSystem {
			b.WriteString(" ")
			b.WriteString(m.Content)
		}
	}
	return b.String(), nil
}

func (g *Generator) Model() string                     { return "fake-generator" }
func (g *Generator) HealthCheck(context.Context) error { return nil }
func (g *Generator) Close() error                      { return nil }

// CallCount returns how many times Generate was invoked.
func (g *Generator) CallCount() int { return len(g.Calls) }
