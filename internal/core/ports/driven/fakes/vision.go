package fakes

import (
	"context"

	"github.com/noor-rag/noor-core/internal/core/domain"
)

// Vision is a fake of driven.VisionService.
type Vision struct {
	ClassifyAs domain.VisionMode
	FailNext   bool
}

func NewVision() *Vision {
	return &Vision{ClassifyAs: domain.VisionModeExtractText}
}

func (v *Vision) Classify(context.Context, []byte, string) (domain.VisionMode, error) {
	if v.FailNext {
		v.FailNext = false
		return "", errTransient
	}
	return v.ClassifyAs, nil
}

func (v *Vision) ExtractText(context.Context, []byte, string) (string, error) {
	if v.FailNext {
		v.FailNext = false
		return "", errTransient
	}
	return "fake extracted text", nil
}

func (v *Vision) Describe(context.Context, []byte, string) (string, error) {
	if v.FailNext {
		v.FailNext = false
		return "", errTransient
	}
	return "fake image description", nil
}

func (v *Vision) HealthCheck(context.Context) error { return nil }
func (v *Vision) Close() error                      { return nil }
