package services

import (
	"context"
	"errors"
	"strings"

	"github.com/guardian-ai/apiserver/internal/completion"
	"github.com/guardian-ai/apiserver/internal/decomposer"
	"github.com/guardian-ai/apiserver/types"
	"go.uber.org/zap"
)

// DecomposeService turns a task description into steps plus encouragement
// by calling the completion provider and splitting the reply.
type DecomposeService struct {
	client completion.Client
	logger *zap.Logger
}

func NewDecomposeService(client completion.Client, logger *zap.Logger) *DecomposeService {
	return &DecomposeService{client: client, logger: logger}
}

// Decompose runs one completion round trip and splits the raw reply. The
// split itself never fails; only a missing key or a provider error does,
// and both surface as the same generic ErrCompletionUnavailable.
func (s *DecomposeService) Decompose(ctx context.Context, taskDescription string) (types.DecompositionResult, error) {
	taskDescription = strings.TrimSpace(taskDescription)
	if taskDescription == "" {
		return types.DecompositionResult{}, ErrEmptyTask
	}

	raw, err := s.client.Complete(ctx, completion.SystemPrompt, completion.BuildUserPrompt(taskDescription))
	if err != nil {
		if errors.Is(err, completion.ErrNotConfigured) {
			s.logger.Error("decompose: completion provider not configured")
		} else {
			s.logger.Error("decompose: completion call failed", zap.Error(err))
		}
		return types.DecompositionResult{}, ErrCompletionUnavailable
	}

	result := decomposer.Decompose(raw)
	s.logger.Info("decomposed task",
		zap.Int("raw_len", len(raw)),
		zap.Int("steps_len", len(result.Steps)),
	)
	return result, nil
}
