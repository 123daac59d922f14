package engine_test

import "github.com/aretw0/questflow/pkg/domain"

func intp(n int) *int { return &n }

func contains(q, v string) *domain.Condition {
	return &domain.Condition{QuestionID: q, Op: domain.OpContains, Value: domain.Single(v)}
}
