package narrative

import (
	"fmt"

	"basegraph.app/eleot/internal/rubric"
	"basegraph.app/eleot/internal/textnorm"
)

type Strength struct {
	Env      string `json:"env"`
	Title    string `json:"title"`
	Evidence string `json:"evidence"`
}

type Weakness struct {
	Criterion string `json:"criterion"`
	Issue     string `json:"issue"`
	Evidence  string `json:"evidence"`
}

type Overall struct {
	Strengths  []Strength `json:"strengths"`
	Weaknesses []Weakness `json:"weaknesses"`
	NextSteps  []string   `json:"next_steps"`
}

// ScoredCriterion is one evaluated criterion with its justification.
type ScoredCriterion struct {
	Criterion     rubric.Criterion
	Score         int
	Justification string
}

// Overall summarizes an evaluation. An environment is a strength when every
// evaluated criterion in it scored 4; a criterion is a weakness when it scored
// 2 or less. Input order drives output order.
func (b *Builder) Overall(scored []ScoredCriterion, lang textnorm.Language) Overall {
	ar := lang == textnorm.Arabic
	out := Overall{Strengths: []Strength{}, Weaknesses: []Weakness{}, NextSteps: []string{}}

	var envOrder []string
	allFour := map[string]bool{}
	for _, s := range scored {
		env := s.Criterion.EnvironmentID
		if env == "" && s.Criterion.ID != "" {
			env = s.Criterion.ID[:1]
		}
		if _, seen := allFour[env]; !seen {
			envOrder = append(envOrder, env)
			allFour[env] = true
		}
		if s.Score != 4 {
			allFour[env] = false
		}
	}

	for _, env := range envOrder {
		if !allFour[env] {
			continue
		}
		title := env
		if e, ok := b.rubric.Environment(env); ok {
			title = e.Name(lang)
		}
		evidence := fmt.Sprintf("All criteria in environment %s received a score of 4/4", env)
		if ar {
			evidence = fmt.Sprintf("جميع معايير البيئة %s حصلت على درجة 4/4", env)
		}
		out.Strengths = append(out.Strengths, Strength{Env: env, Title: title, Evidence: evidence})
	}

	for _, s := range scored {
		if s.Score > 2 {
			continue
		}
		issue := s.Criterion.Label(lang)
		if issue == "" {
			issue = s.Criterion.ID
		}
		out.Weaknesses = append(out.Weaknesses, Weakness{
			Criterion: s.Criterion.ID,
			Issue:     issue,
			Evidence:  s.Justification,
		})
	}

	switch {
	case len(out.Weaknesses) > 0 && ar:
		out.NextSteps = append(out.NextSteps,
			fmt.Sprintf("التركيز على تحسين %d معيار حصل على درجة منخفضة (1 أو 2)", len(out.Weaknesses)),
			"تطبيق استراتيجيات تعليمية أكثر فعالية في المجالات الضعيفة",
			"مراقبة التقدم وتحسين الممارسات بناءً على التقييم",
		)
	case len(out.Weaknesses) > 0:
		out.NextSteps = append(out.NextSteps,
			fmt.Sprintf("Focus on improving %d criteria that received low scores (1 or 2)", len(out.Weaknesses)),
			"Apply more effective teaching strategies in weak areas",
			"Monitor progress and improve practices based on evaluation",
		)
	case ar:
		out.NextSteps = append(out.NextSteps,
			"الاستمرار في الممارسات الحالية الفعالة",
			"تعزيز نقاط القوة والبناء عليها",
		)
	default:
		out.NextSteps = append(out.NextSteps,
			"Continue current effective practices",
			"Strengthen and build on strengths",
		)
	}
	return out
}
