package dto

import (
	"encoding/json"

	"github.com/invopop/jsonschema"

	"basegraph.app/eleot/internal/clarify"
	"basegraph.app/eleot/internal/evaluation"
	"basegraph.app/eleot/internal/textnorm"
)

// MissingFieldsMessage is the 400 body for a request without a description
// or environment selection.
const MissingFieldsMessage = "Missing required fields: lessonDescription (or observationText/observation/text), selectedEnvironments (or environments)"

type ClarificationsBody struct {
	Skipped bool              `json:"skipped,omitempty" jsonschema:"description=The reviewer skipped clarification; answers are ignored"`
	Answers map[string]string `json:"answers,omitempty" jsonschema:"description=Answers keyed by question id or criterion id"`
}

// EvaluateRequest is the evaluation body with every accepted alias.
// Aliases are resolved once by ToRequest.
type EvaluateRequest struct {
	LessonDescription string `json:"lessonDescription,omitempty" jsonschema:"description=Observed lesson description"`
	ObservationText   string `json:"observationText,omitempty" jsonschema:"description=Alias of lessonDescription"`
	Observation       string `json:"observation,omitempty" jsonschema:"description=Alias of lessonDescription"`
	Text              string `json:"text,omitempty" jsonschema:"description=Alias of lessonDescription"`

	SelectedEnvironments []string `json:"selectedEnvironments,omitempty" jsonschema:"description=Environment ids A-G"`
	Environments         []string `json:"environments,omitempty" jsonschema:"description=Alias of selectedEnvironments"`

	Language string `json:"language,omitempty" jsonschema:"enum=ar,enum=en,default=ar"`

	Clarifications       *ClarificationsBody `json:"clarifications,omitempty"`
	Answers              map[string]string   `json:"answers,omitempty" jsonschema:"description=Legacy top-level clarification answers"`
	ClarificationAnswers map[string]string   `json:"clarificationAnswers,omitempty" jsonschema:"description=Legacy top-level clarification answers"`
}

// UnmarshalJSON decodes every field leniently. A value of the wrong JSON
// type is dropped so the field takes its default; only a body that is not
// a JSON object fails.
func (r *EvaluateRequest) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*r = EvaluateRequest{
		LessonDescription:    rawString(fields["lessonDescription"]),
		ObservationText:      rawString(fields["observationText"]),
		Observation:          rawString(fields["observation"]),
		Text:                 rawString(fields["text"]),
		SelectedEnvironments: rawStrings(fields["selectedEnvironments"]),
		Environments:         rawStrings(fields["environments"]),
		Language:             rawString(fields["language"]),
		Clarifications:       rawClarifications(fields["clarifications"]),
		Answers:              rawAnswers(fields["answers"]),
		ClarificationAnswers: rawAnswers(fields["clarificationAnswers"]),
	}
	return nil
}

func rawString(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// rawStrings keeps the string items of an array.
func rawStrings(raw json.RawMessage) []string {
	var items []json.RawMessage
	if json.Unmarshal(raw, &items) != nil {
		return nil
	}
	var out []string
	for _, item := range items {
		if s := rawString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// rawAnswers keeps the string-valued entries of an object.
func rawAnswers(raw json.RawMessage) map[string]string {
	var entries map[string]json.RawMessage
	if json.Unmarshal(raw, &entries) != nil || entries == nil {
		return nil
	}
	out := make(map[string]string, len(entries))
	for k, v := range entries {
		var s string
		if json.Unmarshal(v, &s) == nil {
			out[k] = s
		}
	}
	return out
}

func rawClarifications(raw json.RawMessage) *ClarificationsBody {
	var fields map[string]json.RawMessage
	if json.Unmarshal(raw, &fields) != nil || fields == nil {
		return nil
	}
	var skipped bool
	if json.Unmarshal(fields["skipped"], &skipped) != nil {
		skipped = false
	}
	return &ClarificationsBody{Skipped: skipped, Answers: rawAnswers(fields["answers"])}
}

// Description returns the first non-empty description alias.
func (r EvaluateRequest) Description() string {
	for _, d := range []string{r.LessonDescription, r.ObservationText, r.Observation, r.Text} {
		if d != "" {
			return d
		}
	}
	return ""
}

func (r EvaluateRequest) EnvironmentIDs() []string {
	if len(r.SelectedEnvironments) > 0 {
		return r.SelectedEnvironments
	}
	return r.Environments
}

// ToRequest resolves aliases into the canonical request. Top-level answers
// apply only when the clarification block carries none.
func (r EvaluateRequest) ToRequest(debug bool) evaluation.Request {
	req := evaluation.Request{
		Description:  r.Description(),
		Environments: r.EnvironmentIDs(),
		Language:     textnorm.ParseLanguage(r.Language),
		Debug:        debug,
	}

	legacy := r.Answers
	if legacy == nil {
		legacy = r.ClarificationAnswers
	}

	switch {
	case r.Clarifications != nil:
		answers := r.Clarifications.Answers
		if answers == nil && len(legacy) > 0 {
			answers = legacy
		}
		if answers == nil {
			answers = map[string]string{}
		}
		req.Clarifications = &evaluation.Clarifications{
			Skipped: r.Clarifications.Skipped,
			Answers: answers,
		}
	case len(legacy) > 0:
		req.Clarifications = &evaluation.Clarifications{Answers: legacy}
	}
	return req
}

// EvaluateRequestSchema reflects the JSON schema of EvaluateRequest.
func EvaluateRequestSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
	}
	return reflector.Reflect(&EvaluateRequest{})
}

type QuestionsRequest struct {
	Description          string   `json:"description"`
	LessonDescription    string   `json:"lessonDescription"`
	Environments         []string `json:"environments"`
	SelectedEnvironments []string `json:"selectedEnvironments"`
	Language             string   `json:"language"`
}

type OptionResponse struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type QuestionResponse struct {
	ID            string           `json:"id"`
	CriterionID   string           `json:"criterionId"`
	EnvironmentID string           `json:"environmentId"`
	Question      string           `json:"question"`
	Options       []OptionResponse `json:"options"`
}

type QuestionsResponse struct {
	Needed    bool               `json:"needed"`
	Questions []QuestionResponse `json:"questions"`
}

func ToQuestionsResponse(questions []clarify.Question, lang textnorm.Language) QuestionsResponse {
	resp := QuestionsResponse{Needed: len(questions) > 0, Questions: make([]QuestionResponse, len(questions))}
	for i, q := range questions {
		opts := make([]OptionResponse, len(q.Options))
		for j, o := range q.Options {
			opts[j] = OptionResponse{Value: o.Value, Label: o.Label(lang)}
		}
		resp.Questions[i] = QuestionResponse{
			ID:            q.ID,
			CriterionID:   q.CriterionID,
			EnvironmentID: q.EnvironmentID,
			Question:      q.Text(lang),
			Options:       opts,
		}
	}
	return resp
}

type SamplesResponse struct {
	Samples []evaluation.Sample `json:"samples"`
}
