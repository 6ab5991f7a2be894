package evaluation

import (
	_ "embed"
	"sync"

	"basegraph.app/eleot/internal/refdata"
	"basegraph.app/eleot/internal/textnorm"
)

//go:embed samples.yaml
var samplesYAML []byte

const samplesSchema = `{
  "type": "object",
  "required": ["samples"],
  "properties": {
    "samples": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "description", "body"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "body": {
            "type": "object",
            "required": ["lessonDescription", "selectedEnvironments", "language"],
            "properties": {
              "selectedEnvironments": {"type": "array", "minItems": 1, "items": {"enum": ["A", "B", "C", "D", "E", "F", "G"]}},
              "language": {"enum": ["ar", "en"]}
            }
          }
        }
      }
    }
  }
}`

// SampleClarifications mirrors the request's clarification block.
type SampleClarifications struct {
	Skipped bool              `yaml:"skipped" json:"skipped"`
	Answers map[string]string `yaml:"answers" json:"answers"`
}

// SampleBody is a ready-to-post evaluation request.
type SampleBody struct {
	LessonDescription    string                `yaml:"lessonDescription" json:"lessonDescription"`
	SelectedEnvironments []string              `yaml:"selectedEnvironments" json:"selectedEnvironments"`
	Language             string                `yaml:"language" json:"language"`
	Clarifications       *SampleClarifications `yaml:"clarifications,omitempty" json:"clarifications,omitempty"`
}

type Sample struct {
	ID          string     `yaml:"id" json:"id"`
	Description string     `yaml:"description" json:"description"`
	Body        SampleBody `yaml:"body" json:"body"`
}

// Request converts the sample body to a canonical request.
func (s Sample) Request(debug bool) Request {
	req := Request{
		Description:  s.Body.LessonDescription,
		Environments: s.Body.SelectedEnvironments,
		Language:     textnorm.ParseLanguage(s.Body.Language),
		Debug:        debug,
	}
	if s.Body.Clarifications != nil {
		req.Clarifications = &Clarifications{
			Skipped: s.Body.Clarifications.Skipped,
			Answers: s.Body.Clarifications.Answers,
		}
	}
	return req
}

var (
	samples     []Sample
	samplesOnce sync.Once
)

// Samples returns the embedded debug payloads in authored order.
func Samples() []Sample {
	samplesOnce.Do(func() {
		var doc struct {
			Samples []Sample `yaml:"samples"`
		}
		refdata.MustDecode("samples", samplesYAML, samplesSchema, &doc)
		samples = doc.Samples
	})
	return samples
}

// SampleByID looks a debug payload up by id.
func SampleByID(id string) (Sample, bool) {
	for _, s := range Samples() {
		if s.ID == id {
			return s, true
		}
	}
	return Sample{}, false
}
