package profile

import (
	"strings"

	"github.com/jonathan/candidate-matcher/internal/textnorm"
	"github.com/jonathan/candidate-matcher/internal/types"
)

// Mention is one atomic skill mention ready for matching. Composite
// mentions ("HTML/CSS") have already been split.
type Mention struct {
	RawName    string
	Source     string
	Confidence float64
	Context    string
}

// RoleMentions expands a role's extracted skills into atomic mentions. The
// role's responsibilities become each mention's disambiguation context.
// Implicit mentions are kept; they carry zero evidence weight downstream.
func RoleMentions(role types.RawExperienceItem) []Mention {
	context := strings.Join(role.Responsibilities, " ")

	var mentions []Mention
	for _, s := range role.ExtractedSkills {
		confidence := s.Confidence
		if confidence == 0 {
			confidence = 1.0
		}
		for _, part := range textnorm.SplitComposite(s.RawName) {
			mentions = append(mentions, Mention{
				RawName:    part,
				Source:     s.Source,
				Confidence: confidence,
				Context:    context,
			})
		}
	}

	return mentions
}

// InferBand derives the seniority band from a role title. Interns and
// associates count as junior; senior, lead and principal titles as senior;
// everything else as mid.
func InferBand(title string) string {
	t := strings.ToLower(title)

	for _, marker := range []string{"intern", "trainee", "junior", "associate"} {
		if strings.Contains(t, marker) {
			return types.BandJunior
		}
	}
	for _, marker := range []string{"senior", "lead", "principal"} {
		if strings.Contains(t, marker) {
			return types.BandSenior
		}
	}
	return types.BandMid
}
