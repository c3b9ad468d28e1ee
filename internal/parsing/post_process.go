package parsing

import "github.com/jonathan/candidate-matcher/internal/types"

// PostProcess applies deterministic, non-inferential cleanup to an LLM-parsed
// profile. It normalizes malformed fields and enforces schema invariants; it
// never introduces requirements, changes hard/soft intent beyond the tool
// rule, or infers skills.
func PostProcess(profile *types.JobSkillProfile, allowedDomains []string) {
	for i := range profile.Requirements {
		req := &profile.Requirements[i]

		// Category requirements pass through, minimum enforced.
		if req.IsCategory() {
			if req.MinRequired < 1 {
				req.MinRequired = 1
			}
			continue
		}

		if req.MinMonths == nil {
			req.MinMonths = new(int)
		}

		// Methodologies never gate eligibility.
		if req.SkillTypeHint == types.HintMethodology {
			req.MinMonths = new(int)
			req.ExpectedEvidence = types.EvidenceImplicit
		}

		// Tools do not hard-gate unless the posting is explicit about it
		// elsewhere; a bare tool+hard combination is LLM overreach.
		if req.SkillTypeHint == types.HintTool && req.RequirementLevel == types.RequirementHard {
			req.RequirementLevel = types.RequirementSoft
			req.ExpectedEvidence = types.EvidenceProject
		}
	}

	if !containsDomain(allowedDomains, profile.JobMetadata.PrimaryDomain) {
		profile.JobMetadata.PrimaryDomain = types.DomainGeneral
	}
}

func containsDomain(domains []string, domain string) bool {
	for _, d := range domains {
		if d == domain {
			return true
		}
	}
	return false
}
