// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/candidate-matcher/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// requirementLine formats one JD requirement for display.
func requirementLine(req *types.Requirement) string {
	if req.IsCategory() {
		return fmt.Sprintf("any %d from %s", req.MinRequired, req.Category)
	}
	line := req.RawSkill
	if req.MinMonthsValue() > 0 {
		line += fmt.Sprintf(" (%d+ months)", req.MinMonthsValue())
	}
	return line
}

// PrintJobSkillProfile outputs a human-readable summary of the parsed job
// description profile.
func (p *Printer) PrintJobSkillProfile(profile *types.JobSkillProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Domain:    %s\n", profile.JobMetadata.PrimaryDomain))
	sb.WriteString(fmt.Sprintf("Seniority: %s\n", profile.JobMetadata.SeniorityLevel))
	context := profile.RoleContext
	if len(context) > 45 {
		context = context[:42] + "..."
	}
	sb.WriteString(fmt.Sprintf("Context:   %s\n", context))
	sb.WriteString("\n")

	var hard, soft []*types.Requirement
	for i := range profile.Requirements {
		req := &profile.Requirements[i]
		if req.RequirementLevel == types.RequirementHard {
			hard = append(hard, req)
		} else {
			soft = append(soft, req)
		}
	}

	if len(hard) > 0 {
		sb.WriteString("Hard Requirements:\n")
		count := min(len(hard), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", requirementLine(hard[i])))
		}
		if len(hard) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(hard)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(soft) > 0 {
		sb.WriteString("Soft Requirements:\n")
		count := min(len(soft), 3)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", requirementLine(soft[i])))
		}
		if len(soft) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(soft)-3))
		}
	}

	p.printBox("PARSED JOB REQUIREMENTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRankedCandidates outputs the top match results with scores and
// matched requirements.
func (p *Printer) PrintRankedCandidates(response *types.MatchResponse) {
	if response == nil || len(response.Results) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO MATCHING CANDIDATES")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total candidates matched: %d\n\n", len(response.Results)))

	count := min(len(response.Results), maxItemsToShow)
	for i := 0; i < count; i++ {
		result := response.Results[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, result.Name))
		sb.WriteString(fmt.Sprintf("    Score: %.1f (%s)\n", result.Score, result.Confidence))
		if len(result.Matches) > 0 {
			skills := strings.Join(result.Matches, ", ")
			if len(skills) > 40 {
				skills = skills[:37] + "..."
			}
			sb.WriteString(fmt.Sprintf("    Skills: %s\n", skills))
		}
		if result.UnmatchedSkillCount > 0 {
			sb.WriteString(fmt.Sprintf("    Unmatched: %d of %d\n", result.UnmatchedSkillCount, result.TotalJDSkills))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(response.Results) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more candidates", len(response.Results)-maxItemsToShow))
	}

	p.printBox("TOP MATCHING CANDIDATES", sb.String())
}

// PrintCandidateProfile outputs the verified profile built by candidate
// ingestion.
func (p *Printer) PrintCandidateProfile(profile *types.CandidateProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:    %s\n", profile.FullName))
	sb.WriteString(fmt.Sprintf("ID:      %d\n", profile.CandidateID))
	sb.WriteString(fmt.Sprintf("Skills:  %d distinct\n", profile.SkillCount))

	if len(profile.Roles) > 0 {
		sb.WriteString("\nVerified Roles:\n")
		count := min(len(profile.Roles), maxItemsToShow)
		for i := 0; i < count; i++ {
			role := profile.Roles[i]
			title := role.Title
			if len(title) > 38 {
				title = title[:35] + "..."
			}
			sb.WriteString(fmt.Sprintf("  • %s (%d months)\n", title, role.VerifiedDurationMonths))
		}
		if len(profile.Roles) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(profile.Roles)-maxItemsToShow))
		}
	}

	p.printBox("INGESTED CANDIDATE PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}
