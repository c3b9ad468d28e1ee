package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform(t *testing.T) {
	cases := []struct {
		url  string
		want Platform
	}{
		{"https://job-boards.greenhouse.io/doordashusa/jobs/7063751", PlatformGreenhouse},
		{"https://boards.greenhouse.io/company/jobs/123", PlatformGreenhouse},
		{"https://greenhouse.io/jobs/456", PlatformGreenhouse},
		{"https://jobs.lever.co/company/job-id", PlatformLever},
		{"https://lever.co/jobs/123", PlatformLever},
		{"https://company.wd5.myworkdayjobs.com/en-US/External", PlatformWorkday},
		{"https://workday.com/jobs", PlatformWorkday},
		{"https://example.com/jobs", PlatformUnknown},
		{"https://linkedin.com/jobs/123", PlatformUnknown},
		{"https://indeed.com/viewjob", PlatformUnknown},
		// Suffix matching, not substring: lookalike hosts stay unknown.
		{"https://greenhouse.io.example.com/jobs", PlatformUnknown},
		{"", PlatformUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.url, func(t *testing.T) {
			assert.Equal(t, tc.want, DetectPlatform(tc.url))
		})
	}
}

func TestPlatformContentSelectors(t *testing.T) {
	greenhouse := PlatformContentSelectors(PlatformGreenhouse)
	assert.Contains(t, greenhouse, ".job__description.body")
	assert.Contains(t, greenhouse, ".job__description")

	workday := PlatformContentSelectors(PlatformWorkday)
	assert.Contains(t, workday, "[data-automation-id='jobDescription']")

	// Unknown platforms fall back to the generic job posting set.
	unknown := PlatformContentSelectors(PlatformUnknown)
	assert.Contains(t, unknown, ".job-description")
	assert.Contains(t, unknown, "main")
}

func TestPlatformNoiseSelectors(t *testing.T) {
	greenhouse := PlatformNoiseSelectors(PlatformGreenhouse)
	assert.Contains(t, greenhouse, "form")
	assert.Contains(t, greenhouse, "#application-form")
	assert.Contains(t, greenhouse, ".application--wrapper")
	assert.Contains(t, greenhouse, ".voluntary-self-id")

	unknown := PlatformNoiseSelectors(PlatformUnknown)
	assert.Contains(t, unknown, "form")
	assert.Contains(t, unknown, ".cookie-banner")
	assert.NotContains(t, unknown, ".application--wrapper")
}

func TestPlatformNoiseSelectorsDoesNotAliasCommon(t *testing.T) {
	first := PlatformNoiseSelectors(PlatformGreenhouse)
	second := PlatformNoiseSelectors(PlatformLever)
	assert.Contains(t, first, ".voluntary-self-id")
	assert.NotContains(t, second, ".voluntary-self-id")
	assert.Contains(t, second, ".apply-section")
}
