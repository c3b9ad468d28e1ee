package fetch

import (
	"net/url"
	"strings"
)

// Platform identifies the ATS hosting a job posting. The matcher carries
// tuned selector sets for the boards it sees most often.
type Platform string

const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformUnknown    Platform = "unknown"
)

var platformHosts = []struct {
	suffix   string
	platform Platform
}{
	{"greenhouse.io", PlatformGreenhouse},
	{"lever.co", PlatformLever},
	{"myworkdayjobs.com", PlatformWorkday},
	{"workday.com", PlatformWorkday},
}

// DetectPlatform identifies the job board from the posting URL's host.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(parsed.Host)
	for _, entry := range platformHosts {
		if host == entry.suffix || strings.HasSuffix(host, "."+entry.suffix) {
			return entry.platform
		}
	}
	return PlatformUnknown
}

var platformContent = map[Platform][]string{
	PlatformGreenhouse: {
		".job__description.body",
		".job__description",
		".job-description__content",
		"#content",
		".job-post-container",
	},
	PlatformLever: {
		".posting-page",
		".section-wrapper.page-full-width",
		".posting-description",
		".content",
	},
	PlatformWorkday: {
		"[data-automation-id='jobDescription']",
		".WDXK",
		".gwt-HTML",
		".job-description",
	},
}

// PlatformContentSelectors returns the content selectors tuned for a board,
// or the generic job posting set when the platform is unknown.
func PlatformContentSelectors(platform Platform) []string {
	if selectors, ok := platformContent[platform]; ok {
		return selectors
	}
	return JobPostingSelectors()
}

// commonNoise matches page furniture that pollutes extracted postings on
// every board: application forms, EEO disclosures, share widgets, consent
// banners.
var commonNoise = []string{
	"form",
	"#application-form",
	".application-form",
	".application--container",
	".apply-button-container",
	"[data-testid='application-form']",
	".voluntary-disclosure",
	".eeo-statement",
	".eeo-section",
	"[data-testid='eeo']",
	".legal-disclosure",
	".self-identification",
	".social-share",
	".share-buttons",
	".social-links",
	".cookie-banner",
	".cookie-consent",
	".gdpr-notice",
}

var platformNoise = map[Platform][]string{
	PlatformGreenhouse: {
		".application--wrapper",
		".voluntary-self-id",
		".voluntary-self-id-wrapper",
		"#usa_self_id_section",
		".post-apply",
	},
	PlatformLever: {
		".apply-section",
		".lever-application-form",
		".posting-apply",
	},
	PlatformWorkday: {
		"[data-automation-id='applyButton']",
		".application-section",
		".WDAF",
	},
}

// PlatformNoiseSelectors returns the elements to strip before extraction:
// the common noise set plus any board-specific additions.
func PlatformNoiseSelectors(platform Platform) []string {
	selectors := append([]string(nil), commonNoise...)
	return append(selectors, platformNoise[platform]...)
}
