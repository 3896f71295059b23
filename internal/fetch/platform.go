// Package fetch - platform.go detects job boards and picks their content selectors.
package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known job board platform.
type Platform string

const (
	// PlatformGreenhouse is the Greenhouse ATS platform
	PlatformGreenhouse Platform = "greenhouse"
	// PlatformLever is the Lever ATS platform
	PlatformLever Platform = "lever"
	// PlatformWorkday is the Workday ATS platform
	PlatformWorkday Platform = "workday"
	// PlatformCivilService is the UK Civil Service Jobs board
	PlatformCivilService Platform = "civil_service"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

// DetectPlatform identifies the job board platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Host)

	if strings.HasSuffix(host, "civilservicejobs.service.gov.uk") {
		return PlatformCivilService
	}

	// Greenhouse patterns
	if strings.Contains(host, "greenhouse.io") ||
		strings.Contains(host, "boards.greenhouse.io") {
		return PlatformGreenhouse
	}

	// Lever patterns
	if strings.Contains(host, "lever.co") ||
		strings.Contains(host, "jobs.lever.co") {
		return PlatformLever
	}

	// Workday patterns
	if strings.Contains(host, "workday.com") ||
		strings.Contains(host, "myworkdayjobs.com") {
		return PlatformWorkday
	}

	return PlatformUnknown
}

// PlatformContentSelectors returns content selectors for a platform, most
// specific first, always ending with the generic AdvertSelectors.
func PlatformContentSelectors(platform Platform) []string {
	return append(platformSelectors(platform), AdvertSelectors()...)
}

func platformSelectors(platform Platform) []string {
	switch platform {
	case PlatformCivilService:
		return []string{
			".vac_display_panel_main_inner",
			"#main-content",
		}
	case PlatformGreenhouse:
		return []string{
			".job__description.body",    // Primary Greenhouse selector
			".job__description",         // Fallback
			".job-description__content", // Alternative
			"#content",                  // Generic fallback
			".job-post-container",       // Container level
		}
	case PlatformLever:
		return []string{
			".posting-page",
			".section-wrapper.page-full-width",
			".posting-description",
		}
	case PlatformWorkday:
		return []string{
			"[data-automation-id='jobDescription']",
			".WDXK",
			".gwt-HTML",
			".job-description",
		}
	default:
		return nil
	}
}

// PlatformNoiseSelectors returns noise exclusion selectors for a known ATS.
// Unknown hosts and the Civil Service board get only light, platform-specific
// cleanup because their pages wrap the whole advert in a form.
func PlatformNoiseSelectors(platform Platform) []string {
	ats := []string{
		"form",
		"#application-form",
		".application-form",
		".apply-button-container",
		".eeo-statement",
		".voluntary-disclosure",
		".social-share",
		".share-buttons",
	}
	cookies := []string{
		".cookie-banner",
		".cookie-consent",
		".gdpr-notice",
	}

	switch platform {
	case PlatformGreenhouse:
		return append(append(ats, cookies...),
			".application--wrapper",
			".voluntary-self-id",
			"#usa_self_id_section",
		)
	case PlatformLever:
		return append(append(ats, cookies...),
			".apply-section",
			".posting-apply",
		)
	case PlatformWorkday:
		return append(append(ats, cookies...),
			"[data-automation-id='applyButton']",
			".WDAF",
		)
	case PlatformCivilService:
		return append(cookies,
			".vac_apply_block",
			".csr-page-header",
		)
	default:
		return cookies
	}
}
