package config

import "strings"

// SelectorSet maps each extraction field to an ordered list of CSS
// selector candidates. Candidates are tried in order; the semantics of
// "first match wins" versus "union of all matches" are owned by the
// extractor, not by this type.
type SelectorSet struct {
	// Container selects the element holding one record's fields.
	Container []string `yaml:"container" json:"container"`

	// Text selects the quote body within a container.
	Text []string `yaml:"text" json:"text"`

	// Author selects the attributed author within a container.
	Author []string `yaml:"author" json:"author"`

	// Tags selects tag elements within a container.
	Tags []string `yaml:"tags" json:"tags"`

	// NextPage selects the link advancing the pagination chain.
	NextPage []string `yaml:"next_page" json:"next_page"`
}

// SiteProfile binds a selector set to a known site, matched by base-URL
// prefix against seed URLs.
type SiteProfile struct {
	// Name is a human-readable site label used in logs.
	Name string `yaml:"name" json:"name"`

	// BaseURL is the prefix a seed URL must start with for this
	// profile to apply.
	BaseURL string `yaml:"base_url" json:"base_url"`

	// Selectors are the site-tuned selector candidates.
	Selectors SelectorSet `yaml:"selectors" json:"selectors"`
}

// builtinProfiles are the site profiles shipped with quotegrab.
// Config-file profiles are consulted first so users can override these.
var builtinProfiles = []SiteProfile{
	{
		Name:    "Quotes to Scrape",
		BaseURL: "http://quotes.toscrape.com",
		Selectors: SelectorSet{
			Container: []string{"div.quote"},
			Text:      []string{"span.text"},
			Author:    []string{"small.author"},
			Tags:      []string{"a.tag"},
			NextPage:  []string{"li.next a"},
		},
	},
}

// FallbackSelectors returns the generic selector set used for sites
// with no matching profile. Each field carries several candidates
// ordered from most specific (class-based) through attribute wildcards
// down to bare tags.
func FallbackSelectors() SelectorSet {
	return SelectorSet{
		Container: []string{".quote", "[class*='quote']", "blockquote"},
		Text:      []string{".text", ".quote-text", "span", "p"},
		Author:    []string{".author", ".quote-author", "cite", "small"},
		Tags:      []string{".tag", ".tags", ".keywords"},
		NextPage:  []string{".next a", "a.next", "[rel='next']", ".pagination-next a"},
	}
}

// ResolveSelectors returns the selector set for a seed URL. Profiles
// supplied via the config file take precedence over built-ins; within
// each list the longest matching base-URL prefix wins. Unknown sites
// receive the generic fallback set. The function is pure and never
// fails.
func ResolveSelectors(seedURL string, extra []SiteProfile) (SelectorSet, string) {
	best := SiteProfile{}
	for _, p := range append(append([]SiteProfile{}, extra...), builtinProfiles...) {
		if p.BaseURL == "" || !strings.HasPrefix(seedURL, p.BaseURL) {
			continue
		}
		if len(p.BaseURL) > len(best.BaseURL) {
			best = p
		}
	}
	if best.BaseURL != "" {
		return best.Selectors, best.Name
	}
	return FallbackSelectors(), ""
}
