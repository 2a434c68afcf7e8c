package extract

import (
	"regexp"
	"strings"
)

// Rule extracts one sidebar field. Match reports false when the field is
// absent from the text; rules never produce defaults.
type Rule struct {
	Field string
	Match func(text string) (any, bool)
}

// Rules is the sidebar dispatch table, applied in order by [Sidebar].
var Rules = []Rule{
	{Field: "leaders_list", Match: matchLeaders},
	{Field: "social_twitter", Match: firstSubmatch(`(?i)\[(?:Twitter|X)\]\((https?://(?:twitter\.com|x\.com)/[^)]+)\)`)},
	{Field: "social_facebook", Match: firstSubmatch(`(?i)\[Facebook\]\((https?://(?:www\.)?facebook\.com/[^)]+)\)`)},
	{Field: "social_linkedin", Match: firstSubmatch(`(?i)\[LinkedIn\]\((https?://(?:www\.)?linkedin\.com/[^)]+)\)`)},
	{Field: "social_youtube", Match: firstSubmatch(`(?i)\[YouTube\]\((https?://(?:www\.)?youtube\.com/[^)]+)\)`)},
	{Field: "social_meetup", Match: firstSubmatch(`(?i)\[Meetup(?:\.com)?\]\((https?://(?:www\.)?meetup\.com/[^)]+)\)`)},
	{Field: "project_classification", Match: matchClassification},
	{Field: "sidebar_type", Match: firstLabel(typePatterns)},
	{Field: "audience", Match: matchAudience},
	{Field: "download_links", Match: matchDownloads},
	{Field: "code_repositories", Match: matchCodeRepositories},
	{Field: "license", Match: firstLabel(licensePatterns)},
}

// Sidebar extracts every field of [Rules] found in text.
func Sidebar(text string) map[string]any {
	out := map[string]any{}
	if text == "" {
		return out
	}
	for _, r := range Rules {
		if v, ok := r.Match(text); ok {
			out[r.Field] = v
		}
	}
	return out
}

// Merge copies src into dst, overwriting existing keys, and returns dst.
func Merge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

type labeled struct {
	re    *regexp.Regexp
	label string
}

// Most specific first.
var licensePatterns = []labeled{
	{regexp.MustCompile(`(?i)Apache\s*2(?:\.0)?(?:\s*License)?`), "Apache 2.0"},
	{regexp.MustCompile(`(?i)MIT\s*License`), "MIT"},
	{regexp.MustCompile(`(?i)LGPL\s*v?3`), "LGPL 3.0"},
	{regexp.MustCompile(`(?i)AGPL\s*v?3`), "AGPL 3.0"},
	{regexp.MustCompile(`(?i)GPL\s*v?3`), "GPL 3.0"},
	{regexp.MustCompile(`(?i)GPL\s*v?2`), "GPL 2.0"},
	{regexp.MustCompile(`(?i)\bGPL\b`), "GPL"},
	{regexp.MustCompile(`(?i)Creative Commons`), "Creative Commons"},
	{regexp.MustCompile(`(?i)CC BY-SA`), "CC BY-SA"},
	{regexp.MustCompile(`(?i)CC BY`), "CC BY"},
}

var typePatterns = []labeled{
	{regexp.MustCompile(`(?i)<i class="fas fa-tools"`), "Tool"},
	{regexp.MustCompile(`(?i)<i class="fas fa-book"`), "Documentation"},
	{regexp.MustCompile(`(?i)<i class="fas fa-code"`), "Code"},
}

func firstLabel(patterns []labeled) func(string) (any, bool) {
	return func(text string) (any, bool) {
		for _, p := range patterns {
			if p.re.MatchString(text) {
				return p.label, true
			}
		}
		return nil, false
	}
}

func firstSubmatch(expr string) func(string) (any, bool) {
	re := regexp.MustCompile(expr)
	return func(text string) (any, bool) {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return nil, false
		}
		return m[1], true
	}
}

var classifications = []struct {
	label   string
	phrases []string
}{
	{"Flagship", []string{"Flagship Project"}},
	{"Lab", []string{"Lab Project", "Lab project"}},
	{"Incubator", []string{"Incubator Project", "Incubator project"}},
	{"Production", []string{"Production Project"}},
}

func matchClassification(text string) (any, bool) {
	for _, c := range classifications {
		for _, p := range c.phrases {
			if strings.Contains(text, p) {
				return c.label, true
			}
		}
	}
	return nil, false
}

var audiencePatterns = []labeled{
	{regexp.MustCompile(`\bBreaker\b`), "Breaker"},
	{regexp.MustCompile(`\bBuilder\b`), "Builder"},
	{regexp.MustCompile(`\bDefender\b`), "Defender"},
}

func matchAudience(text string) (any, bool) {
	var found []string
	for _, p := range audiencePatterns {
		if p.re.MatchString(text) {
			found = append(found, p.label)
		}
	}
	return found, len(found) > 0
}

var downloadLink = regexp.MustCompile(`(?i)\[Download[^\]]*\]\(([^)]+)\)`)

func matchDownloads(text string) (any, bool) {
	var links []string
	for _, m := range downloadLink.FindAllStringSubmatch(text, -1) {
		links = append(links, m[1])
	}
	return links, len(links) > 0
}

var (
	codeRepoHeader = regexp.MustCompile(`(?is)###?\s*Code\s*Repositor(?:y|ies)`)
	githubLink     = regexp.MustCompile(`(?i)\[([^\]]+)\]\((https?://github\.com/[^)]+)\)`)
)

// matchCodeRepositories collects github.com links from the code repository
// section, which runs from its header to the next "##" or the end of text.
func matchCodeRepositories(text string) (any, bool) {
	loc := codeRepoHeader.FindStringIndex(text)
	if loc == nil {
		return nil, false
	}
	section := text[loc[0]:loc[1]]
	rest := text[loc[1]:]
	if i := strings.Index(rest, "##"); i >= 0 {
		rest = rest[:i]
	}
	section += rest

	var urls []string
	for _, m := range githubLink.FindAllStringSubmatch(section, -1) {
		urls = append(urls, m[2])
	}
	return urls, len(urls) > 0
}

var (
	leaderMailto = regexp.MustCompile(`(?i)\*\s*\[([^\]]+)\]\(mailto:([^)]+)\)`)
	leaderBare   = regexp.MustCompile(`(?m)^[ \t]*\*\s*\[([^\]]+)\]\([^)]+\)[ \t]*\r?$`)

	// Bare links whose text contains one of these are resources, not people.
	nonLeaderWords = []string{"download", "repo", "github", "http", "license"}
)

// matchLeaders extracts leader entries from a "Leaders" section. Mailto
// entries carry name and email; bare links carry the name only.
func matchLeaders(text string) (any, bool) {
	if !strings.Contains(text, "### Leaders") && !strings.Contains(text, "## Leaders") {
		return nil, false
	}

	var leaders []map[string]any
	seen := map[string]bool{}
	for _, m := range leaderMailto.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		leaders = append(leaders, map[string]any{
			"name":  name,
			"email": strings.TrimSpace(m[2]),
		})
		seen[name] = true
	}

	for _, m := range leaderBare.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		if seen[name] || isResourceLink(name) {
			continue
		}
		leaders = append(leaders, map[string]any{"name": name})
		seen[name] = true
	}

	return leaders, len(leaders) > 0
}

func isResourceLink(name string) bool {
	lower := strings.ToLower(name)
	for _, w := range nonLeaderWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
