package models

// Platform describes one entry of the static platform registry: the
// display name, the domains a profile URL may live on, and the expected
// path shape shown as a hint in clients.
type Platform struct {
	Name    string   `json:"name"`
	Domains []string `json:"domains"`
	Pattern string   `json:"pattern"`
}

// Platforms is the registry of supported link targets. The set is fixed at
// build time; URL-pattern enforcement beyond platform membership is out of
// scope here.
var Platforms = []Platform{
	{Name: "GitHub", Domains: []string{"github.com", "www.github.com"}, Pattern: "/username"},
	{Name: "Frontend Mentor", Domains: []string{"frontendmentor.io", "www.frontendmentor.io"}, Pattern: "/profile/username"},
	{Name: "Twitter", Domains: []string{"twitter.com", "www.twitter.com"}, Pattern: "/username"},
	{Name: "LinkedIn", Domains: []string{"linkedin.com", "www.linkedin.com"}, Pattern: "/in/username"},
	{Name: "YouTube", Domains: []string{"youtube.com", "www.youtube.com"}, Pattern: "/@username"},
	{Name: "Facebook", Domains: []string{"facebook.com", "www.facebook.com"}, Pattern: "/username"},
	{Name: "Twitch", Domains: []string{"twitch.tv", "www.twitch.tv"}, Pattern: "/username"},
	{Name: "Dev.to", Domains: []string{"dev.to"}, Pattern: "/username"},
	{Name: "Codewars", Domains: []string{"codewars.com", "www.codewars.com"}, Pattern: "/users/username"},
	{Name: "Codepen", Domains: []string{"codepen.io"}, Pattern: "/username"},
	{Name: "freeCodeCamp", Domains: []string{"freecodecamp.org", "www.freecodecamp.org"}, Pattern: "/username"},
	{Name: "GitLab", Domains: []string{"gitlab.com", "www.gitlab.com"}, Pattern: "/username"},
	{Name: "Hashnode", Domains: []string{"hashnode.com"}, Pattern: "/@username"},
	{Name: "Stack Overflow", Domains: []string{"stackoverflow.com", "www.stackoverflow.com"}, Pattern: "/users/username"},
}

// DefaultPlatform is the platform assigned to freshly created links before
// the user picks one.
const DefaultPlatform = "GitHub"

// ValidPlatform reports whether name matches a registered platform.
func ValidPlatform(name string) bool {
	for _, p := range Platforms {
		if p.Name == name {
			return true
		}
	}
	return false
}
