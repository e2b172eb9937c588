package signature

import (
	"regexp"
	"strings"

	"github.com/mikey/email-signature-parser/internal/core"
	"github.com/mikey/email-signature-parser/internal/dictionary"
	"github.com/mikey/email-signature-parser/internal/utils"
)

var hrefPattern = regexp.MustCompile(`href="([^"]*)"`)

// extractLinks collects the anchors on every line after the first, sorting
// profile links of known social platforms from the rest. Only the first link
// to each platform is kept.
func extractLinks(lines []*Line, dict *dictionary.Dictionary) core.Links {
	links := core.Links{
		SocialMedia: map[string]string{},
		Other:       []string{},
	}
	if len(lines) < 2 {
		return links
	}

	for _, line := range lines[1:] {
		for _, m := range hrefPattern.FindAllStringSubmatch(line.Text, -1) {
			href := strings.TrimSpace(m[1])
			lower := strings.ToLower(href)

			switch {
			case href == "":
				continue
			case strings.HasPrefix(lower, "mailto:"):
				line.claim(KindMailto)
				continue
			case strings.HasPrefix(lower, "tel:"):
				continue
			}

			link := withScheme(href)
			if platform, ok := dict.SocialPlatform(utils.SiteLabel(link)); ok {
				if _, seen := links.SocialMedia[platform]; !seen {
					links.SocialMedia[platform] = link
				}
			} else {
				links.Other = append(links.Other, link)
			}
			line.claim(KindLink)
		}
	}

	return links
}

func withScheme(link string) string {
	if strings.Contains(link, "://") {
		return link
	}
	return "https://" + link
}
