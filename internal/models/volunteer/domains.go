package volunteer

import "strings"

var DefaultCampaignDomains = []string{
	"Gaza Awareness",
	"Boycott",
	"Social Media Warfare",
	"Gaza Relief / Child Adoption",
	"Building Teams for Gaza",
	"Masajid for Gaza",
	"University Teams",
	"Intellectual Capital Building",
}

// Catalog is the set of campaign domains volunteers and tasks may be tagged with.
type Catalog struct {
	names map[string]struct{}
	order []string
}

func NewCatalog(domains []string) *Catalog {
	c := &Catalog{names: make(map[string]struct{}, len(domains))}
	for _, d := range domains {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if _, ok := c.names[d]; ok {
			continue
		}
		c.names[d] = struct{}{}
		c.order = append(c.order, d)
	}
	return c
}

func (c *Catalog) Contains(domain string) bool {
	_, ok := c.names[domain]
	return ok
}

func (c *Catalog) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}
