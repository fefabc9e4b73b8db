package content

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

type Profile struct {
	Name     string `json:"name"`
	Tagline  string `json:"tagline"`
	LinkedIn string `json:"linkedin"`
	Hint     string `json:"hint"`
}

type Expertise struct {
	Title  string   `json:"title"`
	Icon   string   `json:"icon"`
	Skills []string `json:"skills"`
}

type Project struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Tags        []string `json:"tags"`
}

type Contact struct {
	Heading  string `json:"heading"`
	Blurb    string `json:"blurb"`
	LinkedIn string `json:"linkedin"`
}

// Portfolio is everything the landing page shows.
type Portfolio struct {
	Profile   Profile     `json:"profile"`
	Expertise []Expertise `json:"expertise"`
	Projects  []Project   `json:"projects"`
	Contact   Contact     `json:"contact"`
}

const linkedIn = "https://www.linkedin.com/in/ryan-kamosa/"

// Default returns the built-in portfolio.
func Default() Portfolio {
	return Portfolio{
		Profile: Profile{
			Name:     "Ryan Kamosa",
			Tagline:  "Cybersecurity Expert | Quantum Computing Enthusiast",
			LinkedIn: linkedIn,
			Hint:     "Press 'Q' for a quantum surprise",
		},
		Expertise: []Expertise{
			{
				Title:  "Quantum Computing",
				Icon:   "brain",
				Skills: []string{"Quantum Algorithms", "Quantum Cryptography", "Quantum Mechanics"},
			},
			{
				Title:  "Cybersecurity",
				Icon:   "shield",
				Skills: []string{"Penetration Testing", "Security Analysis", "Risk Assessment"},
			},
			{
				Title:  "Development",
				Icon:   "code",
				Skills: []string{"Secure Coding", "System Architecture", "API Security"},
			},
			{
				Title:  "Network Security",
				Icon:   "network",
				Skills: []string{"Protocol Analysis", "Network Defense", "Threat Detection"},
			},
		},
		Projects: []Project{
			{
				Title:       "Quantum Computing Research",
				Description: "Research and development in quantum computing applications for cybersecurity",
				Icon:        "lock",
				Tags:        []string{"Quantum", "Research", "Security"},
			},
			{
				Title:       "Security Framework Development",
				Description: "Development of comprehensive security frameworks and best practices",
				Icon:        "cpu",
				Tags:        []string{"Framework", "Architecture", "Best Practices"},
			},
		},
		Contact: Contact{
			Heading: "Let's Connect",
			Blurb: `Interested in quantum computing and cybersecurity collaboration?
Let's explore how we can work together to advance the field.`,
			LinkedIn: linkedIn,
		},
	}
}

// Load reads a portfolio from a JSON file. An empty path yields Default.
func Load(path string) (Portfolio, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Portfolio{}, fmt.Errorf("failed to read content file %s: %w", path, err)
	}
	var p Portfolio
	if err := json.Unmarshal(b, &p); err != nil {
		return Portfolio{}, fmt.Errorf("failed to parse content file %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return Portfolio{}, fmt.Errorf("content file %s: %w", path, err)
	}
	return p, nil
}

// Validate checks the fields the page cannot render without.
func (p Portfolio) Validate() error {
	if strings.TrimSpace(p.Profile.Name) == "" {
		return fmt.Errorf("profile name is required")
	}
	seen := make(map[string]struct{}, len(p.Expertise))
	for _, e := range p.Expertise {
		key := strings.ToLower(strings.TrimSpace(e.Title))
		if key == "" {
			return fmt.Errorf("expertise entry missing 'title'")
		}
		if _, ok := seen[key]; ok {
			return fmt.Errorf("duplicate expertise title '%s'", e.Title)
		}
		seen[key] = struct{}{}
	}
	for i, pr := range p.Projects {
		if strings.TrimSpace(pr.Title) == "" {
			return fmt.Errorf("project %d missing 'title'", i)
		}
	}
	return nil
}
