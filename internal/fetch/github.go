package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/kalambet/coldreach/internal/profile"
)

type gitHubUser struct {
	Login    string `json:"login"`
	Name     string `json:"name"`
	Company  string `json:"company"`
	Blog     string `json:"blog"`
	Location string `json:"location"`
	Email    string `json:"email"`
	Bio      string `json:"bio"`
	HTMLURL  string `json:"html_url"`
}

type gitHubRepo struct {
	Language string `json:"language"`
	Fork     bool   `json:"fork"`
}

const maxRepoLanguages = 5

func (c *Client) gitHub(ctx context.Context, user string) (profile.Fields, error) {
	var u gitHubUser
	if err := c.getJSON(ctx, fmt.Sprintf("%s/users/%s", c.githubAPI, url.PathEscape(user)), &u); err != nil {
		return profile.Fields{}, err
	}

	name := u.Name
	if name == "" {
		name = u.Login
	}
	role := "Developer"
	if u.Bio != "" {
		if parsed := profile.ParseText(u.Bio); parsed.Role != "" {
			role = parsed.Role
		}
	}

	f := profile.Fields{
		Name:       name,
		Role:       role,
		Company:    strings.TrimPrefix(strings.TrimSpace(u.Company), "@"),
		Industry:   "Technology",
		Email:      u.Email,
		Location:   u.Location,
		Bio:        u.Bio,
		Interests:  []string{"Open Source"},
		ProfileURL: u.HTMLURL,
		Source:     profile.SourceGitHub,
	}

	// Repository languages are a best-effort skills signal.
	var repos []gitHubRepo
	reposURL := fmt.Sprintf("%s/users/%s/repos?sort=updated&per_page=30", c.githubAPI, url.PathEscape(user))
	if err := c.getJSON(ctx, reposURL, &repos); err == nil {
		f.Skills = topLanguages(repos, maxRepoLanguages)
	}
	return f, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	body, err := c.get(ctx, rawURL, "application/vnd.github+json")
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", rawURL, err)
	}
	return nil
}

// topLanguages ranks the languages of non-fork repos by repo count.
func topLanguages(repos []gitHubRepo, n int) []string {
	counts := map[string]int{}
	for _, r := range repos {
		if r.Fork || r.Language == "" {
			continue
		}
		counts[r.Language]++
	}
	langs := make([]string, 0, len(counts))
	for l := range counts {
		langs = append(langs, l)
	}
	sort.Slice(langs, func(i, j int) bool {
		if counts[langs[i]] != counts[langs[j]] {
			return counts[langs[i]] > counts[langs[j]]
		}
		return langs[i] < langs[j]
	})
	if len(langs) > n {
		langs = langs[:n]
	}
	return langs
}
