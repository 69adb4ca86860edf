package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/kalambet/coldreach/internal/profile"
	"github.com/kalambet/coldreach/internal/signals"
)

const (
	defaultLimit  = 20
	maxLimit      = 500
	minTokenRunes = 3
)

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultLimit
	case limit > maxLimit:
		return maxLimit
	}
	return limit
}

// SaveProfile upserts p and returns the ID it was stored under: p.ID when
// set, else the lowercased email, else a name_company slug.
func (s *Store) SaveProfile(p profile.Profile) (string, error) {
	id := p.ID
	if id == "" {
		id = profile.DeriveID(p.Email, p.Name, p.Company)
	}
	if id == "" {
		return "", fmt.Errorf("profile has no usable identifier")
	}
	p.ID = id

	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encoding profile %s: %w", id, err)
	}
	now := formatTime(s.now())
	_, err = s.db.Exec(`
		INSERT INTO profiles (id, name, role, company, industry, seniority, style, email, source, data_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, role = excluded.role, company = excluded.company,
			industry = excluded.industry, seniority = excluded.seniority, style = excluded.style,
			email = excluded.email, source = excluded.source, data_json = excluded.data_json,
			updated_at = excluded.updated_at`,
		id, p.Name, p.Role, p.Company, p.Industry, string(p.Seniority), string(p.Style),
		p.Email, string(p.Source), string(data), now, now,
	)
	if err != nil {
		return "", fmt.Errorf("saving profile %s: %w", id, err)
	}
	return id, nil
}

// GetProfile returns the stored profile or ErrNotFound.
func (s *Store) GetProfile(id string) (profile.Profile, error) {
	var data string
	err := s.db.QueryRow(`SELECT data_json FROM profiles WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return profile.Profile{}, ErrNotFound
	}
	if err != nil {
		return profile.Profile{}, err
	}
	return decodeProfile(data)
}

// SearchProfiles matches q against name, company and role.
func (s *Store) SearchProfiles(q string, limit int) ([]profile.Profile, error) {
	pattern := "%" + escapeLike(strings.TrimSpace(q)) + "%"
	return s.queryProfiles(`
		SELECT data_json FROM profiles
		WHERE name LIKE ? ESCAPE '\' OR company LIKE ? ESCAPE '\' OR role LIKE ? ESCAPE '\'
		ORDER BY updated_at DESC LIMIT ?`,
		pattern, pattern, pattern, clampLimit(limit),
	)
}

// ProfilesByIndustry lists profiles in industry, case-insensitively.
func (s *Store) ProfilesByIndustry(industry string, limit int) ([]profile.Profile, error) {
	return s.queryProfiles(`
		SELECT data_json FROM profiles WHERE industry = ? COLLATE NOCASE
		ORDER BY updated_at DESC LIMIT ?`,
		strings.TrimSpace(industry), clampLimit(limit),
	)
}

// FindSimilar ranks stored profiles by shared industry and role words.
// Profiles sharing neither are not returned.
func (s *Store) FindSimilar(role, industry string, limit int) ([]profile.Profile, error) {
	tokens := roleTokens(role)
	knownIndustry := profile.Known(industry)
	if len(tokens) == 0 && !knownIndustry {
		return nil, nil
	}

	where := make([]string, 0, len(tokens)+1)
	args := make([]any, 0, len(tokens)+1)
	if knownIndustry {
		where = append(where, "industry = ? COLLATE NOCASE")
		args = append(args, industry)
	}
	for _, t := range tokens {
		where = append(where, `role LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(t)+"%")
	}
	candidates, err := s.queryProfiles(`SELECT data_json FROM profiles WHERE `+strings.Join(where, " OR ")+` ORDER BY updated_at DESC LIMIT ?`,
		append(args, maxLimit)...)
	if err != nil {
		return nil, err
	}

	type scored struct {
		p     profile.Profile
		score int
	}
	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		score := 0
		if knownIndustry && strings.EqualFold(c.Industry, industry) {
			score += 2
		}
		theirs := roleTokens(c.Role)
		for _, t := range tokens {
			for _, o := range theirs {
				if t == o {
					score++
					break
				}
			}
		}
		if score > 0 {
			ranked = append(ranked, scored{c, score})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	limit = clampLimit(limit)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]profile.Profile, len(ranked))
	for i, r := range ranked {
		out[i] = r.p
	}
	return out, nil
}

var roleStopWords = map[string]bool{"and": true, "the": true, "for": true, "with": true}

func roleTokens(role string) []string {
	if !profile.Known(role) {
		return nil
	}
	var out []string
	seen := map[string]bool{}
	for _, w := range signals.Words(signals.Fold(role)) {
		if len([]rune(w)) < minTokenRunes || roleStopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// ExportProfiles streams every profile to w as a JSON array and returns
// how many were written.
func (s *Store) ExportProfiles(w io.Writer) (int, error) {
	rows, err := s.db.Query(`SELECT data_json FROM profiles ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return 0, fmt.Errorf("querying profiles: %w", err)
	}
	defer rows.Close()

	if _, err := io.WriteString(w, "["); err != nil {
		return 0, err
	}
	n := 0
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return n, fmt.Errorf("scanning profile: %w", err)
		}
		sep := ",\n"
		if n == 0 {
			sep = "\n"
		}
		if _, err := io.WriteString(w, sep+data); err != nil {
			return n, err
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return n, err
	}
	_, err = io.WriteString(w, "\n]\n")
	return n, err
}

// Stats counts stored records.
func (s *Store) Stats() (Stats, error) {
	st := Stats{ByIndustry: map[string]int{}, ByChannel: map[string]int{}}

	counts := []struct {
		query string
		dst   *int
	}{
		{`SELECT COUNT(*) FROM profiles`, &st.Profiles},
		{`SELECT COUNT(*) FROM messages`, &st.Messages},
		{`SELECT COUNT(*) FROM interactions`, &st.Interactions},
	}
	for _, c := range counts {
		if err := s.db.QueryRow(c.query).Scan(c.dst); err != nil {
			return Stats{}, fmt.Errorf("counting: %w", err)
		}
	}

	var avg sql.NullFloat64
	if err := s.db.QueryRow(`SELECT AVG(reply_rate) FROM messages`).Scan(&avg); err != nil {
		return Stats{}, fmt.Errorf("averaging reply rate: %w", err)
	}
	st.AvgReplyRate = avg.Float64

	if err := s.groupCounts(`SELECT industry, COUNT(*) FROM profiles GROUP BY industry`, st.ByIndustry); err != nil {
		return Stats{}, err
	}
	if err := s.groupCounts(`SELECT channel, COUNT(*) FROM messages GROUP BY channel`, st.ByChannel); err != nil {
		return Stats{}, err
	}
	return st, nil
}

func (s *Store) groupCounts(query string, dst map[string]int) error {
	rows, err := s.db.Query(query)
	if err != nil {
		return fmt.Errorf("grouping: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var k string
		var n int
		if err := rows.Scan(&k, &n); err != nil {
			return err
		}
		dst[k] = n
	}
	return rows.Err()
}

func (s *Store) queryProfiles(query string, args ...any) ([]profile.Profile, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying profiles: %w", err)
	}
	defer rows.Close()

	out := []profile.Profile{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning profile: %w", err)
		}
		p, err := decodeProfile(data)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func decodeProfile(data string) (profile.Profile, error) {
	var p profile.Profile
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return profile.Profile{}, fmt.Errorf("decoding profile: %w", err)
	}
	return p, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
