package profile

import (
	"fmt"
	"strings"
)

// Demo is a canned profile reachable by key, alias, or profile URL.
type Demo struct {
	Key     string
	Profile Profile
}

// Aliases returns every identifier that resolves to d: the key itself,
// "<first>_<platform>_profile", and the profile URL with and without scheme.
func (d Demo) Aliases() []string {
	out := []string{d.Key}
	first := strings.ToLower(d.Profile.FirstName())
	out = append(out, fmt.Sprintf("%s_%s_profile", first, demoPlatform(d.Profile.ProfileURL)))
	if u := d.Profile.ProfileURL; u != "" {
		bare := strings.TrimPrefix(strings.TrimPrefix(u, "https://"), "http://")
		out = append(out, u, bare, "www."+bare)
	}
	return out
}

func demoPlatform(url string) string {
	if strings.Contains(url, "github.com") {
		return "github"
	}
	return "linkedin"
}

// Demos returns the built-in demo profiles. Each call returns fresh copies.
func Demos() []Demo {
	return []Demo{
		{
			Key: "john_doe",
			Profile: Profile{
				ID:              "john_doe",
				Name:            "John Doe",
				Role:            "Senior Product Manager",
				Company:         "TechCorp Inc",
				Industry:        "Technology",
				Seniority:       Senior,
				Style:           Formal,
				Skills:          []string{"Product Management", "AI/ML", "Data Analysis", "Team Leadership", "Strategy"},
				Interests:       []string{"AI", "Startups", "Product Design", "Coffee", "Travel"},
				Education:       "MIT - Computer Science",
				Email:           "john.doe@techcorp.com",
				Location:        "San Francisco, CA",
				Bio:             "Building AI products | Coffee enthusiast | Always learning",
				About:           "10+ years in product management. Passionate about user-centric design and data-driven decisions. Love leading cross-functional teams.",
				YearsExperience: 10,
				ProfileURL:      "https://linkedin.com/in/johndoe",
				Source:          SourceDemo,
			},
		},
		{
			Key: "sarah_sharma",
			Profile: Profile{
				ID:              "sarah_sharma",
				Name:            "Sarah Sharma",
				Role:            "Founder & CEO",
				Company:         "StartupXYZ",
				Industry:        "SaaS",
				Seniority:       Executive,
				Style:           Mixed,
				Skills:          []string{"Fundraising", "Business Strategy", "Growth Hacking", "Leadership", "Sales"},
				Interests:       []string{"Startups", "Venture Capital", "Entrepreneurship", "Networking"},
				Education:       "Stanford - MBA",
				Email:           "sarah@startupxyz.com",
				Location:        "New York, NY",
				Bio:             "CEO @StartupXYZ | Building the future of collaboration 🚀",
				About:           "Founded StartupXYZ to help teams collaborate better. Experienced in fundraising, growth hacking, and scaling teams from 0 to 50+.",
				YearsExperience: 8,
				ProfileURL:      "https://linkedin.com/in/sarah-sharma",
				Source:          SourceDemo,
			},
		},
		{
			Key: "alex_kumar",
			Profile: Profile{
				ID:              "alex_kumar",
				Name:            "Alex Kumar",
				Role:            "Senior Software Engineer",
				Company:         "DevStudio",
				Industry:        "Technology",
				Seniority:       Senior,
				Style:           Casual,
				Skills:          []string{"Python", "Go", "Kubernetes", "System Design", "DevOps", "AWS"},
				Interests:       []string{"Open Source", "System Design", "Cloud Architecture", "Performance Optimization"},
				Education:       "IIT Delhi - Computer Science",
				Email:           "alex.kumar@devstudio.com",
				Location:        "Bangalore, India",
				Bio:             "Senior Eng @DevStudio | Python/Go enthusiast | Open source lover",
				About:           "8+ years building scalable systems. Love clean code, good architecture, and mentoring junior engineers. Active open source contributor.",
				YearsExperience: 8,
				ProfileURL:      "https://github.com/alexkumar",
				Source:          SourceDemo,
			},
		},
		{
			Key: "emma_wilson",
			Profile: Profile{
				ID:              "emma_wilson",
				Name:            "Emma Wilson",
				Role:            "Design Lead",
				Company:         "Design Studio",
				Industry:        "Design",
				Seniority:       Senior,
				Style:           Mixed,
				Skills:          []string{"UX/UI Design", "Figma", "User Research", "Design Systems", "Team Leadership"},
				Interests:       []string{"Design Thinking", "User Experience", "Accessibility", "Design Tools"},
				Education:       "Royal College of Art - Interaction Design",
				Email:           "emma.wilson@designstudio.io",
				Location:        "London, UK",
				Bio:             "Design Lead | UX/UI Enthusiast | User-centric design advocate",
				About:           "Passionate about creating beautiful and intuitive user experiences. Led design teams at multiple startups. Love collaborating with product and engineering.",
				YearsExperience: 6,
				ProfileURL:      "https://linkedin.com/in/emmawilson",
				Source:          SourceDemo,
			},
		},
		{
			Key: "michael_chen",
			Profile: Profile{
				ID:              "michael_chen",
				Name:            "Michael Chen",
				Role:            "Marketing Director",
				Company:         "Marketing Pro",
				Industry:        "Marketing",
				Seniority:       Executive,
				Style:           Formal,
				Skills:          []string{"Marketing Strategy", "Growth Hacking", "Product Marketing", "Analytics", "Team Leadership"},
				Interests:       []string{"Growth Marketing", "SaaS", "Content Marketing", "Community Building"},
				Education:       "University of Toronto - Commerce",
				Email:           "michael@marketingpro.com",
				Location:        "Toronto, Canada",
				Bio:             "Marketing Director | Growth Hacker | Data-driven marketer",
				About:           "15+ years in marketing and growth. Helped scale 5 companies from startup to Series B. Expert in product marketing and go-to-market strategy.",
				YearsExperience: 15,
				ProfileURL:      "https://linkedin.com/in/michaelchen",
				Source:          SourceDemo,
			},
		},
		{
			Key: "lisa_patel",
			Profile: Profile{
				ID:              "lisa_patel",
				Name:            "Lisa Patel",
				Role:            "Venture Capitalist",
				Company:         "Ventures Fund",
				Industry:        "Finance",
				Seniority:       Executive,
				Style:           Formal,
				Skills:          []string{"Venture Capital", "Investment Analysis", "Networking", "Startup Strategy", "Due Diligence"},
				Interests:       []string{"AI", "Climate Tech", "Fintech", "Entrepreneurship"},
				Education:       "Harvard Business School - MBA",
				Email:           "lisa@venturesfund.com",
				Location:        "Boston, MA",
				Bio:             "VC at Ventures Fund | Investing in AI and Climate Tech",
				About:           "Invested in 50+ startups. Focus on early-stage AI, climate tech, and fintech. Former entrepreneur with 2 successful exits.",
				YearsExperience: 12,
				ProfileURL:      "https://linkedin.com/in/lisapatel",
				Source:          SourceDemo,
			},
		},
	}
}
