// Package journey models the fixed, ordered onboarding journey: which steps
// exist, which are completed or locked, where the user currently is, and the
// data collected along the way.
package journey

// Step is one stage of the journey. Identity and order are fixed; only the
// Completed and Locked flags change at runtime.
type Step struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Path        string `json:"path"`
	Completed   bool   `json:"completed"`
	Locked      bool   `json:"locked"`
	Description string `json:"description"`
}

// Step identifiers referenced directly by page actions.
const (
	StepAuthentication = 1
	StepWelcome        = 2
	StepProfile        = 3
	StepRoadmap        = 4
)

// DefaultSteps returns the reference journey. Identifiers are a dense 1..N range
// and only the first step starts unlocked.
func DefaultSteps() []Step {
	return []Step{
		{ID: 1, Name: "Authentication", Path: "/auth", Description: "Login or create your account"},
		{ID: 2, Name: "Welcome", Path: "/welcome", Locked: true, Description: "Get introduced to Luminara"},
		{ID: 3, Name: "Profile Setup", Path: "/profile", Locked: true, Description: "Complete your personal profile"},
		{ID: 4, Name: "Journey Roadmap", Path: "/roadmap", Locked: true, Description: "View your learning pathway"},
		{
			ID: 5, Name: "Psychometric Assessment", Path: "/psychometric", Locked: true,
			Description: "Discover your personality and interests",
		},
		{
			ID: 6, Name: "Career Analysis", Path: "/career-analysis", Locked: true,
			Description: "Get personalized career recommendations",
		},
		{
			ID: 7, Name: "Course Mapping", Path: "/course-mapping", Locked: true,
			Description: "Explore degree programs and career paths",
		},
		{ID: 8, Name: "Learning Path", Path: "/learning-path", Locked: true, Description: "Access customized study materials"},
		{ID: 9, Name: "College Directory", Path: "/colleges", Locked: true, Description: "Find nearby government colleges"},
		{ID: 10, Name: "Timeline Tracker", Path: "/timeline", Locked: true, Description: "Track admission dates and deadlines"},
	}
}
