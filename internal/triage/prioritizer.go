package triage

import (
	"strings"

	"github.com/campusops/issue-service/internal/domain"
)

var urgentKeywords = []string{
	"fire", "flood", "electrical", "hazard", "emergency", "urgent",
	"critical", "security",
}

var highPriorityKeywords = []string{
	"wifi down", "no internet", "projector not working", "broken",
	"leaking", "flooding",
}

// Prioritize derives the priority from report text and its category. Urgent
// keywords always dominate; the technology "not working" clause is a second
// disjunct of the high check, it does not gate the keyword match.
func Prioritize(title, description string, category domain.IssueCategory) domain.IssuePriority {
	text := strings.ToLower(title + " " + description)

	if containsAny(text, urgentKeywords) {
		return domain.IssuePriorityCritical
	}

	if containsAny(text, highPriorityKeywords) ||
		category == domain.CategoryTechnology && strings.Contains(text, "not working") {
		return domain.IssuePriorityHigh
	}

	if category == domain.CategoryUtilities || category == domain.CategoryFacilities {
		return domain.IssuePriorityMedium
	}

	return domain.IssuePriorityLow
}
