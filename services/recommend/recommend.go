package recommend

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"learnhub-backend/models/courses"
	"learnhub-backend/models/users"
)

const (
	// MaxRecommendations caps the response size.
	MaxRecommendations = 10

	// SearchWindow is how many of the user's most recent searches feed the
	// search-history source. Unrelated to users.SearchHistoryLimit.
	SearchWindow = 5

	interestLimit = 5
	languageLimit = 3
	searchLimit   = 3
)

// Catalog is the set of bounded, sorted candidate queries the engine runs
// against the course catalog. Each returns courses already filtered by
// excludeIDs, sorted by the source's own key, at most limit entries.
type Catalog interface {
	FindCoursesByInterest(interests []string, excludeIDs []uint, limit int) ([]courses.Course, error)
	FindCoursesByLanguage(languages []string, excludeIDs []uint, limit int) ([]courses.Course, error)
	FindCoursesBySearchTerms(terms []string, excludeIDs []uint, limit int) ([]courses.Course, error)
	FindMostPopularCourses(excludeIDs []uint, limit int) ([]courses.Course, error)
}

// UserStore loads a user profile with interests, known languages, search
// history (newest first) and enrollment state preloaded.
type UserStore interface {
	GetUserByID(id uint) (*users.User, error)
}

type Engine struct {
	Catalog Catalog
	Users   UserStore
}

// Context is the personalization state resolved once per request. A nil User
// is the anonymous path: popularity only.
type Context struct {
	User *users.User
}

func (c Context) personalized() bool { return c.User != nil }

// Resolve loads the acting user's profile. Unauthenticated callers and
// missing users degrade to the anonymous context; only store failures are
// reported as errors.
func (e *Engine) Resolve(userID uint, authenticated bool) (Context, error) {
	if !authenticated || userID == 0 {
		return Context{}, nil
	}
	user, err := e.Users.GetUserByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Context{}, nil
	}
	if err != nil {
		return Context{}, fmt.Errorf("load user %d: %w", userID, err)
	}
	return Context{User: user}, nil
}

// Recommend runs the candidate sources in priority order (interest, known
// language, recent searches, popularity backfill), accumulating up to
// MaxRecommendations unique courses. Courses the user enrolled in or
// completed never appear. The popularity source fills whatever the
// personalized sources left open, so the result is non-empty for any catalog
// with at least one non-excluded course.
func (e *Engine) Recommend(ctx Context) ([]courses.Course, error) {
	picked := newPickList(exclusionSet(ctx.User))

	if ctx.personalized() {
		user := ctx.User

		if interests := interestNames(user); len(interests) > 0 && picked.len() < MaxRecommendations {
			found, err := e.Catalog.FindCoursesByInterest(interests, picked.excludeIDs(), interestLimit)
			if err != nil {
				return nil, fmt.Errorf("interest candidates: %w", err)
			}
			picked.add(found)
		}

		if languages := languageNames(user); len(languages) > 0 && picked.len() < MaxRecommendations {
			found, err := e.Catalog.FindCoursesByLanguage(languages, picked.excludeIDs(), languageLimit)
			if err != nil {
				return nil, fmt.Errorf("language candidates: %w", err)
			}
			picked.add(found)
		}

		if terms := recentSearchTerms(user); len(terms) > 0 && picked.len() < MaxRecommendations {
			found, err := e.Catalog.FindCoursesBySearchTerms(terms, picked.excludeIDs(), searchLimit)
			if err != nil {
				return nil, fmt.Errorf("search-history candidates: %w", err)
			}
			picked.add(found)
		}
	}

	if remaining := MaxRecommendations - picked.len(); remaining > 0 {
		found, err := e.Catalog.FindMostPopularCourses(picked.excludeIDs(), remaining)
		if err != nil {
			return nil, fmt.Errorf("popularity backfill: %w", err)
		}
		picked.add(found)
	}

	return picked.ordered, nil
}

// exclusionSet collects every course the user already enrolled in or
// completed. Purely subtractive: it is never used as a relevance signal.
func exclusionSet(user *users.User) []uint {
	if user == nil {
		return nil
	}
	ids := make([]uint, 0, len(user.Enrollments)+len(user.Completions))
	seen := make(map[uint]struct{}, cap(ids))
	for _, e := range user.Enrollments {
		if _, ok := seen[e.CourseID]; !ok {
			seen[e.CourseID] = struct{}{}
			ids = append(ids, e.CourseID)
		}
	}
	for _, c := range user.Completions {
		if _, ok := seen[c.CourseID]; !ok {
			seen[c.CourseID] = struct{}{}
			ids = append(ids, c.CourseID)
		}
	}
	return ids
}

func interestNames(user *users.User) []string {
	names := make([]string, 0, len(user.Interests))
	for _, i := range user.Interests {
		if i.Name != "" {
			names = append(names, i.Name)
		}
	}
	return names
}

func languageNames(user *users.User) []string {
	names := make([]string, 0, len(user.KnownLanguages))
	for _, l := range user.KnownLanguages {
		if l.Name != "" {
			names = append(names, l.Name)
		}
	}
	return names
}

// recentSearchTerms returns the queries from the user's last SearchWindow
// searches. SearchHistory is expected newest first.
func recentSearchTerms(user *users.User) []string {
	history := user.SearchHistory
	if len(history) > SearchWindow {
		history = history[:SearchWindow]
	}
	terms := make([]string, 0, len(history))
	for _, record := range history {
		if record.Query != "" {
			terms = append(terms, record.Query)
		}
	}
	return terms
}

// pickList is an insertion-ordered accumulator keyed by course ID. Both the
// user's exclusion set and every course already picked count as seen, so a
// later source can never duplicate an earlier one no matter what the store
// returns.
type pickList struct {
	ordered []courses.Course
	exclude []uint
	seen    map[uint]struct{}
}

func newPickList(exclude []uint) *pickList {
	seen := make(map[uint]struct{}, len(exclude))
	for _, id := range exclude {
		seen[id] = struct{}{}
	}
	return &pickList{exclude: exclude, seen: seen}
}

func (p *pickList) len() int { return len(p.ordered) }

// excludeIDs is what the next source query must filter out: the exclusion
// set plus everything picked so far, in a stable order.
func (p *pickList) excludeIDs() []uint {
	ids := make([]uint, 0, len(p.exclude)+len(p.ordered))
	ids = append(ids, p.exclude...)
	for _, c := range p.ordered {
		ids = append(ids, c.ID)
	}
	return ids
}

func (p *pickList) add(found []courses.Course) {
	for _, c := range found {
		if len(p.ordered) >= MaxRecommendations {
			return
		}
		if _, ok := p.seen[c.ID]; ok {
			continue
		}
		p.seen[c.ID] = struct{}{}
		p.ordered = append(p.ordered, c)
	}
}
