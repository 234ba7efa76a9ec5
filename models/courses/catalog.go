package courses

import (
	"strings"

	"gorm.io/gorm"
)

// CatalogStore answers the bounded, sorted candidate queries the
// recommendation engine runs against the course catalog.
type CatalogStore struct {
	DB *gorm.DB
}

func (s *CatalogStore) FindCoursesByInterest(interests []string, excludeIDs []uint, limit int) ([]Course, error) {
	if len(interests) == 0 || limit <= 0 {
		return nil, nil
	}

	query := s.DB.Model(&Course{}).Distinct("courses.*").
		Joins("LEFT JOIN course_tags ON course_tags.course_id = courses.id").
		Joins("LEFT JOIN tags ON tags.id = course_tags.tag_id").
		Where(s.DB.Where("courses.category IN ?", interests).Or("tags.name IN ?", interests))

	query = excludeCourses(query, excludeIDs)

	var found []Course
	err := query.Order("courses.rating DESC").Order("courses.id ASC").
		Limit(limit).
		Preload("Tags").Preload("Languages").
		Find(&found).Error
	return found, err
}

func (s *CatalogStore) FindCoursesByLanguage(languages []string, excludeIDs []uint, limit int) ([]Course, error) {
	if len(languages) == 0 || limit <= 0 {
		return nil, nil
	}

	query := s.DB.Model(&Course{}).Distinct("courses.*").
		Joins("JOIN course_languages ON course_languages.course_id = courses.id").
		Joins("JOIN languages ON languages.id = course_languages.language_id").
		Where("languages.name IN ?", languages)

	query = excludeCourses(query, excludeIDs)

	var found []Course
	err := query.Order("courses.rating DESC").Order("courses.id ASC").
		Limit(limit).
		Preload("Tags").Preload("Languages").
		Find(&found).Error
	return found, err
}

// FindCoursesBySearchTerms matches any of the given terms as a
// case-insensitive substring of the course title, description or tag names.
// Terms are escaped so LIKE metacharacters in user queries match literally.
func (s *CatalogStore) FindCoursesBySearchTerms(terms []string, excludeIDs []uint, limit int) ([]Course, error) {
	if len(terms) == 0 || limit <= 0 {
		return nil, nil
	}

	var match *gorm.DB
	for _, term := range terms {
		pattern := "%" + escapeLike(term) + "%"
		cond := s.DB.Where("courses.title ILIKE ?", pattern).
			Or("courses.description ILIKE ?", pattern).
			Or("tags.name ILIKE ?", pattern)
		if match == nil {
			match = cond
		} else {
			match = match.Or(cond)
		}
	}

	query := s.DB.Model(&Course{}).Distinct("courses.*").
		Joins("LEFT JOIN course_tags ON course_tags.course_id = courses.id").
		Joins("LEFT JOIN tags ON tags.id = course_tags.tag_id").
		Where(match)

	query = excludeCourses(query, excludeIDs)

	var found []Course
	err := query.Order("courses.rating DESC").Order("courses.id ASC").
		Limit(limit).
		Preload("Tags").Preload("Languages").
		Find(&found).Error
	return found, err
}

func (s *CatalogStore) FindMostPopularCourses(excludeIDs []uint, limit int) ([]Course, error) {
	if limit <= 0 {
		return nil, nil
	}

	query := excludeCourses(s.DB.Model(&Course{}), excludeIDs)

	var found []Course
	err := query.Order("enrolled_students DESC").Order("rating DESC").Order("id ASC").
		Limit(limit).
		Preload("Tags").Preload("Languages").
		Find(&found).Error
	return found, err
}

func excludeCourses(query *gorm.DB, excludeIDs []uint) *gorm.DB {
	if len(excludeIDs) == 0 {
		return query
	}
	return query.Where("courses.id NOT IN ?", excludeIDs)
}

// escapeLike makes a user-supplied string safe to embed in a LIKE/ILIKE
// pattern: backslash, percent and underscore lose their meta meaning.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
