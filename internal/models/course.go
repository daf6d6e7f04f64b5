package models

// Table names, listed parent-first.
const (
	TableCourses    = "courses"
	TableUnits      = "units"
	TableSkills     = "skills"
	TableLessons    = "lessons"
	TableActivities = "activities"
)

// ResetOrder lists the content tables children-first, the only order in
// which they can be emptied without violating foreign keys.
var ResetOrder = []string{TableActivities, TableLessons, TableSkills, TableUnits, TableCourses}

// Course is the root of a learning path.
type Course struct {
	ID             int64         `json:"id"`
	Title          BilingualText `json:"title"`
	TargetLanguage string        `json:"target_language"`
	Description    BilingualText `json:"description"`
}

// Unit is an ordered child of a course.
type Unit struct {
	ID       int64         `json:"id"`
	CourseID int64         `json:"course_id"`
	Title    BilingualText `json:"title"`
	Order    int           `json:"order"`
}

// Skill is an ordered child of a unit.
type Skill struct {
	ID       int64         `json:"id"`
	UnitID   int64         `json:"unit_id"`
	Title    BilingualText `json:"title"`
	IconName string        `json:"icon_name"`
	Order    int           `json:"order"`
}

// Lesson is an ordered child of a skill. IsTest marks the unit test.
type Lesson struct {
	ID      int64         `json:"id"`
	SkillID int64         `json:"skill_id"`
	Title   BilingualText `json:"title"`
	Order   int           `json:"order"`
	IsTest  bool          `json:"is_test"`
}

// CourseListItem represents a course in list responses
type CourseListItem struct {
	ID             int64         `json:"id"`
	Title          BilingualText `json:"title"`
	Display        DisplayParts  `json:"display"`
	TargetLanguage string        `json:"target_language"`
	Description    BilingualText `json:"description"`
}

// CourseTree is a course with its units, skills and lessons, each level
// sorted by order.
type CourseTree struct {
	CourseListItem
	Units []UnitNode `json:"units"`
}

// UnitNode is a unit inside a CourseTree.
type UnitNode struct {
	Unit
	Display DisplayParts `json:"display"`
	Skills  []SkillNode  `json:"skills"`
}

// SkillNode is a skill inside a CourseTree.
type SkillNode struct {
	Skill
	Display DisplayParts `json:"display"`
	Lessons []LessonNode `json:"lessons"`
}

// LessonNode is a lesson inside a CourseTree.
type LessonNode struct {
	Lesson
	Display DisplayParts `json:"display"`
}
